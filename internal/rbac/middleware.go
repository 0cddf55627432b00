package rbac

import (
	"log/slog"
	"net/http"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Middleware wires permission checks into HTTP handlers. Requests without a
// principal are treated as holding no permissions (fail closed).
type Middleware struct {
	Logger *slog.Logger
}

// RequireAny ensures the caller holds at least one of the given permission
// ids. With no ids the route is open to any authenticated session.
func (m Middleware) RequireAny(perms ...int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := shared.PrincipalFromContext(r.Context())
			if p == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if CanAccess(perms, p.Permissions) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("permission denied",
					slog.Int64("employee_id", p.EmployeeID),
					slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission")
		})
	}
}
