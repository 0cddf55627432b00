package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Middleware resolves a bearer token into a request principal. Routes that
// need one are gated by rbac.Middleware; requests without (or with an
// invalid) token simply proceed without a principal.
type Middleware struct {
	Tokens  *TokenManager
	Service *Service
	RBAC    *rbac.Service
	Logger  *slog.Logger
}

// Authenticate parses the Authorization header and attaches the principal,
// with its permission set derived from the employee's current role, to the
// request context.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.Tokens.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		principal := &shared.Principal{
			EmployeeID: claims.EmployeeID,
			UserID:     claims.UserID,
		}
		me, err := m.Service.Me(r.Context(), claims.EmployeeID)
		if err != nil || !me.Active {
			next.ServeHTTP(w, r)
			return
		}
		if me.Role != nil {
			principal.RoleID = me.Role.ID
			perms, err := m.RBAC.EffectivePermissions(r.Context(), me.Role.ID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("resolve permissions", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			principal.Permissions = perms
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
