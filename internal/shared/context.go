package shared

import "context"

// Principal describes the authenticated employee attached to a request.
// The permission set is always derived from the role, never supplied by
// the caller.
type Principal struct {
	EmployeeID  int64
	UserID      string
	RoleID      int64
	Permissions []int64
}

// HasPermission reports whether the principal holds the given permission id.
func (p *Principal) HasPermission(id int64) bool {
	if p == nil {
		return false
	}
	for _, held := range p.Permissions {
		if held == id {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context. Nil means the
// request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
