package auth

import (
	"github.com/kestrel-hr/kestrel/internal/rbac"
)

// Credentials is the slice of the employee record needed to authenticate.
type Credentials struct {
	EmployeeID   int64
	UserID       string
	PasswordHash string
	Active       bool
	RoleID       int64
}

// Role carries the role and its derived permission set for /auth/me.
type Role struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Permissions []rbac.Permission `json:"permissions"`
}

// Me is the current-user record resolved from a bearer token.
type Me struct {
	ID            int64  `json:"id"`
	UserID        string `json:"user_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PersonalEmail string `json:"personal_email"`
	Active        bool   `json:"active"`
	JobID         *int64 `json:"job_id,omitempty"`
	SectorID      *int64 `json:"sector_id,omitempty"`
	Role          *Role  `json:"role,omitempty"`
}
