package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindCredentials(ctx context.Context, userID string) (*Credentials, error)
	FindMe(ctx context.Context, employeeID int64) (*Me, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindCredentials fetches login credentials by the employee's user id.
func (r *PGRepository) FindCredentials(ctx context.Context, userID string) (*Credentials, error) {
	var c Credentials
	var hash *string
	var roleID *int64
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, password, active, role_id FROM employee WHERE user_id = $1`,
		userID).Scan(&c.EmployeeID, &c.UserID, &hash, &c.Active, &roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if hash != nil {
		c.PasswordHash = *hash
	}
	if roleID != nil {
		c.RoleID = *roleID
	}
	return &c, nil
}

// FindMe resolves the current-user record including role and permissions.
func (r *PGRepository) FindMe(ctx context.Context, employeeID int64) (*Me, error) {
	var me Me
	var roleID *int64
	var roleName, roleDesc *string
	err := r.pool.QueryRow(ctx, `
		SELECT e.id, e.user_id, e.first_name, e.last_name, e.personal_email, e.active,
		       e.job_id, j.sector_id, e.role_id, r.name, r.description
		FROM employee e
		LEFT JOIN job j ON j.id = e.job_id
		LEFT JOIN role r ON r.id = e.role_id
		WHERE e.id = $1`, employeeID).Scan(
		&me.ID, &me.UserID, &me.FirstName, &me.LastName, &me.PersonalEmail, &me.Active,
		&me.JobID, &me.SectorID, &roleID, &roleName, &roleDesc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if roleID == nil {
		return &me, nil
	}
	role := &Role{ID: *roleID}
	if roleName != nil {
		role.Name = *roleName
	}
	if roleDesc != nil {
		role.Description = *roleDesc
	}
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.description
		FROM role_permission rp
		JOIN permission p ON p.id = rp.permission_id
		WHERE rp.role_id = $1
		ORDER BY p.id`, *roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p rbac.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		role.Permissions = append(role.Permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	me.Role = role
	return &me, nil
}

var _ Repository = (*PGRepository)(nil)
