package leaves

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository provides database access for leave requests.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leaveColumns = `
	l.id, l.employee_id, l.request_date, l.start_date, l.end_date, l.file,
	l.leave_type_id, l.reason, l.document_status, l.request_status,
	l.observations, l.created_at, l.updated_at,
	t.id, t.type, t.justification_required`

func scanLeave(row pgx.Row) (Leave, error) {
	var l Leave
	var t LeaveType
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.RequestDate, &l.StartDate, &l.EndDate, &l.File,
		&l.LeaveTypeID, &l.Reason, &l.DocumentStatus, &l.RequestStatus,
		&l.Observations, &l.CreatedAt, &l.UpdatedAt,
		&t.ID, &t.Type, &t.JustificationRequired,
	)
	if err != nil {
		return Leave{}, err
	}
	l.LeaveType = &t
	l.BusinessDays = shared.CountBusinessDays(l.StartDate.Time, l.EndDate.Time)
	return l, nil
}

// List returns leave requests matching the filters, ordered by id.
func (r *Repository) List(ctx context.Context, f Filters) ([]Leave, error) {
	conditions := []string{}
	args := []any{}
	add := func(cond string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if f.DocumentStatus != nil {
		add("l.document_status = $%d", *f.DocumentStatus)
	}
	if f.RequestStatus != nil {
		add("l.request_status = $%d", *f.RequestStatus)
	}
	if f.EmployeeID != nil {
		add("l.employee_id = $%d", *f.EmployeeID)
	}

	query := `SELECT` + leaveColumns + `
		FROM leave l
		JOIN leave_type t ON t.id = l.leave_type_id`
	if f.SectorID != nil {
		add("j.sector_id = $%d", *f.SectorID)
		query += `
		JOIN employee e ON e.id = l.employee_id
		JOIN job j ON j.id = e.job_id`
	}
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY l.id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	defer rows.Close()

	var out []Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Get loads one leave request with its type.
func (r *Repository) Get(ctx context.Context, id int64) (Leave, error) {
	l, err := scanLeave(r.pool.QueryRow(ctx, `
		SELECT`+leaveColumns+`
		FROM leave l
		JOIN leave_type t ON t.id = l.leave_type_id
		WHERE l.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Leave{}, shared.ErrNotFound
	}
	if err != nil {
		return Leave{}, fmt.Errorf("get leave: %w", err)
	}
	return l, nil
}

// Create inserts a leave request.
func (r *Repository) Create(ctx context.Context, l Leave) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leave (
			employee_id, request_date, start_date, end_date, file,
			leave_type_id, reason, document_status, request_status,
			created_at, updated_at
		) VALUES ($1, CURRENT_DATE, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id`,
		l.EmployeeID, l.StartDate, l.EndDate, l.File,
		l.LeaveTypeID, l.Reason, l.DocumentStatus, l.RequestStatus,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert leave: %w", err)
	}
	return id, nil
}

// Save persists the mutable fields of a leave request.
func (r *Repository) Save(ctx context.Context, l Leave) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leave
		SET file = $2, document_status = $3, request_status = $4,
			observations = $5, updated_at = now()
		WHERE id = $1`,
		l.ID, l.File, l.DocumentStatus, l.RequestStatus, l.Observations)
	if err != nil {
		return fmt.Errorf("save leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a leave request.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leave WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Leave types ---

func (r *Repository) ListTypes(ctx context.Context) ([]LeaveType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, justification_required FROM leave_type ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	defer rows.Close()

	var out []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.Type, &t.JustificationRequired); err != nil {
			return nil, fmt.Errorf("scan leave type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) GetType(ctx context.Context, id int64) (LeaveType, error) {
	var t LeaveType
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, justification_required FROM leave_type WHERE id = $1`, id).
		Scan(&t.ID, &t.Type, &t.JustificationRequired)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, shared.ErrNotFound
	}
	if err != nil {
		return LeaveType{}, fmt.Errorf("get leave type: %w", err)
	}
	return t, nil
}

func (r *Repository) CreateType(ctx context.Context, t LeaveType) (LeaveType, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leave_type (type, justification_required)
		VALUES ($1, $2) RETURNING id`,
		t.Type, t.JustificationRequired).Scan(&t.ID)
	if err != nil {
		return LeaveType{}, fmt.Errorf("create leave type: %w", err)
	}
	return t, nil
}
