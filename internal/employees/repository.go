package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/masterdata"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository provides database access for employee records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `
	e.id, e.user_id, e.first_name, e.last_name, e.dni, e.type_dni,
	e.personal_email, e.active, e.role_id, e.phone, e.salary, e.job_id,
	e.shift_id, e.birth_date, e.hire_date, e.photo, e.address_street,
	e.address_city, e.address_cp, e.address_state_id, e.address_country_id`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.FirstName, &e.LastName, &e.DNI, &e.TypeDNI,
		&e.PersonalEmail, &e.Active, &e.RoleID, &e.Phone, &e.Salary, &e.JobID,
		&e.ShiftID, &e.BirthDate, &e.HireDate, &e.Photo, &e.AddressStreet,
		&e.AddressCity, &e.AddressCP, &e.AddressStateID, &e.AddressCountryID,
	)
	return e, err
}

// CountActive returns the number of active employees.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employee WHERE active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active employees: %w", err)
	}
	return n, nil
}

// List returns employees ordered by id, optionally restricted to a sector
// through the job relation.
func (r *Repository) List(ctx context.Context, sectorID *int64) ([]Employee, error) {
	query := `SELECT` + employeeColumns + ` FROM employee e ORDER BY e.id`
	args := []any{}
	if sectorID != nil {
		query = `SELECT` + employeeColumns + `
			FROM employee e
			JOIN job j ON j.id = e.job_id
			WHERE j.sector_id = $1
			ORDER BY e.id`
		args = append(args, *sectorID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get loads an employee with its job, shift, address references, work
// histories and documents.
func (r *Repository) Get(ctx context.Context, id int64) (Employee, error) {
	e, err := scanEmployee(r.pool.QueryRow(ctx,
		`SELECT`+employeeColumns+` FROM employee e WHERE e.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, shared.ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("get employee: %w", err)
	}
	if err := r.loadRelations(ctx, &e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (r *Repository) loadRelations(ctx context.Context, e *Employee) error {
	if e.JobID != nil {
		var j masterdata.Job
		var s masterdata.Sector
		err := r.pool.QueryRow(ctx, `
			SELECT j.id, j.name, j.sector_id, s.id, s.name
			FROM job j JOIN sector s ON s.id = j.sector_id
			WHERE j.id = $1`, *e.JobID).
			Scan(&j.ID, &j.Name, &j.SectorID, &s.ID, &s.Name)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load employee job: %w", err)
		}
		if err == nil {
			j.Sector = &s
			e.Job = &j
		}
	}
	if e.ShiftID != nil {
		var s masterdata.Shift
		err := r.pool.QueryRow(ctx, `
			SELECT id, description, type, working_hours, working_days
			FROM shift WHERE id = $1`, *e.ShiftID).
			Scan(&s.ID, &s.Description, &s.Type, &s.WorkingHours, &s.WorkingDays)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load employee shift: %w", err)
		}
		if err == nil {
			e.Shift = &s
		}
	}
	if e.AddressStateID != nil {
		var st masterdata.State
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, country_id FROM state WHERE id = $1`, *e.AddressStateID).
			Scan(&st.ID, &st.Name, &st.CountryID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load employee state: %w", err)
		}
		if err == nil {
			e.State = &st
		}
	}
	if e.AddressCountryID != nil {
		var c masterdata.Country
		err := r.pool.QueryRow(ctx,
			`SELECT id, name FROM country WHERE id = $1`, *e.AddressCountryID).
			Scan(&c.ID, &c.Name)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load employee country: %w", err)
		}
		if err == nil {
			e.Country = &c
		}
	}

	histories, err := r.ListWorkHistories(ctx, e.ID)
	if err != nil {
		return err
	}
	e.WorkHistories = histories
	if e.WorkHistories == nil {
		e.WorkHistories = []WorkHistory{}
	}

	docs, err := r.ListDocuments(ctx, e.ID)
	if err != nil {
		return err
	}
	e.Documents = docs
	if e.Documents == nil {
		e.Documents = []Document{}
	}
	return nil
}

// UserIDExists reports whether a login identifier is already taken.
func (r *Repository) UserIDExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM employee WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user id: %w", err)
	}
	return exists, nil
}

// Create inserts an employee with its initial work histories and documents
// inside one transaction.
func (r *Repository) Create(ctx context.Context, userID string, passwordHash *string, in NewEmployee) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin create employee: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO employee (
			user_id, first_name, last_name, dni, type_dni, personal_email,
			active, role_id, password, phone, salary, job_id, shift_id,
			birth_date, hire_date, photo, address_street, address_city,
			address_cp, address_state_id, address_country_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING id`,
		userID, in.FirstName, in.LastName, in.DNI, in.TypeDNI, in.PersonalEmail,
		in.Active, in.RoleID, passwordHash, in.Phone, in.Salary, in.JobID, in.ShiftID,
		in.BirthDate, in.HireDate, in.Photo, in.AddressStreet, in.AddressCity,
		in.AddressCP, in.AddressStateID, in.AddressCountryID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert employee: %w", err)
	}

	for _, wh := range in.WorkHistories {
		_, err = tx.Exec(ctx, `
			INSERT INTO work_history (employee_id, job_id, from_date, to_date, company_name, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, wh.JobID, wh.FromDate, wh.ToDate, wh.CompanyName, wh.Notes)
		if err != nil {
			return 0, fmt.Errorf("insert work history: %w", err)
		}
	}
	for _, doc := range in.Documents {
		_, err = tx.Exec(ctx, `
			INSERT INTO document (employee_id, name, extension, creation_date, file, active)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, doc.Name, doc.Extension, doc.CreationDate, doc.File, doc.Active)
		if err != nil {
			return 0, fmt.Errorf("insert document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create employee: %w", err)
	}
	return id, nil
}

// Update applies a partial update. Only non-nil patch fields change.
func (r *Repository) Update(ctx context.Context, id int64, patch EmployeePatch) error {
	sets := []string{}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.DNI != nil {
		add("dni", *patch.DNI)
	}
	if patch.TypeDNI != nil {
		add("type_dni", *patch.TypeDNI)
	}
	if patch.PersonalEmail != nil {
		add("personal_email", *patch.PersonalEmail)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if patch.RoleID != nil {
		add("role_id", *patch.RoleID)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Salary != nil {
		add("salary", *patch.Salary)
	}
	if patch.JobID != nil {
		add("job_id", *patch.JobID)
	}
	if patch.ShiftID != nil {
		add("shift_id", *patch.ShiftID)
	}
	if patch.BirthDate != nil {
		add("birth_date", *patch.BirthDate)
	}
	if patch.HireDate != nil {
		add("hire_date", *patch.HireDate)
	}
	if patch.Photo != nil {
		add("photo", patch.Photo)
	}
	if patch.AddressStreet != nil {
		add("address_street", *patch.AddressStreet)
	}
	if patch.AddressCity != nil {
		add("address_city", *patch.AddressCity)
	}
	if patch.AddressCP != nil {
		add("address_cp", *patch.AddressCP)
	}
	if patch.AddressStateID != nil {
		add("address_state_id", *patch.AddressStateID)
	}
	if patch.AddressCountryID != nil {
		add("address_country_id", *patch.AddressCountryID)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE employee SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces an employee's password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE employee SET password = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an employee. Dependent rows cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Work histories ---

func (r *Repository) ListWorkHistories(ctx context.Context, employeeID int64) ([]WorkHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, job_id, from_date, to_date, company_name, notes
		FROM work_history WHERE employee_id = $1 ORDER BY id`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list work histories: %w", err)
	}
	defer rows.Close()

	var out []WorkHistory
	for rows.Next() {
		var wh WorkHistory
		if err := rows.Scan(&wh.ID, &wh.EmployeeID, &wh.JobID, &wh.FromDate, &wh.ToDate, &wh.CompanyName, &wh.Notes); err != nil {
			return nil, fmt.Errorf("scan work history: %w", err)
		}
		out = append(out, wh)
	}
	return out, rows.Err()
}

func (r *Repository) CreateWorkHistory(ctx context.Context, wh WorkHistory) (WorkHistory, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO work_history (employee_id, job_id, from_date, to_date, company_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		wh.EmployeeID, wh.JobID, wh.FromDate, wh.ToDate, wh.CompanyName, wh.Notes).Scan(&wh.ID)
	if err != nil {
		return WorkHistory{}, fmt.Errorf("create work history: %w", err)
	}
	return wh, nil
}

func (r *Repository) UpdateWorkHistory(ctx context.Context, wh WorkHistory) (WorkHistory, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE work_history
		SET job_id = $3, from_date = $4, to_date = $5, company_name = $6, notes = $7
		WHERE id = $1 AND employee_id = $2`,
		wh.ID, wh.EmployeeID, wh.JobID, wh.FromDate, wh.ToDate, wh.CompanyName, wh.Notes)
	if err != nil {
		return WorkHistory{}, fmt.Errorf("update work history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return WorkHistory{}, shared.ErrNotFound
	}
	return wh, nil
}

func (r *Repository) DeleteWorkHistory(ctx context.Context, employeeID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM work_history WHERE id = $1 AND employee_id = $2`, id, employeeID)
	if err != nil {
		return fmt.Errorf("delete work history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Documents ---

func (r *Repository) ListDocuments(ctx context.Context, employeeID int64) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, name, extension, creation_date, file, active
		FROM document WHERE employee_id = $1 ORDER BY id`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Name, &d.Extension, &d.CreationDate, &d.File, &d.Active); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) GetDocument(ctx context.Context, employeeID, id int64) (Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, name, extension, creation_date, file, active
		FROM document WHERE id = $1 AND employee_id = $2`, id, employeeID).
		Scan(&d.ID, &d.EmployeeID, &d.Name, &d.Extension, &d.CreationDate, &d.File, &d.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, shared.ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (r *Repository) CreateDocument(ctx context.Context, d Document) (Document, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document (employee_id, name, extension, creation_date, file, active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		d.EmployeeID, d.Name, d.Extension, d.CreationDate, d.File, d.Active).Scan(&d.ID)
	if err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return d, nil
}

func (r *Repository) UpdateDocument(ctx context.Context, d Document) (Document, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE document
		SET name = $3, extension = $4, creation_date = $5, file = $6, active = $7
		WHERE id = $1 AND employee_id = $2`,
		d.ID, d.EmployeeID, d.Name, d.Extension, d.CreationDate, d.File, d.Active)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Document{}, shared.ErrNotFound
	}
	return d, nil
}

func (r *Repository) DeleteDocument(ctx context.Context, employeeID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM document WHERE id = $1 AND employee_id = $2`, id, employeeID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
