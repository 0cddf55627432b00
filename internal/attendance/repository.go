package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Repository provides database access for clock events and hour records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- Clock events ---

// ListEvents returns clock events for an employee inside [start, end].
func (r *Repository) ListEvents(ctx context.Context, employeeID int64, start, end shared.Date) ([]ClockEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, event_date, event_type, source, device_id
		FROM clock_events
		WHERE employee_id = $1
		  AND event_date >= $2
		  AND event_date < $3::date + 1
		ORDER BY event_date`,
		employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list clock events: %w", err)
	}
	defer rows.Close()

	var out []ClockEvent
	for rows.Next() {
		var ev ClockEvent
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.EventDate, &ev.EventType, &ev.Source, &ev.DeviceID); err != nil {
			return nil, fmt.Errorf("scan clock event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ListAllEvents returns every clock event, newest first, for operators.
func (r *Repository) ListAllEvents(ctx context.Context, limit int) ([]ClockEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, event_date, event_type, source, device_id
		FROM clock_events ORDER BY event_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list clock events: %w", err)
	}
	defer rows.Close()

	var out []ClockEvent
	for rows.Next() {
		var ev ClockEvent
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.EventDate, &ev.EventType, &ev.Source, &ev.DeviceID); err != nil {
			return nil, fmt.Errorf("scan clock event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// LastEvent returns the most recent event for an employee, if any.
func (r *Repository) LastEvent(ctx context.Context, employeeID int64) (ClockEvent, error) {
	var ev ClockEvent
	err := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, event_date, event_type, source, device_id
		FROM clock_events WHERE employee_id = $1
		ORDER BY event_date DESC LIMIT 1`, employeeID).
		Scan(&ev.ID, &ev.EmployeeID, &ev.EventDate, &ev.EventType, &ev.Source, &ev.DeviceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ClockEvent{}, shared.ErrNotFound
	}
	if err != nil {
		return ClockEvent{}, fmt.Errorf("last clock event: %w", err)
	}
	return ev, nil
}

// GetEvent loads a single clock mark.
func (r *Repository) GetEvent(ctx context.Context, id int64) (ClockEvent, error) {
	var ev ClockEvent
	err := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, event_date, event_type, source, device_id
		FROM clock_events WHERE id = $1`, id).
		Scan(&ev.ID, &ev.EmployeeID, &ev.EventDate, &ev.EventType, &ev.Source, &ev.DeviceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ClockEvent{}, shared.ErrNotFound
	}
	if err != nil {
		return ClockEvent{}, fmt.Errorf("get clock event: %w", err)
	}
	return ev, nil
}

// EmployeeExists reports whether an employee row is present.
func (r *Repository) EmployeeExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM employee WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("employee exists: %w", err)
	}
	return exists, nil
}

// CreateEvent records a clock mark.
func (r *Repository) CreateEvent(ctx context.Context, ev ClockEvent) (ClockEvent, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO clock_events (employee_id, event_date, event_type, source, device_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		ev.EmployeeID, ev.EventDate, ev.EventType, ev.Source, ev.DeviceID).Scan(&ev.ID)
	if err != nil {
		return ClockEvent{}, fmt.Errorf("insert clock event: %w", err)
	}
	return ev, nil
}

// UpdateEvent stores a corrected clock mark.
func (r *Repository) UpdateEvent(ctx context.Context, ev ClockEvent) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clock_events
		SET event_date = $2, event_type = $3, source = $4, device_id = $5
		WHERE id = $1`,
		ev.ID, ev.EventDate, ev.EventType, ev.Source, ev.DeviceID)
	if err != nil {
		return fmt.Errorf("update clock event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AttendanceResume aggregates one day's marks per active employee: first
// check-in, last check-out and total event count. Employees without marks
// still appear with a zero count.
func (r *Repository) AttendanceResume(ctx context.Context, day shared.Date) ([]ResumeRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.first_name, e.last_name,
			MIN(ce.event_date) FILTER (WHERE ce.event_type = 'in'),
			MAX(ce.event_date) FILTER (WHERE ce.event_type = 'out'),
			COUNT(ce.id)
		FROM employee e
		LEFT JOIN clock_events ce
			ON ce.employee_id = e.id AND ce.event_date::date = $1
		WHERE e.active
		GROUP BY e.id, e.first_name, e.last_name
		ORDER BY e.last_name, e.first_name`, day)
	if err != nil {
		return nil, fmt.Errorf("attendance resume: %w", err)
	}
	defer rows.Close()

	var out []ResumeRow
	for rows.Next() {
		var row ResumeRow
		if err := rows.Scan(&row.EmployeeID, &row.FirstName, &row.LastName,
			&row.FirstCheckIn, &row.LastCheckOut, &row.CheckCount); err != nil {
			return nil, fmt.Errorf("scan resume row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteEvent removes a clock mark.
func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clock_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clock event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// --- Hour records ---

// EnsureConcept finds a concept by description, creating it when missing.
func (r *Repository) EnsureConcept(ctx context.Context, description string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM concept WHERE description = $1`, description).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("find concept: %w", err)
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO concept (description, is_deletable)
		VALUES ($1, false)
		ON CONFLICT (description) DO UPDATE SET description = EXCLUDED.description
		RETURNING id`, description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure concept: %w", err)
	}
	return id, nil
}

// ReplaceDay removes the non-archived records of one employee day and
// inserts the freshly calculated ones in a single transaction. Archived
// records survive recalculation.
func (r *Repository) ReplaceDay(ctx context.Context, employeeID, shiftID int64, day shared.Date, outcomes []DayOutcome, conceptIDs map[string]int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace day: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM employee_hours
		WHERE employee_id = $1 AND work_date = $2 AND payroll_status <> $3`,
		employeeID, day, PayStatusArchived)
	if err != nil {
		return fmt.Errorf("clear day records: %w", err)
	}

	for _, out := range outcomes {
		conceptID, ok := conceptIDs[out.Concept]
		if !ok {
			return fmt.Errorf("no concept id for %q", out.Concept)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO employee_hours (
				employee_id, concept_id, shift_id, check_count, work_date,
				register_type, first_check_in, last_check_out, summary_time,
				extra_hours, payroll_status, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			employeeID, conceptID, shiftID, out.CheckCount, out.WorkDate,
			out.RegisterType, out.FirstCheckIn, out.LastCheckOut, out.SummaryTime,
			out.ExtraHours, out.PayrollStatus, out.Notes)
		if err != nil {
			return fmt.Errorf("insert hour record: %w", err)
		}
	}
	return tx.Commit(ctx)
}

const hourColumns = `
	h.id, h.employee_id, h.concept_id, c.description, h.shift_id, h.check_count,
	h.work_date, h.register_type, h.first_check_in, h.last_check_out,
	h.summary_time, h.extra_hours, h.payroll_status, h.notes`

func scanHourRecord(row pgx.Row) (HourRecord, error) {
	var h HourRecord
	err := row.Scan(
		&h.ID, &h.EmployeeID, &h.ConceptID, &h.Concept, &h.ShiftID, &h.CheckCount,
		&h.WorkDate, &h.RegisterType, &h.FirstCheckIn, &h.LastCheckOut,
		&h.SummaryTime, &h.ExtraHours, &h.PayrollStatus, &h.Notes,
	)
	return h, err
}

// ListHours returns hour records for one employee ordered by work date.
func (r *Repository) ListHours(ctx context.Context, employeeID int64, start, end shared.Date) ([]HourRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+hourColumns+`
		FROM employee_hours h
		JOIN concept c ON c.id = h.concept_id
		WHERE h.employee_id = $1 AND h.work_date BETWEEN $2 AND $3
		ORDER BY h.work_date, h.id`,
		employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list hour records: %w", err)
	}
	defer rows.Close()
	return collectHours(rows)
}

// PendingValidation returns records awaiting an extra-hours decision.
func (r *Repository) PendingValidation(ctx context.Context, f HoursFilter) ([]HourRecord, error) {
	conditions := []string{"h.payroll_status = $1"}
	args := []any{PayStatusPendingValidation}
	if len(f.EmployeeIDs) > 0 {
		args = append(args, f.EmployeeIDs)
		conditions = append(conditions, fmt.Sprintf("h.employee_id = ANY($%d)", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conditions = append(conditions, fmt.Sprintf("h.work_date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conditions = append(conditions, fmt.Sprintf("h.work_date <= $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT`+hourColumns+`
		FROM employee_hours h
		JOIN concept c ON c.id = h.concept_id
		WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY h.work_date, h.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending validation: %w", err)
	}
	defer rows.Close()
	return collectHours(rows)
}

func collectHours(rows pgx.Rows) ([]HourRecord, error) {
	var out []HourRecord
	for rows.Next() {
		h, err := scanHourRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hour record: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateHour patches an hour record's payroll status and notes.
func (r *Repository) UpdateHour(ctx context.Context, id int64, patch HourPatch) error {
	var sets []string
	args := []any{id}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("payroll_status = $%d", len(args)))
	}
	if patch.Notes != nil {
		args = append(args, *patch.Notes)
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE employee_hours SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("update hour record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// EmployeeShift loads the shift assignment needed for a calculation run.
func (r *Repository) EmployeeShift(ctx context.Context, employeeID int64) (shiftID int64, shiftType string, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT s.id, s.type
		FROM employee e
		JOIN shift s ON s.id = e.shift_id
		WHERE e.id = $1`, employeeID).Scan(&shiftID, &shiftType)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", shared.ErrNotFound
	}
	if err != nil {
		return 0, "", fmt.Errorf("employee shift: %w", err)
	}
	return shiftID, shiftType, nil
}
