package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-hr/kestrel/internal/attendance"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// PayrollRefreshJob recomputes hour records. The nightly cron runs it
// with an empty payload, covering the previous day for every active
// employee with an assigned shift.
type PayrollRefreshJob struct {
	Pool    *pgxpool.Pool
	Service *attendance.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewPayrollRefreshJob initialises the payroll refresh handler.
func NewPayrollRefreshJob(pool *pgxpool.Pool, service *attendance.Service, logger *slog.Logger) *PayrollRefreshJob {
	return &PayrollRefreshJob{
		Pool:    pool,
		Service: service,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the refresh.
func (j *PayrollRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("payroll refresh: handler not configured")
	}
	var payload PayrollRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start, end, err := j.window(payload)
	if err != nil {
		j.Logger.Warn("payroll refresh: bad window", slog.Any("error", err))
		return asynq.SkipRetry
	}

	ids := payload.EmployeeIDs
	if len(ids) == 0 {
		ids, err = j.activeEmployees(ctx)
		if err != nil {
			return err
		}
	}

	j.Logger.Info("starting payroll refresh",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("employees", len(ids)))

	var failed int
	for _, id := range ids {
		if err := j.Service.Calculate(ctx, id, start, end); err != nil {
			// Employees without a shift cannot be calculated; skip them.
			failed++
			j.Logger.Warn("payroll refresh: employee skipped",
				slog.Int64("employee_id", id), slog.Any("error", err))
		}
	}
	if failed == len(ids) && len(ids) > 0 {
		return fmt.Errorf("payroll refresh: all %d employees failed", failed)
	}
	return nil
}

func (j *PayrollRefreshJob) window(payload PayrollRefreshPayload) (shared.Date, shared.Date, error) {
	if payload.StartDate == "" && payload.EndDate == "" {
		yesterday := shared.DateOf(j.clock().AddDate(0, 0, -1))
		return yesterday, yesterday, nil
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil {
		return shared.Date{}, shared.Date{}, err
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		return shared.Date{}, shared.Date{}, err
	}
	if end.Before(start.Time) {
		return shared.Date{}, shared.Date{}, shared.ErrInvalidRange
	}
	return start, end, nil
}

func (j *PayrollRefreshJob) activeEmployees(ctx context.Context) ([]int64, error) {
	rows, err := j.Pool.Query(ctx,
		`SELECT id FROM employee WHERE active AND shift_id IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("payroll refresh: list employees: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("payroll refresh: scan employee: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
