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
)

// AttendanceAnomalyScanJob looks for employees whose recent days have a
// check-in without a matching check-out. Payroll marks those days not
// payable, so surfacing them early lets HR fix the marks before the run.
type AttendanceAnomalyScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	clock  func() time.Time
}

// NewAttendanceAnomalyScanJob initialises the scan handler.
func NewAttendanceAnomalyScanJob(pool *pgxpool.Pool, logger *slog.Logger) *AttendanceAnomalyScanJob {
	return &AttendanceAnomalyScanJob{
		Pool:   pool,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type danglingCheckIn struct {
	EmployeeID int64
	UserID     string
	Day        time.Time
	Ins        int
	Outs       int
}

// Handle executes the scan.
func (j *AttendanceAnomalyScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("anomaly scan: handler not configured")
	}
	var payload AnomalyScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WindowDays <= 0 {
		payload.WindowDays = 7
	}

	since := j.clock().AddDate(0, 0, -payload.WindowDays)
	anomalies, err := j.scan(ctx, since)
	if err != nil {
		j.Logger.Error("attendance scan failed", slog.Any("error", err))
		return err
	}

	for _, a := range anomalies {
		j.Logger.Warn("dangling check-in detected",
			slog.Int64("employee_id", a.EmployeeID),
			slog.String("user_id", a.UserID),
			slog.String("day", a.Day.Format("2006-01-02")),
			slog.Int("ins", a.Ins),
			slog.Int("outs", a.Outs))
	}
	j.Logger.Info("attendance scan finished",
		slog.Int("window_days", payload.WindowDays),
		slog.Int("anomalies", len(anomalies)))
	return nil
}

func (j *AttendanceAnomalyScanJob) scan(ctx context.Context, since time.Time) ([]danglingCheckIn, error) {
	rows, err := j.Pool.Query(ctx, `
		SELECT ce.employee_id, e.user_id, ce.event_date::date AS day,
		       COUNT(*) FILTER (WHERE ce.event_type = 'in')  AS ins,
		       COUNT(*) FILTER (WHERE ce.event_type = 'out') AS outs
		FROM clock_events ce
		JOIN employee e ON e.id = ce.employee_id
		WHERE ce.event_date >= $1
		GROUP BY ce.employee_id, e.user_id, day
		HAVING COUNT(*) FILTER (WHERE ce.event_type = 'in') >
		       COUNT(*) FILTER (WHERE ce.event_type = 'out')
		ORDER BY day, ce.employee_id`, since)
	if err != nil {
		return nil, fmt.Errorf("anomaly scan: query: %w", err)
	}
	defer rows.Close()

	var out []danglingCheckIn
	for rows.Next() {
		var a danglingCheckIn
		if err := rows.Scan(&a.EmployeeID, &a.UserID, &a.Day, &a.Ins, &a.Outs); err != nil {
			return nil, fmt.Errorf("anomaly scan: scan row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
