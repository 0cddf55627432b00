package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Service orchestrates attendance capture and payroll hour calculation.
type Service struct {
	logger *slog.Logger
	repo   *Repository
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo *Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// --- Clock events ---

// RecordEvent stores a clock mark after validating its type.
func (s *Service) RecordEvent(ctx context.Context, ev ClockEvent) (ClockEvent, error) {
	if !validEventType(ev.EventType) {
		return ClockEvent{}, fmt.Errorf("%w: event_type must be in or out", httpx.ErrValidation)
	}
	if ev.EmployeeID <= 0 {
		return ClockEvent{}, fmt.Errorf("%w: employee_id is required", httpx.ErrValidation)
	}
	if ev.EventDate.IsZero() {
		ev.EventDate = time.Now().UTC()
	}
	exists, err := s.repo.EmployeeExists(ctx, ev.EmployeeID)
	if err != nil {
		return ClockEvent{}, err
	}
	if !exists {
		return ClockEvent{}, fmt.Errorf("employee %d: %w", ev.EmployeeID, shared.ErrNotFound)
	}
	return s.repo.CreateEvent(ctx, ev)
}

// UpdateEvent corrects a clock mark. The mark stays with its employee;
// a patch naming a different employee is rejected.
func (s *Service) UpdateEvent(ctx context.Context, id int64, patch EventPatch) (ClockEvent, error) {
	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return ClockEvent{}, err
	}
	ev, err = applyEventPatch(ev, patch)
	if err != nil {
		return ClockEvent{}, err
	}
	if err := s.repo.UpdateEvent(ctx, ev); err != nil {
		return ClockEvent{}, err
	}
	return ev, nil
}

func applyEventPatch(ev ClockEvent, patch EventPatch) (ClockEvent, error) {
	if patch.EmployeeID != nil && *patch.EmployeeID != ev.EmployeeID {
		return ClockEvent{}, fmt.Errorf("%w: a clock event cannot move to another employee", httpx.ErrValidation)
	}
	if patch.EventType != nil {
		if !validEventType(*patch.EventType) {
			return ClockEvent{}, fmt.Errorf("%w: event_type must be in or out", httpx.ErrValidation)
		}
		ev.EventType = *patch.EventType
	}
	if patch.EventDate != nil {
		ev.EventDate = *patch.EventDate
	}
	if patch.Source != nil {
		ev.Source = *patch.Source
	}
	if patch.DeviceID != nil {
		ev.DeviceID = *patch.DeviceID
	}
	return ev, nil
}

// AttendanceResume returns the per-employee first in, last out and mark
// count for one day. A zero date means today.
func (s *Service) AttendanceResume(ctx context.Context, day shared.Date) ([]ResumeRow, error) {
	if day.IsZero() {
		day = shared.DateOf(time.Now().UTC())
	}
	return s.repo.AttendanceResume(ctx, day)
}

// NextEventType suggests whether the employee's next mark should be an in
// or an out, based on their latest event.
func (s *Service) NextEventType(ctx context.Context, employeeID int64) (string, error) {
	last, err := s.repo.LastEvent(ctx, employeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return EventIn, nil
		}
		return "", err
	}
	if last.EventType == EventIn {
		return EventOut, nil
	}
	return EventIn, nil
}

// ListEvents returns an employee's events inside a date range.
func (s *Service) ListEvents(ctx context.Context, employeeID int64, start, end shared.Date) ([]ClockEvent, error) {
	if end.Before(start.Time) {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, shared.ErrInvalidRange)
	}
	return s.repo.ListEvents(ctx, employeeID, start, end)
}

// ListAllEvents returns recent events across all employees.
func (s *Service) ListAllEvents(ctx context.Context, limit int) ([]ClockEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	return s.repo.ListAllEvents(ctx, limit)
}

// DeleteEvent removes a mistaken mark.
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	return s.repo.DeleteEvent(ctx, id)
}

// --- Payroll calculation ---

// Calculate evaluates every day in [start, end] for one employee and
// replaces the day's non-archived hour records with fresh outcomes.
func (s *Service) Calculate(ctx context.Context, employeeID int64, start, end shared.Date) error {
	if end.Before(start.Time) {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, shared.ErrInvalidRange)
	}
	shiftID, shiftType, err := s.repo.EmployeeShift(ctx, employeeID)
	if err != nil {
		return err
	}

	// The range is extended one day so overnight check-outs are visible.
	events, err := s.repo.ListEvents(ctx, employeeID, start, shared.DateOf(end.AddDate(0, 0, 1)))
	if err != nil {
		return err
	}
	byDay := groupByDay(events)

	conceptIDs, err := s.ensureConcepts(ctx)
	if err != nil {
		return err
	}

	for _, day := range shared.DateRange(start.Time, end.Time) {
		d := shared.DateOf(day)
		next := shared.DateOf(day.AddDate(0, 0, 1))
		outcomes := EvaluateDay(shiftType, d, byDay[d.String()], byDay[next.String()])
		if err := s.repo.ReplaceDay(ctx, employeeID, shiftID, d, outcomes, conceptIDs); err != nil {
			return err
		}
	}
	s.logger.Info("payroll hours calculated",
		slog.Int64("employee_id", employeeID),
		slog.String("start", start.String()),
		slog.String("end", end.String()))
	return nil
}

func (s *Service) ensureConcepts(ctx context.Context) (map[string]int64, error) {
	descriptions := []string{
		ConceptNonWorkingDay, ConceptAbsent, ConceptNoCheckOut,
		ConceptFullWorkday, ConceptMissingTime, ConceptExtraHours,
	}
	ids := make(map[string]int64, len(descriptions))
	for _, d := range descriptions {
		id, err := s.repo.EnsureConcept(ctx, d)
		if err != nil {
			return nil, err
		}
		ids[d] = id
	}
	return ids, nil
}

func groupByDay(events []ClockEvent) map[string][]ClockEvent {
	byDay := make(map[string][]ClockEvent)
	for _, ev := range events {
		key := shared.DateOf(ev.EventDate).String()
		byDay[key] = append(byDay[key], ev)
	}
	return byDay
}

// --- Hour records ---

// HoursByRange returns an employee's hour records for a period.
func (s *Service) HoursByRange(ctx context.Context, employeeID int64, start, end shared.Date) ([]HourRecord, error) {
	if end.Before(start.Time) {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, shared.ErrInvalidRange)
	}
	return s.repo.ListHours(ctx, employeeID, start, end)
}

// PendingValidation lists extra-hour records awaiting a decision.
func (s *Service) PendingValidation(ctx context.Context, f HoursFilter) ([]HourRecord, error) {
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(f.StartDate.Time) {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, shared.ErrInvalidRange)
	}
	return s.repo.PendingValidation(ctx, f)
}

// UpdateHour patches an hour record's payroll status and notes. Absent
// fields keep their stored value.
func (s *Service) UpdateHour(ctx context.Context, id int64, patch HourPatch) error {
	if patch.Status != nil && !validPayStatus(*patch.Status) {
		return fmt.Errorf("%w: unknown payroll status %q", httpx.ErrValidation, *patch.Status)
	}
	return s.repo.UpdateHour(ctx, id, patch)
}
