package facerecog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kestrel-hr/kestrel/internal/attendance"
	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// ClockRecorder records attendance marks produced by a face match.
type ClockRecorder interface {
	RecordEvent(ctx context.Context, ev attendance.ClockEvent) (attendance.ClockEvent, error)
}

// Service implements face template management and face-driven clocking.
type Service struct {
	logger    *slog.Logger
	repo      *Repository
	recorder  ClockRecorder
	cooldown  *Cooldown
	threshold float64
}

func NewService(logger *slog.Logger, repo *Repository, recorder ClockRecorder, cooldown *Cooldown, threshold float64) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{
		logger:    logger,
		repo:      repo,
		recorder:  recorder,
		cooldown:  cooldown,
		threshold: threshold,
	}
}

// Register stores a new face template. An embedding within threshold of
// an existing one is rejected so two employees can never share a face.
func (s *Service) Register(ctx context.Context, employeeID int64, embedding []float64) (Template, error) {
	if len(embedding) == 0 {
		return Template{}, fmt.Errorf("%w: embedding is required", httpx.ErrValidation)
	}
	existing, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return Template{}, err
	}
	if _, found := BestMatch(existing, embedding, s.threshold); found {
		return Template{}, fmt.Errorf("%w: a similar face already exists", httpx.ErrDuplicate)
	}
	return s.repo.Create(ctx, employeeID, embedding)
}

// Upsert replaces the employee's template, creating it when absent.
func (s *Service) Upsert(ctx context.Context, employeeID int64, embedding []float64) (Template, error) {
	if len(embedding) == 0 {
		return Template{}, fmt.Errorf("%w: embedding is required", httpx.ErrValidation)
	}
	tpl, err := s.repo.UpdateEmbedding(ctx, employeeID, embedding)
	if errors.Is(err, shared.ErrNotFound) {
		return s.Register(ctx, employeeID, embedding)
	}
	return tpl, err
}

// Delete removes the employee's template.
func (s *Service) Delete(ctx context.Context, employeeID int64) error {
	return s.repo.DeleteByEmployee(ctx, employeeID)
}

// Verify matches the probe against all stored templates. A miss is a
// normal outcome; only an empty template store is an error.
func (s *Service) Verify(ctx context.Context, embedding []float64) (MatchOutcome, error) {
	tpl, found, err := s.match(ctx, embedding)
	if err != nil {
		return MatchOutcome{}, err
	}
	if !found {
		return MatchOutcome{Success: false, Message: "no match found"}, nil
	}
	return MatchOutcome{
		Success:    true,
		Message:    fmt.Sprintf("face verified, employee %d", tpl.EmployeeID),
		EmployeeID: &tpl.EmployeeID,
	}, nil
}

// Clock matches the probe and records a clock event for the matched
// employee. Repeated submissions inside the cooldown window are
// acknowledged without creating a second event.
func (s *Service) Clock(ctx context.Context, embedding []float64, eventType, deviceID string) (MatchOutcome, error) {
	if eventType != attendance.EventIn && eventType != attendance.EventOut {
		return MatchOutcome{}, fmt.Errorf("%w: event_type must be in or out", httpx.ErrValidation)
	}
	tpl, found, err := s.match(ctx, embedding)
	if err != nil {
		return MatchOutcome{}, err
	}
	if !found {
		return MatchOutcome{Success: false, Message: "no match found"}, nil
	}

	fresh, err := s.cooldown.Acquire(ctx, tpl.EmployeeID)
	if err != nil {
		return MatchOutcome{}, err
	}
	if !fresh {
		s.logger.Info("facerecog: duplicate submission suppressed",
			"employee_id", tpl.EmployeeID, "event_type", eventType)
		return MatchOutcome{
			Success:    true,
			Message:    "already recorded",
			EmployeeID: &tpl.EmployeeID,
		}, nil
	}

	_, err = s.recorder.RecordEvent(ctx, attendance.ClockEvent{
		EmployeeID: tpl.EmployeeID,
		EventDate:  time.Now().UTC(),
		EventType:  eventType,
		Source:     "face_recognition",
		DeviceID:   deviceID,
	})
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("record clock event: %w", err)
	}

	return MatchOutcome{
		Success:    true,
		Message:    fmt.Sprintf("clock %s recorded, employee %d", eventType, tpl.EmployeeID),
		EmployeeID: &tpl.EmployeeID,
	}, nil
}

func (s *Service) match(ctx context.Context, embedding []float64) (Template, bool, error) {
	if len(embedding) == 0 {
		return Template{}, false, fmt.Errorf("%w: embedding is required", httpx.ErrValidation)
	}
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return Template{}, false, err
	}
	if len(templates) == 0 {
		return Template{}, false, fmt.Errorf("%w: no registered faces to compare with", httpx.ErrNotFound)
	}
	tpl, found := BestMatch(templates, embedding, s.threshold)
	return tpl, found, nil
}
