package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/kestrel-hr/kestrel/internal/recruitment"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// PostulationEvaluateJob runs the ability match for one postulation.
type PostulationEvaluateJob struct {
	Service *recruitment.Service
	Logger  *slog.Logger
}

// NewPostulationEvaluateJob initialises the evaluation handler.
func NewPostulationEvaluateJob(service *recruitment.Service, logger *slog.Logger) *PostulationEvaluateJob {
	return &PostulationEvaluateJob{Service: service, Logger: logger}
}

// Handle executes the evaluation.
func (j *PostulationEvaluateJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("postulation evaluate: handler not configured")
	}
	var payload PostulationEvaluatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.PostulationID <= 0 {
		return asynq.SkipRetry
	}

	err := j.Service.EvaluatePostulation(ctx, payload.PostulationID)
	if errors.Is(err, shared.ErrNotFound) {
		// Deleted between enqueue and execution; nothing to retry.
		j.Logger.Warn("postulation vanished before evaluation",
			slog.Int64("postulation_id", payload.PostulationID))
		return asynq.SkipRetry
	}
	if err != nil {
		j.Logger.Error("postulation evaluation failed",
			slog.Int64("postulation_id", payload.PostulationID),
			slog.Any("error", err))
		return err
	}
	return nil
}
