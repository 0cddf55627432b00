package recruitment

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

// Enqueuer schedules background CV evaluations. The jobs package provides
// the asynq-backed implementation.
type Enqueuer interface {
	EnqueueEvaluation(ctx context.Context, postulationID int64) error
}

// Service orchestrates recruitment flows.
type Service struct {
	logger   *slog.Logger
	repo     *Repository
	enqueuer Enqueuer
}

// NewService constructs a Service. enqueuer may be nil; evaluations then run
// inline, which the tests rely on.
func NewService(logger *slog.Logger, repo *Repository, enqueuer Enqueuer) *Service {
	return &Service{logger: logger, repo: repo, enqueuer: enqueuer}
}

// --- Opportunities ---

func (s *Service) ListOpportunities(ctx context.Context, onlyActive bool) ([]Opportunity, error) {
	return s.repo.ListOpportunities(ctx, onlyActive)
}

func (s *Service) CountActiveOpportunities(ctx context.Context) (int64, error) {
	return s.repo.CountActiveOpportunities(ctx)
}

func (s *Service) GetOpportunity(ctx context.Context, id int64) (Opportunity, error) {
	return s.repo.GetOpportunity(ctx, id)
}

func (s *Service) CreateOpportunity(ctx context.Context, o Opportunity) (Opportunity, error) {
	if err := validateOpportunity(o); err != nil {
		return Opportunity{}, err
	}
	id, err := s.repo.CreateOpportunity(ctx, o)
	if err != nil {
		return Opportunity{}, err
	}
	return s.repo.GetOpportunity(ctx, id)
}

func (s *Service) UpdateOpportunity(ctx context.Context, o Opportunity) (Opportunity, error) {
	if err := validateOpportunity(o); err != nil {
		return Opportunity{}, err
	}
	if err := s.repo.UpdateOpportunity(ctx, o); err != nil {
		return Opportunity{}, err
	}
	return s.repo.GetOpportunity(ctx, o.ID)
}

func (s *Service) DeleteOpportunity(ctx context.Context, id int64) error {
	return s.repo.DeleteOpportunity(ctx, id)
}

func validateOpportunity(o Opportunity) error {
	if strings.TrimSpace(o.Title) == "" || len(o.Title) > 100 {
		return fmt.Errorf("%w: title must be 1 to 100 characters", httpx.ErrValidation)
	}
	if strings.TrimSpace(o.Description) == "" || len(o.Description) > 1000 {
		return fmt.Errorf("%w: description must be 1 to 1000 characters", httpx.ErrValidation)
	}
	if o.Budget <= 0 {
		return fmt.Errorf("%w: budget must be positive", httpx.ErrValidation)
	}
	if len(o.BudgetCurrencyID) != 3 {
		return fmt.Errorf("%w: budget_currency_id must be a 3-letter code", httpx.ErrValidation)
	}
	if !validStatus(o.Status) {
		return fmt.Errorf("%w: status must be active or inactive", httpx.ErrValidation)
	}
	if !validWorkMode(o.WorkMode) {
		return fmt.Errorf("%w: work_mode must be remote, hybrid or onsite", httpx.ErrValidation)
	}
	if o.OwnerEmployeeID <= 0 {
		return fmt.Errorf("%w: owner_employee_id is required", httpx.ErrValidation)
	}
	return nil
}

// --- Postulations ---

func (s *Service) ListPostulations(ctx context.Context, opportunityID *int64) ([]Postulation, error) {
	return s.repo.ListPostulations(ctx, opportunityID)
}

func (s *Service) GetPostulation(ctx context.Context, id int64) (Postulation, error) {
	return s.repo.GetPostulation(ctx, id)
}

// CreatePostulation accepts a public application against an active
// opportunity, then schedules its CV evaluation.
func (s *Service) CreatePostulation(ctx context.Context, p Postulation) (Postulation, error) {
	if err := validatePostulation(p); err != nil {
		return Postulation{}, err
	}
	opp, err := s.repo.GetOpportunity(ctx, p.JobOpportunityID)
	if err != nil {
		return Postulation{}, err
	}
	if opp.Status != StatusActive {
		return Postulation{}, fmt.Errorf("%w: opportunity is not open for applications", httpx.ErrValidation)
	}
	count, err := s.repo.CountPostulations(ctx, p.JobOpportunityID)
	if err != nil {
		return Postulation{}, err
	}
	if count >= MaxPostulationsPerOpportunity {
		return Postulation{}, fmt.Errorf("%w: opportunity reached the application limit", httpx.ErrValidation)
	}

	created, err := s.repo.CreatePostulation(ctx, p)
	if err != nil {
		return Postulation{}, err
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueEvaluation(ctx, created.ID); err != nil {
			s.logger.Error("enqueue cv evaluation",
				slog.Int64("postulation_id", created.ID), slog.Any("error", err))
		}
	} else if err := s.EvaluatePostulation(ctx, created.ID); err != nil {
		s.logger.Error("inline cv evaluation",
			slog.Int64("postulation_id", created.ID), slog.Any("error", err))
	}
	return s.repo.GetPostulation(ctx, created.ID)
}

// EvaluatePostulation matches the stored resume text against the
// opportunity's ability lists and persists the outcome.
func (s *Service) EvaluatePostulation(ctx context.Context, id int64) error {
	p, err := s.repo.GetPostulation(ctx, id)
	if err != nil {
		return err
	}
	opp, err := s.repo.GetOpportunity(ctx, p.JobOpportunityID)
	if err != nil {
		return err
	}
	match, suitable := Evaluate(p.CVFile, abilityNames(opp.RequiredAbilities), abilityNames(opp.DesirableAbilities))
	return s.repo.StoreEvaluation(ctx, id, suitable, match, time.Now().UTC())
}

// UpdatePostulationStatus moves an application through the pipeline. A
// rejection must carry a motive.
func (s *Service) UpdatePostulationStatus(ctx context.Context, id int64, status string, motive *string) (Postulation, error) {
	if !validPostulationStatus(status) {
		return Postulation{}, fmt.Errorf("%w: unknown postulation status %q", httpx.ErrValidation, status)
	}
	if status == PostulationRejected && (motive == nil || strings.TrimSpace(*motive) == "") {
		return Postulation{}, fmt.Errorf("%w: a rejection requires a motive", httpx.ErrValidation)
	}
	if err := s.repo.UpdatePostulationStatus(ctx, id, status, motive); err != nil {
		return Postulation{}, err
	}
	return s.repo.GetPostulation(ctx, id)
}

func (s *Service) DeletePostulation(ctx context.Context, id int64) error {
	return s.repo.DeletePostulation(ctx, id)
}

func validatePostulation(p Postulation) error {
	if p.JobOpportunityID <= 0 {
		return fmt.Errorf("%w: job_opportunity_id is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Surname) == "" {
		return fmt.Errorf("%w: name and surname are required", httpx.ErrValidation)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: email is not a valid address", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return fmt.Errorf("%w: phone_number is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.CVFile) == "" {
		return fmt.Errorf("%w: cv_file must not be empty", httpx.ErrValidation)
	}
	return nil
}

func abilityNames(abilities []OpportunityAbility) []string {
	names := make([]string, 0, len(abilities))
	for _, a := range abilities {
		names = append(names, a.Name)
	}
	return names
}
