package masterdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

// Service orchestrates reference data operations.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", httpx.ErrValidation)
	}
	return nil
}

// --- Sectors ---

func (s *Service) ListSectors(ctx context.Context) ([]Sector, error) {
	return s.repo.ListSectors(ctx)
}

func (s *Service) GetSector(ctx context.Context, id int64) (Sector, error) {
	return s.repo.GetSector(ctx, id)
}

func (s *Service) CreateSector(ctx context.Context, name string) (Sector, error) {
	if err := requireName(name); err != nil {
		return Sector{}, err
	}
	return s.repo.CreateSector(ctx, strings.TrimSpace(name))
}

func (s *Service) UpdateSector(ctx context.Context, id int64, name string) (Sector, error) {
	if err := requireName(name); err != nil {
		return Sector{}, err
	}
	return s.repo.UpdateSector(ctx, id, strings.TrimSpace(name))
}

func (s *Service) DeleteSector(ctx context.Context, id int64) error {
	return s.repo.DeleteSector(ctx, id)
}

// --- Jobs ---

func (s *Service) ListJobs(ctx context.Context) ([]Job, error) {
	return s.repo.ListJobs(ctx)
}

func (s *Service) GetJob(ctx context.Context, id int64) (Job, error) {
	return s.repo.GetJob(ctx, id)
}

func (s *Service) CreateJob(ctx context.Context, name string, sectorID int64) (Job, error) {
	if err := requireName(name); err != nil {
		return Job{}, err
	}
	if sectorID <= 0 {
		return Job{}, fmt.Errorf("%w: sector_id is required", httpx.ErrValidation)
	}
	return s.repo.CreateJob(ctx, strings.TrimSpace(name), sectorID)
}

func (s *Service) UpdateJob(ctx context.Context, id int64, name string, sectorID int64) (Job, error) {
	if err := requireName(name); err != nil {
		return Job{}, err
	}
	if sectorID <= 0 {
		return Job{}, fmt.Errorf("%w: sector_id is required", httpx.ErrValidation)
	}
	return s.repo.UpdateJob(ctx, id, strings.TrimSpace(name), sectorID)
}

func (s *Service) DeleteJob(ctx context.Context, id int64) error {
	return s.repo.DeleteJob(ctx, id)
}

// --- Shifts ---

func validShiftType(t string) bool {
	switch t {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

func (s *Service) ListShifts(ctx context.Context) ([]Shift, error) {
	return s.repo.ListShifts(ctx)
}

func (s *Service) GetShift(ctx context.Context, id int64) (Shift, error) {
	return s.repo.GetShift(ctx, id)
}

func (s *Service) CreateShift(ctx context.Context, in Shift) (Shift, error) {
	if err := s.checkShift(in); err != nil {
		return Shift{}, err
	}
	return s.repo.CreateShift(ctx, in)
}

func (s *Service) UpdateShift(ctx context.Context, in Shift) (Shift, error) {
	if err := s.checkShift(in); err != nil {
		return Shift{}, err
	}
	return s.repo.UpdateShift(ctx, in)
}

func (s *Service) DeleteShift(ctx context.Context, id int64) error {
	return s.repo.DeleteShift(ctx, id)
}

func (s *Service) checkShift(in Shift) error {
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", httpx.ErrValidation)
	}
	if !validShiftType(in.Type) {
		return fmt.Errorf("%w: type must be morning, afternoon or night", httpx.ErrValidation)
	}
	if in.WorkingHours <= 0 || in.WorkingDays <= 0 {
		return fmt.Errorf("%w: working hours and days must be positive", httpx.ErrValidation)
	}
	return nil
}

// --- Concepts ---

func (s *Service) ListConcepts(ctx context.Context) ([]Concept, error) {
	return s.repo.ListConcepts(ctx)
}

func (s *Service) GetConcept(ctx context.Context, id int64) (Concept, error) {
	return s.repo.GetConcept(ctx, id)
}

func (s *Service) CreateConcept(ctx context.Context, description string) (Concept, error) {
	if strings.TrimSpace(description) == "" {
		return Concept{}, fmt.Errorf("%w: description is required", httpx.ErrValidation)
	}
	return s.repo.CreateConcept(ctx, strings.TrimSpace(description))
}

func (s *Service) UpdateConcept(ctx context.Context, id int64, description string) (Concept, error) {
	if strings.TrimSpace(description) == "" {
		return Concept{}, fmt.Errorf("%w: description is required", httpx.ErrValidation)
	}
	return s.repo.UpdateConcept(ctx, id, strings.TrimSpace(description))
}

func (s *Service) DeleteConcept(ctx context.Context, id int64) error {
	return s.repo.DeleteConcept(ctx, id)
}

// --- Abilities ---

func (s *Service) ListAbilities(ctx context.Context) ([]Ability, error) {
	return s.repo.ListAbilities(ctx)
}

func (s *Service) GetAbility(ctx context.Context, id int64) (Ability, error) {
	return s.repo.GetAbility(ctx, id)
}

func (s *Service) CreateAbility(ctx context.Context, name string, description *string) (Ability, error) {
	if err := requireName(name); err != nil {
		return Ability{}, err
	}
	a, err := s.repo.CreateAbility(ctx, strings.TrimSpace(name), description)
	if httpx.IsUniqueViolation(err) {
		return Ability{}, fmt.Errorf("%w: ability %q already exists", httpx.ErrDuplicate, name)
	}
	return a, err
}

func (s *Service) UpdateAbility(ctx context.Context, id int64, name string, description *string) (Ability, error) {
	if err := requireName(name); err != nil {
		return Ability{}, err
	}
	a, err := s.repo.UpdateAbility(ctx, id, strings.TrimSpace(name), description)
	if httpx.IsUniqueViolation(err) {
		return Ability{}, fmt.Errorf("%w: ability %q already exists", httpx.ErrDuplicate, name)
	}
	return a, err
}

func (s *Service) DeleteAbility(ctx context.Context, id int64) error {
	return s.repo.DeleteAbility(ctx, id)
}

// --- Countries and states ---

func (s *Service) ListCountries(ctx context.Context) ([]Country, error) {
	return s.repo.ListCountries(ctx)
}

func (s *Service) ListStates(ctx context.Context, countryID *int64) ([]State, error) {
	return s.repo.ListStates(ctx, countryID)
}
