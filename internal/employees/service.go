package employees

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

// Service orchestrates employee registration and maintenance.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CountActive returns the number of active employees.
func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}

// List returns all employees, optionally filtered by sector.
func (s *Service) List(ctx context.Context, sectorID *int64) ([]Employee, error) {
	return s.repo.List(ctx, sectorID)
}

// Get loads an employee with relations.
func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	return s.repo.Get(ctx, id)
}

// Register creates an employee. The login identifier is derived from the
// name and DNI; the password, when provided, is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, in NewEmployee) (Employee, error) {
	if err := validateNewEmployee(in); err != nil {
		return Employee{}, err
	}

	userID, err := s.generateUserID(ctx, in.FirstName, in.LastName, in.DNI)
	if err != nil {
		return Employee{}, err
	}

	var hash *string
	if in.Password != nil && *in.Password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return Employee{}, fmt.Errorf("hash password: %w", err)
		}
		h := string(raw)
		hash = &h
	}

	id, err := s.repo.Create(ctx, userID, hash, in)
	if err != nil {
		if httpx.IsUniqueViolation(err) {
			return Employee{}, duplicateError(err)
		}
		return Employee{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update and returns the refreshed record.
func (s *Service) Update(ctx context.Context, id int64, patch EmployeePatch) (Employee, error) {
	if patch.Salary != nil && *patch.Salary <= 0 {
		return Employee{}, fmt.Errorf("%w: salary must be positive", httpx.ErrValidation)
	}
	if patch.BirthDate != nil {
		if err := checkMinimumAge(*patch.BirthDate); err != nil {
			return Employee{}, err
		}
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		if httpx.IsUniqueViolation(err) {
			return Employee{}, duplicateError(err)
		}
		return Employee{}, err
	}
	return s.repo.Get(ctx, id)
}

// ChangePassword rehashes and stores a new password.
func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password must not be empty", httpx.ErrValidation)
	}
	raw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, string(raw))
}

// Delete removes an employee and its dependent records.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// generateUserID builds "<first initial><last name><last 3 DNI digits>",
// bumping the numeric suffix until the identifier is free.
func (s *Service) generateUserID(ctx context.Context, firstName, lastName, dni string) (string, error) {
	base := userIDBase(firstName, lastName)
	suffix := dni
	if len(dni) > 3 {
		suffix = dni[len(dni)-3:]
	}

	candidate := base + suffix
	start, _ := strconv.Atoi(suffix)
	for counter := 0; ; counter++ {
		if counter > 0 {
			candidate = fmt.Sprintf("%s%03d", base, start+counter)
		}
		taken, err := s.repo.UserIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// userIDBase joins the first name's initial rune with the lowercased last
// name. Initials outside ASCII stay intact.
func userIDBase(firstName, lastName string) string {
	last := strings.ToLower(strings.ReplaceAll(lastName, " ", ""))
	first := []rune(strings.ToLower(strings.TrimSpace(firstName)))
	if len(first) == 0 {
		return last
	}
	return string(first[0]) + last
}

// duplicateError translates a unique violation into a caller-facing
// conflict naming the offending field.
func duplicateError(err error) error {
	constraint := httpx.ConstraintName(err)
	field := "unique field"
	switch {
	case strings.Contains(constraint, "dni"):
		field = "DNI"
	case strings.Contains(constraint, "email"):
		field = "personal email"
	case strings.Contains(constraint, "phone"):
		field = "phone"
	case strings.Contains(constraint, "user_id"):
		field = "user id"
	}
	return fmt.Errorf("%w: an employee with the same %s already exists", httpx.ErrDuplicate, field)
}

// --- Work histories ---

func (s *Service) ListWorkHistories(ctx context.Context, employeeID int64) ([]WorkHistory, error) {
	if _, err := s.repo.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.repo.ListWorkHistories(ctx, employeeID)
}

func (s *Service) CreateWorkHistory(ctx context.Context, wh WorkHistory) (WorkHistory, error) {
	if err := validateWorkHistory(wh); err != nil {
		return WorkHistory{}, err
	}
	return s.repo.CreateWorkHistory(ctx, wh)
}

func (s *Service) UpdateWorkHistory(ctx context.Context, wh WorkHistory) (WorkHistory, error) {
	if err := validateWorkHistory(wh); err != nil {
		return WorkHistory{}, err
	}
	return s.repo.UpdateWorkHistory(ctx, wh)
}

func (s *Service) DeleteWorkHistory(ctx context.Context, employeeID, id int64) error {
	return s.repo.DeleteWorkHistory(ctx, employeeID, id)
}

// --- Documents ---

func (s *Service) ListDocuments(ctx context.Context, employeeID int64) ([]Document, error) {
	return s.repo.ListDocuments(ctx, employeeID)
}

func (s *Service) GetDocument(ctx context.Context, employeeID, id int64) (Document, error) {
	return s.repo.GetDocument(ctx, employeeID, id)
}

func (s *Service) CreateDocument(ctx context.Context, d Document) (Document, error) {
	if err := validateDocument(d); err != nil {
		return Document{}, err
	}
	return s.repo.CreateDocument(ctx, d)
}

func (s *Service) UpdateDocument(ctx context.Context, d Document) (Document, error) {
	if err := validateDocument(d); err != nil {
		return Document{}, err
	}
	return s.repo.UpdateDocument(ctx, d)
}

func (s *Service) DeleteDocument(ctx context.Context, employeeID, id int64) error {
	return s.repo.DeleteDocument(ctx, employeeID, id)
}
