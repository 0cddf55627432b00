package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates user id and password. Missing accounts, inactive
// employees, unset passwords and wrong passwords are indistinguishable to
// the caller.
func (s *Service) Authenticate(ctx context.Context, userID, password string) (*Credentials, error) {
	creds, err := s.repo.FindCredentials(ctx, userID)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !creds.Active || creds.PasswordHash == "" {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return creds, nil
}

// Me resolves the current-user record for a verified token.
func (s *Service) Me(ctx context.Context, employeeID int64) (*Me, error) {
	return s.repo.FindMe(ctx, employeeID)
}
