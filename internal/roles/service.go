package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

// Service orchestrates role administration.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// Get fetches a role by id.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// Create inserts a new role with the given permission set.
func (s *Service) Create(ctx context.Context, name, description string, permissionIDs []int64) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", httpx.ErrValidation)
	}
	if err := s.checkPermissions(ctx, permissionIDs); err != nil {
		return Role{}, err
	}
	return s.repo.CreateRole(ctx, name, strings.TrimSpace(description), permissionIDs)
}

// Update edits a role. A nil permission slice leaves the set untouched;
// an empty one clears it.
func (s *Service) Update(ctx context.Context, id int64, name, description string, permissionIDs []int64) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", httpx.ErrValidation)
	}
	if err := s.checkPermissions(ctx, permissionIDs); err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, id, name, strings.TrimSpace(description), permissionIDs)
}

// Delete removes a role.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

func (s *Service) checkPermissions(ctx context.Context, ids []int64) error {
	ok, err := s.repo.PermissionsExist(ctx, ids)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: some of the provided permission ids do not exist", httpx.ErrValidation)
	}
	return nil
}
