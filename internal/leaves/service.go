package leaves

import (
	"context"
	"fmt"
	"strings"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/rbac"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Service orchestrates leave requests.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns leave requests matching the filters.
func (s *Service) List(ctx context.Context, f Filters) ([]Leave, error) {
	if f.RequestStatus != nil && !validRequestStatus(*f.RequestStatus) {
		return nil, fmt.Errorf("%w: unknown request status %q", httpx.ErrValidation, *f.RequestStatus)
	}
	if f.DocumentStatus != nil && !validDocumentStatus(*f.DocumentStatus) {
		return nil, fmt.Errorf("%w: unknown document status %q", httpx.ErrValidation, *f.DocumentStatus)
	}
	return s.repo.List(ctx, f)
}

// Get loads one leave request.
func (s *Service) Get(ctx context.Context, id int64) (Leave, error) {
	return s.repo.Get(ctx, id)
}

// NewLeave carries the fields an employee submits when requesting a leave.
type NewLeave struct {
	StartDate   shared.Date
	EndDate     shared.Date
	LeaveTypeID int64
	Reason      *string
	File        *string
}

// Create files a leave request on behalf of the authenticated employee. The
// document status depends on whether a justification file came along.
func (s *Service) Create(ctx context.Context, employeeID int64, in NewLeave) (Leave, error) {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return Leave{}, fmt.Errorf("%w: start_date and end_date are required", httpx.ErrValidation)
	}
	if in.EndDate.Before(in.StartDate.Time) {
		return Leave{}, fmt.Errorf("%w: %s", httpx.ErrValidation, shared.ErrInvalidRange)
	}

	leaveType, err := s.repo.GetType(ctx, in.LeaveTypeID)
	if err != nil {
		return Leave{}, fmt.Errorf("%w: leave type %d does not exist", httpx.ErrValidation, in.LeaveTypeID)
	}
	hasFile := in.File != nil && strings.TrimSpace(*in.File) != ""
	if leaveType.JustificationRequired && !hasFile {
		return Leave{}, fmt.Errorf("%w: leave type %q requires a justification file", httpx.ErrValidation, leaveType.Type)
	}

	documentStatus := DocumentPendingUpload
	if hasFile {
		documentStatus = DocumentPendingValidation
	}
	id, err := s.repo.Create(ctx, Leave{
		EmployeeID:     employeeID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		File:           in.File,
		LeaveTypeID:    in.LeaveTypeID,
		Reason:         in.Reason,
		DocumentStatus: documentStatus,
		RequestStatus:  RequestPending,
	})
	if err != nil {
		return Leave{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies a patch under the author/reviewer rules: the author may only
// attach the justification file, a reviewer holding the leave-management
// permission may only move status fields, and closed requests are immutable.
func (s *Service) Update(ctx context.Context, principal *shared.Principal, id int64, patch Patch) (Leave, error) {
	leave, err := s.repo.Get(ctx, id)
	if err != nil {
		return Leave{}, err
	}

	var updated Leave
	if principal.EmployeeID == leave.EmployeeID {
		justificationRequired := leave.LeaveType != nil && leave.LeaveType.JustificationRequired
		updated, err = applyOwnerPatch(leave, patch, justificationRequired)
	} else if principal.HasPermission(rbac.PermLeavesManage) {
		updated, err = applyReviewerPatch(leave, patch)
	} else {
		err = fmt.Errorf("%w: no permission to edit this request", httpx.ErrForbidden)
	}
	if err != nil {
		return Leave{}, err
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		return Leave{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a leave request.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ListTypes returns leave categories.
func (s *Service) ListTypes(ctx context.Context) ([]LeaveType, error) {
	return s.repo.ListTypes(ctx)
}

// CreateType adds a leave category.
func (s *Service) CreateType(ctx context.Context, t LeaveType) (LeaveType, error) {
	if strings.TrimSpace(t.Type) == "" {
		return LeaveType{}, fmt.Errorf("%w: type is required", httpx.ErrValidation)
	}
	created, err := s.repo.CreateType(ctx, t)
	if httpx.IsUniqueViolation(err) {
		return LeaveType{}, fmt.Errorf("%w: leave type %q already exists", httpx.ErrDuplicate, t.Type)
	}
	return created, err
}
