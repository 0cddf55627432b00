package leaves

import (
	"fmt"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

// applyOwnerPatch lets the request author attach or replace the
// justification file. Authors never touch status fields, and once the
// document was evaluated the file is frozen too.
func applyOwnerPatch(leave Leave, patch Patch, justificationRequired bool) (Leave, error) {
	if leave.Closed() {
		return Leave{}, fmt.Errorf("%w: the request is closed and cannot be edited", httpx.ErrForbidden)
	}
	if patch.RequestStatus != nil || patch.DocumentStatus != nil {
		return Leave{}, fmt.Errorf("%w: cannot change the status of your own request", httpx.ErrForbidden)
	}
	if leave.DocumentStatus == DocumentApproved || leave.DocumentStatus == DocumentRejected {
		return Leave{}, fmt.Errorf("%w: the documentation was already evaluated", httpx.ErrForbidden)
	}

	if patch.File != nil && *patch.File != "" {
		leave.File = patch.File
		if leave.DocumentStatus == DocumentPendingUpload {
			leave.DocumentStatus = DocumentPendingValidation
		}
		return leave, nil
	}
	if justificationRequired {
		return Leave{}, fmt.Errorf("%w: this leave type requires a justification file", httpx.ErrValidation)
	}
	return leave, nil
}

// applyReviewerPatch lets an approver move status fields. Approving the
// request implies approving its documentation.
func applyReviewerPatch(leave Leave, patch Patch) (Leave, error) {
	if leave.Closed() {
		return Leave{}, fmt.Errorf("%w: the request is closed and cannot be edited", httpx.ErrForbidden)
	}
	if patch.File != nil {
		return Leave{}, fmt.Errorf("%w: reviewers cannot replace the justification file", httpx.ErrForbidden)
	}

	if patch.DocumentStatus != nil {
		if !validDocumentStatus(*patch.DocumentStatus) {
			return Leave{}, fmt.Errorf("%w: unknown document status %q", httpx.ErrValidation, *patch.DocumentStatus)
		}
		leave.DocumentStatus = *patch.DocumentStatus
	}
	if patch.RequestStatus != nil {
		if !validRequestStatus(*patch.RequestStatus) {
			return Leave{}, fmt.Errorf("%w: unknown request status %q", httpx.ErrValidation, *patch.RequestStatus)
		}
		leave.RequestStatus = *patch.RequestStatus
		if *patch.RequestStatus == RequestApproved {
			leave.DocumentStatus = DocumentApproved
		}
	}
	return leave, nil
}
