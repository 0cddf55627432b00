package leaves

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

func strptr(s string) *string { return &s }

func pendingLeave() Leave {
	return Leave{
		ID:             1,
		EmployeeID:     7,
		RequestStatus:  RequestPending,
		DocumentStatus: DocumentPendingUpload,
	}
}

func TestOwnerAttachesFile(t *testing.T) {
	updated, err := applyOwnerPatch(pendingLeave(), Patch{File: strptr("medical.pdf")}, true)
	require.NoError(t, err)
	assert.Equal(t, "medical.pdf", *updated.File)
	assert.Equal(t, DocumentPendingValidation, updated.DocumentStatus)
}

func TestOwnerFileDoesNotDowngradeValidation(t *testing.T) {
	leave := pendingLeave()
	leave.DocumentStatus = DocumentPendingValidation

	updated, err := applyOwnerPatch(leave, Patch{File: strptr("v2.pdf")}, true)
	require.NoError(t, err)
	assert.Equal(t, DocumentPendingValidation, updated.DocumentStatus)
}

func TestOwnerCannotChangeStatus(t *testing.T) {
	_, err := applyOwnerPatch(pendingLeave(), Patch{RequestStatus: strptr(RequestApproved)}, false)
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestOwnerBlockedAfterDocumentEvaluated(t *testing.T) {
	leave := pendingLeave()
	leave.DocumentStatus = DocumentRejected

	_, err := applyOwnerPatch(leave, Patch{File: strptr("late.pdf")}, true)
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestOwnerMissingRequiredFile(t *testing.T) {
	_, err := applyOwnerPatch(pendingLeave(), Patch{}, true)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestClosedRequestIsImmutable(t *testing.T) {
	leave := pendingLeave()
	leave.RequestStatus = RequestApproved

	_, err := applyOwnerPatch(leave, Patch{File: strptr("x.pdf")}, false)
	assert.True(t, errors.Is(err, httpx.ErrForbidden))

	_, err = applyReviewerPatch(leave, Patch{RequestStatus: strptr(RequestRejected)})
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestReviewerApprovalApprovesDocument(t *testing.T) {
	leave := pendingLeave()
	leave.DocumentStatus = DocumentPendingValidation

	updated, err := applyReviewerPatch(leave, Patch{RequestStatus: strptr(RequestApproved)})
	require.NoError(t, err)
	assert.Equal(t, RequestApproved, updated.RequestStatus)
	assert.Equal(t, DocumentApproved, updated.DocumentStatus)
}

func TestReviewerCannotTouchFile(t *testing.T) {
	_, err := applyReviewerPatch(pendingLeave(), Patch{File: strptr("sneak.pdf")})
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestReviewerRejectsUnknownStatus(t *testing.T) {
	_, err := applyReviewerPatch(pendingLeave(), Patch{RequestStatus: strptr("maybe")})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}
