package leaves

import (
	"time"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Document statuses. A request created without a justification file starts
// at pending upload; attaching the file moves it to pending validation.
const (
	DocumentPendingUpload     = "pending_upload"
	DocumentPendingValidation = "pending_validation"
	DocumentApproved          = "approved"
	DocumentRejected          = "rejected"
)

// LeaveType is reference data for leave categories. Some types demand a
// justification document before approval.
type LeaveType struct {
	ID                    int64  `json:"id"`
	Type                  string `json:"type"`
	JustificationRequired bool   `json:"justification_required"`
}

// Leave is an absence request filed by an employee.
type Leave struct {
	ID             int64       `json:"id"`
	EmployeeID     int64       `json:"employee_id"`
	RequestDate    shared.Date `json:"request_date"`
	StartDate      shared.Date `json:"start_date"`
	EndDate        shared.Date `json:"end_date"`
	File           *string     `json:"file"`
	LeaveTypeID    int64       `json:"leave_type_id"`
	LeaveType      *LeaveType  `json:"leave_type,omitempty"`
	Reason         *string     `json:"reason"`
	DocumentStatus string      `json:"document_status"`
	RequestStatus  string      `json:"request_status"`
	Observations   *string     `json:"observations"`
	BusinessDays   int         `json:"business_days"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Closed reports whether the request reached a final decision. Closed
// requests are immutable.
func (l Leave) Closed() bool {
	return l.RequestStatus == RequestApproved || l.RequestStatus == RequestRejected
}

// Patch is a partial leave update. Which fields a caller may set depends on
// whether they authored the request or review it.
type Patch struct {
	File           *string `json:"file"`
	RequestStatus  *string `json:"request_status"`
	DocumentStatus *string `json:"document_status"`
}

// Filters narrows leave listings.
type Filters struct {
	DocumentStatus *string
	RequestStatus  *string
	EmployeeID     *int64
	SectorID       *int64
}

func validRequestStatus(s string) bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

func validDocumentStatus(s string) bool {
	switch s {
	case DocumentPendingUpload, DocumentPendingValidation, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}
