package attendance

import (
	"time"

	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Clock event types.
const (
	EventIn  = "in"
	EventOut = "out"
)

// ClockEvent is a raw in/out mark captured by a device or operator.
type ClockEvent struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	EventDate  time.Time `json:"event_date"`
	EventType  string    `json:"event_type"`
	Source     string    `json:"source"`
	DeviceID   string    `json:"device_id"`
}

// Register types for an evaluated day.
const (
	RegisterAbsence       = "absence"
	RegisterPresence      = "presence"
	RegisterNonWorkingDay = "non_working_day"
)

// Payroll statuses for hour records.
const (
	PayStatusPayable           = "payable"
	PayStatusNotPayable        = "not_payable"
	PayStatusArchived          = "archived"
	PayStatusPendingValidation = "pending_validation"
)

// Concept descriptions the calculator files hour records under. Missing
// concepts are created on demand.
const (
	ConceptNonWorkingDay = "Non-working day"
	ConceptAbsent        = "Absent without check-in"
	ConceptNoCheckOut    = "Present without check-out"
	ConceptFullWorkday   = "Full workday"
	ConceptMissingTime   = "Missing time"
	ConceptExtraHours    = "Extra hours"
)

// HourRecord is one payroll line for one employee and day. A single day can
// produce two records when extra hours are involved.
type HourRecord struct {
	ID            int64          `json:"id"`
	EmployeeID    int64          `json:"employee_id"`
	ConceptID     int64          `json:"concept_id"`
	Concept       string         `json:"concept"`
	ShiftID       int64          `json:"shift_id"`
	CheckCount    int            `json:"check_count"`
	WorkDate      shared.Date    `json:"work_date"`
	RegisterType  string         `json:"register_type"`
	FirstCheckIn  *time.Time     `json:"first_check_in"`
	LastCheckOut  *time.Time     `json:"last_check_out"`
	SummaryTime   *time.Duration `json:"summary_time"`
	ExtraHours    *time.Duration `json:"extra_hours"`
	PayrollStatus string         `json:"payroll_status"`
	Notes         string         `json:"notes"`
}

// EventPatch updates a subset of clock event fields. The employee a mark
// belongs to is immutable.
type EventPatch struct {
	EmployeeID *int64     `json:"employee_id"`
	EventDate  *time.Time `json:"event_date"`
	EventType  *string    `json:"event_type"`
	Source     *string    `json:"source"`
	DeviceID   *string    `json:"device_id"`
}

// ResumeRow summarizes one active employee's marks for a single day.
type ResumeRow struct {
	EmployeeID   int64      `json:"employee_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	FirstCheckIn *time.Time `json:"first_check_in"`
	LastCheckOut *time.Time `json:"last_check_out"`
	CheckCount   int        `json:"check_count"`
}

// HourPatch updates an hour record's status and notes.
type HourPatch struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// HoursFilter narrows hour record listings.
type HoursFilter struct {
	EmployeeIDs []int64
	StartDate   *shared.Date
	EndDate     *shared.Date
}

func validEventType(t string) bool {
	return t == EventIn || t == EventOut
}

func validPayStatus(s string) bool {
	switch s {
	case PayStatusPayable, PayStatusNotPayable, PayStatusArchived, PayStatusPendingValidation:
		return true
	}
	return false
}
