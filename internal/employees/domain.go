package employees

import (
	"github.com/kestrel-hr/kestrel/internal/masterdata"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Employee is the central personnel record. The password hash never leaves
// the repository layer; handlers serialize this struct directly.
type Employee struct {
	ID               int64                 `json:"id"`
	UserID           string                `json:"user_id"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	DNI              string                `json:"dni"`
	TypeDNI          string                `json:"type_dni"`
	PersonalEmail    string                `json:"personal_email"`
	Active           bool                  `json:"active"`
	RoleID           *int64                `json:"role_id"`
	Phone            string                `json:"phone"`
	Salary           float64               `json:"salary"`
	JobID            *int64                `json:"job_id"`
	ShiftID          *int64                `json:"shift_id"`
	BirthDate        shared.Date           `json:"birth_date"`
	HireDate         shared.Date           `json:"hire_date"`
	Photo            []byte                `json:"photo,omitempty"`
	AddressStreet    string                `json:"address_street"`
	AddressCity      string                `json:"address_city"`
	AddressCP        string                `json:"address_cp"`
	AddressStateID   *int64                `json:"address_state_id"`
	AddressCountryID *int64                `json:"address_country_id"`
	Job              *masterdata.Job       `json:"job,omitempty"`
	Shift            *masterdata.Shift     `json:"shift,omitempty"`
	State            *masterdata.State     `json:"state,omitempty"`
	Country          *masterdata.Country   `json:"country,omitempty"`
	WorkHistories    []WorkHistory         `json:"work_histories"`
	Documents        []Document            `json:"documents"`
}

// WorkHistory is a previous employment entry attached to an employee.
type WorkHistory struct {
	ID          int64       `json:"id"`
	EmployeeID  int64       `json:"employee_id"`
	JobID       int64       `json:"job_id"`
	FromDate    shared.Date `json:"from_date"`
	ToDate      shared.Date `json:"to_date"`
	CompanyName string      `json:"company_name"`
	Notes       string      `json:"notes"`
}

// Document is a file (CV, certificate) attached to an employee. The payload
// travels base64-encoded in JSON.
type Document struct {
	ID           int64       `json:"id"`
	EmployeeID   int64       `json:"employee_id"`
	Name         string      `json:"name"`
	Extension    string      `json:"extension"`
	CreationDate shared.Date `json:"creation_date"`
	File         []byte      `json:"file"`
	Active       bool        `json:"active"`
}

// NewEmployee carries the fields accepted when registering an employee.
type NewEmployee struct {
	FirstName        string
	LastName         string
	DNI              string
	TypeDNI          string
	PersonalEmail    string
	Active           bool
	RoleID           *int64
	Password         *string
	Phone            string
	Salary           float64
	JobID            int64
	ShiftID          int64
	BirthDate        shared.Date
	HireDate         shared.Date
	Photo            []byte
	AddressStreet    string
	AddressCity      string
	AddressCP        string
	AddressStateID   int64
	AddressCountryID int64
	WorkHistories    []WorkHistory
	Documents        []Document
}

// EmployeePatch updates a subset of employee fields. Nil pointers leave the
// stored value untouched.
type EmployeePatch struct {
	FirstName        *string      `json:"first_name"`
	LastName         *string      `json:"last_name"`
	DNI              *string      `json:"dni"`
	TypeDNI          *string      `json:"type_dni"`
	PersonalEmail    *string      `json:"personal_email"`
	Active           *bool        `json:"active"`
	RoleID           *int64       `json:"role_id"`
	Phone            *string      `json:"phone"`
	Salary           *float64     `json:"salary"`
	JobID            *int64       `json:"job_id"`
	ShiftID          *int64       `json:"shift_id"`
	BirthDate        *shared.Date `json:"birth_date"`
	HireDate         *shared.Date `json:"hire_date"`
	Photo            []byte       `json:"photo"`
	AddressStreet    *string      `json:"address_street"`
	AddressCity      *string      `json:"address_city"`
	AddressCP        *string      `json:"address_cp"`
	AddressStateID   *int64       `json:"address_state_id"`
	AddressCountryID *int64       `json:"address_country_id"`
}
