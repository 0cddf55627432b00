package employees

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

const minimumAge = 16

func validateNewEmployee(in NewEmployee) error {
	required := map[string]string{
		"first_name":     in.FirstName,
		"last_name":      in.LastName,
		"dni":            in.DNI,
		"type_dni":       in.TypeDNI,
		"personal_email": in.PersonalEmail,
		"phone":          in.Phone,
		"address_street": in.AddressStreet,
		"address_city":   in.AddressCity,
		"address_cp":     in.AddressCP,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", httpx.ErrValidation, field)
		}
	}
	if _, err := mail.ParseAddress(in.PersonalEmail); err != nil {
		return fmt.Errorf("%w: personal_email is not a valid address", httpx.ErrValidation)
	}
	if in.Salary <= 0 {
		return fmt.Errorf("%w: salary must be positive", httpx.ErrValidation)
	}
	if in.JobID <= 0 || in.ShiftID <= 0 {
		return fmt.Errorf("%w: job_id and shift_id are required", httpx.ErrValidation)
	}
	if in.BirthDate.IsZero() {
		return fmt.Errorf("%w: birth_date is required", httpx.ErrValidation)
	}
	if err := checkMinimumAge(in.BirthDate); err != nil {
		return err
	}
	for _, wh := range in.WorkHistories {
		if err := validateWorkHistoryFields(wh); err != nil {
			return err
		}
	}
	for _, doc := range in.Documents {
		if err := validateDocumentFields(doc); err != nil {
			return err
		}
	}
	return nil
}

func checkMinimumAge(birth shared.Date) error {
	now := time.Now()
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	if age < minimumAge {
		return fmt.Errorf("%w: employee must be at least %d years old", httpx.ErrValidation, minimumAge)
	}
	return nil
}

func validateWorkHistory(wh WorkHistory) error {
	if wh.EmployeeID <= 0 {
		return fmt.Errorf("%w: employee_id is required", httpx.ErrValidation)
	}
	return validateWorkHistoryFields(wh)
}

func validateWorkHistoryFields(wh WorkHistory) error {
	if strings.TrimSpace(wh.CompanyName) == "" {
		return fmt.Errorf("%w: company_name is required", httpx.ErrValidation)
	}
	if wh.JobID <= 0 {
		return fmt.Errorf("%w: job_id is required", httpx.ErrValidation)
	}
	if !wh.ToDate.IsZero() && wh.ToDate.Before(wh.FromDate.Time) {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, shared.ErrInvalidRange)
	}
	return nil
}

func validateDocument(d Document) error {
	if d.EmployeeID <= 0 {
		return fmt.Errorf("%w: employee_id is required", httpx.ErrValidation)
	}
	return validateDocumentFields(d)
}

func validateDocumentFields(d Document) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(d.Extension) == "" {
		return fmt.Errorf("%w: extension is required", httpx.ErrValidation)
	}
	if len(d.File) == 0 {
		return fmt.Errorf("%w: file must not be empty", httpx.ErrValidation)
	}
	return nil
}
