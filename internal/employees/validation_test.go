package employees

import (
	"errors"
	"fmt"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

func validRegistration() NewEmployee {
	return NewEmployee{
		FirstName:     "Ana",
		LastName:      "García",
		DNI:           "30123456",
		TypeDNI:       "DNI",
		PersonalEmail: "ana.garcia@example.com",
		Phone:         "+54 11 4444-5555",
		Salary:        1500,
		JobID:         2,
		ShiftID:       1,
		BirthDate:     shared.NewDate(1990, time.March, 14),
		HireDate:      shared.NewDate(2024, time.January, 8),
		AddressStreet: "Calle Falsa 123",
		AddressCity:   "Rosario",
		AddressCP:     "2000",
	}
}

func TestValidateNewEmployeeAcceptsCompleteInput(t *testing.T) {
	require.NoError(t, validateNewEmployee(validRegistration()))
}

func TestValidateNewEmployeeRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*NewEmployee)
	}{
		{"first_name", func(in *NewEmployee) { in.FirstName = "  " }},
		{"last_name", func(in *NewEmployee) { in.LastName = "" }},
		{"dni", func(in *NewEmployee) { in.DNI = "" }},
		{"personal_email", func(in *NewEmployee) { in.PersonalEmail = "" }},
		{"phone", func(in *NewEmployee) { in.Phone = "" }},
		{"address_street", func(in *NewEmployee) { in.AddressStreet = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := validRegistration()
			tc.mutate(&in)
			err := validateNewEmployee(in)
			require.ErrorIs(t, err, httpx.ErrValidation)
			require.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestValidateNewEmployeeRejectsBadValues(t *testing.T) {
	t.Run("malformed email", func(t *testing.T) {
		in := validRegistration()
		in.PersonalEmail = "not-an-address"
		require.ErrorIs(t, validateNewEmployee(in), httpx.ErrValidation)
	})

	t.Run("non positive salary", func(t *testing.T) {
		in := validRegistration()
		in.Salary = 0
		require.ErrorIs(t, validateNewEmployee(in), httpx.ErrValidation)
	})

	t.Run("missing job and shift", func(t *testing.T) {
		in := validRegistration()
		in.JobID = 0
		require.ErrorIs(t, validateNewEmployee(in), httpx.ErrValidation)
	})

	t.Run("missing birth date", func(t *testing.T) {
		in := validRegistration()
		in.BirthDate = shared.Date{}
		require.ErrorIs(t, validateNewEmployee(in), httpx.ErrValidation)
	})
}

func TestCheckMinimumAge(t *testing.T) {
	now := time.Now()

	t.Run("sixteenth birthday today passes", func(t *testing.T) {
		birth := now.AddDate(-minimumAge, 0, 0)
		require.NoError(t, checkMinimumAge(shared.DateOf(birth)))
	})

	t.Run("one year short fails", func(t *testing.T) {
		birth := now.AddDate(-minimumAge+1, 0, 0)
		err := checkMinimumAge(shared.DateOf(birth))
		require.ErrorIs(t, err, httpx.ErrValidation)
		require.Contains(t, err.Error(), "at least 16")
	})
}

func TestValidateWorkHistoryRange(t *testing.T) {
	wh := WorkHistory{
		EmployeeID:  1,
		JobID:       2,
		CompanyName: "Previous Co",
		FromDate:    shared.NewDate(2022, time.May, 1),
		ToDate:      shared.NewDate(2021, time.May, 1),
	}
	err := validateWorkHistory(wh)
	require.ErrorIs(t, err, httpx.ErrValidation)

	wh.ToDate = shared.NewDate(2023, time.May, 1)
	require.NoError(t, validateWorkHistory(wh))
}

func TestValidateDocumentFields(t *testing.T) {
	doc := Document{EmployeeID: 1, Name: "cv", Extension: "pdf", File: []byte("%PDF")}
	require.NoError(t, validateDocument(doc))

	doc.File = nil
	require.ErrorIs(t, validateDocument(doc), httpx.ErrValidation)
}

func TestUserIDBaseKeepsMultibyteInitial(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Ana", "García", "agarcía"},
		{"Álvaro", "Núñez", "ánúñez"},
		{"José Luis", "De la Torre", "jdelatorre"},
		{"", "García", "garcía"},
	}
	for _, tc := range cases {
		got := userIDBase(tc.first, tc.last)
		require.Equal(t, tc.want, got)
		require.True(t, utf8.ValidString(got))
	}
}

func TestDuplicateErrorNamesTheField(t *testing.T) {
	cases := []struct {
		constraint string
		want       string
	}{
		{"employee_dni_key", "DNI"},
		{"employee_personal_email_key", "personal email"},
		{"employee_phone_key", "phone"},
		{"employee_user_id_key", "user id"},
		{"employee_pkey", "unique field"},
	}
	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			cause := &pgconn.PgError{Code: "23505", ConstraintName: tc.constraint}
			err := duplicateError(fmt.Errorf("insert employee: %w", cause))
			require.ErrorIs(t, err, httpx.ErrDuplicate)
			require.Contains(t, err.Error(), tc.want)
			require.False(t, errors.Is(err, httpx.ErrValidation))
		})
	}
}
