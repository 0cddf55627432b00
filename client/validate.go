package client

import (
	"net/mail"
	"regexp"
	"time"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)

// ValidEmail reports whether s parses as an address.
func ValidEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// ValidPhone reports whether s looks like a phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// AgeAtLeast reports whether someone born on birth has reached years
// of age on the reference date, counting the birthday itself.
func AgeAtLeast(birth, on time.Time, years int) bool {
	threshold := birth.AddDate(years, 0, 0)
	return !on.Before(threshold)
}
