package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCountBusinessDaysFullWeek(t *testing.T) {
	// Mon 2024-01-01 through Sun 2024-01-07: five working days.
	assert.Equal(t, 5, CountBusinessDays(day("2024-01-01"), day("2024-01-07")))
}

func TestCountBusinessDaysSingleDay(t *testing.T) {
	assert.Equal(t, 1, CountBusinessDays(day("2024-01-03"), day("2024-01-03")))
	assert.Equal(t, 0, CountBusinessDays(day("2024-01-06"), day("2024-01-06")))
}

func TestCountBusinessDaysReversedRange(t *testing.T) {
	assert.Equal(t, 5, CountBusinessDays(day("2024-01-07"), day("2024-01-01")))
}

func TestDateRangeInclusive(t *testing.T) {
	r := DateRange(day("2024-02-27"), day("2024-03-02"))
	assert.Len(t, r, 5)
	assert.Equal(t, day("2024-02-29"), r[2])
}
