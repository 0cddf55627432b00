package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-hr/kestrel/internal/masterdata"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Monday 2024-01-08.
var monday = shared.NewDate(2024, time.January, 8)

func mark(day shared.Date, hour, minute int, eventType string) ClockEvent {
	return ClockEvent{
		EmployeeID: 1,
		EventDate:  time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC),
		EventType:  eventType,
		Source:     "test",
		DeviceID:   "dev-1",
	}
}

func TestEvaluateDayWeekend(t *testing.T) {
	saturday := shared.NewDate(2024, time.January, 6)

	out := EvaluateDay(masterdata.ShiftMorning, saturday, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, RegisterNonWorkingDay, out[0].RegisterType)
	assert.Equal(t, PayStatusNotPayable, out[0].PayrollStatus)
	assert.Equal(t, ConceptNonWorkingDay, out[0].Concept)
}

func TestEvaluateDayAbsence(t *testing.T) {
	out := EvaluateDay(masterdata.ShiftMorning, monday, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, RegisterAbsence, out[0].RegisterType)
	assert.Equal(t, ConceptAbsent, out[0].Concept)
	assert.Equal(t, PayStatusNotPayable, out[0].PayrollStatus)
}

func TestEvaluateDayMissingCheckOut(t *testing.T) {
	events := []ClockEvent{mark(monday, 9, 0, EventIn)}

	out := EvaluateDay(masterdata.ShiftMorning, monday, events, nil)
	require.Len(t, out, 1)
	assert.Equal(t, RegisterPresence, out[0].RegisterType)
	assert.Equal(t, ConceptNoCheckOut, out[0].Concept)
	assert.Equal(t, PayStatusNotPayable, out[0].PayrollStatus)
	require.NotNil(t, out[0].FirstCheckIn)
	assert.Nil(t, out[0].LastCheckOut)
}

func TestEvaluateDayFullWorkday(t *testing.T) {
	events := []ClockEvent{
		mark(monday, 9, 0, EventIn),
		mark(monday, 17, 0, EventOut),
	}

	out := EvaluateDay(masterdata.ShiftMorning, monday, events, nil)
	require.Len(t, out, 1)
	assert.Equal(t, ConceptFullWorkday, out[0].Concept)
	assert.Equal(t, PayStatusPayable, out[0].PayrollStatus)
	require.NotNil(t, out[0].SummaryTime)
	assert.Equal(t, 8*time.Hour, *out[0].SummaryTime)
}

func TestEvaluateDayBoundsAreInclusive(t *testing.T) {
	short := []ClockEvent{
		mark(monday, 9, 0, EventIn),
		mark(monday, 16, 30, EventOut), // exactly 7h30m
	}
	out := EvaluateDay(masterdata.ShiftMorning, monday, short, nil)
	require.Len(t, out, 1)
	assert.Equal(t, PayStatusPayable, out[0].PayrollStatus)

	long := []ClockEvent{
		mark(monday, 9, 0, EventIn),
		mark(monday, 17, 30, EventOut), // exactly 8h30m
	}
	out = EvaluateDay(masterdata.ShiftMorning, monday, long, nil)
	require.Len(t, out, 1)
	assert.Equal(t, PayStatusPayable, out[0].PayrollStatus)
}

func TestEvaluateDayMissingTime(t *testing.T) {
	events := []ClockEvent{
		mark(monday, 9, 0, EventIn),
		mark(monday, 14, 0, EventOut),
	}

	out := EvaluateDay(masterdata.ShiftMorning, monday, events, nil)
	require.Len(t, out, 1)
	assert.Equal(t, ConceptMissingTime, out[0].Concept)
	assert.Equal(t, PayStatusNotPayable, out[0].PayrollStatus)
	assert.Contains(t, out[0].Notes, "3h 00m")
}

func TestEvaluateDayExtraHoursSplit(t *testing.T) {
	events := []ClockEvent{
		mark(monday, 8, 0, EventIn),
		mark(monday, 18, 30, EventOut), // 10h30m worked
	}

	out := EvaluateDay(masterdata.ShiftMorning, monday, events, nil)
	require.Len(t, out, 2)

	full, overtime := out[0], out[1]
	assert.Equal(t, ConceptFullWorkday, full.Concept)
	assert.Equal(t, PayStatusPayable, full.PayrollStatus)
	assert.Equal(t, 8*time.Hour, *full.SummaryTime)

	assert.Equal(t, ConceptExtraHours, overtime.Concept)
	assert.Equal(t, PayStatusPendingValidation, overtime.PayrollStatus)
	require.NotNil(t, overtime.ExtraHours)
	assert.Equal(t, 2*time.Hour+30*time.Minute, *overtime.ExtraHours)
}

func TestEvaluateDayNightShiftUsesNextDayOut(t *testing.T) {
	tuesday := shared.NewDate(2024, time.January, 9)
	events := []ClockEvent{mark(monday, 22, 0, EventIn)}
	nextDay := []ClockEvent{mark(tuesday, 6, 0, EventOut)}

	out := EvaluateDay(masterdata.ShiftNight, monday, events, nextDay)
	require.Len(t, out, 1)
	assert.Equal(t, ConceptFullWorkday, out[0].Concept)
	assert.Equal(t, PayStatusPayable, out[0].PayrollStatus)
	assert.Equal(t, 8*time.Hour, *out[0].SummaryTime)
}

func TestEvaluateDayNightShiftIgnoresSameDayOut(t *testing.T) {
	events := []ClockEvent{
		mark(monday, 22, 0, EventIn),
		mark(monday, 23, 0, EventOut), // same-day out does not close a night shift
	}

	out := EvaluateDay(masterdata.ShiftNight, monday, events, nil)
	require.Len(t, out, 1)
	assert.Equal(t, ConceptNoCheckOut, out[0].Concept)
}

func TestEvaluateDayAfternoonCrossesMidnight(t *testing.T) {
	tuesday := shared.NewDate(2024, time.January, 9)
	events := []ClockEvent{mark(monday, 17, 0, EventIn)}
	nextDay := []ClockEvent{mark(tuesday, 1, 0, EventOut)}

	out := EvaluateDay(masterdata.ShiftAfternoon, monday, events, nextDay)
	require.Len(t, out, 1)
	assert.Equal(t, ConceptFullWorkday, out[0].Concept)
	assert.Equal(t, 8*time.Hour, *out[0].SummaryTime)
}

func TestEvaluateDayAfternoonTakesFirstOutAfterIn(t *testing.T) {
	events := []ClockEvent{
		mark(monday, 13, 0, EventOut), // stale out before the check-in
		mark(monday, 14, 0, EventIn),
		mark(monday, 22, 0, EventOut),
	}

	out := EvaluateDay(masterdata.ShiftAfternoon, monday, events, nil)
	require.Len(t, out, 1)
	assert.Equal(t, ConceptFullWorkday, out[0].Concept)
	assert.Equal(t, 8*time.Hour, *out[0].SummaryTime)
}
