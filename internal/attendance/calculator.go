package attendance

import (
	"fmt"
	"time"

	"github.com/kestrel-hr/kestrel/internal/masterdata"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

// Workday bounds in hours. Anything between the bounds counts as a full
// payable day; above the upper bound the day is capped at the nominal
// workday and the excess is filed separately, pending validation.
const (
	workdayHours    = 8.0
	lowerBoundHours = 7.5
	upperBoundHours = 8.5
)

// DayOutcome is one calculated payroll line before persistence.
type DayOutcome struct {
	WorkDate      shared.Date
	RegisterType  string
	PayrollStatus string
	Concept       string
	Notes         string
	CheckCount    int
	FirstCheckIn  *time.Time
	LastCheckOut  *time.Time
	SummaryTime   *time.Duration
	ExtraHours    *time.Duration
}

// EvaluateDay turns the clock events of one calendar day into payroll
// outcomes. Afternoon shifts may close with an out mark on the next day;
// night shifts always do.
func EvaluateDay(shiftType string, day shared.Date, events, nextDayEvents []ClockEvent) []DayOutcome {
	if shared.IsWeekend(day.Time) {
		return []DayOutcome{{
			WorkDate:      day,
			RegisterType:  RegisterNonWorkingDay,
			PayrollStatus: PayStatusNotPayable,
			Concept:       ConceptNonWorkingDay,
			Notes:         "Non-working day",
		}}
	}

	ins := filterEvents(events, EventIn)
	var outs []ClockEvent
	switch shiftType {
	case masterdata.ShiftAfternoon:
		outs = append(filterEvents(events, EventOut), filterEvents(nextDayEvents, EventOut)...)
	case masterdata.ShiftNight:
		outs = filterEvents(nextDayEvents, EventOut)
	default:
		outs = filterEvents(events, EventOut)
	}
	checkCount := len(events)
	if shiftType == masterdata.ShiftAfternoon || shiftType == masterdata.ShiftNight {
		checkCount += len(nextDayEvents)
	}

	if len(ins) == 0 {
		return []DayOutcome{{
			WorkDate:      day,
			RegisterType:  RegisterAbsence,
			PayrollStatus: PayStatusNotPayable,
			Concept:       ConceptAbsent,
			Notes:         "No check-in was recorded for the day",
		}}
	}

	firstIn := earliest(ins)
	lastOut, ok := closingOut(shiftType, firstIn, events, outs)
	if !ok {
		return []DayOutcome{{
			WorkDate:      day,
			RegisterType:  RegisterPresence,
			PayrollStatus: PayStatusNotPayable,
			Concept:       ConceptNoCheckOut,
			Notes:         "A check-in was recorded but no check-out",
			CheckCount:    checkCount,
			FirstCheckIn:  &firstIn,
		}}
	}

	worked := lastOut.Sub(firstIn)
	workedHours := worked.Hours()

	base := DayOutcome{
		WorkDate:     day,
		RegisterType: RegisterPresence,
		CheckCount:   checkCount,
		FirstCheckIn: &firstIn,
		LastCheckOut: &lastOut,
	}

	switch {
	case workedHours >= lowerBoundHours && workedHours <= upperBoundHours:
		full := base
		full.PayrollStatus = PayStatusPayable
		full.Concept = ConceptFullWorkday
		full.Notes = "The employee completed the workday"
		full.SummaryTime = durationPtr(worked)
		return []DayOutcome{full}

	case workedHours < lowerBoundHours:
		missing := time.Duration((workdayHours - workedHours) * float64(time.Hour))
		short := base
		short.PayrollStatus = PayStatusNotPayable
		short.Concept = ConceptMissingTime
		short.Notes = fmt.Sprintf("Missing %s to complete the workday", formatHM(missing))
		short.SummaryTime = durationPtr(worked)
		return []DayOutcome{short}

	default:
		extra := worked - time.Duration(workdayHours*float64(time.Hour))

		full := base
		full.PayrollStatus = PayStatusPayable
		full.Concept = ConceptFullWorkday
		full.Notes = "The employee completed the workday"
		full.SummaryTime = durationPtr(time.Duration(workdayHours * float64(time.Hour)))

		overtime := base
		overtime.PayrollStatus = PayStatusPendingValidation
		overtime.Concept = ConceptExtraHours
		overtime.Notes = fmt.Sprintf("The employee worked %s extra", formatHM(extra))
		overtime.ExtraHours = durationPtr(extra)

		return []DayOutcome{full, overtime}
	}
}

// closingOut picks the check-out that ends the span started at firstIn.
// Morning and night shifts take the latest out; afternoon shifts take the
// first out after the check-in, which may fall on the next day.
func closingOut(shiftType string, firstIn time.Time, events, outs []ClockEvent) (time.Time, bool) {
	if len(outs) == 0 {
		return time.Time{}, false
	}
	if shiftType == masterdata.ShiftAfternoon {
		for _, ev := range sortedByDate(outs) {
			if ev.EventDate.After(firstIn) {
				return ev.EventDate, true
			}
		}
		return time.Time{}, false
	}
	if shiftType != masterdata.ShiftNight && len(filterEvents(events, EventIn)) > len(outs) {
		// Morning shift pairs ins and outs within the day; an unmatched
		// check-in means an incomplete record.
		return time.Time{}, false
	}
	return latest(outs), true
}

func filterEvents(events []ClockEvent, eventType string) []ClockEvent {
	var out []ClockEvent
	for _, ev := range events {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func earliest(events []ClockEvent) time.Time {
	t := events[0].EventDate
	for _, ev := range events[1:] {
		if ev.EventDate.Before(t) {
			t = ev.EventDate
		}
	}
	return t
}

func latest(events []ClockEvent) time.Time {
	t := events[0].EventDate
	for _, ev := range events[1:] {
		if ev.EventDate.After(t) {
			t = ev.EventDate
		}
	}
	return t
}

func sortedByDate(events []ClockEvent) []ClockEvent {
	out := make([]ClockEvent, len(events))
	copy(out, events)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].EventDate.Before(out[j-1].EventDate); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func formatHM(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}
