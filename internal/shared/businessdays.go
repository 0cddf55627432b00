package shared

import "time"

// DateRange returns every calendar day between the two dates, inclusive.
// Arguments may come in either order.
func DateRange(start, end time.Time) []time.Time {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		start, end = end, start
	}
	days := int(end.Sub(start).Hours()/24) + 1
	out := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// CountBusinessDays counts the days between the two inclusive dates that are
// neither Saturday nor Sunday.
func CountBusinessDays(start, end time.Time) int {
	count := 0
	for _, d := range DateRange(start, end) {
		if !IsWeekend(d) {
			count++
		}
	}
	return count
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
