package rules

import "time"

// DayKey formats the calendar day used to key daily picks and quota windows.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}
