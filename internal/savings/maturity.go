package savings

import (
	"time"
)

// Clock supplies the start date of new deposits.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// MaturityEndDate adds termMonths calendar months to start. When the day of
// start does not exist in the target month it is clamped to that month's
// last day, so Jan 31 + 1 month is Feb 28 (Feb 29 in leap years). Unlike
// time.AddDate the overflow never spills into the following month.
func MaturityEndDate(start time.Time, termMonths int) time.Time {
	year, month, day := start.Date()
	hour, minute, sec := start.Clock()

	first := time.Date(year, month+time.Month(termMonths), 1, 0, 0, 0, 0, start.Location())
	lastDay := daysIn(first.Year(), first.Month(), start.Location())
	if day > lastDay {
		day = lastDay
	}

	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, start.Nanosecond(), start.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
