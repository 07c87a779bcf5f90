// Package dates provides local calendar-date arithmetic over YYYY-MM-DD
// strings. All dates are local calendar dates; the package never converts
// between timezones.
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire format for all calendar dates.
const Layout = "2006-01-02"

// DateTimeLayout is the wire format for completion timestamps.
const DateTimeLayout = "2006-01-02 15:04"

// Parse parses a YYYY-MM-DD string into a local midnight time.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Format renders the calendar date of t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Compare orders two date strings. Valid YYYY-MM-DD strings order
// lexicographically, so no parsing is needed.
func Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AddDays shifts a date string by n calendar days.
func AddDays(s string, n int) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the whole calendar days from a to b (negative if b is
// earlier). Both endpoints are anchored at noon so daylight-saving shifts
// between them cannot produce an off-by-one.
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	na := time.Date(ta.Year(), ta.Month(), ta.Day(), 12, 0, 0, 0, time.UTC)
	nb := time.Date(tb.Year(), tb.Month(), tb.Day(), 12, 0, 0, 0, time.UTC)
	return int(nb.Sub(na).Hours() / 24), nil
}

// PrevDay returns the calendar day before s. The subtraction is anchored at
// noon so a daylight-saving boundary at midnight cannot skip or repeat a
// day.
func PrevDay(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local)
	return Format(noon.AddDate(0, 0, -1)), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear reports whether year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// AddMonthsClamped advances t by the given number of months, clamping the
// day-of-month to the last valid day of the target month. This differs from
// time.Time.AddDate, which normalizes Jan 31 + 1 month into March.
func AddMonthsClamped(t time.Time, months int) time.Time {
	total := t.Year()*12 + int(t.Month()) - 1 + months
	year := total / 12
	month := time.Month(total%12 + 1)
	day := t.Day()
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AddYearsClamped advances t by the given number of years, clamping Feb 29
// to Feb 28 when the target year is not a leap year.
func AddYearsClamped(t time.Time, years int) time.Time {
	year := t.Year() + years
	day := t.Day()
	if t.Month() == time.February && day == 29 && !IsLeapYear(year) {
		day = 28
	}
	return time.Date(year, t.Month(), day, 0, 0, 0, 0, t.Location())
}

// MonthWindow returns the expansion window used by the future-instance
// search: the first day of the month before ref, through the last day of the
// month monthsAhead-1 months after ref (a window spanning monthsAhead whole
// months, month-boundary aligned).
func MonthWindow(ref time.Time, monthsAhead int) (start, end string) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	start = Format(first.AddDate(0, -1, 0))
	// Day 0 of month+monthsAhead is the last day of month+monthsAhead-1.
	last := time.Date(ref.Year(), ref.Month()+time.Month(monthsAhead), 0, 0, 0, 0, 0, ref.Location())
	end = Format(last)
	return start, end
}

// LogicalDate returns the logical calendar date of now under a possibly
// non-midnight day boundary: before dayStartHour the previous calendar day
// is still "today".
func LogicalDate(now time.Time, dayStartHour int) string {
	if dayStartHour > 0 && dayStartHour < 24 && now.Hour() < dayStartHour {
		return Format(now.AddDate(0, 0, -1))
	}
	return Format(now)
}
