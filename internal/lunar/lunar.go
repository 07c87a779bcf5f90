// Package lunar converts between solar and Chinese lunar calendar dates for
// the lunar repeat rules. The conversion itself is delegated to
// github.com/6tail/lunar-go; this package narrows it to the three operations
// the recurrence engine needs.
package lunar

import (
	"errors"
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"

	"remindkit/internal/dates"
)

// Calendar is the conversion collaborator consumed by the recurrence engine.
// NextMonthly and NextYearly return the next solar date strictly after the
// reference whose lunar value matches the target.
type Calendar interface {
	// Solar returns the lunar (month, day) of the given solar date. Month is
	// always positive, leap months folded onto their base month.
	Solar(t time.Time) (month, day int, err error)
	// NextMonthly finds the next solar date after ref falling on the given
	// lunar day of any month.
	NextMonthly(ref time.Time, lunarDay int) (time.Time, error)
	// NextYearly finds the next solar date after ref falling on the given
	// lunar month and day.
	NextYearly(ref time.Time, lunarMonth, lunarDay int) (time.Time, error)
}

// ErrNoSolarDate is returned when a target lunar date does not exist (e.g.
// day 30 of a 29-day lunar month).
var ErrNoSolarDate = errors.New("lunar: no matching solar date")

// Converter implements Calendar on top of lunar-go.
type Converter struct{}

// New returns a lunar-go backed converter.
func New() *Converter {
	return &Converter{}
}

func (c *Converter) Solar(t time.Time) (int, int, error) {
	solar := calendar.NewSolarFromYmd(t.Year(), int(t.Month()), t.Day())
	lunar := solar.GetLunar()
	month := lunar.GetMonth()
	if month < 0 {
		// Leap months are reported as negative; treat them as their base
		// month for matching purposes.
		month = -month
	}
	return month, lunar.GetDay(), nil
}

// toSolar converts a lunar date to its solar date string. lunar-go panics on
// dates that do not exist in a given lunar year, so the call is fenced.
func (c *Converter) toSolar(lunarYear, lunarMonth, lunarDay int) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: year %d month %d day %d", ErrNoSolarDate, lunarYear, lunarMonth, lunarDay)
		}
	}()
	lunar := calendar.NewLunarFromYmd(lunarYear, lunarMonth, lunarDay)
	solar := lunar.GetSolar()
	return fmt.Sprintf("%04d-%02d-%02d", solar.GetYear(), solar.GetMonth(), solar.GetDay()), nil
}

func (c *Converter) NextMonthly(ref time.Time, lunarDay int) (time.Time, error) {
	if lunarDay < 1 || lunarDay > 30 {
		return time.Time{}, fmt.Errorf("lunar: day %d out of range", lunarDay)
	}
	solar := calendar.NewSolarFromYmd(ref.Year(), int(ref.Month()), ref.Day())
	lunar := solar.GetLunar()
	month := lunar.GetMonth()
	if month < 0 {
		month = -month
	}
	year := lunar.GetYear()
	refStr := dates.Format(ref)

	// Try the current lunar month first, then walk forward. A couple of
	// months suffices in practice, but short lunar months can miss day 30
	// twice in a row, so allow a longer walk before giving up.
	for i := 0; i < 13; i++ {
		candidate, err := c.toSolar(year, month, lunarDay)
		if err == nil && candidate > refStr {
			return dates.Parse(candidate)
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return time.Time{}, ErrNoSolarDate
}

func (c *Converter) NextYearly(ref time.Time, lunarMonth, lunarDay int) (time.Time, error) {
	if lunarMonth < 1 || lunarMonth > 12 {
		return time.Time{}, fmt.Errorf("lunar: month %d out of range", lunarMonth)
	}
	if lunarDay < 1 || lunarDay > 30 {
		return time.Time{}, fmt.Errorf("lunar: day %d out of range", lunarDay)
	}
	solar := calendar.NewSolarFromYmd(ref.Year(), int(ref.Month()), ref.Day())
	year := solar.GetLunar().GetYear()
	refStr := dates.Format(ref)

	// The target day may not exist in every lunar year (short months), so
	// scan a handful of years before reporting failure.
	for i := 0; i < 4; i++ {
		candidate, err := c.toSolar(year, lunarMonth, lunarDay)
		if err == nil && candidate > refStr {
			return dates.Parse(candidate)
		}
		year++
	}
	return time.Time{}, ErrNoSolarDate
}
