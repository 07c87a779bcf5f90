package engine

import (
	"slices"
	"time"

	"github.com/samber/mo"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

// customScanLimitDays bounds the forward scan for custom filter rules. Four
// years covers every month/day/weekday combination including Feb 29.
const customScanLimitDays = 4 * 366

// NextOccurrence computes the occurrence that follows cursor under the given
// rule. anchor is the series' first occurrence; most rules re-anchor from
// cursor at every step (so monthly and yearly clamping is evaluated
// per step), but the ebbinghaus pattern measures its offsets from the
// anchor. An empty Option means the rule is exhausted or unknown.
func (e *Engine) NextOccurrence(anchor, cursor time.Time, rule remind.RepeatRule) mo.Option[time.Time] {
	interval := rule.StepInterval()

	switch rule.Type {
	case remind.RepeatDaily:
		return mo.Some(cursor.AddDate(0, 0, interval))

	case remind.RepeatWeekly:
		// Single anchor weekday: the next occurrence keeps the cursor's
		// weekday by construction.
		return mo.Some(cursor.AddDate(0, 0, 7*interval))

	case remind.RepeatMonthly:
		return mo.Some(dates.AddMonthsClamped(cursor, interval))

	case remind.RepeatYearly:
		return mo.Some(dates.AddYearsClamped(cursor, interval))

	case remind.RepeatLunarMonthly:
		if rule.LunarDay == 0 {
			return mo.None[time.Time]()
		}
		next, err := e.lunar.NextMonthly(cursor, rule.LunarDay)
		if err != nil || !next.After(cursor) {
			// Conversion failures fall back to advancing one day; callers
			// always re-check the result against the window, so the worst
			// case is a slower walk, not a wrong instance.
			e.logger.Debug("lunar monthly lookup failed, advancing one day",
				"cursor", dates.Format(cursor), "lunar_day", rule.LunarDay)
			return mo.Some(cursor.AddDate(0, 0, 1))
		}
		return mo.Some(next)

	case remind.RepeatLunarYearly:
		if rule.LunarMonth == 0 || rule.LunarDay == 0 {
			return mo.None[time.Time]()
		}
		next, err := e.lunar.NextYearly(cursor, rule.LunarMonth, rule.LunarDay)
		if err != nil || !next.After(cursor) {
			e.logger.Debug("lunar yearly lookup failed, advancing one day",
				"cursor", dates.Format(cursor),
				"lunar_month", rule.LunarMonth, "lunar_day", rule.LunarDay)
			return mo.Some(cursor.AddDate(0, 0, 1))
		}
		return mo.Some(next)

	case remind.RepeatEbbinghaus:
		return nextEbbinghaus(anchor, cursor, rule)

	case remind.RepeatCustom:
		return nextCustom(cursor, rule)

	default:
		return mo.None[time.Time]()
	}
}

// nextEbbinghaus returns the first pattern offset from the anchor that lands
// after the cursor. The pattern is finite, so the rule naturally exhausts.
func nextEbbinghaus(anchor, cursor time.Time, rule remind.RepeatRule) mo.Option[time.Time] {
	pattern := rule.EbbinghausPattern
	if len(pattern) == 0 {
		pattern = remind.DefaultEbbinghausPattern
	}
	offsets := slices.Clone(pattern)
	slices.Sort(offsets)
	for _, off := range offsets {
		if off <= 0 {
			continue
		}
		candidate := anchor.AddDate(0, 0, off)
		if candidate.After(cursor) {
			return mo.Some(candidate)
		}
	}
	return mo.None[time.Time]()
}

// nextCustom scans forward day by day for the next date matching the rule's
// weekday/month-day/month filter sets. A rule with no filters matches
// nothing.
func nextCustom(cursor time.Time, rule remind.RepeatRule) mo.Option[time.Time] {
	if len(rule.WeekDays) == 0 && len(rule.MonthDays) == 0 && len(rule.Months) == 0 {
		return mo.None[time.Time]()
	}
	candidate := cursor
	for i := 0; i < customScanLimitDays; i++ {
		candidate = candidate.AddDate(0, 0, 1)
		if matchesCustom(candidate, rule) {
			return mo.Some(candidate)
		}
	}
	return mo.None[time.Time]()
}

func matchesCustom(t time.Time, rule remind.RepeatRule) bool {
	if len(rule.WeekDays) > 0 && !slices.Contains(rule.WeekDays, int(t.Weekday())) {
		return false
	}
	if len(rule.MonthDays) > 0 && !slices.Contains(rule.MonthDays, t.Day()) {
		return false
	}
	if len(rule.Months) > 0 && !slices.Contains(rule.Months, int(t.Month())) {
		return false
	}
	return true
}
