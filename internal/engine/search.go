package engine

import (
	"fmt"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

// FindFutureUncompleted expands the series over a widening window until the
// expansion contains at least one occurrence strictly after today that is
// not marked completed. Sparse rules start with a longer look-ahead; each
// failed attempt widens the window, up to the configured attempt cap.
//
// Exhausting every attempt is a valid terminal state, not an error: the last
// computed expansion is returned and may contain no future uncompleted
// occurrence. Callers must tolerate that.
func (e *Engine) FindFutureUncompleted(s *remind.Series, today string) ([]remind.RawOccurrence, error) {
	ref, err := dates.Parse(today)
	if err != nil {
		return nil, fmt.Errorf("future search: %w", err)
	}
	if !s.IsRecurring() {
		return nil, nil
	}
	rule := s.Repeat

	months := e.search.InitialMonths
	widen := e.search.WidenMonths
	switch rule.Type {
	case remind.RepeatMonthly:
		months = e.search.InitialMonthsMonthly
	case remind.RepeatYearly, remind.RepeatLunarMonthly, remind.RepeatLunarYearly:
		months = e.search.InitialMonthsYearly
		widen = e.search.WidenMonthsYearly
	}

	var raws []remind.RawOccurrence
	for attempt := 0; attempt < e.search.MaxAttempts; attempt++ {
		windowStart, windowEnd := dates.MonthWindow(ref, months)
		maxInstances := months * e.search.InstancesPerMonth

		raws, err = e.Expand(s, windowStart, windowEnd, maxInstances)
		if err != nil {
			return nil, err
		}

		for _, raw := range raws {
			if dates.Compare(raw.Date, today) > 0 && !rule.IsCompleted(raw.Key.OriginalKey) {
				return raws, nil
			}
		}

		e.logger.Debug("no future uncompleted occurrence, widening window",
			"series", s.ID, "attempt", attempt+1, "months", months)
		months += widen
	}

	// Search bound exhausted; the caller gets whatever the widest window
	// produced.
	return raws, nil
}
