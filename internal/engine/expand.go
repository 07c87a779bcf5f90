package engine

import (
	"fmt"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

// Expand generates the raw occurrences of a recurring series whose original
// dates fall inside [windowStart, windowEnd] (both inclusive, YYYY-MM-DD).
// Occurrences whose original key is excluded or deleted are skipped without
// stopping the walk. maxInstances bounds the number of emitted occurrences;
// zero or negative selects DefaultMaxInstances. Reaching the cap truncates
// silently; callers needing a guaranteed future occurrence use
// FindFutureUncompleted instead.
//
// A series without an enabled repeat rule expands to nothing, as does a
// series whose anchor date fails to parse.
func (e *Engine) Expand(s *remind.Series, windowStart, windowEnd string, maxInstances int) ([]remind.RawOccurrence, error) {
	if _, err := dates.Parse(windowStart); err != nil {
		return nil, fmt.Errorf("expand: window start: %w", err)
	}
	if _, err := dates.Parse(windowEnd); err != nil {
		return nil, fmt.Errorf("expand: window end: %w", err)
	}
	if dates.Compare(windowEnd, windowStart) < 0 {
		return nil, fmt.Errorf("expand: window end %s before start %s", windowEnd, windowStart)
	}
	if !s.IsRecurring() {
		return nil, nil
	}
	if maxInstances <= 0 {
		maxInstances = DefaultMaxInstances
	}
	rule := *s.Repeat

	anchor, err := dates.Parse(s.Date)
	if err != nil {
		// Treated as natural exhaustion rather than an error: the series is
		// malformed but must not break callers expanding a whole document.
		e.logger.Warn("series anchor date unparseable, skipping expansion",
			"series", s.ID, "date", s.Date)
		return nil, nil
	}

	// Span applied to every occurrence: day offset of EndDate from Date.
	spanDays := 0
	if s.EndDate != "" {
		spanDays, err = dates.DaysBetween(s.Date, s.EndDate)
		if err != nil {
			e.logger.Warn("series end date unparseable, ignoring span",
				"series", s.ID, "end_date", s.EndDate)
			spanDays = 0
		}
	}

	var out []remind.RawOccurrence
	cursor := anchor
	occurrence := 1 // anchor is occurrence one

	for {
		key := dates.Format(cursor)

		if rule.EndDate != "" && dates.Compare(key, rule.EndDate) > 0 {
			break
		}
		if rule.EndCount > 0 && occurrence > rule.EndCount {
			break
		}
		if dates.Compare(key, windowEnd) > 0 {
			break
		}

		if dates.Compare(key, windowStart) >= 0 && !rule.IsExcluded(key) {
			occ := remind.RawOccurrence{
				Key:     remind.InstanceKey{SeriesID: s.ID, OriginalKey: key},
				Date:    key,
				Time:    s.Time,
				EndTime: s.EndTime,
			}
			if s.EndDate != "" {
				end, err := dates.AddDays(key, spanDays)
				if err == nil {
					occ.EndDate = end
				}
			}
			out = append(out, occ)
			if len(out) >= maxInstances {
				break
			}
		}

		next, ok := e.NextOccurrence(anchor, cursor, rule).Get()
		if !ok || !next.After(cursor) {
			// Exhausted rule, unknown type, or a non-advancing evaluator
			// result; either way the walk must stop.
			break
		}
		cursor = next
		occurrence++
	}

	return out, nil
}
