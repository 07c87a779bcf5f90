package engine

import (
	"sort"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

// Resolve merges a raw occurrence with the series' override tables into the
// effective, displayable instance. Resolution is a pure function of its
// inputs: applying it twice to the same series and occurrence yields the
// same instance.
func (e *Engine) Resolve(s *remind.Series, raw remind.RawOccurrence) remind.Instance {
	inst := remind.Instance{
		Key:      raw.Key,
		Kind:     remind.KindRecurring,
		Date:     raw.Date,
		EndDate:  raw.EndDate,
		Time:     raw.Time,
		EndTime:  raw.EndTime,
		Title:    s.Title,
		Note:     s.Note,
		Priority: s.Priority,
	}

	rule := s.Repeat
	if rule == nil {
		return inst
	}

	inst.Notified = rule.IsNotified(raw.Key.OriginalKey)

	if mod, ok := rule.Modification(raw.Key.OriginalKey); ok {
		e.applyModification(s, &inst, mod)
	}

	inst.Completed = rule.IsCompleted(raw.Key.OriginalKey)
	if at, ok := rule.CompletedTimes[raw.Key.OriginalKey]; ok {
		inst.CompletedAt = at
	}
	return inst
}

// applyModification overlays the present fields of a modification entry. A
// modification whose date fails to parse is skipped entirely with a warning;
// it must never break expansion of the rest of the series.
func (e *Engine) applyModification(s *remind.Series, inst *remind.Instance, mod remind.InstanceModification) {
	if mod.Date != "" {
		if _, err := dates.Parse(mod.Date); err != nil {
			e.logger.Warn("instance modification has unparseable date, skipping",
				"series", s.ID, "original_key", inst.Key.OriginalKey, "date", mod.Date)
			return
		}
		inst.Date = mod.Date
	}
	switch {
	case mod.EndDate != "":
		inst.EndDate = mod.EndDate
	case mod.Date != "" && s.EndDate != "":
		// The occurrence moved but kept its span: re-apply the series' day
		// offset from the new date.
		if spanDays, err := dates.DaysBetween(s.Date, s.EndDate); err == nil {
			if end, err := dates.AddDays(mod.Date, spanDays); err == nil {
				inst.EndDate = end
			}
		}
	}
	if mod.Time != "" {
		inst.Time = mod.Time
	}
	if mod.EndTime != "" {
		inst.EndTime = mod.EndTime
	}
	if mod.Title != "" {
		inst.Title = mod.Title
	}
	if mod.Note != "" {
		inst.Note = mod.Note
	}
	if mod.Priority != "" {
		inst.Priority = mod.Priority
	}
	if mod.Notified != nil {
		inst.Notified = *mod.Notified
	}
}

// ExpandResolved expands a recurring series and resolves every occurrence,
// then adds instances whose edited date moved them into the window even
// though rule expansion would never have scheduled them there. No original
// key resolves twice in one pass, and excluded keys stay invisible even when
// they carry a modification. The result is ordered by effective date.
func (e *Engine) ExpandResolved(s *remind.Series, windowStart, windowEnd string, maxInstances int) ([]remind.Instance, error) {
	raws, err := e.Expand(s, windowStart, windowEnd, maxInstances)
	if err != nil {
		return nil, err
	}

	emitted := make(map[string]bool, len(raws))
	out := make([]remind.Instance, 0, len(raws))
	for _, raw := range raws {
		emitted[raw.Key.OriginalKey] = true
		out = append(out, e.Resolve(s, raw))
	}

	if s.IsRecurring() {
		out = append(out, e.editedIntoWindow(s, windowStart, windowEnd, emitted)...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Key.OriginalKey < out[j].Key.OriginalKey
	})
	return out, nil
}

// editedIntoWindow scans the modification table for entries whose effective
// date falls inside the window but whose original key was not emitted by
// rule-based expansion, and synthesizes instances for them. This keeps a
// user-dragged occurrence visible in the window it was moved into.
func (e *Engine) editedIntoWindow(s *remind.Series, windowStart, windowEnd string, emitted map[string]bool) []remind.Instance {
	rule := s.Repeat
	if len(rule.InstanceModifications) == 0 {
		return nil
	}

	keys := make([]string, 0, len(rule.InstanceModifications))
	for key := range rule.InstanceModifications {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	spanDays := 0
	if s.EndDate != "" {
		if d, err := dates.DaysBetween(s.Date, s.EndDate); err == nil {
			spanDays = d
		}
	}

	var out []remind.Instance
	for _, key := range keys {
		if emitted[key] || rule.IsExcluded(key) {
			continue
		}
		mod := rule.InstanceModifications[key]
		effective := mod.Date
		if effective == "" {
			// No date edit: the entry's effective date is its original key,
			// and rule expansion already decided its window membership.
			continue
		}
		if _, err := dates.Parse(effective); err != nil {
			e.logger.Warn("instance modification has unparseable date, skipping",
				"series", s.ID, "original_key", key, "date", effective)
			continue
		}
		if dates.Compare(effective, windowStart) < 0 || dates.Compare(effective, windowEnd) > 0 {
			continue
		}

		raw := remind.RawOccurrence{
			Key:     remind.InstanceKey{SeriesID: s.ID, OriginalKey: key},
			Date:    key,
			Time:    s.Time,
			EndTime: s.EndTime,
		}
		if s.EndDate != "" {
			if end, err := dates.AddDays(key, spanDays); err == nil {
				raw.EndDate = end
			}
		}
		inst := e.Resolve(s, raw)
		inst.Kind = remind.KindEdited
		out = append(out, inst)
	}
	return out
}
