// Package remind defines the persisted reminder data model: series records,
// their repeat rules, and the per-instance override tables keyed by a stable
// original-occurrence date.
package remind

import (
	"encoding/json"
)

// RepeatType identifies the recurrence rule family of a series.
type RepeatType string

const (
	RepeatDaily        RepeatType = "daily"
	RepeatWeekly       RepeatType = "weekly"
	RepeatMonthly      RepeatType = "monthly"
	RepeatYearly       RepeatType = "yearly"
	RepeatLunarMonthly RepeatType = "lunar-monthly"
	RepeatLunarYearly  RepeatType = "lunar-yearly"
	RepeatCustom       RepeatType = "custom"
	RepeatEbbinghaus   RepeatType = "ebbinghaus"
)

// DefaultEbbinghausPattern is the review-offset schedule (in days after the
// series anchor) used when a rule does not carry its own pattern.
var DefaultEbbinghausPattern = []int{1, 2, 4, 7, 15}

// InstanceModification stores the per-occurrence field overrides a user made
// to a single instance of a recurring series. Empty string fields mean "not
// overridden"; Notified uses a pointer for the same reason.
type InstanceModification struct {
	Date       string `json:"date,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	Time       string `json:"time,omitempty"`
	EndTime    string `json:"endTime,omitempty"`
	Title      string `json:"title,omitempty"`
	Note       string `json:"note,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Notified   *bool  `json:"notified,omitempty"`
	ModifiedAt string `json:"modifiedAt,omitempty"`
}

// RepeatRule describes how a series recurs and carries the override tables
// for its instances. All override tables are keyed by the occurrence's
// original date string (YYYY-MM-DD), i.e. the date pure rule expansion would
// have assigned before any edit.
type RepeatRule struct {
	Enabled  bool       `json:"enabled"`
	Type     RepeatType `json:"type"`
	Interval int        `json:"interval,omitempty"`

	// EndDate terminates the series (inclusive). EndCount stops the series
	// after that many occurrences counted from the anchor.
	EndDate  string `json:"endDate,omitempty"`
	EndCount int    `json:"endCount,omitempty"`

	// Lunar anchors for the lunar-monthly / lunar-yearly types.
	LunarMonth int `json:"lunarMonth,omitempty"`
	LunarDay   int `json:"lunarDay,omitempty"`

	// Filter sets for the custom type. WeekDays uses 0=Sunday..6=Saturday,
	// Months uses 1..12, MonthDays uses 1..31.
	WeekDays  []int `json:"weekDays,omitempty"`
	MonthDays []int `json:"monthDays,omitempty"`
	Months    []int `json:"months,omitempty"`

	EbbinghausPattern []int `json:"ebbinghausPattern,omitempty"`

	// Override tables. ExcludeDates and DeletedInstances are persisted
	// separately for document compatibility but are treated as a single
	// exclusion set; see IsExcluded.
	ExcludeDates          []string                        `json:"excludeDates,omitempty"`
	DeletedInstances      []string                        `json:"deletedInstances,omitempty"`
	InstanceModifications map[string]InstanceModification `json:"instanceModifications,omitempty"`
	CompletedInstances    []string                        `json:"completedInstances,omitempty"`
	CompletedTimes        map[string]string               `json:"completedTimes,omitempty"`
	NotifiedInstances     []string                        `json:"notifiedInstances,omitempty"`
}

// StepInterval returns the rule interval, defaulting to 1.
func (r *RepeatRule) StepInterval() int {
	if r.Interval <= 0 {
		return 1
	}
	return r.Interval
}

// IsExcluded reports whether the occurrence with the given original key has
// been excluded or deleted. The two tables overlap in meaning; exclusion
// checks always consult their union.
func (r *RepeatRule) IsExcluded(originalKey string) bool {
	for _, d := range r.ExcludeDates {
		if d == originalKey {
			return true
		}
	}
	for _, d := range r.DeletedInstances {
		if d == originalKey {
			return true
		}
	}
	return false
}

// IsCompleted reports whether the occurrence with the given original key has
// been marked done.
func (r *RepeatRule) IsCompleted(originalKey string) bool {
	for _, d := range r.CompletedInstances {
		if d == originalKey {
			return true
		}
	}
	return false
}

// IsNotified reports whether a notification was already delivered for the
// occurrence with the given original key.
func (r *RepeatRule) IsNotified(originalKey string) bool {
	for _, d := range r.NotifiedInstances {
		if d == originalKey {
			return true
		}
	}
	return false
}

// Modification returns the override entry for the given original key.
func (r *RepeatRule) Modification(originalKey string) (InstanceModification, bool) {
	mod, ok := r.InstanceModifications[originalKey]
	return mod, ok
}

// Exclude records the occurrence as excluded. It is a no-op if the key is
// already present in either exclusion table.
func (r *RepeatRule) Exclude(originalKey string) {
	if r.IsExcluded(originalKey) {
		return
	}
	r.ExcludeDates = append(r.ExcludeDates, originalKey)
}

// MarkDeleted records the occurrence in the deletion table and drops any
// completion state it carried.
func (r *RepeatRule) MarkDeleted(originalKey string) {
	for _, d := range r.DeletedInstances {
		if d == originalKey {
			return
		}
	}
	r.DeletedInstances = append(r.DeletedInstances, originalKey)
	r.SetCompleted(originalKey, false, "")
}

// SetCompleted toggles the completion state of one occurrence, maintaining
// the completion timestamp table alongside the set.
func (r *RepeatRule) SetCompleted(originalKey string, completed bool, completedAt string) {
	if completed {
		if !r.IsCompleted(originalKey) {
			r.CompletedInstances = append(r.CompletedInstances, originalKey)
		}
		if completedAt != "" {
			if r.CompletedTimes == nil {
				r.CompletedTimes = make(map[string]string)
			}
			r.CompletedTimes[originalKey] = completedAt
		}
		return
	}
	out := r.CompletedInstances[:0]
	for _, d := range r.CompletedInstances {
		if d != originalKey {
			out = append(out, d)
		}
	}
	r.CompletedInstances = out
	delete(r.CompletedTimes, originalKey)
}

// SetModification writes (or overwrites) the override entry for the given
// original key. Callers must pass the occurrence's original date as the key,
// never an already-edited display date: repeated edits to the same logical
// occurrence all land on one entry.
func (r *RepeatRule) SetModification(originalKey string, mod InstanceModification) {
	if r.InstanceModifications == nil {
		r.InstanceModifications = make(map[string]InstanceModification)
	}
	// A prior edit of a different occurrence may have produced an entry
	// whose display date now collides with this one; stale entries pointing
	// at the new display date are dropped so one logical occurrence never
	// resolves twice.
	if mod.Date != "" && mod.Date != originalKey {
		for key, existing := range r.InstanceModifications {
			if key != originalKey && existing.Date == mod.Date {
				delete(r.InstanceModifications, key)
			}
		}
	}
	r.InstanceModifications[originalKey] = mod
}

// Series is the persisted root object for one reminder. A series with a nil
// or disabled Repeat is a plain one-shot reminder; the recurrence engine
// only operates on recurring series.
type Series struct {
	ID        string      `json:"id"`
	BlockID   string      `json:"blockId,omitempty"`
	Title     string      `json:"title"`
	Note      string      `json:"note,omitempty"`
	Priority  string      `json:"priority,omitempty"`
	Date      string      `json:"date"`
	Time      string      `json:"time,omitempty"`
	EndDate   string      `json:"endDate,omitempty"`
	EndTime   string      `json:"endTime,omitempty"`
	Completed bool        `json:"completed,omitempty"`
	CreatedAt string      `json:"createdAt,omitempty"`
	Repeat    *RepeatRule `json:"repeat,omitempty"`
}

// IsRecurring reports whether the series has an enabled repeat rule.
func (s *Series) IsRecurring() bool {
	return s.Repeat != nil && s.Repeat.Enabled && s.Repeat.Type != ""
}

// Clone returns a deep copy of the series via a JSON round trip. The model
// is plain data, so the round trip is lossless.
func (s *Series) Clone() *Series {
	data, err := json.Marshal(s)
	if err != nil {
		panic("remind: series clone marshal: " + err.Error())
	}
	var out Series
	if err := json.Unmarshal(data, &out); err != nil {
		panic("remind: series clone unmarshal: " + err.Error())
	}
	return &out
}

// Document is the whole persisted reminder collection, series id to record.
// Persistence treats it as a single unit: load all, mutate in memory, save
// all.
type Document map[string]*Series
