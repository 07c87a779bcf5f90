package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"remindkit/internal/dates"
	"remindkit/internal/remind"
)

// ErrNotRecurring is returned when a split is requested on a series without
// an enabled repeat rule. The caller must abort the edit rather than
// partially apply it.
var ErrNotRecurring = errors.New("series is not recurring")

// SplitEdits carries the start fields the user chose for the detached
// series. Empty fields inherit from the pivot occurrence (Date) or the
// original series (the rest).
type SplitEdits struct {
	Date    string
	Time    string
	EndDate string
	EndTime string
	Title   string
}

// SplitResult is the staged outcome of a split. When New is nil the split
// degenerated to an in-place edit of the original series (pivot at the
// anchor); otherwise both series must be persisted together in one write.
type SplitResult struct {
	Original *remind.Series
	New      *remind.Series
}

// Split converts a recurring series into two independent series at the given
// pivot occurrence. The original keeps all history before the pivot: its
// rule's end date is set to the day immediately before the pivot's original
// (pre-edit) scheduled date. The new series restarts at the pivot with fresh
// override tables and a fresh id, but keeps an explicit user-set series
// termination if the original had one.
//
// Split only stages both series in memory; persisting them as an atomic pair
// is the storage layer's job.
func (e *Engine) Split(s *remind.Series, pivotOriginalKey string, edits SplitEdits) (*SplitResult, error) {
	if !s.IsRecurring() {
		return nil, ErrNotRecurring
	}
	if _, err := dates.Parse(pivotOriginalKey); err != nil {
		return nil, fmt.Errorf("split: pivot key: %w", err)
	}

	if pivotOriginalKey == s.Date {
		// Splitting at the anchor leaves nothing on the left side; the
		// operation is just an edit of the series itself.
		updated := s.Clone()
		applySplitEdits(updated, edits)
		return &SplitResult{Original: updated}, nil
	}

	boundary, err := dates.PrevDay(pivotOriginalKey)
	if err != nil {
		return nil, fmt.Errorf("split: boundary: %w", err)
	}

	updated := s.Clone()
	updated.Repeat.EndDate = boundary

	detached := s.Clone()
	detached.ID = uuid.NewString()
	detached.Repeat.ExcludeDates = nil
	detached.Repeat.DeletedInstances = nil
	detached.Repeat.InstanceModifications = nil
	detached.Repeat.CompletedInstances = nil
	detached.Repeat.CompletedTimes = nil
	detached.Repeat.NotifiedInstances = nil
	// Cloned from the pre-split original, so an explicit user-set series
	// termination survives; the boundary written above only applies to the
	// bounded-off original.
	detached.Date = pivotOriginalKey
	if s.EndDate != "" {
		// Re-apply the series' day span from the new start.
		if spanDays, err := dates.DaysBetween(s.Date, s.EndDate); err == nil {
			if end, err := dates.AddDays(detached.Date, spanDays); err == nil {
				detached.EndDate = end
			}
		}
	}
	applySplitEdits(detached, edits)

	return &SplitResult{Original: updated, New: detached}, nil
}

func applySplitEdits(s *remind.Series, edits SplitEdits) {
	if edits.Date != "" {
		s.Date = edits.Date
	}
	if edits.Time != "" {
		s.Time = edits.Time
	}
	if edits.EndDate != "" {
		s.EndDate = edits.EndDate
	}
	if edits.EndTime != "" {
		s.EndTime = edits.EndTime
	}
	if edits.Title != "" {
		s.Title = edits.Title
	}
}
