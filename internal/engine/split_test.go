package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindkit/internal/remind"
)

func splittableSeries() *remind.Series {
	return &remind.Series{
		ID:    "s1",
		Title: "standup",
		Date:  "2024-01-01",
		Time:  "09:30",
		Repeat: &remind.RepeatRule{
			Enabled:            true,
			Type:               remind.RepeatDaily,
			ExcludeDates:       []string{"2024-01-02"},
			CompletedInstances: []string{"2024-01-03"},
			CompletedTimes:     map[string]string{"2024-01-03": "2024-01-03 10:00"},
			InstanceModifications: map[string]remind.InstanceModification{
				"2024-01-04": {Time: "10:00"},
			},
			NotifiedInstances: []string{"2024-01-01"},
		},
	}
}

func TestSplit_AtAnchorEditsInPlace(t *testing.T) {
	e := New()
	s := splittableSeries()

	res, err := e.Split(s, "2024-01-01", SplitEdits{Time: "08:00", Title: "early standup"})
	require.NoError(t, err)
	require.Nil(t, res.New)

	// Same identity, edits applied, history untouched.
	assert.Equal(t, "s1", res.Original.ID)
	assert.Equal(t, "08:00", res.Original.Time)
	assert.Equal(t, "early standup", res.Original.Title)
	assert.Equal(t, []string{"2024-01-02"}, res.Original.Repeat.ExcludeDates)
	assert.Empty(t, res.Original.Repeat.EndDate)

	// The input series is never mutated; the result is a staged copy.
	assert.Equal(t, "09:30", s.Time)
}

func TestSplit_MidSeries(t *testing.T) {
	e := New()
	s := splittableSeries()

	res, err := e.Split(s, "2024-01-10", SplitEdits{Time: "11:00"})
	require.NoError(t, err)
	require.NotNil(t, res.New)

	original, detached := res.Original, res.New

	// Original keeps its identity and history, bounded the day before the
	// pivot's original date.
	assert.Equal(t, "s1", original.ID)
	assert.Equal(t, "2024-01-09", original.Repeat.EndDate)
	assert.Equal(t, []string{"2024-01-02"}, original.Repeat.ExcludeDates)
	assert.Equal(t, []string{"2024-01-03"}, original.Repeat.CompletedInstances)

	// Detached series restarts at the pivot with a fresh id and clean
	// tables.
	assert.NotEqual(t, "s1", detached.ID)
	assert.NotEmpty(t, detached.ID)
	assert.Equal(t, "2024-01-10", detached.Date)
	assert.Equal(t, "11:00", detached.Time)
	assert.Equal(t, "standup", detached.Title)
	assert.Empty(t, detached.Repeat.ExcludeDates)
	assert.Empty(t, detached.Repeat.DeletedInstances)
	assert.Empty(t, detached.Repeat.InstanceModifications)
	assert.Empty(t, detached.Repeat.CompletedInstances)
	assert.Empty(t, detached.Repeat.CompletedTimes)
	assert.Empty(t, detached.Repeat.NotifiedInstances)
}

func TestSplit_PreservesUserTermination(t *testing.T) {
	e := New()
	s := splittableSeries()
	s.Repeat.EndDate = "2025-12-31"

	res, err := e.Split(s, "2024-06-15", SplitEdits{})
	require.NoError(t, err)
	require.NotNil(t, res.New)

	// The boundary only bounds the original; the user-set series end
	// carries over to the detached half.
	assert.Equal(t, "2024-06-14", res.Original.Repeat.EndDate)
	assert.Equal(t, "2025-12-31", res.New.Repeat.EndDate)
}

func TestSplit_MultiDaySpanFollowsPivot(t *testing.T) {
	e := New()
	s := splittableSeries()
	s.EndDate = "2024-01-03" // two-day span from the anchor

	res, err := e.Split(s, "2024-02-01", SplitEdits{})
	require.NoError(t, err)
	require.NotNil(t, res.New)
	assert.Equal(t, "2024-02-01", res.New.Date)
	assert.Equal(t, "2024-02-03", res.New.EndDate)
}

func TestSplit_Errors(t *testing.T) {
	e := New()

	_, err := e.Split(&remind.Series{ID: "s1", Date: "2024-01-01"}, "2024-01-05", SplitEdits{})
	assert.ErrorIs(t, err, ErrNotRecurring)

	_, err = e.Split(splittableSeries(), "not a date", SplitEdits{})
	assert.Error(t, err)
}

func TestSplit_BothHalvesExpandIndependently(t *testing.T) {
	e := New()
	s := splittableSeries()

	res, err := e.Split(s, "2024-01-06", SplitEdits{})
	require.NoError(t, err)
	require.NotNil(t, res.New)

	left, err := e.Expand(res.Original, "2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)
	right, err := e.Expand(res.New, "2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)

	for _, raw := range left {
		assert.Less(t, raw.Date, "2024-01-06")
	}
	require.NotEmpty(t, right)
	assert.Equal(t, "2024-01-06", right[0].Date)
}
