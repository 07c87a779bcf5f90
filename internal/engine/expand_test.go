package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindkit/internal/remind"
)

func dailySeries(id, anchor string) *remind.Series {
	return &remind.Series{
		ID:     id,
		Title:  "daily task",
		Date:   anchor,
		Repeat: &remind.RepeatRule{Enabled: true, Type: remind.RepeatDaily},
	}
}

func keysOf(raws []remind.RawOccurrence) []string {
	out := make([]string, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.Key.OriginalKey)
	}
	return out
}

func TestExpand_Daily(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")

	raws, err := e.Expand(s, "2024-01-03", "2024-01-05", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03", "2024-01-04", "2024-01-05"}, keysOf(raws))

	for _, raw := range raws {
		assert.Equal(t, "s1", raw.Key.SeriesID)
		assert.Equal(t, raw.Key.OriginalKey, raw.Date)
	}
}

func TestExpand_WindowBound(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")

	raws, err := e.Expand(s, "2024-02-01", "2024-02-03", 0)
	require.NoError(t, err)
	for _, raw := range raws {
		assert.GreaterOrEqual(t, raw.Date, "2024-02-01")
		assert.LessOrEqual(t, raw.Date, "2024-02-03")
	}
	assert.Len(t, raws, 3)
}

func TestExpand_AnchorAfterWindowStart(t *testing.T) {
	e := New()
	// Anchor inside the window: the first occurrence is the anchor itself,
	// never an extrapolated earlier date.
	s := dailySeries("s1", "2024-01-10")

	raws, err := e.Expand(s, "2024-01-01", "2024-01-12", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-10", "2024-01-11", "2024-01-12"}, keysOf(raws))
}

func TestExpand_Idempotent(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")
	s.Repeat.ExcludeDates = []string{"2024-01-04"}

	first, err := e.Expand(s, "2024-01-01", "2024-01-07", 0)
	require.NoError(t, err)
	second, err := e.Expand(s, "2024-01-01", "2024-01-07", 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpand_RuleEndDate(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")
	s.Repeat.EndDate = "2024-01-03"

	raws, err := e.Expand(s, "2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, keysOf(raws))
}

func TestExpand_EndCount(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")
	s.Repeat.EndCount = 4

	raws, err := e.Expand(s, "2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}, keysOf(raws))

	// The count is a position in the series, not a tally of what the
	// window happened to contain.
	raws, err = e.Expand(s, "2024-01-03", "2024-01-31", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03", "2024-01-04"}, keysOf(raws))
}

func TestExpand_Exclusions(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")
	s.Repeat.ExcludeDates = []string{"2024-01-02"}
	s.Repeat.DeletedInstances = []string{"2024-01-04"}

	raws, err := e.Expand(s, "2024-01-01", "2024-01-05", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-03", "2024-01-05"}, keysOf(raws))
}

func TestExpand_MaxInstancesCap(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")

	raws, err := e.Expand(s, "2024-01-01", "2024-12-31", 10)
	require.NoError(t, err)
	assert.Len(t, raws, 10)
}

func TestExpand_MultiDaySpan(t *testing.T) {
	e := New()
	s := &remind.Series{
		ID:      "s1",
		Title:   "offsite",
		Date:    "2024-01-01",
		EndDate: "2024-01-03",
		Time:    "09:00",
		EndTime: "17:00",
		Repeat:  &remind.RepeatRule{Enabled: true, Type: remind.RepeatWeekly},
	}

	raws, err := e.Expand(s, "2024-01-01", "2024-01-14", 0)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "2024-01-01", raws[0].Date)
	assert.Equal(t, "2024-01-03", raws[0].EndDate)
	assert.Equal(t, "2024-01-08", raws[1].Date)
	assert.Equal(t, "2024-01-10", raws[1].EndDate)
	assert.Equal(t, "09:00", raws[1].Time)
	assert.Equal(t, "17:00", raws[1].EndTime)
}

func TestExpand_MonthlyClampSequence(t *testing.T) {
	e := New()
	s := &remind.Series{
		ID:     "s1",
		Title:  "end of month",
		Date:   "2024-01-31",
		Repeat: &remind.RepeatRule{Enabled: true, Type: remind.RepeatMonthly},
	}

	raws, err := e.Expand(s, "2024-01-01", "2024-04-30", 0)
	require.NoError(t, err)
	// Clamping re-anchors each step, so the day drifts to the clamped value.
	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-29", "2024-04-29"}, keysOf(raws))
}

func TestExpand_NonRecurring(t *testing.T) {
	e := New()
	s := &remind.Series{ID: "s1", Title: "one shot", Date: "2024-01-01"}

	raws, err := e.Expand(s, "2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)
	assert.Nil(t, raws)
}

func TestExpand_BadAnchorSkips(t *testing.T) {
	e := New()
	s := dailySeries("s1", "not a date")

	raws, err := e.Expand(s, "2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)
	assert.Nil(t, raws)
}

func TestExpand_BadWindow(t *testing.T) {
	e := New()
	s := dailySeries("s1", "2024-01-01")

	_, err := e.Expand(s, "nope", "2024-01-31", 0)
	assert.Error(t, err)

	_, err = e.Expand(s, "2024-01-31", "2024-01-01", 0)
	assert.Error(t, err)
}
