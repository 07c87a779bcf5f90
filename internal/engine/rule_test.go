package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindkit/internal/remind"
)

// fakeLunar is a deterministic stand-in for the lunar converter: monthly
// steps advance 29 or 30 days alternately, yearly steps advance 354 days.
type fakeLunar struct {
	fail bool
}

func (f *fakeLunar) Solar(t time.Time) (int, int, error) {
	return 1, 1, nil
}

func (f *fakeLunar) NextMonthly(ref time.Time, lunarDay int) (time.Time, error) {
	if f.fail {
		return time.Time{}, errors.New("conversion failed")
	}
	days := 29
	if ref.Month()%2 == 0 {
		days = 30
	}
	return ref.AddDate(0, 0, days), nil
}

func (f *fakeLunar) NextYearly(ref time.Time, lunarMonth, lunarDay int) (time.Time, error) {
	if f.fail {
		return time.Time{}, errors.New("conversion failed")
	}
	return ref.AddDate(0, 0, 354), nil
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNextOccurrence_FixedStepRules(t *testing.T) {
	e := New()

	tests := []struct {
		name   string
		rule   remind.RepeatRule
		anchor string
		cursor string
		want   string
	}{
		{
			name:   "daily",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatDaily},
			anchor: "2024-01-01", cursor: "2024-01-01", want: "2024-01-02",
		},
		{
			name:   "daily with interval",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatDaily, Interval: 3},
			anchor: "2024-01-01", cursor: "2024-01-04", want: "2024-01-07",
		},
		{
			name:   "weekly keeps weekday",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatWeekly},
			anchor: "2024-01-01", cursor: "2024-01-08", want: "2024-01-15",
		},
		{
			name:   "biweekly",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatWeekly, Interval: 2},
			anchor: "2024-01-01", cursor: "2024-01-01", want: "2024-01-15",
		},
		{
			name:   "monthly plain",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatMonthly},
			anchor: "2024-03-15", cursor: "2024-03-15", want: "2024-04-15",
		},
		{
			name:   "monthly clamps jan 31 to feb 29",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatMonthly},
			anchor: "2024-01-31", cursor: "2024-01-31", want: "2024-02-29",
		},
		{
			name:   "monthly clamp re-anchors from clamped cursor",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatMonthly},
			anchor: "2024-01-31", cursor: "2024-02-29", want: "2024-03-29",
		},
		{
			name:   "yearly plain",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatYearly},
			anchor: "2023-06-15", cursor: "2024-06-15", want: "2025-06-15",
		},
		{
			name:   "yearly clamps feb 29 to feb 28",
			rule:   remind.RepeatRule{Enabled: true, Type: remind.RepeatYearly},
			anchor: "2024-02-29", cursor: "2024-02-29", want: "2025-02-28",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.NextOccurrence(day(tt.anchor), day(tt.cursor), tt.rule).Get()
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestNextOccurrence_Ebbinghaus(t *testing.T) {
	e := New()
	anchor := day("2024-01-01")
	rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatEbbinghaus}

	// Default pattern 1,2,4,7,15: offsets measured from the anchor.
	got, ok := e.NextOccurrence(anchor, anchor, rule).Get()
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", got.Format("2006-01-02"))

	got, ok = e.NextOccurrence(anchor, day("2024-01-05"), rule).Get()
	require.True(t, ok)
	assert.Equal(t, "2024-01-08", got.Format("2006-01-02"))

	// Past the final offset the pattern is exhausted.
	_, ok = e.NextOccurrence(anchor, day("2024-01-16"), rule).Get()
	assert.False(t, ok)
}

func TestNextOccurrence_EbbinghausCustomPattern(t *testing.T) {
	e := New()
	anchor := day("2024-01-01")
	rule := remind.RepeatRule{
		Enabled: true, Type: remind.RepeatEbbinghaus,
		// Unsorted on purpose; the evaluator orders the offsets.
		EbbinghausPattern: []int{10, 3},
	}

	got, ok := e.NextOccurrence(anchor, anchor, rule).Get()
	require.True(t, ok)
	assert.Equal(t, "2024-01-04", got.Format("2006-01-02"))

	got, ok = e.NextOccurrence(anchor, day("2024-01-04"), rule).Get()
	require.True(t, ok)
	assert.Equal(t, "2024-01-11", got.Format("2006-01-02"))
}

func TestNextOccurrence_Custom(t *testing.T) {
	e := New()
	anchor := day("2024-01-01")

	t.Run("weekday filter", func(t *testing.T) {
		// Mondays (1) and Fridays (5). 2024-01-01 is a Monday.
		rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatCustom, WeekDays: []int{1, 5}}
		got, ok := e.NextOccurrence(anchor, anchor, rule).Get()
		require.True(t, ok)
		assert.Equal(t, "2024-01-05", got.Format("2006-01-02"))

		got, ok = e.NextOccurrence(anchor, got, rule).Get()
		require.True(t, ok)
		assert.Equal(t, "2024-01-08", got.Format("2006-01-02"))
	})

	t.Run("month day filter", func(t *testing.T) {
		rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatCustom, MonthDays: []int{1, 15}}
		got, ok := e.NextOccurrence(anchor, anchor, rule).Get()
		require.True(t, ok)
		assert.Equal(t, "2024-01-15", got.Format("2006-01-02"))
	})

	t.Run("combined month and day filter", func(t *testing.T) {
		rule := remind.RepeatRule{
			Enabled: true, Type: remind.RepeatCustom,
			Months: []int{3}, MonthDays: []int{10},
		}
		got, ok := e.NextOccurrence(anchor, anchor, rule).Get()
		require.True(t, ok)
		assert.Equal(t, "2024-03-10", got.Format("2006-01-02"))
	})

	t.Run("no filters matches nothing", func(t *testing.T) {
		rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatCustom}
		_, ok := e.NextOccurrence(anchor, anchor, rule).Get()
		assert.False(t, ok)
	})
}

func TestNextOccurrence_Lunar(t *testing.T) {
	cursor := day("2024-02-10")

	t.Run("monthly delegates to converter", func(t *testing.T) {
		e := New(WithLunarCalendar(&fakeLunar{}))
		rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatLunarMonthly, LunarDay: 1}
		got, ok := e.NextOccurrence(cursor, cursor, rule).Get()
		require.True(t, ok)
		assert.Equal(t, "2024-03-11", got.Format("2006-01-02"))
	})

	t.Run("yearly delegates to converter", func(t *testing.T) {
		e := New(WithLunarCalendar(&fakeLunar{}))
		rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatLunarYearly, LunarMonth: 1, LunarDay: 1}
		got, ok := e.NextOccurrence(cursor, cursor, rule).Get()
		require.True(t, ok)
		assert.Equal(t, cursor.AddDate(0, 0, 354).Format("2006-01-02"), got.Format("2006-01-02"))
	})

	t.Run("conversion failure advances one day", func(t *testing.T) {
		e := New(WithLunarCalendar(&fakeLunar{fail: true}))
		rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatLunarMonthly, LunarDay: 1}
		got, ok := e.NextOccurrence(cursor, cursor, rule).Get()
		require.True(t, ok)
		assert.Equal(t, "2024-02-11", got.Format("2006-01-02"))
	})

	t.Run("missing lunar anchor exhausts", func(t *testing.T) {
		e := New(WithLunarCalendar(&fakeLunar{}))
		rule := remind.RepeatRule{Enabled: true, Type: remind.RepeatLunarYearly, LunarDay: 1}
		_, ok := e.NextOccurrence(cursor, cursor, rule).Get()
		assert.False(t, ok)
	})
}

func TestNextOccurrence_UnknownType(t *testing.T) {
	e := New()
	rule := remind.RepeatRule{Enabled: true, Type: "fortnightly"}
	_, ok := e.NextOccurrence(day("2024-01-01"), day("2024-01-01"), rule).Get()
	assert.False(t, ok)
}
