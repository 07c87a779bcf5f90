package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindkit/internal/remind"
)

func testCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:             time.Minute,
		MaxEntries:      3,
		CleanupInterval: time.Hour,
	}
}

func TestResultCache_SetGet(t *testing.T) {
	c := NewResultCache(testCacheConfig())
	defer c.Close()

	s := dailySeries("s1", "2024-01-01")
	instances := []remind.Instance{{
		Key:  remind.InstanceKey{SeriesID: "s1", OriginalKey: "2024-01-01"},
		Date: "2024-01-01",
	}}

	_, ok := c.Get(s, "2024-01-01", "2024-01-31")
	assert.False(t, ok)

	c.Set(s, "2024-01-01", "2024-01-31", instances)
	got, ok := c.Get(s, "2024-01-01", "2024-01-31")
	require.True(t, ok)
	assert.Equal(t, instances, got)

	// Different window misses.
	_, ok = c.Get(s, "2024-02-01", "2024-02-28")
	assert.False(t, ok)
}

func TestResultCache_SeriesMutationMisses(t *testing.T) {
	c := NewResultCache(testCacheConfig())
	defer c.Close()

	s := dailySeries("s1", "2024-01-01")
	c.Set(s, "2024-01-01", "2024-01-31", nil)

	_, ok := c.Get(s, "2024-01-01", "2024-01-31")
	require.True(t, ok)

	// Any content change, an override-table write included, changes the
	// fingerprint.
	s.Repeat.Exclude("2024-01-05")
	_, ok = c.Get(s, "2024-01-01", "2024-01-31")
	assert.False(t, ok)
}

func TestResultCache_Expiry(t *testing.T) {
	cfg := testCacheConfig()
	cfg.TTL = 10 * time.Millisecond
	c := NewResultCache(cfg)
	defer c.Close()

	s := dailySeries("s1", "2024-01-01")
	c.Set(s, "2024-01-01", "2024-01-31", nil)

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get(s, "2024-01-01", "2024-01-31")
	assert.False(t, ok)
}

func TestResultCache_EvictsOverLimit(t *testing.T) {
	c := NewResultCache(testCacheConfig())
	defer c.Close()

	for i := 0; i < 5; i++ {
		s := dailySeries("s1", "2024-01-01")
		s.Title = string(rune('a' + i))
		c.Set(s, "2024-01-01", "2024-01-31", nil)
	}

	stats := c.Stats()
	assert.LessOrEqual(t, stats.TotalEntries, 3)
}

func TestResultCache_Stats(t *testing.T) {
	c := NewResultCache(testCacheConfig())
	defer c.Close()

	c.Set(dailySeries("s1", "2024-01-01"), "2024-01-01", "2024-01-31", nil)
	c.Set(dailySeries("s2", "2024-01-01"), "2024-01-01", "2024-01-31", nil)

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 2, stats.ActiveEntries)
	assert.Equal(t, 0, stats.ExpiredEntries)
}
