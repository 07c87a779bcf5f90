package engine

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"remindkit/internal/remind"
)

// The engine itself never caches: repeated expansion of the same inputs is
// cheap enough to recompute. ResultCache is an opt-in helper for callers
// that query the same windows repeatedly (e.g. a calendar view re-rendering
// on scroll). Entries are keyed by series id, window, and a content
// fingerprint of the series, so a mutated series naturally misses; there is
// no invalidation API.

// CacheEntry is one cached resolved expansion.
type CacheEntry struct {
	Instances  []remind.Instance
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// CacheConfig tunes the result cache.
type CacheConfig struct {
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// DefaultCacheConfig provides sensible defaults for interactive views.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// ResultCache caches resolved window expansions.
type ResultCache struct {
	entries     map[string]*CacheEntry
	mutex       sync.RWMutex
	ttl         time.Duration
	maxEntries  int
	stopCleanup chan struct{}
}

// NewResultCache creates a cache and starts its cleanup goroutine. Call
// Close when done.
func NewResultCache(config CacheConfig) *ResultCache {
	c := &ResultCache{
		entries:     make(map[string]*CacheEntry),
		ttl:         config.TTL,
		maxEntries:  config.MaxEntries,
		stopCleanup: make(chan struct{}),
	}
	go c.cleanupLoop(config.CleanupInterval)
	return c
}

// cacheKey fingerprints the series content together with the window, so any
// mutation of the series (override-table writes included) changes the key.
func cacheKey(s *remind.Series, windowStart, windowEnd string) string {
	hasher := sha256.New()
	if data, err := json.Marshal(s); err == nil {
		hasher.Write(data)
	}
	hasher.Write([]byte(windowStart))
	hasher.Write([]byte(windowEnd))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Get retrieves a cached expansion if present and unexpired.
func (c *ResultCache) Get(s *remind.Series, windowStart, windowEnd string) ([]remind.Instance, bool) {
	key := cacheKey(s, windowStart, windowEnd)

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()
	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.ExpiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.AccessedAt = now
	c.mutex.Unlock()
	return entry.Instances, true
}

// Set stores an expansion result.
func (c *ResultCache) Set(s *remind.Series, windowStart, windowEnd string, instances []remind.Instance) {
	key := cacheKey(s, windowStart, windowEnd)
	now := time.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = &CacheEntry{
		Instances:  instances,
		ExpiresAt:  now.Add(c.ttl),
		AccessedAt: now,
	}
	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries, then least recently accessed entries if
// still over the limit. Caller holds the write lock.
func (c *ResultCache) cleanup() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.AccessedAt.Before(oldest) {
				oldestKey = key
				oldest = entry.AccessedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

func (c *ResultCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (c *ResultCache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mutex.Unlock()
}

// CacheStats reports cache occupancy.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}

// Stats returns current cache statistics.
func (c *ResultCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	expired := 0
	now := time.Now()
	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			expired++
		}
	}
	return CacheStats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		ActiveEntries:  len(c.entries) - expired,
	}
}
