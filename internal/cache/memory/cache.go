// Package memory provides the in-process TTL cache for preview outcomes.
package memory

import (
	"sync"
	"time"

	"previewd/internal/preview"
)

type entry struct {
	outcome  preview.Outcome
	storedAt time.Time
}

// Cache is a concurrency-safe map from raw URL string to outcome with
// time-based expiry. Keys are exact: URLs differing by a single character
// are distinct entries. There is no size eviction; entries past the TTL are
// treated as absent on Get and physically removed by PurgeExpired.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   preview.Clock
	entries map[string]entry
}

// New constructs a Cache with the given time-to-live.
func New(ttl time.Duration, clock preview.Clock) *Cache {
	return &Cache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the live outcome stored under key, if any. An expired entry is
// a miss even when it has not been purged yet.
func (c *Cache) Get(key string) (preview.Outcome, bool) {
	now := c.clock.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.expired(e, now) {
		return preview.Outcome{}, false
	}
	return e.outcome, true
}

// Insert stores outcome under key with the current timestamp, overwriting
// any previous entry. Successes and failures are stored identically.
func (c *Cache) Insert(key string, outcome preview.Outcome) {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{outcome: outcome, storedAt: now}
}

// PurgeExpired removes entries past the TTL and reports how many were
// dropped.
func (c *Cache) PurgeExpired() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for key, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of entries held, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) expired(e entry, now time.Time) bool {
	return now.Sub(e.storedAt) >= c.ttl
}
