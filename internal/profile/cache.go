package profile

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of cached profiles.
const DefaultCacheSize = 256

// Clock returns the current time. Tests substitute a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Entry is a cached profile together with where and when it came from.
type Entry struct {
	Profile     *Profile
	LoadedAt    time.Time
	SourcePath  string
	SourceMtime time.Time
}

// Cache holds parsed profiles keyed by id. An entry is served only while
// it is younger than the TTL and its source file is unchanged. A zero TTL
// disables caching.
type Cache struct {
	ttl     time.Duration
	clock   Clock
	entries *lru.Cache[string, Entry]
}

// NewCache creates a cache. A nil clock means SystemClock; size <= 0
// means DefaultCacheSize.
func NewCache(ttl time.Duration, clock Clock, size int) *Cache {
	if clock == nil {
		clock = SystemClock{}
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New[string, Entry](size)
	return &Cache{ttl: ttl, clock: clock, entries: entries}
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Now returns the cache clock's current time.
func (c *Cache) Now() time.Time {
	return c.clock.Now()
}

// Get returns the cached profile for id if the entry is fresh, was read
// from path, and path still has the given mtime.
func (c *Cache) Get(id, path string, mtime time.Time) (*Profile, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	e, ok := c.entries.Get(id)
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(e.LoadedAt) >= c.ttl {
		return nil, false
	}
	if e.SourcePath != path || !e.SourceMtime.Equal(mtime) {
		return nil, false
	}
	return e.Profile, true
}

// Put replaces the entry for id, stamping it with the current time.
func (c *Cache) Put(id string, p *Profile, path string, mtime time.Time) {
	c.entries.Add(id, Entry{
		Profile:     p,
		LoadedAt:    c.clock.Now(),
		SourcePath:  path,
		SourceMtime: mtime,
	})
}

// Invalidate drops the entry for id.
func (c *Cache) Invalidate(id string) {
	c.entries.Remove(id)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Len returns the number of entries, fresh or stale.
func (c *Cache) Len() int {
	return c.entries.Len()
}
