package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"talentvet/internal/domain"
)

// Payload is the composite scoring result memoized per document (+ JD).
type Payload struct {
	Authenticity domain.AuthenticityReport
	Match        *domain.MatchReport
}

type entry struct {
	payload  Payload
	storedAt time.Time
}

// ScoreCache is a content-addressed in-memory cache of scoring output.
// Entries expire after a TTL; when the cache grows past maxEntries, expired
// entries are evicted first, then the oldest remaining.
type ScoreCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a ScoreCache with the given TTL and entry bound.
func New(ttl time.Duration, maxEntries int) *ScoreCache {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &ScoreCache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Key derives the cache key from raw document bytes and optional JD text.
func Key(docBytes []byte, jdText string) string {
	h := sha256.New()
	h.Write(docBytes)
	if jdText != "" {
		h.Write([]byte(jdText))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns a copy of the cached payload, or false on miss or expiry.
func (c *ScoreCache) Get(key string) (Payload, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Payload{}, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		return Payload{}, false
	}
	p := e.payload
	if e.payload.Match != nil {
		m := *e.payload.Match
		p.Match = &m
	}
	return p, true
}

// Set stores or replaces the payload for key, evicting as needed.
func (c *ScoreCache) Set(key string, p Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = entry{payload: p, storedAt: c.now()}
}

// evictLocked drops all expired entries, then the oldest remaining entry if
// the cache is still at capacity. Caller must hold the write lock.
func (c *ScoreCache) evictLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Stats reports current cache size and configured TTL.
func (c *ScoreCache) Stats() (size int, ttl time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), c.ttl
}
