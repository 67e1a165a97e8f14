package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// verdictCache avoids re-spending quota on text the gateway has already
// classified. Exact-match keyed on a content hash.
type verdictCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	verdict   *Verdict
	createdAt time.Time
}

func newVerdictCache(maxSize int, ttl time.Duration) *verdictCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &verdictCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func hashKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *verdictCache) get(text string) (*Verdict, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[hashKey(text)]
	if !ok {
		return nil, false
	}
	if time.Since(entry.createdAt) > c.ttl {
		return nil, false
	}
	v := *entry.verdict
	return &v, true
}

func (c *verdictCache) put(text string, v *Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		// Rudimentary eviction: clear the map when full.
		c.entries = make(map[string]*cacheEntry)
	}
	stored := *v
	c.entries[hashKey(text)] = &cacheEntry{verdict: &stored, createdAt: time.Now()}
}
