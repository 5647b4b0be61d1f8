package cache

import (
	"sync"
	"time"
)

// Revocations remembers revoked token ids until the token would have expired
// anyway. Expired entries are dropped on the next Revoke.
type Revocations struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	timeNow func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{
		entries: make(map[string]time.Time),
		timeNow: time.Now,
	}
}

func (c *Revocations) Revoke(id string, until time.Time) {
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
	if until.After(c.timeNow()) {
		c.entries[id] = until
	}
}

func (c *Revocations) IsRevoked(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	until, found := c.entries[id]
	return found && until.After(c.timeNow())
}

func (c *Revocations) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Revocations) purgeLocked() {
	now := c.timeNow()
	for id, until := range c.entries {
		if !until.After(now) {
			delete(c.entries, id)
		}
	}
}
