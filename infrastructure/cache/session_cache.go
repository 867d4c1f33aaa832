package cache

import (
	"maps"
	"sync"
	"time"

	"verifyimage/models"
)

// SessionCache stores sessions by storage ID. Values maps are never mutated
// in place, so a Session handed out by Find stays stable for the caller.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewSessionCache() *SessionCache {
	return &SessionCache{sessions: make(map[string]models.Session)}
}

func (c *SessionCache) Add(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	c.sessions[s.ID] = s
}

func (c *SessionCache) Find(id string) (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[id]
	return s, ok
}

// SetValue replaces one value on a cached session. It reports false when the
// session is not cached.
func (c *SessionCache) SetValue(id, key, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return false
	}
	values := maps.Clone(s.Values)
	if values == nil {
		values = make(map[string]string, 1)
	}
	values[key] = value
	s.Values = values
	c.sessions[id] = s
	return true
}

func (c *SessionCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

// DeleteExpired drops every session whose expiry is before now and returns
// how many were dropped.
func (c *SessionCache) DeleteExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, s := range c.sessions {
		if s.ExpiresAt.Before(now) {
			delete(c.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of cached sessions.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
