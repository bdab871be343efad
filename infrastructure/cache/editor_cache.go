package cache

import (
	"sync"
	"time"

	"odinpos/infrastructure/editor"
)

type editorEntry struct {
	mu      sync.Mutex
	session *editor.Session
	touched time.Time
}

// EditorSessionCache stores open editor sessions by id. Each session has its
// own lock so concurrent requests against one editor are serialised while
// different editors proceed independently.
type EditorSessionCache struct {
	mu       sync.RWMutex
	sessions map[string]*editorEntry
	now      func() time.Time
}

func NewEditorSessionCache() *EditorSessionCache {
	return &EditorSessionCache{sessions: make(map[string]*editorEntry), now: time.Now}
}

func (c *EditorSessionCache) AddSession(s *editor.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = &editorEntry{session: s, touched: c.now()}
}

// WithSession runs fn while holding the session's lock. It reports false
// when no session has that id.
func (c *EditorSessionCache) WithSession(id string, fn func(*editor.Session) error) (bool, error) {
	c.mu.RLock()
	entry, ok := c.sessions[id]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched = c.now()
	return true, fn(entry.session)
}

func (c *EditorSessionCache) DeleteSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

// EvictIdle drops sessions untouched for longer than maxIdle and returns
// how many were removed.
func (c *EditorSessionCache) EvictIdle(maxIdle time.Duration) int {
	cutoff := c.now().Add(-maxIdle)
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, entry := range c.sessions {
		entry.mu.Lock()
		stale := entry.touched.Before(cutoff)
		entry.mu.Unlock()
		if stale {
			delete(c.sessions, id)
			n++
		}
	}
	return n
}

func (c *EditorSessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
