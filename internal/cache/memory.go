package cache

import (
	"context"
	"sync"
	"time"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
)

type entry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Cache holding at most a fixed number of entries.
// Expired entries are dropped on read and swept when the cache fills up.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

// NewMemory returns an empty in-memory cache bounded to
// constants.DefaultMemoryCacheEntries entries.
func NewMemory() *Memory {
	return NewMemoryWithLimit(constants.DefaultMemoryCacheEntries)
}

// NewMemoryWithLimit returns an empty in-memory cache holding at most
// maxEntries entries. A non-positive limit uses the default.
func NewMemoryWithLimit(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultMemoryCacheEntries
	}
	return &Memory{entries: make(map[string]entry), maxEntries: maxEntries, now: time.Now}
}

// Get returns the value stored under key if it has not expired.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. A non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.makeRoomLocked()
	}
	m.entries[key] = e
	return nil
}

// makeRoomLocked drops expired entries, then the entry closest to expiry if
// the cache is still full. Entries without expiry go last.
func (m *Memory) makeRoomLocked() {
	now := m.now()
	for key, e := range m.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.entries, key)
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var victim string
	var victimExpiry time.Time
	found := false
	for key, e := range m.entries {
		switch {
		case !found:
		case e.expires.IsZero():
			continue
		case !victimExpiry.IsZero() && !e.expires.Before(victimExpiry):
			continue
		}
		victim, victimExpiry, found = key, e.expires, true
	}
	delete(m.entries, victim)
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
