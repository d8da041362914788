package kvstore

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process Store used by tests and by local development
// without a Redis instance. Expired entries are dropped lazily on access.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || m.expired(entry) {
		delete(m.entries, key)
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (m *Memory) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix, wildcard := strings.CutSuffix(pattern, "*")
	var keys []string
	for key, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, key)
			continue
		}
		if wildcard && strings.HasPrefix(key, prefix) || !wildcard && key == pattern {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *Memory) MGet(ctx context.Context, keys ...string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	values := make([]string, 0, len(keys))
	for _, key := range keys {
		entry, ok := m.entries[key]
		if !ok || m.expired(entry) {
			delete(m.entries, key)
			continue
		}
		values = append(values, entry.value)
	}
	return values, nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// TTL reports the remaining lifetime of a key; it exists so tests can assert
// expiry windows without waiting them out.
func (m *Memory) TTL(key string) (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || m.expired(entry) {
		return 0, false
	}
	if entry.expiresAt.IsZero() {
		return 0, true
	}
	return entry.expiresAt.Sub(m.now()), true
}

func (m *Memory) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt)
}
