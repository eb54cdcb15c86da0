package ratecache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     float64
	expiresAt time.Time
}

// MemoryStore is a process-local map of key to (value, expiresAt).
// Entries are evicted lazily by the read that finds them expired.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty store. A nil clock defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), now: now}
}

// Get returns the value for key if it exists and now is before its expiry.
func (s *MemoryStore) Get(key string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return 0, false
	}
	return entry.value, true
}

// Set stores value under key until now+ttl, replacing any previous entry.
func (s *MemoryStore) Set(key string, value float64, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ttl <= 0 {
		delete(s.entries, key)
		return
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
}

// Len reports how many entries are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
