// internal/cache/memory.go
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore is an in-process Store used when Redis is not configured and in
// tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mtx     sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if time.Now().After(entry.expires) {
		delete(s.entries, key)
		return nil, ErrCacheMiss
	}
	return entry.data, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.entries[key] = memoryEntry{data: data, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Forget(_ context.Context, key string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) ForgetPrefix(_ context.Context, prefix string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

// Len reports the number of live entries, expired ones included until read.
func (s *MemoryStore) Len() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.entries)
}
