package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	val       []byte
	expiresAt time.Time
}

// MemoryStorage is the single-process fiber.Storage used when no redis
// host is configured, and in tests.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return nil, nil
	}
	return e.val, nil
}

func (s *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{val: append([]byte(nil), val...)}
	if exp > 0 {
		e.expiresAt = s.now().Add(exp)
	}
	s.data[key] = e
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Reset() error {
	s.mu.Lock()
	s.data = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
