package captcha

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/storage"
)

// Store is a small time-to-live key/value store for captcha challenges.
// TakeOnce must remove the entry as part of the lookup so a challenge can
// never be validated twice.
type Store interface {
	// Set stores value under key for ttl.
	Set(key string, value []byte, ttl time.Duration) error
	// TakeOnce looks up key, removes the entry unconditionally and returns
	// the stored value. ok is false when the key is absent or expired.
	TakeOnce(key string) (value []byte, ok bool, err error)
}

// MemoryStore keeps challenges in process memory. Lookup and removal happen
// under one lock, so two concurrent validations of the same token result in
// exactly one success.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory challenge store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

// Set stores value under key for ttl.
func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{value: buf, expiresAt: time.Now().Add(ttl)}

	return nil
}

// TakeOnce removes and returns the entry for key.
func (s *MemoryStore) TakeOnce(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}

	delete(s.entries, key)

	if time.Now().After(e.expiresAt) {
		return nil, false, nil
	}

	return e.value, true, nil
}

// Len reports the number of live entries, expired ones included until taken.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// SharedStore adapts a fiber storage backend (MySQL in production) so a
// multi-instance deployment can share challenges. The backend handles the
// ttl; get and delete are two calls here, so the at-most-once guarantee
// only holds per process.
type SharedStore struct {
	backend storage.Storage
}

// NewSharedStore wraps a fiber storage backend.
func NewSharedStore(backend storage.Storage) *SharedStore {
	return &SharedStore{backend: backend}
}

// Set stores value under key for ttl.
func (s *SharedStore) Set(key string, value []byte, ttl time.Duration) error {
	if err := s.backend.Set(key, value, ttl); err != nil {
		return fmt.Errorf("captcha store set: %w", err)
	}

	return nil
}

// TakeOnce removes and returns the entry for key.
func (s *SharedStore) TakeOnce(key string) ([]byte, bool, error) {
	value, err := s.backend.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("captcha store get: %w", err)
	}

	if len(value) == 0 {
		return nil, false, nil
	}

	if err := s.backend.Delete(key); err != nil {
		return nil, false, fmt.Errorf("captcha store delete: %w", err)
	}

	return value, true, nil
}
