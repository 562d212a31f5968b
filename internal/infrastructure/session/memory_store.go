package session

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// MemoryStore keeps session records in process memory.
// Records are lost on restart; use it for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]record
	now     func() time.Time
}

type record struct {
	blob      []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]record), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[sessionID]
	if !ok || s.expired(r) {
		return nil, identity.ErrSessionNotFound
	}
	out := make([]byte, len(r.blob))
	copy(out, r.blob)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, blob []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.records[sessionID] = record{blob: stored, expiresAt: s.expiry(ttl)}
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[sessionID]
	if !ok || s.expired(r) {
		delete(s.records, sessionID)
		return identity.ErrSessionNotFound
	}
	r.expiresAt = s.expiry(ttl)
	s.records[sessionID] = r
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
	return nil
}

// Len returns the number of stored records, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func (s *MemoryStore) expired(r record) bool {
	return !r.expiresAt.IsZero() && s.now().After(r.expiresAt)
}

var _ identity.SessionStore = (*MemoryStore)(nil)
