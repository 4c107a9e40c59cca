package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

// MemoryStore is the fallback session store used when Redis is not
// configured. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, tokenHash string, id Identity, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tokenHash] = memoryEntry{identity: id, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, tokenHash string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[tokenHash]
	if !ok {
		return Identity{}, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, tokenHash)
		return Identity{}, ErrNotFound
	}
	return entry.identity, nil
}

func (s *MemoryStore) Revoke(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, tokenHash)
	return nil
}
