// Package memory implements storage interfaces in process memory,
// for tests and local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vronhq/vron-gateway/internal/storage"
)

// Store implements storage.Store with in-process maps
type Store struct {
	mu      sync.RWMutex
	keys    map[string]*storage.Key
	entries []*storage.LogEntry
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{keys: make(map[string]*storage.Key)}
}

// CreateKey stores a new partner key record
func (s *Store) CreateKey(ctx context.Context, key *storage.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key.ID == "" {
		key.ID = uuid.New().String()
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now()
	}
	cp := *key
	s.keys[key.Name] = &cp
	return nil
}

// GetKeyByName retrieves a key record by host identity
func (s *Store) GetKeyByName(ctx context.Context, name string) (*storage.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *key
	return &cp, nil
}

// DeleteKey removes a key record by host identity
func (s *Store) DeleteKey(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[name]; !ok {
		return storage.ErrNotFound
	}
	delete(s.keys, name)
	return nil
}

// CreateLogEntry appends an audit record
func (s *Store) CreateLogEntry(ctx context.Context, entry *storage.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	cp := *entry
	s.entries = append(s.entries, &cp)
	return nil
}

// ListLogEntries returns audit records for an external reference, oldest first
func (s *Store) ListLogEntries(ctx context.Context, externalReference string) ([]*storage.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*storage.LogEntry
	for _, e := range s.entries {
		if e.ExternalReference == externalReference {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// Ping is a no-op for the in-memory store
func (s *Store) Ping(ctx context.Context) error {
	return nil
}
