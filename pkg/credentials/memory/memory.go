// Package memory provides an in-memory credential store. It backs tests
// and ephemeral runs where persistence across restarts is not wanted.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brygal1/flowise/pkg/credentials"
	"github.com/brygal1/flowise/pkg/errors"
)

// Store is an in-memory implementation of credentials.Store.
type Store struct {
	mu      sync.RWMutex
	records map[string]credentials.Record
}

var _ credentials.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]credentials.Record),
	}
}

// Ping always succeeds; the store has no external connection to lose.
func (*Store) Ping(context.Context) error {
	return nil
}

// Load returns the record with the given id.
func (s *Store) Load(_ context.Context, id string) (*credentials.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, errors.NewNotFoundError("credential "+id+" not found", nil)
	}
	// Copy so callers cannot mutate stored state.
	out := rec
	return &out, nil
}

// Create stores a new record and returns its assigned id.
func (s *Store) Create(_ context.Context, rec *credentials.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	stored.ID = uuid.NewString()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.records[stored.ID] = stored

	return stored.ID, nil
}

// All returns a copy of every stored record.
func (s *Store) All() []*credentials.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*credentials.Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := rec
		out = append(out, &cp)
	}
	return out
}

// UpdateTokens writes new tokens and marks the record authenticated.
func (s *Store) UpdateTokens(_ context.Context, id string, update credentials.TokenUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return errors.NewNotFoundError("credential "+id+" not found", nil)
	}

	rec.AccessToken = update.AccessToken
	rec.RefreshToken = update.RefreshToken
	rec.TokenExpiry = update.TokenExpiry
	rec.AuthStatus = credentials.StatusAuthenticated
	rec.UpdatedAt = time.Now().UTC()
	s.records[id] = rec

	return nil
}

// UpdateStatus changes only the auth status of the record.
func (s *Store) UpdateStatus(_ context.Context, id string, status credentials.AuthStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return errors.NewNotFoundError("credential "+id+" not found", nil)
	}

	rec.AuthStatus = status
	rec.UpdatedAt = time.Now().UTC()
	s.records[id] = rec

	return nil
}
