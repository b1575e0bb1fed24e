package http

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/portal/core"
	"github.com/layer-3/portal/ports"
)

// SessionKeyPrefix namespaces UI sessions in their store
const SessionKeyPrefix = "session:"

// Sessions binds opaque session ids issued at login to wallet addresses
type Sessions struct {
	store ports.Store
	ttl   time.Duration
}

// NewSessions creates sessions kept in store for ttl
func NewSessions(store ports.Store, ttl time.Duration) *Sessions {
	return &Sessions{
		store: store,
		ttl:   ttl,
	}
}

// Create issues a session for address
func (s *Sessions) Create(ctx context.Context, address string) (string, error) {
	id := uuid.New().String()
	if err := s.store.Set(ctx, SessionKeyPrefix+id, address, s.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// Resolve returns the address a session belongs to
func (s *Sessions) Resolve(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", core.ErrNotFound
	}

	address, err := s.store.Get(ctx, SessionKeyPrefix+id)
	if err != nil {
		return "", err
	}
	if address == "" {
		return "", core.ErrNotFound
	}
	return address, nil
}

// Revoke ends a session
func (s *Sessions) Revoke(ctx context.Context, id string) error {
	return s.store.Delete(ctx, SessionKeyPrefix+id)
}
