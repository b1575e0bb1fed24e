package ports

import (
	"context"
	"time"
)

// Store is a key-value mapping holding one kind of token.
// Get returns core.ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
