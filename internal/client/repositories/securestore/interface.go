package securestore

import (
	"context"
)

// Repository is the device-local key/value store backing the session.
//
// Get returns (nil, nil) for a missing key. Delete is idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
