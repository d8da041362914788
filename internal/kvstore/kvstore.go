package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Store is the transient key-value dependency of the attempt workflow. The
// answer cache and the result archive are both plain string entries with a
// TTL; nothing here is a system of record.
type Store interface {
	// Set writes a value, replacing any previous one. A zero ttl means no
	// expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value for key, or ErrNotFound if it is absent or
	// expired.
	Get(ctx context.Context, key string) (string, error)
	// Keys returns the keys matching pattern. Only trailing-asterisk
	// patterns ("prefix*") and literal keys are used by this codebase.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// MGet returns the values of the given keys that still exist; missing
	// or expired keys are skipped.
	MGet(ctx context.Context, keys ...string) ([]string, error)
	// Del removes the given keys. Missing keys are ignored.
	Del(ctx context.Context, keys ...string) error
}
