package repository

import "context"

// KVRepository is a string key-value store. A missing key is reported
// through found, not as an error.
type KVRepository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// SetMany writes all values atomically.
	SetMany(ctx context.Context, values map[string]string) error
}
