package store

import "context"

// Store defines the key-value capability consumed by the cache manager and
// persistence coordinator. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or [shared.ErrKeyNotFound]
	// if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// ListKeys returns every stored key beginning with prefix, in
	// lexicographic order. An empty prefix lists all keys.
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// Clear removes every key in the store.
	Clear(ctx context.Context) error
}
