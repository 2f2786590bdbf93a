package storage

import "context"

// ErrNotFound is returned when no value exists under the requested key.
type notFoundError struct{}

func (notFoundError) Error() string { return "storage: key not found" }

// ErrNotFound signals an absent key. Callers treat it as "start empty".
var ErrNotFound error = notFoundError{}

// Store is the durable local storage consumed by the storefront state
// machines: an opaque string blob per key. The cart blob, the per-identity
// welcome flag and the search history all live behind this interface.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Fixed keys used by the storefront.
const (
	CartKey = "cart"
)

// WelcomeKey returns the has-seen-welcome key for an identity.
func WelcomeKey(identityID string) string {
	return "welcome:" + identityID
}

// SearchHistoryKey returns the search-history key for an identity.
func SearchHistoryKey(identityID string) string {
	return "search_history:" + identityID
}
