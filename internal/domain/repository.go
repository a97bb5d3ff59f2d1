package domain

import (
	"context"
	"fmt"
)

// Collection names a user-partitioned stored collection.
type Collection string

const (
	CollectionTransactions Collection = "realgoal-transactions"
	CollectionGoals        Collection = "realgoal-goals"
)

// Key returns the storage key for one user's copy of the collection.
// Keys are namespaced as <collectionName>_<userId>.
func (c Collection) Key(userID string) string {
	return fmt.Sprintf("%s_%s", string(c), userID)
}

// KeyValueStore defines the interface for the external key-value storage
// consumed by the persistence binding. Values are JSON documents.
type KeyValueStore interface {
	// Get retrieves the stored value for key. found is false when no value
	// has ever been stored under key.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// CollectionBinding defines the user-scoped load/save contract each store
// uses against external key-value storage. A binding is tied to one
// collection; Bind switches the underlying key when the authenticated user
// changes, discarding any association with the previous user.
type CollectionBinding interface {
	// Bind scopes the binding to userID and re-enters the loading state
	// until the next Load resolves.
	Bind(userID string)

	// UserID returns the currently bound user, or "" when unbound.
	UserID() string

	// Loading reports whether the bound key has not been resolved yet.
	Loading() bool

	// Load unmarshals the stored collection into dest. When no prior value
	// is stored, dest is left untouched so the caller-supplied default
	// applies.
	Load(ctx context.Context, dest any) error

	// Save marshals v and writes it to the bound key.
	Save(ctx context.Context, v any) error
}
