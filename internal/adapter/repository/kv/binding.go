// Package kv implements the user-scoped persistence binding each store uses
// against external key-value storage.
package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/realgoal/realgoal-backend/internal/domain"
)

// Binding couples one collection to one user's key in the external store.
// It implements domain.CollectionBinding.
type Binding struct {
	store      domain.KeyValueStore
	collection domain.Collection
	userID     string
	loading    bool
}

// NewBinding creates a binding for collection. It starts unbound; call Bind
// with the authenticated user before loading or saving.
func NewBinding(store domain.KeyValueStore, collection domain.Collection) *Binding {
	return &Binding{
		store:      store,
		collection: collection,
	}
}

// Bind scopes the binding to userID. Switching users discards the previous
// association and re-enters the loading state until the new key resolves.
func (b *Binding) Bind(userID string) {
	b.userID = userID
	b.loading = userID != ""
}

// UserID returns the currently bound user, or "" when unbound.
func (b *Binding) UserID() string {
	return b.userID
}

// Loading reports whether the bound key has not been resolved yet.
func (b *Binding) Loading() bool {
	return b.loading
}

// Load reads the bound key and unmarshals it into dest. An absent value
// leaves dest untouched so the caller-supplied default applies. Loading
// resolves on success or absence, but not on storage failure.
func (b *Binding) Load(ctx context.Context, dest any) error {
	if b.userID == "" {
		return fmt.Errorf("%w: no authenticated user bound to collection %s", domain.ErrPersistence, b.collection)
	}

	raw, found, err := b.store.Get(ctx, b.collection.Key(b.userID))
	if err != nil {
		return fmt.Errorf("%w: load %s: %v", domain.ErrPersistence, b.collection, err)
	}

	if found {
		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("%w: decode %s: %v", domain.ErrPersistence, b.collection, err)
		}
	}

	b.loading = false
	return nil
}

// Save marshals v and writes it to the bound key.
func (b *Binding) Save(ctx context.Context, v any) error {
	if b.userID == "" {
		return fmt.Errorf("%w: no authenticated user bound to collection %s", domain.ErrPersistence, b.collection)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrPersistence, b.collection, err)
	}

	if err := b.store.Set(ctx, b.collection.Key(b.userID), raw); err != nil {
		return fmt.Errorf("%w: save %s: %v", domain.ErrPersistence, b.collection, err)
	}

	return nil
}
