// Package properties provides the scoped key/value stores that hold the renamer's
// configuration (script scope) and its per-user processed marks.
package properties

import (
	"context"
)

// Store is a single scope of string properties.
type Store interface {
	// Get returns ok=false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend persists properties for every scope.
type Backend interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Close() error
}

type scopedStore struct {
	backend Backend
	scope   string
}

// Scoped binds backend to one scope.
func Scoped(backend Backend, scope string) Store {
	return &scopedStore{backend: backend, scope: scope}
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.scope, key)
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.scope, key, value)
}
