// Package valkey adapts the rueidis store to valkey-search, which indexes
// TAG, NUMERIC and VECTOR fields but has no TEXT field type.
package valkey

import (
	"context"

	"github.com/starlet/starlet/internal/db"
	"github.com/starlet/starlet/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store shares the hash and lifecycle commands with the Redis store and
// reports text search as unsupported.
type Store struct {
	*redis.Store
}

// NewStore creates a valkey-search store via rueidis.
func NewStore(cfg redis.Config) (*Store, error) {
	inner, err := redis.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Store: inner}, nil
}

// SupportsTextSearch returns false: valkey-search has no TEXT fields.
func (s *Store) SupportsTextSearch(_ context.Context) bool {
	return false
}

// CreateIndex rejects schemas with TEXT fields instead of sending a command the server would refuse.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if def.HasTextFields() {
		return &db.Error{Op: db.OpCreateIndex, Err: db.ErrTextSearchUnsupported}
	}
	return s.Store.CreateIndex(ctx, def)
}

// SearchText always fails with ErrTextSearchUnsupported.
func (s *Store) SearchText(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
	return nil, &db.Error{Op: db.OpSearch, Err: db.ErrTextSearchUnsupported}
}
