package core

import (
	"context"

	"github.com/soffa-projects/loctool/store"
)

// ResourceRepository persists a store outside of the interchange files.
type ResourceRepository interface {
	// Save writes every record of s and marks it clean. A clean store is not written.
	Save(ctx context.Context, s *store.Store) (int, error)
	Load(ctx context.Context, project string) (*store.Store, error)
	Close() error
}
