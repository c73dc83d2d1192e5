// Package cache keeps recently loaded registry tables so repeated session
// starts do not re-download unchanged workbooks. Every successful write
// through the Store invalidates the written ref.
package cache

import (
	"context"
	"time"

	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage"
)

// DefaultTTL bounds how stale a cached table may get when someone edits the
// workbook outside this service.
const DefaultTTL = 5 * time.Minute

// TableCache holds tables by ref. Implementations return copies so callers
// can mutate what they get.
type TableCache interface {
	Get(ctx context.Context, ref string) (*registry.Table, bool)
	Set(ctx context.Context, ref string, table *registry.Table)
	Delete(ctx context.Context, ref string)
}

// Store is a TableStore that reads through a TableCache.
type Store struct {
	next  storage.TableStore
	cache TableCache
}

func NewStore(next storage.TableStore, cache TableCache) *Store {
	return &Store{next: next, cache: cache}
}

func (s *Store) LoadTable(ctx context.Context, ref string) (*registry.Table, error) {
	if ref == "" {
		return s.next.LoadTable(ctx, ref)
	}
	if t, ok := s.cache.Get(ctx, ref); ok {
		return t, nil
	}
	t, err := s.next.LoadTable(ctx, ref)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, ref, t)
	return t, nil
}

// SaveTable writes through and drops the cached copy only once the write
// succeeded, so the next load sees the fresh file.
func (s *Store) SaveTable(ctx context.Context, ref string, table *registry.Table) error {
	if err := s.next.SaveTable(ctx, ref, table); err != nil {
		return err
	}
	if ref != "" {
		s.cache.Delete(ctx, ref)
	}
	return nil
}

// Invalidate drops a ref without writing.
func (s *Store) Invalidate(ctx context.Context, ref string) {
	s.cache.Delete(ctx, ref)
}
