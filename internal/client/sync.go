package client

import (
	"context"

	"devshelf/internal/models"
)

// Mutator performs catalog mutations against the server. HTTPClient is the
// production implementation.
type Mutator interface {
	CreateResource(ctx context.Context, payload ResourcePayload) (*models.Resource, error)
	UpdateResource(ctx context.Context, payload ResourcePayload) (*models.Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

// Synchronizer applies mutations and keeps the local cache coherent with the
// server's answer. Cache updates happen only after the server confirms the
// mutation; a failed request leaves the cache untouched.
type Synchronizer struct {
	mutator Mutator
	cache   *QueryCache
}

// NewSynchronizer returns a Synchronizer over the given mutator and cache.
func NewSynchronizer(mutator Mutator, cache *QueryCache) *Synchronizer {
	return &Synchronizer{mutator: mutator, cache: cache}
}

// Create submits a new resource. On success the server's copy is prepended to
// the own-resource list (newest first) and every catalog page is marked stale.
func (s *Synchronizer) Create(ctx context.Context, payload ResourcePayload) (*models.Resource, error) {
	created, err := s.mutator.CreateResource(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.cache.PrependMine(*created)
	s.cache.MarkCatalogStale()
	return created, nil
}

// Update submits a full-field replacement. On success the server's copy
// replaces the resource wherever it is cached, and catalog pages are marked
// stale since the resource may have moved under the active sort or filter.
func (s *Synchronizer) Update(ctx context.Context, payload ResourcePayload) (*models.Resource, error) {
	updated, err := s.mutator.UpdateResource(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.cache.ReplaceByID(*updated)
	s.cache.MarkCatalogStale()
	return updated, nil
}

// Delete removes a resource. On success it disappears from the own-resource
// list and catalog pages are marked stale.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.mutator.DeleteResource(ctx, id); err != nil {
		return err
	}
	s.cache.RemoveMine(id)
	s.cache.MarkCatalogStale()
	return nil
}
