package client

import (
	"sync"

	"devshelf/internal/models"
)

// ListPage is one catalog page as returned by the listing endpoint.
type ListPage struct {
	Resources  []models.Resource `json:"resources"`
	Pagination models.Pagination `json:"pagination"`
}

type cacheEntry struct {
	page  ListPage
	stale bool
}

// QueryCache stores catalog pages keyed by the exact view-parameter tuple,
// plus the caller's own resources. Entries are marked stale, not evicted, when
// a mutation lands: a stale page can still be rendered while a refresh runs.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	mine    []models.Resource
	hasMine bool
}

// NewQueryCache returns an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]*cacheEntry)}
}

// Get returns the cached page for the tuple if it is present and fresh.
func (qc *QueryCache) Get(p ViewParams) (ListPage, bool) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	e, ok := qc.entries[p.Key()]
	if !ok || e.stale {
		return ListPage{}, false
	}
	return e.page, true
}

// Set stores a freshly fetched page under the tuple.
func (qc *QueryCache) Set(p ViewParams, page ListPage) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.entries[p.Key()] = &cacheEntry{page: page}
}

// MarkCatalogStale flags every cached catalog page. The next read of any
// tuple misses and triggers a refetch.
func (qc *QueryCache) MarkCatalogStale() {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for _, e := range qc.entries {
		e.stale = true
	}
}

// MyResources returns the caller's own resources if they have been loaded.
func (qc *QueryCache) MyResources() ([]models.Resource, bool) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	if !qc.hasMine {
		return nil, false
	}
	out := make([]models.Resource, len(qc.mine))
	copy(out, qc.mine)
	return out, true
}

// SetMyResources replaces the caller's own resource list.
func (qc *QueryCache) SetMyResources(resources []models.Resource) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.mine = append([]models.Resource(nil), resources...)
	qc.hasMine = true
}

// PrependMine inserts a just-created resource at the head of the own-resource
// list, matching the newest-first order the server returns.
func (qc *QueryCache) PrependMine(r models.Resource) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	if !qc.hasMine {
		return
	}
	qc.mine = append([]models.Resource{r}, qc.mine...)
}

// ReplaceByID swaps the updated resource into the own-resource list and every
// cached catalog page that contains it.
func (qc *QueryCache) ReplaceByID(r models.Resource) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for i := range qc.mine {
		if qc.mine[i].ID == r.ID {
			qc.mine[i] = r
		}
	}
	for _, e := range qc.entries {
		for i := range e.page.Resources {
			if e.page.Resources[i].ID == r.ID {
				e.page.Resources[i] = r
			}
		}
	}
}

// RemoveMine drops a deleted resource from the own-resource list.
func (qc *QueryCache) RemoveMine(id string) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	kept := qc.mine[:0]
	for _, r := range qc.mine {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	qc.mine = kept
}
