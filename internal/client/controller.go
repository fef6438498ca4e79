package client

import (
	"context"
	"sync"
)

// Fetcher loads one catalog page for a view-parameter tuple. HTTPClient is
// the production implementation; tests substitute their own.
type Fetcher interface {
	ListResources(ctx context.Context, p ViewParams) (*ListPage, error)
}

// Controller drives a catalog listing view. Every parameter change triggers a
// fetch; responses are applied latest-wins, so a slow response for an old
// tuple never overwrites the view of a newer one. On error the last
// successfully loaded page stays visible.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	cache   *QueryCache

	params  ViewParams
	gen     uint64
	loading bool
	err     error
	page    ListPage
	loaded  bool

	// onUpdate, when set, fires after every state change.
	onUpdate func()
}

// NewController returns a Controller in the default view state. It does not
// fetch until Load or a setter is called.
func NewController(fetcher Fetcher, cache *QueryCache) *Controller {
	if cache == nil {
		cache = NewQueryCache()
	}
	return &Controller{
		fetcher: fetcher,
		cache:   cache,
		params:  DefaultParams(),
	}
}

// SetOnUpdate registers a callback fired after each state change.
func (ctl *Controller) SetOnUpdate(fn func()) {
	ctl.mu.Lock()
	ctl.onUpdate = fn
	ctl.mu.Unlock()
}

// Snapshot returns the current view state.
func (ctl *Controller) Snapshot() (ViewParams, ListPage, bool, error) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.params, ctl.page, ctl.loading, ctl.err
}

// Params returns the current view parameters.
func (ctl *Controller) Params() ViewParams {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.params
}

// Load fetches the page for the current parameters.
func (ctl *Controller) Load(ctx context.Context) {
	ctl.mu.Lock()
	ctl.fetchLocked(ctx)
	ctl.mu.Unlock()
}

// SetSortBy changes the sort order and resets to page 1.
func (ctl *Controller) SetSortBy(ctx context.Context, sortBy SortOption) {
	ctl.mu.Lock()
	ctl.params.SortBy = sortBy
	ctl.params.Page = 1
	ctl.fetchLocked(ctx)
	ctl.mu.Unlock()
}

// SetFilterBy changes the tag filter and resets to page 1.
func (ctl *Controller) SetFilterBy(ctx context.Context, filterBy string) {
	ctl.mu.Lock()
	ctl.params.FilterBy = filterBy
	ctl.params.Page = 1
	ctl.fetchLocked(ctx)
	ctl.mu.Unlock()
}

// SetSearchQuery changes the search text and resets to page 1.
func (ctl *Controller) SetSearchQuery(ctx context.Context, search string) {
	ctl.mu.Lock()
	ctl.params.Search = search
	ctl.params.Page = 1
	ctl.fetchLocked(ctx)
	ctl.mu.Unlock()
}

// SetItemsPerPage changes the page size and resets to page 1.
func (ctl *Controller) SetItemsPerPage(ctx context.Context, limit int) {
	ctl.mu.Lock()
	ctl.params.Limit = limit
	ctl.params.Page = 1
	ctl.fetchLocked(ctx)
	ctl.mu.Unlock()
}

// SetPage navigates to a page without disturbing the other parameters.
func (ctl *Controller) SetPage(ctx context.Context, page int) {
	ctl.mu.Lock()
	if page < 1 {
		page = 1
	}
	ctl.params.Page = page
	ctl.fetchLocked(ctx)
	ctl.mu.Unlock()
}

// Retry refetches the current parameters after a failure.
func (ctl *Controller) Retry(ctx context.Context) {
	ctl.mu.Lock()
	ctl.fetchLocked(ctx)
	ctl.mu.Unlock()
}

// fetchLocked starts a load for the current parameters. Callers hold the
// mutex. A fresh cache hit is applied synchronously; otherwise the request
// runs in a goroutine carrying the generation it was started under, and its
// response is discarded if a newer request superseded it.
func (ctl *Controller) fetchLocked(ctx context.Context) {
	ctl.gen++
	gen := ctl.gen
	params := ctl.params

	if page, ok := ctl.cache.Get(params); ok {
		ctl.page = page
		ctl.loaded = true
		ctl.loading = false
		ctl.err = nil
		ctl.notifyLocked()
		return
	}

	ctl.loading = true
	ctl.err = nil
	ctl.notifyLocked()

	go func() {
		page, err := ctl.fetcher.ListResources(ctx, params)

		ctl.mu.Lock()
		if gen != ctl.gen {
			// A newer request owns the view now.
			ctl.mu.Unlock()
			return
		}
		if err != nil {
			// Keep the last successfully loaded page visible.
			ctl.loading = false
			ctl.err = err
			ctl.notifyLocked()
			ctl.mu.Unlock()
			return
		}
		ctl.page = *page
		ctl.loaded = true
		ctl.loading = false
		ctl.err = nil
		ctl.cache.Set(params, *page)
		ctl.notifyLocked()
		ctl.mu.Unlock()
	}()
}

func (ctl *Controller) notifyLocked() {
	if ctl.onUpdate != nil {
		// Fired while holding the mutex; callbacks must not call back into
		// the controller.
		ctl.onUpdate()
	}
}
