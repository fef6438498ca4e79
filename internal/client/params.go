// Package client implements the consumer side of the catalog API: view
// parameter handling, a latest-wins list controller, a query-keyed local
// cache, and the mutation synchronizer that keeps the cache coherent.
package client

import (
	"fmt"

	"devshelf/internal/repository"
)

// SortOption is a user-facing sort order label.
type SortOption string

const (
	SortNewest SortOption = "Newest"
	SortOldest SortOption = "Oldest"
	SortAZ     SortOption = "A-Z"
	SortZA     SortOption = "Z-A"
)

// FilterNone means no tag filter is applied.
const FilterNone = "None"

// ViewParams is the complete view state of a catalog listing. Two views with
// equal params are interchangeable, which is what makes them a cache key.
type ViewParams struct {
	SortBy   SortOption
	FilterBy string
	Search   string
	Page     int
	Limit    int
}

// DefaultParams is the initial view state.
func DefaultParams() ViewParams {
	return ViewParams{
		SortBy:   SortNewest,
		FilterBy: FilterNone,
		Search:   "",
		Page:     1,
		Limit:    10,
	}
}

// Key renders the params as a cache key. Every field participates, so a page
// cached under one tuple is never served for another.
func (p ViewParams) Key() string {
	return fmt.Sprintf("%s|%s|%s|%d|%d", p.SortBy, p.FilterBy, p.Search, p.Page, p.Limit)
}

// APISort maps the user-facing sort label to the server's sortBy value.
func (p ViewParams) APISort() string {
	switch p.SortBy {
	case SortOldest:
		return repository.SortOldest
	case SortAZ:
		return repository.SortTitleAsc
	case SortZA:
		return repository.SortTitleDesc
	default:
		return repository.SortNewest
	}
}

// APITag maps the filter label to the server's tag parameter.
func (p ViewParams) APITag() string {
	if p.FilterBy == "" || p.FilterBy == FilterNone {
		return repository.TagAll
	}
	return p.FilterBy
}
