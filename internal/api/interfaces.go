package api

import (
	"context"
	"io"

	"github.com/neexbeast/travel-search/internal/render"
	"github.com/neexbeast/travel-search/internal/travel"
)

// Searcher defines the stateless fork-join search used by the JSON API.
type Searcher interface {
	Search(ctx context.Context, q travel.SearchQuery) (*travel.Results, error)
}

// SearchLog defines the search-log operations needed by handlers.
type SearchLog interface {
	RecordSearch(ctx context.Context, rec travel.SearchRecord) (int64, error)
	RecentSearches(ctx context.Context, limit int) ([]travel.SearchRecord, error)
	TopDestinations(ctx context.Context, limit int) ([]travel.DestinationCount, error)
}

// PageRenderer defines the full-page rendering needed by handlers.
type PageRenderer interface {
	Page(w io.Writer, data *render.PageData) error
}

// Pinger is satisfied by the database pool and the in-flight guard.
type Pinger interface {
	Ping(ctx context.Context) error
}
