package catalog

import (
	"context"
	"encoding/json"
)

// ResourceRepository reads and mutates backend collections.
// List returns the whole collection; status and search filtering happen in BuildView.
// token is the caller's bearer token and may be empty for public reads.
type ResourceRepository interface {
	List(ctx context.Context, kind KindSpec, token string) ([]Resource, error)
	Get(ctx context.Context, kind KindSpec, id int64, token string) (*Resource, error)
	Create(ctx context.Context, kind KindSpec, body json.RawMessage, token string) (*Resource, error)
	Update(ctx context.Context, kind KindSpec, id int64, body json.RawMessage, token string) (*Resource, error)
	SetStatus(ctx context.Context, kind KindSpec, id int64, active bool, token string) error
	SoftDelete(ctx context.Context, kind KindSpec, id int64, token string) error
	HardDelete(ctx context.Context, kind KindSpec, id int64, token string) error
	Restore(ctx context.Context, kind KindSpec, id int64, token string) error
}

// SearchQuery drives the autocomplete endpoints
type SearchQuery struct {
	Query    string
	Limit    int
	Featured *bool
}

// DefaultSearchLimit caps autocomplete results when no limit is given
const DefaultSearchLimit = 8

// Searcher runs backend-side product and category search
type Searcher interface {
	SearchProducts(ctx context.Context, q SearchQuery) ([]Resource, error)
	SearchCategories(ctx context.Context, q SearchQuery) ([]Resource, error)
}
