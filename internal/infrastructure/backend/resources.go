package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/storefront/backend/internal/domain/catalog"
)

// List fetches a whole collection
func (c *Client) List(ctx context.Context, kind catalog.KindSpec, token string) ([]catalog.Resource, error) {
	data, err := c.do(ctx, request{method: http.MethodGet, path: kind.Path, token: token})
	if err != nil {
		return nil, remoteError(err, "failed to load "+string(kind.Kind))
	}
	return catalog.ParseResources(kind, data)
}

// Get fetches one resource
func (c *Client) Get(ctx context.Context, kind catalog.KindSpec, id int64, token string) (*catalog.Resource, error) {
	data, err := c.do(ctx, request{method: http.MethodGet, path: kind.ItemPath(id), token: token})
	if err != nil {
		return nil, remoteError(err, "failed to load "+string(kind.Kind))
	}
	res, err := catalog.ParseResource(kind, data)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create posts a new resource. The backend echoes the stored record; an empty
// reply yields a nil resource.
func (c *Client) Create(ctx context.Context, kind catalog.KindSpec, body json.RawMessage, token string) (*catalog.Resource, error) {
	data, err := c.do(ctx, request{method: http.MethodPost, path: kind.Path, body: body, token: token})
	if err != nil {
		return nil, remoteError(err, "failed to create "+string(kind.Kind))
	}
	return echoed(kind, data)
}

// Update replaces a resource
func (c *Client) Update(ctx context.Context, kind catalog.KindSpec, id int64, body json.RawMessage, token string) (*catalog.Resource, error) {
	data, err := c.do(ctx, request{method: http.MethodPut, path: kind.ItemPath(id), body: body, token: token})
	if err != nil {
		return nil, remoteError(err, "failed to update "+string(kind.Kind))
	}
	return echoed(kind, data)
}

// SetStatus flips the resource's status flag. For kinds tracked by
// isDeletedStatus, active=true clears the deleted flag.
func (c *Client) SetStatus(ctx context.Context, kind catalog.KindSpec, id int64, active bool, token string) error {
	value := active
	if kind.StatusField == catalog.StatusDeleted {
		value = !active
	}
	payload := map[string]bool{string(kind.StatusField): value}
	_, err := c.do(ctx, request{method: http.MethodPut, path: kind.StatusPath(id), body: payload, token: token})
	return remoteError(err, "failed to change status of "+string(kind.Kind))
}

// SoftDelete moves a resource to the trashbin
func (c *Client) SoftDelete(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: kind.ItemPath(id), token: token})
	return remoteError(err, "failed to delete "+string(kind.Kind))
}

// HardDelete removes a resource permanently
func (c *Client) HardDelete(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: kind.HardDeletePath(id), token: token})
	return remoteError(err, "failed to permanently delete "+string(kind.Kind))
}

// Restore brings a resource back from the trashbin
func (c *Client) Restore(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	_, err := c.do(ctx, request{method: http.MethodPut, path: kind.RestorePath(id), token: token})
	return remoteError(err, "failed to restore "+string(kind.Kind))
}

// SearchProducts runs the storefront autocomplete search
func (c *Client) SearchProducts(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error) {
	kind, _ := catalog.Lookup(catalog.KindProducts)
	data, err := c.do(ctx, request{method: http.MethodGet, path: "/search", query: searchValues(q)})
	if err != nil {
		return nil, remoteError(err, "product search failed")
	}
	return catalog.ParseResources(kind, data)
}

// SearchCategories runs the category autocomplete search
func (c *Client) SearchCategories(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error) {
	kind, _ := catalog.Lookup(catalog.KindCategories)
	values := searchValues(q)
	values.Del("featured")
	data, err := c.do(ctx, request{method: http.MethodGet, path: kind.Path + "/search", query: values})
	if err != nil {
		return nil, remoteError(err, "category search failed")
	}
	return catalog.ParseResources(kind, data)
}

func searchValues(q catalog.SearchQuery) url.Values {
	limit := q.Limit
	if limit <= 0 {
		limit = catalog.DefaultSearchLimit
	}
	values := url.Values{}
	values.Set("query", q.Query)
	values.Set("limit", strconv.Itoa(limit))
	if q.Featured != nil {
		values.Set("featured", strconv.FormatBool(*q.Featured))
	}
	return values
}

func echoed(kind catalog.KindSpec, reply []byte) (*catalog.Resource, error) {
	if len(bytes.TrimSpace(reply)) == 0 {
		return nil, nil
	}
	res, err := catalog.ParseResource(kind, reply)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

var (
	_ catalog.ResourceRepository = (*Client)(nil)
	_ catalog.Searcher           = (*Client)(nil)
)
