package catalog

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// Attribute names the storefront filters products by
const (
	productCategoryField = "categoryId"
	productBrandField    = "brandId"
	maxSearchLimit       = 50
)

// StorefrontService serves anonymous and customer browsing
type StorefrontService struct {
	repo     catalog.ResourceRepository
	searcher catalog.Searcher
	pageSize int
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(repo catalog.ResourceRepository, searcher catalog.Searcher, pageSize int) *StorefrontService {
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}
	return &StorefrontService{repo: repo, searcher: searcher, pageSize: pageSize}
}

// Products returns one page of active products, optionally narrowed to a
// category or brand. Storefront reads never carry a bearer token so they can
// be served from the public cache.
func (s *StorefrontService) Products(ctx context.Context, q ProductQuery) (*ListResponse, error) {
	kind, _ := catalog.Lookup(catalog.KindProducts)
	items, err := s.repo.List(ctx, kind, "")
	if err != nil {
		return nil, err
	}

	filtered := items[:0:0]
	for _, r := range items {
		if q.CategoryID > 0 && !attrEquals(r, productCategoryField, q.CategoryID) {
			continue
		}
		if q.BrandID > 0 && !attrEquals(r, productBrandField, q.BrandID) {
			continue
		}
		filtered = append(filtered, r)
	}

	page := catalog.BuildView(kind, filtered, catalog.ViewParams{
		Filter:   catalog.FilterActive,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: s.pageSize,
	})
	return toListResponse(kind, catalog.FilterActive, q.Search, page), nil
}

// Product returns one product. Trashed products are reported as missing.
func (s *StorefrontService) Product(ctx context.Context, id int64) (*catalog.Resource, error) {
	if id <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "product id must be positive")
	}
	kind, _ := catalog.Lookup(catalog.KindProducts)
	res, err := s.repo.Get(ctx, kind, id, "")
	if err != nil {
		return nil, err
	}
	if res.InTrash {
		return nil, shared.ErrNotFound
	}
	return res, nil
}

// Brands returns every active brand
func (s *StorefrontService) Brands(ctx context.Context) ([]catalog.Resource, error) {
	return s.active(ctx, catalog.KindBrands)
}

// Categories returns every active category
func (s *StorefrontService) Categories(ctx context.Context) ([]catalog.Resource, error) {
	return s.active(ctx, catalog.KindCategories)
}

func (s *StorefrontService) active(ctx context.Context, k catalog.Kind) ([]catalog.Resource, error) {
	kind, _ := catalog.Lookup(k)
	items, err := s.repo.List(ctx, kind, "")
	if err != nil {
		return nil, err
	}
	return catalog.FilterByStatus(items, catalog.FilterActive), nil
}

// Search runs the backend autocomplete. An empty query returns no results
// without a backend call.
func (s *StorefrontService) Search(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error) {
	q, ok := normalizeSearch(q)
	if !ok {
		return []catalog.Resource{}, nil
	}
	return s.searcher.SearchProducts(ctx, q)
}

// SearchCategories runs the backend category autocomplete
func (s *StorefrontService) SearchCategories(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error) {
	q, ok := normalizeSearch(q)
	if !ok {
		return []catalog.Resource{}, nil
	}
	return s.searcher.SearchCategories(ctx, q)
}

func normalizeSearch(q catalog.SearchQuery) (catalog.SearchQuery, bool) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return q, false
	}
	if q.Limit <= 0 {
		q.Limit = catalog.DefaultSearchLimit
	}
	q.Limit = min(q.Limit, maxSearchLimit)
	return q, true
}

func attrEquals(r catalog.Resource, field string, want int64) bool {
	v, ok := r.Int(field)
	return ok && v == want
}
