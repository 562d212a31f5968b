package catalog

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStorefrontService_ProductsFiltersAndHidesTrash(t *testing.T) {
	products := mustKind(catalog.KindProducts)
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, products, "").Return([]catalog.Resource{
		res(products, 1, "Runner", false, map[string]any{"categoryId": 2, "brandId": 7}),
		res(products, 2, "Loafer", false, map[string]any{"categoryId": 3, "brandId": 7}),
		res(products, 3, "Boot", true, map[string]any{"categoryId": 2, "brandId": 7}),
		res(products, 4, "Sandal", false, map[string]any{"categoryId": 2, "brandId": 8}),
	}, nil)
	svc := NewStorefrontService(repo, new(MockSearcher), 6)

	got, err := svc.Products(context.Background(), ProductQuery{Page: 1, CategoryID: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(got.Items))

	got, err = svc.Products(context.Background(), ProductQuery{Page: 1, CategoryID: 2, BrandID: 7})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got.Items))

	got, err = svc.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids(got.Items))
	assert.Equal(t, "productpage", got.PageParam)
}

func TestStorefrontService_Product(t *testing.T) {
	products := mustKind(catalog.KindProducts)
	live := res(products, 1, "Runner", false, nil)
	trashed := res(products, 2, "Boot", true, nil)

	repo := new(MockResourceRepository)
	repo.On("Get", mock.Anything, products, int64(1), "").Return(&live, nil)
	repo.On("Get", mock.Anything, products, int64(2), "").Return(&trashed, nil)
	svc := NewStorefrontService(repo, new(MockSearcher), 0)

	got, err := svc.Product(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Runner", got.Name)

	_, err = svc.Product(context.Background(), 2)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Product(context.Background(), 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestStorefrontService_BrandsActiveOnly(t *testing.T) {
	brands := mustKind(catalog.KindBrands)
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, brands, "").Return([]catalog.Resource{
		res(brands, 1, "Acme", false, nil),
		res(brands, 2, "Gone", true, nil),
	}, nil)
	svc := NewStorefrontService(repo, new(MockSearcher), 0)

	got, err := svc.Brands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got))
}

func TestStorefrontService_Search(t *testing.T) {
	searcher := new(MockSearcher)
	featured := true
	searcher.On("SearchProducts", mock.Anything, catalog.SearchQuery{Query: "shoe", Limit: catalog.DefaultSearchLimit, Featured: &featured}).
		Return([]catalog.Resource{{ID: 1, Name: "Shoe"}}, nil)
	searcher.On("SearchCategories", mock.Anything, catalog.SearchQuery{Query: "run", Limit: 50}).
		Return([]catalog.Resource{{ID: 2, Name: "Running"}}, nil)
	svc := NewStorefrontService(new(MockResourceRepository), searcher, 0)

	got, err := svc.Search(context.Background(), catalog.SearchQuery{Query: "  shoe ", Featured: &featured})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.SearchCategories(context.Background(), catalog.SearchQuery{Query: "run", Limit: 500})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Search(context.Background(), catalog.SearchQuery{Query: "   "})
	require.NoError(t, err)
	assert.Empty(t, got)
	searcher.AssertNumberOfCalls(t, "SearchProducts", 1)
}
