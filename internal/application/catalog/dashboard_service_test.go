package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ids(items []catalog.Resource) []int64 {
	out := make([]int64, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestDashboardService_StatusFilter(t *testing.T) {
	brands := mustKind(catalog.KindBrands)
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, brands, "emp-token").Return([]catalog.Resource{
		res(brands, 1, "Acme", false, nil),
		res(brands, 2, "Globex", true, nil),
		res(brands, 3, "Initech", false, nil),
	}, nil)
	svc := NewDashboardService(repo)

	active, err := svc.ListActive(context.Background(), employee(identity.PositionEmployee), ListRequest{Kind: "brands", Page: 1})
	require.NoError(t, err)
	if diff := cmp.Diff([]int64{1, 3}, ids(active.Items)); diff != "" {
		t.Errorf("active ids mismatch (-want +got):\n%s", diff)
	}

	trash, err := svc.ListTrash(context.Background(), employee(identity.PositionEmployee), ListRequest{Kind: "brands", Page: 1})
	require.NoError(t, err)
	if diff := cmp.Diff([]int64{2}, ids(trash.Items)); diff != "" {
		t.Errorf("trash ids mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "brandpage", trash.PageParam)
	assert.Equal(t, "trash", trash.Filter)
}

func TestDashboardService_DeletedFlagKinds(t *testing.T) {
	orders := mustKind(catalog.KindOrders)
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, orders, "emp-token").Return([]catalog.Resource{
		res(orders, 10, "A", false, nil),
		res(orders, 11, "B", true, nil),
	}, nil)
	svc := NewDashboardService(repo)

	trash, err := svc.ListTrash(context.Background(), employee(identity.PositionEmployee), ListRequest{Kind: "orders"})
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, ids(trash.Items))
}

func TestDashboardService_Pagination(t *testing.T) {
	products := mustKind(catalog.KindProducts)
	items := make([]catalog.Resource, 13)
	for i := range items {
		items[i] = res(products, int64(i+1), "P", false, nil)
	}
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, products, "emp-token").Return(items, nil)
	svc := NewDashboardService(repo, WithPageSize(6))

	tests := []struct {
		page int
		want int
	}{
		{1, 6}, {2, 6}, {3, 1}, {4, 0},
	}
	for _, tt := range tests {
		got, err := svc.ListActive(context.Background(), employee(identity.PositionEmployee), ListRequest{Kind: "products", Page: tt.page})
		require.NoError(t, err)
		assert.Len(t, got.Items, tt.want, "page %d", tt.page)
		assert.Equal(t, 3, got.TotalPages)
		assert.Equal(t, 13, got.Total)
	}
}

func TestDashboardService_Search(t *testing.T) {
	customers := mustKind(catalog.KindCustomers)
	repo := new(MockResourceRepository)
	repo.On("List", mock.Anything, customers, "emp-token").Return([]catalog.Resource{
		res(customers, 1, "Ada Lovelace", false, map[string]any{"email": "ada@example.com"}),
		res(customers, 2, "Alan Turing", false, map[string]any{"email": "alan@example.com"}),
	}, nil)
	svc := NewDashboardService(repo)

	got, err := svc.ListActive(context.Background(), employee(identity.PositionEmployee), ListRequest{Kind: "customers", Search: "ADA@"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got.Items))
	assert.Equal(t, "ADA@", got.Search)
}

func TestDashboardService_RequiresEmployee(t *testing.T) {
	repo := new(MockResourceRepository)
	svc := NewDashboardService(repo)

	_, err := svc.ListActive(context.Background(), identity.Guest("g"), ListRequest{Kind: "brands"})
	assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

	_, err = svc.ListActive(context.Background(), customer(), ListRequest{Kind: "brands"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardService_UnknownKind(t *testing.T) {
	svc := NewDashboardService(new(MockResourceRepository))
	_, err := svc.ListActive(context.Background(), employee(identity.PositionManager), ListRequest{Kind: "suppliers"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDashboardService_DestructiveRequiresManager(t *testing.T) {
	for _, position := range []string{identity.PositionEmployee, identity.PositionAdmin, "manager"} {
		t.Run(position, func(t *testing.T) {
			repo := new(MockResourceRepository)
			svc := NewDashboardService(repo)
			p := employee(position)

			err := svc.HardDelete(context.Background(), p, "products", 5)
			assert.ErrorIs(t, err, shared.ErrUnauthorized)
			err = svc.Restore(context.Background(), p, "products", 5)
			assert.ErrorIs(t, err, shared.ErrUnauthorized)

			repo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDashboardService_ManagerDestructive(t *testing.T) {
	products := mustKind(catalog.KindProducts)
	repo := new(MockResourceRepository)
	repo.On("HardDelete", mock.Anything, products, int64(5), "emp-token").Return(nil)
	repo.On("Restore", mock.Anything, products, int64(6), "emp-token").Return(nil)
	svc := NewDashboardService(repo)

	require.NoError(t, svc.HardDelete(context.Background(), employee(identity.PositionManager), "products", 5))
	require.NoError(t, svc.Restore(context.Background(), employee(identity.PositionManager), "products", 6))
	repo.AssertExpectations(t)
}

func TestDashboardService_RemoteErrorPassesThrough(t *testing.T) {
	brands := mustKind(catalog.KindBrands)
	remote := shared.WrapDomainError(shared.CodeRemoteError, "failed", errors.New("502"))
	repo := new(MockResourceRepository)
	repo.On("SoftDelete", mock.Anything, brands, int64(2), "emp-token").Return(remote)
	svc := NewDashboardService(repo)

	err := svc.SoftDelete(context.Background(), employee(identity.PositionEmployee), "brands", 2)
	assert.ErrorIs(t, err, shared.ErrRemote)
}

func TestDashboardService_CreateAndUpdate(t *testing.T) {
	categories := mustKind(catalog.KindCategories)
	body := json.RawMessage(`{"categoryName":"Shoes"}`)
	created := res(categories, 4, "Shoes", false, nil)

	repo := new(MockResourceRepository)
	repo.On("Create", mock.Anything, categories, body, "emp-token").Return(&created, nil)
	repo.On("Update", mock.Anything, categories, int64(4), body, "emp-token").Return(&created, nil)
	repo.On("SetStatus", mock.Anything, categories, int64(4), false, "emp-token").Return(nil)
	svc := NewDashboardService(repo)
	p := employee(identity.PositionEmployee)

	got, err := svc.Create(context.Background(), p, WriteRequest{Kind: "categories", Body: body})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)

	_, err = svc.Update(context.Background(), p, WriteRequest{Kind: "categories", ID: 4, Body: body})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(context.Background(), p, "categories", 4, false))

	_, err = svc.Create(context.Background(), p, WriteRequest{Kind: "categories"})
	assert.ErrorIs(t, err, shared.ErrValidation)
	repo.AssertExpectations(t)
}

func TestDashboardService_Overview(t *testing.T) {
	repo := new(MockResourceRepository)
	for _, kind := range catalog.Kinds() {
		switch kind.Kind {
		case catalog.KindReviews:
			repo.On("List", mock.Anything, kind, "emp-token").Return(nil, shared.ErrRemote)
		default:
			repo.On("List", mock.Anything, kind, "emp-token").Return([]catalog.Resource{
				res(kind, 1, "a", false, nil),
				res(kind, 2, "b", true, nil),
				res(kind, 3, "c", false, nil),
			}, nil)
		}
	}
	svc := NewDashboardService(repo, WithOverviewConcurrency(2))

	got, err := svc.Overview(context.Background(), employee(identity.PositionEmployee))
	require.NoError(t, err)
	require.Len(t, got.Counts, len(catalog.Kinds()))

	for _, c := range got.Counts {
		if c.Kind == catalog.KindReviews {
			assert.Equal(t, shared.CodeRemoteError, c.Error)
			continue
		}
		assert.Equal(t, KindCount{Kind: c.Kind, Active: 2, Trash: 1}, c)
	}
}

func TestDashboardService_OverviewRequiresEmployee(t *testing.T) {
	repo := new(MockResourceRepository)
	_, err := NewDashboardService(repo).Overview(context.Background(), customer())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}
