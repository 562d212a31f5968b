package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDashboard is a mock implementation of DashboardAPI
type MockDashboard struct {
	mock.Mock
}

func (m *MockDashboard) Overview(ctx context.Context, p identity.Principal) (*appcatalog.OverviewResponse, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.OverviewResponse), args.Error(1)
}

func (m *MockDashboard) ListActive(ctx context.Context, p identity.Principal, req appcatalog.ListRequest) (*appcatalog.ListResponse, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ListResponse), args.Error(1)
}

func (m *MockDashboard) ListTrash(ctx context.Context, p identity.Principal, req appcatalog.ListRequest) (*appcatalog.ListResponse, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ListResponse), args.Error(1)
}

func (m *MockDashboard) Get(ctx context.Context, p identity.Principal, kind string, id int64) (*catalog.Resource, error) {
	args := m.Called(ctx, p, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Resource), args.Error(1)
}

func (m *MockDashboard) Create(ctx context.Context, p identity.Principal, req appcatalog.WriteRequest) (*catalog.Resource, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Resource), args.Error(1)
}

func (m *MockDashboard) Update(ctx context.Context, p identity.Principal, req appcatalog.WriteRequest) (*catalog.Resource, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Resource), args.Error(1)
}

func (m *MockDashboard) SetActive(ctx context.Context, p identity.Principal, kind string, id int64, active bool) error {
	return m.Called(ctx, p, kind, id, active).Error(0)
}

func (m *MockDashboard) SoftDelete(ctx context.Context, p identity.Principal, kind string, id int64) error {
	return m.Called(ctx, p, kind, id).Error(0)
}

func (m *MockDashboard) HardDelete(ctx context.Context, p identity.Principal, kind string, id int64) error {
	return m.Called(ctx, p, kind, id).Error(0)
}

func (m *MockDashboard) Restore(ctx context.Context, p identity.Principal, kind string, id int64) error {
	return m.Called(ctx, p, kind, id).Error(0)
}

func dashboardRouter(p identity.Principal, svc DashboardAPI) http.Handler {
	h := NewDashboardHandler(NewBaseHandler(testLanding), svc)
	r := newRouter(p)
	g := r.Group("/dashboard")
	g.GET("/overview", h.Overview)
	g.GET("/:kind", h.List)
	g.GET("/:kind/trash", h.Trash)
	g.GET("/:kind/:id", h.Get)
	g.POST("/:kind", h.Create)
	g.PUT("/:kind/:id", h.Update)
	g.PUT("/:kind/:id/status", h.SetStatus)
	g.DELETE("/:kind/:id", h.Delete)
	g.DELETE("/:kind/:id/hard", h.Purge)
	g.PUT("/:kind/:id/restore", h.Restore)
	return r
}

func TestDashboardHandler_Overview(t *testing.T) {
	svc := new(MockDashboard)
	want := []appcatalog.KindCount{
		{Kind: catalog.KindProducts, Active: 2, Trash: 1},
		{Kind: catalog.KindOrders, Error: shared.CodeRemoteError},
	}
	svc.On("Overview", mock.Anything, mock.Anything).Return(&appcatalog.OverviewResponse{Counts: want}, nil)

	w := do(dashboardRouter(employee(identity.PositionEmployee), svc), http.MethodGet, "/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got appcatalog.OverviewResponse
	dataAs(t, decode(t, w), &got)
	if diff := cmp.Diff(want, got.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboardHandler_List_ReadsKindPageParam(t *testing.T) {
	svc := new(MockDashboard)
	svc.On("ListActive", mock.Anything, mock.Anything, appcatalog.ListRequest{Kind: "brands", Page: 2, Search: "ac"}).
		Return(&appcatalog.ListResponse{Kind: catalog.KindBrands, PageParam: "brandpage", Page: 2, PageSize: 6, Total: 13, TotalPages: 3}, nil)
	svc.On("ListTrash", mock.Anything, mock.Anything, appcatalog.ListRequest{Kind: "orders", Page: 1}).
		Return(&appcatalog.ListResponse{Kind: catalog.KindOrders, PageParam: "orderpage", Page: 1, PageSize: 6}, nil)
	r := dashboardRouter(employee(identity.PositionEmployee), svc)

	w := do(r, http.MethodGet, "/dashboard/brands?brandpage=2&productpage=9&search=ac", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Links ListLinks `json:"links"`
	}
	dataAs(t, decode(t, w), &page)
	assert.Contains(t, page.Links.Next, "brandpage=3")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/dashboard/orders/trash?orderpage=abc", nil).Code)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_List_UnknownKind(t *testing.T) {
	svc := new(MockDashboard)
	svc.On("ListActive", mock.Anything, mock.Anything, appcatalog.ListRequest{Kind: "widgets", Page: 1}).
		Return(nil, shared.NewDomainError(shared.CodeNotFound, `unknown collection "widgets"`))

	w := do(dashboardRouter(employee(identity.PositionEmployee), svc), http.MethodGet, "/dashboard/widgets", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardHandler_CreateForwardsBody(t *testing.T) {
	svc := new(MockDashboard)
	body := `{"productName":"Runner","price":"12.50","productColors":["red"]}`
	svc.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(req appcatalog.WriteRequest) bool {
		return req.Kind == "products" && req.ID == 0 && string(req.Body) == body
	})).Return(&catalog.Resource{ID: 10, Name: "Runner", Attributes: map[string]json.RawMessage{}}, nil)
	r := dashboardRouter(employee(identity.PositionEmployee), svc)

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/dashboard/products", body).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/dashboard/products", "{broken").Code)
	svc.AssertNumberOfCalls(t, "Create", 1)
}

func TestDashboardHandler_Update(t *testing.T) {
	svc := new(MockDashboard)
	svc.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(req appcatalog.WriteRequest) bool {
		return req.Kind == "brands" && req.ID == 4
	})).Return(&catalog.Resource{ID: 4}, nil)

	w := do(dashboardRouter(employee(identity.PositionEmployee), svc), http.MethodPut, "/dashboard/brands/4", `{"brandName":"Acme"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardHandler_SetStatus(t *testing.T) {
	svc := new(MockDashboard)
	svc.On("SetActive", mock.Anything, mock.Anything, "products", int64(3), false).Return(nil).Once()
	r := dashboardRouter(employee(identity.PositionEmployee), svc)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPut, "/dashboard/products/3/status", map[string]any{"active": false}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/dashboard/products/3/status", map[string]any{}).Code)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_Destructive(t *testing.T) {
	clerk := employee(identity.PositionEmployee)
	svc := new(MockDashboard)
	svc.On("SoftDelete", mock.Anything, clerk, "orders", int64(2)).Return(nil)
	svc.On("HardDelete", mock.Anything, clerk, "orders", int64(2)).Return(shared.ErrUnauthorized)
	svc.On("Restore", mock.Anything, clerk, "orders", int64(2)).Return(shared.ErrUnauthorized)
	r := dashboardRouter(clerk, svc)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/dashboard/orders/2", nil).Code)

	w := do(r, http.MethodDelete, "/dashboard/orders/2/hard", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/dashboard?notice=UNAUTHORIZED", decode(t, w).Error.RedirectTo)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPut, "/dashboard/orders/2/restore", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/dashboard/orders/0/hard", nil).Code)
}

func TestDashboardHandler_Get(t *testing.T) {
	svc := new(MockDashboard)
	svc.On("Get", mock.Anything, mock.Anything, "customers", int64(8)).Return(nil, shared.ErrNotFound)

	w := do(dashboardRouter(employee(identity.PositionManager), svc), http.MethodGet, "/dashboard/customers/8", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
