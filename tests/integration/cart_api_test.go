//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shopping"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

// cartEngine serves the cart routes over the Postgres list store. The caller
// is picked from the X-Test-Customer header: absent means guest "g1".
func cartEngine(t *testing.T) *gin.Engine {
	t.Helper()
	svc, _, _ := newSyncService(t)
	middleware.SetupValidator()

	h := handler.NewShoppingHandler(
		handler.NewBaseHandler(handler.Landing{}),
		svc, nil, nil,
		handler.NewSessionCookie(config.CookieConfig{}),
	)

	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		p := testutil.GuestPrincipal("g1")
		if c.GetHeader("X-Test-Customer") != "" {
			p = testutil.CustomerPrincipal("c1", 42)
		}
		middleware.SetPrincipal(c, p)
		c.Next()
	})
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PUT("/cart/items/:productId", h.UpdateCartItem)
	r.DELETE("/cart/items/:productId", h.RemoveCartItem)
	r.DELETE("/cart", h.ClearCart)
	return r
}

type cartView struct {
	Entries   []shopping.Entry `json:"entries"`
	ItemCount int              `json:"item_count"`
	Total     decimal.Decimal  `json:"total"`
}

func TestCartAPI_GuestCartLifecycle(t *testing.T) {
	engine := cartEngine(t)

	testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodPost,
		Path:           "/cart/items",
		Body:           map[string]any{"productId": 1, "quantity": 2},
		ExpectedStatus: http.StatusCreated,
	})
	testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodPost,
		Path:           "/cart/items",
		Body:           map[string]any{"productId": 1, "quantity": 1},
		ExpectedStatus: http.StatusConflict,
		ExpectedCode:   "DUPLICATE_ENTRY",
	})
	testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodPut,
		Path:           "/cart/items/1",
		Body:           map[string]any{"quantity": 3},
		ExpectedStatus: http.StatusNoContent,
	})

	tc := testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{Path: "/cart", ExpectedStatus: http.StatusOK})
	cart := testutil.DataAs[cartView](t, tc)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "29.97", cart.Total.StringFixed(2))

	// customer 42 sees a separate cart
	tc = testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/cart",
		Headers:        map[string]string{"X-Test-Customer": "1"},
		ExpectedStatus: http.StatusOK,
	})
	assert.Empty(t, testutil.DataAs[cartView](t, tc).Entries)

	testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodDelete,
		Path:           "/cart/items/1",
		ExpectedStatus: http.StatusNoContent,
	})
	testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodDelete,
		Path:           "/cart/items/1",
		ExpectedStatus: http.StatusNotFound,
		ExpectedCode:   "NOT_FOUND",
	})
}

func TestCartAPI_RejectsInvalidInput(t *testing.T) {
	engine := cartEngine(t)

	testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodPost,
		Path:           "/cart/items",
		Body:           map[string]any{"productId": 0},
		ExpectedStatus: http.StatusBadRequest,
	})
	testutil.ServeHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodPut,
		Path:           "/cart/items/abc",
		Body:           map[string]any{"quantity": 1},
		ExpectedStatus: http.StatusBadRequest,
	})
}
