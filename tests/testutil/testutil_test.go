package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestTestContext_SetRequestID(t *testing.T) {
	tc := NewTestContext(t)
	tc.SetRequestID("req-123")

	assert.Equal(t, "req-123", middleware.GetRequestID(tc.Context))
}

func TestTestContext_SetPrincipal(t *testing.T) {
	tc := NewTestContext(t)
	tc.SetPrincipal(CustomerPrincipal("sid-1", 42))

	p := middleware.GetPrincipal(tc.Context)
	assert.Equal(t, "sid-1", p.SessionID)
	assert.Equal(t, identity.RoleCustomer, p.Role())
}

func TestPrincipals(t *testing.T) {
	assert.True(t, GuestPrincipal("g").IsGuest())
	assert.False(t, CustomerPrincipal("c", 1).IsGuest())

	id, ok := CustomerPrincipal("c", 9).Session.CustomerID()
	require.True(t, ok)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, "manager", EmployeePrincipal("e", 2, "manager").Session.Employee.Position)
}

func TestRunHTTPTestCases(t *testing.T) {
	handler := func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		if p.IsGuest() {
			c.JSON(http.StatusForbidden, dto.Response{Error: &dto.ErrorInfo{Code: "FORBIDDEN"}})
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"session": p.SessionID}))
	}
	customer := CustomerPrincipal("sid-c", 1)

	RunHTTPTestCases(t, handler, []HTTPTestCase{
		{
			Name:           "guest is rejected",
			ExpectedStatus: http.StatusForbidden,
			ExpectedCode:   "FORBIDDEN",
		},
		{
			Name:           "customer passes",
			Principal:      &customer,
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *TestContext) {
				AssertSuccessResponse(t, tc)
				data := DataAs[map[string]string](t, tc)
				assert.Equal(t, "sid-c", data["session"])
			},
		},
	})
}

func TestServeHTTPTestCase(t *testing.T) {
	engine := gin.New()
	engine.POST("/items/:id", func(c *gin.Context) {
		var body map[string]int
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{"id": c.Param("id"), "qty": body["qty"]}))
	})

	tc := ServeHTTPTestCase(t, engine, HTTPTestCase{
		Method:         http.MethodPost,
		Path:           "/items/7",
		Body:           map[string]int{"qty": 3},
		ExpectedStatus: http.StatusCreated,
	})
	data := DataAs[struct {
		ID  string `json:"id"`
		Qty int    `json:"qty"`
	}](t, tc)
	assert.Equal(t, "7", data.ID)
	assert.Equal(t, 3, data.Qty)
}
