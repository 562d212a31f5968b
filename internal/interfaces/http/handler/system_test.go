package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemRouter(h *SystemHandler) http.Handler {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	return r
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("storefront-bff", "1.2.3")
	w := do(systemRouter(h), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out HealthResponse
	dataAs(t, decode(t, w), &out)
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "1.2.3", out.Version)
	assert.NotEmpty(t, out.GoVersion)
}

func TestSystemHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		redisErr   error
		wantStatus int
		wantState  string
	}{
		{"all ok", nil, http.StatusOK, "ready"},
		{"redis down", errors.New("connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("storefront-bff", "dev").
				AddCheck("database", func(context.Context) error { return nil }).
				AddCheck("redis", func(context.Context) error { return tt.redisErr })

			w := do(systemRouter(h), http.MethodGet, "/ready", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			var out ReadyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.Equal(t, tt.wantState, out.Status)
			assert.Equal(t, "ok", out.Checks["database"])
			assert.Len(t, out.Checks, 2)
		})
	}
}

func TestSystemHandler_Ready_NoChecks(t *testing.T) {
	w := do(systemRouter(NewSystemHandler("storefront-bff", "dev")), http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
