//go:build !integration

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packgenius/internal/middleware"
	"github.com/guttosm/packgenius/internal/mocks"
	"github.com/guttosm/packgenius/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.EnableIdempotency)
	assert.False(t, cfg.EnableAuth)
}

func TestRouter_Endpoints(t *testing.T) {
	mockCalc := mocks.NewMockCalculationService(t)
	cfg := DefaultRouterConfig()
	cfg.InventoryService = mocks.NewMockInventoryService(t)
	cfg.HistoryService = mocks.NewMockHistoryService(t)
	router := NewRouter(NewHandler(mockCalc), NewHealthHandler(), cfg)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "healthz", method: http.MethodGet, path: "/healthz", expectedStatus: http.StatusOK},
		{name: "readyz", method: http.MethodGet, path: "/readyz", expectedStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "swagger", method: http.MethodGet, path: "/swagger/index.html", expectedStatus: http.StatusOK},
		{name: "calculate without body", method: http.MethodPost, path: "/api/calculate", expectedStatus: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_RegistersConfiguredGroups(t *testing.T) {
	routesOf := func(router *gin.Engine) []string {
		var out []string
		for _, r := range router.Routes() {
			out = append(out, r.Method+" "+r.Path)
		}
		return out
	}

	t.Run("plan only", func(t *testing.T) {
		router := NewRouter(NewHandler(mocks.NewMockCalculationService(t)), nil, testRouterConfig())
		routes := routesOf(router)
		assert.Contains(t, routes, "POST /api/calculate")
		assert.NotContains(t, routes, "GET /api/inventory")
		assert.NotContains(t, routes, "GET /api/history")
	})

	t.Run("all groups", func(t *testing.T) {
		cfg := testRouterConfig()
		cfg.InventoryService = mocks.NewMockInventoryService(t)
		cfg.HistoryService = mocks.NewMockHistoryService(t)
		routes := routesOf(NewRouter(NewHandler(mocks.NewMockCalculationService(t)), NewHealthHandler(), cfg))

		for _, want := range []string{
			"POST /api/calculate",
			"GET /api/inventory",
			"POST /api/inventory",
			"POST /api/inventory/import",
			"DELETE /api/inventory/:id",
			"GET /api/history",
			"DELETE /api/history",
			"DELETE /api/history/:id",
			"GET /healthz",
			"GET /readyz",
			"GET /metrics",
		} {
			assert.Contains(t, routes, want)
		}
	})
}

func TestRouter_APIKeyAuth(t *testing.T) {
	inv := mocks.NewMockInventoryService(t)
	inv.On("List", mock.Anything).Return(nil, nil).Once()

	cfg := testRouterConfig()
	cfg.EnableAuth = true
	cfg.APIKeys = map[string]bool{"key-1": true}
	cfg.InventoryService = inv
	router := NewRouter(nil, NewHealthHandler(), cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.Header.Set("X-API-Key", "key-1")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code, "probes stay public")
}

func TestRouter_AuthWithoutCredentialsRejects(t *testing.T) {
	cfg := testRouterConfig()
	cfg.EnableAuth = true
	cfg.InventoryService = mocks.NewMockInventoryService(t)
	router := NewRouter(nil, NewHealthHandler(), cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.Header.Set("X-API-Key", "anything")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_JWTTakesPrecedence(t *testing.T) {
	jwtCfg := middleware.JWTConfig{SecretKey: "router-secret", Issuer: "packgenius"}
	history := mocks.NewMockHistoryService(t)
	history.On("List", mock.Anything, 0).Return(nil, nil).Once()

	cfg := testRouterConfig()
	cfg.EnableAuth = true
	cfg.APIKeys = map[string]bool{"key-1": true}
	cfg.JWT = jwtCfg
	cfg.HistoryService = history
	router := NewRouter(nil, nil, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("X-API-Key", "key-1")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.IssueToken(jwtCfg, "planner-ui", time.Hour)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	inv := mocks.NewMockInventoryService(t)
	inv.On("List", mock.Anything).Return(nil, nil).Twice()

	cfg := testRouterConfig()
	cfg.RateLimit = 2
	cfg.RateWindow = time.Minute
	cfg.InventoryService = inv
	router := NewRouter(nil, nil, cfg)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
		codes[i] = w.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRouter_IdempotentUpsert(t *testing.T) {
	inv := mocks.NewMockInventoryService(t)
	inv.On("Upsert", mock.Anything, mock.Anything).Return(1, nil).Once()

	cfg := testRouterConfig()
	cfg.EnableIdempotency = true
	cache := middleware.NewIdempotencyCache(time.Minute, 10)
	t.Cleanup(cache.Stop)
	cfg.Idempotency = &middleware.IdempotencyConfig{Cache: cache, Enabled: true}
	cfg.InventoryService = inv
	router := NewRouter(nil, nil, cfg)

	body := `{"id": "BOX-020", "length": 1, "width": 1, "height": 1}`
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/inventory", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.IdempotencyKeyHeader, "upsert-1")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		if i == 1 {
			assert.Equal(t, "true", w.Header().Get(middleware.IdempotencyReplayedHeader))
		}
	}
}

func TestRouter_SwaggerBasicAuth(t *testing.T) {
	cfg := testRouterConfig()
	cfg.SwaggerUser = "docs"
	cfg.SwaggerPass = "secret"
	router := NewRouter(nil, nil, cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.SetBasicAuth("docs", "secret")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(nil, nil, testRouterConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_MetricsExposePlanCounters(t *testing.T) {
	router := NewRouter(nil, nil, testRouterConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "go_goroutines"))
}

var _ service.InventoryService = (*mocks.MockInventoryService)(nil)
