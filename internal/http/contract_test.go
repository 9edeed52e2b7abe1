//go:build contract

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packgenius/internal/domain/dto"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/middleware"
	"github.com/guttosm/packgenius/internal/repository"
	"github.com/guttosm/packgenius/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractRouter wires the real services over in-memory stores.
func contractRouter(seed []model.BoxItem) *gin.Engine {
	inventory := service.NewInventoryService(repository.NewMemoryInventoryRepository(seed))
	history := service.NewHistoryService(repository.NewMemoryHistoryRepository(100), 20)
	calculator := service.NewCalculationService(inventory, service.NewAdvisoryService(nil),
		service.WithHistory(history))

	cfg := DefaultRouterConfig()
	cfg.EnableIdempotency = false
	cfg.InventoryService = inventory
	cfg.HistoryService = history
	return NewRouter(NewHandler(calculator, WithDefaultWallThickness(1)), NewHealthHandler(), cfg)
}

func contractCall(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

// TestAPI_ContractCompliance validates that API responses match the documented contract.
func TestAPI_ContractCompliance(t *testing.T) {
	router := contractRouter(nil)

	scenario := `{
		"product": {"length": 100, "width": 50, "height": 25},
		"config": {"innerArrangement": {"l": 2, "w": 2, "h": 2}, "masterArrangement": {"l": 1, "w": 1, "h": 1}, "innerWallThickness": 1},
		"safetyGaps": {"l": 3, "w": 3, "h": 2}
	}`

	tests := []struct {
		name             string
		method           string
		path             string
		body             string
		headers          map[string]string
		expectedStatus   int
		validateResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "POST /api/calculate - custom carton for empty inventory",
			method:         http.MethodPost,
			path:           "/api/calculate",
			body:           scenario,
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Data      dto.CalculateResponse `json:"data"`
					RequestID string                `json:"request_id"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

				assert.NotEmpty(t, resp.RequestID, "Response must include request_id")
				result := resp.Data.Result
				assert.Equal(t, model.Dimensions{Length: 201, Width: 101, Height: 51}, result.InnerBoxDims)
				assert.Equal(t, model.Dimensions{Length: 201, Width: 101, Height: 51}, result.MasterPayloadDims)
				assert.Equal(t, 8, result.TotalItems)
				assert.True(t, result.IsCustom)
				assert.Equal(t, model.CustomBoxID, result.Box.ID)
				assert.Equal(t, 204.0, result.Box.Length)
				assert.Equal(t, 104.0, result.Box.Width)
				assert.Equal(t, 53.0, result.Box.Height)
				assert.True(t, resp.Data.Analysis.Fallback)
				assert.NotEmpty(t, resp.Data.HistoryID)
			},
		},
		{
			name:           "POST /api/calculate - Error 400 Invalid JSON",
			method:         http.MethodPost,
			path:           "/api/calculate",
			body:           `{"product": }`,
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.NotEmpty(t, resp.Message)
				assert.NotEmpty(t, resp.RequestID)
			},
		},
		{
			name:           "POST /api/calculate - Error 400 localized",
			method:         http.MethodPost,
			path:           "/api/calculate",
			body:           `{}`,
			headers:        map[string]string{"Accept-Language": "zh-CN"},
			expectedStatus: http.StatusBadRequest,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "请求无效", resp.Message)
				assert.NotEmpty(t, resp.Details)
			},
		},
		{
			name:           "GET /api/inventory - Success 200",
			method:         http.MethodGet,
			path:           "/api/inventory",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Body.String(), `"items":[]`)
				assert.Contains(t, w.Body.String(), `"count":0`)
			},
		},
		{
			name:           "DELETE /api/inventory/:id - Error 404",
			method:         http.MethodDelete,
			path:           "/api/inventory/BOX-404",
			expectedStatus: http.StatusNotFound,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrCodeNotFound, resp.Error)
			},
		},
		{
			name:           "GET /healthz - Success 200",
			method:         http.MethodGet,
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			validateResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
			},
		},
		{
			name:           "GET /readyz - Success 200",
			method:         http.MethodGet,
			path:           "/readyz",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := contractCall(router, tt.method, tt.path, tt.body, tt.headers)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			if tt.validateResponse != nil {
				tt.validateResponse(t, w)
			}
		})
	}
}

// TestAPI_InventoryLifecycle checks that stored cartons are picked by later plans.
func TestAPI_InventoryLifecycle(t *testing.T) {
	router := contractRouter(nil)

	w := contractCall(router, http.MethodPost, "/api/inventory",
		`[{"id": "BOX-TIGHT", "length": 205, "width": 105, "height": 55}, {"id": "BOX-BIG", "length": 600, "width": 400, "height": 400}]`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = contractCall(router, http.MethodPost, "/api/calculate", `{
		"product": {"length": 100, "width": 50, "height": 25},
		"config": {"innerArrangement": {"l": 2, "w": 2, "h": 2}, "masterArrangement": {"l": 1, "w": 1, "h": 1}, "innerWallThickness": 1}
	}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.CalculateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BOX-TIGHT", resp.Data.Result.Box.ID)
	assert.False(t, resp.Data.Result.IsCustom)

	w = contractCall(router, http.MethodGet, "/api/history?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.Data.HistoryID)
}

// TestAPI_Headers validates response headers.
func TestAPI_Headers(t *testing.T) {
	router := contractRouter(nil)

	tests := []struct {
		name           string
		path           string
		requestID      string
		expectedHeader string
	}{
		{name: "generated request id", path: "/healthz", expectedHeader: ""},
		{name: "propagated request id", path: "/api/inventory", requestID: "req-123", expectedHeader: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.requestID != "" {
				headers[middleware.RequestIDHeader] = tt.requestID
			}
			w := contractCall(router, http.MethodGet, tt.path, "", headers)

			got := w.Header().Get(middleware.RequestIDHeader)
			assert.NotEmpty(t, got)
			if tt.expectedHeader != "" {
				assert.Equal(t, tt.expectedHeader, got)
			}
			if tt.path == "/api/inventory" {
				assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
			}
		})
	}
}
