//go:build !integration

package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packgenius/internal/domain/dto"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/mocks"
	"github.com/guttosm/packgenius/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupHistoryRouter(t *testing.T) (*gin.Engine, *mocks.MockHistoryService) {
	history := mocks.NewMockHistoryService(t)
	cfg := testRouterConfig()
	cfg.HistoryService = history
	return NewRouter(nil, nil, cfg), history
}

func TestHistoryHandler_List(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		router, history := setupHistoryRouter(t)
		history.On("List", mock.Anything, 0).Return([]model.HistoryEntry{
			{ID: "h2", CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "h1", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/history", "")

		require.Equal(t, http.StatusOK, w.Code)
		var data dto.HistoryResponse
		decodeData(t, w, &data)
		assert.Equal(t, 2, data.Count)
		assert.Equal(t, "h2", data.Items[0].ID)
	})

	t.Run("explicit limit", func(t *testing.T) {
		router, history := setupHistoryRouter(t)
		history.On("List", mock.Anything, 5).Return(nil, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/history?limit=5", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})

	t.Run("limit out of range", func(t *testing.T) {
		router, _ := setupHistoryRouter(t)

		w := doJSON(router, http.MethodGet, "/api/history?limit=500", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "failed max=100", decodeError(t, w).Details["limit"])
	})
}

func TestHistoryHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "deleted", expectedStatus: http.StatusNoContent},
		{name: "unknown id", err: service.ErrHistoryNotFound, expectedStatus: http.StatusNotFound},
		{name: "store down", err: service.ErrRepositoryNotConfigured, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, history := setupHistoryRouter(t)
			history.On("Delete", mock.Anything, "h1").Return(tt.err).Once()

			w := doJSON(router, http.MethodDelete, "/api/history/h1", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHistoryHandler_Clear(t *testing.T) {
	router, history := setupHistoryRouter(t)
	history.On("Clear", mock.Anything).Return(int64(3), nil).Once()

	w := doJSON(router, http.MethodDelete, "/api/history", "")

	require.Equal(t, http.StatusOK, w.Code)
	var data dto.ClearHistoryResponse
	decodeData(t, w, &data)
	assert.Equal(t, int64(3), data.Deleted)
}
