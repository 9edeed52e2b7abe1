package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packgenius/internal/domain/dto"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/middleware"
	"github.com/guttosm/packgenius/internal/service"
)

// HistoryHandler handles calculation history routes.
type HistoryHandler struct {
	history service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /api/history.
//
// @Summary      List recent calculations
// @Description  Returns saved calculations, newest first.
// @Tags         History
// @Produce      json
// @Param        limit query int false "Maximum entries (1-100, default 20)"
// @Success      200 {object} dto.SuccessResponse{data=dto.HistoryResponse} "History"
// @Failure      400 {object} dto.ErrorResponse "Invalid limit"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      503 {object} dto.ErrorResponse "History store unavailable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var query dto.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(builder, err)
		return
	}

	entries, err := h.history.List(c.Request.Context(), query.Limit)
	if err != nil {
		writeServiceError(builder, err)
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}

	builder.SuccessOK(dto.HistoryResponse{Items: entries, Count: len(entries)})
}

// Delete handles DELETE /api/history/:id.
//
// @Summary      Delete a saved calculation
// @Tags         History
// @Produce      json
// @Param        id path string true "History entry id"
// @Success      204 "Deleted"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Entry not found"
// @Failure      503 {object} dto.ErrorResponse "History store unavailable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	builder := NewResponseBuilder(c)
	id := c.Param("id")

	if err := h.history.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(builder, err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.ActionHistoryDelete,
		"History entry deleted", map[string]interface{}{"id": id})
	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /api/history.
//
// @Summary      Clear calculation history
// @Tags         History
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.ClearHistoryResponse} "Entries removed"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      503 {object} dto.ErrorResponse "History store unavailable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/history [delete]
func (h *HistoryHandler) Clear(c *gin.Context) {
	builder := NewResponseBuilder(c)

	deleted, err := h.history.Clear(c.Request.Context())
	if err != nil {
		writeServiceError(builder, err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.ActionHistoryClear,
		"History cleared", map[string]interface{}{"deleted": deleted})
	builder.SuccessOK(dto.ClearHistoryResponse{Deleted: deleted})
}
