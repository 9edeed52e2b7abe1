package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/guttosm/packgenius/internal/domain/dto"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/i18n"
	"github.com/guttosm/packgenius/internal/middleware"
	"github.com/guttosm/packgenius/internal/service"
)

// DefaultMaxImportBytes bounds a CSV import body.
const DefaultMaxImportBytes int64 = 1 << 20

// InventoryHandler handles carton inventory routes.
type InventoryHandler struct {
	inventory      service.InventoryService
	maxImportBytes int64
}

// NewInventoryHandler creates a new InventoryHandler.
// maxImportBytes <= 0 uses DefaultMaxImportBytes.
func NewInventoryHandler(inventory service.InventoryService, maxImportBytes int64) *InventoryHandler {
	if maxImportBytes <= 0 {
		maxImportBytes = DefaultMaxImportBytes
	}
	return &InventoryHandler{inventory: inventory, maxImportBytes: maxImportBytes}
}

// List handles GET /api/inventory.
//
// @Summary      List stock cartons
// @Description  Returns the carton inventory the planner selects from.
// @Tags         Inventory
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.InventoryResponse} "Inventory"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      503 {object} dto.ErrorResponse "Inventory store unavailable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)

	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		writeServiceError(builder, err)
		return
	}
	if items == nil {
		items = []model.BoxItem{}
	}

	builder.SuccessOK(dto.InventoryResponse{Items: items, Count: len(items)})
}

// Upsert handles POST /api/inventory.
//
// @Summary      Add or update cartons
// @Description  Accepts one carton object or an array of up to 1000 cartons; cartons are stored by id.
// @Tags         Inventory
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body []dto.BoxRequest true "Carton or cartons"
// @Success      200 {object} dto.SuccessResponse{data=dto.UpsertInventoryResponse} "Cartons stored"
// @Failure      400 {object} dto.ErrorResponse "Invalid carton"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      503 {object} dto.ErrorResponse "Inventory store unavailable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/inventory [post]
func (h *InventoryHandler) Upsert(c *gin.Context) {
	builder := NewResponseBuilder(c)

	body, err := c.GetRawData()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	requests, details, err := decodeBoxRequests(body)
	if err != nil {
		if details != nil {
			builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, details, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}

	items := make([]model.BoxItem, len(requests))
	for i, r := range requests {
		items[i] = r.BoxItem()
	}

	n, err := h.inventory.Upsert(c.Request.Context(), items)
	if err != nil {
		middleware.AuditLogError(middleware.LoggingServiceFrom(c), c, middleware.ActionInventoryUpsert,
			"Inventory upsert failed", err, map[string]interface{}{"count": len(items)})
		writeServiceError(builder, err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.ActionInventoryUpsert,
		"Inventory updated", map[string]interface{}{"upserted": n})
	builder.SuccessOK(dto.UpsertInventoryResponse{Upserted: n})
}

// decodeBoxRequests accepts a single carton object or an array of them.
// Validation failures are returned as field details keyed by "items[i].field".
func decodeBoxRequests(body []byte) ([]dto.BoxRequest, map[string]string, error) {
	trimmed := bytes.TrimSpace(body)

	var requests []dto.BoxRequest
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &requests); err != nil {
			return nil, nil, err
		}
	} else {
		var single dto.BoxRequest
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, nil, err
		}
		requests = []dto.BoxRequest{single}
	}

	details := make(map[string]string)
	for i := range requests {
		requests[i].ID = strings.TrimSpace(requests[i].ID)
		err := binding.Validator.ValidateStruct(&requests[i])
		if err == nil {
			continue
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, nil, err
		}
		for k, v := range validationDetails(fmt.Sprintf("items[%d].", i), verrs) {
			details[k] = v
		}
	}
	if len(details) > 0 {
		return nil, details, fmt.Errorf("%d invalid inventory fields", len(details))
	}
	return requests, nil, nil
}

// Import handles POST /api/inventory/import.
//
// @Summary      Import cartons from CSV
// @Description  Reads ID,L,W,H lines (header optional); invalid lines are skipped and counted.
// @Tags         Inventory
// @Accept       plain
// @Produce      json
// @Param        request body string true "CSV rows, e.g. BOX-010,320,240,180"
// @Success      200 {object} dto.SuccessResponse{data=dto.ImportInventoryResponse} "Import result"
// @Failure      400 {object} dto.ErrorResponse "No valid rows"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      413 {object} dto.ErrorResponse "Body too large"
// @Failure      503 {object} dto.ErrorResponse "Inventory store unavailable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) Import(c *gin.Context) {
	builder := NewResponseBuilder(c)

	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes)
	result, err := h.inventory.Import(c.Request.Context(), body)
	if err != nil {
		middleware.AuditLogError(middleware.LoggingServiceFrom(c), c, middleware.ActionInventoryImport,
			"Inventory import failed", err, map[string]interface{}{"skipped": result.Skipped})
		writeServiceError(builder, err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.ActionInventoryImport,
		"Inventory imported", map[string]interface{}{"imported": result.Imported, "skipped": result.Skipped})
	builder.SuccessOK(dto.ImportInventoryResponse{Imported: result.Imported, Skipped: result.Skipped})
}

// Delete handles DELETE /api/inventory/:id.
//
// @Summary      Remove a carton
// @Tags         Inventory
// @Produce      json
// @Param        id path string true "Carton id"
// @Success      204 "Deleted"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Carton not found"
// @Failure      503 {object} dto.ErrorResponse "Inventory store unavailable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	builder := NewResponseBuilder(c)
	id := c.Param("id")

	if err := h.inventory.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(builder, err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.ActionInventoryDelete,
		"Carton removed", map[string]interface{}{"id": id})
	c.Status(http.StatusNoContent)
}
