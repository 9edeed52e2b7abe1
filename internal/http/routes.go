package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// PlanRoutes registers the packaging plan route.
type PlanRoutes struct {
	handler *Handler
}

// NewPlanRoutes creates a new PlanRoutes instance.
func NewPlanRoutes(handler *Handler) *PlanRoutes {
	return &PlanRoutes{handler: handler}
}

// RegisterRoutes registers POST /calculate.
func (r *PlanRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.POST("/calculate", r.handler.Calculate)
}

// InventoryRoutes registers the carton inventory routes.
type InventoryRoutes struct {
	handler *InventoryHandler
}

// NewInventoryRoutes creates a new InventoryRoutes instance.
func NewInventoryRoutes(handler *InventoryHandler) *InventoryRoutes {
	return &InventoryRoutes{handler: handler}
}

// RegisterRoutes registers the /inventory routes.
func (r *InventoryRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	inventory := rg.Group("/inventory")
	inventory.GET("", r.handler.List)
	inventory.POST("", r.handler.Upsert)
	inventory.POST("/import", r.handler.Import)
	inventory.DELETE("/:id", r.handler.Delete)
}

// HistoryRoutes registers the calculation history routes.
type HistoryRoutes struct {
	handler *HistoryHandler
}

// NewHistoryRoutes creates a new HistoryRoutes instance.
func NewHistoryRoutes(handler *HistoryHandler) *HistoryRoutes {
	return &HistoryRoutes{handler: handler}
}

// RegisterRoutes registers the /history routes.
func (r *HistoryRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	history := rg.Group("/history")
	history.GET("", r.handler.List)
	history.DELETE("", r.handler.Clear)
	history.DELETE("/:id", r.handler.Delete)
}
