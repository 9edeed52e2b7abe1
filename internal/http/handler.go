package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/packgenius/internal/domain/dto"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/i18n"
	"github.com/guttosm/packgenius/internal/middleware"
	"github.com/guttosm/packgenius/internal/service"
)

// Handler provides HTTP handlers for the packaging plan routes.
type Handler struct {
	calculator  service.CalculationService
	defaultWall float64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDefaultWallThickness sets the inner wall thickness used when a request omits it.
func WithDefaultWallThickness(wall float64) HandlerOption {
	return func(h *Handler) {
		h.defaultWall = wall
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(calculator service.CalculationService, opts ...HandlerOption) *Handler {
	h := &Handler{calculator: calculator}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Calculate handles POST /api/calculate requests.
//
// @Summary      Plan nested packaging for a product
// @Description  Computes the inner pack and master payload, picks the smallest fitting stock carton (trying both horizontal orientations) or proposes a custom carton, and attaches an advisory analysis. Supports idempotency via Idempotency-Key header.
// @Tags         Packaging
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        Accept-Language header string false "Language of error messages (en, zh-CN)"
// @Param        correctedGaps query bool false "Report rotated-carton gaps against the rotated axes"
// @Param        request body dto.CalculateRequest true "Product and packaging configuration"
// @Success      200 {object} dto.SuccessResponse{data=dto.CalculateResponse} "Packaging plan"
// @Failure      400 {object} dto.ErrorResponse "Invalid request or packaging configuration"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Inventory store unavailable"
// @Failure      504 {object} dto.ErrorResponse "Request timed out"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/calculate [post]
func (h *Handler) Calculate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var query dto.CalculateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(builder, err)
		return
	}

	req, err := BuildRequestAndValidate[dto.CalculateRequest](c)
	if err != nil {
		writeBindError(builder, err)
		return
	}

	calcReq := service.CalculationRequest{
		Product:            req.Product.Dimensions(),
		Config:             req.Config.Config(h.defaultWall),
		Language:           req.Language,
		CorrectRotatedGaps: query.CorrectedGaps,
	}
	if req.SafetyGaps != nil {
		gaps := req.SafetyGaps.SafetyGaps()
		calcReq.Gaps = &gaps
	}

	outcome, err := h.calculator.Calculate(c.Request.Context(), calcReq)
	if err != nil {
		middleware.AuditLogError(middleware.LoggingServiceFrom(c), c, middleware.ActionPlanCalculate,
			"Packaging plan failed", err, nil)
		writeServiceError(builder, err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.ActionPlanCalculate,
		i18n.GetTranslator().Translate(i18n.SuccessKeyPlanCalculated, i18n.LocaleEnglish),
		(&model.LogEntry{}).WithPlan(outcome.Result).WithField("history_id", outcome.HistoryID).Fields)

	builder.SuccessOK(dto.CalculateResponse{
		Result:     outcome.Result,
		Analysis:   outcome.Analysis,
		SafetyGaps: outcome.Gaps,
		Language:   outcome.Language,
		HistoryID:  outcome.HistoryID,
	})
}
