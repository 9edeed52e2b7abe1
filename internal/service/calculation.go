package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/i18n"
	"github.com/guttosm/packgenius/internal/logger"
	"github.com/guttosm/packgenius/internal/metrics"
	"github.com/guttosm/packgenius/internal/planner"
)

// CalculationRequest is one planning request.
type CalculationRequest struct {
	Product model.Dimensions
	Config  model.PackagingConfig
	// Gaps overrides the configured default clearance when set.
	Gaps *model.SafetyGaps
	// Language is "en" or "zh-CN"; empty means the configured default.
	Language string
	// CorrectRotatedGaps overrides the configured gap reporting for rotated cartons.
	CorrectRotatedGaps *bool
}

// CalculationOutcome is a plan plus its analysis and history reference.
type CalculationOutcome struct {
	Result   model.CalculationResult
	Analysis model.Analysis
	Gaps     model.SafetyGaps
	Language string
	// HistoryID is empty when the calculation was not saved.
	HistoryID string
}

// CalculationService runs the planner against the current inventory.
type CalculationService interface {
	Calculate(ctx context.Context, req CalculationRequest) (CalculationOutcome, error)
}

// CalculationOption configures a CalculationServiceImpl.
type CalculationOption func(*CalculationServiceImpl)

// WithDefaultGaps sets the clearance used when a request has none.
func WithDefaultGaps(gaps model.SafetyGaps) CalculationOption {
	return func(s *CalculationServiceImpl) {
		s.gaps = gaps
	}
}

// WithStrictValidation rejects invalid inputs instead of planning them as-is.
func WithStrictValidation(strict bool) CalculationOption {
	return func(s *CalculationServiceImpl) {
		s.strict = strict
	}
}

// WithCorrectedGapsByDefault reports rotated-carton gaps against the rotated footprint.
func WithCorrectedGapsByDefault(corrected bool) CalculationOption {
	return func(s *CalculationServiceImpl) {
		s.correctRotated = corrected
	}
}

// WithDefaultLanguage sets the language used when a request has none.
func WithDefaultLanguage(language string) CalculationOption {
	return func(s *CalculationServiceImpl) {
		if locale, ok := i18n.NormalizeLocale(language); ok {
			s.language = locale
		}
	}
}

// WithHistory saves every calculation.
func WithHistory(history HistoryService) CalculationOption {
	return func(s *CalculationServiceImpl) {
		s.history = history
	}
}

// CalculationServiceImpl implements CalculationService.
type CalculationServiceImpl struct {
	inventory      InventoryService
	advisory       AdvisoryService
	history        HistoryService
	gaps           model.SafetyGaps
	strict         bool
	correctRotated bool
	language       string
}

// NewCalculationService creates the service.
func NewCalculationService(inventory InventoryService, advisory AdvisoryService, opts ...CalculationOption) *CalculationServiceImpl {
	s := &CalculationServiceImpl{
		inventory: inventory,
		advisory:  advisory,
		gaps:      model.DefaultSafetyGaps(),
		language:  i18n.DefaultLocale,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate plans the request, attaches an analysis and saves it to history.
// A history failure is logged and leaves HistoryID empty.
func (s *CalculationServiceImpl) Calculate(ctx context.Context, req CalculationRequest) (CalculationOutcome, error) {
	gaps := s.gaps
	if req.Gaps != nil {
		gaps = *req.Gaps
	}
	language := s.language
	if locale, ok := i18n.NormalizeLocale(req.Language); ok {
		language = locale
	}

	inventory, err := s.inventory.List(ctx)
	if err != nil {
		metrics.RecordPlanCalculation(0, metrics.OutcomeError, 0)
		return CalculationOutcome{}, fmt.Errorf("load inventory: %w", err)
	}

	var opts []planner.Option
	corrected := s.correctRotated
	if req.CorrectRotatedGaps != nil {
		corrected = *req.CorrectRotatedGaps
	}
	if corrected {
		opts = append(opts, planner.WithCorrectedRotationGaps())
	}

	start := time.Now()
	var result model.CalculationResult
	if s.strict {
		result, err = planner.PlanStrict(req.Product, inventory, req.Config, gaps, opts...)
		if err != nil {
			metrics.RecordPlanCalculation(time.Since(start), metrics.OutcomeError, 0)
			return CalculationOutcome{}, err
		}
	} else {
		result = planner.Plan(req.Product, inventory, req.Config, gaps, opts...)
	}
	outcome := metrics.OutcomeStock
	if result.IsCustom {
		outcome = metrics.OutcomeCustom
	}
	metrics.RecordPlanCalculation(time.Since(start), outcome, result.WasteVolume)

	analysis := s.advisory.Analyze(ctx, req.Product, result, language)

	out := CalculationOutcome{
		Result:   result,
		Analysis: analysis,
		Gaps:     gaps,
		Language: language,
	}

	if s.history != nil {
		entry := &model.HistoryEntry{
			Product:  req.Product,
			Config:   req.Config,
			Gaps:     gaps,
			Result:   result,
			Analysis: &analysis,
			Language: language,
		}
		if err := s.history.Save(ctx, entry); err != nil {
			l := logger.FromContext(ctx)
			l.Warn().Err(err).Msg("Failed to save calculation history")
		} else {
			out.HistoryID = entry.ID
		}
	}

	return out, nil
}
