package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/guttosm/packgenius/internal/advisor"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/i18n"
	"github.com/guttosm/packgenius/internal/logger"
	"github.com/guttosm/packgenius/internal/metrics"
	"github.com/guttosm/packgenius/internal/service/cache"
)

// Advisor produces commentary for a plan.
type Advisor interface {
	Analyze(ctx context.Context, in advisor.Input) (model.Analysis, error)
	Enabled() bool
}

// AdvisoryService attaches an analysis to every plan. It never fails:
// when the advisor is unavailable a localized fallback is returned.
type AdvisoryService interface {
	Analyze(ctx context.Context, product model.Dimensions, result model.CalculationResult, language string) model.Analysis
}

// AdvisoryOption configures an AdvisoryServiceImpl.
type AdvisoryOption func(*AdvisoryServiceImpl)

// WithAnalysisCache caches successful analyses by input.
func WithAnalysisCache(c cache.Cache) AdvisoryOption {
	return func(s *AdvisoryServiceImpl) {
		s.cache = c
	}
}

// WithDimensionUnit sets the unit named in advisor prompts.
func WithDimensionUnit(unit string) AdvisoryOption {
	return func(s *AdvisoryServiceImpl) {
		if unit != "" {
			s.unit = unit
		}
	}
}

// AdvisoryServiceImpl implements AdvisoryService.
type AdvisoryServiceImpl struct {
	advisor Advisor
	cache   cache.Cache
	unit    string
}

// NewAdvisoryService creates the service. A nil advisor always yields the fallback.
func NewAdvisoryService(a Advisor, opts ...AdvisoryOption) *AdvisoryServiceImpl {
	s := &AdvisoryServiceImpl{advisor: a, unit: "mm"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze returns a cached, fresh or fallback analysis in the requested language.
func (s *AdvisoryServiceImpl) Analyze(ctx context.Context, product model.Dimensions, result model.CalculationResult, language string) model.Analysis {
	language = resolveLanguage(language)

	if s.advisor == nil || !s.advisor.Enabled() {
		metrics.RecordAdvisorRequest(0, "disabled")
		return FallbackAnalysis(language)
	}

	in := advisor.Input{Product: product, Result: result, Language: language, Unit: s.unit}
	key := analysisKey(in)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			metrics.RecordAdvisorRequest(0, "cache_hit")
			return cached
		}
	}

	start := time.Now()
	analysis, err := s.advisor.Analyze(ctx, in)
	if err != nil {
		metrics.RecordAdvisorRequest(time.Since(start), "fallback")
		l := logger.FromContext(ctx)
		l.Warn().Err(err).Str("language", language).Msg("Advisor unavailable, using fallback analysis")
		return FallbackAnalysis(language)
	}
	metrics.RecordAdvisorRequest(time.Since(start), "success")

	if s.cache != nil {
		s.cache.Set(key, analysis)
	}
	return analysis
}

// FallbackAnalysis is the locally produced analysis used when no advisor answers.
func FallbackAnalysis(language string) model.Analysis {
	t := i18n.GetTranslator()
	return model.Analysis{
		Recommendation:     t.Translate(i18n.AnalysisKeyUnavailable, language),
		MaterialSuggestion: t.Translate(i18n.AnalysisKeyNoMaterial, language),
		EfficiencyScore:    0,
		Reasoning: []string{
			t.Translate(i18n.AnalysisKeyReasonConnect, language),
			t.Translate(i18n.AnalysisKeyReasonAPIKey, language),
			t.Translate(i18n.AnalysisKeyReasonValid, language),
		},
		Fallback: true,
	}
}

func resolveLanguage(language string) string {
	if locale, ok := i18n.NormalizeLocale(language); ok {
		return locale
	}
	return i18n.DefaultLocale
}

func analysisKey(in advisor.Input) string {
	raw, _ := json.Marshal(in)
	sum := sha256.Sum256(raw)
	return in.Language + ":" + hex.EncodeToString(sum[:16])
}
