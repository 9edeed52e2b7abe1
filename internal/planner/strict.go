package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/guttosm/packgenius/internal/domain/model"
)

// FieldError names one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ConfigurationError lists every invalid field found by Validate.
type ConfigurationError struct {
	Fields []FieldError
}

// Error returns all field errors joined by "; ".
func (e *ConfigurationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid packaging configuration: " + strings.Join(parts, "; ")
}

// Validate checks that a planning input is well formed.
// It returns nil or a *ConfigurationError.
func Validate(product model.Dimensions, cfg model.PackagingConfig, gaps model.SafetyGaps) error {
	var fields []FieldError

	positive := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			fields = append(fields, FieldError{Field: name, Message: "must be a positive number"})
		}
	}
	nonNegative := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			fields = append(fields, FieldError{Field: name, Message: "must be zero or greater"})
		}
	}
	count := func(name string, v int) {
		if v < 1 {
			fields = append(fields, FieldError{Field: name, Message: "must be at least 1"})
		}
	}

	positive("product.length", product.Length)
	positive("product.width", product.Width)
	positive("product.height", product.Height)

	if n, ok := cfg.Inner().StackCount(); ok {
		count("config.innerBox.stackCount", n)
	} else {
		a := cfg.Inner().Resolve()
		count("config.innerArrangement.l", a.L)
		count("config.innerArrangement.w", a.W)
		count("config.innerArrangement.h", a.H)
	}

	m := cfg.MasterArrangement()
	count("config.masterArrangement.l", m.L)
	count("config.masterArrangement.w", m.W)
	count("config.masterArrangement.h", m.H)

	nonNegative("config.innerWallThickness", cfg.InnerWallThickness())
	nonNegative("safetyGaps.l", gaps.L)
	nonNegative("safetyGaps.w", gaps.W)
	nonNegative("safetyGaps.h", gaps.H)

	if len(fields) > 0 {
		return &ConfigurationError{Fields: fields}
	}
	return nil
}

// PlanStrict validates the input and then runs Plan.
func PlanStrict(product model.Dimensions, inventory []model.BoxItem, cfg model.PackagingConfig, gaps model.SafetyGaps, opts ...Option) (model.CalculationResult, error) {
	if err := Validate(product, cfg, gaps); err != nil {
		return model.CalculationResult{}, err
	}
	for i, box := range inventory {
		if box.ID == "" {
			return model.CalculationResult{}, &ConfigurationError{Fields: []FieldError{{
				Field:   fmt.Sprintf("inventory[%d].id", i),
				Message: "must not be empty",
			}}}
		}
	}
	return Plan(product, inventory, cfg, gaps, opts...), nil
}
