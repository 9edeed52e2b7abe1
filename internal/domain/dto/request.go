// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"github.com/guttosm/packgenius/internal/domain/model"
)

// DimensionsRequest is a product or carton size.
type DimensionsRequest struct {
	Length float64 `json:"length" binding:"gt=0" example:"100"`
	Width  float64 `json:"width" binding:"gt=0" example:"50"`
	Height float64 `json:"height" binding:"gt=0" example:"25"`
} // @name DimensionsRequest

// Dimensions converts the request to the domain type.
func (r DimensionsRequest) Dimensions() model.Dimensions {
	return model.Dimensions{Length: r.Length, Width: r.Width, Height: r.Height}
}

// ArrangementRequest is a units-per-axis count.
type ArrangementRequest struct {
	L int `json:"l" binding:"min=1" example:"2"`
	W int `json:"w" binding:"min=1" example:"2"`
	H int `json:"h" binding:"min=1" example:"2"`
} // @name ArrangementRequest

// Arrangement converts the request to the domain type.
func (r ArrangementRequest) Arrangement() model.Arrangement {
	return model.Arrangement{L: r.L, W: r.W, H: r.H}
}

// InnerBoxRequest is the stack-count form of an inner pack.
type InnerBoxRequest struct {
	StackCount int `json:"stackCount" binding:"min=1" example:"6"`
} // @name InnerBoxRequest

// PackagingConfigRequest describes how products are grouped.
// Exactly one of InnerArrangement and InnerBox must be set.
type PackagingConfigRequest struct {
	InnerArrangement  *ArrangementRequest `json:"innerArrangement,omitempty"`
	InnerBox          *InnerBoxRequest    `json:"innerBox,omitempty"`
	MasterArrangement ArrangementRequest  `json:"masterArrangement"`
	// InnerWallThickness defaults to the server setting when omitted.
	InnerWallThickness *float64 `json:"innerWallThickness,omitempty" binding:"omitempty,gte=0" example:"1"`
} // @name PackagingConfigRequest

// Config converts the request to an immutable PackagingConfig.
// defaultWall is used when the request omits the wall thickness.
func (r PackagingConfigRequest) Config(defaultWall float64) model.PackagingConfig {
	wall := defaultWall
	if r.InnerWallThickness != nil {
		wall = *r.InnerWallThickness
	}
	cfg := model.NewPackagingConfig(wall).WithMasterArrangement(r.MasterArrangement.Arrangement())
	if r.InnerBox != nil {
		return cfg.WithStackCount(r.InnerBox.StackCount)
	}
	if r.InnerArrangement != nil {
		return cfg.WithInnerArrangement(r.InnerArrangement.Arrangement())
	}
	return cfg
}

// SafetyGapsRequest is the required clearance per axis.
type SafetyGapsRequest struct {
	L float64 `json:"l" binding:"gte=0" example:"3"`
	W float64 `json:"w" binding:"gte=0" example:"3"`
	H float64 `json:"h" binding:"gte=0" example:"2"`
} // @name SafetyGapsRequest

// SafetyGaps converts the request to the domain type.
func (r SafetyGapsRequest) SafetyGaps() model.SafetyGaps {
	return model.SafetyGaps{L: r.L, W: r.W, H: r.H}
}

// CalculateRequest represents the JSON request body for the calculate endpoint.
//
// @Description Request to plan the packaging of one product
// @Example {"product": {"length": 100, "width": 50, "height": 25}, "config": {"innerArrangement": {"l": 2, "w": 2, "h": 2}, "masterArrangement": {"l": 2, "w": 2, "h": 1}, "innerWallThickness": 1}, "language": "en"}
type CalculateRequest struct {
	Product DimensionsRequest      `json:"product"`
	Config  PackagingConfigRequest `json:"config"`
	// Language of the analysis, "en" or "zh-CN". Defaults to the server setting.
	Language string `json:"language,omitempty" binding:"omitempty,max=16" example:"en"`
	// SafetyGaps defaults to the server setting when omitted.
	SafetyGaps *SafetyGapsRequest `json:"safetyGaps,omitempty"`
} // @name CalculateRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrAmbiguousInnerPack is returned when both or neither inner pack shapes are given.
	ErrAmbiguousInnerPack = &ValidationError{
		Field:   "config.innerArrangement",
		Message: "exactly one of innerArrangement or innerBox must be set",
	}
)

// Validate performs checks that binding tags cannot express.
func (r *CalculateRequest) Validate() error {
	if (r.Config.InnerArrangement == nil) == (r.Config.InnerBox == nil) {
		return ErrAmbiguousInnerPack
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// BoxRequest is one inventory carton in an upsert.
type BoxRequest struct {
	ID     string  `json:"id" binding:"required,max=50" example:"BOX-008"`
	Length float64 `json:"length" binding:"gt=0" example:"350"`
	Width  float64 `json:"width" binding:"gt=0" example:"250"`
	Height float64 `json:"height" binding:"gt=0" example:"200"`
} // @name BoxRequest

// BoxItem converts the request to the domain type.
func (r BoxRequest) BoxItem() model.BoxItem {
	return model.NewBoxItem(r.ID, r.Length, r.Width, r.Height)
}

// HistoryQuery binds the history listing query string.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100" example:"20"`
}

// CalculateQuery binds the calculate query string.
type CalculateQuery struct {
	// CorrectedGaps reports rotated-carton gaps against the rotated axes.
	CorrectedGaps *bool `form:"correctedGaps"`
}
