// Package model defines the core domain entities for the packaging planner.
package model

// Dimensions is a length/width/height triple in the caller's unit.
// All dimensions passed to one calculation must share the same unit.
//
// @Description Box or product dimensions
// @Example {"length": 100, "width": 50, "height": 25}
type Dimensions struct {
	Length float64 `json:"length" bson:"length" example:"100"`
	Width  float64 `json:"width" bson:"width" example:"50"`
	Height float64 `json:"height" bson:"height" example:"25"`
}

// Volume returns length * width * height.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Arrangement is the number of units placed along each axis.
//
// @Description Units per axis
// @Example {"l": 2, "w": 2, "h": 2}
type Arrangement struct {
	L int `json:"l" bson:"l" example:"2"`
	W int `json:"w" bson:"w" example:"2"`
	H int `json:"h" bson:"h" example:"2"`
}

// Count returns the total number of units in the arrangement.
func (a Arrangement) Count() int {
	return a.L * a.W * a.H
}

// SingleUnit is the {1,1,1} arrangement.
func SingleUnit() Arrangement {
	return Arrangement{L: 1, W: 1, H: 1}
}

// SafetyGaps is the clearance required between payload and carton walls.
//
// @Description Minimum clearance per axis
// @Example {"l": 3, "w": 3, "h": 2}
type SafetyGaps struct {
	L float64 `json:"l" bson:"l" example:"3"`
	W float64 `json:"w" bson:"w" example:"3"`
	H float64 `json:"h" bson:"h" example:"2"`
}

// DefaultSafetyGaps returns the stock clearance {3, 3, 2}.
func DefaultSafetyGaps() SafetyGaps {
	return SafetyGaps{L: 3, W: 3, H: 2}
}
