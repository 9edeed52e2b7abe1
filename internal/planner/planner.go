// Package planner derives nested packaging plans.
//
// A plan groups products into an inner pack, groups inner packs into a master
// payload, and then picks the inventory carton that holds the payload with the
// required clearance and the least wasted volume. When no carton fits, a custom
// carton is synthesized at the minimum envelope.
//
// Plan is a pure function. It performs no I/O, holds no state and is safe for
// concurrent use. It never rejects input: zero or negative values produce
// degenerate but arithmetically consistent plans. Callers that want invalid
// input rejected use PlanStrict.
package planner

import (
	"github.com/guttosm/packgenius/internal/domain/model"
)

type options struct {
	correctRotatedGaps bool
}

// Option configures a planning call.
type Option func(*options)

// WithCorrectedRotationGaps reports gaps of a footprint-rotated carton against
// the rotated axes. Without it, gaps always use the carton's own length and
// width, which can produce negative values for rotated cartons.
func WithCorrectedRotationGaps() Option {
	return func(o *options) {
		o.correctRotatedGaps = true
	}
}

// Match is the outcome of an inventory search.
type Match struct {
	Box     model.BoxItem
	Rotated bool
}

// Plan computes a packaging plan for product using the given inventory.
func Plan(product model.Dimensions, inventory []model.BoxItem, cfg model.PackagingConfig, gaps model.SafetyGaps, opts ...Option) model.CalculationResult {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	inner := InnerBoxDims(product, cfg)
	master := cfg.MasterArrangement()
	payload := MasterPayloadDims(inner, master)

	result := model.CalculationResult{
		InnerBoxDims:      inner,
		MasterPayloadDims: payload,
		TotalItems:        cfg.Inner().Resolve().Count() * master.Count(),
	}
	if n, ok := cfg.Inner().StackCount(); ok {
		result.StackCount = n
	}

	if match, ok := FindBestBox(payload, inventory, gaps); ok {
		result.Box = match.Box
		result.FoundStock = true
		result.Rotated = match.Rotated
		result.GapL = match.Box.Length - payload.Length
		result.GapW = match.Box.Width - payload.Width
		if match.Rotated && o.correctRotatedGaps {
			result.GapL = match.Box.Width - payload.Length
			result.GapW = match.Box.Length - payload.Width
		}
		result.GapH = match.Box.Height - payload.Height
	} else {
		result.Box = CustomBox(payload, gaps)
		result.IsCustom = true
		result.GapL = gaps.L
		result.GapW = gaps.W
		result.GapH = gaps.H
	}

	result.WasteVolume = result.Box.Volume() - payload.Volume()
	return result
}

// InnerBoxDims returns product x inner arrangement plus the wall allowance on each axis.
func InnerBoxDims(product model.Dimensions, cfg model.PackagingConfig) model.Dimensions {
	a := cfg.Inner().Resolve()
	wall := cfg.InnerWallThickness()
	return model.Dimensions{
		Length: product.Length*float64(a.L) + wall,
		Width:  product.Width*float64(a.W) + wall,
		Height: product.Height*float64(a.H) + wall,
	}
}

// MasterPayloadDims returns the space taken by inner packs laid out per master arrangement.
func MasterPayloadDims(inner model.Dimensions, master model.Arrangement) model.Dimensions {
	return model.Dimensions{
		Length: inner.Length * float64(master.L),
		Width:  inner.Width * float64(master.W),
		Height: inner.Height * float64(master.H),
	}
}

// MinimumEnvelope returns payload plus gaps, the smallest legal carton interior.
func MinimumEnvelope(payload model.Dimensions, gaps model.SafetyGaps) model.Dimensions {
	return model.Dimensions{
		Length: payload.Length + gaps.L,
		Width:  payload.Width + gaps.W,
		Height: payload.Height + gaps.H,
	}
}

// CustomBox returns a carton sized exactly at the minimum envelope.
func CustomBox(payload model.Dimensions, gaps model.SafetyGaps) model.BoxItem {
	return model.BoxItem{ID: model.CustomBoxID, Dimensions: MinimumEnvelope(payload, gaps)}
}

// FindBestBox returns the inventory carton with the least wasted volume that
// holds payload plus gaps, either as is or with length and width swapped.
// Height is never rotated. Ties go to the earliest box in inventory order.
func FindBestBox(payload model.Dimensions, inventory []model.BoxItem, gaps model.SafetyGaps) (Match, bool) {
	env := MinimumEnvelope(payload, gaps)
	payloadVolume := payload.Volume()

	var (
		best      Match
		bestWaste float64
		found     bool
	)
	for _, box := range inventory {
		if box.Height < env.Height {
			continue
		}
		standard := box.Length >= env.Length && box.Width >= env.Width
		rotated := box.Length >= env.Width && box.Width >= env.Length
		if !standard && !rotated {
			continue
		}

		waste := box.Volume() - payloadVolume
		if !found || waste < bestWaste {
			best = Match{Box: box, Rotated: !standard}
			bestWaste = waste
			found = true
		}
	}
	return best, found
}
