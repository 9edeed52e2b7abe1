package model

import "time"

// CalculationResult is the derivation trail of one packaging plan.
//
// @Description Packaging plan: inner pack, master payload and chosen carton
type CalculationResult struct {
	InnerBoxDims      Dimensions `json:"innerBoxDims" bson:"inner_box_dims"`
	MasterPayloadDims Dimensions `json:"masterPayloadDims" bson:"master_payload_dims"`
	TotalItems        int        `json:"totalItems" bson:"total_items" example:"8"`
	Box               BoxItem    `json:"box" bson:"box"`
	IsCustom          bool       `json:"isCustom" bson:"is_custom"`
	// FoundStock is true when the box was taken from inventory.
	FoundStock bool `json:"foundStock" bson:"found_stock"`
	// Rotated is true when the box only fits with length and width swapped.
	Rotated     bool    `json:"rotated" bson:"rotated"`
	GapL        float64 `json:"gapL" bson:"gap_l" example:"3"`
	GapW        float64 `json:"gapW" bson:"gap_w" example:"3"`
	GapH        float64 `json:"gapH" bson:"gap_h" example:"2"`
	WasteVolume float64 `json:"wasteVolume" bson:"waste_volume"`
	StackCount  int     `json:"stackCount,omitempty" bson:"stack_count,omitempty"`
}

// Analysis is the advisory commentary attached to a plan.
//
// @Description Advisory analysis of a packaging plan
type Analysis struct {
	Recommendation     string   `json:"recommendation" bson:"recommendation"`
	MaterialSuggestion string   `json:"materialSuggestion" bson:"material_suggestion"`
	EfficiencyScore    int      `json:"efficiencyScore" bson:"efficiency_score" example:"85"`
	Reasoning          []string `json:"reasoning" bson:"reasoning"`
	// Fallback is true when the analysis was produced locally.
	Fallback bool `json:"fallback" bson:"fallback"`
}

// HistoryEntry is a persisted calculation.
//
// @Description Saved calculation
type HistoryEntry struct {
	ID        string            `json:"id"`
	Product   Dimensions        `json:"product"`
	Config    PackagingConfig   `json:"config" swaggertype:"object"`
	Gaps      SafetyGaps        `json:"safetyGaps"`
	Result    CalculationResult `json:"result"`
	Analysis  *Analysis         `json:"aiAnalysis,omitempty"`
	Language  string            `json:"language,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
