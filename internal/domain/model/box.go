package model

import "time"

// CustomBoxID identifies a carton synthesized at the minimum envelope.
const CustomBoxID = "CUSTOM-NEW"

// MaxBoxIDLength is the longest accepted carton id, in characters.
const MaxBoxIDLength = 50

// BoxItem is a candidate master carton.
//
// @Description Carton from inventory, or a synthesized custom carton
// @Example {"id": "BOX-001", "length": 200, "width": 150, "height": 100}
type BoxItem struct {
	ID         string `json:"id" bson:"id" example:"BOX-001"`
	Dimensions `bson:",inline"`
	CreatedAt  *time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// NewBoxItem builds a box from an id and its three dimensions.
func NewBoxItem(id string, length, width, height float64) BoxItem {
	return BoxItem{ID: id, Dimensions: Dimensions{Length: length, Width: width, Height: height}}
}

// IsCustom reports whether the box was synthesized rather than taken from stock.
func (b BoxItem) IsCustom() bool {
	return b.ID == CustomBoxID
}
