package model

import (
	"encoding/json"
	"errors"
)

// DefaultInnerWallThickness is the wrapper allowance used when none is configured.
const DefaultInnerWallThickness = 1.0

// InnerPackKind tells which shape an InnerPackSpec was built from.
type InnerPackKind int

const (
	// InnerPackAxis is an independent per-axis arrangement.
	InnerPackAxis InnerPackKind = iota
	// InnerPackStack is N units stacked along the height axis.
	InnerPackStack
)

// InnerPackSpec describes how products are grouped into an inner pack.
// Build one with AxisArrangement or StackCount.
type InnerPackSpec struct {
	kind        InnerPackKind
	arrangement Arrangement
	stackCount  int
}

// AxisArrangement returns an inner pack spec with independent counts per axis.
func AxisArrangement(a Arrangement) InnerPackSpec {
	return InnerPackSpec{kind: InnerPackAxis, arrangement: a}
}

// StackCount returns an inner pack spec of n units stacked along height.
func StackCount(n int) InnerPackSpec {
	return InnerPackSpec{kind: InnerPackStack, stackCount: n}
}

// Kind reports the shape the spec was built from.
func (s InnerPackSpec) Kind() InnerPackKind {
	return s.kind
}

// StackCount returns the stack count and true for stack specs.
func (s InnerPackSpec) StackCount() (int, bool) {
	return s.stackCount, s.kind == InnerPackStack
}

// Resolve collapses the spec into a single arrangement.
// A stack of n resolves to {1, 1, n}.
func (s InnerPackSpec) Resolve() Arrangement {
	if s.kind == InnerPackStack {
		return Arrangement{L: 1, W: 1, H: s.stackCount}
	}
	return s.arrangement
}

// PackagingConfig is how an inner pack and master carton are composed.
// Values are immutable; use the With methods to derive a changed copy.
type PackagingConfig struct {
	inner              InnerPackSpec
	master             Arrangement
	innerWallThickness float64
}

// NewPackagingConfig returns a single-unit inner pack in a single-pack master carton.
func NewPackagingConfig(innerWallThickness float64) PackagingConfig {
	return PackagingConfig{
		inner:              AxisArrangement(SingleUnit()),
		master:             SingleUnit(),
		innerWallThickness: innerWallThickness,
	}
}

// Inner returns the inner pack spec.
func (c PackagingConfig) Inner() InnerPackSpec { return c.inner }

// MasterArrangement returns the inner packs per axis in the master carton.
func (c PackagingConfig) MasterArrangement() Arrangement { return c.master }

// InnerWallThickness returns the wrapper allowance added once per inner pack axis.
func (c PackagingConfig) InnerWallThickness() float64 { return c.innerWallThickness }

// WithInner returns a copy using the given inner pack spec.
func (c PackagingConfig) WithInner(spec InnerPackSpec) PackagingConfig {
	c.inner = spec
	return c
}

// WithInnerArrangement returns a copy using an axis arrangement for the inner pack.
func (c PackagingConfig) WithInnerArrangement(a Arrangement) PackagingConfig {
	return c.WithInner(AxisArrangement(a))
}

// WithStackCount returns a copy using a height stack for the inner pack.
func (c PackagingConfig) WithStackCount(n int) PackagingConfig {
	return c.WithInner(StackCount(n))
}

// WithMasterArrangement returns a copy with a different master arrangement.
func (c PackagingConfig) WithMasterArrangement(a Arrangement) PackagingConfig {
	c.master = a
	return c
}

// WithInnerWallThickness returns a copy with a different wall allowance.
func (c PackagingConfig) WithInnerWallThickness(t float64) PackagingConfig {
	c.innerWallThickness = t
	return c
}

// ErrAmbiguousInnerPack is returned when a document sets both or neither inner pack shape.
var ErrAmbiguousInnerPack = errors.New("exactly one of innerArrangement or innerBox.stackCount must be set")

// InnerBox is the wire form of a stack-count inner pack.
type InnerBox struct {
	StackCount int `json:"stackCount" bson:"stack_count" example:"6"`
}

// PackagingConfigDocument is the serialized form of PackagingConfig.
// It is used for JSON payloads and history persistence.
type PackagingConfigDocument struct {
	InnerArrangement   *Arrangement `json:"innerArrangement,omitempty" bson:"inner_arrangement,omitempty"`
	InnerBox           *InnerBox    `json:"innerBox,omitempty" bson:"inner_box,omitempty"`
	MasterArrangement  Arrangement  `json:"masterArrangement" bson:"master_arrangement"`
	InnerWallThickness float64      `json:"innerWallThickness" bson:"inner_wall_thickness"`
}

// Document converts the config to its serialized form.
func (c PackagingConfig) Document() PackagingConfigDocument {
	doc := PackagingConfigDocument{
		MasterArrangement:  c.master,
		InnerWallThickness: c.innerWallThickness,
	}
	if n, ok := c.inner.StackCount(); ok {
		doc.InnerBox = &InnerBox{StackCount: n}
	} else {
		a := c.inner.Resolve()
		doc.InnerArrangement = &a
	}
	return doc
}

// Config converts a serialized document back into a PackagingConfig.
func (d PackagingConfigDocument) Config() (PackagingConfig, error) {
	cfg := NewPackagingConfig(d.InnerWallThickness).WithMasterArrangement(d.MasterArrangement)
	switch {
	case d.InnerArrangement != nil && d.InnerBox == nil:
		return cfg.WithInnerArrangement(*d.InnerArrangement), nil
	case d.InnerBox != nil && d.InnerArrangement == nil:
		return cfg.WithStackCount(d.InnerBox.StackCount), nil
	default:
		return PackagingConfig{}, ErrAmbiguousInnerPack
	}
}

// MarshalJSON encodes the config in its document form.
func (c PackagingConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Document())
}

// UnmarshalJSON decodes either inner pack shape.
func (c *PackagingConfig) UnmarshalJSON(data []byte) error {
	var doc PackagingConfigDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	cfg, err := doc.Config()
	if err != nil {
		return err
	}
	*c = cfg
	return nil
}
