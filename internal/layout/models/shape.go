package models

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ============================================================
// Attributes
// ============================================================

// Attributes is the editable metadata of a shape. The zero value carries the
// defaults: empty label and section, not occupied.
type Attributes struct {
	Label    string `json:"label"`
	Section  string `json:"section"`
	Occupied bool   `json:"occupied"`
}

func (a Attributes) WithLabel(label string) Attributes {
	a.Label = label
	return a
}

func (a Attributes) WithSection(section string) Attributes {
	a.Section = section
	return a
}

func (a Attributes) WithOccupied(occupied bool) Attributes {
	a.Occupied = occupied
	return a
}

const (
	FillOccupied = "green"
	FillFree     = "white"
)

// ============================================================
// Shape
// ============================================================

// Shape is an immutable placed primitive. Edits go through Rebuild and the
// store's Replace, never through mutation.
type Shape struct {
	id       string
	kind     ShapeKind
	geometry Geometry
	attrs    Attributes
}

// New builds a shape with a fresh id.
func New(kind ShapeKind, geometry Geometry, attrs Attributes) (Shape, error) {
	if !kind.Valid() {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	return Shape{
		id:       uuid.NewString(),
		kind:     kind,
		geometry: geometry.normalize(kind.Primitive()),
		attrs:    attrs,
	}, nil
}

// Rebuild returns a new instance with prev's kind and geometry and the given
// attributes.
func Rebuild(prev Shape, attrs Attributes) Shape {
	return Shape{
		id:       uuid.NewString(),
		kind:     prev.kind,
		geometry: prev.geometry,
		attrs:    attrs,
	}
}

func (s Shape) ID() string             { return s.id }
func (s Shape) Kind() ShapeKind        { return s.kind }
func (s Shape) Geometry() Geometry     { return s.geometry }
func (s Shape) Attributes() Attributes { return s.attrs }

// IsZero reports whether s was never constructed.
func (s Shape) IsZero() bool {
	return s.id == ""
}

func (s Shape) Fill() string {
	if s.attrs.Occupied {
		return FillOccupied
	}
	return FillFree
}

// Caption is the text painted at the centre of the shape.
func (s Shape) Caption() string {
	return s.attrs.Section + "-" + s.attrs.Label
}

func (s Shape) Bounds() Box {
	return s.geometry.bounds(s.kind.Primitive())
}

// Contains reports whether (x, y) falls inside the painted shape.
func (s Shape) Contains(x, y float64) bool {
	box := s.Bounds()
	c := box.Center()
	// Undo the rotation so the test runs against the axis-aligned shape.
	p := rotate(Point{X: x, Y: y}, c, -s.geometry.Rotation)

	switch s.kind.Primitive() {
	case PrimitiveEllipse:
		rx, ry := s.geometry.RX, s.geometry.RY
		if rx <= 0 || ry <= 0 {
			return false
		}
		dx := (p.X - c.X) / rx
		dy := (p.Y - c.Y) / ry
		return dx*dx+dy*dy <= 1
	default:
		return math.Abs(p.X-c.X) <= box.Width/2 && math.Abs(p.Y-c.Y) <= box.Height/2
	}
}

// ============================================================
// Templates
// ============================================================

const DefaultLabel = "Table"

// Template returns the geometry and attributes an "add" action starts from.
func Template(kind ShapeKind) (Geometry, Attributes) {
	geom := Geometry{
		X:           50,
		Y:           50,
		Stroke:      "blue",
		StrokeWidth: 1,
	}
	switch kind {
	case KindCircle:
		geom.RX, geom.RY = 40, 40
	case KindDiamond:
		geom.Width, geom.Height = 80, 80
		geom.Rotation = 45
	default:
		geom.Width, geom.Height = 80, 80
	}
	return geom, Attributes{Label: DefaultLabel}
}
