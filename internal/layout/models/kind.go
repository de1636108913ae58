package models

import (
	"errors"
	"fmt"
)

// ============================================================
// Shape kinds
// ============================================================

type ShapeKind string

const (
	KindSquare  ShapeKind = "Square"
	KindDiamond ShapeKind = "Diamond"
	KindCircle  ShapeKind = "Circle"
)

// Primitive is the geometry a kind is painted with.
type Primitive string

const (
	PrimitiveRect    Primitive = "rect"
	PrimitiveEllipse Primitive = "ellipse"
)

var ErrUnknownKind = errors.New("unknown shape kind")

// Kinds returns the closed set of shape kinds in declaration order.
func Kinds() []ShapeKind {
	return []ShapeKind{KindSquare, KindDiamond, KindCircle}
}

// ParseKind resolves a kind tag. Matching is case-sensitive.
func ParseKind(tag string) (ShapeKind, error) {
	switch ShapeKind(tag) {
	case KindSquare, KindDiamond, KindCircle:
		return ShapeKind(tag), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

func (k ShapeKind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

func (k ShapeKind) Primitive() Primitive {
	if k == KindCircle {
		return PrimitiveEllipse
	}
	return PrimitiveRect
}

func (k ShapeKind) String() string {
	return string(k)
}
