package models

import "math"

// ============================================================
// Geometry
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry is the placement of a shape. (X, Y) is the top-left corner of the
// unrotated bounding box; Rotation is in degrees about the box centre.
// Rect kinds use Width/Height, ellipses use RX/RY.
type Geometry struct {
	X           float64
	Y           float64
	Width       float64
	Height      float64
	RX          float64
	RY          float64
	Rotation    float64
	Stroke      string
	StrokeWidth float64
}

type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// normalize drops the size fields the primitive does not use.
func (g Geometry) normalize(p Primitive) Geometry {
	switch p {
	case PrimitiveEllipse:
		g.Width, g.Height = 0, 0
	default:
		g.RX, g.RY = 0, 0
	}
	return g
}

func (g Geometry) bounds(p Primitive) Box {
	if p == PrimitiveEllipse {
		return Box{X: g.X, Y: g.Y, Width: 2 * g.RX, Height: 2 * g.RY}
	}
	return Box{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// rotate turns p around c by deg degrees.
func rotate(p, c Point, deg float64) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}
