package canvas

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"restaurant-layout/internal/layout/models"
)

// ============================================================
// SVG Canvas
// ============================================================

const (
	DefaultWidth      = 1000
	DefaultHeight     = 500
	DefaultBackground = "gray"
	captionFont       = "Helvetica"
	captionSize       = 15
)

// SVGCanvas is a headless rendering engine. It keeps primitives in z-order
// and paints an SVG frame only when a redraw is requested.
type SVGCanvas struct {
	width      float64
	height     float64
	background string

	shapes  []models.Shape
	frame   string
	redraws int
}

func New() *SVGCanvas {
	return NewSized(DefaultWidth, DefaultHeight, DefaultBackground)
}

func NewSized(width, height float64, background string) *SVGCanvas {
	c := &SVGCanvas{width: width, height: height, background: background}
	c.frame = c.paint()
	return c
}

func (c *SVGCanvas) AddShape(shape models.Shape) {
	c.shapes = append(c.shapes, shape)
}

func (c *SVGCanvas) InsertShape(index int, shape models.Shape) {
	if index < 0 {
		index = 0
	}
	if index >= len(c.shapes) {
		c.shapes = append(c.shapes, shape)
		return
	}
	c.shapes = append(c.shapes[:index+1], c.shapes[index:]...)
	c.shapes[index] = shape
}

func (c *SVGCanvas) RemoveShape(id string) {
	for i, s := range c.shapes {
		if s.ID() == id {
			c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
			return
		}
	}
}

func (c *SVGCanvas) RequestRedraw() {
	c.frame = c.paint()
	c.redraws++
}

// Frame returns the last painted SVG document.
func (c *SVGCanvas) Frame() string {
	return c.frame
}

func (c *SVGCanvas) Redraws() int {
	return c.redraws
}

// HitTest returns the id of the topmost shape containing (x, y).
func (c *SVGCanvas) HitTest(x, y float64) (string, bool) {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		if c.shapes[i].Contains(x, y) {
			return c.shapes[i].ID(), true
		}
	}
	return "", false
}

// ============================================================
// Painting
// ============================================================

func (c *SVGCanvas) paint() string {
	return Render(c.shapes, c.width, c.height, c.background)
}

// Render paints shapes in order onto a width x height SVG document.
func Render(shapes []models.Shape, width, height float64, background string) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	if background != "" {
		builder.WriteString(fmt.Sprintf(`  <rect width="100%%" height="100%%" fill="%s" />`, html.EscapeString(background)))
		builder.WriteString("\n")
	}

	for _, s := range shapes {
		builder.WriteString("  ")
		builder.WriteString(renderShape(s))
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// renderShape paints the base geometry, then the caption centred in the
// bounding box.
func renderShape(s models.Shape) string {
	g := s.Geometry()
	box := s.Bounds()
	center := box.Center()

	stroke := g.Stroke
	if stroke == "" {
		stroke = "none"
	}

	var transform string
	if g.Rotation != 0 {
		transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`,
			formatFloat(g.Rotation), formatFloat(center.X), formatFloat(center.Y))
	}

	var base string
	switch s.Kind().Primitive() {
	case models.PrimitiveEllipse:
		base = fmt.Sprintf(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" stroke="%s" stroke-width="%s"%s />`,
			formatFloat(center.X), formatFloat(center.Y), formatFloat(g.RX), formatFloat(g.RY),
			s.Fill(), html.EscapeString(stroke), formatFloat(g.StrokeWidth), transform)
	default:
		base = fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="%s"%s />`,
			formatFloat(box.X), formatFloat(box.Y), formatFloat(box.Width), formatFloat(box.Height),
			s.Fill(), html.EscapeString(stroke), formatFloat(g.StrokeWidth), transform)
	}

	text := fmt.Sprintf(`<text x="%s" y="%s" font-family="%s" font-size="%d" fill="black" text-anchor="middle" dominant-baseline="middle">%s</text>`,
		formatFloat(center.X), formatFloat(center.Y), captionFont, captionSize, html.EscapeString(s.Caption()))

	return fmt.Sprintf(`<g id="%s" data-kind="%s">%s%s</g>`, s.ID(), s.Kind(), base, text)
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
