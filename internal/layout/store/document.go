package store

import (
	"errors"
	"fmt"

	"restaurant-layout/internal/layout/models"
)

// ============================================================
// Canvas contract
// ============================================================

// Canvas is the rendering engine a Document drives. Implementations must not
// paint between RequestRedraw calls.
type Canvas interface {
	AddShape(shape models.Shape)
	InsertShape(index int, shape models.Shape)
	RemoveShape(id string)
	RequestRedraw()
}

var ErrDuplicateID = errors.New("duplicate shape id")

// ============================================================
// Document
// ============================================================

// Document owns the ordered shape collection (insertion order is z-order)
// and the selection reference into it.
type Document struct {
	shapes   []models.Shape
	index    map[string]int
	selected string
	canvas   Canvas
}

// New creates an empty document. canvas may be nil.
func New(canvas Canvas) *Document {
	return &Document{
		index:  make(map[string]int),
		canvas: canvas,
	}
}

// Add appends shape on top of the z-order. A shape whose id is already
// present is ignored.
func (d *Document) Add(shape models.Shape) bool {
	if shape.IsZero() {
		return false
	}
	if _, ok := d.index[shape.ID()]; ok {
		return false
	}

	d.index[shape.ID()] = len(d.shapes)
	d.shapes = append(d.shapes, shape)

	if d.canvas != nil {
		d.canvas.AddShape(shape)
		d.canvas.RequestRedraw()
	}
	return true
}

// Remove deletes the shape with id. Absent ids are a no-op.
func (d *Document) Remove(id string) bool {
	pos, ok := d.index[id]
	if !ok {
		return false
	}

	d.shapes = append(d.shapes[:pos], d.shapes[pos+1:]...)
	d.reindex(pos)
	delete(d.index, id)

	if d.selected == id {
		d.selected = ""
	}

	if d.canvas != nil {
		d.canvas.RemoveShape(id)
		d.canvas.RequestRedraw()
	}
	return true
}

// Replace swaps the shape at id's position for next, keeping its z-order.
// The selection follows the replacement.
func (d *Document) Replace(id string, next models.Shape) bool {
	pos, ok := d.index[id]
	if !ok || next.IsZero() {
		return false
	}
	if other, taken := d.index[next.ID()]; taken && other != pos {
		return false
	}

	delete(d.index, id)
	d.shapes[pos] = next
	d.index[next.ID()] = pos

	if d.selected == id {
		d.selected = next.ID()
	}

	if d.canvas != nil {
		d.canvas.RemoveShape(id)
		d.canvas.InsertShape(pos, next)
		d.canvas.RequestRedraw()
	}
	return true
}

// Clear empties the document and drops the selection.
func (d *Document) Clear() {
	d.swap(nil)
}

// ReplaceAll swaps the whole collection in one step. The canvas sees every
// removal and insertion before a single redraw.
func (d *Document) ReplaceAll(shapes []models.Shape) error {
	seen := make(map[string]struct{}, len(shapes))
	for i, s := range shapes {
		if s.IsZero() {
			return fmt.Errorf("shape %d: not constructed", i)
		}
		if _, dup := seen[s.ID()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, s.ID())
		}
		seen[s.ID()] = struct{}{}
	}

	next := make([]models.Shape, len(shapes))
	copy(next, shapes)
	d.swap(next)
	return nil
}

func (d *Document) swap(next []models.Shape) {
	prev := d.shapes

	d.shapes = next
	d.index = make(map[string]int, len(next))
	for i, s := range next {
		d.index[s.ID()] = i
	}
	d.selected = ""

	if d.canvas == nil {
		return
	}
	for _, s := range prev {
		d.canvas.RemoveShape(s.ID())
	}
	for _, s := range next {
		d.canvas.AddShape(s)
	}
	d.canvas.RequestRedraw()
}

func (d *Document) reindex(from int) {
	for i := from; i < len(d.shapes); i++ {
		d.index[d.shapes[i].ID()] = i
	}
}

// ============================================================
// Queries
// ============================================================

func (d *Document) Len() int {
	return len(d.shapes)
}

// Shapes returns a copy of the collection in z-order.
func (d *Document) Shapes() []models.Shape {
	out := make([]models.Shape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

func (d *Document) Get(id string) (models.Shape, bool) {
	pos, ok := d.index[id]
	if !ok {
		return models.Shape{}, false
	}
	return d.shapes[pos], true
}

// IndexOf returns id's z-order position or -1.
func (d *Document) IndexOf(id string) int {
	if pos, ok := d.index[id]; ok {
		return pos
	}
	return -1
}

// ============================================================
// Selection reference
// ============================================================

func (d *Document) Selected() (string, bool) {
	return d.selected, d.selected != ""
}

// Select points the selection at id. Ids not in the document are refused.
func (d *Document) Select(id string) bool {
	if _, ok := d.index[id]; !ok {
		return false
	}
	d.selected = id
	return true
}

func (d *Document) Deselect() {
	d.selected = ""
}
