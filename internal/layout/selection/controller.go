package selection

import (
	"errors"

	"restaurant-layout/internal/layout/models"
	"restaurant-layout/internal/layout/store"
)

// ============================================================
// Selection Controller
// ============================================================

var ErrNothingSelected = errors.New("no shape selected")

// Form is the external edit form mirrored from the selection.
type Form interface {
	Populate(attrs models.Attributes)
	Reset()
}

// PointerEvent is a pointer-down reported by the canvas. Target is the hit
// shape id, empty when nothing was hit.
type PointerEvent struct {
	Target string
}

// Submission is a validated form payload. Empty strings and a nil Occupied
// keep the current value.
type Submission struct {
	Label    string
	Section  string
	Occupied *bool
}

type Controller struct {
	doc  *store.Document
	form Form
}

// New binds a controller to doc. form may be nil.
func New(doc *store.Document, form Form) *Controller {
	return &Controller{doc: doc, form: form}
}

// PointerDown selects the hit shape or deselects on an empty hit.
func (c *Controller) PointerDown(ev PointerEvent) {
	if ev.Target == "" {
		c.Deselect()
		return
	}
	if current, ok := c.doc.Selected(); ok && current == ev.Target {
		return
	}
	if !c.doc.Select(ev.Target) {
		c.Deselect()
		return
	}
	c.populate()
}

func (c *Controller) Deselect() {
	c.doc.Deselect()
	if c.form != nil {
		c.form.Reset()
	}
}

// Current returns the selected shape.
func (c *Controller) Current() (models.Shape, bool) {
	id, ok := c.doc.Selected()
	if !ok {
		return models.Shape{}, false
	}
	return c.doc.Get(id)
}

// Submit merges sub onto the selected shape and swaps in the rebuilt
// instance at the same position.
func (c *Controller) Submit(sub Submission) (models.Shape, error) {
	current, ok := c.Current()
	if !ok {
		return models.Shape{}, ErrNothingSelected
	}

	attrs := Merge(current.Attributes(), sub)
	next := models.Rebuild(current, attrs)
	if !c.doc.Replace(current.ID(), next) {
		return models.Shape{}, ErrNothingSelected
	}

	c.populate()
	return next, nil
}

// Merge applies a submission to attrs.
func Merge(attrs models.Attributes, sub Submission) models.Attributes {
	if sub.Label != "" {
		attrs = attrs.WithLabel(sub.Label)
	}
	if sub.Section != "" {
		attrs = attrs.WithSection(sub.Section)
	}
	if sub.Occupied != nil {
		attrs = attrs.WithOccupied(*sub.Occupied)
	}
	return attrs
}

// Sync re-mirrors the form after a store operation that may have dropped
// the selection.
func (c *Controller) Sync() {
	if _, ok := c.Current(); ok {
		c.populate()
		return
	}
	if c.form != nil {
		c.form.Reset()
	}
}

func (c *Controller) populate() {
	if c.form == nil {
		return
	}
	if s, ok := c.Current(); ok {
		c.form.Populate(s.Attributes())
	}
}
