package service

import (
	"errors"
	"fmt"
	"sync"

	"restaurant-layout/internal/layout/canvas"
	"restaurant-layout/internal/layout/codec"
	"restaurant-layout/internal/layout/models"
	"restaurant-layout/internal/layout/selection"
	"restaurant-layout/internal/layout/store"

	"go.uber.org/zap"
)

// ============================================================
// Workspace
// ============================================================

var (
	ErrNoSnapshot     = errors.New("no snapshot taken")
	ErrNothingPending = errors.New("no uploaded file to restore")
)

// Workspace is one open floor plan. Every action holds the workspace lock
// for its whole run, so events apply one at a time and in order.
type Workspace struct {
	ID string

	mu       sync.Mutex
	doc      *store.Document
	canvas   *canvas.SVGCanvas
	sel      *selection.Controller
	form     *FormState
	snapshot []byte
	pending  []byte
	log      *zap.Logger
}

// ShapeView is the read model of one shape.
type ShapeView struct {
	ID       string           `json:"id"`
	Index    int              `json:"index"`
	Kind     models.ShapeKind `json:"kind"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Width    float64          `json:"width,omitempty"`
	Height   float64          `json:"height,omitempty"`
	RX       float64          `json:"rx,omitempty"`
	RY       float64          `json:"ry,omitempty"`
	Rotation float64          `json:"rotation"`
	Label    string           `json:"label"`
	Section  string           `json:"section"`
	Occupied bool             `json:"occupied"`
	Fill     string           `json:"fill"`
	Caption  string           `json:"caption"`
}

// View is the read model of a workspace.
type View struct {
	ID       string      `json:"id"`
	Shapes   []ShapeView `json:"shapes"`
	Selected string      `json:"selected,omitempty"`
	Form     FormState   `json:"form"`
	Pending  bool        `json:"pending"`
}

func NewWorkspace(id string, log *zap.Logger) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	c := canvas.New()
	doc := store.New(c)
	form := &FormState{}
	return &Workspace{
		ID:     id,
		doc:    doc,
		canvas: c,
		sel:    selection.New(doc, form),
		form:   form,
		log:    log.With(zap.String("workspace_id", id)),
	}
}

// ============================================================
// Actions
// ============================================================

// Add places a new shape of kind from its template, optionally at at.
func (w *Workspace) Add(kind models.ShapeKind, at *models.Point) (ShapeView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	geom, attrs := models.Template(kind)
	if at != nil {
		geom.X, geom.Y = at.X, at.Y
	}

	shape, err := models.New(kind, geom, attrs)
	if err != nil {
		return ShapeView{}, err
	}
	w.doc.Add(shape)

	w.log.Info("shape added",
		zap.String("shape_id", shape.ID()),
		zap.String("kind", kind.String()),
		zap.Float64("x", geom.X),
		zap.Float64("y", geom.Y))
	return toView(shape, w.doc.IndexOf(shape.ID())), nil
}

// DeleteSelected removes the selected shape. Without a selection it does nothing.
func (w *Workspace) DeleteSelected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, ok := w.doc.Selected()
	if !ok {
		return false
	}
	removed := w.doc.Remove(id)
	w.sel.Sync()

	w.log.Info("selected shape deleted", zap.String("shape_id", id), zap.Bool("removed", removed))
	return removed
}

// ClearAll empties the plan and resets the form.
func (w *Workspace) ClearAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := w.doc.Len()
	w.doc.Clear()
	w.form.Reset()

	w.log.Info("plan cleared", zap.Int("removed", n))
}

// PointerDown hit-tests (x, y) on the canvas and feeds the result to the
// selection controller.
func (w *Workspace) PointerDown(x, y float64) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, hit := w.canvas.HitTest(x, y)
	w.sel.PointerDown(selection.PointerEvent{Target: id})

	w.log.Debug("pointer down", zap.Float64("x", x), zap.Float64("y", y), zap.String("target", id))
	return id, hit
}

// Select selects a shape by id, as if its hit target was reported.
func (w *Workspace) Select(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sel.PointerDown(selection.PointerEvent{Target: id})
	_, ok := w.sel.Current()
	return ok
}

func (w *Workspace) Deselect() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sel.Deselect()
}

// SubmitForm applies an edit to the selected shape.
func (w *Workspace) SubmitForm(sub selection.Submission) (ShapeView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, _ := w.sel.Current()
	next, err := w.sel.Submit(sub)
	if err != nil {
		return ShapeView{}, err
	}

	w.log.Info("shape updated",
		zap.String("old_shape_id", prev.ID()),
		zap.String("shape_id", next.ID()),
		zap.String("label", next.Attributes().Label),
		zap.String("section", next.Attributes().Section),
		zap.Bool("occupied", next.Attributes().Occupied))
	return toView(next, w.doc.IndexOf(next.ID())), nil
}

// Snapshot serializes the plan without keeping the blob.
func (w *Workspace) Snapshot() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return codec.Snapshot(w.doc.Shapes())
}

// KeepSnapshot makes blob the one served by LastSnapshot.
func (w *Workspace) KeepSnapshot(blob []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.snapshot = append([]byte(nil), blob...)
	w.log.Info("snapshot taken", zap.Int("shapes", w.doc.Len()), zap.Int("bytes", len(blob)))
}

// TakeSnapshot serializes the plan and keeps the blob for download.
func (w *Workspace) TakeSnapshot() ([]byte, error) {
	blob, err := w.Snapshot()
	if err != nil {
		return nil, err
	}
	w.KeepSnapshot(blob)
	return blob, nil
}

// LastSnapshot returns the blob of the most recent TakeSnapshot.
func (w *Workspace) LastSnapshot() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	out := make([]byte, len(w.snapshot))
	copy(out, w.snapshot)
	return out, nil
}

// UploadFile stages snapshot content for RestorePending. A newer upload
// replaces the staged one. Malformed content is rejected and the staged
// content is kept.
func (w *Workspace) UploadFile(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := codec.Parse(data); err != nil {
		w.log.Warn("upload rejected", zap.Error(err))
		return err
	}
	w.pending = append([]byte(nil), data...)

	w.log.Info("upload staged", zap.Int("bytes", len(data)))
	return nil
}

// HasPending reports whether uploaded content is staged.
func (w *Workspace) HasPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.pending != nil
}

// RestorePending restores the plan from the staged upload. The upload stays
// staged, so it can be restored again.
func (w *Workspace) RestorePending() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending == nil {
		return 0, ErrNothingPending
	}
	return w.restore(w.pending)
}

// LoadFile restores the plan from data in one step, leaving any staged
// upload alone. On failure the plan is left untouched.
func (w *Workspace) LoadFile(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.restore(data)
}

func (w *Workspace) restore(data []byte) (int, error) {
	shapes, err := codec.Restore(data)
	if err != nil {
		w.log.Warn("restore rejected", zap.Error(err))
		return 0, err
	}
	if err := w.doc.ReplaceAll(shapes); err != nil {
		return 0, fmt.Errorf("replace plan: %w", err)
	}
	w.form.Reset()

	w.log.Info("plan restored", zap.Int("shapes", len(shapes)))
	return len(shapes), nil
}

// ============================================================
// Queries
// ============================================================

// Render returns the last painted frame.
func (w *Workspace) Render() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.canvas.Frame()
}

func (w *Workspace) Form() FormState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return *w.form
}

func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	shapes := w.doc.Shapes()
	view := View{
		ID:      w.ID,
		Shapes:  make([]ShapeView, 0, len(shapes)),
		Form:    *w.form,
		Pending: w.pending != nil,
	}
	for i, s := range shapes {
		view.Shapes = append(view.Shapes, toView(s, i))
	}
	if id, ok := w.doc.Selected(); ok {
		view.Selected = id
	}
	return view
}

func toView(s models.Shape, index int) ShapeView {
	g := s.Geometry()
	a := s.Attributes()
	return ShapeView{
		ID:       s.ID(),
		Index:    index,
		Kind:     s.Kind(),
		X:        g.X,
		Y:        g.Y,
		Width:    g.Width,
		Height:   g.Height,
		RX:       g.RX,
		RY:       g.RY,
		Rotation: g.Rotation,
		Label:    a.Label,
		Section:  a.Section,
		Occupied: a.Occupied,
		Fill:     s.Fill(),
		Caption:  s.Caption(),
	}
}
