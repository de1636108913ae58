// Package codec converts a floor plan document to its snapshot JSON and back.
package codec

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"restaurant-layout/internal/layout/models"

	"github.com/xeipuuv/gojsonschema"
)

// ============================================================
// Wire format
// ============================================================

//go:embed schema.json
var schemaJSON []byte

// File is the top level of a snapshot blob.
type File struct {
	Shapes []Entry `json:"shapes"`
}

// Entry is one serialized shape. Width/Height are written for rect kinds,
// RX/RY for circles.
type Entry struct {
	Kind        string   `json:"kind"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	RX          *float64 `json:"rx,omitempty"`
	RY          *float64 `json:"ry,omitempty"`
	Rotation    float64  `json:"rotation"`
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth float64  `json:"strokeWidth,omitempty"`
	Label       string   `json:"label"`
	Section     string   `json:"section"`
	Occupied    bool     `json:"occupied"`
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return schema, schemaErr
}

// ============================================================
// Snapshot
// ============================================================

// Snapshot serializes shapes in z-order.
func Snapshot(shapes []models.Shape) ([]byte, error) {
	file := File{Shapes: make([]Entry, 0, len(shapes))}
	for _, s := range shapes {
		file.Shapes = append(file.Shapes, encodeShape(s))
	}

	data, err := json.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func encodeShape(s models.Shape) Entry {
	g := s.Geometry()
	a := s.Attributes()
	e := Entry{
		Kind:        s.Kind().String(),
		X:           g.X,
		Y:           g.Y,
		Rotation:    g.Rotation,
		Stroke:      g.Stroke,
		StrokeWidth: g.StrokeWidth,
		Label:       a.Label,
		Section:     a.Section,
		Occupied:    a.Occupied,
	}

	switch s.Kind().Primitive() {
	case models.PrimitiveEllipse:
		e.RX, e.RY = float64Ptr(g.RX), float64Ptr(g.RY)
	default:
		e.Width, e.Height = float64Ptr(g.Width), float64Ptr(g.Height)
	}
	return e
}

// ============================================================
// Restore
// ============================================================

// Restore rebuilds the shapes of a snapshot blob. Either every entry is
// reconstructed or an error is returned; there is no partial result.
func Restore(blob []byte) ([]models.Shape, error) {
	file, err := Parse(blob)
	if err != nil {
		return nil, err
	}

	shapes := make([]models.Shape, 0, len(file.Shapes))
	for i, e := range file.Shapes {
		s, err := decodeEntry(e)
		if err != nil {
			return nil, &UnknownKindError{Index: i, Kind: e.Kind}
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// Parse checks that blob is well-formed and shaped like a snapshot and
// decodes it without resolving kinds.
func Parse(blob []byte) (*File, error) {
	if !json.Valid(blob) {
		return nil, &ParseError{Reason: "not well-formed JSON"}
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("load snapshot schema: %w", err)
	}

	result, err := sch.Validate(gojsonschema.NewBytesLoader(blob))
	if err != nil {
		return nil, &ParseError{Reason: "cannot read document", Cause: err}
	}
	if !result.Valid() {
		pe := &ParseError{Reason: "not a snapshot document"}
		for _, re := range result.Errors() {
			pe.Fields = append(pe.Fields, FieldError{Field: re.Field(), Message: re.Description()})
		}
		return nil, pe
	}

	var file File
	if err := json.Unmarshal(blob, &file); err != nil {
		return nil, &ParseError{Reason: "decode", Cause: err}
	}
	return &file, nil
}

func decodeEntry(e Entry) (models.Shape, error) {
	kind, err := models.ParseKind(e.Kind)
	if err != nil {
		return models.Shape{}, err
	}

	geom := models.Geometry{
		X:           e.X,
		Y:           e.Y,
		Width:       deref(e.Width),
		Height:      deref(e.Height),
		RX:          deref(e.RX),
		RY:          deref(e.RY),
		Rotation:    e.Rotation,
		Stroke:      e.Stroke,
		StrokeWidth: e.StrokeWidth,
	}
	attrs := models.Attributes{
		Label:    e.Label,
		Section:  e.Section,
		Occupied: e.Occupied,
	}
	return models.New(kind, geom, attrs)
}

func float64Ptr(v float64) *float64 {
	return &v
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
