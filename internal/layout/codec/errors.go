package codec

import (
	"errors"
	"fmt"
	"strings"

	"restaurant-layout/internal/layout/models"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("malformed snapshot")

// FieldError is a single structural problem at a JSON path.
type FieldError struct {
	Field   string
	Message string
}

// ParseError reports a blob that is not well-formed JSON or not shaped like a
// snapshot document.
type ParseError struct {
	Reason string
	Fields []FieldError
	Cause  error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("parse snapshot: ")
	sb.WriteString(e.Reason)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf("; %s: %s", f.Field, f.Message))
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// UnknownKindError reports an entry whose kind tag is outside the closed set.
type UnknownKindError struct {
	Index int
	Kind  string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("shape %d: unknown kind %q", e.Index, e.Kind)
}

func (e *UnknownKindError) Is(target error) bool {
	return target == models.ErrUnknownKind
}
