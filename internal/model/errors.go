package model

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; the typed errors below wrap them.
var (
	ErrDataLoad            = errors.New("data load error")
	ErrModelLoad           = errors.New("model load error")
	ErrInsufficientSamples = errors.New("insufficient samples")
	ErrDegenerateFeature   = errors.New("degenerate feature")
	ErrInvalidInput        = errors.New("invalid input")
)

// InsufficientSamplesError reports a class too small to oversample.
type InsufficientSamplesError struct {
	Label int
	Count int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("insufficient samples: label %d has %d sample(s), need at least 2", e.Label, e.Count)
}

func (e *InsufficientSamplesError) Unwrap() error { return ErrInsufficientSamples }

// DegenerateFeatureError reports a feature whose fitted range is zero.
type DegenerateFeatureError struct {
	Feature string
	Value   float64
}

func (e *DegenerateFeatureError) Error() string {
	return fmt.Sprintf("degenerate feature: %q has constant value %v", e.Feature, e.Value)
}

func (e *DegenerateFeatureError) Unwrap() error { return ErrDegenerateFeature }

// InvalidInputError describes a rejected single or batch input.
// Row is -1 when the problem is not tied to a row.
type InvalidInputError struct {
	Field  string
	Row    int
	Reason string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Row >= 0 && e.Field != "":
		return fmt.Sprintf("invalid input: row %d, field %q: %s", e.Row, e.Field, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("invalid input: row %d: %s", e.Row, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("invalid input: field %q: %s", e.Field, e.Reason)
	default:
		return "invalid input: " + e.Reason
	}
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput builds an InvalidInputError not tied to a row.
func NewInvalidInput(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Row: -1, Reason: fmt.Sprintf(format, args...)}
}
