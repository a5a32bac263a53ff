// Package scaler implements min-max feature normalization.
package scaler

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// MinMax is a fitted min-max scaler. Its bounds never change after Fit, so
// a single instance can be shared by concurrent readers.
type MinMax struct {
	names []string
	min   []float64
	span  []float64 // max - min
}

// Fit computes per-column bounds of X. names labels columns in errors and
// Bounds; it may be nil. A column whose max equals its min fails with a
// DegenerateFeatureError.
func Fit(X mat.Matrix, names []string) (*MinMax, error) {
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, model.NewInvalidInput("", "scaler: empty matrix")
	}
	if names != nil && len(names) != cols {
		return nil, model.NewInvalidInput("", "scaler: %d names for %d columns", len(names), cols)
	}

	s := &MinMax{
		names: make([]string, cols),
		min:   make([]float64, cols),
		span:  make([]float64, cols),
	}
	copy(s.names, names)

	for c := range cols {
		lo, hi := X.At(0, c), X.At(0, c)
		for r := 1; r < rows; r++ {
			v := X.At(r, c)
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if hi == lo {
			return nil, &model.DegenerateFeatureError{Feature: s.name(c), Value: lo}
		}
		s.min[c] = lo
		s.span[c] = hi - lo
	}
	return s, nil
}

// Width returns the number of fitted columns.
func (s *MinMax) Width() int { return len(s.min) }

// Bounds returns a copy of the fitted (min, max) pairs.
func (s *MinMax) Bounds() []model.Bounds {
	out := make([]model.Bounds, len(s.min))
	for i := range out {
		out[i] = model.Bounds{Feature: s.name(i), Min: s.min[i], Max: s.min[i] + s.span[i]}
	}
	return out
}

// Transform scales one row. Values outside the fitted range extrapolate
// linearly; they are not clamped.
func (s *MinMax) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.min) {
		return nil, model.NewInvalidInput("", "scaler: expected %d values, got %d", len(s.min), len(row))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.min[i]) / s.span[i]
	}
	return out, nil
}

// TransformMatrix scales every row of X into a new matrix.
func (s *MinMax) TransformMatrix(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, model.NewInvalidInput("", "scaler: empty matrix")
	}
	if cols != len(s.min) {
		return nil, model.NewInvalidInput("", "scaler: expected %d columns, got %d", len(s.min), cols)
	}
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, c int, v float64) float64 {
		return (v - s.min[c]) / s.span[c]
	}, X)
	return out, nil
}

func (s *MinMax) name(c int) string {
	if s.names[c] != "" {
		return s.names[c]
	}
	return "column " + strconv.Itoa(c)
}
