package scaler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/model"
)

func sample() *mat.Dense {
	return mat.NewDense(4, 3, []float64{
		1, 10, -5,
		2, 20, 0,
		3, 30, 5,
		5, 40, 15,
	})
}

func TestFit_Bounds(t *testing.T) {
	s, err := Fit(sample(), []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Width())
	assert.Equal(t, []model.Bounds{
		{Feature: "a", Min: 1, Max: 5},
		{Feature: "b", Min: 10, Max: 40},
		{Feature: "c", Min: -5, Max: 15},
	}, s.Bounds())
}

func TestFit_Deterministic(t *testing.T) {
	a, err := Fit(sample(), nil)
	require.NoError(t, err)
	b, err := Fit(sample(), nil)
	require.NoError(t, err)
	assert.Equal(t, a.Bounds(), b.Bounds())
}

func TestTransform_Endpoints(t *testing.T) {
	s, err := Fit(sample(), nil)
	require.NoError(t, err)

	lo, err := s.Transform([]float64{1, 10, -5})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, lo)

	hi, err := s.Transform([]float64{5, 40, 15})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, hi)
}

func TestTransform_ExtrapolatesOutOfRange(t *testing.T) {
	s, err := Fit(sample(), nil)
	require.NoError(t, err)

	out, err := s.Transform([]float64{9, 0, 25})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out[0], 1e-12)
	assert.InDelta(t, -1.0/3.0, out[1], 1e-12)
	assert.InDelta(t, 1.5, out[2], 1e-12)
}

func TestTransform_Monotonic(t *testing.T) {
	s, err := Fit(sample(), nil)
	require.NoError(t, err)

	prev := math.Inf(-1)
	for v := -10.0; v <= 60; v += 0.5 {
		out, err := s.Transform([]float64{v, v, v})
		require.NoError(t, err)
		for _, x := range out {
			assert.False(t, math.IsNaN(x))
		}
		assert.GreaterOrEqual(t, out[1], prev)
		prev = out[1]
	}
}

func TestTransform_WidthMismatch(t *testing.T) {
	s, err := Fit(sample(), nil)
	require.NoError(t, err)

	_, err = s.Transform([]float64{1, 2})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = s.TransformMatrix(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestTransformMatrix_MatchesRows(t *testing.T) {
	X := sample()
	s, err := Fit(X, nil)
	require.NoError(t, err)

	out, err := s.TransformMatrix(X)
	require.NoError(t, err)

	r, _ := X.Dims()
	for i := range r {
		row, err := s.Transform(mat.Row(nil, i, X))
		require.NoError(t, err)
		assert.Equal(t, row, mat.Row(nil, i, out))
	}
	// Input untouched.
	assert.True(t, mat.Equal(sample(), X))
}

func TestFit_Degenerate(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
	})
	_, err := Fit(X, []string{"age", "fbs"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDegenerateFeature)

	var de *model.DegenerateFeatureError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "fbs", de.Feature)
	assert.Equal(t, 7.0, de.Value)
}

func TestFit_UnnamedDegenerateColumn(t *testing.T) {
	_, err := Fit(mat.NewDense(2, 1, []float64{4, 4}), nil)
	var de *model.DegenerateFeatureError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "column 0", de.Feature)
}

func TestFit_NameCountMismatch(t *testing.T) {
	_, err := Fit(sample(), []string{"a"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
