package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormEncode(t *testing.T) {
	f := Form{
		Age:                  63,
		Sex:                  "Male",
		ChestPain:            "Typical Angina",
		RestingBloodPressure: 145,
		Cholesterol:          233,
		FastingBloodSugar:    "True",
		RestingECG:           "Left ventricular hypertrophy",
		MaxHeartRate:         150,
		ExerciseAngina:       "No",
		STDepression:         2.3,
	}

	v, err := f.Encode()
	require.NoError(t, err)
	assert.Equal(t, Vector{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3}, v)
}

func TestEncode_CaseInsensitive(t *testing.T) {
	code, err := Encode(ChestPain, "  non-anginal pain ", ChestPainCodes)
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestEncode_Unknown(t *testing.T) {
	_, err := Encode(Sex, "Other", SexCodes)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var ie *InvalidInputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, Sex, ie.Field)
	assert.Contains(t, ie.Reason, "Female, Male")
}

func TestCodeTablesExhaustive(t *testing.T) {
	tests := []struct {
		name  string
		table map[string]int
		codes []int
	}{
		{"sex", SexCodes, []int{0, 1}},
		{"chest pain", ChestPainCodes, []int{1, 2, 3, 4}},
		{"fasting blood sugar", FastingBloodSugarCodes, []int{0, 1}},
		{"resting ecg", RestingECGCodes, []int{0, 1, 2}},
		{"exercise angina", ExerciseAnginaCodes, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, opt := range Options(tt.table) {
				got = append(got, tt.table[opt])
			}
			assert.Equal(t, tt.codes, got)
		})
	}
}

func TestVectorFromSlice(t *testing.T) {
	_, err := VectorFromSlice([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	vals := []float64{63, 1, 1, 145, 233, 1, 2, 150, 0, math.NaN()}
	_, err = VectorFromSlice(vals)
	var ie *InvalidInputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, STDepression, ie.Field)

	vals[9] = 2.3
	v, err := VectorFromSlice(vals)
	require.NoError(t, err)
	vals[0] = 0
	assert.Equal(t, 63.0, v[0], "vector must not alias the input slice")
}

func TestFeatureIndex(t *testing.T) {
	assert.Equal(t, 0, FeatureIndex("age"))
	assert.Equal(t, 9, FeatureIndex("oldpeak"))
	assert.Equal(t, -1, FeatureIndex("target"))
	assert.Len(t, FeatureNames(), FeatureCount)
}

func TestReferenceStatsOutOfRange(t *testing.T) {
	stats := ReferenceStats{Bounds: make([]Bounds, FeatureCount)}
	for i, name := range FeatureNames() {
		stats.Bounds[i] = Bounds{Feature: name, Min: 0, Max: 10}
	}
	v := Vector{5, 5, 5, 11, 5, 5, -1, 5, 5, 5}
	assert.Equal(t, []string{RestingBloodPressure, RestingECG}, stats.OutOfRange(v))
}
