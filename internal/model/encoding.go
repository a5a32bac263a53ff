package model

import (
	"math"
	"sort"
	"strings"
)

// Categorical code tables for the form fields.
var (
	SexCodes = map[string]int{
		"Male":   1,
		"Female": 0,
	}
	ChestPainCodes = map[string]int{
		"Typical Angina":   1,
		"Atypical Angina":  2,
		"Non-anginal Pain": 3,
		"Asymptomatic":     4,
	}
	FastingBloodSugarCodes = map[string]int{
		"True":  1,
		"False": 0,
	}
	RestingECGCodes = map[string]int{
		"Normal":                       0,
		"ST-T wave abnormality":        1,
		"Left ventricular hypertrophy": 2,
	}
	ExerciseAnginaCodes = map[string]int{
		"Yes": 1,
		"No":  0,
	}
)

// Form is the human-facing representation of one patient.
type Form struct {
	Age                  float64 `json:"age"`
	Sex                  string  `json:"sex"`
	ChestPain            string  `json:"chest_pain"`
	RestingBloodPressure float64 `json:"resting_blood_pressure"`
	Cholesterol          float64 `json:"cholesterol"`
	FastingBloodSugar    string  `json:"fasting_blood_sugar"`
	RestingECG           string  `json:"resting_ecg"`
	MaxHeartRate         float64 `json:"max_heart_rate"`
	ExerciseAngina       string  `json:"exercise_angina"`
	STDepression         float64 `json:"st_depression"`
}

// Encode maps the form onto a canonical Vector.
func (f Form) Encode() (Vector, error) {
	var v Vector
	cats := []struct {
		idx   int
		value string
		table map[string]int
	}{
		{1, f.Sex, SexCodes},
		{2, f.ChestPain, ChestPainCodes},
		{5, f.FastingBloodSugar, FastingBloodSugarCodes},
		{6, f.RestingECG, RestingECGCodes},
		{8, f.ExerciseAngina, ExerciseAnginaCodes},
	}
	for _, c := range cats {
		code, err := Encode(featureNames[c.idx], c.value, c.table)
		if err != nil {
			return Vector{}, err
		}
		v[c.idx] = float64(code)
	}
	v[0] = f.Age
	v[3] = f.RestingBloodPressure
	v[4] = f.Cholesterol
	v[7] = f.MaxHeartRate
	v[9] = f.STDepression
	if err := CheckFinite(v); err != nil {
		return Vector{}, err
	}
	return v, nil
}

// Encode looks value up in table, case-insensitively on trimmed input.
func Encode(field, value string, table map[string]int) (int, error) {
	want := strings.TrimSpace(value)
	for k, code := range table {
		if strings.EqualFold(k, want) {
			return code, nil
		}
	}
	return 0, NewInvalidInput(field, "unknown option %q (allowed: %s)", value, strings.Join(Options(table), ", "))
}

// Options returns the keys of a code table ordered by code.
func Options(table map[string]int) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return table[keys[i]] < table[keys[j]] })
	return keys
}

// CheckFinite rejects NaN and infinite feature values.
func CheckFinite(v Vector) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return NewInvalidInput(featureNames[i], "value must be finite, got %v", x)
		}
	}
	return nil
}

// VectorFromSlice validates width and finiteness and copies values into a Vector.
func VectorFromSlice(values []float64) (Vector, error) {
	var v Vector
	if len(values) != FeatureCount {
		return v, NewInvalidInput("", "expected %d features, got %d", FeatureCount, len(values))
	}
	copy(v[:], values)
	if err := CheckFinite(v); err != nil {
		return Vector{}, err
	}
	return v, nil
}
