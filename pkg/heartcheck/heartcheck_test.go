package heartcheck

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/heartcheck/internal/engine/testdata"
)

const testModelPath = "../../Model/rf_model_normalisasi.onnx"

func skipWithoutModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testModelPath); os.IsNotExist(err) {
		t.Skip("ONNX model not available, skipping integration test")
	}
}

// ageBands labels a row by which fifth of [0, 1] its age falls in.
func ageBands(rows [][]float64) ([]int, error) {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = min(max(int(r[0]*5), 0), 4)
	}
	return out, nil
}

func newTest(t *testing.T, opts ...Option) *Heartcheck {
	t.Helper()
	opts = append([]Option{
		WithDatasetPath(testdata.WriteReference(t)),
		WithClassifier(ageBands),
	}, opts...)
	h, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

var canonicalPatient = Patient{
	Age:                  63,
	Sex:                  "male",
	ChestPain:            "Typical Angina",
	RestingBloodPressure: 145,
	Cholesterol:          233,
	FastingBloodSugar:    "True",
	RestingECG:           "Left ventricular hypertrophy",
	MaxHeartRate:         150,
	ExerciseAngina:       "No",
	STDepression:         2.3,
}

func TestPredict(t *testing.T) {
	h := newTest(t)

	p, err := h.Predict(testdata.Canonical)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Label)
	assert.Equal(t, "Heart Disease Level 3", p.Severity)

	byForm, err := h.PredictPatient(canonicalPatient)
	require.NoError(t, err)
	assert.Equal(t, p, byForm)
}

func TestPredictInvalid(t *testing.T) {
	h := newTest(t)

	_, err := h.Predict([]float64{1, 2})
	assert.True(t, IsInvalidInput(err))

	bad := canonicalPatient
	bad.RestingECG = "flat"
	_, err = h.PredictPatient(bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Left ventricular hypertrophy")
}

func TestPredictCSV(t *testing.T) {
	raw := newTest(t)
	preds, err := raw.PredictCSV(bytes.NewReader(raw.Sample()))
	require.NoError(t, err)
	require.Len(t, preds, 5)
	for _, p := range preds {
		assert.Equal(t, 4, p.Label)
	}

	scaled := newTest(t, WithScaleBeforePredict(true))
	preds, err = scaled.PredictCSV(bytes.NewReader(scaled.Sample()))
	require.NoError(t, err)
	assert.Equal(t, 3, preds[0].Label)

	_, err = scaled.PredictCSV(bytes.NewReader([]byte("age,sex\n1,2\n")))
	assert.True(t, IsInvalidInput(err))
}

func TestLevelsAndLanguage(t *testing.T) {
	levels := newTest(t).Levels()
	require.Len(t, levels, 5)
	assert.Equal(t, "Healthy", levels[0].Name)
	assert.Contains(t, levels[0].Description, "does not have heart disease")

	id := newTest(t, WithLanguage("id")).Levels()
	assert.Contains(t, id[0].Description, "tidak memiliki penyakit jantung")
}

func TestFitScore(t *testing.T) {
	s := newTest(t).FitScore()
	assert.Equal(t, "training-set fit score (not a held-out metric)", s.Note)
	assert.Equal(t, 5*testdata.MajorityRow, s.Rows)
}

func TestNewErrors(t *testing.T) {
	_, err := New(WithDatasetPath("/nonexistent/df.csv"), WithClassifier(ageBands))
	assert.ErrorIs(t, err, ErrDataLoad)

	_, err = New(WithDatasetPath(testdata.WriteReference(t)), WithModelPath("/nonexistent/model.onnx"))
	assert.ErrorIs(t, err, ErrModelLoad)

	broken := func(rows [][]float64) ([]int, error) { return nil, errors.New("boom") }
	_, err = New(WithDatasetPath(testdata.WriteReference(t)), WithClassifier(broken))
	assert.Error(t, err)

	_, err = New(WithDatasetPath(testdata.WriteReference(t)), WithClassifier(ageBands), WithLanguage("not a tag!"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "not a tag!")
}

func TestOptionsAndFeatures(t *testing.T) {
	assert.Len(t, Features(), 10)
	assert.Equal(t, []string{"Female", "Male"}, Options()["sex"])
}

func TestConcurrentPredict(t *testing.T) {
	h := newTest(t)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := h.Predict(testdata.Canonical)
			assert.NoError(t, err)
			assert.Equal(t, 3, p.Label)
		}()
	}
	wg.Wait()
}

func TestONNXModel(t *testing.T) {
	skipWithoutModel(t)

	h, err := New(WithDatasetPath(testdata.WriteReference(t)), WithModelPath(testModelPath))
	require.NoError(t, err)
	defer h.Close()

	p, err := h.Predict(testdata.Canonical)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Label, 0)
	assert.LessOrEqual(t, p.Label, 4)
}
