package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/heartcheck/internal/model"
)

func TestRecordPredictions(t *testing.T) {
	before := testutil.ToFloat64(Predictions.WithLabelValues("batch", "2"))

	RecordPredictions("batch", []int{2, 2, 0}, 3*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(Predictions.WithLabelValues("batch", "2")))
}

func TestRecordError(t *testing.T) {
	invalid := testutil.ToFloat64(PredictionErrors.WithLabelValues("single", "invalid_input"))
	internal := testutil.ToFloat64(PredictionErrors.WithLabelValues("single", "internal"))

	RecordError("single", model.NewInvalidInput("age", "bad"))
	RecordError("single", errors.New("boom"))

	assert.Equal(t, invalid+1, testutil.ToFloat64(PredictionErrors.WithLabelValues("single", "invalid_input")))
	assert.Equal(t, internal+1, testutil.ToFloat64(PredictionErrors.WithLabelValues("single", "internal")))
}

func TestHandler(t *testing.T) {
	FitScore.Set(97.5)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "heartcheck_training_fit_score_percent 97.5")
}

func TestRegistryInstruments(t *testing.T) {
	RecordPredictions("batch", []int{1}, time.Millisecond)
	RecordError("batch", errors.New("boom"))

	families, err := Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Subset(t, names, []string{
		"heartcheck_predictions_total",
		"heartcheck_prediction_errors_total",
		"heartcheck_prediction_latency_seconds",
		"heartcheck_batch_rows",
		"heartcheck_training_fit_score_percent",
	})
}
