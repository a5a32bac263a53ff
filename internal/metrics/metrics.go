// Package metrics exposes Prometheus instruments for the prediction paths.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hejijunhao/heartcheck/internal/model"
)

var (
	// Predictions counts served predictions by mode and label.
	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heartcheck_predictions_total",
			Help: "Total number of predictions served",
		},
		[]string{"mode", "label"}, // mode: single|batch
	)

	// PredictionErrors counts rejected or failed requests by mode and error kind.
	PredictionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heartcheck_prediction_errors_total",
			Help: "Total number of rejected or failed prediction requests",
		},
		[]string{"mode", "kind"}, // kind: invalid_input|internal
	)

	// PredictionLatency observes request latency by mode.
	PredictionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heartcheck_prediction_latency_seconds",
			Help:    "Prediction request latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"mode"},
	)

	// BatchRows observes the row count of each accepted batch.
	BatchRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heartcheck_batch_rows",
			Help:    "Rows per accepted batch upload",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// FitScore holds the training-set fit score set at startup.
	FitScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "heartcheck_training_fit_score_percent",
			Help: "Classifier accuracy on the balanced reference data (not a held-out metric)",
		},
	)
)

// Registry holds every heartcheck instrument.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(Predictions, PredictionErrors, PredictionLatency, BatchRows, FitScore)
}

// Handler returns the Prometheus HTTP handler for Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordPredictions counts served labels for one request.
func RecordPredictions(mode string, labels []int, latency time.Duration) {
	for _, l := range labels {
		Predictions.WithLabelValues(mode, strconv.Itoa(l)).Inc()
	}
	PredictionLatency.WithLabelValues(mode).Observe(latency.Seconds())
	if mode == "batch" {
		BatchRows.Observe(float64(len(labels)))
	}
}

// RecordError counts a failed request, classified by error kind.
func RecordError(mode string, err error) {
	kind := "internal"
	if errors.Is(err, model.ErrInvalidInput) {
		kind = "invalid_input"
	}
	PredictionErrors.WithLabelValues(mode, kind).Inc()
}
