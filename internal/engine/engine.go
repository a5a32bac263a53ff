package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/engine/balance"
	"github.com/hejijunhao/heartcheck/internal/engine/classifier"
	"github.com/hejijunhao/heartcheck/internal/engine/dataset"
	"github.com/hejijunhao/heartcheck/internal/engine/scaler"
	"github.com/hejijunhao/heartcheck/internal/engine/severity"
	"github.com/hejijunhao/heartcheck/internal/logging"
	"github.com/hejijunhao/heartcheck/internal/metrics"
	"github.com/hejijunhao/heartcheck/internal/model"
)

// Config controls preprocessing.
type Config struct {
	Seed      uint64
	Neighbors int
	// ScaleBeforePredict applies the fitted scaler to batch tables before
	// classification. Single predictions are always scaled. Off by default,
	// which sends batch rows to the classifier unscaled.
	ScaleBeforePredict bool
	Language           language.Tag
	SampleRows         int // rows in the downloadable sample (default 5)
}

// Engine orchestrates the load → balance → scale → classify pipeline.
// All state is fixed at construction; methods only read it and are safe for
// concurrent use when the classifier is.
type Engine struct {
	stats      model.ReferenceStats
	sample     []byte
	scaler     *scaler.MinMax
	classifier classifier.Classifier
	severity   *severity.Table
	fitScore   model.FitScore
	balanced   int
	cfg        Config
	log        *zap.Logger
}

// New balances the reference data, fits the scaler on the balanced features
// and scores the classifier on them.
func New(ds *dataset.Dataset, cls classifier.Classifier, tbl *severity.Table, cfg Config, log *zap.Logger) (*Engine, error) {
	log = logging.OrNop(log)
	if tbl == nil {
		tbl = severity.Default()
	}
	if cfg.Language == language.Und {
		cfg.Language = language.English
	}

	X, y := ds.Matrix()
	smote := balance.Config{Neighbors: cfg.Neighbors, Seed: cfg.Seed, Labels: model.Labels()}
	Xb, yb, err := balance.New(smote).Resample(X, y)
	if err != nil {
		return nil, fmt.Errorf("engine: balance: %w", err)
	}

	sc, err := scaler.Fit(Xb, model.FeatureNames())
	if err != nil {
		return nil, fmt.Errorf("engine: scaler: %w", err)
	}
	Xs, err := sc.TransformMatrix(Xb)
	if err != nil {
		return nil, fmt.Errorf("engine: scaler: %w", err)
	}

	score, err := classifier.FitScore(cls, Xs, yb)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	metrics.FitScore.Set(score.Percent)

	if cfg.SampleRows <= 0 {
		cfg.SampleRows = dataset.DefaultSampleRows
	}
	sample, err := ds.Sample(cfg.SampleRows)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	log.Info("inference pipeline ready",
		zap.Int("reference_rows", ds.Len()),
		zap.Int("balanced_rows", len(yb)),
		zap.Stringer("balance", smote),
		zap.Float64("fit_score_percent", score.Percent),
		zap.String("fit_score_note", score.Note),
		zap.Bool("scale_before_predict", cfg.ScaleBeforePredict),
	)
	if !cfg.ScaleBeforePredict {
		log.Warn("batch predictions bypass the fitted scaler; set scale_before_predict to scale them like single predictions")
	}

	return &Engine{
		stats:      ds.Stats(),
		sample:     sample,
		scaler:     sc,
		classifier: cls,
		severity:   tbl,
		fitScore:   score,
		balanced:   len(yb),
		cfg:        cfg,
		log:        log,
	}, nil
}

// PredictOption adjusts a single Predict call.
type PredictOption func(*predictOptions)

type predictOptions struct {
	lang language.Tag
}

// InLanguage selects the description language.
func InLanguage(tag language.Tag) PredictOption {
	return func(o *predictOptions) { o.lang = tag }
}

func (e *Engine) options(opts []PredictOption) predictOptions {
	o := predictOptions{lang: e.cfg.Language}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PredictValues validates a raw slice and predicts it.
func (e *Engine) PredictValues(values []float64, opts ...PredictOption) (model.Prediction, error) {
	v, err := model.VectorFromSlice(values)
	if err != nil {
		metrics.RecordError("single", err)
		return model.Prediction{}, err
	}
	return e.PredictOne(v, opts...)
}

// PredictOne scales v with the fitted scaler and classifies it.
func (e *Engine) PredictOne(v model.Vector, opts ...PredictOption) (model.Prediction, error) {
	start := time.Now()
	p, err := e.predictOne(v, e.options(opts))
	if err != nil {
		metrics.RecordError("single", err)
		return model.Prediction{}, err
	}
	metrics.RecordPredictions("single", []int{p.Label}, time.Since(start))
	return p, nil
}

func (e *Engine) predictOne(v model.Vector, o predictOptions) (model.Prediction, error) {
	if err := model.CheckFinite(v); err != nil {
		return model.Prediction{}, err
	}
	scaled, err := e.scaler.Transform(v[:])
	if err != nil {
		return model.Prediction{}, err
	}

	labels, err := e.classifier.Predict(mat.NewDense(1, model.FeatureCount, scaled))
	if err != nil {
		return model.Prediction{}, fmt.Errorf("engine: classify: %w", err)
	}
	if len(labels) != 1 {
		return model.Prediction{}, fmt.Errorf("engine: classifier returned %d labels for 1 row", len(labels))
	}

	p, err := e.describe(0, labels[0], v, o)
	if err != nil {
		return model.Prediction{}, err
	}
	if len(p.OutOfRange) > 0 {
		e.log.Warn("input outside reference range; scaler extrapolates",
			zap.Strings("features", p.OutOfRange))
	}
	e.log.Debug("single prediction", zap.Int("label", p.Label), zap.Float64s("scaled", scaled))
	return p, nil
}

// PredictBatch classifies every row of b, in order. The columns must match
// the canonical feature schema exactly. Rows are scaled only when
// ScaleBeforePredict is set.
func (e *Engine) PredictBatch(b *model.Batch, opts ...PredictOption) ([]model.Prediction, error) {
	start := time.Now()
	preds, err := e.predictBatch(b, e.options(opts))
	if err != nil {
		metrics.RecordError("batch", err)
		return nil, err
	}
	labels := make([]int, len(preds))
	for i, p := range preds {
		labels[i] = p.Label
	}
	metrics.RecordPredictions("batch", labels, time.Since(start))
	return preds, nil
}

func (e *Engine) predictBatch(b *model.Batch, o predictOptions) ([]model.Prediction, error) {
	if b == nil || len(b.Rows) == 0 {
		return nil, model.NewInvalidInput("", "batch has no rows")
	}
	if !slices.Equal(b.Columns, model.FeatureNames()) {
		return nil, model.NewInvalidInput("", "batch columns %v do not match %v", b.Columns, model.FeatureNames())
	}

	X := mat.NewDense(len(b.Rows), model.FeatureCount, nil)
	for i, row := range b.Rows {
		if err := model.CheckFinite(row); err != nil {
			var ie *model.InvalidInputError
			if errors.As(err, &ie) {
				ie.Row = i
			}
			return nil, err
		}
		X.SetRow(i, row[:])
	}

	input := mat.Matrix(X)
	if e.cfg.ScaleBeforePredict {
		scaled, err := e.scaler.TransformMatrix(X)
		if err != nil {
			return nil, err
		}
		input = scaled
	}

	labels, err := e.classifier.Predict(input)
	if err != nil {
		return nil, fmt.Errorf("engine: classify batch: %w", err)
	}
	if len(labels) != len(b.Rows) {
		return nil, fmt.Errorf("engine: classifier returned %d labels for %d rows", len(labels), len(b.Rows))
	}

	preds := make([]model.Prediction, len(labels))
	for i, l := range labels {
		p, err := e.describe(i, l, b.Rows[i], o)
		if err != nil {
			return nil, err
		}
		preds[i] = p
	}
	e.log.Debug("batch prediction", zap.Int("rows", len(preds)), zap.Bool("scaled", e.cfg.ScaleBeforePredict))
	return preds, nil
}

func (e *Engine) describe(row, label int, v model.Vector, o predictOptions) (model.Prediction, error) {
	if !model.ValidLabel(label) {
		return model.Prediction{}, fmt.Errorf("engine: classifier returned label %d outside 0..4", label)
	}
	name, desc, err := e.severity.Describe(label, o.lang)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("engine: %w", err)
	}
	return model.Prediction{
		Row:         row,
		Label:       label,
		Severity:    name,
		Description: desc,
		OutOfRange:  e.stats.OutOfRange(v),
	}, nil
}

// Stats returns the read-only reference statistics.
func (e *Engine) Stats() model.ReferenceStats {
	s := e.stats
	s.Bounds = slices.Clone(e.stats.Bounds)
	s.LabelCounts = make(map[int]int, len(e.stats.LabelCounts))
	for k, v := range e.stats.LabelCounts {
		s.LabelCounts[k] = v
	}
	return s
}

// ScalerBounds returns the fitted scaler's (min, max) pairs.
func (e *Engine) ScalerBounds() []model.Bounds { return e.scaler.Bounds() }

// FitScore returns the training-set fit score computed at startup.
func (e *Engine) FitScore() model.FitScore { return e.fitScore }

// BalancedRows returns the row count after oversampling.
func (e *Engine) BalancedRows() int { return e.balanced }

// ScaleBeforePredict reports whether batch rows are scaled.
func (e *Engine) ScaleBeforePredict() bool { return e.cfg.ScaleBeforePredict }

// Sample returns the downloadable sample CSV.
func (e *Engine) Sample() []byte { return slices.Clone(e.sample) }

// Language returns the default description language.
func (e *Engine) Language() language.Tag { return e.cfg.Language }

// Severity returns the label table.
func (e *Engine) Severity() *severity.Table { return e.severity }

// Close releases the classifier.
func (e *Engine) Close() error {
	return e.classifier.Close()
}
