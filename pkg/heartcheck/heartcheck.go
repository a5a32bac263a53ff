package heartcheck

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/engine"
	"github.com/hejijunhao/heartcheck/internal/engine/classifier"
	"github.com/hejijunhao/heartcheck/internal/engine/dataset"
	"github.com/hejijunhao/heartcheck/internal/model"
)

// Errors returned by New and the Predict methods. Match with errors.Is.
var (
	ErrDataLoad            = model.ErrDataLoad
	ErrModelLoad           = model.ErrModelLoad
	ErrInsufficientSamples = model.ErrInsufficientSamples
	ErrDegenerateFeature   = model.ErrDegenerateFeature
	ErrInvalidInput        = model.ErrInvalidInput
)

// Heartcheck is a fitted inference pipeline. Safe for concurrent use.
type Heartcheck struct {
	engine *engine.Engine
}

// New loads the reference data and classifier, balances, fits the scaler
// and computes the fit score. This is the expensive step; create once.
func New(opts ...Option) (*Heartcheck, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, fmt.Errorf("heartcheck: %w", o.err)
	}

	ds, err := dataset.Load(o.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("heartcheck: %w", err)
	}

	var cls classifier.Classifier
	if o.classifier != nil {
		cls = classifier.Func(adapt(o.classifier))
	} else {
		onnx, err := classifier.LoadONNX(o.modelPath, o.libraryPath)
		if err != nil {
			return nil, fmt.Errorf("heartcheck: %w", err)
		}
		cls = onnx
	}

	eng, err := engine.New(ds, cls, nil, engine.Config{
		Seed:               o.seed,
		Neighbors:          o.neighbors,
		ScaleBeforePredict: o.scaleBeforePredict,
		Language:           o.lang,
	}, o.logger)
	if err != nil {
		cls.Close()
		return nil, fmt.Errorf("heartcheck: %w", err)
	}
	return &Heartcheck{engine: eng}, nil
}

// Predict classifies ten encoded values in canonical order (see Features).
func (h *Heartcheck) Predict(values []float64) (Prediction, error) {
	p, err := h.engine.PredictValues(values)
	if err != nil {
		return Prediction{}, err
	}
	return predictionFromModel(p), nil
}

// PredictPatient encodes the categorical fields and classifies the patient.
func (h *Heartcheck) PredictPatient(patient Patient) (Prediction, error) {
	v, err := patient.form().Encode()
	if err != nil {
		return Prediction{}, err
	}
	p, err := h.engine.PredictOne(v)
	if err != nil {
		return Prediction{}, err
	}
	return predictionFromModel(p), nil
}

// PredictCSV classifies every row of a feature table whose header equals
// Features(). Rows are scaled only with WithScaleBeforePredict(true).
func (h *Heartcheck) PredictCSV(r io.Reader) ([]Prediction, error) {
	b, err := dataset.ParseBatch(r)
	if err != nil {
		return nil, err
	}
	ps, err := h.engine.PredictBatch(b)
	if err != nil {
		return nil, err
	}
	out := make([]Prediction, len(ps))
	for i, p := range ps {
		out[i] = predictionFromModel(p)
	}
	return out, nil
}

// Sample returns a small feature table from the reference data, in the
// format PredictCSV accepts.
func (h *Heartcheck) Sample() []byte { return h.engine.Sample() }

// FitScore returns the training-set fit score computed by New.
func (h *Heartcheck) FitScore() FitScore {
	s := h.engine.FitScore()
	return FitScore{Percent: s.Percent, Rows: s.Rows, Note: s.Note}
}

// Levels returns the severity table in label order.
func (h *Heartcheck) Levels() []Level {
	tbl := h.engine.Severity()
	levels := make([]Level, 0, len(model.Labels()))
	for _, l := range model.Labels() {
		name, desc, err := tbl.Describe(l, h.engine.Language())
		if err != nil {
			continue
		}
		levels = append(levels, Level{Label: l, Name: name, Description: desc})
	}
	return levels
}

// Close releases the classifier.
func (h *Heartcheck) Close() error {
	return h.engine.Close()
}

// IsInvalidInput reports whether err is a rejected input rather than a fault.
func IsInvalidInput(err error) bool {
	return errors.Is(err, model.ErrInvalidInput)
}

func adapt(f ClassifierFunc) func(mat.Matrix) ([]int, error) {
	return func(X mat.Matrix) ([]int, error) {
		r, _ := X.Dims()
		rows := make([][]float64, r)
		for i := range rows {
			rows[i] = mat.Row(nil, i, X)
		}
		return f(rows)
	}
}
