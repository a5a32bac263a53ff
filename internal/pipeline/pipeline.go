package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/hejijunhao/heartcheck/internal/engine"
	"github.com/hejijunhao/heartcheck/internal/engine/dataset"
	"github.com/hejijunhao/heartcheck/internal/logging"
	"github.com/hejijunhao/heartcheck/internal/metrics"
	"github.com/hejijunhao/heartcheck/internal/model"
	"github.com/hejijunhao/heartcheck/internal/output"
)

// Predictor is the part of the engine a pipeline drives.
type Predictor interface {
	PredictOne(v model.Vector, opts ...engine.PredictOption) (model.Prediction, error)
	PredictBatch(b *model.Batch, opts ...engine.PredictOption) ([]model.Prediction, error)
}

// Pipeline connects input parsing, a predictor and an output.
type Pipeline struct {
	predictor Predictor
	output    output.Output
	log       *zap.Logger
}

// New creates a Pipeline from the given components.
func New(pred Predictor, out output.Output, log *zap.Logger) *Pipeline {
	return &Pipeline{
		predictor: pred,
		output:    out,
		log:       logging.OrNop(log),
	}
}

// One predicts a single patient and writes the result.
func (p *Pipeline) One(ctx context.Context, v model.Vector, opts ...engine.PredictOption) (model.Prediction, error) {
	pred, err := p.predictor.PredictOne(v, opts...)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("pipeline predict: %w", err)
	}
	if err := p.output.Write(ctx, pred); err != nil {
		return model.Prediction{}, fmt.Errorf("pipeline output: %w", err)
	}
	return pred, nil
}

// Batch parses a feature table from r, predicts every row and writes the
// results in row order. Nothing is written when parsing or prediction fails.
func (p *Pipeline) Batch(ctx context.Context, r io.Reader, opts ...engine.PredictOption) ([]model.Prediction, error) {
	b, err := dataset.ParseBatch(r)
	if err != nil {
		metrics.RecordError("batch", err)
		return nil, fmt.Errorf("pipeline parse: %w", err)
	}

	start := time.Now()
	preds, err := p.predictor.PredictBatch(b, opts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline predict: %w", err)
	}

	for _, pred := range preds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.output.Write(ctx, pred); err != nil {
			return nil, fmt.Errorf("pipeline output: %w", err)
		}
	}
	p.log.Info("batch processed",
		zap.Int("rows", len(preds)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return preds, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
