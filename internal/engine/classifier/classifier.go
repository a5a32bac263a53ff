package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// Classifier is a pre-trained model: one label per input row.
type Classifier interface {
	Predict(X mat.Matrix) ([]int, error)
	Close() error
}

// Func adapts a plain function to the Classifier interface.
type Func func(X mat.Matrix) ([]int, error)

// Predict calls f.
func (f Func) Predict(X mat.Matrix) ([]int, error) { return f(X) }

// Close is a no-op.
func (f Func) Close() error { return nil }

// FitScore measures how often c reproduces y on X, as a percentage rounded
// to two decimals. When X is the data the model was fit on (or resampled
// from it) the score is optimistic; the returned value says so.
func FitScore(c Classifier, X mat.Matrix, y []int) (model.FitScore, error) {
	rows, _ := X.Dims()
	if rows != len(y) || rows == 0 {
		return model.FitScore{}, fmt.Errorf("classifier: fit score needs matching non-empty X and y, got %d rows and %d labels", rows, len(y))
	}
	pred, err := c.Predict(X)
	if err != nil {
		return model.FitScore{}, fmt.Errorf("classifier: fit score: %w", err)
	}
	if len(pred) != rows {
		return model.FitScore{}, fmt.Errorf("classifier: returned %d labels for %d rows", len(pred), rows)
	}

	var hits int
	for i := range pred {
		if pred[i] == y[i] {
			hits++
		}
	}
	pct := math.Round(float64(hits)/float64(rows)*100*100) / 100
	return model.FitScore{Percent: pct, Rows: rows, Note: model.FitScoreNote}, nil
}
