package output

import (
	"context"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// Output defines the interface for prediction destinations.
type Output interface {
	Write(ctx context.Context, p model.Prediction) error
	Close() error
}
