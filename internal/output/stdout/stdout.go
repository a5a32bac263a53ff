package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hejijunhao/heartcheck/internal/model"
	"github.com/hejijunhao/heartcheck/internal/output"
)

// Output writes predictions to stdout as NDJSON or CSV.
type Output struct {
	mu  sync.Mutex
	enc *output.Encoder
}

// New creates a new stdout Output.
func New(format output.Format, verbosity output.Verbosity, pretty bool) *Output {
	return NewWriter(os.Stdout, format, verbosity, pretty)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, format output.Format, verbosity output.Verbosity, pretty bool) *Output {
	return &Output{enc: output.NewEncoder(w, format, verbosity, pretty)}
}

func (o *Output) Write(_ context.Context, p model.Prediction) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(p); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
