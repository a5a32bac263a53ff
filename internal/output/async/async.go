package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hejijunhao/heartcheck/internal/model"
	"github.com/hejijunhao/heartcheck/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("async output: closed")

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
// Default: logs a warning.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write return immediately (dropping the prediction)
// when the buffer is full, instead of blocking.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// WithLogger sets the logger for drops and drain timeouts.
func WithLogger(l *zap.Logger) Option {
	return func(a *Async) { a.log = l }
}

// Async moves prediction delivery off the request path. Write enqueues into
// a buffered channel; a background goroutine drains it to the wrapped
// output. Errors from the inner output go to errFunc, not the caller.
type Async struct {
	inner      output.Output
	ch         chan model.Prediction
	done       chan struct{}
	errFunc    func(error)
	log        *zap.Logger
	bufSize    int
	dropOnFull bool
	mu         sync.RWMutex // guards ch against send-after-close
	closed     atomic.Bool
	closeOnce  sync.Once
}

// New wraps an output.Output. The drain goroutine starts immediately.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:   inner,
		bufSize: defaultBufferSize,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.errFunc == nil {
		a.errFunc = func(err error) { a.log.Warn("async output write error", zap.Error(err)) }
	}
	a.ch = make(chan model.Prediction, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write enqueues p. By default it blocks while the buffer is full; with
// WithDropOnFull it returns nil and p is lost.
func (a *Async) Write(_ context.Context, p model.Prediction) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed.Load() {
		return ErrClosed
	}

	if a.dropOnFull {
		select {
		case a.ch <- p:
		default:
			a.log.Warn("async output buffer full, dropping prediction",
				zap.Int("row", p.Row), zap.Int("label", p.Label))
		}
		return nil
	}
	a.ch <- p
	return nil
}

// Close stops accepting writes, waits for the drain goroutine (bounded by
// a timeout), then closes the inner output. Safe to call more than once.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed.Store(true)
		close(a.ch)
		a.mu.Unlock()

		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			a.log.Warn("async output drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for p := range a.ch {
		if err := a.inner.Write(context.Background(), p); err != nil {
			a.errFunc(err)
		}
	}
}
