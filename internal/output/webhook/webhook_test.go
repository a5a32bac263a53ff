package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hejijunhao/heartcheck/internal/model"
	"github.com/hejijunhao/heartcheck/internal/output"
)

func testPrediction(row int) model.Prediction {
	return model.Prediction{
		Row:         row,
		Label:       2,
		Severity:    "Heart Disease Level 2",
		Description: "Indicates moderate heart disease.",
	}
}

func TestBatchFlushAtBatchSize(t *testing.T) {
	var mu sync.Mutex
	var received [][]model.Prediction

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []model.Prediction
		json.Unmarshal(body, &batch)
		mu.Lock()
		received = append(received, batch)
		mu.Unlock()
		w.WriteHeader(200)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBatchSize(3), WithFlushInterval(10*time.Second))

	for i := 0; i < 3; i++ {
		out.Write(context.Background(), testPrediction(i))
	}

	// Give the POST a moment to complete.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(received))
	}
	if len(received[0]) != 3 {
		t.Errorf("batch size = %d, want 3", len(received[0]))
	}
}

func TestTimerFlushBeforeBatchSize(t *testing.T) {
	var mu sync.Mutex
	var received [][]model.Prediction

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []model.Prediction
		json.Unmarshal(body, &batch)
		mu.Lock()
		received = append(received, batch)
		mu.Unlock()
		w.WriteHeader(200)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBatchSize(100), WithFlushInterval(100*time.Millisecond))

	out.Write(context.Background(), testPrediction(1))

	// Wait for the timer to fire.
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected 1 timer-triggered batch, got %d", len(received))
	}
	if len(received[0]) != 1 {
		t.Errorf("batch size = %d, want 1", len(received[0]))
	}
}

func TestRetryOn5xx(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(500)
			return
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBatchSize(1), WithBackoff(10*time.Millisecond))
	out.Write(context.Background(), testPrediction(2))

	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestNoRetryOn4xx(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(400)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBatchSize(1))
	err := out.Write(context.Background(), testPrediction(3))

	time.Sleep(200 * time.Millisecond)

	if err == nil {
		t.Error("expected error for 400 response")
	}
	if attempts.Load() != 1 {
		t.Errorf("expected exactly 1 attempt for 4xx, got %d", attempts.Load())
	}
}

func TestCustomHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Custom-Auth")
		w.WriteHeader(200)
	}))
	defer srv.Close()

	out := New(srv.URL,
		WithBatchSize(1),
		WithHeaders(map[string]string{"X-Custom-Auth": "secret123"}),
	)

	out.Write(context.Background(), testPrediction(4))
	time.Sleep(100 * time.Millisecond)

	if gotAuth != "secret123" {
		t.Errorf("custom header = %q, want secret123", gotAuth)
	}
}

func TestTimerFlushErrorCallbackInvoked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
	}))
	defer srv.Close()

	var errCount atomic.Int64
	out := New(srv.URL,
		WithBatchSize(100),
		WithFlushInterval(50*time.Millisecond),
		WithOnError(func(err error) { errCount.Add(1) }),
	)

	out.Write(context.Background(), testPrediction(5))

	// Wait for timer-triggered flush + HTTP round-trip.
	time.Sleep(300 * time.Millisecond)

	if errCount.Load() != 1 {
		t.Errorf("expected error callback called 1 time, got %d", errCount.Load())
	}

	out.Close()
}

func TestCloseFlushesRemaining(t *testing.T) {
	var mu sync.Mutex
	var received [][]model.Prediction

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []model.Prediction
		json.Unmarshal(body, &batch)
		mu.Lock()
		received = append(received, batch)
		mu.Unlock()
		w.WriteHeader(200)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBatchSize(100), WithFlushInterval(10*time.Second))

	out.Write(context.Background(), testPrediction(6))
	out.Write(context.Background(), testPrediction(7))

	out.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected 1 batch on Close, got %d", len(received))
	}
	if len(received[0]) != 2 {
		t.Errorf("batch size = %d, want 2", len(received[0]))
	}
}

func TestMinimalVerbosityStripsDescription(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBatchSize(1), WithVerbosity(output.Minimal))
	if err := out.Write(context.Background(), testPrediction(8)); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if strings.Contains(string(body), "description") {
		t.Errorf("minimal payload carries description: %s", body)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(503)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := New(srv.URL, WithBatchSize(1), WithBackoff(time.Hour))
	time.AfterFunc(50*time.Millisecond, cancel)

	err := out.Write(ctx, testPrediction(9))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt before cancel, got %d", attempts.Load())
	}
}
