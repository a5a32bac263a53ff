// Package server exposes the inference engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hejijunhao/heartcheck/internal/engine"
	"github.com/hejijunhao/heartcheck/internal/logging"
	"github.com/hejijunhao/heartcheck/internal/metrics"
	"github.com/hejijunhao/heartcheck/internal/output"
)

const (
	defaultMaxUploadBytes = 10 << 20
	shutdownTimeout       = 10 * time.Second
	requestIDHeader       = "X-Request-ID"
)

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes caps request bodies. Default: 10 MiB.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) { s.maxUpload = n }
}

// WithAudit mirrors every served prediction to out.
func WithAudit(out output.Output) Option {
	return func(s *Server) { s.audit = out }
}

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server serves predictions from a fitted engine.
type Server struct {
	engine    *engine.Engine
	audit     output.Output
	log       *zap.Logger
	maxUpload int64
	router    *gin.Engine
}

// New builds the router. eng must already be fitted.
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    eng,
		maxUpload: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrNop(s.log)
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		s.requestLogger(),
		limitBodySize(s.maxUpload),
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language"},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	api := r.Group("/api/v1")
	{
		api.POST("/predict", s.predict)
		api.POST("/predict/batch", s.predictBatch)
		api.GET("/sample.csv", s.sample)
		api.GET("/reference", s.reference)
		api.GET("/options", s.options)
		api.GET("/health", s.health)
	}
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDHeader)),
		)
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
