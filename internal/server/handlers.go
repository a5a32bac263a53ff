package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/hejijunhao/heartcheck/internal/engine"
	"github.com/hejijunhao/heartcheck/internal/engine/dataset"
	"github.com/hejijunhao/heartcheck/internal/metrics"
	"github.com/hejijunhao/heartcheck/internal/model"
	"github.com/hejijunhao/heartcheck/internal/output"
)

// PredictRequest carries one patient, either as the ten encoded values in
// canonical order or as a human-readable form. Exactly one must be set.
type PredictRequest struct {
	Values []float64   `json:"values"`
	Form   *model.Form `json:"form"`
}

// BatchResponse is the JSON answer to a batch upload.
type BatchResponse struct {
	RequestID   string             `json:"request_id"`
	Rows        int                `json:"rows"`
	Scaled      bool               `json:"scaled"`
	Predictions []model.Prediction `json:"predictions"`
}

// ReferenceResponse describes the fitted state.
type ReferenceResponse struct {
	Rows               int            `json:"rows"`
	BalancedRows       int            `json:"balanced_rows"`
	LabelCounts        map[int]int    `json:"label_counts"`
	Bounds             []model.Bounds `json:"bounds"`
	ScalerBounds       []model.Bounds `json:"scaler_bounds"`
	FitScore           model.FitScore `json:"fit_score"`
	ScaleBeforePredict bool           `json:"scale_before_predict"`
	Languages          []string       `json:"languages"`
}

func (s *Server) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("", err))
		return
	}

	var (
		p   model.Prediction
		err error
	)
	opts := s.languageOptions(c)
	switch {
	case req.Form != nil && req.Values != nil:
		err = model.NewInvalidInput("", "send either values or form, not both")
	case req.Form != nil:
		var v model.Vector
		if v, err = req.Form.Encode(); err == nil {
			p, err = s.engine.PredictOne(v, opts...)
		}
	case req.Values != nil:
		p, err = s.engine.PredictValues(req.Values, opts...)
	default:
		err = model.NewInvalidInput("", "request needs values or form")
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.record(c, p)
	c.JSON(http.StatusOK, p)
}

func (s *Server) predictBatch(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		s.fail(c, badRequest("file", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	b, err := dataset.ParseBatch(f)
	if err != nil {
		metrics.RecordError("batch", err)
		s.fail(c, err)
		return
	}
	preds, err := s.engine.PredictBatch(b, s.languageOptions(c)...)
	if err != nil {
		s.fail(c, err)
		return
	}
	for _, p := range preds {
		s.record(c, p)
	}

	if c.Query("format") == string(output.CSV) {
		var buf bytes.Buffer
		enc := output.NewEncoder(&buf, output.CSV, output.Full, false)
		for _, p := range preds {
			if err := enc.Encode(p); err != nil {
				s.fail(c, err)
				return
			}
		}
		c.Header("Content-Disposition", `attachment; filename="predictions.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, BatchResponse{
		RequestID:   c.GetString(requestIDHeader),
		Rows:        len(preds),
		Scaled:      s.engine.ScaleBeforePredict(),
		Predictions: preds,
	})
}

func (s *Server) sample(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="sample.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", s.engine.Sample())
}

func (s *Server) reference(c *gin.Context) {
	stats := s.engine.Stats()
	var langs []string
	for _, t := range s.engine.Severity().Languages() {
		langs = append(langs, t.String())
	}
	c.JSON(http.StatusOK, ReferenceResponse{
		Rows:               stats.Rows,
		BalancedRows:       s.engine.BalancedRows(),
		LabelCounts:        stats.LabelCounts,
		Bounds:             stats.Bounds,
		ScalerBounds:       s.engine.ScalerBounds(),
		FitScore:           s.engine.FitScore(),
		ScaleBeforePredict: s.engine.ScaleBeforePredict(),
		Languages:          langs,
	})
}

// options lists the accepted categorical values per form field.
func (s *Server) options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sex":                 model.Options(model.SexCodes),
		"chest_pain":          model.Options(model.ChestPainCodes),
		"fasting_blood_sugar": model.Options(model.FastingBloodSugarCodes),
		"resting_ecg":         model.Options(model.RestingECGCodes),
		"exercise_angina":     model.Options(model.ExerciseAnginaCodes),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// languageOptions honours ?lang= first, then Accept-Language.
func (s *Server) languageOptions(c *gin.Context) []engine.PredictOption {
	tbl := s.engine.Severity()
	if q := c.Query("lang"); q != "" {
		if tag, err := language.Parse(q); err == nil {
			return []engine.PredictOption{engine.InLanguage(tbl.Match(tag))}
		}
	}
	if h := c.GetHeader("Accept-Language"); h != "" {
		return []engine.PredictOption{engine.InLanguage(tbl.MatchHeader(h))}
	}
	return nil
}

func (s *Server) record(c *gin.Context, p model.Prediction) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Write(c.Request.Context(), p); err != nil {
		s.log.Warn("audit write failed", zap.Error(err))
	}
}

// fail maps err onto a status code. Invalid input is the caller's fault and
// leaves the fitted state untouched.
func (s *Server) fail(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "upload too large",
			"details": err.Error(),
		})
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid input",
			"details": err.Error(),
		})
	default:
		s.log.Error("prediction failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDHeader)))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "prediction failed",
			"details": err.Error(),
		})
	}
}

// badRequest turns a body decoding error into invalid input, keeping
// oversize bodies distinguishable.
func badRequest(field string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return model.NewInvalidInput(field, "%v", err)
}
