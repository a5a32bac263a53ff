package heartcheck

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type options struct {
	datasetPath        string
	modelPath          string
	libraryPath        string
	seed               uint64
	neighbors          int
	scaleBeforePredict bool
	lang               language.Tag
	classifier         ClassifierFunc
	logger             *zap.Logger
	err                error
}

// Option configures a Heartcheck instance.
type Option func(*options)

// ClassifierFunc labels each row of a scaled feature table with a class in 0..4.
type ClassifierFunc func(rows [][]float64) ([]int, error)

// WithDatasetPath sets the reference CSV. Default: Dataset/df_cleaned.csv.
func WithDatasetPath(path string) Option {
	return func(o *options) { o.datasetPath = path }
}

// WithModelPath sets the ONNX classifier. Default: Model/rf_model_normalisasi.onnx.
func WithModelPath(path string) Option {
	return func(o *options) { o.modelPath = path }
}

// WithLibraryPath sets the ONNX Runtime shared library.
// Default: libonnxruntime.so next to the model.
func WithLibraryPath(path string) Option {
	return func(o *options) { o.libraryPath = path }
}

// WithSeed seeds the oversampler. Default: 42.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithNeighbors sets k for the oversampler. Default: 5.
func WithNeighbors(k int) Option {
	return func(o *options) { o.neighbors = k }
}

// WithScaleBeforePredict scales batch tables like single predictions.
// Default: false, which sends batch rows to the classifier unscaled.
func WithScaleBeforePredict(on bool) Option {
	return func(o *options) { o.scaleBeforePredict = on }
}

// WithLanguage selects the description language ("en" or "id"). Default: "en".
// A tag that does not parse makes New fail with ErrInvalidInput; a valid tag
// with no translation falls back to English.
func WithLanguage(tag string) Option {
	return func(o *options) {
		t, err := language.Parse(tag)
		if err != nil {
			o.err = fmt.Errorf("%w: language %q: %v", ErrInvalidInput, tag, err)
			return
		}
		o.lang = t
	}
}

// WithClassifier replaces the ONNX model with f. The model path is ignored.
func WithClassifier(f ClassifierFunc) Option {
	return func(o *options) { o.classifier = f }
}

// WithLogger routes startup and warning logs to l. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func defaultOptions() options {
	return options{
		datasetPath: "Dataset/df_cleaned.csv",
		modelPath:   "Model/rf_model_normalisasi.onnx",
		seed:        42,
		neighbors:   5,
		lang:        language.English,
	}
}
