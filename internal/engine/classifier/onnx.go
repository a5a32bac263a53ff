package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNX runs an exported scikit-learn style classifier: one 2-D float input
// [N, features] and an int64 label output [N].
type ONNX struct {
	mu         sync.Mutex
	session    *ort.DynamicAdvancedSession
	inputName  string
	inputType  ort.TensorElementDataType
	outputName string
	outputDims int
}

// LoadONNX opens the model at modelPath. libPath is the ONNX Runtime shared
// library; empty means libonnxruntime.so next to the model.
func LoadONNX(modelPath, libPath string) (*ONNX, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("onnx: %w: %w", model.ErrModelLoad, err)
	}
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: %w: failed to initialize runtime: %w", model.ErrModelLoad, err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: %w: failed to read model info: %w", model.ErrModelLoad, err)
	}

	in, err := pickInput(inputs)
	if err != nil {
		return nil, err
	}
	out, err := pickLabelOutput(outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: %w: failed to create session options: %w", model.ErrModelLoad, err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{in.Name}, []string{out.Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: %w: failed to create session: %w", model.ErrModelLoad, err)
	}

	return &ONNX{
		session:    session,
		inputName:  in.Name,
		inputType:  in.DataType,
		outputName: out.Name,
		outputDims: len(out.Dimensions),
	}, nil
}

// pickInput validates the model has a single [N, features] float input.
func pickInput(inputs []ort.InputOutputInfo) (ort.InputOutputInfo, error) {
	if len(inputs) != 1 {
		return ort.InputOutputInfo{}, fmt.Errorf("onnx: %w: expected 1 input, got %d", model.ErrModelLoad, len(inputs))
	}
	in := inputs[0]
	if len(in.Dimensions) != 2 {
		return in, fmt.Errorf("onnx: %w: expected 2D input, got %v", model.ErrModelLoad, in.Dimensions)
	}
	if w := in.Dimensions[1]; w > 0 && w != model.FeatureCount {
		return in, fmt.Errorf("onnx: %w: model expects %d features, have %d", model.ErrModelLoad, w, model.FeatureCount)
	}
	switch in.DataType {
	case ort.TensorElementDataTypeFloat, ort.TensorElementDataTypeDouble:
	default:
		return in, fmt.Errorf("onnx: %w: unsupported input type %v", model.ErrModelLoad, in.DataType)
	}
	return in, nil
}

// pickLabelOutput returns the first int64 tensor output (output_label for
// skl2onnx exports).
func pickLabelOutput(outputs []ort.InputOutputInfo) (ort.InputOutputInfo, error) {
	for _, o := range outputs {
		if o.OrtValueType == ort.ONNXTypeTensor && o.DataType == ort.TensorElementDataTypeInt64 {
			if len(o.Dimensions) == 0 || len(o.Dimensions) > 2 {
				return o, fmt.Errorf("onnx: %w: unexpected label shape %v", model.ErrModelLoad, o.Dimensions)
			}
			return o, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("onnx: %w: model has no int64 label output", model.ErrModelLoad)
}

// Predict runs one inference call over all rows of X.
func (m *ONNX) Predict(X mat.Matrix) ([]int, error) {
	rows, cols := X.Dims()
	if int64(cols) != model.FeatureCount {
		return nil, model.NewInvalidInput("", "onnx: expected %d columns, got %d", model.FeatureCount, cols)
	}
	n := int64(rows)
	shape := ort.NewShape(n, int64(cols))

	var input ort.Value
	switch m.inputType {
	case ort.TensorElementDataTypeDouble:
		data := make([]float64, 0, rows*cols)
		for i := range rows {
			data = append(data, mat.Row(nil, i, X)...)
		}
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
		}
		defer t.Destroy()
		input = t
	default:
		data := make([]float32, 0, rows*cols)
		for i := range rows {
			for j := range cols {
				data = append(data, float32(X.At(i, j)))
			}
		}
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
		}
		defer t.Destroy()
		input = t
	}

	outShape := ort.NewShape(n)
	if m.outputDims == 2 {
		outShape = ort.NewShape(n, 1)
	}
	out, err := ort.NewEmptyTensor[int64](outShape)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("onnx: session is closed")
	}
	err = m.session.Run([]ort.Value{input}, []ort.Value{out})
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	src := out.GetData()
	labels := make([]int, len(src))
	for i, v := range src {
		labels[i] = int(v)
	}
	return labels, nil
}

// String describes the bound tensors.
func (m *ONNX) String() string {
	return fmt.Sprintf("onnx(%s -> %s)", m.inputName, m.outputName)
}

// Close releases the ONNX session. Safe to call more than once.
func (m *ONNX) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
