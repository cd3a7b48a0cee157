package scoring

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// TrainedModel adapts an externally trained ensemble regressor exported to
// ONNX. The fitted input scaler is applied inside Predict, so callers hand it
// the same raw vector every backend receives. The session is guarded by a
// mutex because the input/output tensors are preallocated and reused.
type TrainedModel struct {
	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	output      *ort.Tensor[float32]
	scaler      *scalerParams
	importances []float64

	mu sync.Mutex
}

// LoadTrainedModel loads the model bundle (scaler, ONNX graph, optional
// importances) from the artifact directory for the given canonical feature
// order. Any failure here is a load error; the caller decides the fallback
// policy.
func LoadTrainedModel(dir string, featureOrder []string) (*TrainedModel, error) {
	modelPath := filepath.Join(dir, modelFile)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model artifact missing at %s: %w", modelPath, err)
	}

	scaler, err := loadScaler(dir, len(featureOrder))
	if err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	importances, err := loadImportances(dir, len(featureOrder))
	if err != nil {
		return nil, fmt.Errorf("load importances: %w", err)
	}

	libPath := resolveSharedLibraryPath(dir)
	if libPath == "" {
		return nil, fmt.Errorf("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or ship it in the artifact directory")
	}
	ort.SetSharedLibraryPath(libPath)
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	inputShape := ort.NewShape(1, int64(len(featureOrder)))
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"features"},
		[]string{"score"},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &TrainedModel{
		session:     session,
		input:       input,
		output:      output,
		scaler:      scaler,
		importances: importances,
	}, nil
}

// Predict applies the fitted scaler to the raw vector and runs the ONNX
// session, returning the scalar score.
func (m *TrainedModel) Predict(vector []float64) (float64, error) {
	if len(vector) != len(m.scaler.Mean) {
		return 0, fmt.Errorf("vector length %d does not match model input %d", len(vector), len(m.scaler.Mean))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data := m.input.GetData()
	for i, v := range vector {
		data[i] = float32((v - m.scaler.Mean[i]) / m.scaler.Scale[i])
	}
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("onnx run: %w", err)
	}
	return float64(m.output.GetData()[0]), nil
}

// FeatureImportances returns the persisted per-feature importances, or nil
// when the bundle ships without them (drivers are then omitted).
func (m *TrainedModel) FeatureImportances() []float64 {
	return m.importances
}

// Close releases the ONNX session and tensors.
func (m *TrainedModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	if m.input != nil {
		m.input.Destroy()
		m.input = nil
	}
	if m.output != nil {
		m.output.Destroy()
		m.output = nil
	}
	return nil
}

// resolveSharedLibraryPath locates the onnxruntime shared library, preferring
// the explicit environment override, then the artifact directory.
func resolveSharedLibraryPath(dir string) string {
	if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		return p
	}
	name := "libonnxruntime.so"
	if runtime.GOOS == "darwin" {
		name = "libonnxruntime.dylib"
	}
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// NewBackend selects the regression backend for the given artifact directory:
// the trained ONNX model when its bundle loads, otherwise the heuristic
// surrogate. A trained-model load failure is a deliberate degraded-mode
// policy, not a crash; it is logged as a warning and the surrogate takes over.
func NewBackend(dir string, featureOrder []string, logger *slog.Logger) (Backend, bool) {
	model, err := LoadTrainedModel(dir, featureOrder)
	if err != nil {
		if logger != nil {
			logger.Warn("trained model unavailable, falling back to heuristic surrogate",
				"artifact_dir", dir,
				"error", err,
			)
		}
		return NewSurrogate(featureOrder), true
	}
	return model, false
}
