// Package onnx runs the exported SATD classifier through ONNX Runtime. The model
// takes one float32 tensor of shape [1, L, D] and yields [1, K] class scores
package onnx

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"satd/internal/core/embedding"
	perr "satd/internal/platform/errors"
	"satd/internal/platform/logger"
)

// Config locates the model and declares the shapes it must accept
type Config struct {
	Path string
	// Library is the onnxruntime shared library; empty uses the loader default
	Library    string
	InputName  string
	OutputName string

	Length  int
	Dim     int
	Classes int

	// IntraOpThreads caps the runtime's per-op parallelism; 0 keeps its default
	IntraOpThreads int
}

// Model is a classifier.Model backed by one ONNX Runtime session. A single set of
// bound tensors is reused, so Predict calls are serialized
type Model struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	in      *ort.Tensor[float32]
	out     *ort.Tensor[float32]

	length, dim, classes int
}

var envMu sync.Mutex

func initEnv(lib string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if lib != "" {
		ort.SetSharedLibraryPath(lib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeArtifactLoad, "initialize onnxruntime")
	}
	return nil
}

// Open loads the model, checks its declared I/O against cfg and binds tensors
func Open(cfg Config) (*Model, error) {
	if cfg.Length <= 0 || cfg.Dim <= 0 || cfg.Classes < 2 {
		return nil, perr.ConfigMismatchf("invalid model shape L=%d D=%d K=%d", cfg.Length, cfg.Dim, cfg.Classes)
	}
	if err := initEnv(cfg.Library); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "read model %s", cfg.Path)
	}
	inInfo, err := pick(inputs, cfg.InputName, "input")
	if err != nil {
		return nil, err
	}
	outInfo, err := pick(outputs, cfg.OutputName, "output")
	if err != nil {
		return nil, err
	}
	if !matchDims(inInfo.Dimensions, 1, int64(cfg.Length), int64(cfg.Dim)) {
		return nil, perr.ConfigMismatchf("model input %q has shape %v, want [1 %d %d]", inInfo.Name, inInfo.Dimensions, cfg.Length, cfg.Dim)
	}
	if !matchDims(outInfo.Dimensions, 1, int64(cfg.Classes)) {
		return nil, perr.ConfigMismatchf("model output %q has shape %v, want [1 %d]", outInfo.Name, outInfo.Dimensions, cfg.Classes)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "create session options")
	}
	defer opts.Destroy()
	if cfg.IntraOpThreads > 0 {
		if err := opts.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "set intra-op threads")
		}
	}

	in, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.Length), int64(cfg.Dim)))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "allocate input tensor")
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.Classes)))
	if err != nil {
		in.Destroy()
		return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "allocate output tensor")
	}
	session, err := ort.NewAdvancedSession(cfg.Path,
		[]string{inInfo.Name}, []string{outInfo.Name},
		[]ort.Value{in}, []ort.Value{out}, opts)
	if err != nil {
		in.Destroy()
		out.Destroy()
		return nil, perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "create session for %s", cfg.Path)
	}

	logger.Named("onnx").Info().
		Str("path", cfg.Path).
		Str("input", inInfo.Name).
		Str("output", outInfo.Name).
		Int("length", cfg.Length).
		Int("dim", cfg.Dim).
		Int("classes", cfg.Classes).
		Msg("model loaded")

	return &Model{
		session: session,
		in:      in,
		out:     out,
		length:  cfg.Length,
		dim:     cfg.Dim,
		classes: cfg.Classes,
	}, nil
}

// Predict implements classifier.Model
func (m *Model) Predict(x embedding.Matrix) ([]float32, error) {
	rows, cols := x.Shape()
	if rows != m.length || cols != m.dim {
		return nil, perr.Newf(perr.ErrorCodeInference, "input shape (%d, %d), model wants (%d, %d)", rows, cols, m.length, m.dim)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, perr.Newf(perr.ErrorCodeInference, "model is closed")
	}

	buf := m.in.GetData()
	for i, row := range x {
		copy(buf[i*m.dim:(i+1)*m.dim], row)
	}
	if err := m.session.Run(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInference, "onnx run")
	}
	scores := make([]float32, m.classes)
	copy(scores, m.out.GetData())
	return scores, nil
}

// InputShape implements classifier.Model
func (m *Model) InputShape() (int, int) { return m.length, m.dim }

// NumClasses implements classifier.Model
func (m *Model) NumClasses() int { return m.classes }

// Close releases the session and tensors. Safe to call twice
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.in.Destroy()
	m.out.Destroy()
	m.session, m.in, m.out = nil, nil, nil
	return err
}

// pick returns the named tensor info, or the only one when name is empty
func pick(infos []ort.InputOutputInfo, name, kind string) (ort.InputOutputInfo, error) {
	if name == "" {
		if len(infos) != 1 {
			return ort.InputOutputInfo{}, perr.ConfigMismatchf("model has %d %ss, name one in the manifest (%v)", len(infos), kind, names(infos))
		}
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, perr.ConfigMismatchf("model has no %s %q (have %v)", kind, name, names(infos))
}

func names(infos []ort.InputOutputInfo) []string {
	out := make([]string, 0, len(infos))
	for _, i := range infos {
		out = append(out, i.Name)
	}
	return out
}

// matchDims compares a declared shape with the expected one. Non-positive declared
// dimensions are symbolic (batch, dynamic length) and match anything
func matchDims(got []int64, want ...int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i, g := range got {
		if g > 0 && g != want[i] {
			return false
		}
	}
	return true
}

// String is for logs
func (m *Model) String() string {
	return fmt.Sprintf("onnx(L=%d, D=%d, K=%d)", m.length, m.dim, m.classes)
}
