//go:build cgo
// +build cgo

package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortOnce sync.Once
	ortErr  error
)

func initONNXRuntime() error {
	ortOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// ONNXRegressor runs a single-output regression graph. It requires CGO and the onnxruntime library.
type ONNXRegressor struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	info    Info
	// The session writes into shared tensors, so Run is serialized.
	mu sync.Mutex
}

// NewONNXRegressor creates a session for a 1×n float input and 1×1 float output.
func NewONNXRegressor(spec Spec) (*ONNXRegressor, error) {
	if spec.NumFeatures <= 0 {
		return nil, artifactErr(spec.Path, errors.New("onnx regressor needs the number of features"))
	}
	if err := initONNXRuntime(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}
	inputName, outputNames := onnxNames(spec, []string{"variable"})

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(spec.NumFeatures)))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(
		spec.Path,
		[]string{inputName},
		outputNames[:1],
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, artifactErr(spec.Path, fmt.Errorf("failed to create ONNX session: %w", err))
	}

	return &ONNXRegressor{
		session: session,
		input:   input,
		output:  output,
		info: Info{
			Format:      FormatONNX,
			Kind:        "regressor",
			Path:        spec.Path,
			NumFeatures: spec.NumFeatures,
		},
	}, nil
}

// Predict runs the graph on x.
func (r *ONNXRegressor) Predict(_ context.Context, x []float64) (float64, error) {
	if err := checkWidth(x, r.info.NumFeatures); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return 0, errors.New("onnx session is closed")
	}

	fillFloat32(r.input.GetData(), x)
	if err := r.session.Run(); err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}
	return float64(r.output.GetData()[0]), nil
}

// Info describes the artifact.
func (r *ONNXRegressor) Info() Info { return r.info }

// Close destroys the session and tensors.
func (r *ONNXRegressor) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if r.session != nil {
		err = r.session.Destroy()
		r.session = nil
	}
	if r.input != nil {
		_ = r.input.Destroy()
		r.input = nil
	}
	if r.output != nil {
		_ = r.output.Destroy()
		r.output = nil
	}
	return err
}

// ONNXClassifier runs a classifier graph exported without a ZipMap, so that it yields
// an int64 label tensor and a 1×k float probability tensor.
type ONNXClassifier struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	label   *ort.Tensor[int64]
	proba   *ort.Tensor[float32]
	classes []int
	info    Info
	mu      sync.Mutex
}

// NewONNXClassifier creates a session for a 1×n float input with label and probability outputs.
// Class codes are taken to be 0..k-1.
func NewONNXClassifier(spec Spec, numClasses int) (*ONNXClassifier, error) {
	if spec.NumFeatures <= 0 || numClasses < 2 {
		return nil, artifactErr(spec.Path, errors.New("onnx classifier needs the number of features and classes"))
	}
	if err := initONNXRuntime(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}
	inputName, outputNames := onnxNames(spec, []string{"label", "probabilities"})
	if len(outputNames) < 2 {
		return nil, artifactErr(spec.Path, errors.New("onnx classifier needs label and probability output names"))
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(spec.NumFeatures)))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	label, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create label tensor: %w", err)
	}
	proba, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(numClasses)))
	if err != nil {
		input.Destroy()
		label.Destroy()
		return nil, fmt.Errorf("failed to create probability tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(
		spec.Path,
		[]string{inputName},
		outputNames[:2],
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{label, proba},
		nil,
	)
	if err != nil {
		input.Destroy()
		label.Destroy()
		proba.Destroy()
		return nil, artifactErr(spec.Path, fmt.Errorf("failed to create ONNX session: %w", err))
	}

	classes := make([]int, numClasses)
	for i := range classes {
		classes[i] = i
	}
	return &ONNXClassifier{
		session: session,
		input:   input,
		label:   label,
		proba:   proba,
		classes: classes,
		info: Info{
			Format:      FormatONNX,
			Kind:        "classifier",
			Path:        spec.Path,
			NumFeatures: spec.NumFeatures,
		},
	}, nil
}

func (c *ONNXClassifier) run(x []float64) (int, []float64, error) {
	if err := checkWidth(x, c.info.NumFeatures); err != nil {
		return 0, nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0, nil, errors.New("onnx session is closed")
	}

	fillFloat32(c.input.GetData(), x)
	if err := c.session.Run(); err != nil {
		return 0, nil, fmt.Errorf("inference failed: %w", err)
	}
	raw := c.proba.GetData()
	p := make([]float64, len(raw))
	for i, v := range raw {
		p[i] = float64(v)
	}
	return int(c.label.GetData()[0]), p, nil
}

// Predict returns the label output of the graph.
func (c *ONNXClassifier) Predict(_ context.Context, x []float64) (int, error) {
	label, _, err := c.run(x)
	return label, err
}

// PredictProba returns the probability output of the graph.
func (c *ONNXClassifier) PredictProba(_ context.Context, x []float64) ([]float64, error) {
	_, p, err := c.run(x)
	return p, err
}

// Classes returns the class codes.
func (c *ONNXClassifier) Classes() []int { return append([]int(nil), c.classes...) }

// Info describes the artifact.
func (c *ONNXClassifier) Info() Info { return c.info }

// Close destroys the session and tensors.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.session != nil {
		err = c.session.Destroy()
		c.session = nil
	}
	if c.input != nil {
		_ = c.input.Destroy()
		c.input = nil
	}
	if c.label != nil {
		_ = c.label.Destroy()
		c.label = nil
	}
	if c.proba != nil {
		_ = c.proba.Destroy()
		c.proba = nil
	}
	return err
}

func onnxNames(spec Spec, defaultOutputs []string) (string, []string) {
	input := spec.InputName
	if input == "" {
		input = "float_input"
	}
	outputs := spec.OutputNames
	if len(outputs) == 0 {
		outputs = defaultOutputs
	}
	return input, outputs
}

func fillFloat32(dst []float32, x []float64) {
	for i, v := range x {
		dst[i] = float32(v)
	}
}
