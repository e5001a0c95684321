/*
DESCRIPTION
  onnxrt.go wraps github.com/yalue/onnxruntime_go behind a small seam
  (sessionRunner) so the rest of the detector package never imports
  onnxruntime_go directly: one shared Environment per process, one
  SessionOptions and one DynamicAdvancedSession per Runtime, and tensor
  construction for the three model families.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package onnxrt adapts github.com/yalue/onnxruntime_go to the detector
// pipeline: environment lifecycle, execution-provider fallback, session
// management and per-family tensor construction.
package onnxrt

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/ausocean/utils/logging"
)

var (
	envOnce sync.Once
	envErr  error
)

// initEnvironment lazily initializes the one process-wide ONNX Runtime
// environment, matching the singleton-environment discipline of the
// `pogo` detector reference's setupONNXEnvironment/IsInitialized check.
func initEnvironment() error {
	envOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// TensorInfo mirrors onnxruntime_go.InputOutputInfo with just the fields
// detector/family needs, keeping that package free of an onnxruntime_go
// import.
type TensorInfo struct {
	Name string
	Dims []int64
}

// FloatTensor is a single named float32 input or output, in the planar
// layout the model graph expects.
type FloatTensor struct {
	Name string
	Dims []int64
	Data []float32
}

// sessionRunner is the seam between Runtime and onnxruntime_go: it
// speaks only in plain Go FloatTensor values, so tests substitute a fake
// implementation and exercise Runtime.Run without creating an
// onnxruntime_go session or loading a real .onnx model.
type sessionRunner interface {
	Run(inputs []FloatTensor) (FloatTensor, error)
	Destroy() error
}

// liveSession adapts *ort.DynamicAdvancedSession to sessionRunner,
// converting FloatTensor to and from onnxruntime_go's ort.Value and
// destroying every tensor it creates before returning, per SPEC_FULL's
// scale_factor lifetime discipline: no ort.Value outlives one Run call.
type liveSession struct {
	sess       *ort.DynamicAdvancedSession
	outputName string
}

func (s *liveSession) Run(inputs []FloatTensor) (FloatTensor, error) {
	ortInputs := make([]ort.Value, len(inputs))
	for i, in := range inputs {
		t, err := ort.NewTensor(ort.NewShape(in.Dims...), in.Data)
		if err != nil {
			destroyAll(ortInputs[:i])
			return FloatTensor{}, errors.Wrapf(err, "onnxrt: creating input tensor %q", in.Name)
		}
		ortInputs[i] = t
	}
	defer destroyAll(ortInputs)

	outputs := []ort.Value{nil}
	if err := s.sess.Run(ortInputs, outputs); err != nil {
		return FloatTensor{}, errors.Wrap(err, "onnxrt: inference")
	}
	defer destroyAll(outputs)

	if len(outputs) != 1 || outputs[0] == nil {
		return FloatTensor{}, fmt.Errorf("onnxrt: expected 1 output, got %d", len(outputs))
	}
	ft, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return FloatTensor{}, fmt.Errorf("onnxrt: expected float32 output tensor, got %T", outputs[0])
	}

	return FloatTensor{
		Name: s.outputName,
		Dims: append([]int64(nil), ft.GetShape()...),
		Data: append([]float32(nil), ft.GetData()...),
	}, nil
}

func (s *liveSession) Destroy() error { return s.sess.Destroy() }

func destroyAll(vs []ort.Value) {
	for _, v := range vs {
		if v != nil {
			_ = v.Destroy()
		}
	}
}

// Runtime owns one ONNX Runtime session for a single loaded model.
type Runtime struct {
	log    logging.Logger
	runner sessionRunner
}

// GetInputOutputInfo returns the graph's declared input/output tensors
// without creating a session, used by detector/family to classify the
// model before a Runtime is built.
func GetInputOutputInfo(modelPath string) (inputs, outputs []TensorInfo, err error) {
	if err := initEnvironment(); err != nil {
		return nil, nil, errors.Wrap(err, "onnxrt: initializing environment")
	}
	in, out, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "onnxrt: reading model input/output info")
	}
	return toTensorInfo(in), toTensorInfo(out), nil
}

func toTensorInfo(info []ort.InputOutputInfo) []TensorInfo {
	out := make([]TensorInfo, len(info))
	for i, v := range info {
		out[i] = TensorInfo{Name: v.Name, Dims: append([]int64(nil), v.Dimensions...)}
	}
	return out
}

// New loads modelPath, selects the first execution provider that
// appends successfully (see provider.go) and builds a named-input/
// output DynamicAdvancedSession, matching the `pogo` detector
// reference's createSession pattern. inputNames/outputName are the
// graph tensor names to bind, already known to the caller via
// detector/family.Identify.
func New(log logging.Logger, modelPath string, inputNames []string, outputName string) (*Runtime, error) {
	if err := initEnvironment(); err != nil {
		return nil, errors.Wrap(err, "onnxrt: initializing environment")
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "onnxrt: creating session options")
	}
	defer opts.Destroy()

	if err := opts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, errors.Wrap(err, "onnxrt: setting graph optimization level")
	}
	if err := opts.SetIntraOpNumThreads(4); err != nil {
		return nil, errors.Wrap(err, "onnxrt: setting intra-op thread count")
	}
	if err := opts.SetInterOpNumThreads(2); err != nil {
		return nil, errors.Wrap(err, "onnxrt: setting inter-op thread count")
	}

	selectProvider(log, opts)

	sess, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputName}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "onnxrt: creating session")
	}

	return &Runtime{
		log:    log,
		runner: &liveSession{sess: sess, outputName: outputName},
	}, nil
}

// Close releases the underlying session. The process-wide environment is
// never torn down: it outlives every Runtime, matching the `pogo`
// reference's comment that DestroyEnvironment is only for full process
// shutdown.
func (r *Runtime) Close() error {
	if r.runner == nil {
		return nil
	}
	err := r.runner.Destroy()
	r.runner = nil
	return err
}

// Run binds inputs by position, in the order of the inputNames given to
// New (FloatTensor.Name is used only in error messages), executes one
// forward pass, and returns the bound output's raw data and shape.
// Family-C callers that must also supply a scale_factor auxiliary input
// pass it as a second entry in inputs.
func (r *Runtime) Run(inputs []FloatTensor) (data []float32, shape []int64, err error) {
	if r.runner == nil {
		return nil, nil, errors.New("onnxrt: runtime is closed")
	}
	out, err := r.runner.Run(inputs)
	if err != nil {
		return nil, nil, err
	}
	return out.Data, out.Dims, nil
}
