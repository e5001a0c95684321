/*
DESCRIPTION
  detector.go implements the Detector type: the orchestration layer that
  stitches ingress, preprocessing, inference and decoding into the
  Go-native entry points a host program calls. The lifecycle shape
  (mutex-guarded struct, log field, New/Init/Release/IsRunning-style
  methods) follows device/file.AVFile; the init/session/model-info
  sequencing follows the pogo detector reference's NewDetector.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package detector implements real-time object detection over three
// families of pre-trained ONNX models, given an image, a packed BGRA
// buffer, or a tri-planar YUV camera frame.
package detector

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/detect/detector/decode"
	"github.com/ausocean/detect/detector/family"
	"github.com/ausocean/detect/detector/ingress"
	"github.com/ausocean/detect/detector/onnxrt"
	"github.com/ausocean/detect/detector/preprocess"
	"github.com/ausocean/detect/detector/result"
)

// Detector is the single logical "current detector" in the process: it
// owns exactly one inference session, exclusively, per spec.md §5's
// concurrency model.
type Detector struct {
	log logging.Logger

	mu          sync.Mutex
	initialized bool

	runtime    *onnxrt.Runtime
	fam        family.Result
	classNames []string
}

// New returns an uninitialized Detector, seeded with the standard 80-entry
// COCO class vocabulary. Init must be called before any detect call will
// succeed.
func New(log logging.Logger) *Detector {
	return &Detector{log: log, classNames: append([]string(nil), defaultClassNames...)}
}

// defaultClassNames is the standard 80-entry COCO object-class vocabulary,
// indexed by class_id, used whenever the host has not called SetClassNames.
var defaultClassNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck",
	"boat", "traffic light", "fire hydrant", "stop sign", "parking meter", "bench",
	"bird", "cat", "dog", "horse", "sheep", "cow", "elephant", "bear", "zebra",
	"giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup",
	"fork", "knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch",
	"potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
	"toothbrush",
}

// Init loads modelPath, identifies its model family from its graph
// input/output shapes, and builds an inference session. Init is
// non-reentrant: calling it while already initialized first releases
// the existing session, matching spec.md §5's "init/release
// non-reentrant" rule.
func (d *Detector) Init(modelPath string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		d.releaseLocked()
	}

	inputs, outputs, err := onnxrt.GetInputOutputInfo(modelPath)
	if err != nil {
		return errors.Wrap(err, "detector: reading model info")
	}

	fam, err := family.Identify(toFamilyTensorInfo(inputs), toFamilyTensorInfo(outputs))
	if err != nil {
		return errors.Wrap(err, "detector: identifying model family")
	}

	inputNames, outputName := bindingNames(inputs, outputs, fam)

	rt, err := onnxrt.New(d.log, modelPath, inputNames, outputName)
	if err != nil {
		return errors.Wrap(err, "detector: creating inference runtime")
	}

	d.runtime = rt
	d.fam = fam
	d.initialized = true
	if d.log != nil {
		d.log.Info("detector initialized", "model", modelPath, "family", fam.Family.String())
	}
	return nil
}

// bindingNames orders the graph's input names so the image tensor is
// bound first and (for family C) the scale_factor tensor second,
// regardless of the graph's own declaration order, and returns the
// single output name to bind.
func bindingNames(inputs, outputs []onnxrt.TensorInfo, fam family.Result) (inputNames []string, outputName string) {
	if fam.Family == family.C {
		imageName := inputs[fam.ImageInputIdx].Name
		scaleName := inputs[fam.ScaleInputIdx].Name
		inputNames = []string{imageName, scaleName}
	} else {
		inputNames = []string{inputs[0].Name}
	}
	outputName = outputs[0].Name
	return inputNames, outputName
}

func toFamilyTensorInfo(in []onnxrt.TensorInfo) []family.TensorInfo {
	out := make([]family.TensorInfo, len(in))
	for i, v := range in {
		out[i] = family.TensorInfo{Name: v.Name, Dims: v.Dims}
	}
	return out
}

// Release discards the current session, returning the Detector to the
// uninitialized state. Release is idempotent.
func (d *Detector) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseLocked()
}

func (d *Detector) releaseLocked() {
	if d.runtime != nil {
		_ = d.runtime.Close()
		d.runtime = nil
	}
	d.initialized = false
}

// IsInitialized reports whether Init has succeeded and Release has not
// since been called.
func (d *Detector) IsInitialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// SetClassNames replaces the class-name vocabulary used to populate
// Detection.ClassName. It may be called between detections; it does not
// re-derive num_classes, per spec.md §9's ambiguous-behavior list.
func (d *Detector) SetClassNames(names []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.classNames = append([]string(nil), names...)
}

func (d *Detector) className(classID int) string {
	if classID < 0 || classID >= len(d.classNames) {
		return ""
	}
	return d.classNames[classID]
}

// DetectFromPath decodes the image at path and runs detection on it.
func (d *Detector) DetectFromPath(path string, conf, iou float32) (rec *result.Record) {
	defer d.recoverPanic(&rec)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return result.NewError(result.NotInitialized, "detector not initialized")
	}

	img, err := ingress.FromPath(path)
	if err != nil {
		return result.NewError(result.ImageLoadFailed, err.Error())
	}
	defer img.Close()

	return d.detectWithThresholds(img, conf, iou)
}

// DetectFromBGRA runs detection on a packed BGRA buffer of the given
// width, height and row stride (bytes between row starts).
func (d *Detector) DetectFromBGRA(buf []byte, w, h, stride int, conf, iou float32) (rec *result.Record) {
	defer d.recoverPanic(&rec)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return result.NewError(result.NotInitialized, "detector not initialized")
	}

	img, err := ingress.FromBGRA(buf, w, h, stride)
	if err != nil {
		return result.NewError(result.ImageLoadFailed, err.Error())
	}
	defer img.Close()

	return d.detectWithThresholds(img, conf, iou)
}

// DetectFromYUV runs detection on a tri-planar YUV 4:2:0 camera frame,
// after NV21 assembly, BGR conversion and clockwise rotation.
func (d *Detector) DetectFromYUV(y, u, v []byte, yStride, uStride, vStride, w, h, uvPixelStride, rotation int, conf, iou float32) (rec *result.Record) {
	defer d.recoverPanic(&rec)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return result.NewError(result.NotInitialized, "detector not initialized")
	}

	img, err := ingress.FromYUV(ingress.YUVPlanes{
		Y: y, U: u, V: v,
		YRowStride: yStride, URowStride: uStride, VRowStride: vStride,
		Width: w, Height: h,
		UVPixelStride: uvPixelStride,
		Rotation:      rotation,
	})
	if err != nil {
		return result.NewError(result.ImageLoadFailed, err.Error())
	}
	defer img.Close()

	return d.detectWithThresholds(img, conf, iou)
}

// detectWithThresholds runs the common preprocess→infer→decode→NMS
// pipeline with the given thresholds. Callers must hold d.mu.
func (d *Detector) detectWithThresholds(img ingress.Image, conf, iou float32) *result.Record {
	start := time.Now()

	tensor, err := preprocess.Run(img.Mat, d.fam.InputWidth, d.fam.InputHeight, d.fam.Family)
	if err != nil {
		return result.NewError(result.PreprocessError, err.Error())
	}

	data, shape, err := d.runInference(tensor)
	if err != nil {
		return result.NewError(result.RuntimeError, err.Error())
	}
	if len(data) == 0 {
		return result.NewError(result.NullResult, "inference produced no output data")
	}

	lb := decode.LetterboxParams{Scale: tensor.Scale, PadX: tensor.PadX, PadY: tensor.PadY}
	origW, origH := float32(img.Width()), float32(img.Height())

	candidates := d.decodeOutput(data, shape, lb, conf, origW, origH)
	if d.fam.Family != family.C {
		candidates = decode.NMS(candidates, iou)
	}

	detections := make([]result.Detection, len(candidates))
	for i, c := range candidates {
		detections[i] = result.Detection{
			ClassID:    c.ClassID,
			ClassName:  d.className(c.ClassID),
			Confidence: c.Confidence,
			X1:         c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2,
		}
	}

	elapsed := time.Since(start).Milliseconds()
	return result.New(detections, elapsed, img.Width(), img.Height())
}

func (d *Detector) runInference(t preprocess.Tensor) ([]float32, []int64, error) {
	inputs := []onnxrt.FloatTensor{
		{Name: "image", Dims: []int64{1, 3, int64(t.Height), int64(t.Width)}, Data: t.Data},
	}
	if d.fam.Family == family.C {
		inputs = append(inputs, onnxrt.FloatTensor{
			Name: "scale_factor",
			Dims: []int64{1, 2},
			Data: []float32{t.ScaleFactorH, t.ScaleFactorW},
		})
	}
	return d.runtime.Run(inputs)
}

// decodeOutput dispatches to the family-specific decoder based on the
// output tensor's shape, recorded at Init time in d.fam.
func (d *Detector) decodeOutput(data []float32, shape []int64, lb decode.LetterboxParams, conf, origW, origH float32) []decode.Candidate {
	switch d.fam.Family {
	case family.A:
		grid := decode.BuildGridA(d.fam.InputWidth)
		numRows := len(grid)
		numClasses := d.fam.NumClasses
		return decode.FamilyA(data, numRows, numClasses, grid, lb, conf, origW, origH)
	case family.B:
		d1, d2 := shapeDims(shape)
		return decode.FamilyB(data, d1, d2, lb, conf, origW, origH)
	case family.C:
		numDetections := len(data) / 6
		return decode.FamilyC(data, numDetections, conf, origW, origH)
	default:
		return nil
	}
}

func shapeDims(shape []int64) (int, int) {
	if len(shape) == 3 {
		return int(shape[1]), int(shape[2])
	}
	if len(shape) == 2 {
		return int(shape[0]), int(shape[1])
	}
	return 0, 0
}

// recoverPanic converts any panic at this package's native-inference
// boundary into a RUNTIME_ERROR record, matching spec.md §7's "all
// exceptions at the native boundary are caught".
func (d *Detector) recoverPanic(rec **result.Record) {
	if r := recover(); r != nil {
		*rec = result.NewError(result.RuntimeError, fmt.Sprintf("recovered panic: %v", r))
	}
}
