/*
DESCRIPTION
  identify.go implements model-family auto-identification from ONNX graph
  input/output tensor metadata. A model is classified as family A
  (anchor-free with objectness, grid decoding), family B (anchor-free
  without objectness) or family C (already decoded, in-graph NMS) purely
  from tensor shapes and names, without any model-specific configuration.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package family identifies which of the three supported model families
// (A, B, C) a loaded ONNX graph belongs to, and derives the model's input
// resolution and class count from its tensor metadata.
package family

import (
	"errors"
	"strings"
)

// Family is a tagged variant selecting the decode/preprocess strategy for
// a loaded model. It is chosen once at initialization and frozen for the
// session's lifetime.
type Family int

const (
	// Unknown indicates identification has not yet run.
	Unknown Family = iota
	// A is anchor-free with explicit objectness and grid decoding
	// (output features = 4 box + 1 objectness + num_classes).
	A
	// B is anchor-free without objectness
	// (output features = 4 box + num_classes).
	B
	// C is already decoded in-graph, including NMS
	// (output rows of 6: class_id, score, x1, y1, x2, y2).
	C
)

func (f Family) String() string {
	switch f {
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	default:
		return "unknown"
	}
}

// ErrNonSquareInput is returned when a family-A model's graph-derived
// input resolution is not square. The grid-table precomputation in
// detector/decode is keyed by a single grid size per stride and does not
// support rectangular grids (see the Open Question resolution in
// DESIGN.md).
var ErrNonSquareInput = errors.New("family: family A requires a square input resolution")

// ErrNoImageInput is returned when no 4-D input tensor can be found to
// serve as the image input.
var ErrNoImageInput = errors.New("family: no 4D image input tensor found")

// defaultInputSize is the square input resolution assumed when the graph's
// own metadata does not expose fixed spatial dims (e.g. a dynamic-axis
// export).
const defaultInputSize = 640

// TensorInfo is the subset of ONNX graph tensor metadata identification
// needs: name and dimensions (batch dimensions may be reported as -1/0 by
// the runtime and are treated as "unknown").
type TensorInfo struct {
	Name string
	Dims []int64
}

// Result is the outcome of identifying a model's family from its graph.
type Result struct {
	Family        Family
	InputWidth    int // always positive: defaultInputSize when the graph doesn't expose fixed dims.
	InputHeight   int
	NumClasses    int // 0 if not determined (caller should keep its default of 80).
	ImageInputIdx int // index, within the inputs slice, of the image tensor.
	ScaleInputIdx int // index, within the inputs slice, of the family-C scale_factor tensor (-1 if family != C).
}

// Identify implements the §4.3 decision tree: inspect inputs for a
// "scale"-named tensor (family C), otherwise inspect the first output's
// shape for the 6/85/84/generic feature-count signature.
func Identify(inputs, outputs []TensorInfo) (Result, error) {
	res := Result{ImageInputIdx: -1, ScaleInputIdx: -1}

	imageIdx, scaleIdx, isC := classifyInputs(inputs)
	res.ImageInputIdx = imageIdx

	if imageIdx >= 0 {
		dims := inputs[imageIdx].Dims
		if len(dims) == 4 && dims[2] > 0 && dims[3] > 0 {
			res.InputHeight = int(dims[2])
			res.InputWidth = int(dims[3])
		}
	}

	// A dynamic-axis export reports its spatial dims as -1/0; fall back to
	// the default 640x640 resolution rather than leaving it unset.
	if res.InputWidth == 0 || res.InputHeight == 0 {
		res.InputWidth = defaultInputSize
		res.InputHeight = defaultInputSize
	}

	if isC {
		res.Family = C
		res.ScaleInputIdx = scaleIdx
		return res, nil
	}

	if imageIdx < 0 {
		return res, ErrNoImageInput
	}

	if len(outputs) == 0 {
		return res, errors.New("family: model has no outputs")
	}

	fam, numClasses, err := classifyOutput(outputs[0])
	if err != nil {
		return res, err
	}
	res.Family = fam
	res.NumClasses = numClasses

	if fam == C {
		// Identified by output shape: no input name contains "scale", so
		// the family-C index default applies.
		res.ImageInputIdx, res.ScaleInputIdx = 1, 0
	}

	if fam == A && res.InputWidth > 0 && res.InputHeight > 0 && res.InputWidth != res.InputHeight {
		return res, ErrNonSquareInput
	}

	return res, nil
}

// classifyInputs scans the input tensors for a "scale"-named tensor
// (family C signature) and locates the 4-D image tensor. Per spec.md
// §4.3 and §9, when family C is detected but either tensor cannot be found
// by an "image"/"scale" substring match, the indices default to
// {image: 1, scale: 0}; the rank-4 fallback applies to families A and B only.
func classifyInputs(inputs []TensorInfo) (imageIdx, scaleIdx int, isFamilyC bool) {
	imageIdx, scaleIdx = -1, -1

	for i, in := range inputs {
		lower := strings.ToLower(in.Name)
		if strings.Contains(lower, "scale") {
			isFamilyC = true
			scaleIdx = i
		}
	}

	for i, in := range inputs {
		lower := strings.ToLower(in.Name)
		if strings.Contains(lower, "image") {
			imageIdx = i
			break
		}
	}

	if imageIdx < 0 && !isFamilyC {
		// Fall back to the first rank-4 input that isn't the scale tensor.
		for i, in := range inputs {
			if i == scaleIdx {
				continue
			}
			if len(in.Dims) == 4 {
				imageIdx = i
				break
			}
		}
	}

	if isFamilyC && (imageIdx < 0 || scaleIdx < 0) {
		// Preserve the source's ambiguous-name default exactly.
		imageIdx, scaleIdx = 1, 0
	}

	return imageIdx, scaleIdx, isFamilyC
}

// classifyOutput applies the §4.3 output-shape signature to a single
// output tensor: 6 => family C (handled earlier via input name, but kept
// here for completeness of the decision tree), 85/84 => family A/B with
// num_classes=80, else derive from the smaller non-batch dimension.
func classifyOutput(out TensorInfo) (Family, int, error) {
	d1, d2, err := nonBatchDims(out.Dims)
	if err != nil {
		return Unknown, 0, err
	}

	switch {
	case d1 == 6 || d2 == 6:
		return C, 0, nil
	case d1 == 85 || d2 == 85:
		return A, 80, nil
	case d1 == 84 || d2 == 84:
		return B, 80, nil
	}

	features := d1
	if d2 < features {
		features = d2
	}

	switch {
	case features > 5:
		return A, int(features - 5), nil
	case features >= 4:
		return B, int(features - 4), nil
	default:
		return Unknown, 0, errors.New("family: output feature count too small to classify")
	}
}

// nonBatchDims returns the two dimensions of a tensor shape that are not
// the leading batch dimension, matching spec.md's "let the two non-batch
// dims be (d1, d2)". Tensors shaped (N,K) have no batch dim and both
// dims are returned directly; tensors shaped (1,N,K) drop the leading 1.
func nonBatchDims(dims []int64) (int64, int64, error) {
	switch len(dims) {
	case 2:
		return dims[0], dims[1], nil
	case 3:
		return dims[1], dims[2], nil
	default:
		return 0, 0, errors.New("family: expected a 2D or 3D output tensor")
	}
}
