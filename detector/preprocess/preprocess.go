/*
DESCRIPTION
  preprocess.go converts an original-orientation BGR image into the
  planar CHW float tensor a model expects, dispatching on model family:
  letterbox resize with gray padding for families A and B, direct resize
  plus an auxiliary scale_factor for family C.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package preprocess builds the model input tensor from a BGR image,
// following family-specific resize, channel order and normalization
// rules.
package preprocess

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/detect/detector/family"
)

// letterboxPadValue is the neutral gray (114,114,114) fill used by
// families A and B for letterbox padding.
const letterboxPadValue = 114

// Tensor is a planar (CHW) float32 tensor ready to hand to the inference
// runtime, plus the geometric parameters (families A, B only) the
// decoder needs to invert the resize back to original-image space.
type Tensor struct {
	Data   []float32
	Width  int
	Height int

	// Scale, PadX, PadY are populated for families A and B (letterbox);
	// zero for family C.
	Scale float32
	PadX  float32
	PadY  float32

	// ScaleFactorH, ScaleFactorW are populated for family C only: the
	// auxiliary scale_factor input (Hi/H, Wi/W) the graph expects.
	ScaleFactorH float32
	ScaleFactorW float32
}

// Run builds the input tensor for img (a BGR, 8-bit, 3-channel gocv.Mat)
// targeting inputW x inputH, following the normalization rules for fam.
func Run(img gocv.Mat, inputW, inputH int, fam family.Family) (Tensor, error) {
	if img.Empty() {
		return Tensor{}, fmt.Errorf("preprocess: input image is empty")
	}
	if fam == family.C {
		return directResize(img, inputW, inputH)
	}
	return letterbox(img, inputW, inputH, fam)
}

// letterbox implements spec.md §4.2's letterbox resize for families A
// and B: uniform scale, centered gray padding, then per-family channel
// order/normalization.
func letterbox(img gocv.Mat, inputW, inputH int, fam family.Family) (Tensor, error) {
	srcW, srcH := img.Cols(), img.Rows()

	scaleW := float64(inputW) / float64(srcW)
	scaleH := float64(inputH) / float64(srcH)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	newW := int(float64(srcW)*scale + 0.5)
	newH := int(float64(srcH)*scale + 0.5)

	padX := (inputW - newW) / 2
	padY := (inputH - newH) / 2

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationLinear)

	padded := gocv.NewMat()
	defer padded.Close()
	bottom := inputH - newH - padY
	right := inputW - newW - padX
	gocv.CopyMakeBorder(resized, &padded, padY, bottom, padX, right,
		gocv.BorderConstant, gocv.NewScalar(letterboxPadValue, letterboxPadValue, letterboxPadValue, 0))

	data, err := toCHW(padded, fam)
	if err != nil {
		return Tensor{}, err
	}

	return Tensor{
		Data:   data,
		Width:  inputW,
		Height: inputH,
		Scale:  float32(scale),
		PadX:   float32(padX),
		PadY:   float32(padY),
	}, nil
}

// directResize implements spec.md §4.2's direct resize for family C:
// resize to exactly inputW x inputH with no aspect-ratio preservation,
// and surface scale_factor = (Hi/H, Wi/W) for the graph's auxiliary
// input.
func directResize(img gocv.Mat, inputW, inputH int) (Tensor, error) {
	srcW, srcH := img.Cols(), img.Rows()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Pt(inputW, inputH), 0, 0, gocv.InterpolationLinear)

	data, err := toCHW(resized, family.C)
	if err != nil {
		return Tensor{}, err
	}

	return Tensor{
		Data:         data,
		Width:        inputW,
		Height:       inputH,
		ScaleFactorH: float32(inputH) / float32(srcH),
		ScaleFactorW: float32(inputW) / float32(srcW),
	}, nil
}

// toCHW converts a BGR 8-bit Mat into a planar CHW float32 tensor with
// the channel order and normalization spec.md §4.2 specifies per family:
// family A keeps BGR unnormalized (0..255); families B and C convert to
// RGB and divide by 255.
func toCHW(mat gocv.Mat, fam family.Family) ([]float32, error) {
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("preprocess: expected 3-channel image, got %d", mat.Channels())
	}

	converted := mat
	if fam != family.A {
		rgb := gocv.NewMat()
		defer rgb.Close()
		gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)
		converted = rgb
	}

	floatMat := gocv.NewMat()
	defer floatMat.Close()
	converted.ConvertTo(&floatMat, gocv.MatTypeCV32F)
	if fam != family.A {
		floatMat.DivideFloat(255.0)
	}

	channels := gocv.Split(floatMat)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	h, w := floatMat.Rows(), floatMat.Cols()
	planeLen := h * w
	out := make([]float32, 3*planeLen)
	for c := 0; c < 3; c++ {
		plane, err := channels[c].DataPtrFloat32()
		if err != nil {
			return nil, fmt.Errorf("preprocess: reading channel %d: %w", c, err)
		}
		copy(out[c*planeLen:(c+1)*planeLen], plane)
	}

	return out, nil
}
