/*
DESCRIPTION
  decode.go defines the common candidate-detection type and clamping
  helpers shared by the family A, B and C decoders.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

// Package decode converts raw model output tensors into candidate
// detections in original-image pixel coordinates, and applies per-class
// non-maximum suppression to families A and B (family C already performs
// NMS in-graph).
package decode

import "math"

// Candidate is a single decoded detection before (families A, B) or
// after (family C) non-maximum suppression, in original-image pixel
// coordinates.
type Candidate struct {
	ClassID    int
	Confidence float32
	X1, Y1     float32
	X2, Y2     float32
}

// LetterboxParams carries the geometric transform the preprocessor
// applied so the decoder can invert it back to original-image space.
type LetterboxParams struct {
	Scale float32
	PadX  float32
	PadY  float32
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampBox clamps a box to the original image bounds and guarantees
// x1<=x2, y1<=y2 per spec.md's Detection invariant.
func clampBox(x1, y1, x2, y2, width, height float32) (float32, float32, float32, float32) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	x1 = clamp(x1, 0, width)
	x2 = clamp(x2, 0, width)
	y1 = clamp(y1, 0, height)
	y2 = clamp(y2, 0, height)
	return x1, y1, x2, y2
}

// invertLetterbox converts a center-size box in letterbox (model input)
// space to a corner box in original-image pixel space, per spec.md §4.5.1.
func invertLetterbox(cx, cy, w, h float32, lb LetterboxParams) (x1, y1, x2, y2 float32) {
	x1 = (cx - w/2 - lb.PadX) / lb.Scale
	y1 = (cy - h/2 - lb.PadY) / lb.Scale
	x2 = (cx + w/2 - lb.PadX) / lb.Scale
	y2 = (cy + h/2 - lb.PadY) / lb.Scale
	return
}

// isFinite reports whether v is neither NaN nor Inf; decoder numerical
// failures are discarded silently at the candidate level per spec.md §7.
func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
