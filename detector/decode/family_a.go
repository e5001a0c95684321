/*
DESCRIPTION
  family_a.go decodes family A (anchor-free, with objectness) model
  output: a flat list of N_boxes rows of 4+1+num_classes features, one
  row per grid cell across strides 8/16/32, requiring exp-decoding of
  width/height and grid+stride reconstruction of the box center.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

package decode

import "math"

// strides are the three feature-map strides family A always exports at.
var strides = [3]int{8, 16, 32}

// gridCell is one precomputed (grid_x, grid_y, stride) entry for family A.
type gridCell struct {
	gx, gy int
	stride int
}

// BuildGridA precomputes the (grid_x, grid_y, stride) table for a square
// family-A input of size inputSize x inputSize, in the exact enumeration
// order spec.md §4.5.1 requires: for each stride in {8,16,32}, iterate
// grid row-major with gy outer, gx inner. This order is load-bearing —
// row i of the output tensor corresponds to table entry i — and must not
// change even when inputSize is not the default 640 (spec.md §9).
func BuildGridA(inputSize int) []gridCell {
	var table []gridCell
	for _, s := range strides {
		gridSize := inputSize / s
		for gy := 0; gy < gridSize; gy++ {
			for gx := 0; gx < gridSize; gx++ {
				table = append(table, gridCell{gx: gx, gy: gy, stride: s})
			}
		}
	}
	return table
}

// FamilyA decodes a family-A output tensor of shape (N_boxes,
// 4+1+num_classes) into candidate detections in original-image pixel
// space. grid must have been built with BuildGridA for the model's input
// size and have the same length as there are rows in data.
func FamilyA(data []float32, numRows, numClasses int, grid []gridCell, lb LetterboxParams,
	confThreshold float32, origWidth, origHeight float32,
) []Candidate {
	features := 5 + numClasses
	var out []Candidate

	for i := 0; i < numRows && i < len(grid); i++ {
		row := data[i*features : i*features+features]

		objectness := row[4]
		if !isFinite(objectness) || objectness < confThreshold {
			continue
		}

		maxClass := 0
		maxScore := row[5]
		for c := 1; c < numClasses; c++ {
			if row[5+c] > maxScore {
				maxScore = row[5+c]
				maxClass = c
			}
		}

		confidence := objectness * maxScore
		if !isFinite(confidence) || confidence < confThreshold {
			continue
		}

		cell := grid[i]
		stride := float32(cell.stride)

		cx := (row[0] + float32(cell.gx)) * stride
		cy := (row[1] + float32(cell.gy)) * stride
		w := float32(math.Exp(float64(row[2]))) * stride
		h := float32(math.Exp(float64(row[3]))) * stride

		if !isFinite(cx) || !isFinite(cy) || !isFinite(w) || !isFinite(h) {
			continue
		}

		x1, y1, x2, y2 := invertLetterbox(cx, cy, w, h, lb)
		if !isFinite(x1) || !isFinite(y1) || !isFinite(x2) || !isFinite(y2) {
			continue
		}
		x1, y1, x2, y2 = clampBox(x1, y1, x2, y2, origWidth, origHeight)

		out = append(out, Candidate{
			ClassID:    maxClass,
			Confidence: confidence,
			X1:         x1, Y1: y1, X2: x2, Y2: y2,
		})
	}

	return out
}
