/*
DESCRIPTION
  nms.go implements greedy per-class non-maximum suppression over decoded
  candidates: sort by descending confidence, then walk the list keeping
  each surviving candidate and suppressing later same-class candidates
  whose IoU with it exceeds the threshold.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

package decode

import "sort"

// NMS applies greedy per-class non-maximum suppression to candidates and
// returns the survivors in walk order (descending confidence, ties broken
// by original index), per spec.md §4.6. Applied only for families A and
// B — family C performs NMS in-graph and should not be passed here.
func NMS(candidates []Candidate, iouThreshold float32) []Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return candidates[order[i]].Confidence > candidates[order[j]].Confidence
	})

	suppressed := make([]bool, len(candidates))
	var survivors []Candidate

	for oi, i := range order {
		if suppressed[i] {
			continue
		}
		c := candidates[i]
		survivors = append(survivors, c)

		for _, j := range order[oi+1:] {
			if suppressed[j] {
				continue
			}
			cand := candidates[j]
			if cand.ClassID != c.ClassID {
				continue
			}
			if IoU(c, cand) > iouThreshold {
				suppressed[j] = true
			}
		}
	}

	return survivors
}

// IoU computes the intersection-over-union of two candidates' axis-
// aligned boxes. When the union area is zero, IoU is zero.
func IoU(a, b Candidate) float32 {
	ix1 := maxF(a.X1, b.X1)
	iy1 := maxF(a.Y1, b.Y1)
	ix2 := minF(a.X2, b.X2)
	iy2 := minF(a.Y2, b.Y2)

	iw := ix2 - ix1
	ih := iy2 - iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}
	intersection := iw * ih

	areaA := (a.X2 - a.X1) * (a.Y2 - a.Y1)
	areaB := (b.X2 - b.X1) * (b.Y2 - b.Y1)
	union := areaA + areaB - intersection
	if union <= 0 {
		return 0
	}

	return intersection / union
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
