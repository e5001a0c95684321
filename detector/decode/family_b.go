/*
DESCRIPTION
  family_b.go decodes family B (anchor-free, no objectness) model output.
  Family B models export either (num_boxes, 4+num_classes) or
  (4+num_classes, num_boxes); the decoder detects which layout is in use
  from the output shape before walking it.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

package decode

// FamilyB decodes a family-B output tensor with dims (d1, d2) — where one
// of d1, d2 is the box count and the other is 4+num_classes — into
// candidate detections in original-image pixel space, per spec.md
// §4.5.2. The larger of d1, d2 is taken as the box count and the smaller
// as the feature count.
func FamilyB(data []float32, d1, d2 int, lb LetterboxParams,
	confThreshold float32, origWidth, origHeight float32,
) []Candidate {
	numBoxes := d1
	features := d2
	transposed := false
	if d2 > d1 {
		numBoxes = d2
		features = d1
		transposed = true
	}
	numClasses := features - 4
	if numClasses < 1 {
		return nil
	}

	// at returns feature f of box i regardless of layout.
	at := func(f, i int) float32 {
		if transposed {
			// data is (features, numBoxes): row-major, feature outer.
			return data[f*numBoxes+i]
		}
		// data is (numBoxes, features): row-major, box outer.
		return data[i*features+f]
	}

	var out []Candidate
	for i := 0; i < numBoxes; i++ {
		cx := at(0, i)
		cy := at(1, i)
		w := at(2, i)
		h := at(3, i)

		maxClass := 0
		maxScore := at(4, i)
		for c := 1; c < numClasses; c++ {
			s := at(4+c, i)
			if s > maxScore {
				maxScore = s
				maxClass = c
			}
		}

		if !isFinite(maxScore) || maxScore < confThreshold {
			continue
		}
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
			Confidence: maxScore,
			X1:         x1, Y1: y1, X2: x2, Y2: y2,
		})
	}

	return out
}
