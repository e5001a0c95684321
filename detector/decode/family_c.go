/*
DESCRIPTION
  family_c.go decodes family C (already-decoded, in-graph NMS) model
  output: rows of (class_id, score, x1, y1, x2, y2) already in
  original-image pixel space, because the graph received scale_factor =
  input/original. No further geometric transform or NMS is applied.

LICENSE
  Copyright (C) 2026 the detect authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the detect authors.
*/

package decode

// FamilyC decodes a family-C output tensor of shape (num_detections, 6)
// into candidate detections, per spec.md §4.5.3. Degenerate sizes
// (numDetections <= 0) are valid and return an empty list.
func FamilyC(data []float32, numDetections int, confThreshold float32, origWidth, origHeight float32) []Candidate {
	if numDetections <= 0 {
		return nil
	}

	var out []Candidate
	for i := 0; i < numDetections; i++ {
		row := data[i*6 : i*6+6]

		classID := int(row[0])
		score := row[1]
		if classID < 0 || !isFinite(score) || score < confThreshold {
			continue
		}

		x1, y1, x2, y2 := row[2], row[3], row[4], row[5]
		if !isFinite(x1) || !isFinite(y1) || !isFinite(x2) || !isFinite(y2) {
			continue
		}
		x1, y1, x2, y2 = clampBox(x1, y1, x2, y2, origWidth, origHeight)

		out = append(out, Candidate{
			ClassID:    classID,
			Confidence: score,
			X1:         x1, Y1: y1, X2: x2, Y2: y2,
		})
	}

	return out
}
