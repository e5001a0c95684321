package decode

import (
	"math"
	"testing"
)

func TestFamilyBLayoutBoxesOuter(t *testing.T) {
	// (num_boxes, 4+num_classes) layout: d1=8 boxes, d2=6 features (4+2 classes).
	// FamilyB takes the larger dim as the box count, so there must be more
	// boxes than features; boxes 2..7 are all-zero and dropped.
	numClasses := 2
	numBoxes := 8
	features := 4 + numClasses
	data := make([]float32, numBoxes*features)
	copy(data, []float32{
		// box 0: low score, should be dropped.
		100, 100, 20, 20, 0.1, 0.05,
		// box 1: strong detection of class 1.
		320, 320, 64, 64, 0.05, 0.95,
	})

	cands := FamilyB(data, numBoxes, features, LetterboxParams{Scale: 1}, 0.5, 640, 640)
	if len(cands) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(cands))
	}
	if cands[0].ClassID != 1 {
		t.Errorf("ClassID = %d, want 1", cands[0].ClassID)
	}
	if math.Abs(float64(cands[0].Confidence-0.95)) > 1e-6 {
		t.Errorf("Confidence = %v, want 0.95", cands[0].Confidence)
	}
}

func TestFamilyBLayoutFeaturesOuter(t *testing.T) {
	// (4+num_classes, num_boxes) layout: d1=6 features, d2=8 boxes
	// (boxes 2..7 are all-zero and dropped).
	numClasses := 2
	numBoxes := 8
	features := 4 + numClasses
	data := make([]float32, features*numBoxes)
	// feature f, box i -> data[f*numBoxes+i]
	set := func(f, i int, v float32) { data[f*numBoxes+i] = v }

	// box 0: center (320,320), size (64,64), class 0 strong.
	set(0, 0, 320)
	set(1, 0, 320)
	set(2, 0, 64)
	set(3, 0, 64)
	set(4, 0, 0.9) // class 0
	set(5, 0, 0.1) // class 1

	// box 1: below threshold.
	set(4, 1, 0.05)
	set(5, 1, 0.02)

	cands := FamilyB(data, features, numBoxes, LetterboxParams{Scale: 1}, 0.5, 640, 640)
	if len(cands) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(cands))
	}
	if cands[0].ClassID != 0 {
		t.Errorf("ClassID = %d, want 0", cands[0].ClassID)
	}
	cx := (cands[0].X1 + cands[0].X2) / 2
	if math.Abs(float64(cx-320)) > 1e-3 {
		t.Errorf("center x = %v, want 320", cx)
	}
}

func TestFamilyBDegenerateFeatureCount(t *testing.T) {
	// features-4 < 1 means no class slot at all; must not panic, returns nil.
	cands := FamilyB([]float32{1, 2, 3}, 1, 3, LetterboxParams{Scale: 1}, 0.1, 640, 640)
	if cands != nil {
		t.Errorf("candidates = %v, want nil", cands)
	}
}
