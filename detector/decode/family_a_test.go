package decode

import (
	"math"
	"testing"
)

func TestBuildGridAOrder(t *testing.T) {
	grid := BuildGridA(640)

	want := 0
	for _, s := range strides {
		want += (640 / s) * (640 / s)
	}
	if len(grid) != want {
		t.Fatalf("len(grid) = %d, want %d", len(grid), want)
	}

	// First entries are stride 8, gy=0, gx=0..N-1 (gy outer, gx inner).
	if grid[0].stride != 8 || grid[0].gx != 0 || grid[0].gy != 0 {
		t.Errorf("grid[0] = %+v, want stride=8 gx=0 gy=0", grid[0])
	}
	gridSize8 := 640 / 8
	if grid[1].gx != 1 || grid[1].gy != 0 {
		t.Errorf("grid[1] = %+v, want gx=1 gy=0", grid[1])
	}
	// Row wraps after gridSize8 entries: gy becomes 1, gx resets to 0.
	if grid[gridSize8].gx != 0 || grid[gridSize8].gy != 1 {
		t.Errorf("grid[gridSize8] = %+v, want gx=0 gy=1", grid[gridSize8])
	}

	// Stride transitions to 16 after all of stride-8's cells.
	n8 := gridSize8 * gridSize8
	if grid[n8].stride != 16 || grid[n8].gx != 0 || grid[n8].gy != 0 {
		t.Errorf("grid[n8] = %+v, want stride=16 gx=0 gy=0", grid[n8])
	}
}

func TestFamilyADecodeCenteredBox(t *testing.T) {
	grid := BuildGridA(640)

	numClasses := 2
	features := 5 + numClasses
	data := make([]float32, len(grid)*features)

	// Place a single strong detection at the grid cell for stride 32,
	// grid cell (10, 10) -> center (10.5*32, 10.5*32) = (336, 336) in
	// letterbox space, class 1, with exact w/h of 64 (exp(ln 2)*32).
	targetIdx := -1
	for i, c := range grid {
		if c.stride == 32 && c.gx == 10 && c.gy == 10 {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		t.Fatal("could not locate target grid cell")
	}

	row := data[targetIdx*features : targetIdx*features+features]
	row[0], row[1] = 0.5, 0.5 // offset within cell
	row[2], row[3] = float32(math.Log(2)), float32(math.Log(2))
	row[4] = 0.9 // objectness
	row[5] = 0.1 // class 0 score
	row[6] = 0.95 // class 1 score

	lb := LetterboxParams{Scale: 1, PadX: 0, PadY: 0}
	cands := FamilyA(data, len(grid), numClasses, grid, lb, 0.25, 640, 640)

	if len(cands) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.ClassID != 1 {
		t.Errorf("ClassID = %d, want 1", c.ClassID)
	}
	wantConf := float32(0.9 * 0.95)
	if diff := c.Confidence - wantConf; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("Confidence = %v, want %v", c.Confidence, wantConf)
	}
	cx, cy := (c.X1+c.X2)/2, (c.Y1+c.Y2)/2
	if math.Abs(float64(cx-336)) > 1 || math.Abs(float64(cy-336)) > 1 {
		t.Errorf("center = (%v,%v), want ~(336,336)", cx, cy)
	}
	w, h := c.X2-c.X1, c.Y2-c.Y1
	if math.Abs(float64(w-64)) > 1 || math.Abs(float64(h-64)) > 1 {
		t.Errorf("size = (%v,%v), want ~(64,64)", w, h)
	}
}

func TestFamilyADropsBelowThreshold(t *testing.T) {
	grid := BuildGridA(640)
	numClasses := 1
	features := 5 + numClasses
	data := make([]float32, len(grid)*features)
	row := data[0:features]
	row[4] = 0.05 // objectness below threshold
	row[5] = 0.9

	cands := FamilyA(data, len(grid), numClasses, grid, LetterboxParams{Scale: 1}, 0.25, 640, 640)
	if len(cands) != 0 {
		t.Errorf("len(candidates) = %d, want 0", len(cands))
	}
}

func TestFamilyALetterboxInversion(t *testing.T) {
	// Scenario S2: 1280x720 original letterboxed into 640x640:
	// scale=0.5, pad_x=0, pad_y=140. A detection centered at (320,320) in
	// letterbox space must map back to (640,360) in original space.
	grid := BuildGridA(640)
	numClasses := 1
	features := 5 + numClasses

	var targetIdx int
	for i, c := range grid {
		if c.stride == 32 && c.gx == 9 && c.gy == 9 {
			targetIdx = i
			break
		}
	}
	data := make([]float32, len(grid)*features)
	row := data[targetIdx*features : targetIdx*features+features]
	// Offsets chosen so the center lands exactly on 320: (320/32)-9 = 1.0,
	// giving ((1+9)*32, (1+9)*32) = (320, 320).
	row[0], row[1] = 1.0, 1.0
	row[2], row[3] = float32(math.Log(1.0/32.0)), float32(math.Log(1.0/32.0)) // tiny box
	row[4] = 0.9
	row[5] = 0.9

	lb := LetterboxParams{Scale: 0.5, PadX: 0, PadY: 140}
	cands := FamilyA(data, len(grid), numClasses, grid, lb, 0.25, 1280, 720)
	if len(cands) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(cands))
	}
	cx := (cands[0].X1 + cands[0].X2) / 2
	cy := (cands[0].Y1 + cands[0].Y2) / 2
	if math.Abs(float64(cx-640)) > 2 {
		t.Errorf("center x = %v, want ~640", cx)
	}
	if math.Abs(float64(cy-360)) > 2 {
		t.Errorf("center y = %v, want ~360", cy)
	}
}
