package family

import "testing"

func TestIdentifyFamilyA(t *testing.T) {
	inputs := []TensorInfo{{Name: "images", Dims: []int64{1, 3, 640, 640}}}
	outputs := []TensorInfo{{Name: "output0", Dims: []int64{1, 25200, 85}}}

	res, err := Identify(inputs, outputs)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if res.Family != A {
		t.Errorf("Family = %v, want A", res.Family)
	}
	if res.NumClasses != 80 {
		t.Errorf("NumClasses = %d, want 80", res.NumClasses)
	}
	if res.InputWidth != 640 || res.InputHeight != 640 {
		t.Errorf("input size = %dx%d, want 640x640", res.InputWidth, res.InputHeight)
	}
}

func TestIdentifyFamilyANonSquareRejected(t *testing.T) {
	inputs := []TensorInfo{{Name: "images", Dims: []int64{1, 3, 480, 640}}}
	outputs := []TensorInfo{{Name: "output0", Dims: []int64{1, 16, 85}}}

	_, err := Identify(inputs, outputs)
	if err != ErrNonSquareInput {
		t.Fatalf("Identify() error = %v, want ErrNonSquareInput", err)
	}
}

func TestIdentifyFamilyBTransposed(t *testing.T) {
	inputs := []TensorInfo{{Name: "images", Dims: []int64{1, 3, 640, 640}}}
	// YOLOv8-style (batch, 84, 8400) layout.
	outputs := []TensorInfo{{Name: "output0", Dims: []int64{1, 84, 8400}}}

	res, err := Identify(inputs, outputs)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if res.Family != B {
		t.Errorf("Family = %v, want B", res.Family)
	}
	if res.NumClasses != 80 {
		t.Errorf("NumClasses = %d, want 80", res.NumClasses)
	}
}

func TestIdentifyFamilyCByInputName(t *testing.T) {
	inputs := []TensorInfo{
		{Name: "image", Dims: []int64{1, 3, 640, 640}},
		{Name: "scale_factor", Dims: []int64{1, 2}},
	}
	outputs := []TensorInfo{{Name: "detections", Dims: []int64{300, 6}}}

	res, err := Identify(inputs, outputs)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if res.Family != C {
		t.Errorf("Family = %v, want C", res.Family)
	}
	if res.ImageInputIdx != 0 || res.ScaleInputIdx != 1 {
		t.Errorf("ImageInputIdx=%d ScaleInputIdx=%d, want 0,1", res.ImageInputIdx, res.ScaleInputIdx)
	}
}

func TestIdentifyFamilyCDefaultIndices(t *testing.T) {
	// The scale input is found by name but no input name contains "image" —
	// per spec.md §9, default to {image: 1, scale: 0}.
	inputs := []TensorInfo{
		{Name: "scalefoo", Dims: []int64{1, 2}},
		{Name: "x", Dims: []int64{1, 3, 640, 640}},
	}
	outputs := []TensorInfo{{Name: "y", Dims: []int64{300, 6}}}

	res, err := Identify(inputs, outputs)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if res.Family != C {
		t.Fatalf("Family = %v, want C", res.Family)
	}
	if res.ImageInputIdx != 1 || res.ScaleInputIdx != 0 {
		t.Errorf("ImageInputIdx=%d ScaleInputIdx=%d, want 1,0", res.ImageInputIdx, res.ScaleInputIdx)
	}
}

func TestIdentifyDynamicAxisDefaultsInputSize(t *testing.T) {
	// A dynamic-axis export reports spatial dims as -1; Identify must fall
	// back to the default 640x640 resolution rather than leaving it 0.
	inputs := []TensorInfo{{Name: "images", Dims: []int64{-1, 3, -1, -1}}}
	outputs := []TensorInfo{{Name: "output0", Dims: []int64{1, 25200, 85}}}

	res, err := Identify(inputs, outputs)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if res.InputWidth != 640 || res.InputHeight != 640 {
		t.Errorf("input size = %dx%d, want 640x640 default", res.InputWidth, res.InputHeight)
	}
}

func TestIdentifyGenericFeatureCount(t *testing.T) {
	inputs := []TensorInfo{{Name: "images", Dims: []int64{1, 3, 320, 320}}}
	// 4 box + 1 objectness + 10 classes = 15 features, family A.
	outputs := []TensorInfo{{Name: "output0", Dims: []int64{1, 2100, 15}}}

	res, err := Identify(inputs, outputs)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if res.Family != A {
		t.Errorf("Family = %v, want A", res.Family)
	}
	if res.NumClasses != 10 {
		t.Errorf("NumClasses = %d, want 10", res.NumClasses)
	}
}
