package result

import (
	"encoding/json"
	"testing"
)

func TestNewRoundsConfidenceAndCoordinates(t *testing.T) {
	r := New([]Detection{
		{ClassID: 2, ClassName: "fish", Confidence: 0.123456, X1: 1.2345, Y1: 2.3456, X2: 3.4567, Y2: 4.5678},
	}, 42, 640, 480)

	if r.Count != 1 {
		t.Fatalf("Count = %d, want 1", r.Count)
	}
	d := r.Detections[0]
	if d.Confidence != 0.1235 {
		t.Errorf("Confidence = %v, want 0.1235 (4dp)", d.Confidence)
	}
	if d.X1 != 1.23 || d.Y1 != 2.35 || d.X2 != 3.46 || d.Y2 != 4.57 {
		t.Errorf("coords = (%v,%v,%v,%v), want (1.23,2.35,3.46,4.57) (2dp)", d.X1, d.Y1, d.X2, d.Y2)
	}
	if r.InferenceTimeMs != 42 || r.ImageWidth != 640 || r.ImageHeight != 480 {
		t.Errorf("timing/dims = (%d,%d,%d), want (42,640,480)", r.InferenceTimeMs, r.ImageWidth, r.ImageHeight)
	}
	if r.Error != "" || r.Code != "" {
		t.Errorf("successful record has error=%q code=%q, want both empty", r.Error, r.Code)
	}
}

func TestNewZeroDetections(t *testing.T) {
	r := New(nil, 10, 640, 480)
	if r.Count != 0 {
		t.Errorf("Count = %d, want 0", r.Count)
	}
	if r.Error != "" {
		t.Error("zero-detection record must not carry an error")
	}
}

func TestNewErrorRecordHasEmptyDetections(t *testing.T) {
	r := NewError(NotInitialized, "detector not initialized")
	if len(r.Detections) != 0 {
		t.Errorf("len(Detections) = %d, want 0", len(r.Detections))
	}
	if r.Code != NotInitialized {
		t.Errorf("Code = %q, want %q", r.Code, NotInitialized)
	}
	if r.Error == "" {
		t.Error("error record must carry a message")
	}
}

func TestJSONOmitsErrorFieldsWhenSuccessful(t *testing.T) {
	r := New(nil, 1, 10, 10)
	s, err := r.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if _, ok := m["error"]; ok {
		t.Error("successful record JSON must omit \"error\"")
	}
	if _, ok := m["code"]; ok {
		t.Error("successful record JSON must omit \"code\"")
	}
}

func TestJSONIsCached(t *testing.T) {
	r := New(nil, 1, 10, 10)
	first, _ := r.JSON()
	r.Count = 99 // mutate after caching; cached value must not change
	second, _ := r.JSON()
	if first != second {
		t.Error("JSON() result changed after mutation, want cached value")
	}
}

func TestReleaseClearsCache(t *testing.T) {
	r := New(nil, 1, 10, 10)
	_, _ = r.JSON()
	r.Release()
	if r.json != "" {
		t.Error("Release() did not clear cached JSON")
	}
}

func TestReleaseOnNilRecordDoesNotPanic(t *testing.T) {
	var r *Record
	r.Release()
}
