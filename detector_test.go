package detector

import (
	"testing"

	"github.com/ausocean/detect/detector/result"
)

func TestNewDetectorIsNotInitialized(t *testing.T) {
	d := New(nil)
	if d.IsInitialized() {
		t.Error("IsInitialized() on fresh Detector = true, want false")
	}
}

func TestDetectFromPathBeforeInitReturnsNotInitialized(t *testing.T) {
	// Scenario S4: an uninitialized detector must return NOT_INITIALIZED
	// without attempting to touch ingress or inference at all.
	d := New(nil)
	rec := d.DetectFromPath("/nonexistent.jpg", 0.5, 0.5)
	if rec.Code != result.NotInitialized {
		t.Errorf("Code = %q, want %q", rec.Code, result.NotInitialized)
	}
	if len(rec.Detections) != 0 {
		t.Errorf("len(Detections) = %d, want 0", len(rec.Detections))
	}
}

func TestDetectFromBGRABeforeInitReturnsNotInitialized(t *testing.T) {
	d := New(nil)
	rec := d.DetectFromBGRA(nil, 10, 10, 40, 0.5, 0.5)
	if rec.Code != result.NotInitialized {
		t.Errorf("Code = %q, want %q", rec.Code, result.NotInitialized)
	}
}

func TestDetectFromYUVBeforeInitReturnsNotInitialized(t *testing.T) {
	d := New(nil)
	rec := d.DetectFromYUV(nil, nil, nil, 0, 0, 0, 10, 10, 1, 0, 0.5, 0.5)
	if rec.Code != result.NotInitialized {
		t.Errorf("Code = %q, want %q", rec.Code, result.NotInitialized)
	}
}

func TestSetClassNamesThenClassName(t *testing.T) {
	d := New(nil)
	d.SetClassNames([]string{"fish", "boat", "buoy"})
	if got := d.className(1); got != "boat" {
		t.Errorf("className(1) = %q, want \"boat\"", got)
	}
	if got := d.className(99); got != "" {
		t.Errorf("className(99) = %q, want \"\" (out of range)", got)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	d := New(nil)
	d.Release()
	d.Release()
	if d.IsInitialized() {
		t.Error("IsInitialized() after Release() = true, want false")
	}
}

func TestRecoverPanicConvertsToRuntimeError(t *testing.T) {
	d := New(nil)
	var rec *result.Record
	func() {
		defer d.recoverPanic(&rec)
		panic("synthetic native-boundary failure")
	}()
	if rec == nil || rec.Code != result.RuntimeError {
		t.Errorf("recoverPanic() rec = %+v, want Code=%q", rec, result.RuntimeError)
	}
}
