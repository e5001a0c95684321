package onnxrt

import "testing"

func TestProviderOrder(t *testing.T) {
	want := []string{"CUDA", "CoreML", "DirectML"}
	if len(providers) != len(want) {
		t.Fatalf("len(providers) = %d, want %d", len(providers), len(want))
	}
	for i, name := range want {
		if providers[i].name != name {
			t.Errorf("providers[%d].name = %q, want %q", i, providers[i].name, name)
		}
	}
}
