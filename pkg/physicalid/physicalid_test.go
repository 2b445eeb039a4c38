package physicalid

import "testing"

func TestProbeReturnsCapacityForExistingPath(t *testing.T) {
	bundle, err := Probe(t.TempDir())
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if bundle.CapacityBytes <= 0 {
		t.Fatalf("expected a positive capacity, got %d", bundle.CapacityBytes)
	}
	if bundle.UsedBytes < 0 {
		t.Fatalf("expected non-negative used bytes, got %d", bundle.UsedBytes)
	}
}

func TestProbeNeverFailsOnShellOutAbsence(t *testing.T) {
	// Identifier fields are best-effort; a missing shell tool must not
	// surface as an error from Probe.
	if _, err := Probe(t.TempDir()); err != nil {
		t.Fatalf("probe must not fail due to identifier shell-outs: %v", err)
	}
}
