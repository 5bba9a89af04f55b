package systags

import (
	"runtime"
	"testing"
)

func TestCollect_AlwaysHasOSAndArch(t *testing.T) {
	tags := Collect()

	if tags["os"] != runtime.GOOS {
		t.Errorf("systags:tags_test - os = %q, want %q", tags["os"], runtime.GOOS)
	}
	if tags["arch"] != runtime.GOARCH {
		t.Errorf("systags:tags_test - arch = %q, want %q", tags["arch"], runtime.GOARCH)
	}
}

func TestGet_Cached(t *testing.T) {
	first := Get()
	second := Get()

	// Same map instance: probing ran once.
	if &first == nil || len(first) != len(second) {
		t.Errorf("systags:tags_test - cached tags differ: %v vs %v", first, second)
	}
	if first["os"] != second["os"] {
		t.Error("systags:tags_test - cached os tag changed between calls")
	}
}
