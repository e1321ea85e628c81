package fonts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Montserrat-Bold.ttf")
	if err := os.WriteFile(path, []byte("stub"), 0644); err != nil {
		t.Fatalf("write stub font: %v", err)
	}

	spec := NewRegistry(dir).Resolve("Montserrat", "700")
	if spec.File != path {
		t.Errorf("File = %q, want %q", spec.File, path)
	}
	if spec.Family != "" {
		t.Errorf("Family should be empty when a file resolves, got %q", spec.Family)
	}
}

func TestResolveWeightFallback(t *testing.T) {
	dir := t.TempDir()
	// Only the 700 weight exists on disk; a request for 900 should land
	// on it via the fallback order.
	bold := filepath.Join(dir, "Inter-Bold.ttf")
	if err := os.WriteFile(bold, []byte("stub"), 0644); err != nil {
		t.Fatalf("write stub font: %v", err)
	}
	extra := filepath.Join(dir, "Inter-ExtraBold.ttf")
	if err := os.WriteFile(extra, []byte("stub"), 0644); err != nil {
		t.Fatalf("write stub font: %v", err)
	}

	spec := NewRegistry(dir).Resolve("Inter", "900")
	if spec.File != extra {
		t.Errorf("File = %q, want first fallback %q", spec.File, extra)
	}
}

func TestResolveMissingFileDegradesToFamily(t *testing.T) {
	// Known family and weight, but nothing on disk: never an error,
	// always a bare family-name reference.
	spec := NewRegistry(t.TempDir()).Resolve("Montserrat", "700")
	if spec.File != "" {
		t.Errorf("File = %q, want empty", spec.File)
	}
	if spec.Family != "Montserrat" {
		t.Errorf("Family = %q, want Montserrat", spec.Family)
	}
}

func TestResolveUnknownFamily(t *testing.T) {
	spec := NewRegistry(t.TempDir()).Resolve("Wingdings", "700")
	if spec.Family != "Wingdings" {
		t.Errorf("Family = %q, want Wingdings", spec.Family)
	}
	if spec.File != "" {
		t.Errorf("File = %q, want empty", spec.File)
	}
}

func TestWeightsUnknownFamily(t *testing.T) {
	if w := NewRegistry(t.TempDir()).Weights("Nope"); w != nil {
		t.Errorf("Weights for unknown family = %v, want nil", w)
	}
}
