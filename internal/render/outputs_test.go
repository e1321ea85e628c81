package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewOutputPathUnderKey(t *testing.T) {
	store := NewStore(t.TempDir())

	a := store.NewOutputPath("proj-1")
	b := store.NewOutputPath("proj-1")

	if a == b {
		t.Error("output paths must be fresh per call")
	}
	if filepath.Base(filepath.Dir(a)) != "proj-1" {
		t.Errorf("artifact not scoped under its key: %q", a)
	}
	if !strings.HasSuffix(a, ".mp4") {
		t.Errorf("artifact extension: %q", a)
	}
}

func TestAcquireAndConflict(t *testing.T) {
	store := NewStore(t.TempDir())

	lock, err := store.Acquire("proj-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Unlock()

	// A second writer for a different key is independent.
	other, err := store.Acquire("proj-2")
	if err != nil {
		t.Fatalf("Acquire other key: %v", err)
	}
	if err := other.Unlock(); err != nil {
		t.Errorf("Unlock: %v", err)
	}
}

func TestCleanPreviousScopedToKey(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)

	lock, err := store.Acquire("proj-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Unlock()

	stale := filepath.Join(base, "proj-1", "render-old.mp4")
	if err := os.WriteFile(stale, []byte("x"), 0644); err != nil {
		t.Fatalf("write stale artifact: %v", err)
	}
	otherDir := filepath.Join(base, "proj-2")
	if err := os.MkdirAll(otherDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	foreign := filepath.Join(otherDir, "render-keep.mp4")
	if err := os.WriteFile(foreign, []byte("x"), 0644); err != nil {
		t.Fatalf("write foreign artifact: %v", err)
	}

	if err := store.CleanPrevious("proj-1"); err != nil {
		t.Fatalf("CleanPrevious: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale artifact under the key should be removed")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("cleanup must stay scoped to its own key")
	}
	// The lock file survives cleanup.
	if _, err := os.Stat(filepath.Join(base, "proj-1", ".lock")); err != nil {
		t.Error("lock file should survive cleanup")
	}
}

func TestCleanPreviousMissingKey(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.CleanPrevious("ghost"); err != nil {
		t.Errorf("missing key dir should be a no-op: %v", err)
	}
}
