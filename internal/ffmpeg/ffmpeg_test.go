package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func TestResolveBinaryOverrideWins(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "my-ffmpeg")
	if err := os.WriteFile(override, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("write override: %v", err)
	}

	got, err := resolveBinary("ffmpeg", override)
	if err != nil {
		t.Fatalf("resolveBinary: %v", err)
	}
	if got != override {
		t.Errorf("resolved %q, want override %q", got, override)
	}
}

func TestResolveBinaryMissingOverrideFallsThrough(t *testing.T) {
	skipIfNoFFmpeg(t)

	missing := filepath.Join(t.TempDir(), "nope")
	got, err := resolveBinary("ffmpeg", missing)
	if err != nil {
		t.Fatalf("resolveBinary: %v", err)
	}
	if got == missing {
		t.Error("missing override must not be used")
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec, err := New(zerolog.New(os.Stderr), "", 4)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if exec.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if exec.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}
}

func TestRunRequiresArgs(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), "", 0)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if err := e.Run(context.Background(), RunOptions{}); err == nil {
		t.Error("Run with no args should fail")
	}
}

func TestProbeVideoInvalidFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	e, err := New(zerolog.Nop(), "", 0)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	ctx := context.Background()

	if _, err := e.ProbeVideo(ctx, ""); err == nil {
		t.Error("ProbeVideo should fail for empty path")
	}

	invalidPath := filepath.Join(t.TempDir(), "invalid.txt")
	os.WriteFile(invalidPath, []byte("not a video"), 0644)

	if _, err := e.ProbeVideo(ctx, invalidPath); err == nil {
		t.Error("ProbeVideo should fail for invalid video file")
	}
}
