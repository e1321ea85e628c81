package captions

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `{
  "lines": [
    {"startMs": 0, "endMs": 1200, "text": "hello there", "useGlobalStyle": true},
    {"startMs": 1200, "endMs": 1200, "text": "zero length"},
    {"startMs": -300, "endMs": 500, "text": "clamped start"}
  ],
  "words": [
    {"startMs": 1200, "endMs": 1500, "text": "hello", "styleOverride": {"mode": "cutout"}}
  ],
  "style": {
    "mode": "negative",
    "color": "#FFEE00",
    "fontFamily": "Inter",
    "fontWeight": "800",
    "fontSizeRatio": 0.18,
    "uppercase": true
  },
  "displayRanges": [
    {"mode": "word", "startMs": 1200, "endMs": 1500}
  ],
  "durationMs": 4000
}`

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestLoadTrack(t *testing.T) {
	track, err := LoadTrack(writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}

	if len(track.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(track.Lines))
	}
	if ParseMode(track.Style.Mode) != ModeNegative {
		t.Errorf("style mode = %q", track.Style.Mode)
	}
	if !track.Style.Uppercase {
		t.Error("uppercase flag lost")
	}
	if track.DurationMs != 4000 {
		t.Errorf("duration = %d", track.DurationMs)
	}

	// Negative start clamped by sanitize
	if track.Lines[2].StartMs != 0 {
		t.Errorf("negative start not clamped: %d", track.Lines[2].StartMs)
	}

	if track.Words[0].StyleOverride == nil || track.Words[0].StyleOverride.Mode == nil {
		t.Fatal("word style override lost")
	}
	if ParseMode(*track.Words[0].StyleOverride.Mode) != ModeCutout {
		t.Errorf("word override mode = %q", *track.Words[0].StyleOverride.Mode)
	}
}

func TestLoadTrackMissingFile(t *testing.T) {
	if _, err := LoadTrack(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadTrackBadJSON(t *testing.T) {
	if _, err := LoadTrack(writeDoc(t, "{not json")); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestDrawable(t *testing.T) {
	tests := []struct {
		name     string
		cue      Cue
		expected bool
	}{
		{"positive span", Cue{StartMs: 0, EndMs: 100}, true},
		{"zero length", Cue{StartMs: 100, EndMs: 100}, false},
		{"inverted", Cue{StartMs: 200, EndMs: 100}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cue.Drawable(); got != tt.expected {
				t.Errorf("Drawable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDrawableCount(t *testing.T) {
	track, err := LoadTrack(writeDoc(t, sampleDoc))
	if err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}
	// Two drawable lines plus one drawable word.
	if got := track.DrawableCount(); got != 3 {
		t.Errorf("DrawableCount = %d, want 3", got)
	}
}

func TestParseModeFallback(t *testing.T) {
	tests := []struct {
		in       string
		expected Mode
	}{
		{"default", ModeDefault},
		{"negative", ModeNegative},
		{"cutout", ModeCutout},
		{"", ModeDefault},
		{"sparkle", ModeDefault},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.expected {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.expected)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	track := &Track{}
	track.ApplyDefaults("Montserrat", "700", "#FFFFFF", 0.25)

	if track.Style.FontFamily != "Montserrat" || track.Style.FontSizeRatio != 0.25 {
		t.Errorf("defaults not applied: %+v", track.Style)
	}

	// Existing values win over defaults.
	track2 := &Track{Style: Style{FontFamily: "Inter", FontSizeRatio: 0.1}}
	track2.ApplyDefaults("Montserrat", "700", "#FFFFFF", 0.25)
	if track2.Style.FontFamily != "Inter" || track2.Style.FontSizeRatio != 0.1 {
		t.Errorf("defaults clobbered track style: %+v", track2.Style)
	}
}
