package captions

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadTrack reads a caption track document from disk.
func LoadTrack(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read caption track: %w", err)
	}

	var track Track
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("parse caption track: %w", err)
	}

	track.sanitize()
	return &track, nil
}

// sanitize clamps negative timestamps. Style fields are never validated
// here; downstream resolution degrades them to defaults instead.
func (t *Track) sanitize() {
	clamp := func(cues []Cue) {
		for i := range cues {
			if cues[i].StartMs < 0 {
				cues[i].StartMs = 0
			}
			if cues[i].EndMs < 0 {
				cues[i].EndMs = 0
			}
		}
	}
	clamp(t.Lines)
	clamp(t.Words)

	for i := range t.DisplayRanges {
		if t.DisplayRanges[i].StartMs < 0 {
			t.DisplayRanges[i].StartMs = 0
		}
		if t.DisplayRanges[i].EndMs < 0 {
			t.DisplayRanges[i].EndMs = 0
		}
	}
	if t.DurationMs < 0 {
		t.DurationMs = 0
	}
}

// ApplyDefaults fills unset global style fields from configuration.
func (t *Track) ApplyDefaults(family, weight, color string, sizeRatio float64) {
	if t.Style.FontFamily == "" {
		t.Style.FontFamily = family
	}
	if t.Style.FontWeight == "" {
		t.Style.FontWeight = weight
	}
	if t.Style.Color == "" {
		t.Style.Color = color
	}
	if t.Style.FontSizeRatio == 0 {
		t.Style.FontSizeRatio = sizeRatio
	}
}

// DrawableCount reports how many cues would actually draw.
func (t *Track) DrawableCount() int {
	n := 0
	for _, c := range t.Lines {
		if c.Drawable() {
			n++
		}
	}
	for _, c := range t.Words {
		if c.Drawable() {
			n++
		}
	}
	return n
}
