// Package style resolves effective caption styling: global/per-cue merge,
// font sizing, letter spacing, and renderer color forms. Resolution never
// fails; bad inputs degrade to documented defaults.
package style

import (
	"math"
	"strings"

	"captionburn/internal/captions"
)

const (
	// DefaultSizeRatio is used when the track carries no usable ratio.
	DefaultSizeRatio = 0.25

	minSizeRatio = 0.05
	maxSizeRatio = 0.30
)

// Effective is a fully resolved style for one cue.
type Effective struct {
	Mode          captions.Mode
	Color         string
	FontFamily    string
	FontWeight    string
	FontSizeRatio float64
	LetterSpacing float64
	Uppercase     bool
}

// Resolve merges a cue's override onto the global style field by field.
// Override fields take precedence; absent fields inherit.
func Resolve(global captions.Style, override *captions.StyleOverride) Effective {
	eff := Effective{
		Mode:          captions.ParseMode(global.Mode),
		Color:         global.Color,
		FontFamily:    global.FontFamily,
		FontWeight:    global.FontWeight,
		FontSizeRatio: global.FontSizeRatio,
		LetterSpacing: global.LetterSpacing,
		Uppercase:     global.Uppercase,
	}

	if override == nil {
		return eff
	}
	if override.Mode != nil {
		eff.Mode = captions.ParseMode(*override.Mode)
	}
	if override.Color != nil {
		eff.Color = *override.Color
	}
	if override.FontFamily != nil {
		eff.FontFamily = *override.FontFamily
	}
	if override.FontWeight != nil {
		eff.FontWeight = *override.FontWeight
	}
	if override.FontSizeRatio != nil {
		eff.FontSizeRatio = *override.FontSizeRatio
	}
	if override.LetterSpacing != nil {
		eff.LetterSpacing = *override.LetterSpacing
	}
	if override.Uppercase != nil {
		eff.Uppercase = *override.Uppercase
	}
	return eff
}

// ClampSizeRatio bounds a font size ratio to [0.05, 0.30] of frame height.
// Non-finite or unset ratios default to 0.25.
func ClampSizeRatio(ratio float64) float64 {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio == 0 {
		ratio = DefaultSizeRatio
	}
	if ratio < minSizeRatio {
		return minSizeRatio
	}
	if ratio > maxSizeRatio {
		return maxSizeRatio
	}
	return ratio
}

// FontSizePx converts a size ratio into pixels for a frame height.
func FontSizePx(ratio float64, frameHeight int) int {
	return int(math.Round(ClampSizeRatio(ratio) * float64(frameHeight)))
}

// SpacingParam converts a letter spacing value into a drawtext pixel
// spacing. Values near zero produce no spacing (0). Small magnitudes are
// treated as em-like ratios of the font size; larger ones as literal pixels.
func SpacingParam(letterSpacing float64, fontSizePx int) int {
	if math.IsNaN(letterSpacing) || math.IsInf(letterSpacing, 0) {
		return 0
	}
	if math.Abs(letterSpacing) < 1e-9 {
		return 0
	}
	if math.Abs(letterSpacing) < 5 {
		return int(math.Round(letterSpacing * float64(fontSizePx)))
	}
	return int(math.Round(letterSpacing))
}

// DrawColor returns the renderer color for a mode. Default mode uses the
// configured color with the hex prefix rewritten to ffmpeg's 0x form.
// Negative and Cutout force pure white: visibility there is driven by mask
// luminance, not hue.
func DrawColor(mode captions.Mode, configured string) string {
	if mode != captions.ModeDefault {
		return "white"
	}
	c := strings.TrimSpace(configured)
	if c == "" {
		return "white"
	}
	if strings.HasPrefix(c, "#") {
		return "0x" + c[1:]
	}
	return c
}

// ApplyCase uppercases cue text when the style asks for it.
func ApplyCase(eff Effective, text string) string {
	if eff.Uppercase {
		return strings.ToUpper(text)
	}
	return text
}
