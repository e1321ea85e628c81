// Package compose turns a caption track into a render-ready filter graph.
// Each drawable cue becomes exactly one drawtext operation routed into one
// of three mode buckets, each with its own alpha-masking topology.
package compose

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"captionburn/internal/captions"
	"captionburn/internal/filtergraph"
	"captionburn/internal/fonts"
	"captionburn/internal/style"
	"captionburn/internal/timing"
)

// OutputLabel is the alias given to the graph's terminal stream.
const OutputLabel = "vout"

// Profile selects the encode parameter set for the composed frame.
type Profile int

const (
	// ProfileStandard is the usual limited-range delivery profile.
	ProfileStandard Profile = iota
	// ProfileLossless keeps full chroma; the hard black/transparent glyph
	// boundary of cutout mode smears under chroma subsampling.
	ProfileLossless
)

func (p Profile) String() string {
	if p == ProfileLossless {
		return "lossless"
	}
	return "standard"
}

// Result is the assembled graph plus its encode profile. Graph is nil when
// no cue draws, in which case the raw input maps straight to the encoder.
type Result struct {
	Graph         *filtergraph.Graph
	FilterComplex string
	Profile       Profile
}

// draw is one resolved drawtext operation.
type draw struct {
	textRef string
	font    fonts.Spec
	color   string
	sizePx  int
	spacing int
	enable  string
	window  timing.Window
}

// Assembler routes cues into mode buckets and builds the compositing graph.
type Assembler struct {
	logger zerolog.Logger
	fonts  *fonts.Registry
	width  int
	height int
}

// NewAssembler creates an assembler for a frame size.
func NewAssembler(logger zerolog.Logger, registry *fonts.Registry, width, height int) *Assembler {
	return &Assembler{
		logger: logger.With().Str("component", "compose").Logger(),
		fonts:  registry,
		width:  width,
		height: height,
	}
}

// Assemble builds the full graph for a track. Text resources are written
// into the supplied TextDir, whose lifetime the caller owns.
func (a *Assembler) Assemble(track *captions.Track, textDir *TextDir) (*Result, error) {
	wordRanges := wordModeRanges(track.DisplayRanges)

	var defaults, negatives, cutouts []draw

	for _, cue := range track.Lines {
		if !cue.Drawable() || timing.WordModeActive(cue.StartMs, cue.EndMs, wordRanges) {
			continue
		}
		d, mode, err := a.resolveDraw(track.Style, cue, textDir)
		if err != nil {
			return nil, err
		}
		bucket(&defaults, &negatives, &cutouts, mode, d)
	}

	for _, cue := range track.Words {
		if !cue.Drawable() || !timing.WordModeActive(cue.StartMs, cue.EndMs, wordRanges) {
			continue
		}
		d, mode, err := a.resolveDraw(track.Style, cue, textDir)
		if err != nil {
			return nil, err
		}
		bucket(&defaults, &negatives, &cutouts, mode, d)
	}

	a.logger.Debug().
		Int("default", len(defaults)).
		Int("negative", len(negatives)).
		Int("cutout", len(cutouts)).
		Msg("cues bucketed")

	profile := ProfileStandard
	if len(cutouts) > 0 {
		profile = ProfileLossless
	}

	if len(defaults) == 0 && len(negatives) == 0 && len(cutouts) == 0 {
		return &Result{Profile: profile}, nil
	}

	g := filtergraph.New()
	cur := filtergraph.Input("0:v")

	if len(defaults) > 0 {
		cur = g.Chain([]filtergraph.Stream{cur}, drawFilters(defaults)...)
	}
	if len(negatives) > 0 {
		cur = a.composeNegative(g, cur, negatives)
	}
	if len(cutouts) > 0 {
		cur = a.composeCutout(g, cur, cutouts)
	}

	g.Alias(cur, OutputLabel)
	if err := g.Validate(OutputLabel); err != nil {
		return nil, fmt.Errorf("assemble filter graph: %w", err)
	}

	return &Result{
		Graph:         g,
		FilterComplex: g.String(),
		Profile:       profile,
	}, nil
}

// composeNegative inverts the frame's colors inside glyph shapes only: the
// current frame splits into an original and an inverted copy, the cue
// glyphs accumulate on a transparent canvas as a luminance mask, and the
// inverted copy is alpha-merged through that mask back onto the original.
func (a *Assembler) composeNegative(g *filtergraph.Graph, cur filtergraph.Stream, draws []draw) filtergraph.Stream {
	orig, inv := g.Split(cur)
	inverted := g.Chain([]filtergraph.Stream{inv}, "negate", "format=rgba")

	maskFilters := append([]string{a.canvas("black@0.0")}, drawFilters(draws)...)
	mask := g.Source(maskFilters...)

	masked := g.Chain([]filtergraph.Stream{inverted, mask}, "alphamerge")
	return g.Chain([]filtergraph.Stream{orig, masked}, "overlay")
}

// composeCutout blacks out the frame except inside glyph shapes, where the
// underlying video shows through, and gates the whole effect on the merged
// visibility window so it holds continuously across adjacent cues instead
// of re-triggering per cue.
func (a *Assembler) composeCutout(g *filtergraph.Graph, cur filtergraph.Stream, draws []draw) filtergraph.Stream {
	base, source := g.Split(cur)
	src := g.Chain([]filtergraph.Stream{source}, "format=rgba")

	plate := g.Source(a.canvas("black"))

	maskFilters := append([]string{a.canvas("black@0.0")}, drawFilters(draws)...)
	mask := g.Source(maskFilters...)

	masked := g.Chain([]filtergraph.Stream{src, mask}, "alphamerge")
	plated := g.Chain([]filtergraph.Stream{plate, masked}, "overlay")

	windows := make([]timing.Window, len(draws))
	for i, d := range draws {
		windows[i] = d.window
	}
	gate := timing.WindowsExpr(timing.MergeWindows(windows))

	return g.Chain([]filtergraph.Stream{base, plated},
		fmt.Sprintf("overlay=enable='%s'", gate))
}

func (a *Assembler) canvas(color string) string {
	return fmt.Sprintf("color=c=%s:s=%dx%d", color, a.width, a.height)
}

// resolveDraw resolves one cue into a concrete drawtext operation.
func (a *Assembler) resolveDraw(global captions.Style, cue captions.Cue, textDir *TextDir) (draw, captions.Mode, error) {
	override := cue.StyleOverride
	if cue.UseGlobalStyle {
		override = nil
	}
	eff := style.Resolve(global, override)

	ref, err := textDir.WriteText(style.ApplyCase(eff, cue.Text))
	if err != nil {
		return draw{}, eff.Mode, err
	}

	sizePx := style.FontSizePx(eff.FontSizeRatio, a.height)

	return draw{
		textRef: ref,
		font:    a.fonts.Resolve(eff.FontFamily, eff.FontWeight),
		color:   style.DrawColor(eff.Mode, eff.Color),
		sizePx:  sizePx,
		spacing: style.SpacingParam(eff.LetterSpacing, sizePx),
		enable:  timing.EnableExpr(cue.StartMs, cue.EndMs),
		window:  timing.Window{StartMs: cue.StartMs, EndMs: cue.EndMs},
	}, eff.Mode, nil
}

func bucket(defaults, negatives, cutouts *[]draw, mode captions.Mode, d draw) {
	switch mode {
	case captions.ModeNegative:
		*negatives = append(*negatives, d)
	case captions.ModeCutout:
		*cutouts = append(*cutouts, d)
	default:
		*defaults = append(*defaults, d)
	}
}

// drawFilter serializes one drawtext operation. Text comes from a file
// reference, the position is center-anchored, and the enable window keeps
// the draw inside its own time span.
func drawFilter(d draw) string {
	var sb strings.Builder
	sb.WriteString("drawtext=textfile=")
	sb.WriteString(d.textRef)
	if d.font.File != "" {
		sb.WriteString(":fontfile=")
		sb.WriteString(EscapeFilterPath(d.font.File))
	} else {
		sb.WriteString(":font=")
		sb.WriteString(d.font.Family)
	}
	sb.WriteString(":fontcolor=")
	sb.WriteString(d.color)
	sb.WriteString(fmt.Sprintf(":fontsize=%d", d.sizePx))
	sb.WriteString(":x=(w-text_w)/2:y=(h-text_h)/2")
	if d.spacing != 0 {
		sb.WriteString(fmt.Sprintf(":letter_spacing=%d", d.spacing))
	}
	sb.WriteString(":enable='")
	sb.WriteString(d.enable)
	sb.WriteString("'")
	return sb.String()
}

func drawFilters(draws []draw) []string {
	out := make([]string, len(draws))
	for i, d := range draws {
		out[i] = drawFilter(d)
	}
	return out
}

func wordModeRanges(ranges []captions.DisplayRange) []timing.Window {
	var out []timing.Window
	for _, r := range ranges {
		if r.Mode == "word" {
			out = append(out, timing.Window{StartMs: r.StartMs, EndMs: r.EndMs})
		}
	}
	return out
}
