package captions

// Mode selects one of the three caption rendering styles.
type Mode int

const (
	ModeDefault Mode = iota
	ModeNegative
	ModeCutout
)

// ParseMode maps the document's string form onto the closed set.
// Unknown values render as ModeDefault.
func ParseMode(s string) Mode {
	switch s {
	case "negative":
		return ModeNegative
	case "cutout":
		return ModeCutout
	default:
		return ModeDefault
	}
}

func (m Mode) String() string {
	switch m {
	case ModeNegative:
		return "negative"
	case ModeCutout:
		return "cutout"
	default:
		return "default"
	}
}

// Style holds the track-wide caption styling.
type Style struct {
	Mode          string  `json:"mode"`
	Color         string  `json:"color"`
	FontFamily    string  `json:"fontFamily"`
	FontWeight    string  `json:"fontWeight"`
	FontSizeRatio float64 `json:"fontSizeRatio"`
	LetterSpacing float64 `json:"letterSpacing"`
	Uppercase     bool    `json:"uppercase"`
}

// StyleOverride carries per-cue deviations from the track style.
// Pointer fields distinguish "absent" from zero values.
type StyleOverride struct {
	Mode          *string  `json:"mode,omitempty"`
	Color         *string  `json:"color,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	FontWeight    *string  `json:"fontWeight,omitempty"`
	FontSizeRatio *float64 `json:"fontSizeRatio,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
	Uppercase     *bool    `json:"uppercase,omitempty"`
}

// Cue is a single timed text item, either a line or a word.
type Cue struct {
	StartMs        int64          `json:"startMs"`
	EndMs          int64          `json:"endMs"`
	Text           string         `json:"text"`
	UseGlobalStyle bool           `json:"useGlobalStyle"`
	StyleOverride  *StyleOverride `json:"styleOverride,omitempty"`
}

// Drawable reports whether the cue occupies a positive time span.
// Zero-length and inverted cues are dropped silently.
func (c Cue) Drawable() bool {
	return c.EndMs > c.StartMs
}

// DisplayRange marks an interval where one rendering granularity is
// authoritative. Mode "word" suppresses line-level draws.
type DisplayRange struct {
	Mode    string `json:"mode"`
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
}

// Track is the caption document: timed cues plus style metadata.
// Loaded once per render and never mutated.
type Track struct {
	Lines         []Cue          `json:"lines"`
	Words         []Cue          `json:"words"`
	Style         Style          `json:"style"`
	DisplayRanges []DisplayRange `json:"displayRanges"`
	DurationMs    int64          `json:"durationMs,omitempty"`
}
