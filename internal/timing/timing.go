// Package timing builds the time-window predicates that gate draw
// operations. All predicates are end-exclusive: a cue ending at t never
// renders on the frame at t, so back-to-back cues sharing a boundary
// timestamp never both draw.
package timing

import (
	"sort"
	"strings"

	"captionburn/pkg/util"
)

// Window is a [StartMs, EndMs) visibility interval.
type Window struct {
	StartMs int64
	EndMs   int64
}

// EnableExpr emits the half-open enable predicate for a cue, in seconds at
// microsecond precision: true for t in [start, end). Negative starts clamp
// to zero and an end before the start collapses the window to empty.
func EnableExpr(startMs, endMs int64) string {
	if startMs < 0 {
		startMs = 0
	}
	if endMs < startMs {
		endMs = startMs
	}
	return "gte(t," + util.FormatSeconds(startMs) + ")*lt(t," + util.FormatSeconds(endMs) + ")"
}

// WordModeActive reports whether a "word"-tagged display range strictly
// overlaps the cue's interval. The test is open-interval: a cue that merely
// touches a range boundary is not suppressed.
func WordModeActive(startMs, endMs int64, ranges []Window) bool {
	for _, r := range ranges {
		if startMs < r.EndMs && endMs > r.StartMs {
			return true
		}
	}
	return false
}

// MergeWindows coalesces visibility windows into minimal disjoint covering
// ranges: clamp negatives to zero, sort by start, then fold any window
// whose start is <= the running end into the running window. Idempotent on
// already-disjoint sorted input.
func MergeWindows(windows []Window) []Window {
	if len(windows) == 0 {
		return nil
	}

	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	for i := range sorted {
		if sorted[i].StartMs < 0 {
			sorted[i].StartMs = 0
		}
		if sorted[i].EndMs < 0 {
			sorted[i].EndMs = 0
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartMs < sorted[j].StartMs
	})

	merged := []Window{sorted[0]}
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if w.StartMs <= last.EndMs {
			if w.EndMs > last.EndMs {
				last.EndMs = w.EndMs
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// WindowsExpr emits a predicate that is true while any of the windows is
// active. Callers should merge first so the expression stays minimal.
func WindowsExpr(windows []Window) string {
	if len(windows) == 0 {
		return ""
	}
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = EnableExpr(w.StartMs, w.EndMs)
	}
	return strings.Join(parts, "+")
}
