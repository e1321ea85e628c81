// Package filtergraph models an ffmpeg -filter_complex option as a graph
// of labeled filter chains. Labels are allocated internally and the graph
// serializes to the filter grammar only once, at the end, so callers never
// hand-manage label counters or worry about collisions.
package filtergraph

import (
	"fmt"
	"strings"
)

// Stream is a labeled edge between filter chains. Internal streams are
// produced by exactly one chain and must be consumed exactly once.
type Stream struct {
	label    string
	external bool
}

// Input references an external input stream, e.g. "0:v".
func Input(label string) Stream {
	return Stream{label: label, external: true}
}

// Label returns the stream's link label.
func (s Stream) Label() string {
	return s.label
}

type chain struct {
	inputs  []Stream
	filters []string
	outs    []string
}

// Graph accumulates filter chains and serializes them.
type Graph struct {
	chains []*chain
	next   int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

func (g *Graph) alloc() string {
	label := fmt.Sprintf("v%d", g.next)
	g.next++
	return label
}

// Chain appends a filter chain consuming the given inputs and returns its
// single output stream. Filters are joined with commas in order.
func (g *Graph) Chain(inputs []Stream, filters ...string) Stream {
	out := g.alloc()
	g.chains = append(g.chains, &chain{
		inputs:  inputs,
		filters: filters,
		outs:    []string{out},
	})
	return Stream{label: out}
}

// Source appends a chain with no inputs, e.g. a color generator.
func (g *Graph) Source(filters ...string) Stream {
	return g.Chain(nil, filters...)
}

// Split duplicates a stream into two independent copies.
func (g *Graph) Split(in Stream) (Stream, Stream) {
	a, b := g.alloc(), g.alloc()
	g.chains = append(g.chains, &chain{
		inputs:  []Stream{in},
		filters: []string{"split=2"},
		outs:    []string{a, b},
	})
	return Stream{label: a}, Stream{label: b}
}

// Alias renames the stream's producing label, typically to expose the
// graph's terminal output under a stable name.
func (g *Graph) Alias(s Stream, name string) Stream {
	for _, c := range g.chains {
		for i, out := range c.outs {
			if out == s.label {
				c.outs[i] = name
				return Stream{label: name}
			}
		}
	}
	return s
}

// Empty reports whether no chains were added.
func (g *Graph) Empty() bool {
	return len(g.chains) == 0
}

// Validate checks the serialization invariant: every internal label is
// produced once and consumed exactly once, except terminal outputs which
// are consumed by the output mapping instead.
func (g *Graph) Validate(terminals ...string) error {
	produced := map[string]int{}
	consumed := map[string]int{}
	for _, c := range g.chains {
		for _, out := range c.outs {
			produced[out]++
		}
		for _, in := range c.inputs {
			if !in.external {
				consumed[in.label]++
			}
		}
	}
	terminal := map[string]bool{}
	for _, t := range terminals {
		terminal[t] = true
	}

	for label, n := range produced {
		if n > 1 {
			return fmt.Errorf("label %q produced %d times", label, n)
		}
		uses := consumed[label]
		if terminal[label] {
			if uses != 0 {
				return fmt.Errorf("terminal label %q consumed %d times", label, uses)
			}
			continue
		}
		if uses != 1 {
			return fmt.Errorf("label %q consumed %d times, want 1", label, uses)
		}
	}
	for label := range consumed {
		if produced[label] == 0 {
			return fmt.Errorf("label %q consumed but never produced", label)
		}
	}
	return nil
}

// String serializes the graph into -filter_complex form.
func (g *Graph) String() string {
	parts := make([]string, 0, len(g.chains))
	for _, c := range g.chains {
		var sb strings.Builder
		for _, in := range c.inputs {
			sb.WriteString("[" + in.label + "]")
		}
		sb.WriteString(strings.Join(c.filters, ","))
		for _, out := range c.outs {
			sb.WriteString("[" + out + "]")
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ";")
}
