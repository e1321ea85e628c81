package fonts

import (
	"path/filepath"
	"sort"

	"captionburn/pkg/util"
)

// Spec is a resolved font reference for a drawtext operation. Exactly one
// of File and Family is set: File points at a font resource on disk,
// Family is the bare fallback handed to fontconfig.
type Spec struct {
	File   string
	Family string
}

// weightFallback is the order weights are tried when the requested one is
// not in the table.
var weightFallback = []string{"800", "700", "400"}

// Registry maps (family, weight) pairs onto font resource files under a
// base directory. The table is fixed; it is consulted, not generated.
type Registry struct {
	baseDir  string
	families map[string]map[string]string
}

// NewRegistry creates a registry over the bundled font table.
func NewRegistry(baseDir string) *Registry {
	return &Registry{
		baseDir: baseDir,
		families: map[string]map[string]string{
			"Montserrat": {
				"400": "Montserrat-Regular.ttf",
				"700": "Montserrat-Bold.ttf",
				"800": "Montserrat-ExtraBold.ttf",
				"900": "Montserrat-Black.ttf",
			},
			"Inter": {
				"400": "Inter-Regular.ttf",
				"700": "Inter-Bold.ttf",
				"800": "Inter-ExtraBold.ttf",
			},
			"Archivo": {
				"400": "Archivo-Regular.ttf",
				"700": "Archivo-Bold.ttf",
				"800": "Archivo-ExtraBold.ttf",
			},
			"Oswald": {
				"400": "Oswald-Regular.ttf",
				"700": "Oswald-Bold.ttf",
			},
			"Anton": {
				"400": "Anton-Regular.ttf",
			},
		},
	}
}

// Resolve returns the font spec for a family and weight. Weight variants
// are tried in order requested, 800, 700, 400. An unknown family or a
// matched file missing on disk degrades to a bare family-name reference;
// resolution never fails.
func (r *Registry) Resolve(family, weight string) Spec {
	weights, ok := r.families[family]
	if !ok {
		return Spec{Family: family}
	}

	tried := append([]string{weight}, weightFallback...)
	for _, w := range tried {
		file, ok := weights[w]
		if !ok {
			continue
		}
		path := filepath.Join(r.baseDir, file)
		if util.FileExists(path) {
			return Spec{File: path}
		}
		// Matched in the table but absent on disk: fall back to the
		// family name rather than referencing a dead path.
		return Spec{Family: family}
	}

	return Spec{Family: family}
}

// Families lists the registered family names.
func (r *Registry) Families() []string {
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Weights lists the registered weights and files for a family.
func (r *Registry) Weights(family string) map[string]string {
	weights, ok := r.families[family]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(weights))
	for w, f := range weights {
		out[w] = filepath.Join(r.baseDir, f)
	}
	return out
}
