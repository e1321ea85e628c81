package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextDir owns one scoped temporary directory holding the caption text
// resources for a single assembly. Cue text goes into files instead of
// inline filter arguments, which removes the whole escaping class around
// colons, quotes, and non-ASCII text. Close releases the directory on
// every exit path; individual cue files are reclaimed with it rather than
// deleted one by one.
type TextDir struct {
	dir  string
	next int
}

// NewTextDir creates the scoped directory.
func NewTextDir() (*TextDir, error) {
	dir, err := os.MkdirTemp("", "captionburn-text-")
	if err != nil {
		return nil, fmt.Errorf("create text resource dir: %w", err)
	}
	return &TextDir{dir: dir}, nil
}

// WriteText writes raw UTF-8 cue text to a uniquely numbered file and
// returns its path escaped for embedding in a colon-delimited filter
// expression.
func (t *TextDir) WriteText(text string) (string, error) {
	t.next++
	path := filepath.Join(t.dir, fmt.Sprintf("cue_%04d.txt", t.next))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write cue text: %w", err)
	}
	return EscapeFilterPath(path), nil
}

// Dir returns the owned directory path.
func (t *TextDir) Dir() string {
	return t.dir
}

// Close removes the directory and everything in it.
func (t *TextDir) Close() error {
	if t.dir == "" {
		return nil
	}
	err := os.RemoveAll(t.dir)
	t.dir = ""
	return err
}

// EscapeFilterPath escapes a path for use inside a colon-delimited filter
// argument: backslashes first, then colons.
func EscapeFilterPath(path string) string {
	escaped := strings.ReplaceAll(path, `\`, `\\`)
	return strings.ReplaceAll(escaped, ":", `\:`)
}
