package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"captionburn/pkg/util"
)

// Store manages render artifacts under an output directory, one
// subdirectory per logical render key. A file lock per key enforces the
// single-writer rule; cleanup of previous artifacts stays scoped to the
// key that is being rewritten.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) keyDir(key string) string {
	return filepath.Join(s.baseDir, key)
}

// Acquire takes the writer lock for a key, creating its directory first.
func (s *Store) Acquire(key string) (*flock.Flock, error) {
	dir := s.keyDir(key)
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output key %q is locked by another writer", key)
	}
	return lock, nil
}

// CleanPrevious removes prior artifacts for the key. The caller must hold
// the key's lock.
func (s *Store) CleanPrevious(key string) error {
	entries, err := os.ReadDir(s.keyDir(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var errs error
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		errs = multierr.Append(errs, os.Remove(filepath.Join(s.keyDir(key), entry.Name())))
	}
	return errs
}

// NewOutputPath generates a fresh artifact path for the key.
func (s *Store) NewOutputPath(key string) string {
	name := fmt.Sprintf("render-%s.mp4", uuid.NewString())
	return filepath.Join(s.keyDir(key), name)
}
