package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	appErrors "cheztheme/internal/errors"
	"cheztheme/internal/logging"
)

// Store owns the lifecycle of one configuration file on disk.
//
// There is no locking: two processes saving at once race and the last
// rename wins.
type Store struct {
	path   string
	logger zerolog.Logger
}

// New creates a store for the file at path.
func New(path string) *Store {
	return &Store{
		path:   path,
		logger: logging.Component("store"),
	}
}

// Path returns the location of the configuration file.
func (s *Store) Path() string {
	return s.path
}

// Load reads and parses the configuration file.
func (s *Store) Load() (*Document, error) {
	//nolint:gosec // G304: the configuration path comes from the user's settings
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("chezmoi config %s not found", s.path), err)
	}
	if err != nil {
		return nil, appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("read %s", s.path), err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.logger.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("loaded config")
	return doc, nil
}

// Save writes doc back to the configuration file. The content goes to a
// temporary file in the same directory which is then renamed over the
// target, so a failed write leaves the existing file untouched. A symlinked
// configuration file is followed and the file it points to is replaced.
func (s *Store) Save(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	target := s.path
	if resolved, err := filepath.EvalSymlinks(s.path); err == nil {
		target = resolved
	}
	mode := fs.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("write %s", s.path), err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(doc.data); err != nil {
		_ = tmp.Close()
		cleanup()
		return appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("write %s", s.path), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("sync %s", s.path), err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("close %s", tmpName), err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("chmod %s", tmpName), err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return appErrors.New(appErrors.CodeIOFailed, fmt.Sprintf("replace %s", s.path), err)
	}

	s.logger.Debug().Str("path", s.path).Str("target", target).Int("bytes", len(doc.data)).Msg("saved config")
	return nil
}
