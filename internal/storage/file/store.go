// Package file persists the reminder document as a single JSON file, the
// same shape the note-taking host stores: series id mapped to series record,
// override tables nested under each record's repeat object.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"remindkit/internal/remind"
)

// Store implements storage.Store over one JSON document on disk.
type Store struct {
	path string
}

// New creates a file store at the given path. The file is created lazily on
// first save.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(_ context.Context) (remind.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(remind.Document), nil
		}
		return nil, fmt.Errorf("file store: read %s: %w", s.path, err)
	}
	doc := make(remind.Document)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("file store: parse %s: %w", s.path, err)
	}
	return doc, nil
}

// Save writes the whole document atomically via a temp file and rename, so
// a crash mid-write never leaves a torn document behind.
func (s *Store) Save(_ context.Context, doc remind.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("file store: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".remindkit-*.tmp")
	if err != nil {
		return fmt.Errorf("file store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("file store: chmod: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
