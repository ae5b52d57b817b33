// Package store persists JSON-serializable values under string keys.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the persistence abstraction the repositories are built on.
type Store interface {
	// Load decodes the value stored under key into v. It returns false when
	// no value exists or the stored bytes cannot be decoded, so a damaged
	// file never surfaces as an error; callers keep their default in that
	// case and the next Save overwrites the damage.
	Load(key string, v any) bool

	// Save serializes v and fully replaces the value stored under key.
	Save(key string, v any) error
}

// FileStore keeps one indented JSON file per key inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads and decodes the file for key. Missing and unparseable files
// both report false; a partially decoded v must be discarded by the caller.
func (s *FileStore) Load(key string, v any) bool {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Save writes the new contents to a temp file and renames it over the
// target, so a later Load observes either the fully old or fully new file,
// never a partial write.
func (s *FileStore) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Verify FileStore implements the Store interface
var _ Store = (*FileStore)(nil)
