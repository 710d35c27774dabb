package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigLoadError reports a keymap file that exists but could not be used.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load keymap %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

// LoadFile reads a keymap file into a new store. It always returns a usable
// store: a missing file yields an empty default profile and no error, while an
// unreadable or malformed file yields the same plus a *ConfigLoadError.
func LoadFile(path string) (*Store, error) {
	s := NewStore()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, &ConfigLoadError{Path: path, Err: err}
	}

	profiles, err := Unmarshal(data)
	if err != nil {
		return s, &ConfigLoadError{Path: path, Err: err}
	}

	s.Replace(profiles)
	return s, nil
}

// SaveFile writes every profile in s to path. The file is replaced atomically.
func SaveFile(path string, s *Store) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode keymap: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create keymap directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".keymap-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write keymap: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write keymap: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set keymap permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace keymap: %w", err)
	}

	return nil
}
