// Package settings persists the small key-value state the update checker
// keeps between runs: when it last checked and which version the user chose
// to skip.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Well-known keys.
const (
	KeyLastCheckTime   = "LastCheckTime"
	KeySkipThisVersion = "SkipThisVersion"
)

const defaultFileName = "state.json"

// Store is a JSON-file-backed string/timestamp store. Values are written
// through to disk on every set; reads always reflect the file.
type Store struct {
	path string
}

// Open returns a store backed by the given file. The file need not exist
// yet; it is created on first write.
func Open(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the per-user state file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "updrift", defaultFileName), nil
}

// ReadString returns the value for key and whether it was present.
func (s *Store) ReadString(key string) (string, bool, error) {
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// WriteString sets key to value and persists immediately.
func (s *Store) WriteString(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// ReadTime returns the timestamp for key and whether it was present.
func (s *Store) ReadTime(key string) (time.Time, bool, error) {
	raw, ok, err := s.ReadString(key)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("settings: bad timestamp for %s: %w", key, err)
	}
	return t, true, nil
}

// WriteTime sets key to the timestamp and persists immediately.
func (s *Store) WriteTime(key string, t time.Time) error {
	return s.WriteString(key, t.UTC().Format(time.RFC3339))
}

// Delete removes key if present.
func (s *Store) Delete(key string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read settings %s: %w", s.path, err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
