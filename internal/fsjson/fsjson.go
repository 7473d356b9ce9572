// Package fsjson reads and writes JSON files under the application data
// root. Files are stored indented so they stay human-diffable and
// recoverable by hand.
package fsjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrUnavailable wraps I/O-level failures: permissions, disk full,
	// invalid paths. Not retried here; callers decide.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrCorrupt means the file exists but does not parse. Distinct from
	// a missing file, which callers treat as "use defaults".
	ErrCorrupt = errors.New("storage corrupt")
)

// Load unmarshals the JSON file at path into v. A missing file is not an
// error: Load returns (false, nil) and leaves v untouched.
func Load(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, path, err)
	}
	return true, nil
}

// Store atomically replaces the JSON file at path with the serialized
// form of v. The parent directory is created if needed. The write goes to
// a temp file in the same directory followed by a rename, so readers
// never observe a partial file.
func Store(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", ErrUnavailable, dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", ErrUnavailable, dir, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrUnavailable, tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, path, err)
	}
	return nil
}
