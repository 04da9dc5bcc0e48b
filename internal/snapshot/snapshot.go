// Package snapshot compares rendered documents against stored snapshots.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// ErrMismatch is returned by Check when the snapshot differs.
var ErrMismatch = errors.New("snapshot mismatch")

// Compare returns a human-readable diff between want and got, empty when
// they match. JSON and YAML documents (by name) are compared structurally, so
// key order and formatting do not matter; anything else is compared line by line.
func Compare(name string, want, got []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		var w, g any
		if err := yaml.Unmarshal(want, &w); err != nil {
			return "", fmt.Errorf("decode snapshot %s: %w", name, err)
		}
		if err := yaml.Unmarshal(got, &g); err != nil {
			return "", fmt.Errorf("decode rendered %s: %w", name, err)
		}
		return cmp.Diff(w, g), nil
	default:
		return cmp.Diff(lines(want), lines(got)), nil
	}
}

// Check compares got against the snapshot at path. With update set, the
// snapshot is rewritten instead. A missing snapshot is created.
func Check(path string, got []byte, update bool) error {
	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	diff, err := Compare(path, want, got)
	if err != nil {
		return err
	}
	if diff != "" {
		return fmt.Errorf("%w: %s (-snapshot +rendered):\n%s", ErrMismatch, path, diff)
	}
	return nil
}

func lines(b []byte) []string {
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}
