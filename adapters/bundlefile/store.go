// Package bundlefile persists the result bundle as a single JSON document,
// the primary hand-off format for the reporting layer.
package bundlefile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"macropanel/domain/report"
	apperrors "macropanel/internal/errors"
)

// Store writes bundles to one JSON file, replacing any previous run's output.
type Store struct {
	path string
}

// New returns a store targeting path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the bundle file location.
func (s *Store) Path() string { return s.path }

// Save validates, serializes and writes the bundle. A temp-file rename keeps
// the previous bundle intact if this run fails mid-write.
func (s *Store) Save(ctx context.Context, bundle *report.ResultBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := bundle.Validate(); err != nil {
		return apperrors.StoreError("bundle failed validation", err)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return apperrors.StoreError("serializing bundle", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.StoreError("creating output directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return apperrors.StoreError("creating bundle temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.StoreError("writing bundle", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.StoreError("closing bundle temp file", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperrors.StoreError("replacing bundle file", err)
	}
	return nil
}

// Load reads a previously saved bundle back. Used by consumers and tests;
// the pipeline itself only writes.
func Load(path string) (*report.ResultBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.StoreError("reading bundle file", err)
	}
	var bundle report.ResultBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, apperrors.StoreError("parsing bundle file", err)
	}
	return &bundle, nil
}
