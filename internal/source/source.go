// Package source resolves the logical dataset names used by the seeder to
// files in a local directory or a remote object store.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Logical names of the files the service reads.
const (
	SchoolLocations    = "school_locations"
	CountyLocations    = "county_locations"
	TestScores         = "test_scores"
	HouseholdIncome    = "household_income"
	Hospitals          = "hospitals"
	MathPercentiles    = "math_percentiles"
	ReadingPercentiles = "reading_percentiles"
	IndexPage          = "index_page"
)

var (
	// ErrSourceNotFound is returned when the file behind a logical name does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrUnknownSource is returned for a logical name the manifest does not define.
	ErrUnknownSource = errors.New("unknown source")
)

// Provider opens dataset files by logical name.
type Provider interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ReadAll opens name and reads it fully.
func ReadAll(ctx context.Context, p Provider, name string) ([]byte, error) {
	rc, err := p.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Dir reads files from a local directory.
type Dir struct {
	root     string
	manifest Manifest
}

// NewDir creates a Provider rooted at dir.
func NewDir(dir string, manifest Manifest) *Dir {
	return &Dir{root: dir, manifest: manifest}
}

// Open implements Provider.
func (d *Dir) Open(_ context.Context, name string) (io.ReadCloser, error) {
	file, err := d.manifest.File(name)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(d.root, file)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s (%s): %w", name, path, ErrSourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
