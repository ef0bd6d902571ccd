package source

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest maps logical dataset names to file names relative to the source root.
type Manifest struct {
	Files map[string]string `yaml:"files"`
}

// DefaultManifest returns the file names used by the published datasets.
func DefaultManifest() Manifest {
	return Manifest{Files: map[string]string{
		SchoolLocations:    "school.geojson",
		CountyLocations:    "counties.geojson",
		TestScores:         "school_test.csv",
		HouseholdIncome:    "NJ_Household_Income.csv",
		Hospitals:          "Hospital_General_Information.csv",
		MathPercentiles:    "SATmapMATH.csv",
		ReadingPercentiles: "SATmapRW.csv",
		IndexPage:          "index.html",
	}}
}

// LoadManifest reads a YAML manifest from path and layers it over the
// defaults. An empty path returns the defaults.
//
//	files:
//	  hospitals: cms/Hospital_General_Information_2024.csv
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var override Manifest
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	for name, file := range override.Files {
		if _, ok := m.Files[name]; !ok {
			return Manifest{}, fmt.Errorf("manifest %s: %q: %w", path, name, ErrUnknownSource)
		}
		if file == "" {
			return Manifest{}, fmt.Errorf("manifest %s: %q has an empty file name", path, name)
		}
	}
	maps.Copy(m.Files, override.Files)
	return m, nil
}

// File returns the file name registered for a logical name.
func (m Manifest) File(name string) (string, error) {
	file, ok := m.Files[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownSource)
	}
	return file, nil
}
