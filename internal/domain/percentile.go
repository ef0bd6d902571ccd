package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PercentileMap maps a score bucket (a multiple of ten) to the percentile
// label printed in the College Board reference table.
type PercentileMap struct {
	name    string
	buckets map[int]string
}

// NewPercentileMap builds a map directly from buckets, mostly for tests.
func NewPercentileMap(name string, buckets map[int]string) PercentileMap {
	return PercentileMap{name: name, buckets: buckets}
}

// ParsePercentileTable reads a header row followed by "score,percentile" rows.
// Any row whose score is not an integer is an error; the reference tables are
// fixed assets, so there is nothing sensible to skip to.
func ParsePercentileTable(name string, r io.Reader) (PercentileMap, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return PercentileMap{}, &FieldError{Source: name, Field: "header", Err: ErrMissingField}
		}
		return PercentileMap{}, fmt.Errorf("read %s header: %w", name, err)
	}

	m := PercentileMap{name: name, buckets: make(map[int]string)}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return PercentileMap{}, fmt.Errorf("read %s: %w", name, err)
		}
		if len(rec) < 2 {
			return PercentileMap{}, &FieldError{Source: name, Row: row, Field: "percentile", Err: ErrMissingField}
		}
		score, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return PercentileMap{}, &FieldError{Source: name, Row: row, Field: "score", Value: rec[0], Err: ErrInvalidValue}
		}
		m.buckets[score] = strings.TrimSpace(rec[1])
	}
	return m, nil
}

// Name identifies the reference table in errors.
func (m PercentileMap) Name() string { return m.name }

// Len returns the number of buckets in the table.
func (m PercentileMap) Len() int { return len(m.buckets) }

// Lookup rounds score up to its bucket and returns the bucket's percentile.
// A bucket missing from the table yields a *LookupError.
func (m PercentileMap) Lookup(score float64) (string, error) {
	bucket := PercentileBucket(score)
	pctl, ok := m.buckets[bucket]
	if !ok {
		return "", &LookupError{Table: m.name, Score: score, Bucket: bucket}
	}
	return pctl, nil
}
