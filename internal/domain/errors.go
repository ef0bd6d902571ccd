package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a required property or column is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidValue is returned when a value cannot be converted to its column type.
	ErrInvalidValue = errors.New("invalid value")
	// ErrPercentileOutOfRange is returned when a score bucket is not in the reference table.
	ErrPercentileOutOfRange = errors.New("score outside percentile table")
)

// FieldError locates a bad field in a source file. Row is 1-based and counts
// data rows (or features), not the header.
type FieldError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s row %d: %s: %v", e.Source, e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("%s row %d: %s %q: %v", e.Source, e.Row, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// LookupError reports a mean whose bucket is missing from a percentile table.
type LookupError struct {
	Table  string
	Score  float64
	Bucket int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s percentile: score %.2f (bucket %d): %v", e.Table, e.Score, e.Bucket, ErrPercentileOutOfRange)
}

func (e *LookupError) Unwrap() error { return ErrPercentileOutOfRange }
