package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// table is a header-indexed CSV file held in memory.
type table struct {
	source string
	index  map[string]int
	rows   [][]string
}

// readTable reads a comma-delimited file with a header row and checks that
// every required column is present.
func readTable(source string, r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &FieldError{Source: source, Field: "header", Err: ErrMissingField}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", source, err)
	}

	t := &table{source: source, index: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		t.index[strings.TrimSpace(name)] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, &FieldError{Source: source, Field: col, Err: ErrMissingField}
		}
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	t.rows = rows
	return t, nil
}

// get returns the trimmed value of col in row, or "" when the row is short.
func (t *table) get(row []string, col string) string {
	i := t.index[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
