package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mathTable = `Score,Percentile
500,48
510,52
520,55
530,59
`

func TestParsePercentileTable(t *testing.T) {
	m, err := ParsePercentileTable("SATmapMATH.csv", strings.NewReader(mathTable))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, "SATmapMATH.csv", m.Name())

	pctl, err := m.Lookup(521)
	require.NoError(t, err)
	assert.Equal(t, "59", pctl)

	pctl, err = m.Lookup(500)
	require.NoError(t, err)
	assert.Equal(t, "48", pctl)
}

func TestParsePercentileTable_Errors(t *testing.T) {
	t.Run("non-integer score", func(t *testing.T) {
		_, err := ParsePercentileTable("t", strings.NewReader("Score,Percentile\nabc,10\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidValue)

		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, 1, fe.Row)
		assert.Equal(t, "score", fe.Field)
	})

	t.Run("missing percentile column", func(t *testing.T) {
		_, err := ParsePercentileTable("t", strings.NewReader("Score,Percentile\n500\n"))
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ParsePercentileTable("t", strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingField)
	})
}

func TestPercentileMap_LookupOutOfRange(t *testing.T) {
	m := NewPercentileMap("SATmapRW.csv", map[int]string{500: "50"})

	_, err := m.Lookup(611.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPercentileOutOfRange)

	var le *LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 620, le.Bucket)
	assert.Equal(t, "SATmapRW.csv", le.Table)
	assert.Contains(t, err.Error(), "bucket 620")
}
