package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/njstats/internal/domain"
	"github.com/couchcryptid/njstats/internal/report"
)

var fixtureDir = filepath.Join("..", "..", "internal", "pipeline", "testdata")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "--source", fixtureDir, "--json")
	require.NoError(t, err)

	var rep domain.SeedReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "NJ", rep.State)
	assert.Equal(t, domain.RowCounts{Schools: 4, TestRecords: 4, Incomes: 4, Hospitals: 5}, rep.Rows)
	assert.True(t, rep.SeededAt.IsZero(), "validate does not seed")
}

func TestValidate_Table(t *testing.T) {
	out, err := run(t, "validate", "--source", fixtureDir)
	require.NoError(t, err)
	assert.Contains(t, out, "| field ")
	assert.Contains(t, out, "| act_rows ")
	assert.NotContains(t, out, "seeded_at")
}

func TestValidate_MissingSources(t *testing.T) {
	_, err := run(t, "validate", "--source", t.TempDir())
	assert.Error(t, err)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "validate", "--source", fixtureDir, "--driver", "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("NJSTATS_SOURCE", fixtureDir)
	t.Setenv("NJSTATS_STATE", "ny")

	out, err := run(t, "validate", "--json")
	require.NoError(t, err)

	var rep domain.SeedReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "NY", rep.State)
	assert.Equal(t, 1, rep.Rows.Hospitals)
}

func TestSeedThenQuery(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nj_db.db")
	common := []string{"--source", fixtureDir, "--dsn", dsn}

	out, err := run(t, append([]string{"seed"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded_at")

	t.Run("county income table", func(t *testing.T) {
		out, err := run(t, append([]string{"query", "income", "ESSEX"}, common...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "| county | income | nj_med | rank |")
		assert.Contains(t, out, "| ESSEX  | 85000  | 80000  | 2    |")
	})

	t.Run("county schools json", func(t *testing.T) {
		out, err := run(t, append([]string{"query", "school", "ESSEX", "--json"}, common...)...)
		require.NoError(t, err)

		var res []report.SchoolCountyReport
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Len(t, res, 1)
		assert.Equal(t, "52", *res[0].MathPctl)
	})

	t.Run("county hospitals table shows median", func(t *testing.T) {
		out, err := run(t, append([]string{"query", "hospital", "ESSEX"}, common...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "| median | 4.5  |")
	})

	t.Run("statewide queries", func(t *testing.T) {
		for _, name := range []string{"counties", "income", "school", "hospital"} {
			out, err := run(t, append([]string{"query", name}, common...)...)
			require.NoError(t, err, name)
			assert.Contains(t, out, "BERGEN", name)
		}
	})

	t.Run("unknown query", func(t *testing.T) {
		_, err := run(t, append([]string{"query", "weather"}, common...)...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown query "weather"`)
	})
}
