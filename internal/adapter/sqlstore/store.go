// Package sqlstore persists the normalized relations in a SQL database and
// answers the aggregation queries against them.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/couchcryptid/njstats/internal/domain"
)

// Store writes seeds in a single transaction and serves reads on
// per-query connections drawn from the pool.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Open connects to the database named by driver and dsn.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	if d.name == DriverSQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &Store{db: db, dialect: d, logger: logger}, nil
}

// ensureDir creates the parent directory of a file-backed SQLite database.
func ensureDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create store dir: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Replace drops and recreates every relation and writes ds into them. Either
// all four relations are replaced or none are.
func (s *Store) Replace(ctx context.Context, ds domain.Dataset) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, t := range schema {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+t.table); err != nil {
			return fmt.Errorf("drop %s: %w", t.table, err)
		}
		if _, err := tx.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create %s: %w", t.table, err)
		}
	}
	for _, stmt := range indexes {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	if err := insertRows(ctx, tx, s.dialect.bind(`INSERT INTO schools (county, dist_code, school_code, ds_code) VALUES (?, ?, ?, ?)`),
		ds.Schools, func(r domain.School) []any {
			return []any{r.County, r.DistrictCode, r.SchoolCode, r.DSCode}
		}); err != nil {
		return fmt.Errorf("insert %s: %w", tableSchools, err)
	}
	if err := insertRows(ctx, tx, s.dialect.bind(`INSERT INTO test_scores (ds_code, math_sch_avg, math_state_avg, eng_sch_avg, eng_state_avg) VALUES (?, ?, ?, ?, ?)`),
		ds.TestRecords, func(r domain.TestRecord) []any {
			return []any{r.DSCode, nullInt(r.MathSchoolAvg), nullFloat(r.MathStateAvg), nullInt(r.EngSchoolAvg), nullFloat(r.EngStateAvg)}
		}); err != nil {
		return fmt.Errorf("insert %s: %w", tableTestScores, err)
	}
	if err := insertRows(ctx, tx, s.dialect.bind(`INSERT INTO income (county, income, nj_med, income_rank) VALUES (?, ?, ?, ?)`),
		ds.Incomes, func(r domain.IncomeRecord) []any {
			return []any{r.County, r.Income, r.NJMed, r.Rank}
		}); err != nil {
		return fmt.Errorf("insert %s: %w", tableIncome, err)
	}
	if err := insertRows(ctx, tx, s.dialect.bind(`INSERT INTO hospitals (county, rate) VALUES (?, ?)`),
		ds.Hospitals, func(r domain.HospitalRecord) []any {
			return []any{r.County, r.Rate}
		}); err != nil {
		return fmt.Errorf("insert %s: %w", tableHospitals, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	s.logger.Debug("relations replaced", "driver", s.dialect.name,
		"schools", len(ds.Schools), "test_records", len(ds.TestRecords),
		"incomes", len(ds.Incomes), "hospitals", len(ds.Hospitals))
	return nil
}

func insertRows[T any](ctx context.Context, tx *sql.Tx, query string, rows []T, args func(T) []any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, args(r)...); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// withConn runs fn on a connection held for the duration of one query and
// returned to the pool on every path.
func (s *Store) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()
	return fn(conn)
}

// queryRows runs query on its own connection and scans every row with scan.
func queryRows[T any](ctx context.Context, s *Store, query string, scan func(*sql.Rows) (T, error), args ...any) ([]T, error) {
	out := make([]T, 0)
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, s.dialect.bind(query), args...)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
