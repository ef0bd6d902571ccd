package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/couchcryptid/njstats/internal/domain"
)

// Counties lists the distinct counties that have at least one rated hospital.
func (s *Store) Counties(ctx context.Context) ([]string, error) {
	out, err := queryRows(ctx, s, `SELECT DISTINCT county FROM hospitals ORDER BY county`,
		func(rows *sql.Rows) (string, error) {
			var county sql.NullString
			err := rows.Scan(&county)
			return county.String, err
		})
	if err != nil {
		return nil, fmt.Errorf("query counties: %w", err)
	}
	return out, nil
}

const incomeQuery = `SELECT county, income, nj_med, income_rank FROM income`

// Income returns the income record of every county.
func (s *Store) Income(ctx context.Context) ([]domain.IncomeRecord, error) {
	out, err := queryRows(ctx, s, incomeQuery+` ORDER BY income_rank, county`, scanIncome)
	if err != nil {
		return nil, fmt.Errorf("query income: %w", err)
	}
	return out, nil
}

// IncomeByCounty returns the income record of one county. The match is exact,
// so callers pass the stored upper-case name.
func (s *Store) IncomeByCounty(ctx context.Context, county string) ([]domain.IncomeRecord, error) {
	out, err := queryRows(ctx, s, incomeQuery+` WHERE county = ?`, scanIncome, county)
	if err != nil {
		return nil, fmt.Errorf("query income for %s: %w", county, err)
	}
	return out, nil
}

func scanIncome(rows *sql.Rows) (domain.IncomeRecord, error) {
	var r domain.IncomeRecord
	err := rows.Scan(&r.County, &r.Income, &r.NJMed, &r.Rank)
	return r, err
}

// SchoolAverages joins schools to their SAT results and averages them for one county.
func (s *Store) SchoolAverages(ctx context.Context, county string) ([]domain.CountySchoolAverages, error) {
	r := s.dialect.round
	query := `SELECT s.county, ` +
		r("AVG(t.math_sch_avg)") + `, ` +
		r("AVG(t.eng_sch_avg)") + `, ` +
		r("AVG(t.math_sch_avg) + AVG(t.eng_sch_avg)") + `, ` +
		r("AVG(t.math_state_avg)") + `, ` +
		r("AVG(t.eng_state_avg)") + `
		FROM schools s
		JOIN test_scores t ON t.ds_code = s.ds_code
		WHERE s.county = ?
		GROUP BY s.county`

	out, err := queryRows(ctx, s, query, func(rows *sql.Rows) (domain.CountySchoolAverages, error) {
		var (
			a                  domain.CountySchoolAverages
			mathAvg, engAvg    sql.NullFloat64
			total              sql.NullFloat64
			mathState, engStat sql.NullFloat64
		)
		if err := rows.Scan(&a.County, &mathAvg, &engAvg, &total, &mathState, &engStat); err != nil {
			return a, err
		}
		a.MathAvg = floatPtr(mathAvg)
		a.EngAvg = floatPtr(engAvg)
		a.TotalAvg = floatPtr(total)
		a.MathStateAvg = floatPtr(mathState)
		a.EngStateAvg = floatPtr(engStat)
		return a, nil
	}, county)
	if err != nil {
		return nil, fmt.Errorf("query school averages for %s: %w", county, err)
	}
	return out, nil
}

// SchoolStateTotals returns, per county, the sum of the rounded Math and
// Reading/Writing means.
func (s *Store) SchoolStateTotals(ctx context.Context) ([]domain.CountySATTotal, error) {
	r := s.dialect.round
	query := `SELECT s.county, ` + r("AVG(t.math_sch_avg)") + ` + ` + r("AVG(t.eng_sch_avg)") + `
		FROM schools s
		JOIN test_scores t ON t.ds_code = s.ds_code
		GROUP BY s.county
		ORDER BY s.county`

	out, err := queryRows(ctx, s, query, func(rows *sql.Rows) (domain.CountySATTotal, error) {
		var (
			t   domain.CountySATTotal
			sum sql.NullFloat64
		)
		err := rows.Scan(&t.County, &sum)
		t.SATAvg = floatPtr(sum)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("query school totals: %w", err)
	}
	return out, nil
}

// Hospitals returns the rated hospitals of one county.
func (s *Store) Hospitals(ctx context.Context, county string) ([]domain.HospitalRecord, error) {
	out, err := queryRows(ctx, s, `SELECT county, rate FROM hospitals WHERE county = ?`, scanHospital, county)
	if err != nil {
		return nil, fmt.Errorf("query hospitals for %s: %w", county, err)
	}
	return out, nil
}

// HospitalAverages returns the mean hospital rating of every county. Ratings
// are parsed here rather than cast in SQL so a non-numeric rating fails the
// query on every driver.
func (s *Store) HospitalAverages(ctx context.Context) ([]domain.CountyRatingAverage, error) {
	rows, err := queryRows(ctx, s, `SELECT county, rate FROM hospitals ORDER BY county`, scanHospital)
	if err != nil {
		return nil, fmt.Errorf("query hospital averages: %w", err)
	}
	out, err := domain.AverageRatings(rows)
	if err != nil {
		return nil, fmt.Errorf("query hospital averages: %w", err)
	}
	return out, nil
}

func scanHospital(rows *sql.Rows) (domain.HospitalRecord, error) {
	var county, rate sql.NullString
	err := rows.Scan(&county, &rate)
	return domain.HospitalRecord{County: county.String, Rate: rate.String}, err
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
