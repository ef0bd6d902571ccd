package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/couchcryptid/njstats/internal/domain"
)

// Snapshot reads every stored relation back in a stable order.
func (s *Store) Snapshot(ctx context.Context) (domain.Dataset, error) {
	var (
		ds  domain.Dataset
		err error
	)

	ds.Schools, err = queryRows(ctx, s, `SELECT county, dist_code, school_code, ds_code FROM schools ORDER BY ds_code, county`,
		func(rows *sql.Rows) (domain.School, error) {
			var r domain.School
			err := rows.Scan(&r.County, &r.DistrictCode, &r.SchoolCode, &r.DSCode)
			return r, err
		})
	if err != nil {
		return ds, fmt.Errorf("snapshot %s: %w", tableSchools, err)
	}

	ds.TestRecords, err = queryRows(ctx, s, `SELECT ds_code, math_sch_avg, math_state_avg, eng_sch_avg, eng_state_avg FROM test_scores ORDER BY ds_code`,
		func(rows *sql.Rows) (domain.TestRecord, error) {
			var (
				r                   domain.TestRecord
				mathSch, engSch     sql.NullInt64
				mathState, engState sql.NullFloat64
			)
			if err := rows.Scan(&r.DSCode, &mathSch, &mathState, &engSch, &engState); err != nil {
				return r, err
			}
			r.MathSchoolAvg, r.MathStateAvg = intPtr(mathSch), floatPtr(mathState)
			r.EngSchoolAvg, r.EngStateAvg = intPtr(engSch), floatPtr(engState)
			return r, nil
		})
	if err != nil {
		return ds, fmt.Errorf("snapshot %s: %w", tableTestScores, err)
	}

	ds.Incomes, err = queryRows(ctx, s, incomeQuery+` ORDER BY county`, scanIncome)
	if err != nil {
		return ds, fmt.Errorf("snapshot %s: %w", tableIncome, err)
	}

	ds.Hospitals, err = queryRows(ctx, s, `SELECT county, rate FROM hospitals ORDER BY county, rate`, scanHospital)
	if err != nil {
		return ds, fmt.Errorf("snapshot %s: %w", tableHospitals, err)
	}
	return ds, nil
}
