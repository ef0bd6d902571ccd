// Package report answers the county and state reporting questions by running
// the stored aggregations and decorating them with percentile lookups and
// medians.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/njstats/internal/domain"
	"github.com/couchcryptid/njstats/internal/source"
)

// Reader is the read side of the store.
type Reader interface {
	Counties(ctx context.Context) ([]string, error)
	Income(ctx context.Context) ([]domain.IncomeRecord, error)
	IncomeByCounty(ctx context.Context, county string) ([]domain.IncomeRecord, error)
	SchoolAverages(ctx context.Context, county string) ([]domain.CountySchoolAverages, error)
	SchoolStateTotals(ctx context.Context) ([]domain.CountySATTotal, error)
	Hospitals(ctx context.Context, county string) ([]domain.HospitalRecord, error)
	HospitalAverages(ctx context.Context) ([]domain.CountyRatingAverage, error)
}

// Service runs every report fresh on each call. It keeps no state between
// calls besides its dependencies.
type Service struct {
	store   Reader
	sources source.Provider
	logger  *slog.Logger
}

// New creates a Service reading aggregations from store and percentile tables
// from sources.
func New(store Reader, sources source.Provider, logger *slog.Logger) *Service {
	return &Service{store: store, sources: sources, logger: logger}
}

// Counties lists every county with a rated hospital, one single-column row each.
func (s *Service) Counties(ctx context.Context) ([][]string, error) {
	names, err := s.store.Counties(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n})
	}
	return rows, nil
}

// StateIncome returns the income record of every county.
func (s *Service) StateIncome(ctx context.Context) ([]domain.IncomeRecord, error) {
	return s.store.Income(ctx)
}

// CountyIncome returns the income record of one county, or none.
func (s *Service) CountyIncome(ctx context.Context, county string) ([]domain.IncomeRecord, error) {
	return s.store.IncomeByCounty(ctx, county)
}

// CountySchools returns the SAT averages of one county with the percentile
// of each school mean.
func (s *Service) CountySchools(ctx context.Context, county string) ([]SchoolCountyReport, error) {
	rows, err := s.store.SchoolAverages(ctx, county)
	if err != nil {
		return nil, err
	}
	out := make([]SchoolCountyReport, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	mathTable, err := s.percentiles(ctx, source.MathPercentiles)
	if err != nil {
		return nil, err
	}
	rwTable, err := s.percentiles(ctx, source.ReadingPercentiles)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		rep := SchoolCountyReport{
			County:       r.County,
			MathAvg:      r.MathAvg,
			EngAvg:       r.EngAvg,
			TotalAvg:     r.TotalAvg,
			MathStateAvg: r.MathStateAvg,
			EngStateAvg:  r.EngStateAvg,
		}
		if rep.MathPctl, err = lookup(mathTable, r.MathAvg); err != nil {
			return nil, fmt.Errorf("%s: %w", r.County, err)
		}
		if rep.EngPctl, err = lookup(rwTable, r.EngAvg); err != nil {
			return nil, fmt.Errorf("%s: %w", r.County, err)
		}
		out = append(out, rep)
	}
	return out, nil
}

// StateSchools returns the combined SAT mean of every county.
func (s *Service) StateSchools(ctx context.Context) ([]domain.CountySATTotal, error) {
	return s.store.SchoolStateTotals(ctx)
}

// CountyHospitals returns the rated hospitals of one county and their median
// rating. An unknown county gives an empty list and a nil median.
func (s *Service) CountyHospitals(ctx context.Context, county string) (HospitalCountyReport, error) {
	list, err := s.store.Hospitals(ctx, county)
	if err != nil {
		return HospitalCountyReport{}, err
	}

	ratings := make([]float64, 0, len(list))
	for _, h := range list {
		n, err := domain.ParseRating(h.Rate)
		if err != nil {
			return HospitalCountyReport{}, fmt.Errorf("%s hospitals: %w", county, err)
		}
		ratings = append(ratings, float64(n))
	}

	if list == nil {
		list = []domain.HospitalRecord{}
	}
	rep := HospitalCountyReport{List: list}
	if m, ok := domain.Median(ratings); ok {
		rep.Stats.Median = &m
	}
	return rep, nil
}

// StateHospitals returns the mean hospital rating of every county.
func (s *Service) StateHospitals(ctx context.Context) ([]domain.CountyRatingAverage, error) {
	return s.store.HospitalAverages(ctx)
}

// percentiles parses a reference table. Tables are read per request so a
// replaced file takes effect without a restart.
func (s *Service) percentiles(ctx context.Context, name string) (domain.PercentileMap, error) {
	rc, err := s.sources.Open(ctx, name)
	if err != nil {
		return domain.PercentileMap{}, fmt.Errorf("open percentile table: %w", err)
	}
	defer func() { _ = rc.Close() }()

	m, err := domain.ParsePercentileTable(name, rc)
	if err != nil {
		return domain.PercentileMap{}, err
	}
	s.logger.Debug("percentile table loaded", "table", name, "buckets", m.Len())
	return m, nil
}

func lookup(table domain.PercentileMap, mean *float64) (*string, error) {
	if mean == nil {
		return nil, nil
	}
	pctl, err := table.Lookup(*mean)
	if err != nil {
		return nil, err
	}
	return &pctl, nil
}
