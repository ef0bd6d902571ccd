package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/njstats/internal/domain"
	"github.com/couchcryptid/njstats/internal/observability"
	"github.com/couchcryptid/njstats/internal/source"
)

// Seed stages, used as the metrics label on failures.
const (
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageStore     = "store"
)

// Loader replaces the stored relations with a freshly normalized dataset.
type Loader interface {
	Replace(ctx context.Context, ds domain.Dataset) error
}

// Notifier announces a completed seed to downstream consumers.
type Notifier interface {
	NotifySeeded(ctx context.Context, report domain.SeedReport) error
}

// StageError tags a seed failure with the stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Seeder runs the one-shot extract-normalize-store sequence that prepares the
// store before the service starts answering queries.
type Seeder struct {
	sources  source.Provider
	loader   Loader
	notifier Notifier
	state    string
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	newRunID func() string
	ready    atomic.Bool
}

// Option customizes a Seeder.
type Option func(*Seeder)

// WithClock sets the clock used for seed timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(s *Seeder) { s.clock = c }
}

// WithNotifier publishes a report after every successful seed.
func WithNotifier(n Notifier) Option {
	return func(s *Seeder) { s.notifier = n }
}

// WithRunID overrides the run id generator.
func WithRunID(fn func() string) Option {
	return func(s *Seeder) { s.newRunID = fn }
}

// New creates a Seeder that reads from sources and writes through loader.
// Hospitals outside state are discarded.
func New(sources source.Provider, loader Loader, state string, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Seeder {
	s := &Seeder{
		sources:  sources,
		loader:   loader,
		state:    state,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckReadiness returns nil once a seed has completed.
func (s *Seeder) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("store has not been seeded yet")
	}
	return nil
}

// Normalize reads every source and runs its normalizer without touching the
// store. The four sources are independent and are processed concurrently.
func (s *Seeder) Normalize(ctx context.Context) (domain.Dataset, domain.SeedReport, error) {
	var (
		ds     domain.Dataset
		report = domain.SeedReport{RunID: s.newRunID(), State: s.state}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := s.extract(gctx, source.SchoolLocations)
		if err != nil {
			return err
		}
		ds.Schools, err = domain.NormalizeSchools(bytes.NewReader(data))
		return normalizeErr(source.SchoolLocations, err)
	})
	g.Go(func() error {
		data, err := s.extract(gctx, source.TestScores)
		if err != nil {
			return err
		}
		ds.TestRecords, report.Tests, err = domain.NormalizeTestScores(bytes.NewReader(data))
		return normalizeErr(source.TestScores, err)
	})
	g.Go(func() error {
		data, err := s.extract(gctx, source.HouseholdIncome)
		if err != nil {
			return err
		}
		ds.Incomes, report.Income, err = domain.NormalizeIncome(bytes.NewReader(data))
		return normalizeErr(source.HouseholdIncome, err)
	})
	g.Go(func() error {
		data, err := s.extract(gctx, source.Hospitals)
		if err != nil {
			return err
		}
		ds.Hospitals, report.Hospitals, err = domain.NormalizeHospitals(bytes.NewReader(data), s.state)
		return normalizeErr(source.Hospitals, err)
	})
	if err := g.Wait(); err != nil {
		return domain.Dataset{}, domain.SeedReport{}, err
	}

	report.Rows = ds.Counts()
	return ds, report, nil
}

// Run normalizes every source and replaces the stored relations. Any error
// leaves the store as it was. A failed notification is logged and does not
// fail the seed.
func (s *Seeder) Run(ctx context.Context) (domain.SeedReport, error) {
	start := s.clock.Now()
	s.logger.Info("seed started", "state", s.state)

	ds, report, err := s.Normalize(ctx)
	if err != nil {
		s.fail(err)
		return domain.SeedReport{}, err
	}

	if err := s.loader.Replace(ctx, ds); err != nil {
		err = &StageError{Stage: StageStore, Err: err}
		s.fail(err)
		return domain.SeedReport{}, err
	}

	report.SeededAt = s.clock.Now()
	report.Duration = report.SeededAt.Sub(start)
	s.record(report)
	s.ready.Store(true)

	s.logger.Info("seed complete",
		"run_id", report.RunID,
		"duration", report.Duration,
		"schools", report.Rows.Schools,
		"test_records", report.Rows.TestRecords,
		"incomes", report.Rows.Incomes,
		"hospitals", report.Rows.Hospitals,
		"sat_rows", report.Tests.SATRows,
		"act_rows", report.Tests.ACTRows,
		"null_school_avgs", report.Tests.NullSchoolAvgs,
		"income_duplicates", report.Income.DuplicatesDropped,
		"hospitals_unavailable", report.Hospitals.Unavailable,
	)

	if s.notifier != nil {
		if err := s.notifier.NotifySeeded(ctx, report); err != nil {
			s.metrics.SeedNotifyErrors.Inc()
			s.logger.Warn("seed notification failed", "run_id", report.RunID, "error", err)
		}
	}
	return report, nil
}

func (s *Seeder) extract(ctx context.Context, name string) ([]byte, error) {
	data, err := source.ReadAll(ctx, s.sources, name)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: fmt.Errorf("extract %s: %w", name, err)}
	}
	return data, nil
}

func normalizeErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: StageNormalize, Err: fmt.Errorf("normalize %s: %w", name, err)}
}

func (s *Seeder) fail(err error) {
	stage := StageNormalize
	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	s.metrics.SeedFailures.WithLabelValues(stage).Inc()
	s.logger.Error("seed failed", "stage", stage, "error", err)
}

func (s *Seeder) record(report domain.SeedReport) {
	s.metrics.SeedRows.WithLabelValues("schools").Set(float64(report.Rows.Schools))
	s.metrics.SeedRows.WithLabelValues("test_scores").Set(float64(report.Rows.TestRecords))
	s.metrics.SeedRows.WithLabelValues("income").Set(float64(report.Rows.Incomes))
	s.metrics.SeedRows.WithLabelValues("hospitals").Set(float64(report.Rows.Hospitals))
	s.metrics.SeedDuration.Observe(report.Duration.Seconds())
	s.metrics.Seeded.Set(1)
}
