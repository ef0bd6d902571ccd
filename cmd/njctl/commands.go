package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/njstats/internal/adapter/kafka"
	"github.com/couchcryptid/njstats/internal/bootstrap"
	"github.com/couchcryptid/njstats/internal/domain"
	"github.com/couchcryptid/njstats/internal/observability"
	"github.com/couchcryptid/njstats/internal/pipeline"
	"github.com/couchcryptid/njstats/internal/report"
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run every normalizer against the sources without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := bootstrap.OpenSources(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			if _, err := bootstrap.LoadAssets(cmd.Context(), sources); err != nil {
				return err
			}
			seeder := pipeline.New(sources, nil, c.cfg.StateCode, c.logger, observability.NewUnregisteredMetrics())
			_, rep, err := seeder.Normalize(cmd.Context())
			if err != nil {
				return err
			}
			return c.printReport(cmd.OutOrStdout(), rep)
		},
	}
}

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored relations with the current sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sources, err := bootstrap.OpenSources(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			store, err := bootstrap.OpenStore(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var opts []pipeline.Option
			if c.cfg.PublishSeeds() {
				publisher := kafkaadapter.NewPublisher(c.cfg, c.logger)
				defer func() { _ = publisher.Close() }()
				opts = append(opts, pipeline.WithNotifier(publisher))
			}

			seeder := pipeline.New(sources, store, c.cfg.StateCode, c.logger, observability.NewUnregisteredMetrics(), opts...)
			rep, err := seeder.Run(ctx)
			if err != nil {
				return err
			}
			return c.printReport(cmd.OutOrStdout(), rep)
		},
	}
}

// Query names accepted by "njctl query".
var queryNames = []string{"counties", "income", "school", "hospital"}

func newQueryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "query <" + strings.Join(queryNames, "|") + "> [county]",
		Short: "Run a report against a seeded store",
		Long: "Runs one report. With a county the county report is printed, " +
			"otherwise the statewide one. County names match exactly, e.g. ESSEX.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: queryNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sources, err := bootstrap.OpenSources(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			store, err := bootstrap.OpenStore(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := report.New(store, sources, c.logger)
			county := ""
			if len(args) == 2 {
				county = args[1]
			}

			var (
				v       any
				headers []string
				rows    [][]string
			)
			switch name := args[0]; {
			case name == "counties":
				res, err := svc.Counties(ctx)
				if err != nil {
					return err
				}
				v, headers, rows = res, []string{"county"}, res
			case name == "income" && county == "":
				res, err := svc.StateIncome(ctx)
				if err != nil {
					return err
				}
				v, headers, rows = res, incomeHeaders, incomeRows(res)
			case name == "income":
				res, err := svc.CountyIncome(ctx, county)
				if err != nil {
					return err
				}
				v, headers, rows = res, incomeHeaders, incomeRows(res)
			case name == "school" && county == "":
				res, err := svc.StateSchools(ctx)
				if err != nil {
					return err
				}
				v, headers = res, []string{"county", "sat_avg"}
				for _, r := range res {
					rows = append(rows, []string{r.County, formatFloat(r.SATAvg)})
				}
			case name == "school":
				res, err := svc.CountySchools(ctx, county)
				if err != nil {
					return err
				}
				v, headers = res, []string{"county", "math_avg", "eng_avg", "total_avg", "math_state_avg", "eng_state_avg", "math_pctl", "eng_pctl"}
				for _, r := range res {
					rows = append(rows, []string{
						r.County, formatFloat(r.MathAvg), formatFloat(r.EngAvg), formatFloat(r.TotalAvg),
						formatFloat(r.MathStateAvg), formatFloat(r.EngStateAvg), formatString(r.MathPctl), formatString(r.EngPctl),
					})
				}
			case name == "hospital" && county == "":
				res, err := svc.StateHospitals(ctx)
				if err != nil {
					return err
				}
				v, headers = res, []string{"county", "avg_rate"}
				for _, r := range res {
					rows = append(rows, []string{r.County, formatFloat(r.AvgRate)})
				}
			case name == "hospital":
				res, err := svc.CountyHospitals(ctx, county)
				if err != nil {
					return err
				}
				v, headers = res, []string{"county", "rate"}
				for _, r := range res.List {
					rows = append(rows, []string{r.County, r.Rate})
				}
				if !c.json {
					rows = append(rows, []string{"median", formatFloat(res.Stats.Median)})
				}
			default:
				return fmt.Errorf("unknown query %q: want one of %s", name, strings.Join(queryNames, ", "))
			}

			if c.json {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			return renderTable(cmd.OutOrStdout(), headers, rows)
		},
	}
}

var incomeHeaders = []string{"county", "income", "nj_med", "rank"}

func incomeRows(res []domain.IncomeRecord) [][]string {
	rows := make([][]string, 0, len(res))
	for _, r := range res {
		rows = append(rows, []string{
			r.County,
			strconv.FormatFloat(r.Income, 'f', -1, 64),
			strconv.FormatFloat(r.NJMed, 'f', -1, 64),
			strconv.Itoa(r.Rank),
		})
	}
	return rows
}

func (c *cli) printReport(w io.Writer, rep domain.SeedReport) error {
	if c.json {
		return writeJSON(w, rep)
	}
	rows := [][]string{
		{"run_id", rep.RunID},
		{"state", rep.State},
		{"schools", strconv.Itoa(rep.Rows.Schools)},
		{"test_records", strconv.Itoa(rep.Rows.TestRecords)},
		{"incomes", strconv.Itoa(rep.Rows.Incomes)},
		{"hospitals", strconv.Itoa(rep.Rows.Hospitals)},
		{"sat_rows", strconv.Itoa(rep.Tests.SATRows)},
		{"act_rows", strconv.Itoa(rep.Tests.ACTRows)},
		{"null_school_avgs", strconv.Itoa(rep.Tests.NullSchoolAvgs)},
		{"math_only_schools", strconv.Itoa(rep.Tests.MathOnlySchools)},
		{"eng_only_schools", strconv.Itoa(rep.Tests.EngOnlySchools)},
		{"income_duplicates", strconv.Itoa(rep.Income.DuplicatesDropped)},
		{"hospitals_out_of_state", strconv.Itoa(rep.Hospitals.OutOfState)},
		{"hospitals_unavailable", strconv.Itoa(rep.Hospitals.Unavailable)},
	}
	if !rep.SeededAt.IsZero() {
		rows = append(rows,
			[]string{"seeded_at", rep.SeededAt.Format(time.RFC3339)},
			[]string{"duration", rep.Duration.String()},
		)
	}
	return renderTable(w, []string{"field", "value"}, rows)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func formatString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
