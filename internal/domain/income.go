package domain

import (
	"io"
	"math"
	"strconv"
	"strings"
)

const incomeSource = "NJ_Household_Income.csv"

// Income file columns.
const (
	ColCounty          = "County"
	ColHouseholdIncome = "Household Income"
)

// NormalizeIncome cleans the county household income file. The first data row
// of the published file is a statewide summary, not a county, and is always
// dropped. Counties are upper-cased, exact duplicate rows are removed, and
// every row receives the statewide median and its descending competition rank.
func NormalizeIncome(r io.Reader) ([]IncomeRecord, IncomeReview, error) {
	var review IncomeReview

	t, err := readTable(incomeSource, r, ColCounty, ColHouseholdIncome)
	if err != nil {
		return nil, review, err
	}
	if len(t.rows) <= 1 {
		return []IncomeRecord{}, review, nil
	}

	type key struct {
		county string
		income float64
	}
	seen := make(map[key]struct{}, len(t.rows))
	records := make([]IncomeRecord, 0, len(t.rows)-1)

	for i, rec := range t.rows[1:] {
		row := i + 2
		county := NormalizeCounty(t.get(rec, ColCounty))
		if county == "" {
			return nil, review, &FieldError{Source: incomeSource, Row: row, Field: ColCounty, Err: ErrMissingField}
		}
		raw := t.get(rec, ColHouseholdIncome)
		income, err := parseIncome(raw)
		if err != nil {
			return nil, review, &FieldError{Source: incomeSource, Row: row, Field: ColHouseholdIncome, Value: raw, Err: ErrInvalidValue}
		}

		k := key{county: county, income: income}
		if _, dup := seen[k]; dup {
			review.DuplicatesDropped++
			continue
		}
		seen[k] = struct{}{}
		records = append(records, IncomeRecord{County: county, Income: income})
	}

	incomes := make([]float64, len(records))
	for i := range records {
		incomes[i] = records[i].Income
	}
	median, _ := Median(incomes)
	ranks := CompetitionRank(incomes)
	for i := range records {
		records[i].NJMed = median
		records[i].Rank = ranks[i]
	}
	return records, review, nil
}

// parseIncome accepts plain numbers and tolerates "$" and thousands separators.
func parseIncome(v string) (float64, error) {
	v = strings.NewReplacer("$", "", ",", "").Replace(v)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidValue
	}
	return f, nil
}
