package domain

import "time"

// School is one school location from the NJDOE feature collection.
type School struct {
	County       string
	DistrictCode string
	SchoolCode   string
	DSCode       string
}

// TestRecord holds the SAT Math and Reading/Writing averages for one school.
// A school that reported only one subject has nil fields for the other.
type TestRecord struct {
	DSCode        string
	MathSchoolAvg *int64
	MathStateAvg  *float64
	EngSchoolAvg  *int64
	EngStateAvg   *float64
}

// IncomeRecord is the household income of one county with its statewide context.
type IncomeRecord struct {
	County string  `json:"county"`
	Income float64 `json:"income"`
	NJMed  float64 `json:"nj_med"`
	Rank   int     `json:"rank"`
}

// HospitalRecord is a single rated hospital. Rate is kept as the source text
// and converted to an integer only when aggregated.
type HospitalRecord struct {
	County string `json:"county"`
	Rate   string `json:"rate"`
}

// Dataset is the complete set of normalized relations written by one seed.
type Dataset struct {
	Schools     []School
	TestRecords []TestRecord
	Incomes     []IncomeRecord
	Hospitals   []HospitalRecord
}

// TestScoreReview summarizes the test-score file for operators. ACT rows are
// counted here only; they are never stored.
type TestScoreReview struct {
	SATRows         int `json:"sat_rows"`
	ACTRows         int `json:"act_rows"`
	NullSchoolAvgs  int `json:"null_school_avgs"`
	MathOnlySchools int `json:"math_only_schools"`
	EngOnlySchools  int `json:"eng_only_schools"`
}

// IncomeReview records the rows removed from the income file.
type IncomeReview struct {
	DuplicatesDropped int `json:"duplicates_dropped"`
}

// HospitalReview records the rows removed from the hospital file.
type HospitalReview struct {
	OutOfState  int `json:"out_of_state"`
	Unavailable int `json:"unavailable"`
}

// SeedReport describes one completed seed.
type SeedReport struct {
	RunID     string          `json:"run_id"`
	State     string          `json:"state"`
	SeededAt  time.Time       `json:"seeded_at"`
	Duration  time.Duration   `json:"duration_ns"`
	Rows      RowCounts       `json:"rows"`
	Tests     TestScoreReview `json:"tests"`
	Income    IncomeReview    `json:"income"`
	Hospitals HospitalReview  `json:"hospitals"`
}

// RowCounts is the number of stored rows per relation.
type RowCounts struct {
	Schools     int `json:"schools"`
	TestRecords int `json:"test_records"`
	Incomes     int `json:"incomes"`
	Hospitals   int `json:"hospitals"`
}

// Counts returns the row counts of the dataset.
func (d Dataset) Counts() RowCounts {
	return RowCounts{
		Schools:     len(d.Schools),
		TestRecords: len(d.TestRecords),
		Incomes:     len(d.Incomes),
		Hospitals:   len(d.Hospitals),
	}
}
