package sqlstore

// Relation tables. Each seed drops and recreates all of them.
const (
	tableSchools    = "schools"
	tableTestScores = "test_scores"
	tableIncome     = "income"
	tableHospitals  = "hospitals"
)

var schema = []struct {
	table string
	ddl   string
}{
	{tableSchools, `CREATE TABLE schools (
		county      TEXT NOT NULL,
		dist_code   TEXT NOT NULL,
		school_code TEXT NOT NULL,
		ds_code     TEXT NOT NULL
	)`},
	{tableTestScores, `CREATE TABLE test_scores (
		ds_code        TEXT NOT NULL,
		math_sch_avg   BIGINT,
		math_state_avg DOUBLE PRECISION,
		eng_sch_avg    BIGINT,
		eng_state_avg  DOUBLE PRECISION
	)`},
	{tableIncome, `CREATE TABLE income (
		county      TEXT NOT NULL,
		income      DOUBLE PRECISION NOT NULL,
		nj_med      DOUBLE PRECISION NOT NULL,
		income_rank BIGINT NOT NULL
	)`},
	{tableHospitals, `CREATE TABLE hospitals (
		county TEXT,
		rate   TEXT
	)`},
}

var indexes = []string{
	`CREATE INDEX idx_schools_county ON schools (county)`,
	`CREATE INDEX idx_test_scores_ds_code ON test_scores (ds_code)`,
	`CREATE INDEX idx_hospitals_county ON hospitals (county)`,
}
