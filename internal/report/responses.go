package report

import "github.com/couchcryptid/njstats/internal/domain"

// SchoolCountyReport is one row of /school/counties/{county}.
type SchoolCountyReport struct {
	County       string   `json:"county"`
	MathAvg      *float64 `json:"math_avg"`
	EngAvg       *float64 `json:"eng_avg"`
	TotalAvg     *float64 `json:"total_avg"`
	MathStateAvg *float64 `json:"math_state_avg"`
	EngStateAvg  *float64 `json:"eng_state_avg"`
	MathPctl     *string  `json:"math_pctl"`
	EngPctl      *string  `json:"eng_pctl"`
}

// HospitalCountyReport is the body of /hospital/counties/{county}.
type HospitalCountyReport struct {
	List  []domain.HospitalRecord `json:"list"`
	Stats HospitalStats           `json:"stats"`
}

// HospitalStats summarizes the ratings in a HospitalCountyReport.
type HospitalStats struct {
	Median *float64 `json:"median"`
}
