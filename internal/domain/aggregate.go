package domain

// CountySchoolAverages are the rounded SAT means of one county's schools.
// A field is nil when no school in the county reported that value.
type CountySchoolAverages struct {
	County       string
	MathAvg      *float64
	EngAvg       *float64
	TotalAvg     *float64
	MathStateAvg *float64
	EngStateAvg  *float64
}

// CountySATTotal is the sum of a county's rounded Math and Reading/Writing means.
type CountySATTotal struct {
	County string   `json:"county"`
	SATAvg *float64 `json:"sat_avg"`
}

// CountyRatingAverage is the mean hospital rating of one county.
type CountyRatingAverage struct {
	County  string   `json:"county"`
	AvgRate *float64 `json:"avg_rate"`
}
