package domain

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

const hospitalsSource = "Hospital_General_Information.csv"

// Hospital file columns.
const (
	ColState         = "State"
	ColCountyName    = "County Name"
	ColOverallRating = "Hospital overall rating"
)

// RatingNotAvailable is the CMS marker for a hospital without an overall rating.
const RatingNotAvailable = "Not Available"

// NormalizeHospitals keeps the hospitals of one state and drops those without
// a rating. Counties legitimately have many hospitals, so duplicates stay.
// Ratings are kept as text; see [ParseRating].
func NormalizeHospitals(r io.Reader, state string) ([]HospitalRecord, HospitalReview, error) {
	var review HospitalReview

	t, err := readTable(hospitalsSource, r, ColState, ColCountyName, ColOverallRating)
	if err != nil {
		return nil, review, err
	}

	state = strings.ToUpper(strings.TrimSpace(state))
	records := make([]HospitalRecord, 0)
	for _, rec := range t.rows {
		if t.get(rec, ColState) != state {
			review.OutOfState++
			continue
		}
		rate := t.get(rec, ColOverallRating)
		if rate == RatingNotAvailable {
			review.Unavailable++
			continue
		}
		records = append(records, HospitalRecord{
			County: NormalizeCounty(t.get(rec, ColCountyName)),
			Rate:   rate,
		})
	}
	return records, review, nil
}

// ParseRating converts a stored hospital rating to an integer.
func ParseRating(rate string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(rate))
	if err != nil {
		return 0, &FieldError{Source: "hospitals", Field: "rate", Value: rate, Err: ErrInvalidValue}
	}
	return n, nil
}

// AverageRatings returns the rounded mean rating of each county in records,
// in the order counties first appear. Any non-numeric rating is an error.
func AverageRatings(records []HospitalRecord) ([]CountyRatingAverage, error) {
	var order []string
	rates := make(map[string][]float64)
	for _, r := range records {
		n, err := ParseRating(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("county %s: %w", r.County, err)
		}
		if _, ok := rates[r.County]; !ok {
			order = append(order, r.County)
		}
		rates[r.County] = append(rates[r.County], float64(n))
	}

	out := make([]CountyRatingAverage, 0, len(order))
	for _, county := range order {
		avg := Round2(stat.Mean(rates[county], nil))
		out = append(out, CountyRatingAverage{County: county, AvgRate: &avg})
	}
	return out, nil
}
