package domain

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

const testScoresSource = "school_test.csv"

// Test-score file columns.
const (
	ColDistrictCode = "DistrictCode"
	ColSchoolCode   = "SchoolCode"
	ColTest         = "Test"
	ColSubject      = "Subject"
	ColSchoolAvg    = "School_Avg"
	ColStateAvg     = "State_avg"
)

const (
	testSAT = "SAT"
	testACT = "ACT"

	SubjectMath           = "Math"
	SubjectReadingWriting = "Reading and Writing"
)

// subjectScore is one school's average in one SAT subject.
type subjectScore struct {
	school *int64
	state  *float64
}

// NormalizeTestScores pivots the long-format NJDOE test file into one
// TestRecord per school. Only rows whose test is exactly "SAT" are kept; Math
// and Reading/Writing rows are outer-joined on the ds_code so a school that
// reported a single subject is still present. Every school average in the
// file must be an integer or a missing-value marker.
func NormalizeTestScores(r io.Reader) ([]TestRecord, TestScoreReview, error) {
	var review TestScoreReview

	t, err := readTable(testScoresSource, r, ColDistrictCode, ColSchoolCode, ColTest, ColSubject, ColSchoolAvg, ColStateAvg)
	if err != nil {
		return nil, review, err
	}

	mathScores := make(map[string][]subjectScore)
	engScores := make(map[string][]subjectScore)

	for i, rec := range t.rows {
		row := i + 1
		district := t.get(rec, ColDistrictCode)
		if district == "" {
			return nil, review, &FieldError{Source: testScoresSource, Row: row, Field: ColDistrictCode, Err: ErrMissingField}
		}
		school := t.get(rec, ColSchoolCode)
		if school == "" {
			return nil, review, &FieldError{Source: testScoresSource, Row: row, Field: ColSchoolCode, Err: ErrMissingField}
		}
		ds := DSCode(district, school)

		test := t.get(rec, ColTest)
		if strings.Contains(test, testACT) {
			review.ACTRows++
		}
		if strings.Contains(test, testSAT) {
			review.SATRows++
		}

		schoolAvg, err := parseSchoolAvg(t.get(rec, ColSchoolAvg), row)
		if err != nil {
			return nil, review, err
		}
		if schoolAvg == nil {
			review.NullSchoolAvgs++
		}
		stateAvg, err := parseStateAvg(t.get(rec, ColStateAvg), row)
		if err != nil {
			return nil, review, err
		}

		if test != testSAT {
			continue
		}
		score := subjectScore{school: schoolAvg, state: stateAvg}
		switch t.get(rec, ColSubject) {
		case SubjectMath:
			mathScores[ds] = append(mathScores[ds], score)
		case SubjectReadingWriting:
			engScores[ds] = append(engScores[ds], score)
		}
	}

	records := outerJoin(mathScores, engScores, &review)
	return records, review, nil
}

// outerJoin merges the per-subject scores by ds_code, ordered by key. Duplicate
// keys on both sides produce every pairing.
func outerJoin(mathScores, engScores map[string][]subjectScore, review *TestScoreReview) []TestRecord {
	keys := make([]string, 0, len(mathScores)+len(engScores))
	for k := range mathScores {
		keys = append(keys, k)
	}
	for k := range engScores {
		if _, ok := mathScores[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var records []TestRecord
	for _, ds := range keys {
		ms, es := mathScores[ds], engScores[ds]
		switch {
		case len(es) == 0:
			review.MathOnlySchools++
			for _, m := range ms {
				records = append(records, TestRecord{DSCode: ds, MathSchoolAvg: m.school, MathStateAvg: m.state})
			}
		case len(ms) == 0:
			review.EngOnlySchools++
			for _, e := range es {
				records = append(records, TestRecord{DSCode: ds, EngSchoolAvg: e.school, EngStateAvg: e.state})
			}
		default:
			for _, m := range ms {
				for _, e := range es {
					records = append(records, TestRecord{
						DSCode:        ds,
						MathSchoolAvg: m.school,
						MathStateAvg:  m.state,
						EngSchoolAvg:  e.school,
						EngStateAvg:   e.state,
					})
				}
			}
		}
	}
	return records
}

// isMissing reports whether v is one of the NJDOE not-reported markers.
func isMissing(v string) bool {
	return v == "" || v == "N" || v == "*"
}

// parseSchoolAvg truncates a school average to an integer.
func parseSchoolAvg(v string, row int) (*int64, error) {
	if isMissing(v) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &FieldError{Source: testScoresSource, Row: row, Field: ColSchoolAvg, Value: v, Err: ErrInvalidValue}
	}
	n := int64(math.Trunc(f))
	return &n, nil
}

func parseStateAvg(v string, row int) (*float64, error) {
	if isMissing(v) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &FieldError{Source: testScoresSource, Row: row, Field: ColStateAvg, Value: v, Err: ErrInvalidValue}
	}
	return &f, nil
}
