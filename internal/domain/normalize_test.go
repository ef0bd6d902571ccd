package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCountyEssex = "ESSEX"
	testDSCode      = "0007-012"
)

func TestNormalizeSchools(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-74.2,40.7]},
		 "properties":{"COUNTY":"Essex","DIST_CODE":"0007","SCHOOLCODE":"012"}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-74.9,39.1]},
		 "properties":{"COUNTY":"CAPE MAY","DIST_CODE":"80","SCHOOLCODE":1}}
	]}`

	schools, err := NormalizeSchools(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, schools, 2)

	assert.Equal(t, School{County: testCountyEssex, DistrictCode: "0007", SchoolCode: "012", DSCode: testDSCode}, schools[0])
	assert.Equal(t, "0080-001", schools[1].DSCode)
	assert.Equal(t, "CAPE MAY", schools[1].County)
}

func TestNormalizeSchools_MissingProperty(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},
		 "properties":{"COUNTY":"Essex","DIST_CODE":"0007","SCHOOLCODE":"012"}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},
		 "properties":{"COUNTY":"Essex","SCHOOLCODE":"013"}}
	]}`

	_, err := NormalizeSchools(strings.NewReader(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Row)
	assert.Equal(t, PropDistrictCode, fe.Field)
}

func TestNormalizeSchools_InvalidJSON(t *testing.T) {
	_, err := NormalizeSchools(strings.NewReader("{not json"))
	assert.Error(t, err)
}

const testScoresCSV = `DistrictCode,SchoolCode,SchoolName,Test,Subject,School_Avg,State_avg
7,12,Alpha High,SAT,Math,521,528
7,12,Alpha High,SAT,Reading and Writing,530,536
7,12,Alpha High,ACT,Math,22,23
80,1,Beta High,SAT,Math,480,528
90,5,Gamma High,SAT,Reading and Writing,*,536
90,6,Delta High,SAT,Math,N,N
`

func TestNormalizeTestScores(t *testing.T) {
	records, review, err := NormalizeTestScores(strings.NewReader(testScoresCSV))
	require.NoError(t, err)
	require.Len(t, records, 4)

	byCode := make(map[string]TestRecord, len(records))
	for _, r := range records {
		byCode[r.DSCode] = r
	}

	t.Run("both subjects joined", func(t *testing.T) {
		r := byCode[testDSCode]
		require.NotNil(t, r.MathSchoolAvg)
		require.NotNil(t, r.EngSchoolAvg)
		assert.Equal(t, int64(521), *r.MathSchoolAvg)
		assert.Equal(t, int64(530), *r.EngSchoolAvg)
		assert.InDelta(t, 528.0, *r.MathStateAvg, 1e-9)
		assert.InDelta(t, 536.0, *r.EngStateAvg, 1e-9)
	})

	t.Run("math only school is kept with null reading fields", func(t *testing.T) {
		r, ok := byCode["0080-001"]
		require.True(t, ok)
		require.NotNil(t, r.MathSchoolAvg)
		assert.Equal(t, int64(480), *r.MathSchoolAvg)
		assert.Nil(t, r.EngSchoolAvg)
		assert.Nil(t, r.EngStateAvg)
	})

	t.Run("missing markers become null", func(t *testing.T) {
		r := byCode["0090-005"]
		assert.Nil(t, r.EngSchoolAvg)
		require.NotNil(t, r.EngStateAvg)
		assert.Nil(t, r.MathSchoolAvg)

		r = byCode["0090-006"]
		assert.Nil(t, r.MathSchoolAvg)
		assert.Nil(t, r.MathStateAvg)
	})

	t.Run("records are ordered by ds code", func(t *testing.T) {
		assert.Equal(t, "0007-012", records[0].DSCode)
		assert.Equal(t, "0090-006", records[3].DSCode)
	})

	assert.Equal(t, TestScoreReview{
		SATRows:         5,
		ACTRows:         1,
		NullSchoolAvgs:  2,
		MathOnlySchools: 2,
		EngOnlySchools:  1,
	}, review)
}

func TestNormalizeTestScores_TruncatesAverage(t *testing.T) {
	csv := "DistrictCode,SchoolCode,Test,Subject,School_Avg,State_avg\n1,1,SAT,Math,519.8,528\n"
	records, _, err := NormalizeTestScores(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(519), *records[0].MathSchoolAvg)
}

func TestNormalizeTestScores_Errors(t *testing.T) {
	t.Run("uncastable school average", func(t *testing.T) {
		csv := "DistrictCode,SchoolCode,Test,Subject,School_Avg,State_avg\n1,1,SAT,Math,abc,528\n"
		_, _, err := NormalizeTestScores(strings.NewReader(csv))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidValue)

		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, ColSchoolAvg, fe.Field)
		assert.Equal(t, "abc", fe.Value)
	})

	t.Run("uncastable state average", func(t *testing.T) {
		csv := "DistrictCode,SchoolCode,Test,Subject,School_Avg,State_avg\n1,1,SAT,Math,500,n/a\n"
		_, _, err := NormalizeTestScores(strings.NewReader(csv))
		require.ErrorIs(t, err, ErrInvalidValue)

		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, ColStateAvg, fe.Field)
		assert.Equal(t, "n/a", fe.Value)
	})

	t.Run("missing column", func(t *testing.T) {
		csv := "DistrictCode,SchoolCode,Test,School_Avg,State_avg\n1,1,SAT,500,528\n"
		_, _, err := NormalizeTestScores(strings.NewReader(csv))
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("missing district code", func(t *testing.T) {
		csv := "DistrictCode,SchoolCode,Test,Subject,School_Avg,State_avg\n,1,SAT,Math,500,528\n"
		_, _, err := NormalizeTestScores(strings.NewReader(csv))
		assert.ErrorIs(t, err, ErrMissingField)
	})
}

const incomeCSV = `County,Household Income
New Jersey,82545
Essex,90000
Bergen,90000
Bergen,90000
Cape May,80000
`

func TestNormalizeIncome(t *testing.T) {
	records, review, err := NormalizeIncome(strings.NewReader(incomeCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, review.DuplicatesDropped)

	assert.Equal(t, IncomeRecord{County: "ESSEX", Income: 90000, NJMed: 90000, Rank: 1}, records[0])
	assert.Equal(t, IncomeRecord{County: "BERGEN", Income: 90000, NJMed: 90000, Rank: 1}, records[1])
	assert.Equal(t, IncomeRecord{County: "CAPE MAY", Income: 80000, NJMed: 90000, Rank: 3}, records[2])
}

func TestNormalizeIncome_EvenMedian(t *testing.T) {
	csv := "County,Household Income\nState,1\nA,\"$100,000\"\nB,80000\n"
	records, _, err := NormalizeIncome(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.InDelta(t, 90000.0, records[0].NJMed, 1e-9)
	assert.InDelta(t, 100000.0, records[0].Income, 1e-9)
}

func TestNormalizeIncome_Errors(t *testing.T) {
	t.Run("non numeric income", func(t *testing.T) {
		csv := "County,Household Income\nState,1\nEssex,lots\n"
		_, _, err := NormalizeIncome(strings.NewReader(csv))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("only the summary row", func(t *testing.T) {
		records, _, err := NormalizeIncome(strings.NewReader("County,Household Income\nState,1\n"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

const hospitalsCSV = `Facility ID,Facility Name,State,County Name,Hospital overall rating
310001,Essex General,NJ,ESSEX,4
310002,Essex North,NJ,Essex,Not Available
310003,Essex South,NJ,ESSEX,4
100001,Miami General,FL,MIAMI-DADE,3
`

func TestNormalizeHospitals(t *testing.T) {
	records, review, err := NormalizeHospitals(strings.NewReader(hospitalsCSV), "NJ")
	require.NoError(t, err)

	assert.Equal(t, []HospitalRecord{
		{County: testCountyEssex, Rate: "4"},
		{County: testCountyEssex, Rate: "4"},
	}, records)
	assert.Equal(t, HospitalReview{OutOfState: 1, Unavailable: 1}, review)
}

func TestNormalizeHospitals_DropsUnavailable(t *testing.T) {
	csv := "State,County Name,Hospital overall rating\nNJ,Essex,4\nNJ,Essex,Not Available\n"
	records, _, err := NormalizeHospitals(strings.NewReader(csv), "nj")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseRating(t *testing.T) {
	n, err := ParseRating("4")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = ParseRating("four")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestAverageRatings(t *testing.T) {
	got, err := AverageRatings([]HospitalRecord{
		{County: "BERGEN", Rate: "2"},
		{County: testCountyEssex, Rate: "3"},
		{County: testCountyEssex, Rate: "4"},
		{County: testCountyEssex, Rate: " 5"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BERGEN", got[0].County)
	assert.InDelta(t, 2.0, *got[0].AvgRate, 1e-9)
	assert.Equal(t, testCountyEssex, got[1].County)
	assert.InDelta(t, 4.0, *got[1].AvgRate, 1e-9)
}

func TestAverageRatings_NonNumericRating(t *testing.T) {
	_, err := AverageRatings([]HospitalRecord{
		{County: testCountyEssex, Rate: "4"},
		{County: testCountyEssex, Rate: "four"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), testCountyEssex)
}
