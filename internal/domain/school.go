package domain

import (
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

const schoolsSource = "school.geojson"

// GeoJSON property names carried by each school feature.
const (
	PropCounty       = "COUNTY"
	PropDistrictCode = "DIST_CODE"
	PropSchoolCode   = "SCHOOLCODE"
)

// NormalizeSchools turns the NJDOE school feature collection into one School
// per feature. Features are not deduplicated. A feature missing any of the
// county, district or school properties fails the whole file.
func NormalizeSchools(r io.Reader) ([]School, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", schoolsSource, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", schoolsSource, err)
	}

	schools := make([]School, 0, len(fc.Features))
	for i, f := range fc.Features {
		row := i + 1
		county, err := stringProperty(f.Properties, PropCounty, row)
		if err != nil {
			return nil, err
		}
		district, err := stringProperty(f.Properties, PropDistrictCode, row)
		if err != nil {
			return nil, err
		}
		school, err := stringProperty(f.Properties, PropSchoolCode, row)
		if err != nil {
			return nil, err
		}

		s := School{
			County:       NormalizeCounty(county),
			DistrictCode: PadDistrictCode(district),
			SchoolCode:   PadSchoolCode(school),
		}
		s.DSCode = s.DistrictCode + "-" + s.SchoolCode
		schools = append(schools, s)
	}
	return schools, nil
}

// stringProperty reads a property as text. Numeric codes are accepted because
// some exports drop the quotes around them.
func stringProperty(props geojson.Properties, key string, row int) (string, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return "", &FieldError{Source: schoolsSource, Row: row, Field: key, Err: ErrMissingField}
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", &FieldError{Source: schoolsSource, Row: row, Field: key, Value: fmt.Sprint(v), Err: ErrInvalidValue}
	}
}
