package domain

import "strings"

const (
	districtCodeWidth = 4
	schoolCodeWidth   = 3
)

// DSCode builds the "DDDD-SSS" join key from a district and school code,
// zero-padding each to its fixed width.
func DSCode(district, school string) string {
	return PadDistrictCode(district) + "-" + PadSchoolCode(school)
}

// PadDistrictCode left-pads a district code with zeros to four digits.
func PadDistrictCode(code string) string { return zeroPad(code, districtCodeWidth) }

// PadSchoolCode left-pads a school code with zeros to three digits.
func PadSchoolCode(code string) string { return zeroPad(code, schoolCodeWidth) }

// zeroPad leaves codes at or above width untouched.
func zeroPad(code string, width int) string {
	code = strings.TrimSpace(code)
	if len(code) >= width {
		return code
	}
	return strings.Repeat("0", width-len(code)) + code
}

// NormalizeCounty upper-cases a county name so all relations group on the same key.
func NormalizeCounty(county string) string {
	return strings.ToUpper(strings.TrimSpace(county))
}
