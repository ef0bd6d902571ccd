package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSCode(t *testing.T) {
	tests := []struct {
		district, school string
		want             string
	}{
		{"7", "12", "0007-012"},
		{"0007", "012", "0007-012"},
		{"1234", "5", "1234-005"},
		{" 80 ", " 1", "0080-001"},
		{"12345", "1234", "12345-1234"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DSCode(tt.district, tt.school))
		})
	}
}

func TestNormalizeCounty(t *testing.T) {
	assert.Equal(t, "ESSEX", NormalizeCounty(" Essex "))
	assert.Equal(t, "CAPE MAY", NormalizeCounty("Cape May"))
	assert.Empty(t, NormalizeCounty("  "))
}
