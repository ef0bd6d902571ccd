package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	t.Run("even count averages the middle pair", func(t *testing.T) {
		m, ok := Median([]float64{3, 4, 5, 5})
		assert.True(t, ok)
		assert.InDelta(t, 4.5, m, 1e-9)
	})

	t.Run("odd count takes the middle value", func(t *testing.T) {
		m, ok := Median([]float64{5, 1, 3})
		assert.True(t, ok)
		assert.InDelta(t, 3.0, m, 1e-9)
	})

	t.Run("does not reorder input", func(t *testing.T) {
		xs := []float64{5, 1, 3}
		_, _ = Median(xs)
		assert.Equal(t, []float64{5, 1, 3}, xs)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := Median(nil)
		assert.False(t, ok)
	})
}

func TestCompetitionRank(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []int
	}{
		{"tie at top", []float64{90000, 90000, 80000}, []int{1, 1, 3}},
		{"unsorted input", []float64{80000, 95000, 90000}, []int{3, 1, 2}},
		{"tie in middle", []float64{100, 90, 90, 80}, []int{1, 2, 2, 4}},
		{"all equal", []float64{7, 7, 7}, []int{1, 1, 1}},
		{"empty", nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompetitionRank(tt.in))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 521.67, Round2(521.666666), 1e-9)
	assert.InDelta(t, 0.13, Round2(0.125), 1e-9)
	assert.InDelta(t, 500.0, Round2(500), 1e-9)
}

func TestPercentileBucket(t *testing.T) {
	assert.Equal(t, 530, PercentileBucket(521))
	assert.Equal(t, 530, PercentileBucket(521.01))
	assert.Equal(t, 520, PercentileBucket(520))
	assert.Equal(t, 530, PercentileBucket(529.99))
}
