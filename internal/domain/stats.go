package domain

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Median returns the middle value of xs, averaging the two middle values when
// len(xs) is even. ok is false for an empty slice.
func Median(xs []float64) (median float64, ok bool) {
	n := len(xs)
	if n == 0 {
		return 0, false
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil), true
}

// CompetitionRank ranks xs in descending order. Ties share the lowest rank of
// their group and the following rank skips ahead: [90, 90, 80] → [1, 1, 3].
func CompetitionRank(xs []float64) []int {
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return xs[order[a]] > xs[order[b]] })

	ranks := make([]int, len(xs))
	for pos, idx := range order {
		if pos > 0 && xs[idx] == xs[order[pos-1]] {
			ranks[idx] = ranks[order[pos-1]]
			continue
		}
		ranks[idx] = pos + 1
	}
	return ranks
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// PercentileBucket rounds a score up to the next multiple of ten.
func PercentileBucket(score float64) int {
	return int(10 * math.Ceil(score/10))
}
