package stats

import (
	"math"
	"sort"

	"generank/domain/core"
)

// Ranks converts values to ranks spanning [1, N], handling ties by
// averaging the tied rank positions. The sum of ranks over N items is
// always N(N+1)/2. Non-finite values are rejected.
func Ranks(values []float64) ([]float64, error) {
	n := len(values)
	if n == 0 {
		return []float64{}, nil
	}

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.ErrNonFiniteValue
		}
	}

	// Create index-value pairs for sorting
	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range values {
		pairs[i] = pair{value: val, index: i}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)

	// Assign ranks, handling ties by averaging
	i := 0
	for i < n {
		j := i + 1

		// Find the end of the tie group
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		// Average rank for this group
		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0

		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j
	}

	return ranks, nil
}

// AUROC computes the area under the ROC curve for a single score
// separating the positive group from the negative group, via the
// Mann-Whitney U identity:
//
//	AUROC = SumOfRanks(positive) / (p*n) - (p+1) / (2n)
//
// This equals the probability that a randomly drawn positive value
// ranks above a randomly drawn negative value. Ties contribute half.
func AUROC(positive, negative []float64) (float64, error) {
	p := len(positive)
	n := len(negative)
	if p == 0 || n == 0 {
		return 0, core.ErrEmptyGroup
	}

	combined := make([]float64, 0, p+n)
	combined = append(combined, positive...)
	combined = append(combined, negative...)

	ranks, err := Ranks(combined)
	if err != nil {
		return 0, err
	}

	sumPos := 0.0
	for i := 0; i < p; i++ {
		sumPos += ranks[i]
	}

	return AUROCFromRankSum(sumPos, p, n), nil
}

// AUROCFromRankSum rescales a positive-group rank sum to the [0,1]
// AUROC statistic. Callers are responsible for p > 0 and n > 0.
func AUROCFromRankSum(sumPositiveRanks float64, p, n int) float64 {
	return sumPositiveRanks/(float64(p)*float64(n)) - float64(p+1)/(2.0*float64(n))
}
