package stats

import (
	"math"
	"sort"
)

// BenjaminiHochberg applies the Benjamini-Hochberg step-up false
// discovery rate correction to a batch of raw p-values. The adjusted
// value for the k-th smallest p-value is min over j >= k of
// p_(j) * m / j, clipped to [0,1]. Output preserves input order.
// An empty input yields an empty output.
func BenjaminiHochberg(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return []float64{}
	}

	// Sort hypothesis indices by ascending p-value.
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return pvalues[order[i]] < pvalues[order[j]]
	})

	// Step-up pass from the largest p-value down, enforcing monotonicity.
	adjusted := make([]float64, m)
	running := math.Inf(1)
	for k := m - 1; k >= 0; k-- {
		raw := pvalues[order[k]]
		candidate := raw * float64(m) / float64(k+1)
		if candidate < running {
			running = candidate
		}
		adjusted[order[k]] = math.Min(running, 1.0)
	}

	return adjusted
}
