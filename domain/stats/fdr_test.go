package stats

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBenjaminiHochberg_KnownValues checks the step-up procedure
// against hand-computed adjustments.
func TestBenjaminiHochberg_KnownValues(t *testing.T) {
	raw := []float64{0.005, 0.009, 0.05, 0.1, 0.2, 0.3}
	want := []float64{0.027, 0.027, 0.1, 0.15, 0.24, 0.3}

	adjusted := BenjaminiHochberg(raw)
	require.Len(t, adjusted, len(raw))
	for i := range want {
		assert.InDelta(t, want[i], adjusted[i], 1e-9, "hypothesis %d", i)
	}
}

// TestBenjaminiHochberg_Properties verifies the standard BH guarantees
func TestBenjaminiHochberg_Properties(t *testing.T) {
	raw := []float64{0.8, 0.01, 0.04, 0.03, 0.5, 0.2, 0.0009, 0.9}
	adjusted := BenjaminiHochberg(raw)

	// Adjusted >= raw, clipped to [0,1].
	for i := range raw {
		if adjusted[i] < raw[i] {
			t.Errorf("adjusted[%d] = %f below raw %f", i, adjusted[i], raw[i])
		}
		if adjusted[i] < 0 || adjusted[i] > 1 {
			t.Errorf("adjusted[%d] = %f outside [0,1]", i, adjusted[i])
		}
	}

	// Monotone non-decreasing when ordered by raw p-value.
	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return raw[order[i]] < raw[order[j]] })
	for k := 1; k < len(order); k++ {
		if adjusted[order[k]] < adjusted[order[k-1]] {
			t.Errorf("adjusted values not monotone at sorted position %d", k)
		}
	}
}

// TestBenjaminiHochberg_PreservesInputOrder verifies output lines up
// with the input hypotheses, not the sorted ones.
func TestBenjaminiHochberg_PreservesInputOrder(t *testing.T) {
	raw := []float64{0.3, 0.0001, 0.3, 0.3}
	adjusted := BenjaminiHochberg(raw)

	if adjusted[1] >= adjusted[0] {
		t.Errorf("smallest raw p-value did not keep the smallest adjusted value: %v", adjusted)
	}
	if math.Abs(adjusted[0]-adjusted[2]) > 1e-12 || math.Abs(adjusted[0]-adjusted[3]) > 1e-12 {
		t.Errorf("equal raw p-values got unequal adjusted values: %v", adjusted)
	}
}

// TestBenjaminiHochberg_EdgeCases covers m=0 and m=1
func TestBenjaminiHochberg_EdgeCases(t *testing.T) {
	if out := BenjaminiHochberg(nil); len(out) != 0 {
		t.Errorf("m=0 output = %v, want empty", out)
	}

	// m=1 is trivially adjusted = raw.
	out := BenjaminiHochberg([]float64{0.0123})
	if len(out) != 1 || math.Abs(out[0]-0.0123) > 1e-12 {
		t.Errorf("m=1 output = %v, want [0.0123]", out)
	}
}
