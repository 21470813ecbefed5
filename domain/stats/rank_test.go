package stats

import (
	"math"
	"testing"

	"generank/domain/core"
)

// TestRanks_SumInvariant verifies the rank sum is N(N+1)/2 with and without ties
func TestRanks_SumInvariant(t *testing.T) {
	cases := [][]float64{
		{3.2, 1.1, 5.5, 2.2, 4.4},
		{1, 1, 1, 1},
		{2, 2, 3, 3, 3, 10, 0.5},
		{7},
	}

	for _, values := range cases {
		ranks, err := Ranks(values)
		if err != nil {
			t.Fatalf("Ranks(%v) failed: %v", values, err)
		}

		n := float64(len(values))
		sum := 0.0
		for _, r := range ranks {
			sum += r
		}
		expected := n * (n + 1) / 2
		if math.Abs(sum-expected) > 1e-9 {
			t.Errorf("rank sum for %v = %f, want %f", values, sum, expected)
		}
	}
}

// TestRanks_TieAveraging verifies tied values share the average rank
func TestRanks_TieAveraging(t *testing.T) {
	ranks, err := Ranks([]float64{10, 20, 20, 30})
	if err != nil {
		t.Fatalf("Ranks failed: %v", err)
	}

	expected := []float64{1, 2.5, 2.5, 4}
	for i, want := range expected {
		if math.Abs(ranks[i]-want) > 1e-9 {
			t.Errorf("rank[%d] = %f, want %f", i, ranks[i], want)
		}
	}
}

// TestRanks_NonFinite verifies non-finite inputs are rejected
func TestRanks_NonFinite(t *testing.T) {
	for _, values := range [][]float64{
		{1, math.NaN(), 3},
		{1, math.Inf(1)},
		{math.Inf(-1), 2},
	} {
		if _, err := Ranks(values); !core.IsInvalidInput(err) {
			t.Errorf("Ranks(%v) error = %v, want InvalidInput", values, err)
		}
	}
}

// TestAUROC_PerfectSeparation verifies strictly greater disease values give exactly 1.0
func TestAUROC_PerfectSeparation(t *testing.T) {
	positive := []float64{10, 11, 12, 13, 14}
	negative := []float64{1, 2, 3, 4, 5}

	auroc, err := AUROC(positive, negative)
	if err != nil {
		t.Fatalf("AUROC failed: %v", err)
	}
	if auroc != 1.0 {
		t.Errorf("AUROC = %v, want exactly 1.0", auroc)
	}

	// Reversed separation gives exactly 0.
	auroc, err = AUROC(negative, positive)
	if err != nil {
		t.Fatalf("AUROC failed: %v", err)
	}
	if auroc != 0.0 {
		t.Errorf("reversed AUROC = %v, want exactly 0.0", auroc)
	}
}

// TestAUROC_InterchangeableGroups verifies identical groups score 0.5
func TestAUROC_InterchangeableGroups(t *testing.T) {
	values := []float64{5, 5, 5, 5}

	auroc, err := AUROC(values, values)
	if err != nil {
		t.Fatalf("AUROC failed: %v", err)
	}
	if math.Abs(auroc-0.5) > 1e-9 {
		t.Errorf("AUROC for tied groups = %f, want 0.5", auroc)
	}
}

// TestAUROC_Bounds verifies the statistic stays in [0,1]
func TestAUROC_Bounds(t *testing.T) {
	cases := []struct {
		positive []float64
		negative []float64
	}{
		{[]float64{1, 5, 3}, []float64{2, 4}},
		{[]float64{0.1}, []float64{0.2, 0.3, 0.05}},
		{[]float64{9, 9, 1}, []float64{9, 2, 8, 3}},
	}

	for _, c := range cases {
		auroc, err := AUROC(c.positive, c.negative)
		if err != nil {
			t.Fatalf("AUROC(%v, %v) failed: %v", c.positive, c.negative, err)
		}
		if auroc < 0 || auroc > 1 {
			t.Errorf("AUROC(%v, %v) = %f outside [0,1]", c.positive, c.negative, auroc)
		}
	}
}

// TestAUROC_EmptyGroup verifies an empty group is InvalidInput
func TestAUROC_EmptyGroup(t *testing.T) {
	if _, err := AUROC(nil, []float64{1, 2}); !core.IsInvalidInput(err) {
		t.Errorf("empty positive group error = %v, want InvalidInput", err)
	}
	if _, err := AUROC([]float64{1, 2}, nil); !core.IsInvalidInput(err) {
		t.Errorf("empty negative group error = %v, want InvalidInput", err)
	}
}
