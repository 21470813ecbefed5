package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"generank/domain/core"
	"generank/domain/expr"
	"generank/domain/geneset"
	"generank/domain/stats"
)

func tenGeneRanking(t *testing.T) *expr.RankedList {
	t.Helper()
	values := map[core.GeneID]float64{
		"GENE01": 0.1, "GENE02": 0.2, "GENE03": 0.3, "GENE04": 0.4, "GENE05": 0.5,
		"GENE06": 0.6, "GENE07": 0.7, "GENE08": 0.8, "GENE09": 0.9, "GENE10": 1.0,
	}
	ranked, err := expr.NewRankedList(values)
	if err != nil {
		t.Fatalf("NewRankedList failed: %v", err)
	}
	return ranked
}

// TestEnrichment_TopRankedSet runs the full procedure on a ranked list
// where the gene set occupies the three highest ranks. The up-direction
// test is expected to call the set enriched at the 0.05 level, and with
// a single tested set the adjusted p-value equals the raw one.
func TestEnrichment_TopRankedSet(t *testing.T) {
	ranked := tenGeneRanking(t)
	sets := []geneset.GeneSet{{Name: "TOP3", Members: []core.GeneID{"GENE08", "GENE09", "GENE10"}}}

	engine := NewEnrichmentEngine(EnrichmentConfig{Workers: 4})

	up, err := engine.Run(context.Background(), ranked, sets, stats.DirectionUp)
	if err != nil {
		t.Fatalf("up run failed: %v", err)
	}
	if len(up) != 1 {
		t.Fatalf("got %d results, want 1", len(up))
	}

	r := up[0]
	if r.SetName != "TOP3" || r.Direction != stats.DirectionUp {
		t.Errorf("result labeled %s/%s", r.SetName, r.Direction)
	}
	if r.InSetN != 3 || r.OutOfSetN != 7 {
		t.Errorf("partition sizes %d/%d, want 3/7", r.InSetN, r.OutOfSetN)
	}
	if r.MeanRankIn != 9.0 {
		t.Errorf("MeanRankIn = %v, want 9.0", r.MeanRankIn)
	}
	if r.MeanRankOut != 4.0 {
		t.Errorf("MeanRankOut = %v, want 4.0", r.MeanRankOut)
	}
	if r.PValue >= 0.05 {
		t.Errorf("PValue = %v, want < 0.05", r.PValue)
	}
	if r.AdjustedPValue != r.PValue {
		t.Errorf("single-set batch: adjusted %v != raw %v", r.AdjustedPValue, r.PValue)
	}

	// The same set tested in the down direction should be nowhere near
	// significant.
	down, err := engine.Run(context.Background(), ranked, sets, stats.DirectionDown)
	if err != nil {
		t.Fatalf("down run failed: %v", err)
	}
	if down[0].PValue < 0.5 {
		t.Errorf("down PValue = %v for a top-ranked set", down[0].PValue)
	}
}

// TestEnrichment_IndependentDirectionalCorrection verifies up and down
// batches are corrected separately and results keep set order.
func TestEnrichment_IndependentDirectionalCorrection(t *testing.T) {
	ranked := tenGeneRanking(t)
	sets := []geneset.GeneSet{
		{Name: "HIGH", Members: []core.GeneID{"GENE08", "GENE09", "GENE10"}},
		{Name: "LOW", Members: []core.GeneID{"GENE01", "GENE02", "GENE03"}},
		{Name: "MID", Members: []core.GeneID{"GENE04", "GENE06", "GENE08"}},
	}

	engine := NewEnrichmentEngine(EnrichmentConfig{})

	up, down, err := engine.RunBothDirections(context.Background(), ranked, sets)
	if err != nil {
		t.Fatalf("RunBothDirections failed: %v", err)
	}
	if len(up) != len(sets) || len(down) != len(sets) {
		t.Fatalf("got %d up / %d down results, want %d each", len(up), len(down), len(sets))
	}

	for i, set := range sets {
		if up[i].SetName != set.Name || down[i].SetName != set.Name {
			t.Errorf("result %d out of order: up=%s down=%s want %s", i, up[i].SetName, down[i].SetName, set.Name)
		}
	}

	// HIGH should lead the up batch and LOW the down batch.
	if !(up[0].PValue < up[1].PValue && up[0].PValue < up[2].PValue) {
		t.Errorf("HIGH not the strongest up signal: %v %v %v", up[0].PValue, up[1].PValue, up[2].PValue)
	}
	if !(down[1].PValue < down[0].PValue && down[1].PValue < down[2].PValue) {
		t.Errorf("LOW not the strongest down signal: %v %v %v", down[0].PValue, down[1].PValue, down[2].PValue)
	}

	// Each directional batch carries its own monotone correction.
	for _, batch := range [][]stats.EnrichmentResult{up, down} {
		for _, r := range batch {
			if r.AdjustedPValue < r.PValue {
				t.Errorf("set %s (%s): adjusted %v below raw %v", r.SetName, r.Direction, r.AdjustedPValue, r.PValue)
			}
			if r.AdjustedPValue > 1 {
				t.Errorf("set %s (%s): adjusted %v above 1", r.SetName, r.Direction, r.AdjustedPValue)
			}
		}
	}
}

// TestEnrichment_UndersizedSetAborts verifies a set leaving fewer than
// two genes on either side of the partition fails the batch with the
// set identified in the error.
func TestEnrichment_UndersizedSetAborts(t *testing.T) {
	ranked := tenGeneRanking(t)
	sets := []geneset.GeneSet{
		{Name: "OK", Members: []core.GeneID{"GENE01", "GENE05", "GENE09"}},
		{Name: "SINGLETON", Members: []core.GeneID{"GENE02"}},
	}

	_, err := NewEnrichmentEngine(EnrichmentConfig{}).Run(context.Background(), ranked, sets, stats.DirectionUp)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
	if !strings.Contains(err.Error(), "SINGLETON") {
		t.Errorf("error %q does not name the failing set", err)
	}
}

// TestEnrichment_EmptyInputs covers the degenerate edges.
func TestEnrichment_EmptyInputs(t *testing.T) {
	engine := NewEnrichmentEngine(EnrichmentConfig{})

	if _, err := engine.Run(context.Background(), nil, nil, stats.DirectionUp); !core.IsInvalidInput(err) {
		t.Errorf("nil ranked list error = %v, want InvalidInput", err)
	}

	results, err := engine.Run(context.Background(), tenGeneRanking(t), nil, stats.DirectionUp)
	if err != nil {
		t.Fatalf("empty set slice failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for zero sets", len(results))
	}
}
