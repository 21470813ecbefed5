package expr

import (
	"math"
	"testing"

	"generank/domain/core"
)

func sampleRecords() []ExpressionValue {
	return []ExpressionValue{
		{Gene: "TP53", Sample: "C1", Group: GroupControl, Value: 5},
		{Gene: "TP53", Sample: "C2", Group: GroupControl, Value: 6},
		{Gene: "TP53", Sample: "D1", Group: GroupDisease, Value: 9},
		{Gene: "TP53", Sample: "D2", Group: GroupDisease, Value: 10},
		{Gene: "MYC", Sample: "C1", Group: GroupControl, Value: 2},
		{Gene: "MYC", Sample: "C2", Group: GroupControl, Value: 3},
		{Gene: "MYC", Sample: "D1", Group: GroupDisease, Value: 2.5},
		{Gene: "MYC", Sample: "D2", Group: GroupDisease, Value: 2.8},
	}
}

// TestNewMatrix_GroupSplit verifies construction and per-gene group split
func TestNewMatrix_GroupSplit(t *testing.T) {
	m, err := NewMatrix(sampleRecords())
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}

	disease, control := m.GroupSizes()
	if disease != 2 || control != 2 {
		t.Errorf("group sizes = %d/%d, want 2/2", disease, control)
	}

	universe := m.Universe()
	if len(universe) != 2 || universe[0] != "MYC" || universe[1] != "TP53" {
		t.Errorf("universe = %v, want deterministic [MYC TP53]", universe)
	}

	dis, ctrl, err := m.GeneValues("TP53")
	if err != nil {
		t.Fatalf("GeneValues failed: %v", err)
	}
	if len(dis) != 2 || len(ctrl) != 2 {
		t.Fatalf("TP53 split sizes = %d/%d, want 2/2", len(dis), len(ctrl))
	}
	if dis[0]+dis[1] != 19 || ctrl[0]+ctrl[1] != 11 {
		t.Errorf("TP53 split values wrong: disease %v control %v", dis, ctrl)
	}
}

// TestNewMatrix_Validation covers the construction error paths
func TestNewMatrix_Validation(t *testing.T) {
	// Conflicting group label for one sample.
	conflicting := append(sampleRecords(), ExpressionValue{
		Gene: "EGFR", Sample: "C1", Group: GroupDisease, Value: 1,
	})
	if _, err := NewMatrix(conflicting); !core.IsInvalidInput(err) {
		t.Errorf("conflicting group error = %v, want InvalidInput", err)
	}

	// Duplicate (gene, sample) value.
	duplicate := append(sampleRecords(), ExpressionValue{
		Gene: "TP53", Sample: "C1", Group: GroupControl, Value: 99,
	})
	if _, err := NewMatrix(duplicate); !core.IsInvalidInput(err) {
		t.Errorf("duplicate value error = %v, want InvalidInput", err)
	}

	// Only one group present.
	single := []ExpressionValue{
		{Gene: "TP53", Sample: "C1", Group: GroupControl, Value: 1},
		{Gene: "TP53", Sample: "C2", Group: GroupControl, Value: 2},
	}
	if _, err := NewMatrix(single); !core.IsInvalidInput(err) {
		t.Errorf("single group error = %v, want InvalidInput", err)
	}

	// Non-finite value.
	nonFinite := append(sampleRecords(), ExpressionValue{
		Gene: "EGFR", Sample: "D1", Group: GroupDisease, Value: math.NaN(),
	})
	if _, err := NewMatrix(nonFinite); !core.IsInvalidInput(err) {
		t.Errorf("non-finite error = %v, want InvalidInput", err)
	}

	// No records at all.
	if _, err := NewMatrix(nil); !core.IsInvalidInput(err) {
		t.Errorf("empty matrix error = %v, want InvalidInput", err)
	}
}

// TestNewMatrix_UnknownGene verifies missing-gene lookups are MissingData
func TestNewMatrix_UnknownGene(t *testing.T) {
	m, err := NewMatrix(sampleRecords())
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}
	if _, _, err := m.GeneValues("NOPE"); !core.IsMissingData(err) {
		t.Errorf("unknown gene error = %v, want MissingData", err)
	}
}

// TestNewExpressionValue validates the record constructor
func TestNewExpressionValue(t *testing.T) {
	if _, err := NewExpressionValue("", "S1", GroupControl, 1); !core.IsInvalidInput(err) {
		t.Errorf("empty gene error = %v, want InvalidInput", err)
	}
	if _, err := NewExpressionValue("TP53", "S1", Group("other"), 1); !core.IsInvalidInput(err) {
		t.Errorf("unknown group error = %v, want InvalidInput", err)
	}
	if _, err := NewExpressionValue("TP53", "S1", GroupDisease, math.Inf(1)); !core.IsInvalidInput(err) {
		t.Errorf("non-finite error = %v, want InvalidInput", err)
	}

	v, err := NewExpressionValue("TP53", "S1", GroupDisease, 3.5)
	if err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
	if v.Value != 3.5 {
		t.Errorf("value = %v, want 3.5", v.Value)
	}
}
