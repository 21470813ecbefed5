package expr

import (
	"fmt"
	"math"
	"sort"

	"generank/domain/core"
)

// Group labels one of the exactly two cohorts in an analysis.
type Group string

const (
	GroupControl Group = "control"
	GroupDisease Group = "disease"
)

// ExpressionValue is one (gene, sample) expression measurement.
// Raw counts are non-negative; normalized values may be any finite real.
type ExpressionValue struct {
	Gene   core.GeneID   `json:"gene"`
	Sample core.SampleID `json:"sample"`
	Group  Group         `json:"group"`
	Value  float64       `json:"value"`
}

// NewExpressionValue validates and constructs an expression record.
func NewExpressionValue(gene core.GeneID, sample core.SampleID, group Group, value float64) (ExpressionValue, error) {
	if gene == "" {
		return ExpressionValue{}, core.NewInvalidInputError("expression value", "empty gene identifier")
	}
	if sample == "" {
		return ExpressionValue{}, core.NewInvalidInputError("expression value", "empty sample identifier")
	}
	if group != GroupControl && group != GroupDisease {
		return ExpressionValue{}, core.NewInvalidInputError(string(gene), fmt.Sprintf("unknown group %q", group))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ExpressionValue{}, fmt.Errorf("%w: gene %s sample %s", core.ErrNonFiniteValue, gene, sample)
	}
	return ExpressionValue{Gene: gene, Sample: sample, Group: group, Value: value}, nil
}

// Matrix holds expression values for a fixed gene universe over a
// fixed sample cohort with two group labels. Immutable once built.
type Matrix struct {
	genes   []core.GeneID
	samples []core.SampleID
	groups  map[core.SampleID]Group
	values  map[core.GeneID]map[core.SampleID]float64
}

// NewMatrix builds a matrix from expression records. Gene identifiers
// must be unique per sample, every sample must carry a group label,
// and both groups must be represented.
func NewMatrix(records []ExpressionValue) (*Matrix, error) {
	if len(records) == 0 {
		return nil, core.NewInvalidInputError("matrix", "no expression records")
	}

	values := make(map[core.GeneID]map[core.SampleID]float64)
	groups := make(map[core.SampleID]Group)

	for _, r := range records {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("%w: gene %s sample %s", core.ErrNonFiniteValue, r.Gene, r.Sample)
		}
		if g, ok := groups[r.Sample]; ok && g != r.Group {
			return nil, core.NewInvalidInputError(string(r.Sample), "sample labeled with conflicting groups")
		}
		groups[r.Sample] = r.Group

		bySample, ok := values[r.Gene]
		if !ok {
			bySample = make(map[core.SampleID]float64)
			values[r.Gene] = bySample
		}
		if _, dup := bySample[r.Sample]; dup {
			return nil, core.NewInvalidInputError(string(r.Gene), fmt.Sprintf("duplicate value for sample %s", r.Sample))
		}
		bySample[r.Sample] = r.Value
	}

	var hasControl, hasDisease bool
	for _, g := range groups {
		switch g {
		case GroupControl:
			hasControl = true
		case GroupDisease:
			hasDisease = true
		default:
			return nil, core.NewInvalidInputError("matrix", fmt.Sprintf("unknown group %q", g))
		}
	}
	if !hasControl || !hasDisease {
		return nil, core.ErrEmptyGroup
	}

	// Deterministic gene and sample ordering.
	genes := make([]core.GeneID, 0, len(values))
	for g := range values {
		genes = append(genes, g)
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i] < genes[j] })

	samples := make([]core.SampleID, 0, len(groups))
	for s := range groups {
		samples = append(samples, s)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	return &Matrix{genes: genes, samples: samples, groups: groups, values: values}, nil
}

// Universe returns the gene identifiers in deterministic order.
func (m *Matrix) Universe() []core.GeneID {
	out := make([]core.GeneID, len(m.genes))
	copy(out, m.genes)
	return out
}

// Samples returns the sample identifiers in deterministic order.
func (m *Matrix) Samples() []core.SampleID {
	out := make([]core.SampleID, len(m.samples))
	copy(out, m.samples)
	return out
}

// GroupSizes returns the disease (positive) and control (negative) cohort sizes.
func (m *Matrix) GroupSizes() (disease, control int) {
	for _, g := range m.groups {
		if g == GroupDisease {
			disease++
		} else {
			control++
		}
	}
	return disease, control
}

// GeneValues splits one gene's expression values by group. Samples
// lacking a value for the gene are skipped.
func (m *Matrix) GeneValues(gene core.GeneID) (disease, control []float64, err error) {
	bySample, ok := m.values[gene]
	if !ok {
		return nil, nil, core.NewGeneNotFoundError(gene)
	}
	for _, s := range m.samples {
		v, ok := bySample[s]
		if !ok {
			continue
		}
		if m.groups[s] == GroupDisease {
			disease = append(disease, v)
		} else {
			control = append(control, v)
		}
	}
	return disease, control, nil
}
