package expr

import (
	"fmt"
	"math"
	"sort"

	"generank/domain/core"
	"generank/domain/stats"
)

// RankedList maps each gene in a fixed universe to its rank. Ranks
// span [1, N] with ties split to the average rank, so the rank sum
// over N genes is always N(N+1)/2. Immutable once built.
type RankedList struct {
	genes []core.GeneID
	ranks map[core.GeneID]float64
}

// NewRankedList ranks a valued gene vector. Gene order is normalized
// internally so identical inputs always produce identical lists.
func NewRankedList(values map[core.GeneID]float64) (*RankedList, error) {
	if len(values) == 0 {
		return nil, core.NewInvalidInputError("ranked list", "empty gene universe")
	}

	genes := make([]core.GeneID, 0, len(values))
	for g := range values {
		genes = append(genes, g)
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i] < genes[j] })

	vec := make([]float64, len(genes))
	for i, g := range genes {
		vec[i] = values[g]
	}

	ranked, err := stats.Ranks(vec)
	if err != nil {
		return nil, err
	}

	ranks := make(map[core.GeneID]float64, len(genes))
	for i, g := range genes {
		ranks[g] = ranked[i]
	}

	return &RankedList{genes: genes, ranks: ranks}, nil
}

// Len returns the universe size.
func (l *RankedList) Len() int {
	return len(l.genes)
}

// Universe returns the gene identifiers in deterministic order.
func (l *RankedList) Universe() []core.GeneID {
	out := make([]core.GeneID, len(l.genes))
	copy(out, l.genes)
	return out
}

// Rank returns the rank of a gene and whether it is in the universe.
func (l *RankedList) Rank(gene core.GeneID) (float64, bool) {
	r, ok := l.ranks[gene]
	return r, ok
}

// Partition splits the rank values into in-set and out-of-set slices
// relative to the gene-set members. Members outside the universe are
// ignored (they should already have been filtered out).
func (l *RankedList) Partition(members map[core.GeneID]struct{}) (in, out []float64) {
	for _, g := range l.genes {
		if _, ok := members[g]; ok {
			in = append(in, l.ranks[g])
		} else {
			out = append(out, l.ranks[g])
		}
	}
	return in, out
}

// DERecord is one row of an upstream differential-expression ranking
// table. HasAdjustedP distinguishes a present value from an NA cell.
type DERecord struct {
	Gene           core.GeneID `json:"gene"`
	Log2FoldChange float64     `json:"log2_fold_change"`
	AdjustedP      float64     `json:"adjusted_p"`
	HasAdjustedP   bool        `json:"has_adjusted_p"`
}

// RankedListFromDE builds a ranked list from a differential-expression
// table using signed significance, sign(log2FC) * -log10(padj), as the
// ranking metric. Upstream NA exclusion is a precondition: a record
// without an adjusted p-value is a MissingData failure, not a skip.
func RankedListFromDE(records []DERecord) (*RankedList, error) {
	if len(records) == 0 {
		return nil, core.NewInvalidInputError("DE table", "no records")
	}

	values := make(map[core.GeneID]float64, len(records))
	for _, r := range records {
		if !r.HasAdjustedP {
			return nil, fmt.Errorf("%w: %s", core.ErrMissingAdjustedP, r.Gene)
		}
		if _, dup := values[r.Gene]; dup {
			return nil, core.NewInvalidInputError(string(r.Gene), "duplicate gene in DE table")
		}

		padj := r.AdjustedP
		if padj <= 0 {
			// Zero p-values saturate the metric rather than producing Inf.
			padj = math.SmallestNonzeroFloat64
		}
		metric := -math.Log10(padj)
		if r.Log2FoldChange < 0 {
			metric = -metric
		}
		values[r.Gene] = metric
	}

	return NewRankedList(values)
}
