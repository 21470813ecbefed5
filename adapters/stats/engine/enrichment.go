package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"generank/domain/core"
	"generank/domain/expr"
	"generank/domain/geneset"
	"generank/domain/stats"
)

// EnrichmentConfig configures the per-set test sweep.
type EnrichmentConfig struct {
	Workers int `json:"workers"`
}

// EnrichmentEngine runs the rank-sum enrichment procedure: for each
// retained gene set it tests whether in-set ranks skew away from
// out-of-set ranks in the requested direction, then applies
// Benjamini-Hochberg correction across the whole directional batch.
// Up and down batches are corrected independently, never pooled.
type EnrichmentEngine struct {
	workers int
}

// NewEnrichmentEngine creates an enrichment engine.
func NewEnrichmentEngine(cfg EnrichmentConfig) *EnrichmentEngine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &EnrichmentEngine{workers: workers}
}

// Run tests every gene set against the ranked list for one direction.
// Gene sets are independent units of work; the first failing set
// aborts the batch with the set name and direction in the error.
// Correction happens only after every raw p-value is in, and results
// keep the input set order.
func (e *EnrichmentEngine) Run(ctx context.Context, ranked *expr.RankedList, sets []geneset.GeneSet, dir stats.Direction) ([]stats.EnrichmentResult, error) {
	if ranked == nil || ranked.Len() == 0 {
		return nil, core.NewInvalidInputError("enrichment", "empty ranked list")
	}
	if len(sets) == 0 {
		return []stats.EnrichmentResult{}, nil
	}

	results := make([]stats.EnrichmentResult, len(sets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, set := range sets {
		i, set := i, set
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			in, out := ranked.Partition(set.MemberSet())
			if len(in) < 2 || len(out) < 2 {
				// The size filter should have excluded this set already.
				return fmt.Errorf("%w: gene set %s (%s): partition sizes %d/%d",
					core.ErrInsufficientData, set.Name, dir, len(in), len(out))
			}

			test, err := stats.MannWhitney(in, out, dir.Alternative())
			if err != nil {
				return fmt.Errorf("gene set %s (%s): %w", set.Name, dir, err)
			}

			results[i] = stats.EnrichmentResult{
				SetName:     set.Name,
				Direction:   dir,
				InSetN:      test.NX,
				OutOfSetN:   test.NY,
				MeanRankIn:  test.MeanRankX,
				MeanRankOut: test.MeanRankY,
				PValue:      test.PValue,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Batch-level correction after all raw p-values are computed.
	raw := make([]float64, len(results))
	for i := range results {
		raw[i] = results[i].PValue
	}
	adjusted := stats.BenjaminiHochberg(raw)
	for i := range results {
		results[i].AdjustedPValue = adjusted[i]
	}

	return results, nil
}

// RunBothDirections runs the up and down batches over the same ranked
// list and gene sets, each with its own independent correction.
func (e *EnrichmentEngine) RunBothDirections(ctx context.Context, ranked *expr.RankedList, sets []geneset.GeneSet) (up, down []stats.EnrichmentResult, err error) {
	up, err = e.Run(ctx, ranked, sets, stats.DirectionUp)
	if err != nil {
		return nil, nil, err
	}
	down, err = e.Run(ctx, ranked, sets, stats.DirectionDown)
	if err != nil {
		return nil, nil, err
	}
	return up, down, nil
}
