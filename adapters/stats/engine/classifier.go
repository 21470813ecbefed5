package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"generank/domain/core"
	"generank/domain/expr"
	"generank/domain/stats"
)

// ClassifierConfig configures the per-gene classification sweep.
type ClassifierConfig struct {
	Workers int `json:"workers"`
}

// Classifier computes the single-gene AUROC biomarker statistic for
// every gene in the universe, with a per-gene rank-sum p-value and
// Benjamini-Hochberg correction across the gene batch. When a null
// distribution is supplied, genes whose AUROC falls outside its
// critical bounds are flagged significant.
type Classifier struct {
	workers int
}

// NewClassifier creates a classification sweep engine.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Classifier{workers: workers}
}

// Sweep classifies every gene in the matrix. Genes are independent
// units of work; results keep the universe order and the first failing
// gene aborts the batch with the gene identifier in the error.
func (c *Classifier) Sweep(ctx context.Context, m *expr.Matrix, null *stats.NullDistribution) ([]stats.ClassificationResult, error) {
	genes := m.Universe()
	if len(genes) == 0 {
		return nil, core.NewInvalidInputError("classifier", "empty gene universe")
	}

	var lower, upper float64
	if null != nil {
		var err error
		lower, upper, err = null.CriticalBounds()
		if err != nil {
			return nil, err
		}
	}

	results := make([]stats.ClassificationResult, len(genes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, gene := range genes {
		i, gene := i, gene
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			disease, control, err := m.GeneValues(gene)
			if err != nil {
				return err
			}
			if len(disease) < 2 || len(control) < 2 {
				return fmt.Errorf("%w: gene %s: group sizes %d/%d",
					core.ErrInsufficientData, gene, len(disease), len(control))
			}

			auroc, err := stats.AUROC(disease, control)
			if err != nil {
				return fmt.Errorf("gene %s: %w", gene, err)
			}

			test, err := stats.MannWhitney(disease, control, stats.AltTwoSided)
			if err != nil {
				return fmt.Errorf("gene %s: %w", gene, err)
			}

			result := stats.ClassificationResult{
				Gene:      gene,
				AUROC:     auroc,
				PositiveN: len(disease),
				NegativeN: len(control),
				PValue:    test.PValue,
			}
			if null != nil {
				result.Significant = auroc < lower || auroc > upper
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Correction is a batch-level post-process over the gene sweep.
	raw := make([]float64, len(results))
	for i := range results {
		raw[i] = results[i].PValue
	}
	adjusted := stats.BenjaminiHochberg(raw)
	for i := range results {
		results[i].QValue = adjusted[i]
	}

	return results, nil
}
