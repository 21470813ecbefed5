package engine

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"generank/domain/core"
	"generank/domain/stats"
	"generank/ports"
)

const (
	// DefaultIterations is the default permutation draw count.
	DefaultIterations = 5000
	// DefaultWorkers bounds both parallel workloads.
	DefaultWorkers = 25
)

// NullEstimatorConfig configures a permutation run.
type NullEstimatorConfig struct {
	Iterations int   `json:"iterations"`
	Workers    int   `json:"workers"`
	Seed       int64 `json:"seed"`
}

// DefaultNullEstimatorConfig returns the standard 5000-draw setup.
func DefaultNullEstimatorConfig(seed int64) NullEstimatorConfig {
	return NullEstimatorConfig{Iterations: DefaultIterations, Workers: DefaultWorkers, Seed: seed}
}

// PermutationNullEstimator builds an empirical null distribution of
// the AUROC classification statistic by permuting rank positions over
// the sample labels. Iterations are independent and run on a bounded
// worker group; each iteration's RNG is seeded from the iteration
// index so the output is reproducible bit-for-bit.
type PermutationNullEstimator struct {
	rng ports.RNGPort
	cfg NullEstimatorConfig
}

// NewPermutationNullEstimator creates a null estimator.
func NewPermutationNullEstimator(rng ports.RNGPort, cfg NullEstimatorConfig) *PermutationNullEstimator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &PermutationNullEstimator{rng: rng, cfg: cfg}
}

// Estimate draws cfg.Iterations permutations for a cohort of
// positiveN + negativeN samples and returns the resulting null
// distribution with values sorted ascending. Results are aggregated
// by iteration index, so completion order never affects the output.
func (e *PermutationNullEstimator) Estimate(ctx context.Context, positiveN, negativeN int) (*stats.NullDistribution, error) {
	if e.cfg.Iterations < 1 {
		return nil, core.NewInvalidInputError("null estimator", fmt.Sprintf("iteration count %d < 1", e.cfg.Iterations))
	}
	if positiveN < 1 || negativeN < 1 {
		return nil, fmt.Errorf("%w: positive=%d negative=%d", core.ErrEmptyGroup, positiveN, negativeN)
	}

	total := positiveN + negativeN
	values := make([]float64, e.cfg.Iterations)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for i := 0; i < e.cfg.Iterations; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r, err := e.rng.IterationStream(ctx, e.cfg.Seed, i)
			if err != nil {
				return fmt.Errorf("permutation iteration %d: %w", i, err)
			}

			// Permute rank positions 1..N across the samples; the
			// first positiveN positions are the positive labels.
			perm := r.Perm(total)
			sumPos := 0.0
			for s := 0; s < positiveN; s++ {
				sumPos += float64(perm[s] + 1)
			}

			values[i] = stats.AUROCFromRankSum(sumPos, positiveN, negativeN)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Float64s(values)

	return &stats.NullDistribution{
		Values:    values,
		Draws:     e.cfg.Iterations,
		Seed:      e.cfg.Seed,
		PositiveN: positiveN,
		NegativeN: negativeN,
	}, nil
}
