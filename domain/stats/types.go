package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"generank/domain/core"
)

// Direction tags an enrichment batch by the sign of regulation it probes.
// Up uses alternative "greater" (in-set ranks skew high), down uses "less".
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Alternative returns the rank-sum alternative hypothesis for the direction.
func (d Direction) Alternative() Alternative {
	if d == DirectionDown {
		return AltLess
	}
	return AltGreater
}

// ClassificationResult is the per-gene AUROC classification output.
// INVARIANTS:
// - AUROC always in [0.0, 1.0]
// - PositiveN and NegativeN both > 0
// Immutable once computed.
type ClassificationResult struct {
	Gene      core.GeneID `json:"gene"`
	AUROC     float64     `json:"auroc"`
	PositiveN int         `json:"positive_n"`
	NegativeN int         `json:"negative_n"`
	PValue    float64     `json:"p_value"`
	QValue    float64     `json:"q_value"`
	// Significant is set when AUROC falls outside the permutation null
	// critical bounds for the run.
	Significant bool `json:"significant"`
}

// EnrichmentResult is the per-gene-set rank-sum enrichment output for
// one direction. Adjusted p-values are corrected within the direction
// batch only; up and down batches are never pooled.
type EnrichmentResult struct {
	SetName        core.SetName `json:"set_name"`
	Direction      Direction    `json:"direction"`
	InSetN         int          `json:"n_in_set"`
	OutOfSetN      int          `json:"n_out_of_set"`
	MeanRankIn     float64      `json:"mean_rank_in_set"`
	MeanRankOut    float64      `json:"mean_rank_out_of_set"`
	PValue         float64      `json:"p_value"`
	AdjustedPValue float64      `json:"adjusted_p_value"`
}

// NullDistribution is the empirical null of the classification
// statistic from label-permutation resampling. Values are sorted
// ascending and immutable once generated.
type NullDistribution struct {
	Values     []float64 `json:"values"`
	Draws      int       `json:"draws"`
	Seed       int64     `json:"seed"`
	PositiveN  int       `json:"positive_n"`
	NegativeN  int       `json:"negative_n"`
}

// CriticalBounds returns the bottom-2.5% and top-2.5% quantiles of the
// null distribution, rounded to 2 decimal places, usable as two-sided
// critical bounds for flagging observed statistics.
func (d NullDistribution) CriticalBounds() (lower, upper float64, err error) {
	lower, err = mstats.Percentile(d.Values, 2.5)
	if err != nil {
		return 0, 0, core.NewInvalidInputError("null distribution", err.Error())
	}
	upper, err = mstats.Percentile(d.Values, 97.5)
	if err != nil {
		return 0, 0, core.NewInvalidInputError("null distribution", err.Error())
	}
	return round2(lower), round2(upper), nil
}

// Outside reports whether a statistic falls outside the critical bounds.
func (d NullDistribution) Outside(statistic float64) (bool, error) {
	lower, upper, err := d.CriticalBounds()
	if err != nil {
		return false, err
	}
	return statistic < lower || statistic > upper, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
