package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"generank/domain/core"
)

// Alternative is the directional alternative hypothesis of a rank-sum test.
type Alternative string

const (
	AltGreater  Alternative = "greater"
	AltLess     Alternative = "less"
	AltTwoSided Alternative = "two-sided"
)

// MannWhitneyResult holds the outcome of a two-sample rank-sum test.
type MannWhitneyResult struct {
	U         float64 `json:"u_statistic"`
	Z         float64 `json:"z_score"`
	PValue    float64 `json:"p_value"`
	NX        int     `json:"n_x"`
	NY        int     `json:"n_y"`
	MeanRankX float64 `json:"mean_rank_x"`
	MeanRankY float64 `json:"mean_rank_y"`
}

// MannWhitney runs a two-sample Mann-Whitney/Wilcoxon rank-sum test
// between x and y with the stated alternative ("greater" means x tends
// to rank above y). The p-value uses the normal approximation with tie
// and continuity corrections. Each sample needs at least 2 members.
func MannWhitney(x, y []float64, alt Alternative) (MannWhitneyResult, error) {
	nx, ny := len(x), len(y)
	if nx < 2 || ny < 2 {
		return MannWhitneyResult{}, fmt.Errorf("%w: need at least 2 per group, got %d and %d",
			core.ErrInsufficientData, nx, ny)
	}
	switch alt {
	case AltGreater, AltLess, AltTwoSided:
	default:
		return MannWhitneyResult{}, core.NewInvalidInputError("alternative", string(alt))
	}

	combined := make([]float64, 0, nx+ny)
	combined = append(combined, x...)
	combined = append(combined, y...)

	ranks, err := Ranks(combined)
	if err != nil {
		return MannWhitneyResult{}, err
	}

	sumX := 0.0
	for i := 0; i < nx; i++ {
		sumX += ranks[i]
	}
	sumY := 0.0
	for i := nx; i < nx+ny; i++ {
		sumY += ranks[i]
	}

	fx, fy := float64(nx), float64(ny)
	total := fx + fy

	// U statistic for x relative to y
	u := sumX - fx*(fx+1)/2.0
	mu := fx * fy / 2.0

	// Variance with tie correction:
	// sigma^2 = (nx*ny/12) * ((N+1) - sum(t^3 - t) / (N(N-1)))
	tieTerm := tieCorrection(combined)
	sigma2 := fx * fy / 12.0 * ((total + 1) - tieTerm/(total*(total-1)))
	if sigma2 <= 0 {
		// All observations tied: no evidence either way.
		return MannWhitneyResult{
			U: u, Z: 0, PValue: 1.0,
			NX: nx, NY: ny,
			MeanRankX: sumX / fx, MeanRankY: sumY / fy,
		}, nil
	}
	sigma := math.Sqrt(sigma2)

	norm := distuv.Normal{Mu: 0, Sigma: 1}

	var z, p float64
	switch alt {
	case AltGreater:
		z = (u - mu - 0.5) / sigma
		p = norm.Survival(z)
	case AltLess:
		z = (u - mu + 0.5) / sigma
		p = norm.CDF(z)
	case AltTwoSided:
		shift := 0.5
		if u < mu {
			shift = -0.5
		}
		z = (u - mu - shift) / sigma
		p = 2 * math.Min(norm.CDF(z), norm.Survival(z))
	}

	p = math.Min(math.Max(p, 0), 1)

	return MannWhitneyResult{
		U: u, Z: z, PValue: p,
		NX: nx, NY: ny,
		MeanRankX: sumX / fx, MeanRankY: sumY / fy,
	}, nil
}

// tieCorrection computes sum(t^3 - t) over tie groups of the combined sample.
func tieCorrection(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	sum := 0.0
	for _, c := range counts {
		if c > 1 {
			t := float64(c)
			sum += t*t*t - t
		}
	}
	return sum
}
