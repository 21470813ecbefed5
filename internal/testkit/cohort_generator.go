package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"generank/domain/core"
	"generank/domain/expr"
	"generank/domain/stats"
	"generank/ports"
)

// CohortGeneratorConfig configures the synthetic expression generator
type CohortGeneratorConfig struct {
	GeneCount       int     `json:"gene_count"`
	SamplesPerGroup int     `json:"samples_per_group"`
	SignalGeneCount int     `json:"signal_gene_count"`
	SignalShift     float64 `json:"signal_shift"`
	GeneSetCount    int     `json:"gene_set_count"`
	GeneSetSize     int     `json:"gene_set_size"`
	Seed            int64   `json:"seed"`
}

// DefaultCohortConfig returns sensible defaults for a demo cohort
func DefaultCohortConfig() CohortGeneratorConfig {
	return CohortGeneratorConfig{
		GeneCount:       500,
		SamplesPerGroup: 10,
		SignalGeneCount: 40,
		SignalShift:     2.0,
		GeneSetCount:    12,
		GeneSetSize:     25,
		Seed:            42,
	}
}

// CohortGenerator produces a synthetic two-group expression cohort
// with a block of truly shifted signal genes, a matching DE ranking
// table, and gene sets that mix signal and background genes. The first
// gene set is built entirely from signal genes so enrichment runs on
// demo data have a known positive.
type CohortGenerator struct {
	config CohortGeneratorConfig

	once     sync.Once
	buildErr error
	matrix   *expr.Matrix
	ranking  []expr.DERecord
	sets     map[core.SetName][]core.GeneID
}

// NewCohortGenerator creates a synthetic cohort generator
func NewCohortGenerator(config CohortGeneratorConfig) *CohortGenerator {
	return &CohortGenerator{config: config}
}

// Matrix returns the synthetic expression matrix.
func (g *CohortGenerator) Matrix(ctx context.Context) (*expr.Matrix, error) {
	g.build()
	return g.matrix, g.buildErr
}

// DERanking returns the synthetic differential-expression table.
func (g *CohortGenerator) DERanking(ctx context.Context) ([]expr.DERecord, error) {
	g.build()
	return g.ranking, g.buildErr
}

// LoadGeneSets returns the synthetic gene-set definitions.
func (g *CohortGenerator) LoadGeneSets(ctx context.Context) (map[core.SetName][]core.GeneID, error) {
	g.build()
	return g.sets, g.buildErr
}

func (g *CohortGenerator) build() {
	g.once.Do(func() {
		rng := rand.New(rand.NewSource(g.config.Seed))

		genes := make([]core.GeneID, g.config.GeneCount)
		for i := range genes {
			genes[i] = core.GeneID(fmt.Sprintf("GENE%04d", i+1))
		}

		// The leading block carries the disease signal.
		signal := make(map[core.GeneID]struct{}, g.config.SignalGeneCount)
		for i := 0; i < g.config.SignalGeneCount && i < len(genes); i++ {
			signal[genes[i]] = struct{}{}
		}

		records := make([]expr.ExpressionValue, 0, g.config.GeneCount*2*g.config.SamplesPerGroup)
		diseaseValues := make(map[core.GeneID][]float64, len(genes))
		controlValues := make(map[core.GeneID][]float64, len(genes))

		for _, gene := range genes {
			base := rng.Float64()*8 + 4 // log2-scale baseline expression

			for s := 0; s < g.config.SamplesPerGroup; s++ {
				ctrl := base + rng.NormFloat64()
				sample := core.SampleID(fmt.Sprintf("CTRL%02d", s+1))
				records = append(records, expr.ExpressionValue{
					Gene: gene, Sample: sample, Group: expr.GroupControl, Value: ctrl,
				})
				controlValues[gene] = append(controlValues[gene], ctrl)
			}

			shift := 0.0
			if _, ok := signal[gene]; ok {
				shift = g.config.SignalShift
			}
			for s := 0; s < g.config.SamplesPerGroup; s++ {
				dis := base + shift + rng.NormFloat64()
				sample := core.SampleID(fmt.Sprintf("DIS%02d", s+1))
				records = append(records, expr.ExpressionValue{
					Gene: gene, Sample: sample, Group: expr.GroupDisease, Value: dis,
				})
				diseaseValues[gene] = append(diseaseValues[gene], dis)
			}
		}

		matrix, err := expr.NewMatrix(records)
		if err != nil {
			g.buildErr = fmt.Errorf("failed to build synthetic matrix: %w", err)
			return
		}
		g.matrix = matrix

		// DE table: per-gene rank-sum p-value, BH-adjusted across genes.
		raw := make([]float64, len(genes))
		lfc := make([]float64, len(genes))
		for i, gene := range genes {
			test, err := stats.MannWhitney(diseaseValues[gene], controlValues[gene], stats.AltTwoSided)
			if err != nil {
				g.buildErr = fmt.Errorf("failed to build DE table for %s: %w", gene, err)
				return
			}
			raw[i] = test.PValue
			lfc[i] = mean(diseaseValues[gene]) - mean(controlValues[gene])
		}
		adjusted := stats.BenjaminiHochberg(raw)

		g.ranking = make([]expr.DERecord, len(genes))
		for i, gene := range genes {
			g.ranking[i] = expr.DERecord{
				Gene:           gene,
				Log2FoldChange: lfc[i],
				AdjustedP:      adjusted[i],
				HasAdjustedP:   true,
			}
		}

		// Gene sets: one pure signal set, the rest random background draws.
		g.sets = make(map[core.SetName][]core.GeneID, g.config.GeneSetCount)
		signalSet := make([]core.GeneID, 0, g.config.GeneSetSize)
		for i := 0; i < g.config.GeneSetSize && i < g.config.SignalGeneCount; i++ {
			signalSet = append(signalSet, genes[i])
		}
		g.sets[core.SetName("DEMO_SIGNAL")] = signalSet

		for n := 1; n < g.config.GeneSetCount; n++ {
			members := make([]core.GeneID, 0, g.config.GeneSetSize)
			for _, idx := range rng.Perm(len(genes))[:g.config.GeneSetSize] {
				members = append(members, genes[idx])
			}
			g.sets[core.SetName(fmt.Sprintf("DEMO_RANDOM_%02d", n))] = members
		}
	})
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

var (
	_ ports.ExpressionSource = (*CohortGenerator)(nil)
	_ ports.GeneSetSource    = (*CohortGenerator)(nil)
)
