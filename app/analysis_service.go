package app

import (
	"context"
	"fmt"
	"time"

	"generank/adapters/stats/engine"
	"generank/domain/core"
	"generank/domain/expr"
	"generank/domain/geneset"
	"generank/domain/stats"
	"generank/internal"
	"generank/ports"
)

// AnalysisService runs one complete disease-vs-control analysis:
// per-gene AUROC classification calibrated against a permutation null,
// and up/down rank-sum enrichment over the retained gene sets.
type AnalysisService struct {
	rng    ports.RNGPort
	ledger ports.LedgerPort
	logger *internal.Logger
}

// AnalysisRequest defines the inputs for a deterministic analysis run
type AnalysisRequest struct {
	Expression ports.ExpressionSource
	GeneSets   ports.GeneSetSource
	Filter     geneset.FilterConfig
	Seed       int64
	Iterations int
	Workers    int
	RunID      core.RunID // optional, generated if empty
}

// AnalysisResult contains the complete output of an analysis run
type AnalysisResult struct {
	RunID          core.RunID                   `json:"run_id"`
	Classification []stats.ClassificationResult `json:"classification"`
	NullLower      float64                      `json:"null_lower"`
	NullUpper      float64                      `json:"null_upper"`
	EnrichmentUp   []stats.EnrichmentResult     `json:"enrichment_up"`
	EnrichmentDown []stats.EnrichmentResult     `json:"enrichment_down"`
	Fingerprint    core.Hash                    `json:"fingerprint"`
	RuntimeMs      int64                        `json:"runtime_ms"`
}

// RunManifest captures the audit metadata persisted with every run.
type RunManifest struct {
	RunID           core.RunID `json:"run_id"`
	Seed            int64      `json:"seed"`
	Iterations      int        `json:"iterations"`
	UniverseSize    int        `json:"universe_size"`
	DiseaseN        int        `json:"disease_n"`
	ControlN        int        `json:"control_n"`
	SetsDeclared    int        `json:"sets_declared"`
	SetsRetained    int        `json:"sets_retained"`
	NullLower       float64    `json:"null_lower"`
	NullUpper       float64    `json:"null_upper"`
	SignificantGenes int       `json:"significant_genes"`
	Fingerprint     core.Hash  `json:"fingerprint"`
	RuntimeMs       int64      `json:"runtime_ms"`
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(rng ports.RNGPort, ledger ports.LedgerPort, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{rng: rng, ledger: ledger, logger: logger}
}

// Run executes the full analysis with a complete audit trail. The run
// is deterministic for a fixed request: the permutation null depends
// only on the seed and cohort sizes, and every engine re-orders its
// results to logical input order before correction and reporting.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	startTime := time.Now()

	runID := req.RunID
	if runID == "" {
		runID = core.RunID(core.NewID())
	}

	matrix, err := req.Expression.Matrix(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expression matrix: %w", err)
	}
	diseaseN, controlN := matrix.GroupSizes()
	s.logger.Info("run %s: %d genes, %d disease / %d control samples",
		runID, len(matrix.Universe()), diseaseN, controlN)

	// Null calibration runs first so the classification sweep can flag
	// statistics outside the critical bounds.
	estimator := engine.NewPermutationNullEstimator(s.rng, engine.NullEstimatorConfig{
		Iterations: req.Iterations,
		Workers:    req.Workers,
		Seed:       req.Seed,
	})
	null, err := estimator.Estimate(ctx, diseaseN, controlN)
	if err != nil {
		return nil, fmt.Errorf("null calibration failed: %w", err)
	}
	nullLower, nullUpper, err := null.CriticalBounds()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("run %s: null bounds [%.2f, %.2f] from %d draws", runID, nullLower, nullUpper, null.Draws)

	classifier := engine.NewClassifier(engine.ClassifierConfig{Workers: req.Workers})
	classification, err := classifier.Sweep(ctx, matrix, null)
	if err != nil {
		return nil, fmt.Errorf("classification sweep failed: %w", err)
	}

	ranked, err := s.buildRankedList(ctx, req.Expression, classification)
	if err != nil {
		return nil, err
	}

	declared, err := req.GeneSets.LoadGeneSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gene sets: %w", err)
	}
	retained := geneset.Filter(declared, geneset.UniverseOf(ranked.Universe()), req.Filter)
	s.logger.Info("run %s: %d of %d gene sets retained after size filter", runID, len(retained), len(declared))

	enricher := engine.NewEnrichmentEngine(engine.EnrichmentConfig{Workers: req.Workers})
	up, down, err := enricher.RunBothDirections(ctx, ranked, retained)
	if err != nil {
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}

	significant := 0
	for _, c := range classification {
		if c.Significant {
			significant++
		}
	}

	fingerprint := s.computeFingerprint(runID, req.Seed, classification, up, down)
	runtimeMs := time.Since(startTime).Milliseconds()

	manifest := RunManifest{
		RunID:            runID,
		Seed:             req.Seed,
		Iterations:       null.Draws,
		UniverseSize:     len(matrix.Universe()),
		DiseaseN:         diseaseN,
		ControlN:         controlN,
		SetsDeclared:     len(declared),
		SetsRetained:     len(retained),
		NullLower:        nullLower,
		NullUpper:        nullUpper,
		SignificantGenes: significant,
		Fingerprint:      fingerprint,
		RuntimeMs:        runtimeMs,
	}

	if err := s.persist(ctx, runID, classification, null, up, down, manifest); err != nil {
		return nil, err
	}

	return &AnalysisResult{
		RunID:          runID,
		Classification: classification,
		NullLower:      nullLower,
		NullUpper:      nullUpper,
		EnrichmentUp:   up,
		EnrichmentDown: down,
		Fingerprint:    fingerprint,
		RuntimeMs:      runtimeMs,
	}, nil
}

// buildRankedList prefers the upstream DE ranking table; when the
// source provides none, it falls back to ranking genes by their
// classification AUROC over the same universe.
func (s *AnalysisService) buildRankedList(ctx context.Context, source ports.ExpressionSource, classification []stats.ClassificationResult) (*expr.RankedList, error) {
	records, err := source.DERanking(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load DE ranking: %w", err)
	}
	if len(records) > 0 {
		ranked, err := expr.RankedListFromDE(records)
		if err != nil {
			return nil, fmt.Errorf("failed to rank DE table: %w", err)
		}
		return ranked, nil
	}

	values := make(map[core.GeneID]float64, len(classification))
	for _, c := range classification {
		values[c.Gene] = c.AUROC
	}
	return expr.NewRankedList(values)
}

func (s *AnalysisService) persist(ctx context.Context, runID core.RunID,
	classification []stats.ClassificationResult, null *stats.NullDistribution,
	up, down []stats.EnrichmentResult, manifest RunManifest) error {

	store := func(kind core.ArtifactKind, payload interface{}) error {
		artifact := core.Artifact{
			ID:        core.NewID(),
			Kind:      kind,
			Payload:   payload,
			CreatedAt: core.Now(),
		}
		if err := s.ledger.StoreArtifact(ctx, runID.String(), artifact); err != nil {
			return fmt.Errorf("failed to store %s artifact: %w", kind, err)
		}
		return nil
	}

	if err := store(core.ArtifactClassification, classification); err != nil {
		return err
	}
	bounds := map[string]interface{}{
		"lower": manifest.NullLower,
		"upper": manifest.NullUpper,
		"draws": null.Draws,
		"seed":  null.Seed,
	}
	if err := store(core.ArtifactNullBounds, bounds); err != nil {
		return err
	}
	if err := store(core.ArtifactEnrichment, up); err != nil {
		return err
	}
	if err := store(core.ArtifactEnrichment, down); err != nil {
		return err
	}
	return store(core.ArtifactRunManifest, manifest)
}

// computeFingerprint creates a deterministic fingerprint for the run
func (s *AnalysisService) computeFingerprint(runID core.RunID, seed int64,
	classification []stats.ClassificationResult, up, down []stats.EnrichmentResult) core.Hash {

	data := fmt.Sprintf("%s|%d|%d", runID, seed, len(classification))
	for _, c := range classification {
		data += fmt.Sprintf("|%s-%.6f", c.Gene, c.AUROC)
	}
	for _, e := range up {
		data += fmt.Sprintf("|up-%s-%.6g", e.SetName, e.PValue)
	}
	for _, e := range down {
		data += fmt.Sprintf("|down-%s-%.6g", e.SetName, e.PValue)
	}
	return core.NewHash([]byte(data))
}
