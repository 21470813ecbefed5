package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"generank/app"
	"generank/domain/core"
	"generank/domain/geneset"
	"generank/internal"
	"generank/internal/testkit"
	"generank/ports"
)

// App serves analysis runs and their artifacts as JSON.
type App struct {
	router   *chi.Mux
	analysis *app.AnalysisService
	reader   ports.LedgerReaderPort
	cfg      Config
	logger   *internal.Logger
}

// Config holds API application configuration
type Config struct {
	Port         string
	Workers      int
	Permutations int
	Seed         int64
	MinSetSize   int
	MaxSetSize   int
}

// NewApp creates the API application.
func NewApp(cfg Config, analysis *app.AnalysisService, reader ports.LedgerReaderPort) *App {
	a := &App{
		router:   chi.NewRouter(),
		analysis: analysis,
		reader:   reader,
		cfg:      cfg,
		logger:   internal.DefaultLogger,
	}

	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/runs", a.handleListRuns)
		r.Get("/runs/{runID}/artifacts", a.handleRunArtifacts)
		r.Get("/runs/{runID}/enrichment", a.handleRunEnrichment)
		r.Get("/runs/{runID}/classification", a.handleRunClassification)
		r.Post("/analyze/demo", a.handleAnalyzeDemo)
	})

	return a
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("API listening on :%s", a.cfg.Port)
	return http.ListenAndServe(":"+a.cfg.Port, a.router)
}

// Router exposes the handler for tests.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := a.reader.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (a *App) handleRunArtifacts(w http.ResponseWriter, r *http.Request) {
	a.writeArtifacts(w, r, "")
}

func (a *App) handleRunEnrichment(w http.ResponseWriter, r *http.Request) {
	a.writeArtifacts(w, r, core.ArtifactEnrichment)
}

func (a *App) handleRunClassification(w http.ResponseWriter, r *http.Request) {
	a.writeArtifacts(w, r, core.ArtifactClassification)
}

func (a *App) writeArtifacts(w http.ResponseWriter, r *http.Request, kind core.ArtifactKind) {
	runID := chi.URLParam(r, "runID")

	var (
		artifacts []core.Artifact
		err       error
	)
	if kind == "" {
		artifacts, err = a.reader.ListArtifacts(r.Context(), runID)
	} else {
		artifacts, err = a.reader.ArtifactsByKind(r.Context(), runID, kind)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(artifacts) == 0 {
		writeError(w, http.StatusNotFound, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"run_id": runID, "artifacts": artifacts})
}

// handleAnalyzeDemo runs the full pipeline over the synthetic demo
// cohort and returns the run summary.
func (a *App) handleAnalyzeDemo(w http.ResponseWriter, r *http.Request) {
	generator := testkit.NewCohortGenerator(testkit.DefaultCohortConfig())

	result, err := a.analysis.Run(r.Context(), app.AnalysisRequest{
		Expression: generator,
		GeneSets:   generator,
		Filter:     geneset.FilterConfig{MinSize: a.cfg.MinSetSize, MaxSize: a.cfg.MaxSetSize},
		Seed:       a.cfg.Seed,
		Iterations: a.cfg.Permutations,
		Workers:    a.cfg.Workers,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      result.RunID,
		"null_lower":  result.NullLower,
		"null_upper":  result.NullUpper,
		"fingerprint": result.Fingerprint,
		"runtime_ms":  result.RuntimeMs,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": http.StatusText(status)}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
