package ports

import (
	"context"

	"generank/domain/core"
)

// LedgerPort persists run artifacts. Artifacts are append-only; a run
// never mutates what it has already stored.
type LedgerPort interface {
	StoreArtifact(ctx context.Context, runID string, artifact core.Artifact) error
}

// LedgerReaderPort reads back stored artifacts for reporting surfaces.
type LedgerReaderPort interface {
	ListRuns(ctx context.Context) ([]string, error)
	ListArtifacts(ctx context.Context, runID string) ([]core.Artifact, error)
	ArtifactsByKind(ctx context.Context, runID string, kind core.ArtifactKind) ([]core.Artifact, error)
}
