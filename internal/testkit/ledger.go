package testkit

import (
	"context"
	"fmt"
	"sync"

	"generank/domain/core"
	"generank/ports"
)

// InMemoryLedgerAdapter is the in-process artifact ledger used by the
// CLI, the demo API and the test suites.
type InMemoryLedgerAdapter struct {
	runOrder  []string
	artifacts map[string][]core.Artifact
	mu        sync.RWMutex
}

// NewInMemoryLedgerAdapter creates an empty in-memory ledger.
func NewInMemoryLedgerAdapter() *InMemoryLedgerAdapter {
	return &InMemoryLedgerAdapter{
		artifacts: make(map[string][]core.Artifact),
	}
}

// StoreArtifact appends an artifact to a run.
func (l *InMemoryLedgerAdapter) StoreArtifact(ctx context.Context, runID string, artifact core.Artifact) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.artifacts[runID]; !ok {
		l.runOrder = append(l.runOrder, runID)
	}
	l.artifacts[runID] = append(l.artifacts[runID], artifact)
	return nil
}

// ListRuns returns run identifiers, newest first.
func (l *InMemoryLedgerAdapter) ListRuns(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	runs := make([]string, len(l.runOrder))
	for i, id := range l.runOrder {
		runs[len(l.runOrder)-1-i] = id
	}
	return runs, nil
}

// ListArtifacts returns all artifacts for a run in insertion order.
func (l *InMemoryLedgerAdapter) ListArtifacts(ctx context.Context, runID string) ([]core.Artifact, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stored := l.artifacts[runID]
	out := make([]core.Artifact, len(stored))
	copy(out, stored)
	return out, nil
}

// ArtifactsByKind returns a run's artifacts of one kind.
func (l *InMemoryLedgerAdapter) ArtifactsByKind(ctx context.Context, runID string, kind core.ArtifactKind) ([]core.Artifact, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []core.Artifact
	for _, a := range l.artifacts[runID] {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out, nil
}

var (
	_ ports.LedgerPort       = (*InMemoryLedgerAdapter)(nil)
	_ ports.LedgerReaderPort = (*InMemoryLedgerAdapter)(nil)
)
