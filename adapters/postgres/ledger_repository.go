package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"generank/domain/core"
	"generank/ports"
)

// ledgerRepository implements the artifact ledger on Postgres.
type ledgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository creates a Postgres-backed ledger.
func NewLedgerRepository(db *sqlx.DB) interface {
	ports.LedgerPort
	ports.LedgerReaderPort
} {
	return &ledgerRepository{db: db}
}

// Schema creates the artifacts table if it does not exist.
func Schema(ctx context.Context, db *sqlx.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS run_artifacts (
		id         TEXT PRIMARY KEY,
		run_id     TEXT NOT NULL,
		kind       TEXT NOT NULL,
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_artifacts_run ON run_artifacts (run_id, kind)`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create run_artifacts schema: %w", err)
	}
	return nil
}

// StoreArtifact appends one artifact to a run. Artifacts are never updated.
func (r *ledgerRepository) StoreArtifact(ctx context.Context, runID string, artifact core.Artifact) error {
	payloadJSON, err := json.Marshal(artifact.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact payload: %w", err)
	}

	query := `INSERT INTO run_artifacts (id, run_id, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query,
		artifact.ID.String(), runID, string(artifact.Kind), payloadJSON, artifact.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to store artifact %s for run %s: %w", artifact.ID, runID, err)
	}
	return nil
}

// ListRuns returns the distinct run identifiers, newest first.
func (r *ledgerRepository) ListRuns(ctx context.Context) ([]string, error) {
	query := `SELECT run_id FROM run_artifacts GROUP BY run_id ORDER BY MAX(created_at) DESC`

	var runs []string
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ListArtifacts returns all artifacts for a run in insertion order.
func (r *ledgerRepository) ListArtifacts(ctx context.Context, runID string) ([]core.Artifact, error) {
	query := `SELECT id, kind, payload, created_at FROM run_artifacts
		WHERE run_id = $1 ORDER BY created_at, id`
	return r.queryArtifacts(ctx, query, runID)
}

// ArtifactsByKind returns a run's artifacts of one kind.
func (r *ledgerRepository) ArtifactsByKind(ctx context.Context, runID string, kind core.ArtifactKind) ([]core.Artifact, error) {
	query := `SELECT id, kind, payload, created_at FROM run_artifacts
		WHERE run_id = $1 AND kind = $2 ORDER BY created_at, id`
	return r.queryArtifacts(ctx, query, runID, string(kind))
}

func (r *ledgerRepository) queryArtifacts(ctx context.Context, query string, args ...interface{}) ([]core.Artifact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []core.Artifact
	for rows.Next() {
		var (
			id          string
			kind        string
			payloadJSON []byte
			createdAt   time.Time
		)
		if err := rows.Scan(&id, &kind, &payloadJSON, &createdAt); err != nil {
			if err == sql.ErrNoRows {
				break
			}
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}

		var payload interface{}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal artifact %s payload: %w", id, err)
			}
		}

		artifacts = append(artifacts, core.Artifact{
			ID:        core.ID(id),
			Kind:      core.ArtifactKind(kind),
			Payload:   payload,
			CreatedAt: core.NewTimestamp(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}

	return artifacts, nil
}
