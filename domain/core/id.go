package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID    ID
	GeneID   string
	SampleID string
	SetName  string
)

func (id RunID) String() string   { return ID(id).String() }
func (g GeneID) String() string   { return string(g) }
func (s SampleID) String() string { return string(s) }
func (n SetName) String() string  { return string(n) }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// ParseGeneID parses a string into GeneID
func ParseGeneID(s string) (GeneID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("gene ID cannot be empty")
	}
	return GeneID(s), nil
}

// Artifact represents any output of the system
type Artifact struct {
	ID        ID           `json:"id"`
	Kind      ArtifactKind `json:"kind"`
	Payload   interface{}  `json:"payload"`
	CreatedAt Timestamp    `json:"created_at"`
}

// ArtifactKind defines types of artifacts
type ArtifactKind string

const (
	// ArtifactClassification is the per-gene AUROC classification batch.
	ArtifactClassification ArtifactKind = "classification"
	// ArtifactNullBounds captures permutation-derived critical bounds.
	ArtifactNullBounds ArtifactKind = "null_bounds"
	// ArtifactEnrichment is one directional enrichment batch (up or down).
	ArtifactEnrichment ArtifactKind = "enrichment"
	// ArtifactRunManifest captures audit metadata for a run (seed, counts, fingerprint).
	ArtifactRunManifest ArtifactKind = "run_manifest"
)
