package ports

import (
	"context"

	"generank/domain/core"
)

// GeneSetSource loads named gene-set definitions from an external
// resource (GMT flat file, workbook, etc). Members are returned as
// declared; filtering against the active universe happens downstream.
type GeneSetSource interface {
	LoadGeneSets(ctx context.Context) (map[core.SetName][]core.GeneID, error)
}
