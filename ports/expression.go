package ports

import (
	"context"

	"generank/domain/expr"
)

// ExpressionSource supplies the analysis inputs produced by external
// collaborators: a normalized expression matrix with two group labels
// and, optionally, an upstream differential-expression ranking table.
// NA adjusted p-values must be excluded upstream; the DE table reaching
// this port is expected to be clean.
type ExpressionSource interface {
	Matrix(ctx context.Context) (*expr.Matrix, error)
	DERanking(ctx context.Context) ([]expr.DERecord, error)
}
