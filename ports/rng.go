package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// resampling. Permutation draws must be reproducible bit-for-bit
// across runs, so streams are derived from explicit seeds, never from
// wall-clock time or goroutine identity.
type RNGPort interface {
	// SeededStream creates a deterministic generator for a named operation.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// IterationStream creates the generator for one resampling
	// iteration. The stream depends only on baseSeed and the iteration
	// index, which is the documented determinism contract for the
	// permutation null distribution.
	IterationStream(ctx context.Context, baseSeed int64, iteration int) (*rand.Rand, error)
}
