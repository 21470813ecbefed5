package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptyGroup       = fmt.Errorf("%w: group size is zero", ErrInvalidInput)
	ErrNonFiniteValue   = fmt.Errorf("%w: non-finite value", ErrInvalidInput)
	ErrInsufficientData = fmt.Errorf("%w: insufficient data for test", ErrInvalidInput)

	// Missing data errors
	ErrMissingData      = errors.New("missing data")
	ErrGeneNotFound     = fmt.Errorf("%w: gene not in universe", ErrMissingData)
	ErrMissingAdjustedP = fmt.Errorf("%w: gene lacks adjusted p-value", ErrMissingData)

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
)

// Error constructors with context

func NewInvalidInputError(subject string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, subject, reason)
}

func NewMissingDataError(subject string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMissingData, subject, reason)
}

func NewGeneNotFoundError(gene GeneID) error {
	return fmt.Errorf("%w: %s", ErrGeneNotFound, gene)
}

// Error checking helpers

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsMissingData(err error) bool {
	return errors.Is(err, ErrMissingData)
}
