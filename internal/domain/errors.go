package domain

import "errors"

// Error kinds surfaced by the stores and adapters. Callers branch on them
// with errors.Is; concrete errors wrap these with context via fmt.Errorf
// and %w.
var (
	// ErrValidation marks invalid field values at creation or edit time.
	// The offending operation is rejected and state is left unchanged.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an operation referencing a non-existent id.
	// Remove deliberately treats this as success instead.
	ErrNotFound = errors.New("not found")

	// ErrExtraction marks an oracle call that failed or returned a
	// malformed candidate shape. No partial commit ever accompanies it.
	ErrExtraction = errors.New("extraction failed")

	// ErrPersistence marks a failed read or write against the external
	// key-value store. The store keeps its last known in-memory value.
	ErrPersistence = errors.New("persistence failed")
)
