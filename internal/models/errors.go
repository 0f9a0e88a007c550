package models

import "errors"

var (
	// ErrNotFound signals a missing entity, distinct from any query failure.
	ErrNotFound = errors.New("not found")

	// ErrJobConflict signals that a pending or in_progress job already
	// occupies the table config's single active slot.
	ErrJobConflict = errors.New("vectorization job already running for this table")

	// ErrConfigDisabled signals a start request against a table config whose
	// vectorization has not been enabled.
	ErrConfigDisabled = errors.New("vectorization is disabled for this table")

	// ErrCacheDisabled signals a cache operation while the semantic cache is
	// turned off in configuration.
	ErrCacheDisabled = errors.New("semantic query cache is disabled")

	// ErrEmptyQuestion rejects blank text-to-SQL input before any model call.
	ErrEmptyQuestion = errors.New("question must not be empty")
)
