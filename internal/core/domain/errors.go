package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates an indexing pass is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic indexing and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrChatUnavailable indicates the chat completion service is not
	// configured.
	ErrChatUnavailable = errors.New("chat service unavailable")

	// ErrAPIKeyMissing indicates a required provider credential is absent.
	// Detected before attempting the call, never surfaced as a panic or a
	// raw provider error.
	ErrAPIKeyMissing = errors.New("API key missing")

	// ErrCanvasUnavailable indicates the canvas provider is not configured.
	ErrCanvasUnavailable = errors.New("canvas provider unavailable")
)
