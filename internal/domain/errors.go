package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or missing search query.
	ErrInvalidQuery = errors.New("query is required")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexUnavailable signals a vector index transport or service failure.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrMetadataUnavailable signals a metadata service failure. It never
	// crosses the orchestrator boundary: lookups absorb it to an absent record.
	ErrMetadataUnavailable = errors.New("metadata service unavailable")
)
