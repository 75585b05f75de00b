package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// For question answering it means the document has no processed chunks.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles a document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSegmentation indicates content could not be segmented into chunks.
	// It is never fatal; callers continue with an empty chunk set.
	ErrSegmentation = errors.New("segmentation failed")

	// ErrUpstreamUnavailable indicates an embedding or LLM call exhausted its retries.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrRateLimited indicates the provider kept answering 429 until retries ran out.
	// It is always reported together with ErrUpstreamUnavailable.
	ErrRateLimited = errors.New("rate limited")

	// ErrUpstreamClient indicates the provider rejected the request with a
	// non-retriable 4xx status.
	ErrUpstreamClient = errors.New("upstream client error")

	// ErrStorage indicates a vector store read or write failed.
	ErrStorage = errors.New("storage failure")

	// ErrNotConfigured indicates a required dependency is not configured.
	ErrNotConfigured = errors.New("not configured")

	// ErrNoTierAvailable indicates no answering strategy could be constructed.
	ErrNoTierAvailable = errors.New("no strategy tier available")

	// ErrSessionClosed indicates a chat session no longer accepts deliveries.
	ErrSessionClosed = errors.New("session closed")
)
