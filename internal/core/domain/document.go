package domain

import "time"

// Document represents an uploaded document with its extracted text.
// Content is immutable once the document has been stored.
type Document struct {
	// ID is the unique identifier for the document.
	// It is the join key into chunk storage and the answer log.
	ID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// Summary is the AI generated summary, or a basic summary when
	// AI processing was unavailable.
	Summary string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Chunks are created only while a document is processed and are never
// mutated; they are removed when the document's chunk set is cleared.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation. Only set by the vector tier.
	Embedding []float32

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time
}

// ProcessResult describes the outcome of processing a document.
type ProcessResult struct {
	// DocumentID is the processed document.
	DocumentID string

	// Tier is the strategy that processed the document.
	Tier Tier

	// Chunks is the number of chunks produced.
	Chunks int
}
