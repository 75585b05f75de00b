// Package domain defines the core business entities for askdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document and its extracted text
//   - Chunk: A retrievable unit within a document
//   - Answer: The outcome of answering a question against a document
//   - AnswerRecord: A logged question and answer
//   - Tier: A retrieval and answering strategy
//   - SessionMessage: An asynchronous delivery to a chat session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
