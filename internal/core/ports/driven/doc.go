// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document persistence (the upload collaborator)
//   - AnswerLog: Question and answer audit records
//   - Extractor / ExtractorRegistry: Text extraction from uploaded bytes
//   - PostProcessor: Chunking
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the orchestrator skips tiers that need them:
//
//   - EmbeddingService + VectorStore: Required by the vector tier.
//   - LLMService: Required by the vector and legacy tiers and by summaries.
//   - EmbeddingCache: Without it every embedding is fetched from the provider.
//   - Metrics: Without it nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
