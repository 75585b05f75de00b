package domain

import "time"

// VectorBackend selects the storage used by the vector tier.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendSQLite stores embeddings in the local SQLite database.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendPostgres stores embeddings in PostgreSQL with pgvector.
	VectorBackendPostgres VectorBackend = "postgres"

	// VectorBackendMemory keeps embeddings in process memory.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendNone disables the vector tier.
	VectorBackendNone VectorBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendPostgres, VectorBackendMemory, VectorBackendNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// CacheBackend selects the embedding cache implementation.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendMemory caches embeddings for the process lifetime.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendRedis caches embeddings in Redis.
	CacheBackendRedis CacheBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	return b == CacheBackendMemory || b == CacheBackendRedis
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// OpenAISettings holds provider credentials.
type OpenAISettings struct {
	// APIKey enables every tier that calls the provider.
	APIKey string

	// BaseURL overrides the provider endpoint. Empty uses the default.
	BaseURL string
}

// IsConfigured returns true if an API key is present.
func (o OpenAISettings) IsConfigured() bool {
	return o.APIKey != ""
}

// EmbeddingSettings holds embedding model configuration.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string
}

// LLMSettings holds chat model configuration.
type LLMSettings struct {
	// Model is the chat model name.
	Model string

	// MaxTokens caps the answer length.
	MaxTokens int

	// Temperature is used by the vector tier.
	Temperature float32

	// LegacyTemperature is used by the legacy LLM tier.
	LegacyTemperature float32
}

// RetrySettings configures the resilient HTTP caller.
type RetrySettings struct {
	// MaxAttempts is the total number of attempts per request.
	MaxAttempts int

	// BaseDelay is the first backoff delay.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
}

// VectorSettings configures the vector tier storage.
type VectorSettings struct {
	// Backend selects the storage implementation.
	Backend VectorBackend

	// DSN is the PostgreSQL connection string for the postgres backend.
	DSN string

	// TopK is the number of chunks retrieved per question.
	TopK int
}

// IsConfigured returns true if the vector tier has usable storage.
func (v VectorSettings) IsConfigured() bool {
	switch v.Backend {
	case VectorBackendSQLite, VectorBackendMemory:
		return true
	case VectorBackendPostgres:
		return v.DSN != ""
	default:
		return false
	}
}

// CacheSettings configures the embedding cache.
type CacheSettings struct {
	// Backend selects the cache implementation.
	Backend CacheBackend

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string

	// RedisPassword authenticates against Redis.
	RedisPassword string

	// RedisDB is the Redis database number.
	RedisDB int
}

// ChunkerSettings configures chunk sizes per tier.
type ChunkerSettings struct {
	// MaxLength is the soft chunk size for the vector and legacy tiers.
	MaxLength int

	// KeywordMaxLength is the soft chunk size for the keyword tier.
	KeywordMaxLength int
}

// QASettings configures the strategy orchestrator.
type QASettings struct {
	// Tiers lists the enabled tiers. Order is ignored; priority is fixed.
	Tiers []Tier
}

// Enabled returns true if the tier is listed.
func (q QASettings) Enabled(t Tier) bool {
	for _, enabled := range q.Tiers {
		if enabled == t {
			return true
		}
	}
	return false
}

// DocumentSettings configures ingestion.
type DocumentSettings struct {
	// Async runs tier processing and summarisation in the background.
	Async bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	OpenAI    OpenAISettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Retry     RetrySettings
	Vector    VectorSettings
	Cache     CacheSettings
	Chunker   ChunkerSettings
	QA        QASettings
	Documents DocumentSettings
}

// Default setting values.
const (
	DefaultEmbeddingModel        = "text-embedding-3-small"
	DefaultEmbeddingDimensions   = 1536
	DefaultLLMModel              = "gpt-4o-mini"
	DefaultMaxTokens             = 500
	DefaultTemperature           = float32(0.3)
	DefaultLegacyTemperature     = float32(0.7)
	DefaultMaxAttempts           = 5
	DefaultBaseDelay             = 500 * time.Millisecond
	DefaultMaxDelay              = 10 * time.Second
	DefaultTopK                  = 3
	DefaultChunkMaxLength        = 1000
	DefaultKeywordChunkMaxLength = 500
)

// DefaultAppSettings returns settings with sensible defaults.
// The provider is left unconfigured; without an API key only the
// keyword tier is available.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{Model: DefaultEmbeddingModel},
		LLM: LLMSettings{
			Model:             DefaultLLMModel,
			MaxTokens:         DefaultMaxTokens,
			Temperature:       DefaultTemperature,
			LegacyTemperature: DefaultLegacyTemperature,
		},
		Retry: RetrySettings{
			MaxAttempts: DefaultMaxAttempts,
			BaseDelay:   DefaultBaseDelay,
			MaxDelay:    DefaultMaxDelay,
		},
		Vector: VectorSettings{
			Backend: VectorBackendSQLite,
			TopK:    DefaultTopK,
		},
		Cache: CacheSettings{Backend: CacheBackendMemory},
		Chunker: ChunkerSettings{
			MaxLength:        DefaultChunkMaxLength,
			KeywordMaxLength: DefaultKeywordChunkMaxLength,
		},
		QA: QASettings{Tiers: AllTiers()},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
