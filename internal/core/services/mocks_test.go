package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/postprocessors"
)

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are derived from the text so different texts differ.
type mockEmbeddingService struct {
	mu       sync.Mutex
	calls    int
	embedErr error
	vectors  map[string][]float32
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{float32(len(text)), 1}, nil
}

func (m *mockEmbeddingService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbeddingService) Dimensions() int { return 2 }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, msgs []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = append(m.messages, msgs)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error { return nil }

// mockEmbeddingCache implements driven.EmbeddingCache with injectable failures.
type mockEmbeddingCache struct {
	mu      sync.Mutex
	entries map[string][]float32
	getErr  error
	putErr  error
}

func newMockEmbeddingCache() *mockEmbeddingCache {
	return &mockEmbeddingCache{entries: make(map[string][]float32)}
}

func (m *mockEmbeddingCache) Get(_ context.Context, text string) ([]float32, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.entries[text]
	return v, ok, nil
}

func (m *mockEmbeddingCache) Put(_ context.Context, text string, v []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[text] = v
	return nil
}

func (m *mockEmbeddingCache) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

func (m *mockEmbeddingCache) Close() error { return nil }

// mockStrategy implements Strategy with canned results.
type mockStrategy struct {
	tier       domain.Tier
	answer     string
	answerErr  error
	processErr error
	clearErr   error
	chunks     int

	mu        sync.Mutex
	asked     int
	processed []string
	cleared   []string
}

func (m *mockStrategy) Tier() domain.Tier { return m.tier }

func (m *mockStrategy) Process(_ context.Context, documentID, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = append(m.processed, documentID)
	return m.chunks, m.processErr
}

func (m *mockStrategy) Answer(_ context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asked++
	return m.answer, m.answerErr
}

func (m *mockStrategy) Clear(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, documentID)
	return m.clearErr
}

func (m *mockStrategy) Asked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.asked
}

// mockMetrics records observations.
type mockMetrics struct {
	mu      sync.Mutex
	answers []string
	process []string
	hits    int
	misses  int
	retries []string
}

func (m *mockMetrics) ObserveAnswer(tier domain.Tier, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, fmt.Sprintf("%s:%s", tier, outcome))
}

func (m *mockMetrics) ObserveProcess(tier domain.Tier, outcome string, chunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.process = append(m.process, fmt.Sprintf("%s:%s:%d", tier, outcome, chunks))
}

func (m *mockMetrics) ObserveEmbeddingCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *mockMetrics) ObserveRetry(reason string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries = append(m.retries, reason)
}

// stubPrompts implements driven.PromptStore from a map.
type stubPrompts map[string]string

func (s stubPrompts) Load(name string) (string, error) {
	p, ok := s[name]
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (s stubPrompts) Reload() {}

// chunkingPipeline returns the real chunking pipeline at maxLength.
func chunkingPipeline(maxLength int) (driven.PostProcessorPipeline, error) {
	r := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(r)
	return postprocessors.ChunkingPipeline(r, maxLength)
}

func mustPipeline(maxLength int) driven.PostProcessorPipeline {
	p, err := chunkingPipeline(maxLength)
	if err != nil {
		panic(err)
	}
	return p
}

// paragraphs joins paragraphs with blank lines.
func paragraphs(ps ...string) string {
	return strings.Join(ps, "\n\n")
}
