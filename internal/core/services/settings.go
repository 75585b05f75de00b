package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyOpenAIKey       = "openai.api_key"
	keyOpenAIBaseURL   = "openai.base_url"
	keyEmbedModel      = "embedding.model"
	keyLLMModel        = "llm.model"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyLLMTemperature  = "llm.temperature"
	keyLLMLegacyTemp   = "llm.legacy_temperature"
	keyRetryAttempts   = "retry.max_attempts"
	keyRetryBaseDelay  = "retry.base_delay_ms"
	keyRetryMaxDelay   = "retry.max_delay_ms"
	keyRetryRPS        = "retry.requests_per_second"
	keyVectorBackend   = "vector.backend"
	keyVectorDSN       = "vector.dsn"
	keyVectorTopK      = "vector.top_k"
	keyCacheBackend    = "cache.backend"
	keyCacheRedisAddr  = "cache.redis_addr"
	keyCacheRedisPass  = "cache.redis_password"
	keyCacheRedisDB    = "cache.redis_db"
	keyChunkMaxLength  = "chunker.max_length"
	keyChunkKeywordMax = "chunker.keyword_max_length"
	keyQATiers         = "qa.tiers"
	keyDocumentsAsync  = "documents.async"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

// settingKinds lists every key accepted by Set.
var settingKinds = map[string]valueKind{
	keyOpenAIKey:       kindString,
	keyOpenAIBaseURL:   kindString,
	keyEmbedModel:      kindString,
	keyLLMModel:        kindString,
	keyLLMMaxTokens:    kindInt,
	keyLLMTemperature:  kindFloat,
	keyLLMLegacyTemp:   kindFloat,
	keyRetryAttempts:   kindInt,
	keyRetryBaseDelay:  kindInt,
	keyRetryMaxDelay:   kindInt,
	keyRetryRPS:        kindFloat,
	keyVectorBackend:   kindString,
	keyVectorDSN:       kindString,
	keyVectorTopK:      kindInt,
	keyCacheBackend:    kindString,
	keyCacheRedisAddr:  kindString,
	keyCacheRedisPass:  kindString,
	keyCacheRedisDB:    kindInt,
	keyChunkMaxLength:  kindInt,
	keyChunkKeywordMax: kindInt,
	keyQATiers:         kindList,
	keyDocumentsAsync:  kindBool,
}

// SettingKeys returns every key accepted by Set, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService maps configuration keys to domain.AppSettings.
// Overrides (typically from the environment) take precedence over stored
// values and are never persisted.
type SettingsService struct {
	configStore driven.ConfigStore
	overrides   map[string]string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, overrides map[string]string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		overrides:   overrides,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		OpenAI: domain.OpenAISettings{
			APIKey:  s.getString(keyOpenAIKey, ""),
			BaseURL: s.getString(keyOpenAIBaseURL, ""),
		},
		Embedding: domain.EmbeddingSettings{
			Model: s.getString(keyEmbedModel, d.Embedding.Model),
		},
		LLM: domain.LLMSettings{
			Model:             s.getString(keyLLMModel, d.LLM.Model),
			MaxTokens:         s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
			Temperature:       float32(s.getFloat(keyLLMTemperature, float64(d.LLM.Temperature))),
			LegacyTemperature: float32(s.getFloat(keyLLMLegacyTemp, float64(d.LLM.LegacyTemperature))),
		},
		Retry: domain.RetrySettings{
			MaxAttempts:       s.getInt(keyRetryAttempts, d.Retry.MaxAttempts),
			BaseDelay:         s.getMillis(keyRetryBaseDelay, d.Retry.BaseDelay),
			MaxDelay:          s.getMillis(keyRetryMaxDelay, d.Retry.MaxDelay),
			RequestsPerSecond: s.getFloat(keyRetryRPS, d.Retry.RequestsPerSecond),
		},
		Vector: domain.VectorSettings{
			Backend: domain.VectorBackend(s.getString(keyVectorBackend, d.Vector.Backend.String())),
			DSN:     s.getString(keyVectorDSN, ""),
			TopK:    s.getInt(keyVectorTopK, d.Vector.TopK),
		},
		Cache: domain.CacheSettings{
			Backend:       domain.CacheBackend(s.getString(keyCacheBackend, d.Cache.Backend.String())),
			RedisAddr:     s.getString(keyCacheRedisAddr, ""),
			RedisPassword: s.getString(keyCacheRedisPass, ""),
			RedisDB:       s.getInt(keyCacheRedisDB, 0),
		},
		Chunker: domain.ChunkerSettings{
			MaxLength:        s.getInt(keyChunkMaxLength, d.Chunker.MaxLength),
			KeywordMaxLength: s.getInt(keyChunkKeywordMax, d.Chunker.KeywordMaxLength),
		},
		QA: domain.QASettings{
			Tiers: s.getTiers(d.QA.Tiers),
		},
		Documents: domain.DocumentSettings{
			Async: s.getBool(keyDocumentsAsync, d.Documents.Async),
		},
	}

	return settings, nil
}

// Save persists application settings. Overridden keys and an empty API key
// are not written, so values from the environment never reach the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	tiers := make([]string, len(settings.QA.Tiers))
	for i, t := range settings.QA.Tiers {
		tiers[i] = t.String()
	}

	values := []struct {
		key   string
		value any
	}{
		{keyOpenAIBaseURL, settings.OpenAI.BaseURL},
		{keyEmbedModel, settings.Embedding.Model},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyLLMTemperature, float64(settings.LLM.Temperature)},
		{keyLLMLegacyTemp, float64(settings.LLM.LegacyTemperature)},
		{keyRetryAttempts, settings.Retry.MaxAttempts},
		{keyRetryBaseDelay, int(settings.Retry.BaseDelay / time.Millisecond)},
		{keyRetryMaxDelay, int(settings.Retry.MaxDelay / time.Millisecond)},
		{keyRetryRPS, settings.Retry.RequestsPerSecond},
		{keyVectorBackend, settings.Vector.Backend.String()},
		{keyVectorDSN, settings.Vector.DSN},
		{keyVectorTopK, settings.Vector.TopK},
		{keyCacheBackend, settings.Cache.Backend.String()},
		{keyCacheRedisAddr, settings.Cache.RedisAddr},
		{keyCacheRedisDB, settings.Cache.RedisDB},
		{keyChunkMaxLength, settings.Chunker.MaxLength},
		{keyChunkKeywordMax, settings.Chunker.KeywordMaxLength},
		{keyQATiers, tiers},
		{keyDocumentsAsync, settings.Documents.Async},
	}
	if settings.OpenAI.APIKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyOpenAIKey, settings.OpenAI.APIKey})
	}

	for _, v := range values {
		if _, overridden := s.overrides[v.key]; overridden {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set validates and stores a single key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	parsed, err := parseSetting(key, kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w: %w", key, domain.ErrInvalidInput, err)
	}
	return s.configStore.Set(key, parsed)
}

// Validate checks the settings for inconsistent values.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// AvailableTiers returns the enabled tiers whose dependencies are configured,
// in priority order.
func (s *SettingsService) AvailableTiers() []domain.Tier {
	settings, err := s.Get()
	if err != nil {
		return nil
	}

	var tiers []domain.Tier
	for _, t := range domain.AllTiers() {
		if !settings.QA.Enabled(t) {
			continue
		}
		if t.RequiresLLM() && !settings.OpenAI.IsConfigured() {
			continue
		}
		if t.RequiresVectorStore() && !settings.Vector.IsConfigured() {
			continue
		}
		tiers = append(tiers, t)
	}
	return tiers
}

func validateSettings(settings *domain.AppSettings) error {
	if !settings.Vector.Backend.IsValid() {
		return fmt.Errorf("vector.backend %q: %w", settings.Vector.Backend, domain.ErrInvalidInput)
	}
	if settings.Vector.Backend == domain.VectorBackendPostgres && settings.Vector.DSN == "" {
		return fmt.Errorf("vector.backend postgres requires vector.dsn: %w", domain.ErrNotConfigured)
	}
	if !settings.Cache.Backend.IsValid() {
		return fmt.Errorf("cache.backend %q: %w", settings.Cache.Backend, domain.ErrInvalidInput)
	}
	if settings.Cache.Backend == domain.CacheBackendRedis && settings.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.backend redis requires cache.redis_addr: %w", domain.ErrNotConfigured)
	}
	if len(settings.QA.Tiers) == 0 {
		return fmt.Errorf("qa.tiers is empty: %w", domain.ErrInvalidInput)
	}
	if settings.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1: %w", domain.ErrInvalidInput)
	}
	if settings.Retry.BaseDelay > settings.Retry.MaxDelay {
		return fmt.Errorf("retry.base_delay_ms exceeds retry.max_delay_ms: %w", domain.ErrInvalidInput)
	}
	return nil
}

func parseSetting(key string, kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if n < 0 || (n == 0 && key != keyCacheRedisDB) {
			return nil, fmt.Errorf("must be positive, got %d", n)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		if f < 0 {
			return nil, fmt.Errorf("must not be negative, got %g", f)
		}
		if (key == keyLLMTemperature || key == keyLLMLegacyTemp) && f > 2 {
			return nil, fmt.Errorf("temperature must be between 0 and 2, got %g", f)
		}
		return f, nil
	case kindBool:
		return strconv.ParseBool(value)
	case kindList:
		return parseTiers(value)
	default:
		switch key {
		case keyVectorBackend:
			if !domain.VectorBackend(value).IsValid() {
				return nil, fmt.Errorf("unknown vector backend %q", value)
			}
		case keyCacheBackend:
			if !domain.CacheBackend(value).IsValid() {
				return nil, fmt.Errorf("unknown cache backend %q", value)
			}
		}
		return value, nil
	}
}

func parseTiers(value string) ([]string, error) {
	var tiers []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !domain.Tier(part).IsValid() {
			return nil, fmt.Errorf("unknown tier %q", part)
		}
		tiers = append(tiers, part)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("at least one tier is required")
	}
	return tiers, nil
}

// lookup returns the override for key, then the stored value.
func (s *SettingsService) lookup(key string) (any, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	return s.configStore.Get(key)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.overrides[key]; ok {
		return v
	}
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v, ok := s.overrides[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		return defaultVal
	}
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v, ok := s.overrides[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return defaultVal
	}
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if v, ok := s.overrides[key]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return defaultVal
	}
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	ms := s.getInt(key, int(defaultVal/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getTiers(defaultVal []domain.Tier) []domain.Tier {
	var raw []string
	if v, ok := s.lookup(keyQATiers); !ok {
		return defaultVal
	} else if str, isStr := v.(string); isStr {
		raw = strings.Split(str, ",")
	} else {
		raw = s.configStore.GetStringSlice(keyQATiers)
	}

	var tiers []domain.Tier
	for _, r := range raw {
		t := domain.Tier(strings.TrimSpace(r))
		if t.IsValid() {
			tiers = append(tiers, t)
		}
	}
	if len(tiers) == 0 {
		return defaultVal
	}
	return tiers
}
