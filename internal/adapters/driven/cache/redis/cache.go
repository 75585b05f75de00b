// Package redis provides an embedding cache backed by Redis, so cached
// vectors survive process restarts and are shared between instances.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// DefaultKeyPrefix namespaces askdoc keys.
const DefaultKeyPrefix = "askdoc:embedding:"

// Config configures the Redis cache.
type Config struct {
	Addr     string
	Password string
	DB       int

	// Model separates vectors of different embedding models.
	Model string

	// KeyPrefix overrides DefaultKeyPrefix.
	KeyPrefix string

	// DialTimeout bounds connection attempts (default 5s).
	DialTimeout time.Duration
}

// Cache stores embeddings as little-endian float32 blobs without expiry.
type Cache struct {
	client *redis.Client
	prefix string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: address is required")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		MaxRetries:  1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return &Cache{client: client, prefix: keyPrefix(cfg.KeyPrefix, cfg.Model)}, nil
}

// Get returns the cached vector and true on a hit.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, c.key(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading embedding: %w", err)
	}

	v, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Put stores the vector with no expiry.
func (c *Cache) Put(ctx context.Context, text string, embedding []float32) error {
	if err := c.client.Set(ctx, c.key(text), encode(embedding), 0).Err(); err != nil {
		return fmt.Errorf("writing embedding: %w", err)
	}
	return nil
}

// Len counts keys under the cache prefix.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scanning keys: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Close closes the client.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) key(text string) string {
	return cacheKey(c.prefix, text)
}

func keyPrefix(prefix, model string) string {
	if model == "" {
		return prefix
	}
	return prefix + model + ":"
}

// cacheKey hashes the text so keys stay short; SHA-256 keeps distinct texts distinct.
func cacheKey(prefix, text string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + hex.EncodeToString(sum[:])
}

func encode(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decode(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("decoding embedding: blob length %d is not a multiple of 4", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
