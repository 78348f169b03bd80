// Package cache provides a Redis-backed cache that degrades to a no-op when
// Redis is not configured. The cache service is optional in deployment, so
// every method treats an unavailable backend as a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultEmbeddingTTL is how long cached embeddings live. Embeddings are
// deterministic per model+text, so the TTL only bounds memory usage.
const DefaultEmbeddingTTL = 24 * time.Hour

// Cache wraps a Redis client. A nil *Cache or a Cache without a backend is
// safe to use; all operations report misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache from a Redis URL. An empty URL returns a disabled
// cache rather than an error.
func New(redisURL string) (*Cache, error) {
	if redisURL == "" {
		return &Cache{ttl: DefaultEmbeddingTTL}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &Cache{
		client: redis.NewClient(opts),
		ttl:    DefaultEmbeddingTTL,
	}, nil
}

// Enabled reports whether a Redis backend is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks backend connectivity. Returns nil when the cache is disabled.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EmbeddingKey derives the cache key for an embedding.
func EmbeddingKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "|" + text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

// GetEmbedding returns a cached embedding, if present.
func (c *Cache) GetEmbedding(ctx context.Context, model, text string) ([]float32, bool) {
	var embedding []float32
	if !c.Get(ctx, EmbeddingKey(model, text), &embedding) {
		return nil, false
	}
	return embedding, true
}

// SetEmbedding caches an embedding. Failures are swallowed; the cache is
// best-effort.
func (c *Cache) SetEmbedding(ctx context.Context, model, text string, embedding []float32) {
	c.Set(ctx, EmbeddingKey(model, text), embedding, c.embeddingTTL())
}

// Get retrieves a JSON-encoded value into dest. Returns false on miss,
// backend error, or decode failure.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// Set stores a JSON-encoded value with a TTL. Failures are swallowed.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

func (c *Cache) embeddingTTL() time.Duration {
	if c == nil || c.ttl == 0 {
		return DefaultEmbeddingTTL
	}
	return c.ttl
}
