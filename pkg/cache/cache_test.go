package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsSafe(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	ctx := context.Background()
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())

	_, ok := c.GetEmbedding(ctx, "text-embedding-ada-002", "some text")
	assert.False(t, ok)

	// Writes are no-ops
	c.SetEmbedding(ctx, "text-embedding-ada-002", "some text", []float32{0.1})
	c.Set(ctx, "key", "value", time.Minute)

	var out string
	assert.False(t, c.Get(ctx, "key", &out))
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache

	ctx := context.Background()
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))

	_, ok := c.GetEmbedding(ctx, "model", "text")
	assert.False(t, ok)
	c.SetEmbedding(ctx, "model", "text", []float32{0.1})
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New("not-a-url")
	assert.Error(t, err)
}

func TestEmbeddingKeyIsStable(t *testing.T) {
	key1 := EmbeddingKey("text-embedding-ada-002", "knee surgery")
	key2 := EmbeddingKey("text-embedding-ada-002", "knee surgery")
	key3 := EmbeddingKey("text-embedding-3-small", "knee surgery")

	assert.Equal(t, key1, key2)
	assert.NotEqual(t, key1, key3)
	assert.Contains(t, key1, "embedding:")
}
