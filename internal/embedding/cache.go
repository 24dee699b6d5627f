package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Ensure cachedClient implements the interface.
var _ driven.EmbeddingClient = (*cachedClient)(nil)

// WithCache wraps a client with an expirable LRU cache keyed by model
// and text hash. Reprocessing a document re-embeds mostly unchanged
// chunks, so the cache saves the bulk of those calls.
// Returns the client unchanged when size or ttl is not positive.
func WithCache(next driven.EmbeddingClient, size int, ttl time.Duration) driven.EmbeddingClient {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &cachedClient{
		next:  next,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

type cachedClient struct {
	next  driven.EmbeddingClient
	cache *expirable.LRU[string, []float32]
}

func (c *cachedClient) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(c.next.ModelName(), text)
	if cached, ok := c.cache.Get(key); ok {
		logger.Debug("Embedding cache hit")
		return cloneVector(cached), nil
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cloneVector(vec))
	return vec, nil
}

func (c *cachedClient) Dimensions() int {
	return c.next.Dimensions()
}

func (c *cachedClient) ModelName() string {
	return c.next.ModelName()
}

// cacheKey hashes model and text so arbitrarily long chunks stay cheap
// to key.
func cacheKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func cloneVector(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
