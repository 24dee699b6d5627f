// Package embedding provides the embedding generator: the retry,
// caching and degradation policies layered over the raw API client.
package embedding

import (
	"context"
	"strings"
	"time"

	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.EmbeddingGenerator = (*Generator)(nil)

// RetryPolicy bounds the attempts made against the external service.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries (minimum 1).
	MaxAttempts int

	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// DefaultRetryPolicy matches the engine's documented degradation
// behaviour: three attempts, one second apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: time.Second}

// Generator produces embeddings with the degradation contract applied:
// blank input and exhausted retries both yield an empty vector, never an
// error. Callers treat an empty vector as "no embedding available" and
// fall back to lexical matching.
//
// A nil client is valid and disables embedding entirely.
type Generator struct {
	client driven.EmbeddingClient
	policy RetryPolicy
}

// NewGenerator creates a generator over client with the given policy.
func NewGenerator(client driven.EmbeddingClient, policy RetryPolicy) *Generator {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Generator{client: client, policy: policy}
}

// Generate returns the embedding for text, or an empty slice when text
// is blank, no client is configured, or the service stays unreachable
// after the retry budget is spent.
func (g *Generator) Generate(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if g.client == nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		vec, err := g.client.Embed(ctx, text)
		if err == nil {
			return vec
		}
		lastErr = err
		logger.Warn("Embedding attempt %d/%d failed: %v", attempt, g.policy.MaxAttempts, err)

		if attempt == g.policy.MaxAttempts {
			break
		}
		select {
		case <-time.After(g.policy.Delay):
		case <-ctx.Done():
			logger.Warn("Embedding cancelled: %v", ctx.Err())
			return nil
		}
	}

	logger.Warn("Embedding unavailable after %d attempts: %v (falling back to lexical matching)",
		g.policy.MaxAttempts, lastErr)
	return nil
}
