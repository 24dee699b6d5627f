package driven

import "context"

// EmbeddingClient talks to the external embedding API.
// Errors propagate; degradation policy lives in the EmbeddingGenerator.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Any OpenAI-compatible endpoint (configurable base URL)
type EmbeddingClient interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}

// EmbeddingGenerator produces embeddings with the engine's degradation
// policy applied: bounded retries on failure, then an empty vector.
//
// An empty result means "no embedding available" and is never an error;
// callers fall back to lexical matching. Nothing escapes this boundary.
type EmbeddingGenerator interface {
	// Generate returns the embedding for text, or an empty slice when
	// text is blank or the external service stays unreachable after the
	// retry budget is spent.
	Generate(ctx context.Context, text string) []float32
}
