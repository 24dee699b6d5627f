package driving

import "context"

// KnowledgeRetriever turns a free-text question into a formatted
// knowledge block ready to splice into a language-model prompt.
// The prompt assembler consuming the block owns conversation history
// and model invocation; this port is the boundary.
type KnowledgeRetriever interface {
	// RelevantKnowledge searches for the question, keeps the top
	// maxChunks results and appends their texts (wrapped with source
	// delimiters) until the maxChars budget would be exceeded.
	// Returns a sentinel "no relevant information" block when the
	// search produced nothing.
	RelevantKnowledge(ctx context.Context, question string, maxChunks, maxChars int) (string, error)
}
