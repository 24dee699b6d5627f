package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/saori-labs/saori-kb/internal/core/ports/driving"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.KnowledgeRetriever = (*Retriever)(nil)

// NoKnowledgeFound is returned when search produced nothing to inject.
const NoKnowledgeFound = "No relevant information was found in the documents."

// truncateHeadroom is the minimum remaining budget worth filling with a
// truncated chunk. Below it the chunk is dropped instead.
const truncateHeadroom = 100

// Retriever turns a question into a formatted knowledge block for a
// language-model prompt. It owns result selection and the character
// budget; the caller owns conversation history and model invocation.
type Retriever struct {
	processor driving.DocumentProcessor
}

// NewRetriever creates a knowledge retriever over a document processor.
func NewRetriever(processor driving.DocumentProcessor) *Retriever {
	return &Retriever{processor: processor}
}

// RelevantKnowledge searches for the question and assembles the top
// results into delimited excerpts until the character budget runs out.
func (r *Retriever) RelevantKnowledge(ctx context.Context, question string, maxChunks, maxChars int) (string, error) {
	results, err := r.processor.Search(ctx, question)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return NoKnowledgeFound, nil
	}
	if maxChunks > 0 && len(results) > maxChunks {
		logger.Debug("limiting knowledge from %d to %d chunks", len(results), maxChunks)
		results = results[:maxChunks]
	}

	var b strings.Builder
	for i, result := range results {
		header := fmt.Sprintf("--- Begin excerpt %d (from %s) ---\n", i+1, result.Document.Title)
		footer := fmt.Sprintf("\n--- End excerpt %d ---\n", i+1)
		text := result.Chunk.Text

		if maxChars > 0 {
			overhead := len(header) + len(footer)
			remaining := maxChars - b.Len() - overhead
			if remaining < len(text) {
				// Truncate only when enough headroom remains for the
				// excerpt to still be useful.
				if remaining < truncateHeadroom {
					break
				}
				text = text[:remaining]
			}
		}

		b.WriteString(header)
		b.WriteString(text)
		b.WriteString(footer)

		if maxChars > 0 && len(text) < len(result.Chunk.Text) {
			break
		}
	}

	if b.Len() == 0 {
		return NoKnowledgeFound, nil
	}

	logger.Debug("assembled %d characters of knowledge for %q", b.Len(), question)
	return b.String(), nil
}
