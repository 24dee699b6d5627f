// Package splitter provides the paragraph-atomic chunking policy.
package splitter

import (
	"regexp"
	"strings"

	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// DefaultChunkSize is the default accumulation threshold in characters.
const DefaultChunkSize = 1000

// paragraphSeparator joins paragraphs merged into the same chunk.
const paragraphSeparator = "\n\n"

// paragraphBoundary matches one or more blank lines, where a blank line
// may contain whitespace.
var paragraphBoundary = regexp.MustCompile(`\n[ \t]*\n+`)

// Splitter divides text into chunks by greedily accumulating whole
// paragraphs. A paragraph is never cut mid-paragraph: one that exceeds
// the threshold on its own becomes its own chunk. Chunks do not overlap.
//
// The policy trades size uniformity for semantic units - merged
// paragraphs stay readable and a single oversized paragraph stays intact.
type Splitter struct {
	chunkSize int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the accumulation threshold in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// New creates a new paragraph splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split returns the chunk texts for text in sequence order.
// Empty or whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	chunks := make([]string, 0, len(paragraphs))
	var buf strings.Builder

	for _, para := range paragraphs {
		// Close the buffer when adding the next paragraph would reach
		// the threshold. The paragraph then starts the next chunk.
		if buf.Len() > 0 && buf.Len()+len(paragraphSeparator)+len(para) >= s.chunkSize {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}

		if buf.Len() > 0 {
			buf.WriteString(paragraphSeparator)
		}
		buf.WriteString(para)
	}

	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

// splitParagraphs cuts text on blank-line boundaries, trimming each
// paragraph and dropping empty ones.
func splitParagraphs(text string) []string {
	parts := paragraphBoundary.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}
