package services

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Lexical fallback scores. Substring hits outrank word-overlap hits but
// both stay below a strong cosine match.
const (
	substringScore     = 0.5
	wordOverlapScale   = 0.3
	minQueryWordLength = 4
	fallbackChunks     = 2
)

// Search scores every chunk of every indexed document against the query
// and returns results sorted by score descending. Chunks with embeddings
// are scored by cosine similarity against the query embedding; chunks
// without fall back to lexical matching. When nothing matches at all,
// the leading chunks of each document are returned so a caller always
// has context to work with while documents exist.
func (p *Processor) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	docs, err := p.index.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []domain.SearchResult{}, nil
	}

	normalized := normalizeText(query)
	queryVec := p.embedder.Generate(ctx, query)
	logger.Debug("search %q: %d documents, query embedding %d dims", query, len(docs), len(queryVec))

	var results []domain.SearchResult
	for _, doc := range docs {
		chunks, err := p.chunks.Get(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		for _, chunk := range chunks {
			score, ok := p.scoreChunk(normalized, queryVec, chunk)
			if ok {
				results = append(results, domain.SearchResult{
					Document: doc,
					Chunk:    chunk,
					Score:    score,
				})
			}
		}
	}

	if len(results) == 0 {
		logger.Debug("search %q: no matches, using fallback chunks", query)
		return p.fallbackResults(ctx, docs)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// scoreChunk applies the degradation ladder to a single chunk: cosine
// similarity when both sides have embeddings, otherwise exact substring,
// otherwise scaled word overlap.
func (p *Processor) scoreChunk(normalizedQuery string, queryVec []float32, chunk domain.Chunk) (float64, bool) {
	if chunk.HasEmbedding() && len(queryVec) > 0 {
		sim := domain.CosineSimilarity(queryVec, chunk.Embedding)
		if sim >= p.minSimilarity {
			return sim, true
		}
		return 0, false
	}

	if normalizedQuery == "" {
		return 0, false
	}

	text := normalizeText(chunk.Text)
	if strings.Contains(text, normalizedQuery) {
		return substringScore, true
	}

	words := queryWords(normalizedQuery)
	if len(words) == 0 {
		return 0, false
	}
	var matched int
	for _, w := range words {
		if strings.Contains(text, w) {
			matched++
		}
	}
	if matched == 0 {
		return 0, false
	}
	return wordOverlapScale * float64(matched) / float64(len(words)), true
}

// fallbackResults returns the first chunks of every document, in index
// order, when the scan produced nothing.
func (p *Processor) fallbackResults(ctx context.Context, docs []domain.Document) ([]domain.SearchResult, error) {
	var results []domain.SearchResult
	for _, doc := range docs {
		chunks, err := p.chunks.Get(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		if len(chunks) > fallbackChunks {
			chunks = chunks[:fallbackChunks]
		}
		for _, chunk := range chunks {
			results = append(results, domain.SearchResult{
				Document: doc,
				Chunk:    chunk,
				Score:    0,
			})
		}
	}
	return results, nil
}

// queryWords extracts the query words long enough to carry signal,
// excluding stopword-like noise.
func queryWords(normalizedQuery string) []string {
	var words []string
	for _, w := range strings.Fields(normalizedQuery) {
		if len(w) >= minQueryWordLength {
			words = append(words, w)
		}
	}
	return words
}

// normalizeText lowercases and strips diacritics so accented and plain
// spellings match each other.
func normalizeText(s string) string {
	// Transformers carry internal state, so the chain is built per call.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	s = strings.ToLower(strings.TrimSpace(s))
	stripped, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return stripped
}
