package domain

import "math"

// SearchResult represents a single retrieval hit.
type SearchResult struct {
	// Document is the index entry of the owning document.
	Document Document

	// Chunk is the chunk that matched.
	Chunk Chunk

	// Score is the relevance score. Embedding matches score by cosine
	// similarity, lexical matches by the fixed substring/word-overlap
	// scores, so the two populations stay comparable on one scale.
	Score float64
}

// CosineSimilarity computes the normalised dot product of two vectors.
// It returns exactly 0 when the vectors differ in length or either has
// zero norm, so degenerate inputs never produce NaN scores.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
