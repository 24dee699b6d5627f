package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Document represents an ingested file with its metadata.
// It is the canonical index entry persisted in the document index.
type Document struct {
	// ID is the content fingerprint that uniquely identifies the document.
	ID string `json:"id"`

	// Title is the human-readable title. Defaults to the original filename.
	Title string `json:"title"`

	// Description is free text supplied at ingestion time.
	Description string `json:"description"`

	// StoredFilename is the name of the verbatim copy kept in the
	// documents directory ("<id>.<ext>").
	StoredFilename string `json:"filename"`

	// OriginalFilename is the name the file had when it was uploaded.
	OriginalFilename string `json:"original_filename"`

	// FileType is the extension without the leading dot (pdf, docx, txt, md).
	FileType string `json:"file_type"`

	// AddedDate is when the document was first ingested. Set once.
	AddedDate time.Time `json:"added_date"`

	// ChunkCount is the number of chunk records at last (re)processing.
	ChunkCount int `json:"num_chunks"`
}

// Chunk represents a searchable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is "<documentID>_<index>", unique within the document.
	ID string `json:"id"`

	// DocumentID links back to the owning Document.
	DocumentID string `json:"doc_id"`

	// Index is the ordinal position within the document's chunk sequence.
	Index int `json:"chunk_index"`

	// Text is the chunk's extracted text. Never empty for a stored chunk.
	Text string `json:"text"`

	// Embedding is the vector representation for semantic search.
	// Empty means "not embedded" and the chunk is matched lexically.
	Embedding []float32 `json:"embedding"`

	// Length is the character count of Text, denormalised for display.
	Length int `json:"length"`
}

// HasEmbedding reports whether the chunk carries a usable vector.
func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ChunkID builds the canonical chunk identifier for a document position.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_%d", documentID, index)
}

// Fingerprint derives the stable document ID from the file content and its
// original filename. Identical bytes under the same name always produce the
// same ID, which makes re-ingestion overwrite the prior record.
func Fingerprint(content []byte, originalFilename string) string {
	h := md5.New()
	h.Write(content)
	h.Write([]byte(originalFilename))
	return hex.EncodeToString(h.Sum(nil))
}
