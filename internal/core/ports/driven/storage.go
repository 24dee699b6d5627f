package driven

import (
	"context"

	"github.com/saori-labs/saori-kb/internal/core/domain"
)

// IndexStore persists the document index: one record per ingested file,
// keyed by document ID. Backed by a single pretty-printed JSON file.
type IndexStore interface {
	// Get retrieves a document record. Returns domain.ErrNotFound when
	// the ID is unknown.
	Get(ctx context.Context, id string) (domain.Document, error)

	// Put stores or replaces a document record.
	Put(ctx context.Context, doc domain.Document) error

	// Delete removes a document record. Returns domain.ErrNotFound when
	// the ID is unknown.
	Delete(ctx context.Context, id string) error

	// List returns all document records.
	List(ctx context.Context) ([]domain.Document, error)

	// Replace swaps the entire index contents. Used by index rebuild.
	Replace(ctx context.Context, docs map[string]domain.Document) error
}

// ChunkStore persists chunk records, one file per document. The stored
// order is the canonical chunk sequence order.
type ChunkStore interface {
	// Save replaces the document's chunk list wholesale.
	Save(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// Get returns the document's chunks in sequence order. A document
	// with no chunk file yields an empty slice, not an error.
	Get(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Delete removes the document's chunk file if present.
	Delete(ctx context.Context, documentID string) error

	// DocumentIDs lists the document IDs that have a chunk file.
	// Used by index rebuild, where chunk files are the authoritative
	// evidence of a document's existence.
	DocumentIDs(ctx context.Context) ([]string, error)
}

// FileStore keeps the verbatim copies of ingested files, one per
// document, named "<documentID>.<ext>".
type FileStore interface {
	// Save writes content under storedFilename and returns the absolute
	// path of the stored copy.
	Save(ctx context.Context, storedFilename string, content []byte) (string, error)

	// Path returns the absolute path a stored filename resolves to.
	// It does not check existence.
	Path(storedFilename string) string

	// Delete removes a stored file. A missing file is not an error.
	Delete(ctx context.Context, storedFilename string) error

	// FindByPrefix returns the stored filename whose name starts with
	// the given document ID prefix, or domain.ErrNotFound.
	FindByPrefix(ctx context.Context, idPrefix string) (string, error)
}
