package driving

import (
	"context"
	"io"

	"github.com/saori-labs/saori-kb/internal/core/domain"
)

// DocumentProcessor orchestrates ingestion, removal, reprocessing and
// search. It exclusively owns the index, the chunk store and the stored
// file copies; no other component mutates them.
type DocumentProcessor interface {
	// Add ingests the file at sourcePath: copy into storage, extract,
	// split, embed, persist chunks, then update the index as the final
	// step. Returns the document ID. Title defaults to the original
	// filename when empty.
	Add(ctx context.Context, sourcePath, title, description string) (string, error)

	// AddFromReader ingests an uploaded byte stream. The stream is
	// staged to a temporary file, processed like Add, and the staging
	// file is removed afterwards.
	AddFromReader(ctx context.Context, r io.Reader, originalFilename, title, description string) (string, error)

	// Remove deletes the stored file, the chunk file and the index
	// entry. Artifact deletions are best-effort and logged; a failed
	// cleanup surfaces in the returned error after the index entry is
	// removed. Returns domain.ErrNotFound for unknown IDs.
	Remove(ctx context.Context, id string) error

	// Reprocess re-runs extraction, splitting and embedding for one
	// document and replaces its chunk list wholesale. Returns a human
	// readable status message.
	Reprocess(ctx context.Context, id string) (string, error)

	// ReprocessAll reprocesses every indexed document. A failure on one
	// document is logged and counted but does not abort the batch; the
	// message reflects partial success.
	ReprocessAll(ctx context.Context) (string, error)

	// RebuildIndex reconstructs the index from the chunk store
	// directory, matching each chunk file to a stored document file and
	// synthesising a minimal entry. Recovery path only.
	RebuildIndex(ctx context.Context) error

	// Search scores every chunk across every indexed document against
	// the query and returns results sorted by score descending. With
	// documents present it always returns at least one result; against
	// an empty index the empty result is legitimate and final.
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)

	// List returns all indexed document records.
	List(ctx context.Context) ([]domain.Document, error)

	// Chunks returns a document's chunk records in sequence order.
	Chunks(ctx context.Context, id string) ([]domain.Chunk, error)
}
