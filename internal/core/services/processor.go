package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/core/ports/driving"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Ensure Processor implements the interface.
var _ driving.DocumentProcessor = (*Processor)(nil)

// DefaultMinSimilarity is the default cosine threshold for including an
// embedding match in search results.
const DefaultMinSimilarity = 0.1

// Processor implements document ingestion, reprocessing, removal,
// index rebuild and search over the three storage ports.
type Processor struct {
	index         driven.IndexStore
	chunks        driven.ChunkStore
	files         driven.FileStore
	registry      driven.ExtractorRegistry
	splitter      driven.Splitter
	embedder      driven.EmbeddingGenerator
	minSimilarity float64
	now           func() time.Time
}

// ProcessorOption configures the processor.
type ProcessorOption func(*Processor)

// WithMinSimilarity sets the cosine similarity inclusion threshold.
func WithMinSimilarity(min float64) ProcessorOption {
	return func(p *Processor) {
		if min > 0 {
			p.minSimilarity = min
		}
	}
}

// WithClock overrides the clock. Used by tests.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor creates a document processor.
func NewProcessor(
	index driven.IndexStore,
	chunks driven.ChunkStore,
	files driven.FileStore,
	registry driven.ExtractorRegistry,
	splitter driven.Splitter,
	embedder driven.EmbeddingGenerator,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		index:         index,
		chunks:        chunks,
		files:         files,
		registry:      registry,
		splitter:      splitter,
		embedder:      embedder,
		minSimilarity: DefaultMinSimilarity,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add ingests the file at sourcePath and returns the document ID.
func (p *Processor) Add(ctx context.Context, sourcePath, title, description string) (string, error) {
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("source file %q: %w", sourcePath, domain.ErrNotFound)
		}
		return "", fmt.Errorf("read source file %q: %w", sourcePath, err)
	}
	return p.addContent(ctx, content, filepath.Base(sourcePath), title, description)
}

// AddFromReader ingests an uploaded byte stream. The stream is staged to
// a uniquely named temporary file so a failed upload never touches the
// document store, then processed like Add.
func (p *Processor) AddFromReader(ctx context.Context, r io.Reader, originalFilename, title, description string) (string, error) {
	staged := filepath.Join(os.TempDir(), "saori-kb-upload-"+uuid.NewString())

	f, err := os.Create(staged)
	if err != nil {
		return "", fmt.Errorf("%w: stage upload: %v", domain.ErrPersistence, err)
	}
	defer os.Remove(staged)

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: stage upload: %v", domain.ErrPersistence, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: stage upload: %v", domain.ErrPersistence, err)
	}

	content, err := os.ReadFile(staged)
	if err != nil {
		return "", fmt.Errorf("%w: read staged upload: %v", domain.ErrPersistence, err)
	}
	return p.addContent(ctx, content, originalFilename, title, description)
}

func (p *Processor) addContent(ctx context.Context, content []byte, originalFilename, title, description string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalFilename), "."))
	if ext == "" {
		return "", fmt.Errorf("file %q has no extension: %w", originalFilename, domain.ErrUnsupportedFormat)
	}

	extractor, err := p.registry.ForExtension(ext)
	if err != nil {
		return "", fmt.Errorf("file %q: %w", originalFilename, err)
	}

	id := domain.Fingerprint(content, originalFilename)
	storedFilename := id + "." + ext

	if title == "" {
		title = originalFilename
	}

	doc := domain.Document{
		ID:               id,
		Title:            title,
		Description:      description,
		StoredFilename:   storedFilename,
		OriginalFilename: originalFilename,
		FileType:         ext,
		AddedDate:        p.now().UTC(),
	}

	// Re-ingesting identical content keeps the first ingestion date.
	if existing, err := p.index.Get(ctx, id); err == nil {
		doc.AddedDate = existing.AddedDate
		logger.Debug("document %s already indexed, overwriting", id)
	}

	storedPath, err := p.files.Save(ctx, storedFilename, content)
	if err != nil {
		return "", err
	}

	count, err := p.processChunks(ctx, id, storedPath, extractor)
	if err != nil {
		return "", err
	}
	doc.ChunkCount = count

	// Index update is the final step so a failure earlier never leaves a
	// half-written index entry.
	if err := p.index.Put(ctx, doc); err != nil {
		return "", err
	}

	logger.Info("added document %s (%q, %d chunks)", id, doc.Title, count)
	return id, nil
}

// processChunks runs extract, split, embed and chunk persistence for a
// stored file. Returns the number of chunks written.
func (p *Processor) processChunks(ctx context.Context, id, storedPath string, extractor driven.Extractor) (int, error) {
	text, err := extractor.Extract(ctx, storedPath)
	if err != nil {
		return 0, err
	}

	texts := p.splitter.Split(text)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(id, i),
			DocumentID: id,
			Index:      i,
			Text:       t,
			Embedding:  p.embedder.Generate(ctx, t),
			Length:     len(t),
		})
	}

	if err := p.chunks.Save(ctx, id, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// Remove deletes a document's stored file, chunk file and index entry.
// Artifact cleanup is best-effort; the index entry is removed last.
func (p *Processor) Remove(ctx context.Context, id string) error {
	doc, err := p.index.Get(ctx, id)
	if err != nil {
		return err
	}

	var cleanup []error
	if err := p.files.Delete(ctx, doc.StoredFilename); err != nil {
		logger.Warn("delete stored file for %s: %v", id, err)
		cleanup = append(cleanup, err)
	}
	if err := p.chunks.Delete(ctx, id); err != nil {
		logger.Warn("delete chunks for %s: %v", id, err)
		cleanup = append(cleanup, err)
	}

	if err := p.index.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("removed document %s (%q)", id, doc.Title)
	return errors.Join(cleanup...)
}

// Reprocess re-runs extraction, splitting and embedding for a document
// and replaces its chunk list wholesale.
func (p *Processor) Reprocess(ctx context.Context, id string) (string, error) {
	doc, err := p.index.Get(ctx, id)
	if err != nil {
		return "", err
	}

	storedPath := p.files.Path(doc.StoredFilename)
	if _, err := os.Stat(storedPath); err != nil {
		return "", fmt.Errorf("stored file for %q: %w", id, domain.ErrNotFound)
	}

	extractor, err := p.registry.ForExtension(doc.FileType)
	if err != nil {
		return "", fmt.Errorf("document %q: %w", id, err)
	}

	count, err := p.processChunks(ctx, id, storedPath, extractor)
	if err != nil {
		return "", err
	}

	doc.ChunkCount = count
	if err := p.index.Put(ctx, doc); err != nil {
		return "", err
	}

	return fmt.Sprintf("Reprocessed %q into %d chunks", doc.Title, count), nil
}

// ReprocessAll reprocesses every indexed document. A failure on one
// document does not abort the batch.
func (p *Processor) ReprocessAll(ctx context.Context) (string, error) {
	docs, err := p.index.List(ctx)
	if err != nil {
		return "", err
	}

	var failed int
	for _, doc := range docs {
		if _, err := p.Reprocess(ctx, doc.ID); err != nil {
			logger.Warn("reprocess %s failed: %v", doc.ID, err)
			failed++
		}
	}

	msg := fmt.Sprintf("Reprocessed %d of %d documents", len(docs)-failed, len(docs))
	if failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", failed)
	}
	return msg, nil
}

// RebuildIndex reconstructs the index from the chunk store directory.
// Each chunk file is authoritative evidence of a document; the stored
// file sharing its ID prefix supplies the file type.
func (p *Processor) RebuildIndex(ctx context.Context) error {
	ids, err := p.chunks.DocumentIDs(ctx)
	if err != nil {
		return err
	}

	rebuilt := make(map[string]domain.Document, len(ids))
	for _, id := range ids {
		storedFilename, err := p.files.FindByPrefix(ctx, id)
		if err != nil {
			logger.Warn("rebuild: no stored file for %s, skipping", id)
			continue
		}

		chunks, err := p.chunks.Get(ctx, id)
		if err != nil {
			logger.Warn("rebuild: unreadable chunks for %s, skipping", id)
			continue
		}

		rebuilt[id] = domain.Document{
			ID:               id,
			Title:            placeholderTitle(id),
			Description:      "Automatically restored document",
			StoredFilename:   storedFilename,
			OriginalFilename: storedFilename,
			FileType:         strings.ToLower(strings.TrimPrefix(filepath.Ext(storedFilename), ".")),
			AddedDate:        p.now().UTC(),
			ChunkCount:       len(chunks),
		}
	}

	if err := p.index.Replace(ctx, rebuilt); err != nil {
		return err
	}

	logger.Info("rebuilt index with %d documents", len(rebuilt))
	return nil
}

// List returns every indexed document record.
func (p *Processor) List(ctx context.Context) ([]domain.Document, error) {
	return p.index.List(ctx)
}

// Chunks returns a document's chunks in sequence order.
func (p *Processor) Chunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	if _, err := p.index.Get(ctx, id); err != nil {
		return nil, err
	}
	return p.chunks.Get(ctx, id)
}

func placeholderTitle(id string) string {
	short := id
	if len(short) > 6 {
		short = short[:6]
	}
	return "Document " + short
}
