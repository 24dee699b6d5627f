package services_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/core/services"
	"github.com/saori-labs/saori-kb/internal/extractors"
	"github.com/saori-labs/saori-kb/internal/extractors/text"
	"github.com/saori-labs/saori-kb/internal/splitter"
	"github.com/saori-labs/saori-kb/internal/storage/jsonfile"
)

// stubEmbedder returns canned vectors keyed by exact text and an empty
// vector for everything else.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Generate(_ context.Context, text string) []float32 {
	if s.vectors == nil {
		return nil
	}
	return s.vectors[text]
}

type testEnv struct {
	processor *services.Processor
	index     *jsonfile.IndexStore
	chunks    *jsonfile.ChunkStore
	files     *jsonfile.FileStore
	indexPath string
	dataDir   string
}

func newTestEnv(t *testing.T, embedder *stubEmbedder, opts ...services.ProcessorOption) *testEnv {
	t.Helper()

	dataDir := t.TempDir()
	indexPath := filepath.Join(dataDir, "document_index.json")

	index, err := jsonfile.NewIndexStore(indexPath)
	require.NoError(t, err)
	chunks, err := jsonfile.NewChunkStore(filepath.Join(dataDir, "document_chunks"))
	require.NoError(t, err)
	files, err := jsonfile.NewFileStore(filepath.Join(dataDir, "documents"))
	require.NoError(t, err)

	if embedder == nil {
		embedder = &stubEmbedder{}
	}

	processor := services.NewProcessor(
		index, chunks, files,
		extractors.NewRegistry(text.New()),
		splitter.New(),
		embedder,
		opts...,
	)

	return &testEnv{
		processor: processor,
		index:     index,
		chunks:    chunks,
		files:     files,
		indexPath: indexPath,
		dataDir:   dataDir,
	}
}

func writeSourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const twoParagraphs = "First paragraph about gophers.\n\nSecond paragraph about burrows."

func TestAdd(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	source := writeSourceFile(t, "gophers.txt", twoParagraphs)
	id, err := env.processor.Add(ctx, source, "Gopher Notes", "field notes")
	require.NoError(t, err)

	wantID := domain.Fingerprint([]byte(twoParagraphs), "gophers.txt")
	assert.Equal(t, wantID, id)

	doc, err := env.index.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Gopher Notes", doc.Title)
	assert.Equal(t, "field notes", doc.Description)
	assert.Equal(t, "gophers.txt", doc.OriginalFilename)
	assert.Equal(t, id+".txt", doc.StoredFilename)
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, 1, doc.ChunkCount)

	chunks, err := env.chunks.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, domain.ChunkID(id, 0), chunks[0].ID)
	assert.Equal(t, twoParagraphs, chunks[0].Text)

	stored, err := os.ReadFile(env.files.Path(doc.StoredFilename))
	require.NoError(t, err)
	assert.Equal(t, twoParagraphs, string(stored))
}

func TestAdd_TitleDefaultsToFilename(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	source := writeSourceFile(t, "notes.txt", "some text")
	id, err := env.processor.Add(ctx, source, "", "")
	require.NoError(t, err)

	doc, err := env.index.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Title)
}

func TestAdd_MissingSource(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.processor.Add(context.Background(), "/nonexistent/file.txt", "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdd_UnsupportedExtension(t *testing.T) {
	env := newTestEnv(t, nil)

	source := writeSourceFile(t, "image.png", "not text")
	_, err := env.processor.Add(context.Background(), source, "", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestAdd_IdempotentIDAndFirstAddedDate(t *testing.T) {
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := first
	env := newTestEnv(t, nil, services.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	source := writeSourceFile(t, "gophers.txt", twoParagraphs)
	id1, err := env.processor.Add(ctx, source, "First Title", "")
	require.NoError(t, err)

	clock = first.Add(48 * time.Hour)
	id2, err := env.processor.Add(ctx, source, "Second Title", "")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	docs, err := env.processor.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Second Title", docs[0].Title)
	assert.Equal(t, first, docs[0].AddedDate)
}

func TestAddFromReader(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	id, err := env.processor.AddFromReader(ctx, bytes.NewReader([]byte(twoParagraphs)), "upload.txt", "Uploaded", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Fingerprint([]byte(twoParagraphs), "upload.txt"), id)

	doc, err := env.index.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "upload.txt", doc.OriginalFilename)
	assert.Equal(t, 1, doc.ChunkCount)
}

func TestRemove(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	source := writeSourceFile(t, "gophers.txt", twoParagraphs)
	id, err := env.processor.Add(ctx, source, "", "")
	require.NoError(t, err)

	require.NoError(t, env.processor.Remove(ctx, id))

	_, err = env.index.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := env.chunks.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	_, err = os.Stat(env.files.Path(id + ".txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_UnknownID(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.processor.Remove(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, listErr := env.processor.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, docs)
}

func TestReprocess_RoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	source := writeSourceFile(t, "gophers.txt", twoParagraphs)
	id, err := env.processor.Add(ctx, source, "", "")
	require.NoError(t, err)

	before, err := env.chunks.Get(ctx, id)
	require.NoError(t, err)

	msg, err := env.processor.Reprocess(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, msg, "1 chunks")

	after, err := env.chunks.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range after {
		assert.Equal(t, before[i].Text, after[i].Text)
	}
}

func TestReprocess_UnknownID(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.processor.Reprocess(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReprocess_MissingStoredFile(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	source := writeSourceFile(t, "gophers.txt", twoParagraphs)
	id, err := env.processor.Add(ctx, source, "", "")
	require.NoError(t, err)

	require.NoError(t, env.files.Delete(ctx, id+".txt"))

	_, err = env.processor.Reprocess(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReprocessAll(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.processor.Add(ctx, writeSourceFile(t, "a.txt", "alpha text"), "", "")
	require.NoError(t, err)
	_, err = env.processor.Add(ctx, writeSourceFile(t, "b.txt", "beta text"), "", "")
	require.NoError(t, err)

	msg, err := env.processor.ReprocessAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Reprocessed 2 of 2 documents", msg)
}

func TestReprocessAll_PartialFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	okID, err := env.processor.Add(ctx, writeSourceFile(t, "a.txt", "alpha text"), "", "")
	require.NoError(t, err)
	brokenID, err := env.processor.Add(ctx, writeSourceFile(t, "b.txt", "beta text"), "", "")
	require.NoError(t, err)
	require.NoError(t, env.files.Delete(ctx, brokenID+".txt"))

	msg, err := env.processor.ReprocessAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "1 of 2")
	assert.Contains(t, msg, "1 failed")

	_, err = env.chunks.Get(ctx, okID)
	assert.NoError(t, err)
}

func TestRebuildIndex(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	id1, err := env.processor.Add(ctx, writeSourceFile(t, "a.txt", "alpha text"), "Alpha", "")
	require.NoError(t, err)
	id2, err := env.processor.Add(ctx, writeSourceFile(t, "b.txt", twoParagraphs), "Beta", "")
	require.NoError(t, err)

	// Simulate index corruption.
	require.NoError(t, os.WriteFile(env.indexPath, []byte("{broken"), 0600))

	require.NoError(t, env.processor.RebuildIndex(ctx))

	docs, err := env.processor.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	byID := map[string]domain.Document{}
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	for _, id := range []string{id1, id2} {
		doc, ok := byID[id]
		require.True(t, ok)
		assert.Equal(t, "Document "+id[:6], doc.Title)
		assert.Equal(t, "Automatically restored document", doc.Description)
		assert.Equal(t, id+".txt", doc.StoredFilename)
		assert.Equal(t, "txt", doc.FileType)
		assert.Positive(t, doc.ChunkCount)
	}
}

func TestChunks(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	id, err := env.processor.Add(ctx, writeSourceFile(t, "a.txt", twoParagraphs), "", "")
	require.NoError(t, err)

	chunks, err := env.processor.Chunks(ctx, id)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0].ID, id))
}

func TestChunks_UnknownID(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.processor.Chunks(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
