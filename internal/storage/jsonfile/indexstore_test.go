package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saori-labs/saori-kb/internal/core/domain"
)

func newTestIndexStore(t *testing.T) (*IndexStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "document_index.json")
	store, err := NewIndexStore(path)
	require.NoError(t, err)
	return store, path
}

func testDocument(id string, added time.Time) domain.Document {
	return domain.Document{
		ID:               id,
		Title:            "Title " + id,
		StoredFilename:   id + ".txt",
		OriginalFilename: "original.txt",
		FileType:         "txt",
		AddedDate:        added,
		ChunkCount:       2,
	}
}

func TestIndexStore_PutAndGet(t *testing.T) {
	store, _ := newTestIndexStore(t)
	ctx := context.Background()

	doc := testDocument("abc123", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.Put(ctx, doc))

	got, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestIndexStore_GetMissing(t *testing.T) {
	store, _ := newTestIndexStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexStore_Delete(t *testing.T) {
	store, _ := newTestIndexStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testDocument("abc123", time.Now())))
	require.NoError(t, store.Delete(ctx, "abc123"))

	_, err := store.Get(ctx, "abc123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexStore_DeleteMissing(t *testing.T) {
	store, _ := newTestIndexStore(t)

	err := store.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexStore_ListSortedByAddedDate(t *testing.T) {
	store, _ := newTestIndexStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, testDocument("newer", base.Add(time.Hour))))
	require.NoError(t, store.Put(ctx, testDocument("older", base)))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "older", docs[0].ID)
	assert.Equal(t, "newer", docs[1].ID)
}

func TestIndexStore_CorruptFileTreatedAsEmpty(t *testing.T) {
	store, path := newTestIndexStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	docs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIndexStore_Replace(t *testing.T) {
	store, _ := newTestIndexStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testDocument("old", time.Now())))

	rebuilt := map[string]domain.Document{
		"new": testDocument("new", time.Now()),
	}
	require.NoError(t, store.Replace(ctx, rebuilt))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "new", docs[0].ID)
}
