package text

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saori-labs/saori-kb/internal/core/domain"
)

func TestExtensions(t *testing.T) {
	e := New()
	assert.ElementsMatch(t, []string{"txt", "md"}, e.Extensions())
}

func TestAvailable(t *testing.T) {
	assert.True(t, New().Available())
}

func TestExtract_UTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("Olá, mundo!\n\nSegundo parágrafo."), 0600))

	got, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Olá, mundo!\n\nSegundo parágrafo.", got)
}

func TestExtract_Latin1Fallback(t *testing.T) {
	// "café" in Latin-1: é is byte 0xE9, invalid as UTF-8.
	path := filepath.Join(t.TempDir(), "legacy.txt")
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0600))

	got, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
