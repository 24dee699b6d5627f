package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saori-labs/saori-kb/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

// writeFakePDF creates a stand-in file; the mock runner never reads it.
func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0600))
	return path
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{"pdf"}, NewWithRunner(&mockRunner{}).Extensions())
}

func TestExtract_PagesJoinedInOrder(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte("page one\f page two \fpage three\f")})

	got, err := e.Extract(context.Background(), writeFakePDF(t))
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two\n\npage three", got)
}

func TestExtract_NoText(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte(" \f \f ")})

	got, err := e.Extract(context.Background(), writeFakePDF(t))
	require.NoError(t, err)
	assert.Equal(t, noTextPlaceholder, got)
}

func TestExtract_BackendFailureBecomesPlaceholder(t *testing.T) {
	e := NewWithRunner(&mockRunner{err: errors.New("exit status 1")})

	got, err := e.Extract(context.Background(), writeFakePDF(t))
	require.NoError(t, err)
	assert.Contains(t, got, "Error processing PDF")
}

func TestExtract_Unavailable(t *testing.T) {
	e := &Extractor{runner: &mockRunner{}, available: false}

	_, err := e.Extract(context.Background(), writeFakePDF(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingDependency)
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte("text")})

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}
