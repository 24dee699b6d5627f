// Package text provides the extractor for plain text and Markdown files.
package text

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and Markdown files. Markdown is indexed
// as-is; formatting characters are part of the text.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"txt", "md"}
}

// Available always returns true; reading text needs no backend.
func (e *Extractor) Available() bool {
	return true
}

// Extract reads the file contents as UTF-8. Files that are not valid
// UTF-8 are decoded permissively as Latin-1 instead of failing, so a
// document with a legacy encoding still becomes searchable text.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	logger.Warn("File %s is not valid UTF-8, decoding as Latin-1", path)
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 decoding cannot fail on arbitrary bytes, but keep the
		// degradation contract if it ever does.
		return string(data), nil
	}
	return string(decoded), nil
}
