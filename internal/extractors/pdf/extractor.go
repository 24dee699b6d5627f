// Package pdf provides the extractor for PDF documents.
//
// Extraction shells out to the pdftotext tool from poppler. The binary
// is looked up once when the extractor is created; without it the
// extractor reports itself unavailable and ingestion of PDFs fails with
// a missing-dependency error instead of a crash.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// noTextPlaceholder is stored when a PDF contains no extractable text,
// so the document remains visible and searchable as a stub.
const noTextPlaceholder = "This document appears to contain no extractable text."

// CommandRunner abstracts command execution for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF documents via pdftotext.
type Extractor struct {
	runner    CommandRunner
	available bool
}

// New creates a new PDF extractor, resolving pdftotext availability once.
func New() *Extractor {
	_, err := exec.LookPath("pdftotext")
	return &Extractor{
		runner:    execRunner{},
		available: err == nil,
	}
}

// NewWithRunner creates an extractor with an injected runner, treated
// as available. Used in tests.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner, available: true}
}

// InstallInstructions describes how to install the PDF backend.
func InstallInstructions() string {
	return "pdftotext is required for PDF support.\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils"
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"pdf"}
}

// Available reports whether pdftotext was found on PATH.
func (e *Extractor) Available() bool {
	return e.available
}

// Extract converts the PDF to plain text, pages in order separated by
// blank lines. Backend failures produce a descriptive placeholder
// string instead of an error so ingestion continues with a visible stub.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if !e.available {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingDependency, InstallInstructions())
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	// "-" sends the text to stdout. pdftotext separates pages with a
	// form feed character.
	output, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		logger.Warn("pdftotext failed for %s: %v", path, err)
		return fmt.Sprintf("Error processing PDF: %v", err), nil
	}

	text := joinPages(string(output))
	if strings.TrimSpace(text) == "" {
		logger.Warn("No extractable text found in %s", path)
		return noTextPlaceholder, nil
	}

	logger.Debug("Extracted %d characters from %s", len(text), path)
	return text, nil
}

// joinPages rewrites pdftotext's form-feed page breaks as blank lines,
// preserving page order.
func joinPages(raw string) string {
	pages := strings.Split(raw, "\f")
	kept := make([]string, 0, len(pages))
	for _, page := range pages {
		page = strings.TrimSpace(page)
		if page != "" {
			kept = append(kept, page)
		}
	}
	return strings.Join(kept, "\n\n")
}
