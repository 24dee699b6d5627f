package driven

import "context"

// Extractor converts a stored file of a specific format into plain text.
// Each extractor handles one or more file extensions.
type Extractor interface {
	// Extensions returns the file extensions this extractor handles,
	// without the leading dot (e.g. "pdf", "txt").
	Extensions() []string

	// Available reports whether the extractor's backend is usable in the
	// current environment. Resolved once at startup; extractors for
	// formats whose backend is missing stay registered but unavailable
	// so callers can distinguish "unsupported" from "missing dependency".
	Available() bool

	// Extract reads the file at path and returns its plain text.
	// Recoverable backend failures return a descriptive placeholder
	// string rather than an error, so ingestion proceeds with a visible
	// error stub instead of aborting.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry selects the extractor for a file extension.
type ExtractorRegistry interface {
	// ForExtension returns the extractor registered for ext (no dot).
	// Returns domain.ErrUnsupportedFormat for unknown extensions and
	// domain.ErrMissingDependency when the extractor exists but its
	// backend is unavailable.
	ForExtension(ext string) (Extractor, error)

	// SupportedExtensions lists every registered extension.
	SupportedExtensions() []string
}

// Splitter divides extracted text into ordered chunk texts.
type Splitter interface {
	// Split returns the chunk texts for the given document text, in
	// sequence order. Empty input yields an empty slice, not an error.
	Split(text string) []string
}
