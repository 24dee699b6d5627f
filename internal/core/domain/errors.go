package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension outside the
	// supported set (pdf, docx, txt, md).
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMissingDependency indicates the backend required for a supported
	// format (e.g. the PDF text extractor) is unavailable at runtime.
	ErrMissingDependency = errors.New("missing format dependency")

	// ErrPersistence indicates the index or a chunk store file could not
	// be written. Surfaced to the caller because it risks index and
	// chunk-store inconsistency.
	ErrPersistence = errors.New("persistence failure")
)
