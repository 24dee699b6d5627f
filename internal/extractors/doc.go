// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to turn a
// stored file of a specific extension into plain text.
//
// Extractors are registered with the Registry at startup; backend
// availability (e.g. the pdftotext binary) is resolved once at that
// point rather than checked ad hoc.
package extractors
