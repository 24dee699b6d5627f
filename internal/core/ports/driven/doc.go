// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - Extractor / ExtractorRegistry: per-format text extraction
//   - Splitter: chunking policy
//   - IndexStore: document index persistence
//   - ChunkStore: per-document chunk persistence
//   - FileStore: verbatim copies of ingested files
//
// # Optional Interfaces
//
//   - EmbeddingClient: the external embedding API. When it fails or is
//     absent the EmbeddingGenerator degrades to empty vectors and search
//     falls back to lexical matching.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or storage package
package driven
