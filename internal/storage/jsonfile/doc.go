// Package jsonfile implements the persistence ports over flat JSON
// files, matching the engine's documented on-disk layout:
//
//   - document_index.json: object keyed by document ID
//   - document_chunks/<id>.json: array of chunk records in sequence order
//   - documents/<id>.<ext>: verbatim copies of ingested files
//
// All JSON is pretty-printed for human inspection. Writes go through a
// temp-file-and-rename so a crash mid-write never leaves a truncated
// index or chunk file behind.
package jsonfile
