package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
)

// ChunkStore keeps one JSON array of chunks per document, named
// <document-id>.json inside the chunks directory.
type ChunkStore struct {
	dir string
	mu  sync.Mutex
}

var _ driven.ChunkStore = (*ChunkStore)(nil)

// NewChunkStore returns a store rooted at dir, creating it if needed.
func NewChunkStore(dir string) (*ChunkStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: create chunks dir: %v", domain.ErrPersistence, err)
	}
	return &ChunkStore{dir: dir}, nil
}

func (s *ChunkStore) Save(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	return writeJSON(s.chunkFile(documentID), chunks)
}

// Get returns the chunks for a document. A missing chunk file is not an
// error: it yields an empty slice so callers can treat "no chunks" and
// "never chunked" the same way.
func (s *ChunkStore) Get(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.chunkFile(documentID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Chunk{}, nil
		}
		return nil, fmt.Errorf("%w: read chunks for %q: %v", domain.ErrPersistence, documentID, err)
	}

	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("%w: decode chunks for %q: %v", domain.ErrPersistence, documentID, err)
	}
	return chunks, nil
}

func (s *ChunkStore) Delete(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.chunkFile(documentID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete chunks for %q: %v", domain.ErrPersistence, documentID, err)
	}
	return nil
}

// DocumentIDs lists the IDs of every document that has a chunk file.
// It is the source of truth when rebuilding a lost index.
func (s *ChunkStore) DocumentIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list chunks dir: %v", domain.ErrPersistence, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *ChunkStore) chunkFile(documentID string) string {
	return filepath.Join(s.dir, documentID+".json")
}
