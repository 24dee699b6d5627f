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
	"sync"

	"github.com/saori-labs/saori-kb/internal/core/domain"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// IndexStore keeps the document index in a single JSON object keyed by
// document ID. A missing or unreadable file is treated as an empty index
// so a damaged install degrades to "no documents" rather than failing.
type IndexStore struct {
	path string
	mu   sync.Mutex
}

var _ driven.IndexStore = (*IndexStore)(nil)

// NewIndexStore returns a store backed by the JSON file at path.
func NewIndexStore(path string) (*IndexStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: create index dir: %v", domain.ErrPersistence, err)
	}
	return &IndexStore{path: path}, nil
}

func (s *IndexStore) Get(ctx context.Context, id string) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.load()
	doc, ok := index[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func (s *IndexStore) Put(ctx context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.load()
	index[doc.ID] = doc
	return writeJSON(s.path, index)
}

func (s *IndexStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.load()
	if _, ok := index[id]; !ok {
		return fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	delete(index, id)
	return writeJSON(s.path, index)
}

func (s *IndexStore) List(ctx context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.load()
	docs := make([]domain.Document, 0, len(index))
	for _, doc := range index {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].AddedDate.Equal(docs[j].AddedDate) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].AddedDate.Before(docs[j].AddedDate)
	})
	return docs, nil
}

func (s *IndexStore) Replace(ctx context.Context, index map[string]domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index == nil {
		index = map[string]domain.Document{}
	}
	return writeJSON(s.path, index)
}

func (s *IndexStore) load() map[string]domain.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("index file unreadable, treating as empty: %v", err)
		}
		return map[string]domain.Document{}
	}

	index := map[string]domain.Document{}
	if err := json.Unmarshal(data, &index); err != nil {
		logger.Warn("index file corrupt, treating as empty: %v", err)
		return map[string]domain.Document{}
	}
	return index
}
