package jsonfile

import (
	"context"
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

// FileStore keeps verbatim copies of ingested documents, one file per
// document named <id>.<ext> inside the documents directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ driven.FileStore = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: create documents dir: %v", domain.ErrPersistence, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(ctx context.Context, storedFilename string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, storedFilename)
	if err := writeFileAtomic(path, content, 0600); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FileStore) Path(storedFilename string) string {
	return filepath.Join(s.dir, storedFilename)
}

func (s *FileStore) Delete(ctx context.Context, storedFilename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, storedFilename)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrPersistence, storedFilename, err)
	}
	return nil
}

// FindByPrefix locates the stored file whose name starts with the given
// document ID. Used during rebuild, where the extension is only
// recoverable from the file on disk.
func (s *FileStore) FindByPrefix(ctx context.Context, idPrefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("%w: list documents dir: %v", domain.ErrPersistence, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), idPrefix) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("stored file for %q: %w", idPrefix, domain.ErrNotFound)
	}
	sort.Strings(names)
	return names[0], nil
}
