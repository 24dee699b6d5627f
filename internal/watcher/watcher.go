// Package watcher ingests files dropped into an inbox directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/core/ports/driving"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// DefaultSettleDelay is how long a file must stay quiet after its last
// write before it is considered fully copied into the inbox.
const DefaultSettleDelay = 2 * time.Second

// Watcher monitors an inbox directory and ingests every supported file
// dropped into it. Successfully ingested files are removed from the
// inbox so the directory acts as a drop folder.
type Watcher struct {
	processor driving.DocumentProcessor
	registry  driven.ExtractorRegistry
	dir       string
	settle    time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Option configures the watcher.
type Option func(*Watcher)

// WithSettleDelay overrides the quiet period before ingestion.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New creates a watcher over the given inbox directory.
func New(processor driving.DocumentProcessor, registry driven.ExtractorRegistry, dir string, opts ...Option) *Watcher {
	w := &Watcher{
		processor: processor,
		registry:  registry,
		dir:       dir,
		settle:    DefaultSettleDelay,
		pending:   map[string]*time.Timer{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the inbox until the context is cancelled. Files already
// present when watching starts are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return fmt.Errorf("create inbox %q: %w", w.dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch inbox %q: %w", w.dir, err)
	}

	w.ingestExisting(ctx)
	logger.Info("watching inbox %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// ingestExisting processes files that were already in the inbox.
func (w *Watcher) ingestExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("read inbox: %v", err)
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
		}
	}
}

// schedule queues a file for ingestion after the settle delay. Repeated
// events for the same file reset the timer, so a file still being
// copied is not picked up half-written.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !w.shouldIngest(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.ingest(ctx, path)
	})
}

// shouldIngest reports whether the path is a visible regular file with a
// supported extension.
func (w *Watcher) shouldIngest(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	_, err = w.registry.ForExtension(ext)
	return err == nil
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	if !w.shouldIngest(path) {
		return
	}

	id, err := w.processor.Add(ctx, path, "", "")
	if err != nil {
		logger.Warn("ingest %s failed: %v", path, err)
		return
	}
	logger.Info("ingested %s as %s", filepath.Base(path), id)

	if err := os.Remove(path); err != nil {
		logger.Warn("remove ingested file %s: %v", path, err)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
