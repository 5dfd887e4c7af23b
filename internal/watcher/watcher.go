// Package watcher monitors the data directory and ingests files dropped
// into it, so the corpus can be grown without touching the API.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// settleDelay is how long a file must stay quiet before it is ingested.
// Copies into the directory arrive as a burst of write events.
const settleDelay = 500 * time.Millisecond

// Watcher ingests files created or modified under a directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	ingest  driving.IngestService
	dir     string

	mu       sync.Mutex
	debounce map[string]*time.Timer

	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a Watcher over dir. The directory must exist.
func New(dir string, ingest driving.IngestService) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		watcher:  fsw,
		ingest:   ingest,
		dir:      dir,
		debounce: make(map[string]*time.Timer),
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
	logger.Info("Watching %s for new documents", w.dir)
}

// Stop ends the watch. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		w.mu.Lock()
		for _, timer := range w.debounce {
			timer.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if ignored(event.Name) {
				continue
			}

			w.scheduleIngest(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

// scheduleIngest (re)arms the settle timer for a path.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.debounce[path]; exists {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()

		w.ingestFile(ctx, path)
	})
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read %s: %v", path, err)
		return
	}

	title := filepath.Base(path)
	result, err := w.ingest.Ingest(ctx, title, string(data))
	if err != nil {
		logger.Error("Failed to ingest %s: %v", path, err)
		return
	}

	logger.Info("Auto-ingested %s as %s (%d chunks)", title, result.Document.ID, result.ChunksIngested)
}

// ignored filters out paths that are not documents: hidden files,
// the metadata database and its WAL siblings, and the uploads
// subdirectory managed by the HTTP API.
func ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	switch filepath.Ext(base) {
	case ".db", ".db-wal", ".db-shm":
		return true
	}
	return strings.Contains(base, "metadata.db")
}
