// Package watch ingests files dropped into the inbox directory as they
// appear.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/passim-search/passim/internal/core/ports/driving"
	"github.com/passim-search/passim/internal/logger"
)

// DefaultDebounce is how long a file has to stay quiet before it is
// ingested. Editors and uploads fire several events per file.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors the inbox directory and ingests new or changed files.
type Watcher struct {
	ingestion driving.IngestionService
	dir       string
	debounce  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a new inbox watcher. A zero debounce falls back to
// the default.
func NewWatcher(ingestion driving.IngestionService, dir string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		ingestion: ingestion,
		dir:       dir,
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
	}
}

// Run watches the inbox until the context is cancelled. The directory is
// created if it does not exist.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}

	// Debounce events per file
	w.mu.Lock()
	if timer, exists := w.timers[event.Name]; exists {
		timer.Stop()
	}
	path := event.Name
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
	w.mu.Unlock()
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	result, err := w.ingestion.IngestFile(ctx, path, "")
	if err != nil {
		logger.Warn("Auto-ingesting %s failed: %v", filepath.Base(path), err)
		return
	}
	logger.Info("Auto-ingested %s: %d chunks", filepath.Base(path), result.ChunkCount)
}
