package local

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/notelift/notelift-cli/internal/core/ports/driven"
	"github.com/notelift/notelift-cli/internal/logger"
)

// Watcher observes local notebook files and flags import jobs as stale
// when their sources change on disk. Staleness only marks state; the
// user decides when to re-import.
type Watcher struct {
	jobStore driven.ImportJobStore
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher over the given directories.
func NewWatcher(jobStore driven.ImportJobStore, dirs []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return &Watcher{jobStore: jobStore, fsw: fsw}, nil
}

// Run processes filesystem events until the context is cancelled.
// Only writes and removals of notebook files are of interest.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isNotebookFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			logger.Debug("Source changed: %s (%s)", event.Name, event.Op)
			jobIDs, err := w.jobStore.MarkStale(ctx, event.Name)
			if err != nil {
				logger.Warn("Failed to mark jobs stale for %s: %v", event.Name, err)
				continue
			}
			if len(jobIDs) > 0 {
				logger.Info("Marked %d job(s) stale for %s", len(jobIDs), event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// isNotebookFile reports whether the path names a OneNote file.
func isNotebookFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".one" || ext == ".onepkg"
}
