package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/ecolink/pkg/logging"
)

// ChangeEvent reports that a watched file was written, replaced or removed
type ChangeEvent struct {
	Path      string
	Ops       []fsnotify.Op
	Timestamp time.Time
}

// FileWatcher watches a single file. The parent directory is watched so
// that editors replacing the file via rename are still noticed.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
	logger  *slog.Logger
}

// NewFileWatcher creates a watcher for path
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		watcher: w,
		path:    abs,
		events:  make(chan ChangeEvent, 16),
		logger:  logging.New("watcher"),
	}, nil
}

// Start forwards changes to the watched file until ctx is cancelled
func (fw *FileWatcher) Start(ctx context.Context) {
	fw.logger.Info("watching file", "path", fw.path)
	go fw.processEvents(ctx)
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			// Chmod alone does not change content
			if event.Op == fsnotify.Chmod {
				continue
			}
			fw.logger.Log(ctx, logging.LevelTrace, "file event", "path", event.Name, "op", event.Op.String())

			select {
			case fw.events <- ChangeEvent{Path: fw.path, Ops: []fsnotify.Op{event.Op}, Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of raw change events. It is closed when the
// watcher stops.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}
