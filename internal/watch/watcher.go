package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"api-test-planner/internal/logger"
)

// DefaultDebounceInterval is the quiet period after the last change before OnChange runs
const DefaultDebounceInterval = 500 * time.Millisecond

// Config holds configuration for the document watcher
type Config struct {
	// Path is the file to watch
	Path string

	// Debounce defaults to DefaultDebounceInterval
	Debounce time.Duration

	// OnChange is called once per burst of writes to Path
	OnChange func()

	Logger *logger.Logger
}

// SpecWatcher re-triggers planning when an OpenAPI document on disk changes.
// Editors often replace files instead of writing them in place, so the parent
// directory is watched and events are filtered by file name.
type SpecWatcher struct {
	config Config
	file   string

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// New creates a watcher for config.Path
func New(config Config) (*SpecWatcher, error) {
	if config.Path == "" {
		return nil, errors.New("watch path is required")
	}
	if config.OnChange == nil {
		return nil, errors.New("watch callback is required")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounceInterval
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	abs, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}
	return &SpecWatcher{config: config, file: abs}, nil
}

// Run watches until ctx is done
func (w *SpecWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.file)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.config.Logger.Info("watching OpenAPI document for changes", "path", w.file)

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *SpecWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.file {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.config.Logger.Debug("OpenAPI document changed", "path", event.Name, "op", event.Op.String())
	w.trigger()
}

func (w *SpecWatcher) trigger() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.config.Debounce, w.config.OnChange)
}

func (w *SpecWatcher) stopTimer() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}
