package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// ReloadHandler receives each configuration that reloaded successfully.
type ReloadHandler func(cfg *Config)

// Watcher re-reads the configuration file when it changes on disk.
type Watcher struct {
	path          string
	fs            afero.Fs
	debounceDelay time.Duration
	handler       ReloadHandler
	logger        *slog.Logger
	watcher       *fsnotify.Watcher
	stopChan      chan struct{}
	doneChan      chan struct{}
	stopOnce      sync.Once

	mu    sync.Mutex
	timer *time.Timer
}

// WatcherConfig holds configuration for the config file watcher
type WatcherConfig struct {
	Path          string
	DebounceDelay time.Duration // How long to wait after the last event before reloading
	Logger        *slog.Logger
	Fs            afero.Fs // defaults to the OS filesystem; events always come from disk
}

// Watch starts watching cfg.Path and calls handler after every valid reload.
// Invalid files are logged and skipped.
func Watch(cfg WatcherConfig, handler ReloadHandler) (*Watcher, error) {
	path, err := ExpandPath(cfg.Path)
	if err != nil {
		return nil, err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	// Editors often replace the file, so the directory is watched.
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		path:          path,
		fs:            cfg.Fs,
		debounceDelay: cfg.DebounceDelay,
		handler:       handler,
		logger:        cfg.Logger,
		watcher:       fsWatcher,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}
	go w.processEvents()

	w.logger.Info("config watcher started",
		"path", path,
		"debounce_ms", w.debounceDelay.Milliseconds(),
	)
	return w, nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		<-w.doneChan

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	cfg, err := LoadFs(w.fs, w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous settings",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.logger.Info("config reloaded",
		"path", w.path,
		"language", cfg.TMDB.Language,
		"region", cfg.TMDB.Region,
	)
	w.handler(cfg)
}
