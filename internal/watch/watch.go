// Package watch re-runs a callback whenever a watched file settles
// after a burst of changes. It backs the run command's watch mode: a
// designer edits the card data file and the session re-runs against
// the new balance without restarting the tool.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/warbound-games/gauntlet/internal/events"
)

// DefaultDebounce is the quiet period required after the last file
// event before a re-run fires. Editors emit several writes per save.
const DefaultDebounce = 500 * time.Millisecond

// Config controls one watcher.
type Config struct {
	// Path is the file to watch.
	Path string

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// Dispatcher, when set, receives a watch:triggered event before
	// each re-run.
	Dispatcher *events.Dispatcher
}

// Watcher re-runs a callback on settled changes to one file. The
// parent directory is registered with fsnotify, not the file itself:
// editors that save atomically replace the file by rename, which ends
// a direct file watch after the first save.
type Watcher struct {
	path       string
	dir        string
	base       string
	debounce   time.Duration
	dispatcher *events.Dispatcher
}

// New validates the config and builds a watcher. The file does not
// have to exist yet; the first save creates it and triggers a run.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch path is required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:       abs,
		dir:        filepath.Dir(abs),
		base:       filepath.Base(abs),
		debounce:   debounce,
		dispatcher: cfg.Dispatcher,
	}, nil
}

// Path returns the absolute path under watch.
func (w *Watcher) Path() string { return w.path }

// Run watches until ctx is done, invoking fn after each settled
// change. A failing fn is logged and the watch continues, so a broken
// edit can be fixed by saving again. The returned error covers watch
// setup and ctx.Err() on shutdown.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	log.Printf("[watch] watching %s (debounce %s)", w.path, w.debounce)

	// settle is nil until a relevant event arrives; every further event
	// pushes the deadline out again.
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			settle = time.After(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			log.Printf("[watch] watcher error: %v", err)
		case <-settle:
			settle = nil
			if w.dispatcher != nil {
				w.dispatcher.Dispatch(events.New(events.TypeWatchTriggered, events.WatchTriggeredEvent{Path: w.path}, ctx))
			}
			if err := fn(ctx); err != nil {
				log.Printf("[watch] re-run failed: %v", err)
			}
		}
	}
}

// relevant filters directory events down to saves of the watched file.
// Rename and create cover atomic-save editors; chmod alone never
// changes content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != w.base {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
