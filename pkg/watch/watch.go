// Package watch applies wallpapers as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wallseed/wallseed/pkg/logger"
)

// ApplyFunc handles one matching file.
type ApplyFunc func(ctx context.Context, path string) error

// Watcher runs ApplyFunc for files created or written in one directory.
type Watcher struct {
	dir      string
	patterns []string
	debounce time.Duration
	apply    ApplyFunc
	log      *logger.Logger
	fsw      *fsnotify.Watcher
	events   <-chan fsnotify.Event
	errs     <-chan error
}

// New starts watching dir (non-recursively). Invalid glob patterns are
// dropped with a warning.
func New(dir string, patterns []string, debounce time.Duration, apply ApplyFunc, log *logger.Logger) (*Watcher, error) {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			log.WithField("pattern", p).Warn(err, "ignoring invalid watch pattern")
			continue
		}
		valid = append(valid, p)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		patterns: valid,
		debounce: debounce,
		apply:    apply,
		log:      log.WithField("dir", dir),
		fsw:      fsw,
		events:   fsw.Events,
		errs:     fsw.Errors,
	}, nil
}

// Patterns returns the glob patterns in effect.
func (w *Watcher) Patterns() []string {
	return w.patterns
}

// Matches reports whether the base name of path matches any pattern.
func (w *Watcher) Matches(path string) bool {
	name := filepath.Base(path)
	for _, p := range w.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Run processes events one at a time until ctx is cancelled. Every create or
// write event waits the debounce interval before it is matched and applied.
// Apply failures are logged and the loop continues.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.WithField("patterns", w.patterns).Info("watching for wallpapers")
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.errs:
			if !ok {
				return nil
			}
			w.log.Warn(err, "watch error")
		case ev, ok := <-w.events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !sleep(ctx, w.debounce) {
				return nil
			}
			if !w.Matches(ev.Name) {
				continue
			}
			w.log.WithFields(map[string]any{"file": ev.Name, "op": ev.Op.String()}).Debug("wallpaper changed")
			if err := w.apply(ctx, ev.Name); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.log.WithField("file", ev.Name).Error(err, "apply failed")
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	if w.fsw == nil {
		return nil
	}
	return w.fsw.Close()
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
