// Package watch rebuilds the site whenever the input directory changes.
// The live-reload transport itself is not part of the pipeline; this loop
// only rebuilds and logs.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/charlyisidore/vitrine-sub001/internal/build"
	"github.com/charlyisidore/vitrine-sub001/internal/config"
	"github.com/charlyisidore/vitrine-sub001/internal/observability"
)

// debounceDelay coalesces bursts of filesystem events into one rebuild.
const debounceDelay = 250 * time.Millisecond

// Watcher rebuilds on input changes until its context is canceled.
type Watcher struct {
	cfg      *config.Config
	fs       afero.Fs
	recorder *observability.Recorder
}

// New creates a watcher over the configured input directory.
func New(cfg *config.Config, afs afero.Fs, recorder *observability.Recorder) *Watcher {
	return &Watcher{cfg: cfg, fs: afs, recorder: recorder}
}

// Run performs an initial build, then loops on filesystem events. A failed
// rebuild is logged and the loop keeps running; only watcher breakage ends
// the loop with an error.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.rebuild(ctx); err != nil {
		slog.Error("initial build failed", "error", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.cfg.InputDir); err != nil {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New directories must be watched as they appear.
			if event.Op.Has(fsnotify.Create) {
				if info, err := w.fs.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(fsw, event.Name)
				}
			}
			if timer == nil {
				timer = time.AfterFunc(debounceDelay, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounceDelay)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		case <-pending:
			timer = nil
			if err := w.rebuild(ctx); err != nil {
				slog.Error("rebuild failed", "error", err)
			}
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) error {
	_, err := build.Run(ctx, w.cfg, w.fs, build.Options{Watching: true, Recorder: w.recorder})
	return err
}

// addRecursive watches dir and every subdirectory below it, skipping
// hidden and output directories.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return afero.Walk(w.fs, dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return err
		}
		base := filepath.Base(p)
		if p != dir && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")) {
			return filepath.SkipDir
		}
		return fsw.Add(p)
	})
}

func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".") && !strings.HasPrefix(base, "~")
}
