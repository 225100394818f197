package svglive

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the bursts of events emitted by editors
// and generators rewriting a file.
const DefaultDebounce = 100 * time.Millisecond

// debouncer delays a tick until no reset happened for `delay`
type debouncer struct {
	delay time.Duration
	timer *time.Timer
}

// reset arms a new timer, so that a tick of the previous one,
// already fired but not received, is dropped
func (d *debouncer) reset() {
	d.stop()
	d.timer = time.NewTimer(d.delay)
}

func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// C returns nil when no tick is pending
func (d *debouncer) C() <-chan time.Time {
	if d.timer == nil {
		return nil
	}
	return d.timer.C
}

// Watcher reloads a Server when its source file changes.
type Watcher struct {
	server   *Server
	file     string
	fsw      *fsnotify.Watcher
	Debounce time.Duration
}

// WatchFile starts watching `file`. The events are only
// processed once Run is called.
func (s *Server) WatchFile(file string) (*Watcher, error) {
	file, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// files are often replaced rather than written in place,
	// so the directory is watched
	if err := fsw.Add(filepath.Dir(file)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", file, err)
	}
	return &Watcher{server: s, file: file, fsw: fsw, Debounce: DefaultDebounce}, nil
}

// Run processes the file events until `ctx` is done, reloading
// the document and notifying the sessions after each change.
// The watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	log := w.server.opts.Logger.With("file", w.file)

	debounce := debouncer{delay: w.Debounce}
	for {
		select {
		case <-ctx.Done():
			debounce.stop()
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.reset()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		case <-debounce.C():
			debounce.timer = nil
			if err := w.server.Reload(); err != nil {
				log.Error("reload failed", "error", err)
				continue
			}
			log.Info("document reloaded", "sessions", w.server.Sessions())
			w.server.Notify()
		}
	}
}
