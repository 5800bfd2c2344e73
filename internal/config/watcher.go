// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kortschak/openal/internal/slogext"
)

// FileDebounce is the default duration we wait for the contents to have
// stabilised to work around some editors writing an empty file and then the
// buffer.
const FileDebounce = 10 * time.Millisecond

// Change is a semantically meaningful configuration change identified by
// a Watcher. Config is nil if the file was removed or could not be decoded.
type Change struct {
	Event  fsnotify.Event
	Config *Config
	Sum    Sum
	Err    error
}

// Watcher watches a configuration file for semantically meaningful changes.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	changes  chan<- Change
	last     Sum
	seen     bool
	done     chan struct{}
	log      *slog.Logger
}

// NewWatcher starts watching the configuration file at path, sending
// changes on the changes channel until ctx is cancelled. The file's
// directory must exist, but the file need not. The debounce parameter
// specifies how long to wait after an fsnotify.Event before reading the file
// to ensure that writes will be reflected in the configuration sum. If it is
// less than zero, FileDebounce is used.
func NewWatcher(ctx context.Context, path string, changes chan<- Change, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, &fs.PathError{Op: "watch", Path: dir, Err: errors.New("not a directory")}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = watcher.Add(dir)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if debounce < 0 {
		debounce = FileDebounce
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Watcher{
		path:     path,
		dir:      dir,
		debounce: debounce,
		watcher:  watcher,
		changes:  changes,
		done:     make(chan struct{}),
		log:      log.With(slog.String("component", "config.watcher")),
	}
	w.last, w.seen = w.initial()
	go func() {
		defer close(w.done)
		w.process(ctx)
	}()
	return w, nil
}

// initial records the sum of the current configuration, if it is valid,
// so that an unchanged rewrite is not reported.
func (w *Watcher) initial() (Sum, bool) {
	cfg, s, err := w.read()
	if err != nil || cfg == nil {
		return Sum{}, false
	}
	return s, true
}

// read returns the configuration at w.path and its semantic sum.
func (w *Watcher) read() (*Config, Sum, error) {
	b, err := os.ReadFile(w.path)
	if err != nil {
		return nil, Sum{}, err
	}
	cfg, err := Unmarshal(b)
	if cfg == nil {
		return nil, Sum{}, err
	}
	s, sumErr := sum(cfg)
	if sumErr != nil {
		return nil, Sum{}, sumErr
	}
	return cfg, s, err
}

// Close stops the watcher and waits for its processing goroutine to
// terminate.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

// process watches the fsnotify.Watcher events for the configuration file,
// performing semantic filtering.
func (w *Watcher) process(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
				w.log.LogAttrs(ctx, slog.LevelDebug, "write", slog.String("name", ev.Name), slog.Any("op", slogext.Stringer{Stringer: ev.Op}))
				time.Sleep(w.debounce)

				cfg, s, err := w.read()
				if err != nil && cfg == nil {
					if errors.Is(err, fs.ErrNotExist) {
						// Replaced between the event and the read.
						continue
					}
					w.log.LogAttrs(ctx, slog.LevelError, "read file", slog.Any("error", err))
					w.send(ctx, Change{Event: ev, Err: err})
					continue
				}
				if w.seen && s == w.last {
					w.log.LogAttrs(ctx, slog.LevelDebug, "no change", slog.String("sum", s.String()))
					continue
				}
				w.log.LogAttrs(ctx, slog.LevelDebug, "set sum", slog.String("sum", s.String()))
				w.last, w.seen = s, true
				w.send(ctx, Change{Event: ev, Config: cfg, Sum: s, Err: err})

			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				w.log.LogAttrs(ctx, slog.LevelDebug, "remove", slog.String("name", ev.Name), slog.Any("op", slogext.Stringer{Stringer: ev.Op}))
				w.seen = false
				w.send(ctx, Change{Event: ev})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(ctx, Change{Err: err})
		}
	}
}

func (w *Watcher) send(ctx context.Context, c Change) {
	select {
	case <-ctx.Done():
	case w.changes <- c:
	}
}
