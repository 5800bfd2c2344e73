// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/kortschak/openal/internal/config"
	"github.com/kortschak/openal/openal"
)

// watcher loops a test tone, applying configuration changes and reloading
// the library on SIGHUP.
type watcher struct {
	p       *openal.Proxy
	session *session
	path    string
	cfg     *config.Config
	opts    options
	log     *slog.Logger
}

// run plays the configured tone until ctx is cancelled.
func (w *watcher) run(ctx context.Context) error {
	err := w.start(ctx)
	if err != nil {
		return err
	}

	changes := make(chan config.Change)
	if w.path != "" {
		cw, err := config.NewWatcher(ctx, w.path, changes, -1, w.log)
		if err != nil {
			return err
		}
		defer cw.Close()
	}
	hup := make(chan os.Signal, 1)
	notifyReload(hup)
	defer signal.Stop(hup)

	w.log.LogAttrs(ctx, slog.LevelInfo, "watching", slog.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			w.log.LogAttrs(ctx, slog.LevelInfo, "terminating")
			return nil
		case <-hup:
			err := w.reload(ctx)
			if err != nil {
				w.log.LogAttrs(ctx, slog.LevelError, "reload", slog.Any("error", err))
			}
		case c := <-changes:
			err := w.apply(ctx, c)
			if err != nil {
				w.log.LogAttrs(ctx, slog.LevelError, "apply configuration", slog.Any("error", err))
			}
		}
	}
}

// start starts the configured tone looping on the current session.
func (w *watcher) start(ctx context.Context) error {
	t := w.cfg.Tone.WithDefaults()
	t.Looping = true
	return w.session.startTone(ctx, t, w.cfg.Listener)
}

// restart opens a new session on the configured device and starts the
// tone. Any existing session is closed first.
func (w *watcher) restart(ctx context.Context) error {
	err := w.session.close()
	if err != nil {
		w.log.LogAttrs(ctx, slog.LevelWarn, "close session", slog.Any("error", err))
	}
	w.session = nil
	s, err := openSession(ctx, w.p, w.opts.deviceFor(w.cfg), w.log)
	if err != nil {
		return err
	}
	w.session = s
	return w.start(ctx)
}

// reload releases all OpenAL objects, reloads the library and restarts
// the tone. If the reload fails, the library is left unloaded until the
// next successful reload.
func (w *watcher) reload(ctx context.Context) error {
	w.log.LogAttrs(ctx, slog.LevelInfo, "reload library")
	err := w.session.close()
	if err != nil {
		w.log.LogAttrs(ctx, slog.LevelWarn, "close session", slog.Any("error", err))
	}
	w.session = nil
	err = w.p.Reload()
	if err != nil {
		return err
	}
	return w.restart(ctx)
}

// apply applies a configuration change. Invalid configurations and
// removal of the configuration file leave the current settings in place.
func (w *watcher) apply(ctx context.Context, c config.Change) error {
	switch {
	case c.Config == nil && c.Err != nil:
		w.log.LogAttrs(ctx, slog.LevelWarn, "configuration error", slog.Any("error", c.Err))
		return nil
	case c.Config == nil:
		w.log.LogAttrs(ctx, slog.LevelInfo, "configuration removed", slog.String("path", c.Event.Name))
		return nil
	case c.Err != nil:
		w.log.LogAttrs(ctx, slog.LevelWarn, "invalid configuration", slog.Any("error", c.Err))
		return nil
	}
	w.log.LogAttrs(ctx, slog.LevelInfo, "configuration change", slog.String("sum", c.Sum.String()))

	prev := w.cfg
	w.cfg = c.Config
	w.opts.apply(w.cfg)
	switch {
	case w.session == nil, !sameDevice(w.opts.deviceFor(prev), w.opts.deviceFor(w.cfg)):
		return w.restart(ctx)
	case toneChanged(prev.Tone, w.cfg.Tone):
		return w.start(ctx)
	default:
		err := w.session.setListener(w.cfg.Listener)
		if err != nil {
			return err
		}
		return w.session.setSource(w.cfg.Tone.WithDefaults())
	}
}

func sameDevice(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// toneChanged returns whether the sample data for a and b differ.
func toneChanged(a, b *config.Tone) bool {
	x, y := a.WithDefaults(), b.WithDefaults()
	return x.Frequency != y.Frequency || x.SampleRate != y.SampleRate || x.Duration != y.Duration
}
