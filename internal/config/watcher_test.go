// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kortschak/openal/internal/locked"
	"github.com/kortschak/openal/internal/slogext"
)

const watchedName = "alprobe.toml"

var operations = []struct {
	name       string
	fn         func(dir string) error
	wantChange bool
	wantOp     fsnotify.Op
	wantConfig *Config
	wantErr    bool
}{
	{
		name: "create", fn: func(dir string) error {
			return create(dir, watchedName, 0o644, `device = "Simulated Device"

[tone]
frequency = 440.0
`)
		},
		wantChange: true,
		wantOp:     fsnotify.Create | fsnotify.Write,
		wantConfig: &Config{
			Device: ptr("Simulated Device"),
			Tone:   &Tone{Frequency: 440},
		},
	},
	{
		name: "no_semantic_change", fn: func(dir string) error {
			return create(dir, watchedName, 0o644, `# Same configuration.
device = "Simulated Device"

[tone]
frequency   = 440.0
`)
		},
	},
	{
		name: "other_file", fn: func(dir string) error {
			return create(dir, "other.toml", 0o644, `device = "Simulated Headset"`)
		},
	},
	{
		name: "change_tone", fn: func(dir string) error {
			return create(dir, watchedName, 0o644, `device = "Simulated Device"

[tone]
frequency = 880.0
`)
		},
		wantChange: true,
		wantOp:     fsnotify.Write,
		wantConfig: &Config{
			Device: ptr("Simulated Device"),
			Tone:   &Tone{Frequency: 880},
		},
	},
	{
		name: "invalid", fn: func(dir string) error {
			return create(dir, watchedName, 0o644, `device = "Simulated Device"

[tone]
frequency = -880.0
`)
		},
		wantChange: true,
		wantOp:     fsnotify.Write,
		wantConfig: &Config{
			Device: ptr("Simulated Device"),
			Tone:   &Tone{Frequency: -880},
		},
		wantErr: true,
	},
	{
		name: "remove", fn: func(dir string) error {
			return rm(dir, watchedName)
		},
		wantChange: true,
		wantOp:     fsnotify.Remove,
	},
}

func create(dir, name string, perm fs.FileMode, data string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(data), perm)
}

func rm(dir, name string) error {
	return os.RemoveAll(filepath.Join(dir, name))
}

func TestWatcher(t *testing.T) {
	var logBuf locked.BytesBuffer
	log := slog.New(slogext.NewJSONHandler(&logBuf, &slogext.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: slogext.NewAtomicBool(*lines),
	}))
	defer func() {
		if *verbose {
			t.Logf("log:\n%s\n", &logBuf)
		}
	}()

	dir := t.TempDir()
	path := filepath.Join(dir, watchedName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := make(chan Change)
	w, err := NewWatcher(ctx, path, stream, 50*time.Millisecond, log)
	if err != nil {
		t.Fatalf("unexpected error starting watcher: %v", err)
	}
	defer func() {
		cancel()
		w.Close()
	}()

	for _, op := range operations {
		err := op.fn(dir)
		if err != nil {
			t.Errorf("unexpected error running operation %q: %v", op.name, err)
		}
		wait := 200 * time.Millisecond
		if op.wantChange {
			wait = 2 * time.Second
		}
		timer := time.NewTimer(wait)
		var (
			got Change
			ok  bool
		)
		select {
		case <-timer.C:
		case got = <-stream:
			ok = true
			timer.Stop()
		}
		if ok != op.wantChange {
			if ok {
				t.Errorf("unexpected %q change: %+v", op.name, got)
			} else {
				t.Errorf("did not receive %q change in time", op.name)
			}
		}
		if !ok {
			continue
		}

		if got.Event.Name != path {
			t.Errorf("unexpected event name for %q: got:%q want:%q", op.name, got.Event.Name, path)
		}
		if got.Event.Op&op.wantOp == 0 {
			t.Errorf("unexpected event op for %q: got:%v want one of:%v", op.name, got.Event.Op, op.wantOp)
		}
		if (got.Err != nil) != op.wantErr {
			t.Errorf("unexpected error for %q: %v", op.name, got.Err)
		}
		if !cmp.Equal(op.wantConfig, got.Config, cmpopts.EquateEmpty()) {
			t.Errorf("unexpected config for %q:\n--- want:\n+++ got:\n%s", op.name, cmp.Diff(op.wantConfig, got.Config, cmpopts.EquateEmpty()))
		}
		if got.Config != nil && got.Sum == (Sum{}) {
			t.Errorf("missing sum for %q", op.name)
		}
	}
}

func TestWatcherInitialState(t *testing.T) {
	dir := t.TempDir()
	err := create(dir, watchedName, 0o644, `device = "Simulated Device"`)
	if err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := make(chan Change)
	w, err := NewWatcher(ctx, filepath.Join(dir, watchedName), stream, -1, nil)
	if err != nil {
		t.Fatalf("unexpected error starting watcher: %v", err)
	}
	defer func() {
		cancel()
		w.Close()
	}()

	// Rewriting the existing configuration is not a change.
	err = create(dir, watchedName, 0o644, "device = \"Simulated Device\"\n")
	if err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}
	select {
	case got := <-stream:
		t.Errorf("unexpected change: %+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(context.Background(), filepath.Join(t.TempDir(), "missing", watchedName), nil, -1, nil)
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
