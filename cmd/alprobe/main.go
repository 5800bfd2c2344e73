// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The alprobe executable loads the platform OpenAL library, reports the
// implementation and device details and optionally plays a positioned test
// tone.
//
// In watch mode the tone is looped and the configuration file is followed,
// applying changes live. Sending SIGHUP to a watching alprobe process
// releases all OpenAL objects, reloads the library and restarts the tone.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/kortschak/openal/internal/config"
	"github.com/kortschak/openal/internal/slogext"
	"github.com/kortschak/openal/internal/version"
	"github.com/kortschak/openal/internal/xdg"
	"github.com/kortschak/openal/openal"
)

// Exit status codes.
const (
	success       = 0
	internalError = 1 << (iota - 1)
	invocationError
)

func main() { os.Exit(Main()) }

// Main runs alprobe against the system OpenAL library.
func Main() int { return mainWith(nil) }

// mainWith runs alprobe using open to open the OpenAL library. If open
// is nil the system library is used.
func mainWith(open openal.Opener) int {
	logging := flag.String("log", "info", "logging level (debug, info, warn or error)")
	lines := flag.Bool("lines", false, "display source line details in logs")
	v := flag.Bool("version", false, "print version and exit")
	cfgPath := flag.String("config", "", "configuration file path (default alprobe/config.toml in the user config directory if present)")
	device := flag.String("device", "", "device specifier to open (default from config or the system default device)")
	tone := flag.Bool("tone", false, "play a test tone")
	watch := flag.Bool("watch", false, "loop the test tone and apply configuration changes until interrupted")
	symbols := flag.Bool("symbols", false, "print the required OpenAL entry points and exit")
	flag.Parse()
	if *v {
		err := version.Print()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return internalError
		}
		return success
	}
	if *symbols {
		for _, s := range openal.Symbols() {
			fmt.Println(s)
		}
		return success
	}
	if flag.NArg() != 0 {
		flag.Usage()
		return invocationError
	}

	var level slog.LevelVar
	err := level.UnmarshalText([]byte(*logging))
	if err != nil {
		flag.Usage()
		return invocationError
	}
	addSource := slogext.NewAtomicBool(*lines)
	log := slog.New(slogext.GoID{Handler: slogext.NewJSONHandler(os.Stderr, &slogext.HandlerOptions{
		Level:     &level,
		AddSource: addSource,
	})})
	mlog := log.With(slog.String("component", "alprobe.main"))

	path, err := configPath(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return invocationError
	}
	cfg := &config.Config{}
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return invocationError
		}
	}
	flagSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagSet[f.Name] = true })
	opts := options{
		level:      &level,
		addSource:  addSource,
		keepLevel:  flagSet["log"],
		keepSource: flagSet["lines"],
		device:     *device,
	}
	opts.apply(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	mlog.LogAttrs(ctx, slog.LevelDebug, "configuration", slog.String("path", path), slog.Any("config", cfg))

	p := openal.New(open, log)
	err = p.Load()
	if err != nil {
		mlog.LogAttrs(ctx, slog.LevelError, "load library", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, err)
		return internalError
	}

	s, err := openSession(ctx, p, opts.deviceFor(cfg), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return internalError
	}
	defer func() {
		err := s.close()
		if err != nil {
			mlog.LogAttrs(ctx, slog.LevelWarn, "close session", slog.Any("error", err))
		}
	}()

	rep, err := s.report()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return internalError
	}
	b, err := json.MarshalIndent(rep, "", "\t")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return internalError
	}
	fmt.Printf("%s\n", b)

	switch {
	case *watch:
		w := &watcher{
			p:       p,
			session: s,
			path:    path,
			cfg:     cfg,
			opts:    opts,
			log:     log.With(slog.String("component", "alprobe.watch")),
		}
		err = w.run(ctx)
		s = w.session
	case *tone:
		err = s.playTone(ctx, cfg.Tone.WithDefaults(), cfg.Listener)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return internalError
	}
	return success
}

// configPath returns the configuration file path to use. An explicitly
// provided path must exist. If no path is provided, the user configuration
// directories are searched and an empty path is returned if no
// configuration file is found.
func configPath(path string) (string, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		return path, nil
	}
	path, err := xdg.Config("alprobe/config.toml", false)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

// options holds command line settings that take precedence over the
// configuration file.
type options struct {
	level      *slog.LevelVar
	addSource  *atomic.Bool
	keepLevel  bool
	keepSource bool
	device     string
}

// apply applies the logging configuration in cfg unless overridden by
// command line flags.
func (o options) apply(cfg *config.Config) {
	if cfg.LogLevel != nil && !o.keepLevel {
		o.level.Set(*cfg.LogLevel)
	}
	if cfg.AddSource != nil && !o.keepSource {
		o.addSource.Store(*cfg.AddSource)
	}
}

// deviceFor returns the device specifier to open for cfg. A nil result
// selects the default device.
func (o options) deviceFor(cfg *config.Config) *string {
	if o.device != "" {
		return &o.device
	}
	return cfg.Device
}
