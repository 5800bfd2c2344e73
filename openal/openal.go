// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package openal provides a lazily loaded, concurrency-safe proxy to the
// platform OpenAL library.
//
// A [Proxy] loads the library on demand, resolves every entry point it
// forwards to and serialises all access with a single re-entrant lock.
// Forwarded calls pass their arguments and results through unaltered; the
// OpenAL error state is read by calling [Proxy.GetError] and
// [Proxy.DeviceError] as with the native API.
package openal

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/kortschak/openal/internal/locked"
)

// Library is an open dynamic library.
type Library interface {
	// Bind resolves the named symbol and binds it to the func
	// pointed to by fptr.
	Bind(fptr any, name string) error
	// Close closes the library. Bound funcs must not be
	// called after Close has been called.
	Close() error
}

// Opener opens a Library.
type Opener func() (Library, error)

// Proxy is a forwarding proxy to an OpenAL library. Its methods are safe for
// concurrent use. The zero value is not usable; use [New].
type Proxy struct {
	open Opener
	log  *slog.Logger

	mu   locked.RecursiveMutex
	lib  Library
	syms *symbols
}

// New returns a new Proxy that opens its library with open. If open is nil,
// the system OpenAL library is used. If log is nil, logging is discarded.
// The library is not opened until [Proxy.Load] or [Proxy.Reload] is called.
func New(open Opener, log *slog.Logger) *Proxy {
	if open == nil {
		open = System
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Proxy{
		open: open,
		log:  log.With(slog.String("component", "openal.proxy")),
	}
}

// Load opens the library and resolves all the entry points used by the
// proxy. If the library is already loaded, Load is a no-op. If the library
// cannot be opened or any entry point cannot be resolved, a *LoadError is
// returned and the proxy remains unloaded.
func (p *Proxy) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

// Reload closes the currently loaded library, if any, and then loads the
// library as described for [Proxy.Load]. If closing fails, a *LoadError is
// returned and the proxy is left unloaded.
func (p *Proxy) Reload() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx := context.Background()
	if p.lib != nil {
		name := libName(p.lib)
		err := p.lib.Close()
		p.lib = nil
		p.syms = nil
		if err != nil {
			p.log.LogAttrs(ctx, slog.LevelError, "close library", slog.String("name", name), slog.Any("error", err))
			return &LoadError{Op: "close", Name: name, Err: err}
		}
		p.log.LogAttrs(ctx, slog.LevelInfo, "closed library", slog.String("name", name))
	}
	return p.load()
}

// load is the unlocked implementation of Load. It must be called with p.mu
// held.
func (p *Proxy) load() error {
	if p.lib != nil {
		return nil
	}

	ctx := context.Background()
	lib, err := p.open()
	if err != nil {
		p.log.LogAttrs(ctx, slog.LevelError, "open library", slog.Any("error", err))
		return &LoadError{Op: "open", Err: err}
	}
	if lib == nil {
		p.log.LogAttrs(ctx, slog.LevelError, "open library", slog.String("error", "nil library"))
		return &LoadError{Op: "open", Err: errors.New("opener returned nil library")}
	}
	name := libName(lib)
	syms, err := resolve(lib)
	if err != nil {
		p.log.LogAttrs(ctx, slog.LevelError, "resolve symbols", slog.String("name", name), slog.Any("error", err))
		closeErr := lib.Close()
		if closeErr != nil {
			p.log.LogAttrs(ctx, slog.LevelWarn, "close library after failed resolution", slog.String("name", name), slog.Any("error", closeErr))
			err = errors.Join(err, closeErr)
		}
		return &LoadError{Op: "resolve", Name: name, Err: err}
	}

	p.lib = lib
	p.syms = syms
	p.log.LogAttrs(ctx, slog.LevelInfo, "loaded library", slog.String("name", name), slog.Int("symbols", len(requiredSymbols)))
	return nil
}

// Loaded reports whether the library is currently loaded.
func (p *Proxy) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lib != nil
}

// LibraryName returns the name of the loaded library if it is available.
func (p *Proxy) LibraryName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lib == nil {
		return ""
	}
	return libName(p.lib)
}

// Do calls fn with the proxy's lock held. Calls to the proxy's methods made
// by fn on the calling goroutine do not block, so a sequence of forwarded
// calls may be made without an intervening Reload from another goroutine.
// Do returns the error returned by fn.
func (p *Proxy) Do(fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn()
}

// libName returns the name of lib if it implements Name() string.
func libName(lib Library) string {
	n, ok := lib.(interface{ Name() string })
	if !ok {
		return ""
	}
	return n.Name()
}
