// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin || linux || freebsd

package dl

import (
	"fmt"

	"github.com/ebitengine/purego"
)

const (
	RTLD_LAZY   = purego.RTLD_LAZY
	RTLD_NOW    = purego.RTLD_NOW
	RTLD_GLOBAL = purego.RTLD_GLOBAL
	RTLD_LOCAL  = purego.RTLD_LOCAL
)

// Open opens the dynamic library corresponding to the first found library name
// in names. See man 3 dlopen for details.
func Open(flags int, names ...string) (*Lib, error) {
	var errs []error
	for _, n := range names {
		h, err := purego.Dlopen(n, flags)
		if err == nil && h != 0 {
			return &Lib{
				handle: h,
				name:   n,
			}, nil
		}
		if err != nil {
			errs = append(errs, Error(err.Error()))
		}
	}
	return nil, notFound(names, errs)
}

// Symbol takes a symbol name and returns a pointer to the symbol.
func (l *Lib) Symbol(name string) (uintptr, error) {
	if l == nil || l.handle == 0 {
		return 0, fmt.Errorf("could not find %s: %w", name, Error("library not open"))
	}
	s, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0, fmt.Errorf("could not find %s: %w", name, Error(err.Error()))
	}
	if s == 0 {
		return 0, fmt.Errorf("could not find %s: %w", name, Error("nil symbol"))
	}
	return s, nil
}

// Close closes the receiver, unloading the library. Symbols must not be used
// after Close has been called.
func (l *Lib) Close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	if err != nil {
		return fmt.Errorf("error closing: %w", Error(err.Error()))
	}
	return nil
}
