// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package dl

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// LoadLibraryEx flags. See the LoadLibraryExW documentation for details.
const (
	LOAD_LIBRARY_SEARCH_APPLICATION_DIR = windows.LOAD_LIBRARY_SEARCH_APPLICATION_DIR
	LOAD_LIBRARY_SEARCH_DEFAULT_DIRS    = windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS
	LOAD_LIBRARY_SEARCH_SYSTEM32        = windows.LOAD_LIBRARY_SEARCH_SYSTEM32
	LOAD_LIBRARY_SEARCH_USER_DIRS       = windows.LOAD_LIBRARY_SEARCH_USER_DIRS
)

// Open opens the dynamic library corresponding to the first found library name
// in names using LoadLibraryEx with the provided flags.
func Open(flags int, names ...string) (*Lib, error) {
	var errs []error
	for _, n := range names {
		h, err := windows.LoadLibraryEx(n, 0, uintptr(flags))
		if err == nil && h != 0 {
			return &Lib{
				handle: uintptr(h),
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
	s, err := windows.GetProcAddress(windows.Handle(l.handle), name)
	if err != nil {
		return 0, fmt.Errorf("could not find %s: %w", name, Error(err.Error()))
	}
	return s, nil
}

// Close closes the receiver, unloading the library. Symbols must not be used
// after Close has been called.
func (l *Lib) Close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := windows.FreeLibrary(windows.Handle(l.handle))
	l.handle = 0
	if err != nil {
		return fmt.Errorf("error closing: %w", Error(err.Error()))
	}
	return nil
}
