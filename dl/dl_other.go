// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !(darwin || linux || freebsd || windows)

package dl

import "errors"

const (
	RTLD_LAZY   = 0
	RTLD_NOW    = 0
	RTLD_GLOBAL = 0
	RTLD_LOCAL  = 0
)

var errNotImplemented = errors.New("not implemented")

// Open is not implemented on this platform.
func Open(_ int, _ ...string) (*Lib, error) {
	return nil, errNotImplemented
}

// Symbol is not implemented on this platform.
func (l *Lib) Symbol(name string) (uintptr, error) {
	return 0, errNotImplemented
}

// Close is not implemented on this platform.
func (l *Lib) Close() error {
	return errNotImplemented
}

// Bind is not implemented on this platform.
func (l *Lib) Bind(fptr any, name string) error {
	return errNotImplemented
}
