// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dl implements dlopen and related functionality.
//
// On unix platforms libraries are opened with dlopen(3) and on Windows with
// LoadLibraryEx. Resolved entry points may be bound to Go func values with
// [Lib.Bind] without the use of cgo.
package dl

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("so lib not found")

// Lib represents an open handle to a dynamically loaded library.
type Lib struct {
	handle uintptr
	name   string
}

// Name returns the resolved name of the library.
func (l *Lib) Name() string { return l.name }

// Error is a dynamic loader error message.
type Error string

func (e Error) Error() string { return string(e) }

// notFound returns an ErrNotFound wrapping the loader messages for each
// attempted name.
func notFound(names []string, errs []error) error {
	if len(errs) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, names)
	}
	return fmt.Errorf("%w: %s: %w", ErrNotFound, names, errors.Join(errs...))
}
