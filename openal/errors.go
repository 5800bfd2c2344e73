// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openal

import (
	"errors"
	"strings"
)

// ErrNotLoaded is returned by forwarding calls made while no library is
// loaded.
var ErrNotLoaded = errors.New("openal: library not loaded")

// LoadError is returned when the library cannot be opened, closed or its
// entry points cannot be resolved. Err holds the platform error.
type LoadError struct {
	Op   string // "open", "resolve" or "close"
	Name string // library name, if known
	Err  error
}

func (e *LoadError) Error() string {
	var buf strings.Builder
	buf.WriteString("openal: failed to ")
	buf.WriteString(e.Op)
	buf.WriteString(" library")
	if e.Name != "" {
		buf.WriteString(" ")
		buf.WriteString(e.Name)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

func (e *LoadError) Unwrap() error { return e.Err }
