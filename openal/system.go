// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openal

import (
	"strconv"

	"github.com/kortschak/openal/dl"
)

// System opens the platform OpenAL library using the dynamic loader's
// default search locations. It is the Opener used by a Proxy when none is
// provided.
func System() (Library, error) {
	lib, err := dl.Open(openFlags, LibraryNames()...)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// LibraryNames returns the library names tried by System, in order.
func LibraryNames() []string {
	return libraryNames(strconv.IntSize)
}

// windowsLibraryName returns the name of the Windows OpenAL DLL for a
// process with the given pointer width.
func windowsLibraryName(bits int) string {
	if bits == 64 {
		return "OpenAL64"
	}
	return "OpenAL32"
}
