// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package openal

import "github.com/kortschak/openal/dl"

// openFlags restricts the search to the application directory, System32
// and directories added with AddDllDirectory.
const openFlags = dl.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS

func libraryNames(bits int) []string {
	return []string{windowsLibraryName(bits)}
}
