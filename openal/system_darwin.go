// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package openal

import "github.com/kortschak/openal/dl"

const openFlags = dl.RTLD_NOW | dl.RTLD_LOCAL

func libraryNames(int) []string {
	return []string{
		"/System/Library/Frameworks/OpenAL.framework/OpenAL",
		"libopenal.1.dylib",
		"libopenal.dylib",
	}
}
