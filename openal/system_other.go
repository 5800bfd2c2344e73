// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows && !darwin

package openal

import "github.com/kortschak/openal/dl"

const openFlags = dl.RTLD_NOW | dl.RTLD_LOCAL

func libraryNames(int) []string {
	return []string{"libopenal.so.1", "libopenal.so"}
}
