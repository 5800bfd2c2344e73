// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package xdg

// Roaming application data is used for per-user configuration and
// ProgramData for machine-wide configuration.
const (
	_HOME = ""

	key_XDG_CONFIG_HOME = "APPDATA"
	def_XDG_CONFIG_HOME = ""

	key_XDG_CONFIG_DIRS = "ProgramData"
	def_XDG_CONFIG_DIRS = ""
)
