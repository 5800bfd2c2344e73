// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package main

import "os"

// notifyReload is a no-op on Windows, which has no SIGHUP.
func notifyReload(chan<- os.Signal) {}
