// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyReload relays SIGHUP to c.
func notifyReload(c chan<- os.Signal) {
	signal.Notify(c, syscall.SIGHUP)
}
