// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/kortschak/openal/openal/openaltest"
)

var (
	update  = flag.Bool("update", false, "update tests")
	keep    = flag.Bool("keep", false, "keep $WORK directory after tests")
	verbose = flag.Bool("verbose_log", false, "print full logging")
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"alprobe":     Main,
		"alprobe_sim": func() int { return mainWith(openaltest.NewDriver().Open) },
		"alprobe_broken": func() int {
			d := openaltest.NewDriver()
			d.Missing = map[string]bool{"alSourcePlay": true}
			return mainWith(d.Open)
		},
	}))
}

func TestScripts(t *testing.T) {
	t.Parallel()

	p := testscript.Params{
		Dir:           filepath.Join("testdata"),
		UpdateScripts: *update,
		TestWork:      *keep,
	}
	testscript.Run(t, p)
}
