// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openal

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
)

func TestWindowsLibraryName(t *testing.T) {
	for _, test := range []struct {
		bits int
		want string
	}{
		{bits: 64, want: "OpenAL64"},
		{bits: 32, want: "OpenAL32"},
	} {
		got := windowsLibraryName(test.bits)
		if got != test.want {
			t.Errorf("unexpected name for %d bits: got:%q want:%q", test.bits, got, test.want)
		}
	}
}

func TestLibraryNames(t *testing.T) {
	got := LibraryNames()
	if len(got) == 0 {
		t.Fatal("no library names")
	}
	for _, n := range got {
		if n == "" {
			t.Error("empty library name")
		}
	}
}

var loadErrorTests = []struct {
	name string
	err  *LoadError
	want string
}{
	{
		name: "open",
		err:  &LoadError{Op: "open", Err: errors.New("no such file")},
		want: "openal: failed to open library: no such file",
	},
	{
		name: "resolve",
		err:  &LoadError{Op: "resolve", Name: "libopenal.so.1", Err: errors.New("could not find alGetError")},
		want: "openal: failed to resolve library libopenal.so.1: could not find alGetError",
	},
	{
		name: "close_no_cause",
		err:  &LoadError{Op: "close", Name: "OpenAL64"},
		want: "openal: failed to close library OpenAL64",
	},
}

func TestLoadError(t *testing.T) {
	for _, test := range loadErrorTests {
		t.Run(test.name, func(t *testing.T) {
			got := test.err.Error()
			if got != test.want {
				t.Errorf("unexpected error message: got:%q want:%q", got, test.want)
			}
			if test.err.Err != nil && !errors.Is(test.err, test.err.Err) {
				t.Errorf("error does not unwrap to cause")
			}
		})
	}
}

func TestCString(t *testing.T) {
	for _, s := range []string{"", "a", "Simulated OpenAL"} {
		p := CString(s)
		b := unsafe.Slice(p, len(s)+1)
		if b[len(s)] != 0 {
			t.Errorf("CString(%q) is not NUL-terminated", s)
		}
		if got := GoString(p); got != s {
			t.Errorf("unexpected round trip: got:%q want:%q", got, s)
		}
	}
	if got := GoString(nil); got != "" {
		t.Errorf("unexpected string for nil: %q", got)
	}
}

func TestGoStrings(t *testing.T) {
	for _, test := range []struct {
		list []byte
		want []string
	}{
		{list: []byte{0}, want: nil},
		{list: []byte("one\x00\x00"), want: []string{"one"}},
		{list: []byte("Device\x00Headset\x00\x00"), want: []string{"Device", "Headset"}},
	} {
		got := GoStrings(&test.list[0])
		if !cmp.Equal(test.want, got) {
			t.Errorf("unexpected list for %q:\n--- want:\n+++ got:\n%s", test.list, cmp.Diff(test.want, got))
		}
	}
	if got := GoStrings(nil); got != nil {
		t.Errorf("unexpected list for nil: %q", got)
	}
}

// stubLibrary binds every symbol to a zero-behaviour func of the right
// type, failing for names in missing and panicking for names in panics.
type stubLibrary struct {
	missing map[string]bool
	panics  map[string]bool
	bound   []string
}

func (l *stubLibrary) Bind(fptr any, name string) error {
	if l.missing[name] {
		return fmt.Errorf("could not find %s", name)
	}
	if l.panics[name] {
		panic("floats only supported on 64bit platforms")
	}
	v := reflect.ValueOf(fptr).Elem()
	v.Set(reflect.MakeFunc(v.Type(), func(args []reflect.Value) []reflect.Value {
		out := make([]reflect.Value, v.Type().NumOut())
		for i := range out {
			out[i] = reflect.Zero(v.Type().Out(i))
		}
		return out
	}))
	l.bound = append(l.bound, name)
	return nil
}

func (l *stubLibrary) Close() error { return nil }

func TestResolve(t *testing.T) {
	lib := &stubLibrary{}
	syms, err := resolve(lib)
	if err != nil {
		t.Fatalf("unexpected error resolving symbols: %v", err)
	}
	if !cmp.Equal(requiredSymbols, lib.bound) {
		t.Errorf("unexpected bind order:\n--- want:\n+++ got:\n%s", cmp.Diff(requiredSymbols, lib.bound))
	}
	v := reflect.ValueOf(syms).Elem()
	for i := range v.NumField() {
		if v.Field(i).IsNil() {
			t.Errorf("unbound symbol field: %s", v.Type().Field(i).Name)
		}
	}
}

func TestResolveAllOrNothing(t *testing.T) {
	last := requiredSymbols[len(requiredSymbols)-1]
	lib := &stubLibrary{missing: map[string]bool{last: true}}
	syms, err := resolve(lib)
	if err == nil {
		t.Fatal("expected error for missing symbol")
	}
	if syms != nil {
		t.Error("unexpected partial symbol table")
	}
	if len(lib.bound) != len(requiredSymbols)-1 {
		t.Errorf("unexpected number of attempted binds: got:%d want:%d", len(lib.bound), len(requiredSymbols)-1)
	}
}

func TestResolveBindPanic(t *testing.T) {
	lib := &stubLibrary{panics: map[string]bool{"alSourcef": true}}
	syms, err := resolve(lib)
	if err == nil {
		t.Fatal("expected error for panicking bind")
	}
	if syms != nil {
		t.Error("unexpected partial symbol table")
	}
	want := "cannot bind alSourcef: floats only supported on 64bit platforms"
	if err.Error() != want {
		t.Errorf("unexpected error: got:%q want:%q", err, want)
	}
}
