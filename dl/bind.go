// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin || linux || freebsd || windows

package dl

import (
	"fmt"
	"reflect"

	"github.com/ebitengine/purego"
)

// Bind resolves the named symbol and binds it to the func pointed to by fptr.
// The func's signature must match the C signature of the symbol. See
// [purego.RegisterFunc] for the supported argument and return types. A
// signature that cannot be bound on the current platform, such as one with
// float arguments on a 32-bit platform, results in an Error.
func (l *Lib) Bind(fptr any, name string) (err error) {
	if fptr == nil || reflect.TypeOf(fptr).Kind() != reflect.Pointer || reflect.TypeOf(fptr).Elem().Kind() != reflect.Func {
		return fmt.Errorf("cannot bind %s: %T is not a pointer to a func", name, fptr)
	}
	sym, err := l.Symbol(name)
	if err != nil {
		return err
	}
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("cannot bind %s: %w", name, Error(fmt.Sprint(r)))
		}
	}()
	purego.RegisterFunc(fptr, sym)
	return nil
}
