// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openal

import "unsafe"

// GoString returns a copy of the NUL-terminated string at p.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	return string(unsafe.Slice(p, clen(p)))
}

// GoStrings returns copies of the strings in the list at p. The list is
// a sequence of NUL-terminated strings ended by an empty string, as returned
// by alcGetString for device specifier queries on a zero device.
func GoStrings(p *byte) []string {
	if p == nil {
		return nil
	}
	var list []string
	for {
		n := clen(p)
		if n == 0 {
			return list
		}
		list = append(list, string(unsafe.Slice(p, n)))
		p = (*byte)(unsafe.Add(unsafe.Pointer(p), n+1))
	}
}

// CString returns a pointer to a NUL-terminated copy of s.
func CString(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

func clen(p *byte) int {
	var n int
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return n
}
