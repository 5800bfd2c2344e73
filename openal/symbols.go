// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openal

import (
	"fmt"
	"slices"
	"unsafe"
)

// symbols is the table of resolved OpenAL entry points.
type symbols struct {
	alBufferData           func(buffer uint32, format Enum, data unsafe.Pointer, size, freq int32)
	alDeleteBuffers        func(n int32, buffers *uint32)
	alDeleteSources        func(n int32, sources *uint32)
	alGenBuffers           func(n int32, buffers *uint32)
	alGenSources           func(n int32, sources *uint32)
	alGetError             func() Enum
	alGetSourcei           func(source uint32, param Enum, value *int32)
	alGetString            func(param Enum) *byte
	alSourcePlay           func(source uint32)
	alSourceQueueBuffers   func(source uint32, nb int32, buffers *uint32)
	alListener3f           func(param Enum, v1, v2, v3 float32)
	alListenerf            func(param Enum, value float32)
	alListenerfv           func(param Enum, values *float32)
	alSource3f             func(source uint32, param Enum, v1, v2, v3 float32)
	alSourcef              func(source uint32, param Enum, value float32)
	alSourcei              func(source uint32, param Enum, value int32)
	alSourceUnqueueBuffers func(source uint32, nb int32, buffers *uint32)

	alcOpenDevice         func(name *byte) Device
	alcCreateContext      func(dev Device, attrs *int32) Context
	alcMakeContextCurrent func(ctx Context) Boolean
	alcDestroyContext     func(ctx Context)
	alcCloseDevice        func(dev Device) Boolean
	alcGetError           func(dev Device) Enum
	alcGetString          func(dev Device, param Enum) *byte
}

// binding is a deferred resolution of a single entry point.
type binding struct {
	name string
	bind func(Library) error
}

// bind returns a binding that resolves name into fn. A panic in the
// library's Bind is returned as an error.
func bind[F any](name string, fn *F) binding {
	return binding{
		name: name,
		bind: func(lib Library) (err error) {
			defer func() {
				switch r := recover().(type) {
				case nil:
				case error:
					err = fmt.Errorf("cannot bind %s: %w", name, r)
				default:
					err = fmt.Errorf("cannot bind %s: %v", name, r)
				}
			}()
			return lib.Bind(fn, name)
		},
	}
}

// bindings returns the complete set of bindings into s.
func (s *symbols) bindings() []binding {
	return []binding{
		bind("alBufferData", &s.alBufferData),
		bind("alDeleteBuffers", &s.alDeleteBuffers),
		bind("alDeleteSources", &s.alDeleteSources),
		bind("alGenBuffers", &s.alGenBuffers),
		bind("alGenSources", &s.alGenSources),
		bind("alGetError", &s.alGetError),
		bind("alGetSourcei", &s.alGetSourcei),
		bind("alGetString", &s.alGetString),
		bind("alSourcePlay", &s.alSourcePlay),
		bind("alSourceQueueBuffers", &s.alSourceQueueBuffers),
		bind("alListener3f", &s.alListener3f),
		bind("alListenerf", &s.alListenerf),
		bind("alListenerfv", &s.alListenerfv),
		bind("alSource3f", &s.alSource3f),
		bind("alSourcef", &s.alSourcef),
		bind("alSourcei", &s.alSourcei),
		bind("alSourceUnqueueBuffers", &s.alSourceUnqueueBuffers),

		bind("alcOpenDevice", &s.alcOpenDevice),
		bind("alcCreateContext", &s.alcCreateContext),
		bind("alcMakeContextCurrent", &s.alcMakeContextCurrent),
		bind("alcDestroyContext", &s.alcDestroyContext),
		bind("alcCloseDevice", &s.alcCloseDevice),
		bind("alcGetError", &s.alcGetError),
		bind("alcGetString", &s.alcGetString),
	}
}

var requiredSymbols = func() []string {
	b := (&symbols{}).bindings()
	names := make([]string, len(b))
	for i, s := range b {
		names[i] = s.name
	}
	return names
}()

// Symbols returns the names of the entry points that must be exported by
// an OpenAL library for it to be loaded by a Proxy.
func Symbols() []string {
	return slices.Clone(requiredSymbols)
}

// resolve binds every entry point in lib into a new symbol table. The table
// is only returned if all entry points are resolved.
func resolve(lib Library) (*symbols, error) {
	var s symbols
	for _, b := range s.bindings() {
		err := b.bind(lib)
		if err != nil {
			return nil, err
		}
	}
	return &s, nil
}
