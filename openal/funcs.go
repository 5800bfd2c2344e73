// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openal

import "unsafe"

// Each forwarding method holds the proxy lock for the duration of the native
// call and returns ErrNotLoaded without calling into the library if no
// library is loaded.

// BufferData calls alBufferData.
func (p *Proxy) BufferData(buffer uint32, format Enum, data unsafe.Pointer, size, freq int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alBufferData(buffer, format, data, size, freq)
	return nil
}

// DeleteBuffers calls alDeleteBuffers.
func (p *Proxy) DeleteBuffers(n int32, buffers *uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alDeleteBuffers(n, buffers)
	return nil
}

// DeleteSources calls alDeleteSources.
func (p *Proxy) DeleteSources(n int32, sources *uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alDeleteSources(n, sources)
	return nil
}

// GenBuffers calls alGenBuffers.
func (p *Proxy) GenBuffers(n int32, buffers *uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alGenBuffers(n, buffers)
	return nil
}

// GenSources calls alGenSources.
func (p *Proxy) GenSources(n int32, sources *uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alGenSources(n, sources)
	return nil
}

// GetError calls alGetError, returning and clearing the AL error state.
func (p *Proxy) GetError() (Enum, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return 0, ErrNotLoaded
	}
	return p.syms.alGetError(), nil
}

// GetSourcei calls alGetSourcei.
func (p *Proxy) GetSourcei(source uint32, param Enum, value *int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alGetSourcei(source, param, value)
	return nil
}

// GetString calls alGetString. The returned string is owned by the library;
// see [GoString].
func (p *Proxy) GetString(param Enum) (*byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return nil, ErrNotLoaded
	}
	return p.syms.alGetString(param), nil
}

// SourcePlay calls alSourcePlay.
func (p *Proxy) SourcePlay(source uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alSourcePlay(source)
	return nil
}

// SourceQueueBuffers calls alSourceQueueBuffers.
func (p *Proxy) SourceQueueBuffers(source uint32, n int32, buffers *uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alSourceQueueBuffers(source, n, buffers)
	return nil
}

// SourceUnqueueBuffers calls alSourceUnqueueBuffers.
func (p *Proxy) SourceUnqueueBuffers(source uint32, n int32, buffers *uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alSourceUnqueueBuffers(source, n, buffers)
	return nil
}

// Listener3f calls alListener3f.
func (p *Proxy) Listener3f(param Enum, v1, v2, v3 float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alListener3f(param, v1, v2, v3)
	return nil
}

// Listenerf calls alListenerf.
func (p *Proxy) Listenerf(param Enum, value float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alListenerf(param, value)
	return nil
}

// Listenerfv calls alListenerfv.
func (p *Proxy) Listenerfv(param Enum, values *float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alListenerfv(param, values)
	return nil
}

// Source3f calls alSource3f.
func (p *Proxy) Source3f(source uint32, param Enum, v1, v2, v3 float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alSource3f(source, param, v1, v2, v3)
	return nil
}

// Sourcef calls alSourcef.
func (p *Proxy) Sourcef(source uint32, param Enum, value float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alSourcef(source, param, value)
	return nil
}

// Sourcei calls alSourcei.
func (p *Proxy) Sourcei(source uint32, param Enum, value int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alSourcei(source, param, value)
	return nil
}

// OpenDevice calls alcOpenDevice. A nil name opens the default device.
func (p *Proxy) OpenDevice(name *byte) (Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return 0, ErrNotLoaded
	}
	return p.syms.alcOpenDevice(name), nil
}

// CloseDevice calls alcCloseDevice.
func (p *Proxy) CloseDevice(dev Device) (Boolean, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return False, ErrNotLoaded
	}
	return p.syms.alcCloseDevice(dev), nil
}

// CreateContext calls alcCreateContext. The attribute list at attrs, if
// not nil, must be zero-terminated.
func (p *Proxy) CreateContext(dev Device, attrs *int32) (Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return 0, ErrNotLoaded
	}
	return p.syms.alcCreateContext(dev, attrs), nil
}

// DestroyContext calls alcDestroyContext.
func (p *Proxy) DestroyContext(ctx Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return ErrNotLoaded
	}
	p.syms.alcDestroyContext(ctx)
	return nil
}

// MakeContextCurrent calls alcMakeContextCurrent.
func (p *Proxy) MakeContextCurrent(ctx Context) (Boolean, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return False, ErrNotLoaded
	}
	return p.syms.alcMakeContextCurrent(ctx), nil
}

// DeviceError calls alcGetError, returning and clearing the error state
// of dev.
func (p *Proxy) DeviceError(dev Device) (Enum, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return 0, ErrNotLoaded
	}
	return p.syms.alcGetError(dev), nil
}

// DeviceString calls alcGetString. Device lists queried with a zero dev are
// double-NUL-terminated; see [GoStrings].
func (p *Proxy) DeviceString(dev Device, param Enum) (*byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syms == nil {
		return nil, ErrNotLoaded
	}
	return p.syms.alcGetString(dev, param), nil
}
