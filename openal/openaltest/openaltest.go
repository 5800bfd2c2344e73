// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package openaltest provides a simulated OpenAL library for testing.
package openaltest

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"unsafe"

	"github.com/kortschak/openal/openal"
)

// ErrNoSymbol is returned by a simulated library when a symbol listed in
// [Driver.Missing] is bound.
var ErrNoSymbol = errors.New("symbol not found")

// ErrUnbindable is the panic value of a simulated library when a symbol
// listed in [Driver.Unbindable] is bound.
var ErrUnbindable = errors.New("signature not supported")

// DefaultDevice is the name of the simulated default device.
const DefaultDevice = "Simulated Device"

// Devices is the list of simulated playback devices.
var Devices = []string{DefaultDevice, "Simulated Headset"}

// Driver is a simulated OpenAL implementation. Its Open method satisfies
// [openal.Opener]. Each opened library binds entry points to the driver's
// simulation, which records every call.
//
// The exported fields must not be modified concurrently with calls to the
// driver or its libraries.
type Driver struct {
	// OpenErr is returned by Open if not nil.
	OpenErr error
	// CloseErr is returned by library Close calls if not nil.
	CloseErr error
	// Missing is the set of symbol names that fail to resolve.
	Missing map[string]bool
	// Unbindable is the set of symbol names that cause Bind to
	// panic, as a native binder does for a signature it cannot
	// support on the platform.
	Unbindable map[string]bool
	// PlayPolls is the number of AL_SOURCE_STATE queries a
	// non-looping playing source reports AL_PLAYING before
	// reporting AL_STOPPED.
	PlayPolls int

	mu sync.Mutex

	events []string
	calls  []Call
	binds  map[string]int

	alError  openal.Enum
	alcError map[openal.Device]openal.Enum

	nextName    uint32
	buffers     map[uint32]*Buffer
	sources     map[uint32]*Source
	listener    Listener
	devices     map[openal.Device]string
	contexts    map[openal.Context]openal.Device
	current     openal.Context
	nextDevice  openal.Device
	nextContext openal.Context

	alStrings  map[openal.Enum][]byte
	alcStrings map[openal.Enum][]byte
	nameBytes  map[openal.Device][]byte
}

// Call is a record of a simulated native call.
type Call struct {
	Name string
	Args []any
}

// Buffer is the state of a simulated buffer.
type Buffer struct {
	Format openal.Enum
	Data   []byte
	Freq   int32
}

// Source is the state of a simulated source.
type Source struct {
	Buffer   uint32
	Queue    []uint32
	Position [3]float32
	Velocity [3]float32
	Gain     float32
	Pitch    float32
	Looping  bool
	Relative bool
	State    openal.Enum

	polls int
}

// Listener is the state of the simulated listener.
type Listener struct {
	Gain        float32
	Position    [3]float32
	Velocity    [3]float32
	Orientation [6]float32
}

// NewDriver returns a new simulated OpenAL driver.
func NewDriver() *Driver {
	return &Driver{
		PlayPolls: 1,
		binds:     make(map[string]int),
		alcError:  make(map[openal.Device]openal.Enum),
		buffers:   make(map[uint32]*Buffer),
		sources:   make(map[uint32]*Source),
		listener: Listener{
			Gain:        1,
			Orientation: [6]float32{0, 0, -1, 0, 1, 0},
		},
		devices:     make(map[openal.Device]string),
		contexts:    make(map[openal.Context]openal.Device),
		nextDevice:  0x1000,
		nextContext: 0x2000,
		alStrings: map[openal.Enum][]byte{
			openal.Vendor:     cstr("Simulated OpenAL"),
			openal.Version:    cstr("1.1 Simulated"),
			openal.Renderer:   cstr("Software"),
			openal.Extensions: cstr("AL_EXT_FLOAT32 AL_EXT_MCFORMATS"),
		},
		alcStrings: map[openal.Enum][]byte{
			openal.ALCDefaultDeviceSpecifier:     cstr(DefaultDevice),
			openal.ALCDefaultAllDevicesSpecifier: cstr(DefaultDevice),
			openal.ALCDeviceSpecifier:            cstrs(Devices),
			openal.ALCAllDevicesSpecifier:        cstrs(Devices),
			openal.ALCExtensions:                 cstr("ALC_ENUMERATE_ALL_EXT ALC_EXT_CAPTURE"),
		},
		nameBytes: make(map[openal.Device][]byte),
	}
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func cstrs(list []string) []byte {
	var b []byte
	for _, s := range list {
		b = append(b, s...)
		b = append(b, 0)
	}
	return append(b, 0)
}

// Open returns a new simulated library bound to d.
func (d *Driver) Open() (openal.Library, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, "open")
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	return &library{d: d}, nil
}

// Events returns the sequence of "open" and "close" library events.
func (d *Driver) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.events)
}

// Opens returns the number of library open attempts.
func (d *Driver) Opens() int {
	return d.count("open")
}

// Closes returns the number of library close attempts.
func (d *Driver) Closes() int {
	return d.count("close")
}

func (d *Driver) count(event string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int
	for _, e := range d.events {
		if e == event {
			n++
		}
	}
	return n
}

// Binds returns the number of successful binds of the named symbol.
func (d *Driver) Binds(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.binds[name]
}

// Calls returns the record of native calls made since the last call to
// ResetCalls.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

// ResetCalls clears the record of native calls.
func (d *Driver) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

// Buffer returns the state of the named buffer.
func (d *Driver) Buffer(name uint32) (Buffer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[name]
	if !ok {
		return Buffer{}, false
	}
	return *b, true
}

// Source returns the state of the named source.
func (d *Driver) Source(name uint32) (Source, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sources[name]
	if !ok {
		return Source{}, false
	}
	c := *s
	c.Queue = slices.Clone(s.Queue)
	return c, true
}

// Sources returns the number of live sources.
func (d *Driver) Sources() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sources)
}

// Buffers returns the number of live buffers.
func (d *Driver) Buffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers)
}

// Listener returns the state of the listener.
func (d *Driver) Listener() Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listener
}

// OpenDevices returns the number of open devices.
func (d *Driver) OpenDevices() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.devices)
}

// CurrentContext returns the current context.
func (d *Driver) CurrentContext() openal.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// SetError sets the AL error state as if a failed call had been made.
func (d *Driver) SetError(err openal.Enum) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alError = err
}

// library is a simulated open OpenAL library.
type library struct {
	d      *Driver
	closed bool
}

func (l *library) Name() string { return "simulated" }

func (l *library) Bind(fptr any, name string) error {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	if l.closed {
		return fmt.Errorf("could not find %s: library closed", name)
	}
	if l.d.Missing[name] {
		return fmt.Errorf("could not find %s: %w", name, ErrNoSymbol)
	}
	if l.d.Unbindable[name] {
		panic(ErrUnbindable)
	}
	fn, ok := l.d.funcs()[name]
	if !ok {
		return fmt.Errorf("could not find %s: %w", name, ErrNoSymbol)
	}
	dst := reflect.ValueOf(fptr)
	if dst.Kind() != reflect.Pointer || dst.IsNil() || dst.Elem().Type() != reflect.TypeOf(fn) {
		return fmt.Errorf("cannot bind %s to %T", name, fptr)
	}
	dst.Elem().Set(reflect.ValueOf(fn))
	l.d.binds[name]++
	return nil
}

func (l *library) Close() error {
	l.d.mu.Lock()
	defer l.d.mu.Unlock()
	l.d.events = append(l.d.events, "close")
	if l.d.CloseErr != nil {
		return l.d.CloseErr
	}
	l.closed = true
	return nil
}

// funcs returns the simulated entry points.
func (d *Driver) funcs() map[string]any {
	return map[string]any{
		"alBufferData":           d.alBufferData,
		"alDeleteBuffers":        d.alDeleteBuffers,
		"alDeleteSources":        d.alDeleteSources,
		"alGenBuffers":           d.alGenBuffers,
		"alGenSources":           d.alGenSources,
		"alGetError":             d.alGetError,
		"alGetSourcei":           d.alGetSourcei,
		"alGetString":            d.alGetString,
		"alSourcePlay":           d.alSourcePlay,
		"alSourceQueueBuffers":   d.alSourceQueueBuffers,
		"alListener3f":           d.alListener3f,
		"alListenerf":            d.alListenerf,
		"alListenerfv":           d.alListenerfv,
		"alSource3f":             d.alSource3f,
		"alSourcef":              d.alSourcef,
		"alSourcei":              d.alSourcei,
		"alSourceUnqueueBuffers": d.alSourceUnqueueBuffers,

		"alcOpenDevice":         d.alcOpenDevice,
		"alcCreateContext":      d.alcCreateContext,
		"alcMakeContextCurrent": d.alcMakeContextCurrent,
		"alcDestroyContext":     d.alcDestroyContext,
		"alcCloseDevice":        d.alcCloseDevice,
		"alcGetError":           d.alcGetError,
		"alcGetString":          d.alcGetString,
	}
}

// record must be called with d.mu held.
func (d *Driver) record(name string, args ...any) {
	d.calls = append(d.calls, Call{Name: name, Args: args})
}

// setError must be called with d.mu held. As with OpenAL, only the first
// error is retained until it is read.
func (d *Driver) setError(err openal.Enum) {
	if d.alError == openal.NoError {
		d.alError = err
	}
}

func (d *Driver) setDeviceError(dev openal.Device, err openal.Enum) {
	if d.alcError[dev] == openal.ALCNoError {
		d.alcError[dev] = err
	}
}

// names returns a slice view of n names at p.
func names(n int32, p *uint32) []uint32 {
	if n <= 0 || p == nil {
		return nil
	}
	return unsafe.Slice(p, n)
}

func (d *Driver) alBufferData(buffer uint32, format openal.Enum, data unsafe.Pointer, size, freq int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alBufferData", buffer, format, data, size, freq)
	b, ok := d.buffers[buffer]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	switch format {
	case openal.FormatMono8, openal.FormatMono16, openal.FormatStereo8, openal.FormatStereo16:
	default:
		d.setError(openal.InvalidEnum)
		return
	}
	if size < 0 || freq <= 0 || (data == nil && size != 0) {
		d.setError(openal.InvalidValue)
		return
	}
	b.Format = format
	b.Freq = freq
	if size == 0 {
		b.Data = nil
		return
	}
	b.Data = slices.Clone(unsafe.Slice((*byte)(data), size))
}

func (d *Driver) alDeleteBuffers(n int32, buffers *uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alDeleteBuffers", n, buffers)
	list := names(n, buffers)
	for _, b := range list {
		if _, ok := d.buffers[b]; !ok && b != 0 {
			d.setError(openal.InvalidName)
			return
		}
	}
	for _, b := range list {
		delete(d.buffers, b)
	}
}

func (d *Driver) alDeleteSources(n int32, sources *uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alDeleteSources", n, sources)
	list := names(n, sources)
	for _, s := range list {
		if _, ok := d.sources[s]; !ok {
			d.setError(openal.InvalidName)
			return
		}
	}
	for _, s := range list {
		delete(d.sources, s)
	}
}

func (d *Driver) alGenBuffers(n int32, buffers *uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alGenBuffers", n, buffers)
	if n < 0 {
		d.setError(openal.InvalidValue)
		return
	}
	list := names(n, buffers)
	for i := range list {
		d.nextName++
		d.buffers[d.nextName] = &Buffer{}
		list[i] = d.nextName
	}
}

func (d *Driver) alGenSources(n int32, sources *uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alGenSources", n, sources)
	if n < 0 {
		d.setError(openal.InvalidValue)
		return
	}
	list := names(n, sources)
	for i := range list {
		d.nextName++
		d.sources[d.nextName] = &Source{Gain: 1, Pitch: 1, State: openal.Initial}
		list[i] = d.nextName
	}
}

func (d *Driver) alGetError() openal.Enum {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alGetError")
	err := d.alError
	d.alError = openal.NoError
	return err
}

func (d *Driver) alGetSourcei(source uint32, param openal.Enum, value *int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alGetSourcei", source, param, value)
	s, ok := d.sources[source]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	if value == nil {
		d.setError(openal.InvalidValue)
		return
	}
	switch param {
	case openal.SourceState:
		if s.State == openal.Playing && !s.Looping {
			if s.polls >= d.PlayPolls {
				s.State = openal.Stopped
			}
			s.polls++
		}
		*value = int32(s.State)
	case openal.Buffer:
		*value = int32(s.Buffer)
	case openal.Looping:
		*value = int32(boolean(s.Looping))
	case openal.SourceRelative:
		*value = int32(boolean(s.Relative))
	case openal.BuffersQueued:
		*value = int32(len(s.Queue))
	case openal.BuffersProcessed:
		if s.State == openal.Stopped {
			*value = int32(len(s.Queue))
		} else {
			*value = 0
		}
	default:
		d.setError(openal.InvalidEnum)
	}
}

func boolean(b bool) openal.Boolean {
	if b {
		return openal.True
	}
	return openal.False
}

func (d *Driver) alGetString(param openal.Enum) *byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alGetString", param)
	if d.current == 0 {
		d.setError(openal.InvalidOperation)
		return nil
	}
	s, ok := d.alStrings[param]
	if !ok {
		d.setError(openal.InvalidEnum)
		return nil
	}
	return &s[0]
}

func (d *Driver) alSourcePlay(source uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alSourcePlay", source)
	s, ok := d.sources[source]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	s.State = openal.Playing
	s.polls = 0
}

func (d *Driver) alSourceQueueBuffers(source uint32, nb int32, buffers *uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alSourceQueueBuffers", source, nb, buffers)
	s, ok := d.sources[source]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	list := names(nb, buffers)
	for _, b := range list {
		if _, ok := d.buffers[b]; !ok {
			d.setError(openal.InvalidName)
			return
		}
	}
	s.Queue = append(s.Queue, list...)
}

func (d *Driver) alSourceUnqueueBuffers(source uint32, nb int32, buffers *uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alSourceUnqueueBuffers", source, nb, buffers)
	s, ok := d.sources[source]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	if int(nb) > len(s.Queue) || (s.State != openal.Stopped && nb > 0) {
		d.setError(openal.InvalidValue)
		return
	}
	copy(names(nb, buffers), s.Queue[:nb])
	s.Queue = s.Queue[nb:]
}

func (d *Driver) alListener3f(param openal.Enum, v1, v2, v3 float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alListener3f", param, v1, v2, v3)
	switch param {
	case openal.Position:
		d.listener.Position = [3]float32{v1, v2, v3}
	case openal.Velocity:
		d.listener.Velocity = [3]float32{v1, v2, v3}
	default:
		d.setError(openal.InvalidEnum)
	}
}

func (d *Driver) alListenerf(param openal.Enum, value float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alListenerf", param, value)
	switch param {
	case openal.Gain:
		if value < 0 {
			d.setError(openal.InvalidValue)
			return
		}
		d.listener.Gain = value
	default:
		d.setError(openal.InvalidEnum)
	}
}

func (d *Driver) alListenerfv(param openal.Enum, values *float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alListenerfv", param, values)
	if values == nil {
		d.setError(openal.InvalidValue)
		return
	}
	switch param {
	case openal.Position:
		d.listener.Position = [3]float32(unsafe.Slice(values, 3))
	case openal.Velocity:
		d.listener.Velocity = [3]float32(unsafe.Slice(values, 3))
	case openal.Orientation:
		d.listener.Orientation = [6]float32(unsafe.Slice(values, 6))
	case openal.Gain:
		d.listener.Gain = *values
	default:
		d.setError(openal.InvalidEnum)
	}
}

func (d *Driver) alSource3f(source uint32, param openal.Enum, v1, v2, v3 float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alSource3f", source, param, v1, v2, v3)
	s, ok := d.sources[source]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	switch param {
	case openal.Position:
		s.Position = [3]float32{v1, v2, v3}
	case openal.Velocity:
		s.Velocity = [3]float32{v1, v2, v3}
	default:
		d.setError(openal.InvalidEnum)
	}
}

func (d *Driver) alSourcef(source uint32, param openal.Enum, value float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alSourcef", source, param, value)
	s, ok := d.sources[source]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	switch param {
	case openal.Gain:
		if value < 0 {
			d.setError(openal.InvalidValue)
			return
		}
		s.Gain = value
	case openal.Pitch:
		if value <= 0 {
			d.setError(openal.InvalidValue)
			return
		}
		s.Pitch = value
	default:
		d.setError(openal.InvalidEnum)
	}
}

func (d *Driver) alSourcei(source uint32, param openal.Enum, value int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alSourcei", source, param, value)
	s, ok := d.sources[source]
	if !ok {
		d.setError(openal.InvalidName)
		return
	}
	switch param {
	case openal.Buffer:
		if value != 0 {
			if _, ok := d.buffers[uint32(value)]; !ok {
				d.setError(openal.InvalidValue)
				return
			}
		}
		s.Buffer = uint32(value)
		s.Queue = nil
		if value != 0 {
			s.Queue = []uint32{uint32(value)}
		}
	case openal.Looping:
		s.Looping = value != 0
	case openal.SourceRelative:
		s.Relative = value != 0
	default:
		d.setError(openal.InvalidEnum)
	}
}

func (d *Driver) alcOpenDevice(name *byte) openal.Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alcOpenDevice", openal.GoString(name))
	n := DefaultDevice
	if name != nil {
		n = openal.GoString(name)
		if !slices.Contains(Devices, n) {
			return 0
		}
	}
	d.nextDevice++
	d.devices[d.nextDevice] = n
	d.nameBytes[d.nextDevice] = cstr(n)
	return d.nextDevice
}

func (d *Driver) alcCreateContext(dev openal.Device, attrs *int32) openal.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alcCreateContext", dev, attrs)
	if _, ok := d.devices[dev]; !ok {
		d.setDeviceError(dev, openal.ALCInvalidDevice)
		return 0
	}
	d.nextContext++
	d.contexts[d.nextContext] = dev
	return d.nextContext
}

func (d *Driver) alcMakeContextCurrent(ctx openal.Context) openal.Boolean {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alcMakeContextCurrent", ctx)
	if ctx == 0 {
		d.current = 0
		return openal.True
	}
	if _, ok := d.contexts[ctx]; !ok {
		d.setDeviceError(0, openal.ALCInvalidContext)
		return openal.False
	}
	d.current = ctx
	return openal.True
}

func (d *Driver) alcDestroyContext(ctx openal.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alcDestroyContext", ctx)
	dev, ok := d.contexts[ctx]
	if !ok {
		d.setDeviceError(0, openal.ALCInvalidContext)
		return
	}
	if ctx == d.current {
		d.setDeviceError(dev, openal.ALCInvalidContext)
		return
	}
	delete(d.contexts, ctx)
}

func (d *Driver) alcCloseDevice(dev openal.Device) openal.Boolean {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alcCloseDevice", dev)
	if _, ok := d.devices[dev]; !ok {
		d.setDeviceError(dev, openal.ALCInvalidDevice)
		return openal.False
	}
	for _, owner := range d.contexts {
		if owner == dev {
			return openal.False
		}
	}
	delete(d.devices, dev)
	delete(d.nameBytes, dev)
	delete(d.alcError, dev)
	return openal.True
}

func (d *Driver) alcGetError(dev openal.Device) openal.Enum {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alcGetError", dev)
	err := d.alcError[dev]
	delete(d.alcError, dev)
	return err
}

func (d *Driver) alcGetString(dev openal.Device, param openal.Enum) *byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("alcGetString", dev, param)
	if dev != 0 {
		if _, ok := d.devices[dev]; !ok {
			d.setDeviceError(dev, openal.ALCInvalidDevice)
			return nil
		}
		switch param {
		case openal.ALCDeviceSpecifier, openal.ALCAllDevicesSpecifier:
			return &d.nameBytes[dev][0]
		}
	}
	s, ok := d.alcStrings[param]
	if !ok {
		d.setDeviceError(dev, openal.ALCInvalidEnum)
		return nil
	}
	return &s[0]
}
