// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openal

// Enum is an OpenAL ALenum or ALCenum value.
type Enum int32

// Boolean is an OpenAL ALboolean or ALCboolean value.
type Boolean uint8

const (
	False Boolean = 0
	True  Boolean = 1
)

// Device is an opaque ALCdevice pointer. The zero Device is NULL.
type Device uintptr

// Context is an opaque ALCcontext pointer. The zero Context is NULL.
type Context uintptr

// AL error codes.
const (
	NoError          Enum = 0
	InvalidName      Enum = 0xa001
	InvalidEnum      Enum = 0xa002
	InvalidValue     Enum = 0xa003
	InvalidOperation Enum = 0xa004
	OutOfMemory      Enum = 0xa005
)

// AL context strings.
const (
	Vendor     Enum = 0xb001
	Version    Enum = 0xb002
	Renderer   Enum = 0xb003
	Extensions Enum = 0xb004
)

// Source and listener parameters.
const (
	SourceRelative    Enum = 0x202
	ConeInnerAngle    Enum = 0x1001
	ConeOuterAngle    Enum = 0x1002
	Pitch             Enum = 0x1003
	Position          Enum = 0x1004
	Direction         Enum = 0x1005
	Velocity          Enum = 0x1006
	Looping           Enum = 0x1007
	Buffer            Enum = 0x1009
	Gain              Enum = 0x100a
	MinGain           Enum = 0x100d
	MaxGain           Enum = 0x100e
	Orientation       Enum = 0x100f
	SourceState       Enum = 0x1010
	BuffersQueued     Enum = 0x1015
	BuffersProcessed  Enum = 0x1016
	ReferenceDistance Enum = 0x1020
	RolloffFactor     Enum = 0x1021
	ConeOuterGain     Enum = 0x1022
	MaxDistance       Enum = 0x1023
	SourceType        Enum = 0x1027
)

// Source states.
const (
	Initial Enum = 0x1011
	Playing Enum = 0x1012
	Paused  Enum = 0x1013
	Stopped Enum = 0x1014
)

// Buffer formats.
const (
	FormatMono8    Enum = 0x1100
	FormatMono16   Enum = 0x1101
	FormatStereo8  Enum = 0x1102
	FormatStereo16 Enum = 0x1103
)

// ALC error codes.
const (
	ALCNoError        Enum = 0
	ALCInvalidDevice  Enum = 0xa001
	ALCInvalidContext Enum = 0xa002
	ALCInvalidEnum    Enum = 0xa003
	ALCInvalidValue   Enum = 0xa004
	ALCOutOfMemory    Enum = 0xa005
)

// ALC context attributes and strings.
const (
	ALCFrequency                  Enum = 0x1007
	ALCRefresh                    Enum = 0x1008
	ALCSync                       Enum = 0x1009
	ALCDefaultDeviceSpecifier     Enum = 0x1004
	ALCDeviceSpecifier            Enum = 0x1005
	ALCExtensions                 Enum = 0x1006
	ALCDefaultAllDevicesSpecifier Enum = 0x1012
	ALCAllDevicesSpecifier        Enum = 0x1013
)
