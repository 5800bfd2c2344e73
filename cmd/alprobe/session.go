// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kortschak/openal/internal/slogext"
	"github.com/kortschak/openal/openal"
)

// session is an open device with a current context and the OpenAL objects
// created on it.
type session struct {
	p   *openal.Proxy
	log *slog.Logger

	name string
	dev  openal.Device
	ctx  openal.Context

	src  uint32
	bufs []uint32
}

// openSession opens the named device, or the default device if name is nil,
// and makes a new context on it current.
func openSession(ctx context.Context, p *openal.Proxy, name *string, log *slog.Logger) (*session, error) {
	s := &session{p: p, log: log.With(slog.String("component", "alprobe.session"))}
	err := p.Do(func() error {
		var specifier *byte
		if name != nil {
			specifier = openal.CString(*name)
		}
		dev, err := p.OpenDevice(specifier)
		if err != nil {
			return err
		}
		if dev == 0 {
			if name == nil {
				return errors.New("could not open default device")
			}
			return fmt.Errorf("could not open device %q", *name)
		}
		s.dev = dev

		c, err := p.CreateContext(dev, nil)
		if err != nil {
			return err
		}
		if c == 0 {
			err = s.deviceError("create context")
			p.CloseDevice(dev)
			s.dev = 0
			return err
		}
		s.ctx = c

		ok, err := p.MakeContextCurrent(c)
		if err != nil {
			return err
		}
		if ok != openal.True {
			err = s.deviceError("make context current")
			p.DestroyContext(c)
			p.CloseDevice(dev)
			s.ctx, s.dev = 0, 0
			return err
		}
		nameBytes, err := p.DeviceString(dev, openal.ALCDeviceSpecifier)
		if err != nil {
			return err
		}
		s.name = openal.GoString(nameBytes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.LogAttrs(ctx, slog.LevelInfo, "open session",
		slog.String("device_name", s.name),
		slog.Any("device", slogext.Handle(s.dev)),
		slog.Any("context", slogext.Handle(s.ctx)),
	)
	return s, nil
}

// report is the probe report written to stdout.
type report struct {
	Library       string   `json:"library,omitempty"`
	Vendor        string   `json:"vendor"`
	Version       string   `json:"version"`
	Renderer      string   `json:"renderer"`
	Extensions    []string `json:"extensions,omitempty"`
	Device        string   `json:"device"`
	DefaultDevice string   `json:"default_device,omitempty"`
	Devices       []string `json:"devices,omitempty"`
	ALCExtensions []string `json:"alc_extensions,omitempty"`
}

// report returns the implementation and device details of the session.
func (s *session) report() (report, error) {
	var r report
	err := s.p.Do(func() error {
		r.Library = s.p.LibraryName()
		r.Device = s.name
		for _, q := range []struct {
			param openal.Enum
			dst   *string
		}{
			{param: openal.Vendor, dst: &r.Vendor},
			{param: openal.Version, dst: &r.Version},
			{param: openal.Renderer, dst: &r.Renderer},
		} {
			v, err := s.p.GetString(q.param)
			if err != nil {
				return err
			}
			*q.dst = openal.GoString(v)
		}
		ext, err := s.p.GetString(openal.Extensions)
		if err != nil {
			return err
		}
		r.Extensions = strings.Fields(openal.GoString(ext))
		err = s.check("query strings")
		if err != nil {
			return err
		}

		def, err := s.p.DeviceString(0, openal.ALCDefaultDeviceSpecifier)
		if err != nil {
			return err
		}
		r.DefaultDevice = openal.GoString(def)
		list, err := s.p.DeviceString(0, openal.ALCDeviceSpecifier)
		if err != nil {
			return err
		}
		r.Devices = openal.GoStrings(list)
		alcExt, err := s.p.DeviceString(s.dev, openal.ALCExtensions)
		if err != nil {
			return err
		}
		r.ALCExtensions = strings.Fields(openal.GoString(alcExt))
		return s.deviceError("query device strings")
	})
	return r, err
}

// close releases the session's OpenAL objects, context and device. It is
// safe to call close more than once or on a nil session.
func (s *session) close() error {
	if s == nil {
		return nil
	}
	return s.p.Do(func() error {
		var errs []error
		err := s.releaseTone()
		if err != nil {
			errs = append(errs, err)
		}
		if s.ctx != 0 {
			_, err := s.p.MakeContextCurrent(0)
			if err != nil {
				errs = append(errs, err)
			}
			err = s.p.DestroyContext(s.ctx)
			if err != nil {
				errs = append(errs, err)
			}
			s.ctx = 0
		}
		if s.dev != 0 {
			ok, err := s.p.CloseDevice(s.dev)
			if err != nil {
				errs = append(errs, err)
			} else if ok != openal.True {
				errs = append(errs, fmt.Errorf("could not close device %q", s.name))
			}
			s.dev = 0
		}
		if len(errs) == 0 {
			s.log.LogAttrs(context.Background(), slog.LevelInfo, "close session", slog.String("device_name", s.name))
		}
		return errors.Join(errs...)
	})
}

// alError is an AL or ALC error state.
type alError struct {
	op   string
	code openal.Enum
	alc  bool
}

func (e *alError) Error() string {
	return fmt.Sprintf("%s: %s", e.op, errorName(e.code, e.alc))
}

func errorName(code openal.Enum, alc bool) string {
	var names map[openal.Enum]string
	if alc {
		names = alcErrorNames
	} else {
		names = alErrorNames
	}
	if n, ok := names[code]; ok {
		return n
	}
	return fmt.Sprintf("unknown error %#x", int32(code))
}

var alErrorNames = map[openal.Enum]string{
	openal.InvalidName:      "AL_INVALID_NAME",
	openal.InvalidEnum:      "AL_INVALID_ENUM",
	openal.InvalidValue:     "AL_INVALID_VALUE",
	openal.InvalidOperation: "AL_INVALID_OPERATION",
	openal.OutOfMemory:      "AL_OUT_OF_MEMORY",
}

var alcErrorNames = map[openal.Enum]string{
	openal.ALCInvalidDevice:  "ALC_INVALID_DEVICE",
	openal.ALCInvalidContext: "ALC_INVALID_CONTEXT",
	openal.ALCInvalidEnum:    "ALC_INVALID_ENUM",
	openal.ALCInvalidValue:   "ALC_INVALID_VALUE",
	openal.ALCOutOfMemory:    "ALC_OUT_OF_MEMORY",
}

// check returns an *alError if the AL error state is set.
func (s *session) check(op string) error {
	code, err := s.p.GetError()
	if err != nil {
		return err
	}
	if code != openal.NoError {
		s.logError(op, code, false)
		return &alError{op: op, code: code}
	}
	return nil
}

// deviceError returns an *alError if the ALC error state of the session's
// device is set.
func (s *session) deviceError(op string) error {
	code, err := s.p.DeviceError(s.dev)
	if err != nil {
		return err
	}
	if code != openal.ALCNoError {
		s.logError(op, code, true)
		return &alError{op: op, code: code, alc: true}
	}
	return nil
}

func (s *session) logError(op string, code openal.Enum, alc bool) {
	s.log.LogAttrs(context.Background(), slog.LevelDebug, "error state",
		slog.String("op", op),
		slog.Any("code", slogext.Enum(code)),
		slog.String("name", errorName(code, alc)),
	)
}
