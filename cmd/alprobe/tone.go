// Copyright ©2024 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"time"
	"unsafe"

	"github.com/kortschak/openal/internal/config"
	"github.com/kortschak/openal/openal"
)

// sine returns mono 16-bit little-endian PCM samples of a full scale sine
// wave. The final sample is zero to avoid a click at the end of playback.
// Gain is applied by the source rather than in the samples.
func sine(freq float64, rate int, dur time.Duration) []byte {
	n := int(math.Round(dur.Seconds() * float64(rate)))
	if n < 1 {
		n = 1
	}
	buf := make([]byte, 2*n)
	const amp = math.MaxInt16
	for i := range n {
		v := amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		if i == n-1 {
			v = 0
		}
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(int16(math.Round(v))))
	}
	return buf
}

// pollInterval is the interval between source state queries while
// waiting for playback to complete.
var pollInterval = 10 * time.Millisecond

// playTone plays the tone described by t once and waits for playback to
// complete or ctx to be cancelled.
func (s *session) playTone(ctx context.Context, t config.Tone, l *config.Listener) error {
	t.Looping = false
	err := s.startTone(ctx, t, l)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(2*t.Duration + time.Second)
	for {
		var state int32
		err := s.p.GetSourcei(s.src, openal.SourceState, &state)
		if err != nil {
			return err
		}
		if openal.Enum(state) != openal.Playing {
			break
		}
		if time.Now().After(deadline) {
			return errors.New("tone playback did not complete")
		}
		select {
		case <-ctx.Done():
			return s.releaseTone()
		case <-time.After(pollInterval):
		}
	}
	s.log.LogAttrs(ctx, slog.LevelInfo, "played tone", slog.Float64("frequency", t.Frequency), slog.Duration("duration", t.Duration))
	return s.releaseTone()
}

// startTone generates the tone described by t and starts playing it from a
// new source. A looping tone is attached directly to the source, otherwise
// it is queued.
func (s *session) startTone(ctx context.Context, t config.Tone, l *config.Listener) error {
	err := s.p.Do(func() error {
		err := s.releaseTone()
		if err != nil {
			return err
		}
		err = s.setListener(l)
		if err != nil {
			return err
		}

		var src, buf uint32
		err = s.p.GenSources(1, &src)
		if err != nil {
			return err
		}
		err = s.check("generate source")
		if err != nil {
			return err
		}
		s.src = src
		err = s.p.GenBuffers(1, &buf)
		if err != nil {
			return err
		}
		err = s.check("generate buffer")
		if err != nil {
			return err
		}
		s.bufs = append(s.bufs, buf)

		data := sine(t.Frequency, t.SampleRate, t.Duration)
		err = s.p.BufferData(buf, openal.FormatMono16, unsafe.Pointer(&data[0]), int32(len(data)), int32(t.SampleRate))
		if err != nil {
			return err
		}
		err = s.check("buffer data")
		if err != nil {
			return err
		}

		if t.Looping {
			err = s.p.Sourcei(src, openal.Buffer, int32(buf))
			if err != nil {
				return err
			}
			err = s.p.Sourcei(src, openal.Looping, int32(openal.True))
		} else {
			err = s.p.SourceQueueBuffers(src, 1, &buf)
		}
		if err != nil {
			return err
		}
		err = s.check("attach buffer")
		if err != nil {
			return err
		}

		err = s.setSource(t)
		if err != nil {
			return err
		}
		err = s.p.SourcePlay(src)
		if err != nil {
			return err
		}
		return s.check("play source")
	})
	if err != nil {
		return err
	}
	s.log.LogAttrs(ctx, slog.LevelDebug, "start tone",
		slog.Uint64("source", uint64(s.src)),
		slog.Float64("frequency", t.Frequency),
		slog.Int("sample_rate", t.SampleRate),
		slog.Bool("looping", t.Looping),
	)
	return nil
}

// setSource applies the gain and position of t to the session's source.
func (s *session) setSource(t config.Tone) error {
	return s.p.Do(func() error {
		err := s.p.Sourcef(s.src, openal.Gain, float32(*t.Gain))
		if err != nil {
			return err
		}
		if len(t.Position) == 3 {
			err = s.p.Source3f(s.src, openal.Position, float32(t.Position[0]), float32(t.Position[1]), float32(t.Position[2]))
			if err != nil {
				return err
			}
		}
		return s.check("set source")
	})
}

// setListener applies l to the listener. A nil l leaves the listener
// unchanged.
func (s *session) setListener(l *config.Listener) error {
	if l == nil {
		return nil
	}
	return s.p.Do(func() error {
		if l.Gain != nil {
			err := s.p.Listenerf(openal.Gain, float32(*l.Gain))
			if err != nil {
				return err
			}
		}
		if len(l.Position) == 3 {
			err := s.p.Listener3f(openal.Position, float32(l.Position[0]), float32(l.Position[1]), float32(l.Position[2]))
			if err != nil {
				return err
			}
		}
		if len(l.Orientation) == 6 {
			var o [6]float32
			for i, v := range l.Orientation {
				o[i] = float32(v)
			}
			err := s.p.Listenerfv(openal.Orientation, &o[0])
			if err != nil {
				return err
			}
		}
		return s.check("set listener")
	})
}

// releaseTone deletes the session's source after unqueueing any processed
// buffers, and then deletes the buffers.
func (s *session) releaseTone() error {
	return s.p.Do(func() error {
		if s.src != 0 {
			var processed int32
			err := s.p.GetSourcei(s.src, openal.BuffersProcessed, &processed)
			if err != nil {
				return err
			}
			if processed > 0 {
				done := make([]uint32, processed)
				err = s.p.SourceUnqueueBuffers(s.src, processed, &done[0])
				if err != nil {
					return err
				}
			}
			err = s.p.DeleteSources(1, &s.src)
			if err != nil {
				return err
			}
			s.src = 0
		}
		if len(s.bufs) != 0 {
			err := s.p.DeleteBuffers(int32(len(s.bufs)), &s.bufs[0])
			if err != nil {
				return err
			}
			s.bufs = s.bufs[:0]
		}
		return s.check("release tone")
	})
}
