// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides configuration loading, validation and live
// reloading for OpenAL probe sessions.
package config

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is a probe session configuration.
type Config struct {
	LogLevel  *slog.Level `json:"log_level,omitempty" toml:"log_level"`
	AddSource *bool       `json:"log_add_source,omitempty" toml:"log_add_source"`
	// Device is the device specifier to open. If Device is nil
	// the default device is used.
	Device   *string   `json:"device,omitempty" toml:"device"`
	Listener *Listener `json:"listener,omitempty" toml:"listener"`
	Tone     *Tone     `json:"tone,omitempty" toml:"tone"`
}

// Listener is the listener configuration.
type Listener struct {
	Gain *float64 `json:"gain,omitempty" toml:"gain"`
	// Position is the listener's x, y, z position.
	Position []float64 `json:"position,omitempty" toml:"position"`
	// Orientation is the listener's "at" and "up" vectors.
	Orientation []float64 `json:"orientation,omitempty" toml:"orientation"`
}

// Tone is the configuration of a generated test tone. Zero values
// are replaced with defaults by [Tone.WithDefaults].
type Tone struct {
	Frequency  float64       `json:"frequency,omitempty" toml:"frequency"`
	SampleRate int           `json:"sample_rate,omitempty" toml:"sample_rate"`
	Duration   time.Duration `json:"duration,omitempty" toml:"duration"`
	Gain       *float64      `json:"gain,omitempty" toml:"gain"`
	// Position is the source's x, y, z position.
	Position []float64 `json:"position,omitempty" toml:"position"`
	Looping  bool      `json:"looping,omitempty" toml:"looping"`
}

const (
	DefaultFrequency  = 440
	DefaultSampleRate = 44100
	DefaultDuration   = 500 * time.Millisecond
	DefaultGain       = 1
)

// WithDefaults returns a copy of t with zero-valued fields set to their
// defaults. A nil Tone is treated as the zero Tone.
func (t *Tone) WithDefaults() Tone {
	var c Tone
	if t != nil {
		c = *t
	}
	if c.Frequency == 0 {
		c.Frequency = DefaultFrequency
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Duration == 0 {
		c.Duration = DefaultDuration
	}
	if c.Gain == nil {
		g := float64(DefaultGain)
		c.Gain = &g
	}
	if c.Position == nil {
		c.Position = []float64{0, 0, 0}
	}
	return c
}

// Schema is the schema for a valid configuration.
const Schema = `
{
	log_level?:      _#log_level
	log_add_source?: bool
	device?:         string & !=""
	listener?:       _#listener
	tone?:           _#tone
}

_#listener: {
	gain?:        _#gain
	position?:    _#vec3
	orientation?: [number, number, number, number, number, number]
}

_#tone: {
	frequency?:   number & >0 & <=20000
	sample_rate?: 8000 | 11025 | 16000 | 22050 | 32000 | 44100 | 48000
	duration?:    int & >0 & <=60000000000 // Nanoseconds.
	gain?:        _#gain
	position?:    _#vec3
	looping?:     bool
}

_#gain: number & >=0 & <=1
_#vec3: [number, number, number]

_#log_level: =~"(?i)^(?:debug|info|warn|error)$"
`

// Load reads, decodes and validates the TOML configuration file at path.
// If the configuration is invalid, the decoded configuration is returned
// with the validation error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Unmarshal(b)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Unmarshal decodes and validates a TOML configuration.
func Unmarshal(b []byte) (*Config, error) {
	var cfg Config
	err := toml.Unmarshal(b, &cfg)
	if err != nil {
		return nil, err
	}
	_, err = Validate(Schema, &cfg)
	if err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

// Sum is a comparable SHA-1 sum.
type Sum [sha1.Size]byte

func (s Sum) String() string {
	return hex.EncodeToString(s[:])
}

// sum returns the semantic hash of cfg. Configurations that differ only in
// formatting, comments or field order have the same sum.
func sum(cfg *Config) (Sum, error) {
	h := sha1.New()
	err := json.NewEncoder(h).Encode(cfg)
	if err != nil {
		return Sum{}, err
	}
	return Sum(h.Sum(nil)), nil
}
