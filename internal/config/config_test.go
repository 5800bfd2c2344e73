// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var (
	verbose = flag.Bool("verbose_log", false, "print full logging")
	lines   = flag.Bool("show_lines", false, "log source code position")
)

func ptr[T any](v T) *T { return &v }

var unmarshalTests = []struct {
	name    string
	data    string
	want    *Config
	wantErr string
}{
	{
		name: "empty",
		data: "",
		want: &Config{},
	},
	{
		name: "full",
		data: `
log_level = "debug"
log_add_source = true
device = "Simulated Headset"

[listener]
gain = 0.5
position = [0.0, 1.0, 0.0]
orientation = [0.0, 0.0, -1.0, 0.0, 1.0, 0.0]

[tone]
frequency = 880.0
sample_rate = 22050
duration = "250ms"
gain = 0.25
position = [1.0, 0.0, 0.0]
looping = true
`,
		want: &Config{
			LogLevel:  ptr(slog.LevelDebug),
			AddSource: ptr(true),
			Device:    ptr("Simulated Headset"),
			Listener: &Listener{
				Gain:        ptr(0.5),
				Position:    []float64{0, 1, 0},
				Orientation: []float64{0, 0, -1, 0, 1, 0},
			},
			Tone: &Tone{
				Frequency:  880,
				SampleRate: 22050,
				Duration:   250 * time.Millisecond,
				Gain:       ptr(0.25),
				Position:   []float64{1, 0, 0},
				Looping:    true,
			},
		},
	},
	{
		name:    "bad_log_level",
		data:    `log_level = "verbose"`,
		wantErr: "unknown name",
	},
	{
		name: "invalid_frequency",
		data: `
[tone]
frequency = -1.0
`,
		want: &Config{
			Tone: &Tone{Frequency: -1},
		},
		wantErr: "tone.frequency",
	},
}

func TestUnmarshal(t *testing.T) {
	for _, test := range unmarshalTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(test.data))
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Fatalf("expected error containing %q", test.wantErr)
				}
				if !strings.Contains(err.Error(), test.wantErr) {
					t.Errorf("unexpected error: got:%v want:%s", err, test.wantErr)
				}
			}
			if !cmp.Equal(test.want, got) {
				t.Errorf("unexpected config:\n--- want:\n+++ got:\n%s", cmp.Diff(test.want, got))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	_, err := Load(path)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("unexpected error for missing file: got:%v want:%v", err, fs.ErrNotExist)
	}

	err = os.WriteFile(path, []byte("device = \"\"\n"), 0o644)
	if err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}
	_, err = Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("expected error naming %s: %v", path, err)
	}

	err = os.WriteFile(path, []byte("device = \"Simulated Device\"\n"), 0o644)
	if err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	want := &Config{Device: ptr("Simulated Device")}
	if !cmp.Equal(want, got) {
		t.Errorf("unexpected config:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}
}

func TestToneWithDefaults(t *testing.T) {
	var nilTone *Tone
	got := nilTone.WithDefaults()
	want := Tone{
		Frequency:  DefaultFrequency,
		SampleRate: DefaultSampleRate,
		Duration:   DefaultDuration,
		Gain:       ptr(float64(DefaultGain)),
		Position:   []float64{0, 0, 0},
	}
	if !cmp.Equal(want, got) {
		t.Errorf("unexpected defaults:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}

	tone := &Tone{Frequency: 220, Gain: ptr(0.0), Looping: true}
	got = tone.WithDefaults()
	want = Tone{
		Frequency:  220,
		SampleRate: DefaultSampleRate,
		Duration:   DefaultDuration,
		Gain:       ptr(0.0),
		Position:   []float64{0, 0, 0},
		Looping:    true,
	}
	if !cmp.Equal(want, got) {
		t.Errorf("unexpected defaults:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}
	if tone.SampleRate != 0 {
		t.Error("WithDefaults mutated receiver")
	}
}

func TestSemanticSum(t *testing.T) {
	a, err := Unmarshal([]byte(`
device = "Simulated Device"
[tone]
frequency = 440.0
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := Unmarshal([]byte(`
# Reformatted.
device   =   "Simulated Device"

[tone]
  frequency = 440.0
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sa, err := sum(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc, err := sum(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sa != sc {
		t.Errorf("unexpected sum difference for semantically identical configs: %s != %s", sa, sc)
	}
}
