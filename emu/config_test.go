package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veandco/go-sdl2/sdl"

	"chipper/hw/input"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)

	want := DefaultConfig()
	want.Video.Policy = PolicyGhost
	want.Video.Foreground = Color{R: 0x33, G: 0xFF, B: 0x66}
	want.Emulation.TicksPerFrame = 15
	want.Input.Keys[0] = input.Code{Scancode: sdl.SCANCODE_SPACE}

	if err := saveConfig(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	const text = `
[video]
policy = "ghost"
background = "#202020"

[emulation]
ticks_per_frame = 20
`
	path := filepath.Join(t.TempDir(), cfgFilename)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Video.Policy = PolicyGhost
	want.Video.Background = Color{R: 0x20, G: 0x20, B: 0x20}
	want.Emulation.TicksPerFrame = 20
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name, text string
	}{
		{"bad policy", "[video]\npolicy = \"crt\"\n"},
		{"bad color", "[video]\nforeground = \"white\"\n"},
		{"bad key", "[input]\nkeys = [\"joy 1\"]\n"},
		{"bad toml", "[video\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), cfgFilename)
			if err := os.WriteFile(path, []byte(tt.text), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("LoadConfig should fail")
			}
		})
	}
}

func TestConfigCheck(t *testing.T) {
	var cfg Config
	cfg.Video.Scale = 1000
	cfg.Audio.Volume = 2
	cfg.Emulation.TicksPerFrame = -1
	cfg.Check()

	if cfg.Video.Scale != defaultScale {
		t.Errorf("Scale = %d, want %d", cfg.Video.Scale, defaultScale)
	}
	if cfg.Audio.Volume != defaultVolume {
		t.Errorf("Volume = %.2f, want %.2f", cfg.Audio.Volume, defaultVolume)
	}
	if cfg.Audio.Tone != defaultTone {
		t.Errorf("Tone = %d, want %d", cfg.Audio.Tone, defaultTone)
	}
	if cfg.Emulation.TicksPerFrame != defaultTicksPerFrame {
		t.Errorf("TicksPerFrame = %d, want %d", cfg.Emulation.TicksPerFrame, defaultTicksPerFrame)
	}
	if diff := cmp.Diff(input.DefaultConfig(), cfg.Input); diff != "" {
		t.Errorf("keymap mismatch (-want +got):\n%s", diff)
	}
}
