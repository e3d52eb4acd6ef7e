package emu

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chipper/hw"
	"chipper/hw/hwdefs"
)

func TestParseKeyPress(t *testing.T) {
	tests := []struct {
		s       string
		want    KeyPress
		wantErr bool
	}{
		{s: "0:0", want: KeyPress{Frame: 0, Frames: 1, Key: 0}},
		{s: "60:A", want: KeyPress{Frame: 60, Frames: 1, Key: 0xA}},
		{s: "60:f:5", want: KeyPress{Frame: 60, Frames: 5, Key: 0xF}},
		{s: "60", wantErr: true},
		{s: "x:1", wantErr: true},
		{s: "-1:1", wantErr: true},
		{s: "10:G", wantErr: true},
		{s: "10:10", wantErr: true},
		{s: "10:1:0", wantErr: true},
		{s: "10:1:2:3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			got, err := ParseKeyPress(tt.s)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKeyPress(%q) = %v, want an error", tt.s, got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseKeyPress(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestScriptedKeys(t *testing.T) {
	sk := &scriptedKeys{presses: []KeyPress{
		{Frame: 1, Frames: 2, Key: 3},
		{Frame: 2, Frames: 1, Key: 0xC},
	}}

	var got [][]hwdefs.Key
	for range 5 {
		var down []hwdefs.Key
		for k, pressed := range sk.Keys() {
			if pressed {
				down = append(down, hwdefs.Key(k))
			}
		}
		got = append(got, down)
	}

	want := [][]hwdefs.Key{nil, {3}, {3, 0xC}, nil, nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keys per frame mismatch (-want +got):\n%s", diff)
	}
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	roms := []string{
		// Draw glyph 0 at (0, 0) then loop.
		writeROM(t, dir, "glyph.ch8", 0xA000, 0xD005, 0x1204),
		// Return from nowhere.
		writeROM(t, dir, "underflow.ch8", 0x6001, 0x00EE),
		// Wait for a key, draw its glyph at (8, 8) then loop.
		writeROM(t, dir, "keywait.ch8", 0xF00A, 0xF029, 0x6108, 0xD115, 0x1208),
	}
	pngdir := t.TempDir()

	reports, err := RunHeadless(context.Background(), roms, HeadlessOptions{
		Frames:   10,
		Presses:  []KeyPress{{Frame: 3, Frames: 1, Key: 1}},
		PNGDir:   pngdir,
		PNGScale: 2,
		Jobs:     2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != len(roms) {
		t.Fatalf("got %d reports, want %d", len(reports), len(roms))
	}
	for i, rep := range reports {
		if rep.ROM != roms[i] {
			t.Errorf("report %d is for %s, want %s", i, rep.ROM, roms[i])
		}
	}

	glyph := reports[0]
	if glyph.Halted || glyph.Err != "" || glyph.Frames != 10 {
		t.Errorf("glyph: halted=%t err=%q frames=%d", glyph.Halted, glyph.Err, glyph.Frames)
	}
	if glyph.Lit != 14 {
		t.Errorf("glyph: %d lit pixels, want 14", glyph.Lit)
	}
	if want := "####" + strings.Repeat(".", 60); glyph.Screen[0] != want {
		t.Errorf("glyph: row 0 = %q, want %q", glyph.Screen[0], want)
	}

	uflow := reports[1]
	if !uflow.Halted || !strings.Contains(uflow.Err, hw.ErrStackUnderflow.Error()) {
		t.Errorf("underflow: halted=%t err=%q", uflow.Halted, uflow.Err)
	}
	if uflow.Frames != 0 || uflow.V[0] != 1 {
		t.Errorf("underflow: frames=%d V0=%d, want 0 and 1", uflow.Frames, uflow.V[0])
	}

	kwait := reports[2]
	if kwait.V[0] != 1 || kwait.I != 5 || kwait.PC != 0x208 {
		t.Errorf("keywait: V0=%d I=%03X PC=%03X, want 1, 005 and 208", kwait.V[0], kwait.I, kwait.PC)
	}
	if kwait.Lit != 8 {
		t.Errorf("keywait: %d lit pixels, want 8 (glyph 1)", kwait.Lit)
	}

	for _, rep := range reports {
		if rep.PNG == "" {
			t.Fatalf("%s: png not saved", rep.ROM)
		}
		buf, err := os.ReadFile(rep.PNG)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(bytes.NewReader(buf))
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
			t.Errorf("%s: png size %dx%d, want 128x64", rep.PNG, b.Dx(), b.Dy())
		}
	}
	if _, err := os.Stat(filepath.Join(pngdir, "glyph.png")); err != nil {
		t.Error(err)
	}
}

func TestRunHeadlessDeterministicRandom(t *testing.T) {
	dir := t.TempDir()
	// Fill V0..V7 with random bytes then loop.
	rom := writeROM(t, dir, "rnd.ch8",
		0xC0FF, 0xC1FF, 0xC2FF, 0xC3FF, 0xC4FF, 0xC5FF, 0xC6FF, 0xC7FF, 0x1210)

	opts := HeadlessOptions{Frames: 2, Seed: 42}
	r1, err := RunHeadless(context.Background(), []string{rom}, opts)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := RunHeadless(context.Background(), []string{rom}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if r1[0].V != r2[0].V {
		t.Errorf("same seed gave different registers: %v and %v", r1[0].V, r2[0].V)
	}
}

func TestRunHeadlessErrors(t *testing.T) {
	dir := t.TempDir()
	rom := writeROM(t, dir, "loop.ch8", 0x1200)

	_, err := RunHeadless(context.Background(), []string{rom, filepath.Join(dir, "missing.ch8")}, HeadlessOptions{Frames: 1})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("RunHeadless() = %v, want ErrNotExist", err)
	}

	big := filepath.Join(dir, "big.ch8")
	if err := os.WriteFile(big, make([]byte, 0x1000), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := RunHeadless(context.Background(), []string{big}, HeadlessOptions{Frames: 1}); err == nil {
		t.Errorf("RunHeadless() should fail on a too large program")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunHeadless(ctx, []string{rom}, HeadlessOptions{Frames: 1000})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunHeadless() = %v, want context.Canceled", err)
	}
}
