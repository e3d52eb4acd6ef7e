package emu

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chipper/hw"
)

func TestRunOneFrameBeeper(t *testing.T) {
	// Sound timer set to 5, then loop forever.
	e, _, beeper := newTestEmulator(t, nil, 0x6005, 0xF018, 0x1204)

	for range 6 {
		if err := e.RunOneFrame(); err != nil {
			t.Fatal(err)
		}
	}

	want := []bool{true, true, true, true, false, false}
	if diff := cmp.Diff(want, beeper.frames); diff != "" {
		t.Errorf("beeper state per frame mismatch (-want +got):\n%s", diff)
	}
	if e.Frames() != 6 {
		t.Errorf("Frames() = %d, want 6", e.Frames())
	}
}

func TestRunOneFrameTimersCountOncePerFrame(t *testing.T) {
	// Delay timer set to 60, then loop forever.
	e, _, _ := newTestEmulator(t, nil, 0x603C, 0xF015, 0x1204)

	for range 30 {
		if err := e.RunOneFrame(); err != nil {
			t.Fatal(err)
		}
	}
	if got := e.CPU.DelayTimer(); got != 30 {
		t.Errorf("DT = %d after 30 frames, want 30", got)
	}
	if want := int64(30 * e.cfg.TicksPerFrame); e.CPU.Cycles != want {
		t.Errorf("Cycles = %d, want %d", e.CPU.Cycles, want)
	}
}

func TestRunOneFrameVideo(t *testing.T) {
	// Draw glyph 0 at (0, 0).
	e, out, _ := newTestEmulator(t, nil, 0xA000, 0xD005, 0x1204)
	if err := e.RunOneFrame(); err != nil {
		t.Fatal(err)
	}

	img := out.Screenshot()
	fg, bg := e.palette.Foreground.RGBA(), e.palette.Background.RGBA()
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, fg},
		{3, 0, fg},
		{1, 1, bg},
		{0, 4, fg},
		{4, 0, bg},
		{63, 31, bg},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRunOneFrameKeys(t *testing.T) {
	keys := &scriptedKeys{presses: []KeyPress{{Frame: 2, Frames: 1, Key: 7}}}
	e, _, _ := newTestEmulator(t, keys, 0xF00A, 0x1202)

	for range 2 {
		if err := e.RunOneFrame(); err != nil {
			t.Fatal(err)
		}
	}
	if e.CPU.PC() != 0x200 || e.CPU.V(0) != 0 {
		t.Fatalf("key wait should still be blocking, pc=%03X V0=%d", e.CPU.PC(), e.CPU.V(0))
	}

	if err := e.RunOneFrame(); err != nil {
		t.Fatal(err)
	}
	if e.CPU.V(0) != 7 {
		t.Errorf("V0 = %d, want 7", e.CPU.V(0))
	}
	if e.CPU.Keys()[7] != true {
		t.Errorf("key 7 should be down")
	}
}

func TestRunOneFrameFault(t *testing.T) {
	e, _, beeper := newTestEmulator(t, nil, 0x00EE)

	err := e.RunOneFrame()
	if !errors.Is(err, hw.ErrStackUnderflow) {
		t.Fatalf("RunOneFrame() = %v, want ErrStackUnderflow", err)
	}
	if !e.shouldStop() {
		t.Errorf("emulator should stop after a cpu fault")
	}
	if diff := cmp.Diff([]bool{false}, beeper.frames); diff != "" {
		t.Errorf("beeper should be silenced (-want +got):\n%s", diff)
	}
}

func TestReset(t *testing.T) {
	e, _, _ := newTestEmulator(t, nil, 0x6A42, 0x1202)
	if err := e.RunOneFrame(); err != nil {
		t.Fatal(err)
	}
	if e.CPU.V(0xA) != 0x42 {
		t.Fatalf("VA = %02X, want 42", e.CPU.V(0xA))
	}

	e.Reset()
	e.handleReset()

	if e.CPU.V(0xA) != 0 || e.CPU.PC() != 0x200 {
		t.Errorf("cpu not reset: VA=%02X pc=%03X", e.CPU.V(0xA), e.CPU.PC())
	}
	if got := e.CPU.RAM.Read16(0x200); got != 0x6A42 {
		t.Errorf("program not reloaded, $200 = %04X", got)
	}

	// Only once.
	e.CPU.SetKey(1, true)
	e.handleReset()
	if !e.CPU.Keys()[1] {
		t.Errorf("reset performed twice")
	}
}

func TestPauseStop(t *testing.T) {
	e, _, _ := newTestEmulator(t, nil, 0x1200)

	e.TogglePause()
	if !e.isPaused() {
		t.Errorf("should be paused")
	}
	e.SetPause(false)
	if e.isPaused() {
		t.Errorf("should not be paused")
	}

	if e.shouldStop() {
		t.Fatalf("should not stop yet")
	}
	e.Stop()
	if !e.shouldStop() {
		t.Errorf("should stop")
	}
}

func TestRunExitsOnStop(t *testing.T) {
	e, out, beeper := newTestEmulator(t, nil, 0x1200)
	e.Stop()

	if err := e.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if out.Frames != 1 {
		t.Errorf("ran %d frames, want 1", out.Frames)
	}
	if !beeper.closed {
		t.Errorf("beeper not closed")
	}
}

func TestRunReturnsCPUFault(t *testing.T) {
	e, _, _ := newTestEmulator(t, nil, 0x2200)

	if err := e.Run(); !errors.Is(err, hw.ErrStackOverflow) {
		t.Fatalf("Run() = %v, want ErrStackOverflow", err)
	}
}
