package emu

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"chipper/emu/log"
	"chipper/hw"
	"chipper/hw/hwdefs"
	"chipper/hw/input"
)

// KeyProvider provides the keypad state, once per frame.
type KeyProvider interface {
	Keys() [hwdefs.NumKeys]bool
}

type Emulator struct {
	CPU *hw.CPU
	rom []byte

	out     Output
	keys    KeyProvider
	beeper  Beeper
	palette Palette
	cfg     EmulationConfig

	// These are accessed concurrently by the emulator loop and the UI.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool

	frames int64
	err    error
}

// Launch creates the emulator window, sets up the audio and keyboard, and
// loads the program. It doesn't start the emulation loop, call Run() for
// that.
func Launch(rom []byte, cfg Config) (*Emulator, error) {
	cfg.Check()

	out, err := NewWindowOutput(WindowConfig{
		Title:        "chipper",
		Scale:        cfg.Video.Scale,
		Monitor:      cfg.Video.Monitor,
		DisableVSync: cfg.Video.DisableVSync,
	})
	if err != nil {
		return nil, err
	}

	var beeper Beeper = nopBeeper{}
	if cfg.Audio.DisableAudio {
		log.ModEmu.WarnZ("Audio disabled").End()
	} else {
		ab, err := NewAudioBeeper(cfg.Audio)
		if err != nil {
			// Not fatal, there may be no audio device.
			log.ModEmu.WarnZ("Audio unavailable").Error("err", err).End()
		} else {
			beeper = ab
			log.ModEmu.InfoZ("Audio enabled").End()
		}
	}

	e, err := newEmulator(rom, out, input.NewProvider(cfg.Input), beeper, cfg)
	if err != nil {
		beeper.Close()
		out.Close()
		return nil, err
	}

	out.SetHotkey(sdl.SCANCODE_ESCAPE, e.Stop)
	out.SetHotkey(sdl.SCANCODE_F5, e.Reset)
	out.SetHotkey(sdl.SCANCODE_PAUSE, e.TogglePause)
	out.SetHotkey(sdl.SCANCODE_F6, e.TogglePause)

	return e, nil
}

func newEmulator(rom []byte, out Output, keys KeyProvider, beeper Beeper, cfg Config) (*Emulator, error) {
	cpu := hw.NewCPU()
	if err := cpu.Load(rom); err != nil {
		return nil, err
	}

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		cpu.SetTraceOutput(cfg.TraceOut)
	}

	return &Emulator{
		CPU:     cpu,
		rom:     rom,
		out:     out,
		keys:    keys,
		beeper:  beeper,
		palette: cfg.Video.Palette(),
		cfg:     cfg.Emulation,
	}, nil
}

// RunOneFrame runs the instructions of one frame and presents the display.
// The timers count down once per frame.
func (e *Emulator) RunOneFrame() error {
	e.CPU.SetKeys(e.keys.Keys())

	for range e.cfg.TicksPerFrame {
		if err := e.CPU.Step(); err != nil {
			e.beeper.SetActive(false)
			return err
		}
	}
	e.CPU.DecrementTimers()

	cur, prev := e.CPU.Display(), e.CPU.PrevDisplay()
	frame := e.out.BeginFrame()
	e.palette.Render(frame, &cur, &prev)
	e.out.EndFrame(frame)

	e.beeper.SetActive(e.CPU.SoundTimer() > 0)
	e.frames++
	return nil
}

func (e *Emulator) loop() {
	ticker := time.NewTicker(time.Second / hwdefs.FrameRate)
	defer ticker.Stop()

	for e.out.Poll() {
		// Handle pause.
		if e.isPaused() {
			e.beeper.SetActive(false)
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else if err := e.RunOneFrame(); err != nil {
			log.ModEmu.ErrorZ("Emulation stopped").
				Error("err", err).
				Uint("frames", uint64(e.frames)).
				End()
			e.err = err
			break
		}
		if e.shouldStop() {
			break
		}
		e.handleReset()
		<-ticker.C
	}
}

// Run runs the emulation loop until the window gets closed, Stop is called
// or the CPU faults. The error is that of the CPU fault, if any.
func (e *Emulator) Run() error {
	log.AddContext(e)
	defer log.RemoveContext(e)

	e.loop()
	log.ModEmu.InfoZ("Emulation loop exited").End()

	if err := e.beeper.Close(); err != nil {
		log.ModSound.WarnZ("Failed to close audio").Error("err", err).End()
	}
	if err := e.out.Close(); err != nil {
		log.ModVideo.WarnZ("Failed to close output").Error("err", err).End()
	}
	return e.err
}

// AddLogContext tags the log entries emitted by the emulation loop with
// the current frame.
func (e *Emulator) AddLogContext(z *log.EntryZ) {
	z.Int("frame", int(e.frames))
}

// Frames returns the number of frames run since launch.
func (e *Emulator) Frames() int64 { return e.frames }

// RaiseWindow raises the emulator window above others and sets the input focus.
func (e *Emulator) RaiseWindow() {
	if wout, ok := e.out.(*WindowOutput); ok {
		wout.FocusWindow()
	}
}

// SetPause, TogglePause, Stop and Reset allow to control the emulator loop
// in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) TogglePause()        { e.SetPause(!e.isPaused()) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	return e.quit.Load() || e.CPU.IsHalted()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing reset").End()
		e.CPU.Reset()
		if err := e.CPU.Load(e.rom); err != nil {
			// The rom has been loaded once already.
			panic(fmt.Sprintf("reloading program: %v", err))
		}
	}
}
