package emu

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"chipper/emu/log"
	"chipper/hw"
	"chipper/hw/hwdefs"
)

// KeyPress holds a keypad key down during a range of frames.
type KeyPress struct {
	Frame  int64 // first frame the key is down
	Frames int64 // number of frames the key stays down
	Key    hwdefs.Key
}

// ParseKeyPress parses frame:key or frame:key:duration, for example 60:A
// holds key A down during frame 60, 60:A:5 during frames 60 to 64.
func ParseKeyPress(s string) (KeyPress, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return KeyPress{}, fmt.Errorf("malformed key press %q, want frame:key[:duration]", s)
	}

	frame, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || frame < 0 {
		return KeyPress{}, fmt.Errorf("malformed key press %q: invalid frame %q", s, parts[0])
	}
	key, err := hwdefs.ParseKey(parts[1])
	if err != nil {
		return KeyPress{}, fmt.Errorf("malformed key press %q: %w", s, err)
	}

	kp := KeyPress{Frame: frame, Frames: 1, Key: key}
	if len(parts) == 3 {
		kp.Frames, err = strconv.ParseInt(parts[2], 10, 64)
		if err != nil || kp.Frames <= 0 {
			return KeyPress{}, fmt.Errorf("malformed key press %q: invalid duration %q", s, parts[2])
		}
	}
	return kp, nil
}

func (kp KeyPress) String() string {
	return fmt.Sprintf("%d:%s:%d", kp.Frame, kp.Key, kp.Frames)
}

// scriptedKeys is a KeyProvider replaying key presses.
type scriptedKeys struct {
	presses []KeyPress
	frame   int64
}

func (sk *scriptedKeys) Keys() [hwdefs.NumKeys]bool {
	var keys [hwdefs.NumKeys]bool
	for _, kp := range sk.presses {
		if sk.frame >= kp.Frame && sk.frame < kp.Frame+kp.Frames {
			keys[kp.Key] = true
		}
	}
	sk.frame++
	return keys
}

type HeadlessOptions struct {
	Frames  int64
	Presses []KeyPress

	// Seed of the random source, 0 for a random seed.
	Seed uint64

	// PNGDir is the directory where the final frames are saved, if not
	// empty.
	PNGDir   string
	PNGScale int

	// Jobs is the maximum number of programs run concurrently, 0 for the
	// number of CPUs.
	Jobs int

	Config Config
}

// RunHeadless runs each program without window nor audio, for a fixed
// number of frames. It returns one report per program, in order. A CPU
// fault only ends the run of the faulty program, it's reported but
// RunHeadless doesn't fail.
func RunHeadless(ctx context.Context, roms []string, opts HeadlessOptions) ([]Report, error) {
	opts.Config.Check()
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}

	reports := make([]Report, len(roms))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	for i, path := range roms {
		g.Go(func() error {
			rom, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			rep, err := runHeadless(ctx, rom, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep.ROM = path

			if opts.PNGDir != "" {
				rep.PNG = filepath.Join(opts.PNGDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".png")
				if err := SaveAsPNG(rep.screenshot, rep.PNG, opts.PNGScale); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			reports[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func runHeadless(ctx context.Context, rom []byte, opts HeadlessOptions) (Report, error) {
	out := NewHeadlessOutput()
	keys := &scriptedKeys{presses: opts.Presses}
	e, err := newEmulator(rom, out, keys, nopBeeper{}, opts.Config)
	if err != nil {
		return Report{}, err
	}
	if opts.Seed != 0 {
		e.CPU.SetRandom(hw.SeededRandom(opts.Seed))
	}

	var cpuErr error
	for e.Frames() < opts.Frames {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		if cpuErr = e.RunOneFrame(); cpuErr != nil {
			log.ModEmu.WarnZ("Program halted").
				Uint("frame", uint64(e.Frames())).
				Error("err", cpuErr).
				End()
			break
		}
	}

	rep := newReport(e.CPU, e.Frames(), cpuErr)
	rep.screenshot = out.Screenshot()
	return rep, nil
}
