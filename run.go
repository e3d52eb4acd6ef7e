package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/veandco/go-sdl2/sdl"

	"chipper/emu"
)

// runMain runs the emulator window with the given program.
func runMain(args Run, cfg emu.Config) {
	rom, err := os.ReadFile(args.RomPath)
	checkf(err, "failed to read program")

	if args.Scale != 0 {
		cfg.Video.Scale = args.Scale
	}
	if args.Monitor >= 0 {
		cfg.Video.Monitor = args.Monitor
	}
	if args.Ticks != 0 {
		cfg.Emulation.TicksPerFrame = args.Ticks
	}
	if args.Policy != "" {
		cfg.Video.Policy, err = emu.ParsePolicy(args.Policy)
		checkf(err, "invalid --policy")
	}
	if args.NoAudio {
		cfg.Audio.DisableAudio = true
	}

	var traceout io.WriteCloser
	if args.Trace != nil {
		traceout = args.Trace
		defer traceout.Close()
	}
	cfg.TraceOut = traceout

	var exitcode int
	sdl.Main(func() {
		emulator, err := emu.Launch(rom, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start emulator: %v\n", err)
			exitcode = 1
			return
		}

		emulator.RaiseWindow()
		if err := emulator.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "program stopped: %v\n", err)
			exitcode = 1
		}
	})

	if exitcode != 0 {
		if traceout != nil {
			traceout.Close()
		}
		os.Exit(exitcode)
	}
}

// headlessMain runs the programs without window and writes the reports.
func headlessMain(args Headless, cfg emu.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := runHeadless(ctx, args, cfg)
	stop()
	checkf(err, "headless run failed")
}

// runHeadless writes the reports to the --out file, or stdout. The --out
// file is closed on return, whatever the outcome.
func runHeadless(ctx context.Context, args Headless, cfg emu.Config) (err error) {
	var out io.Writer = os.Stdout
	if args.Out != nil {
		out = args.Out
		defer func() {
			if cerr := args.Out.Close(); err == nil {
				err = cerr
			}
		}()
	}

	if args.Ticks != 0 {
		cfg.Emulation.TicksPerFrame = args.Ticks
	}
	if args.Policy != "" {
		if cfg.Video.Policy, err = emu.ParsePolicy(args.Policy); err != nil {
			return fmt.Errorf("invalid --policy: %w", err)
		}
	}

	reports, err := emu.RunHeadless(ctx, args.RomPaths, emu.HeadlessOptions{
		Frames:   args.Frames,
		Presses:  args.presses,
		Seed:     args.Seed,
		PNGDir:   args.PNG,
		PNGScale: args.Scale,
		Jobs:     args.Jobs,
		Config:   cfg,
	})
	if err != nil {
		return err
	}
	if err := emu.WriteReports(out, reports); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	return nil
}
