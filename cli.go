package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"chipper/emu"
	"chipper/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a program in a window
	headlessMode             // Run programs without window, print reports
	keymapMode               // Show the keymap
	versionMode              // Show chipper version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run a program in the emulator window."`
		Headless Headless `cmd:"" help:"Run programs without window nor audio and print a JSON report."`
		Keymap   Keymap   `cmd:"" help:"Show the keypad to keyboard mapping."`
		Version  Version  `cmd:"" help:"Show chipper version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"${config_help}" type:"existingfile" placeholder:"FILE"`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"Program to run." type:"existingfile"`

		Scale   int      `name:"scale" help:"Window scale factor. (default from config)"`
		Monitor int32    `name:"monitor" help:"Monitor index to use. (default from config)" default:"-1"`
		Ticks   int      `name:"ticks" help:"${ticks_help}"`
		Policy  string   `name:"policy" help:"${policy_help}" placeholder:"plain|ghost"`
		NoAudio bool     `name:"no-audio" help:"Disable audio."`
		Trace   *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
	}

	Headless struct {
		RomPaths []string `arg:"" name:"/path/to/rom" help:"Programs to run." type:"existingfile"`

		Frames int64    `name:"frames" help:"Number of frames to run each program for." default:"600"`
		Ticks  int      `name:"ticks" help:"${ticks_help}"`
		Press  []string `name:"press" help:"${press_help}" placeholder:"FRAME:KEY[:DURATION]"`
		Seed   uint64   `name:"seed" help:"Seed of the random generator, 0 for random."`
		PNG    string   `name:"png" help:"Save the final frame of each program in this directory." type:"existingdir" placeholder:"DIR"`
		Scale  int      `name:"png-scale" help:"Scale factor of the saved frames." default:"4"`
		Jobs   int      `name:"jobs" short:"j" help:"Programs run concurrently. (default: number of CPUs)"`
		Out    *outfile `name:"out" short:"o" help:"Write the report to FILE. (default: stdout)" placeholder:"FILE|stdout|stderr"`
		Policy string   `name:"policy" help:"${policy_help}" placeholder:"plain|ghost"`

		presses []emu.KeyPress
	}

	Keymap  struct{}
	Version struct{}
)

var vars = kong.Vars{
	"log_help":    "Enable logging for specified modules.",
	"config_help": "Use this config file instead of the one in the user config directory.",
	"ticks_help":  "Instructions executed per frame, 60 frames per second. (default from config)",
	"policy_help": "Video policy: plain or ghost, ghost reduces flicker. (default from config)",
	"press_help":  "Hold keypad KEY down during FRAME and the following DURATION-1 frames. Repeatable.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("chipper"),
		kong.Description("CHIP-8 virtual machine."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "headless </path/to/rom> ...":
		cfg.mode = headlessMode
		for _, s := range cfg.Headless.Press {
			kp, err := emu.ParseKeyPress(s)
			checkf(err, "invalid --press")
			cfg.Headless.presses = append(cfg.Headless.presses, kp)
		}
	case "keymap":
		cfg.mode = keymapMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	switch cmd := ctx.Command(); {
	case cmd == "", strings.HasPrefix(cmd, "run"), strings.HasPrefix(cmd, "headless"):
	default:
		return nil
	}

	var sb strings.Builder
	sb.WriteString("\nLog modules (--log mod0,mod1,...):\n")
	for _, m := range log.ModuleNames() {
		fmt.Fprintf(&sb, "  %s\n", m)
	}
	sb.WriteString("  all    debug logs of every module\n")
	sb.WriteString("  no     no logs at all, not even warnings\n")
	_, err := os.Stderr.WriteString(sb.String())
	return err
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
