package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"chipper/emu"
)

func main() {
	args := parseArgs(os.Args[1:])

	cfg := loadConfig(args.Config)

	switch args.mode {
	case runMode:
		runMain(args.Run, cfg)
	case headlessMode:
		headlessMain(args.Headless, cfg)
	case keymapMode:
		checkf(cfg.Input.Print(os.Stdout), "failed to print keymap")
	case versionMode:
		printVersion()
	}
}

func loadConfig(path string) emu.Config {
	if path == "" {
		cfg := emu.LoadConfigOrDefault()
		cfg.Check()
		return cfg
	}
	cfg, err := emu.LoadConfig(path)
	checkf(err, "failed to load config %s", path)
	return cfg
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("chipper", version)
}
