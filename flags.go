package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"chipper/emu/log"
)

// logModMask is the value of the --log flag, a comma-separated list of log
// modules, or one of the special values 'all' and 'no'.
type logModMask log.ModuleMask

func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	tok, err := ctx.Scan.PopValue("log modules")
	if err != nil {
		return err
	}
	list, ok := tok.Value.(string)
	if !ok {
		return fmt.Errorf("expected a list of log modules, got %v", tok.Value)
	}

	names := strings.Split(list, ",")
	switch {
	case len(names) == 1 && names[0] == "no":
		log.Disable()
		return nil
	case len(names) == 1 && names[0] == "all":
		log.EnableDebugModules(log.ModuleMaskAll)
		return nil
	}

	var mask log.ModuleMask
	for _, name := range names {
		if name == "all" || name == "no" {
			return fmt.Errorf("'%s' can't be combined with other log modules", name)
		}
		mod, ok := log.ModuleByName(name)
		if !ok {
			return fmt.Errorf("unknown log module %q", name)
		}
		mask |= mod.Mask()
	}
	log.EnableDebugModules(mask)
	return nil
}

// outfile is a flag value naming where to write: stdout, stderr or a file,
// created when the flag is decoded.
type outfile struct {
	io.Writer
	name string
	file *os.File
}

func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok, err := ctx.Scan.PopValue("output file")
	if err != nil {
		return err
	}
	f.name = fmt.Sprint(tok.Value)

	switch f.name {
	case "stdout":
		f.Writer = os.Stdout
	case "stderr":
		f.Writer = os.Stderr
	default:
		if f.file, err = os.Create(f.name); err != nil {
			return err
		}
		f.Writer = f.file
	}
	return nil
}

func (f *outfile) String() string { return f.name }

// Close closes the output file, standard streams are left open.
func (f *outfile) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}
