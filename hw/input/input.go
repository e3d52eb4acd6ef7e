package input

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/veandco/go-sdl2/sdl"

	"chipper/emu/log"
	"chipper/hw/hwdefs"
)

// Config maps each keypad key to a keyboard key.
type Config struct {
	Keys [hwdefs.NumKeys]Code `toml:"keys"`
}

// DefaultConfig returns the usual layout, the 4x4 block on the left of a
// qwerty keyboard:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
func DefaultConfig() Config {
	layout := [...]struct {
		key  hwdefs.Key
		name string
	}{
		{0x1, "1"}, {0x2, "2"}, {0x3, "3"}, {0xC, "4"},
		{0x4, "Q"}, {0x5, "W"}, {0x6, "E"}, {0xD, "R"},
		{0x7, "A"}, {0x8, "S"}, {0x9, "D"}, {0xE, "F"},
		{0xA, "Z"}, {0x0, "X"}, {0xB, "C"}, {0xF, "V"},
	}

	var cfg Config
	for _, l := range layout {
		cfg.Keys[l.key] = KeyCode(l.name)
	}
	return cfg
}

// Init fills unbound keypad keys with their default binding.
func (cfg *Config) Init() {
	def := DefaultConfig()
	for k, code := range cfg.Keys {
		if !code.IsSet() {
			log.ModInput.InfoZ("using default binding").
				Stringer("key", hwdefs.Key(k)).
				String("code", def.Keys[k].Name()).
				End()
			cfg.Keys[k] = def.Keys[k]
		}
	}
}

// Print writes the keymap as a table.
func (cfg *Config) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEYPAD\tKEYBOARD")
	for k, code := range cfg.Keys {
		fmt.Fprintf(tw, "%s\t%s\n", hwdefs.Key(k), code.Name())
	}
	return tw.Flush()
}

// Provider reads the keypad state from the keyboard.
type Provider struct {
	keystate []uint8
	cfg      Config
}

func NewProvider(cfg Config) *Provider {
	var keystate []uint8
	sdl.Do(func() { keystate = sdl.GetKeyboardState() })
	return &Provider{keystate: keystate, cfg: cfg}
}

// Keys returns the state of the 16 keypad keys. The keyboard state is
// updated by SDL each time events are pumped.
func (p *Provider) Keys() [hwdefs.NumKeys]bool {
	return p.cfg.keypad(p.keystate)
}

// keypad maps a keyboard state, indexed by scancode, to the keypad state.
func (cfg *Config) keypad(keystate []uint8) [hwdefs.NumKeys]bool {
	var keys [hwdefs.NumKeys]bool
	for k, code := range cfg.Keys {
		if code.IsSet() && int(code.Scancode) < len(keystate) {
			keys[k] = keystate[code.Scancode] != 0
		}
	}
	return keys
}
