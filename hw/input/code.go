package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// A Code identifies a keyboard key, by its scancode, so that the mapping
// doesn't depend on the keyboard layout.
type Code struct {
	Scancode sdl.Scancode
}

// KeyCode returns the code of the key with the given SDL scancode name.
func KeyCode(name string) Code {
	return Code{Scancode: sdl.GetScancodeFromName(name)}
}

// IsSet reports whether the code is bound to a key.
func (mc Code) IsSet() bool {
	return mc.Scancode != sdl.SCANCODE_UNKNOWN
}

// Name returns an user-friendly name for the input code.
func (mc Code) Name() string {
	if !mc.IsSet() {
		return ""
	}
	return sdl.GetScancodeName(mc.Scancode)
}

func (mc Code) MarshalText() ([]byte, error) {
	if !mc.IsSet() {
		return []byte{}, nil
	}
	return []byte(fmt.Sprintf("key %s", mc.Name())), nil
}

// UnmarshalText accepts the empty string (unbound) and "key <name>", where
// name is an SDL scancode name, possibly with spaces ("key Left Shift").
func (mc *Code) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		mc.Scancode = sdl.SCANCODE_UNKNOWN
		return nil
	}

	name, ok := strings.CutPrefix(s, "key ")
	if !ok {
		return fmt.Errorf("unrecognized input code: %s", s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("malformed key code: %s", s)
	}

	sc := sdl.GetScancodeFromName(name)
	if sc == sdl.SCANCODE_UNKNOWN {
		return fmt.Errorf("unrecognized scancode %q", name)
	}
	mc.Scancode = sc
	return nil
}
