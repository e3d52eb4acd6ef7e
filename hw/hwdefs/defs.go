package hwdefs

import "fmt"

// Display geometry.
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

const (
	// ProgramStart is where program images are loaded and where execution
	// begins. Addresses below are reserved for the interpreter.
	ProgramStart = 0x200

	// FontAddr is the address of the built-in hexadecimal glyphs.
	FontAddr = 0x000

	// GlyphSize is the number of bytes (rows) of a font glyph.
	GlyphSize = 5

	// FrameRate is the rate at which the timers are expected to count down,
	// and at which the frame driver presents the display.
	FrameRate = 60
)

// NumKeys is the number of keys of the hexadecimal keypad.
const NumKeys = 16

// A Key identifies a key of the hexadecimal keypad, 0 to F.
type Key uint8

func (k Key) String() string {
	if k >= NumKeys {
		return fmt.Sprintf("Key(%d)", uint8(k))
	}
	return fmt.Sprintf("%X", uint8(k))
}

// ParseKey parses a keypad key from its hexadecimal digit.
func ParseKey(s string) (Key, error) {
	var k uint8
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid keypad key %q", s)
	}
	if _, err := fmt.Sscanf(s, "%X", &k); err != nil {
		return 0, fmt.Errorf("invalid keypad key %q", s)
	}
	return Key(k), nil
}
