package hw

import "chipper/hw/hwdefs"

// fontset holds the 16 hexadecimal glyphs, 0 to F, 5 rows each. Only the 4
// leftmost bits of each row are used.
var fontset = [16 * hwdefs.GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Glyph returns the rows of the built-in glyph for the hexadecimal digit d.
func Glyph(d uint8) []byte {
	off := int(d&0x0F) * hwdefs.GlyphSize
	return fontset[off : off+hwdefs.GlyphSize]
}

// glyphAddr returns the address of the glyph for the low nibble of d.
func glyphAddr(d uint8) uint16 {
	return hwdefs.FontAddr + uint16(d&0x0F)*hwdefs.GlyphSize
}
