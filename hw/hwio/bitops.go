package hwio

// GetBit8 reports whether bit n of v is set.
func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

// GetBiti8 returns bit n of v as 0 or 1.
func GetBiti8(v uint8, n uint) uint8 {
	return v >> (n) & 0x01
}

// Nibble returns the nth 4-bit group of v, counting from the least
// significant one.
func Nibble(v uint16, n uint) uint8 {
	return uint8(v>>(4*n)) & 0x0F
}

func Lo8(v uint16) uint8 { return uint8(v & 0xff) }
func Hi8(v uint16) uint8 { return uint8(v >> 8) }

// Addr12 returns the 12-bit address field of an instruction word.
func Addr12(v uint16) uint16 {
	return v & 0x0FFF
}
