package hwio

import (
	"chipper/emu/log"
)

// MemSize is the size of the whole addressable space.
const MemSize = 0x1000

const memMask = MemSize - 1

// Mem is the linear 4KiB address space.
//
// Every access is masked to 12 bits: addresses past the end wrap around to
// the beginning of memory. There is no invalid address.
type Mem struct {
	Name string
	Data [MemSize]byte
}

func (m *Mem) Read8(addr uint16) uint8 {
	return m.Data[addr&memMask]
}

func (m *Mem) Write8(addr uint16, val uint8) {
	if addr > memMask {
		log.ModMem.DebugZ("Write8 wraps around").
			String("area", m.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
	}
	m.Data[addr&memMask] = val
}

// Read16 reads a big-endian 16-bit word.
func (m *Mem) Read16(addr uint16) uint16 {
	hi := m.Read8(addr)
	lo := m.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a big-endian 16-bit word.
func (m *Mem) Write16(addr uint16, val uint16) {
	m.Write8(addr, Hi8(val))
	m.Write8(addr+1, Lo8(val))
}

// Peek copies len(dst) bytes starting at addr into dst, wrapping around the
// end of memory.
func (m *Mem) Peek(addr uint16, dst []byte) {
	for i := range dst {
		dst[i] = m.Read8(addr + uint16(i))
	}
}

// Copy writes buf to memory starting at addr, wrapping around the end of
// memory.
func (m *Mem) Copy(addr uint16, buf []byte) {
	for i, b := range buf {
		m.Write8(addr+uint16(i), b)
	}
}

func (m *Mem) Reset() {
	clear(m.Data[:])
}
