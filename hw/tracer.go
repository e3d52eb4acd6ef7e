package hw

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	PC     uint16
	Opcode uint16
	Op     Op

	V      [16]uint8
	I      uint16
	SP     uint8
	DT, ST uint8

	Cycles int64
}

type tracer struct {
	w   io.Writer
	buf []byte
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func hexEncode16(dst []byte, v uint16) {
	hexEncode(dst, uint8(v>>8))
	hexEncode(dst[2:], uint8(v))
}

// write the execution trace line of the instruction about to execute:
//
//	0200  6A05  6XNN     V:00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 I:0000 SP:0 DT:00 ST:00 CYC:0
func (t *tracer) write(state cpuState) {
	const regsLen = 2 + 16*3
	buf := t.buf[:0]
	if cap(buf) < 128 {
		buf = make([]byte, 0, 128)
	}

	buf = buf[:4]
	hexEncode16(buf, state.PC)
	buf = append(buf, "  "...)

	off := len(buf)
	buf = buf[:off+4]
	hexEncode16(buf[off:], state.Opcode)
	buf = append(buf, "  "...)

	buf = fmt.Appendf(buf, "%-7s  ", state.Op)

	off = len(buf)
	buf = buf[:off+regsLen]
	buf[off] = 'V'
	buf[off+1] = ':'
	off += 2
	for _, v := range state.V {
		hexEncode(buf[off:], v)
		buf[off+2] = ' '
		off += 3
	}

	buf = append(buf, "I:"...)
	off = len(buf)
	buf = buf[:off+4]
	hexEncode16(buf[off:], state.I)

	buf = fmt.Appendf(buf, " SP:%d DT:", state.SP)
	off = len(buf)
	buf = buf[:off+2]
	hexEncode(buf[off:], state.DT)
	buf = append(buf, " ST:"...)
	off = len(buf)
	buf = buf[:off+2]
	hexEncode(buf[off:], state.ST)

	buf = fmt.Appendf(buf, " CYC:%d\n", state.Cycles)

	t.buf = buf
	t.w.Write(buf)
}
