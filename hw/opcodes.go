package hw

import (
	"chipper/emu/log"
	"chipper/hw/hwdefs"
	"chipper/hw/hwio"
)

//go:generate go tool stringer -type=Op -linecomment

// Op identifies one of the instructions of the base instruction set.
type Op uint8

const (
	OpUnknown Op = iota // unknown
	OpSys               // 0NNN
	OpCls               // 00E0
	OpRet               // 00EE
	OpJp                // 1NNN
	OpCall              // 2NNN
	OpSeImm             // 3XNN
	OpSneImm            // 4XNN
	OpSeReg             // 5XY0
	OpLdImm             // 6XNN
	OpAddImm            // 7XNN
	OpLdReg             // 8XY0
	OpOr                // 8XY1
	OpAnd               // 8XY2
	OpXor               // 8XY3
	OpAdd               // 8XY4
	OpSub               // 8XY5
	OpShr               // 8XY6
	OpSubn              // 8XY7
	OpShl               // 8XYE
	OpSneReg            // 9XY0
	OpLdI               // ANNN
	OpJpV0              // BNNN
	OpRnd               // CXNN
	OpDrw               // DXYN
	OpSkp               // EX9E
	OpSknp              // EXA1
	OpLdVxDT            // FX07
	OpLdKey             // FX0A
	OpLdDT              // FX15
	OpLdST              // FX18
	OpAddI              // FX1E
	OpLdF               // FX29
	OpBCD               // FX33
	OpStore             // FX55
	OpLoad              // FX65
)

const numOps = int(OpLoad) + 1

// Instr is a 16-bit instruction word.
type Instr uint16

func (in Instr) X() uint8    { return hwio.Nibble(uint16(in), 2) }
func (in Instr) Y() uint8    { return hwio.Nibble(uint16(in), 1) }
func (in Instr) N() uint8    { return hwio.Nibble(uint16(in), 0) }
func (in Instr) NN() uint8   { return hwio.Lo8(uint16(in)) }
func (in Instr) NNN() uint16 { return hwio.Addr12(uint16(in)) }

// decodeTable maps the high nibble then the low byte of an instruction word
// to its Op. The 0 group depends on all 12 low bits and is decoded apart.
var decodeTable [16][256]Op

func init() {
	primary := [16]Op{
		0x1: OpJp, 0x2: OpCall, 0x3: OpSeImm, 0x4: OpSneImm,
		0x6: OpLdImm, 0x7: OpAddImm, 0xA: OpLdI, 0xB: OpJpV0,
		0xC: OpRnd, 0xD: OpDrw,
	}
	group8 := [16]Op{
		0x0: OpLdReg, 0x1: OpOr, 0x2: OpAnd, 0x3: OpXor, 0x4: OpAdd,
		0x5: OpSub, 0x6: OpShr, 0x7: OpSubn, 0xE: OpShl,
	}
	groupE := map[uint8]Op{0x9E: OpSkp, 0xA1: OpSknp}
	groupF := map[uint8]Op{
		0x07: OpLdVxDT, 0x0A: OpLdKey, 0x15: OpLdDT, 0x18: OpLdST,
		0x1E: OpAddI, 0x29: OpLdF, 0x33: OpBCD, 0x55: OpStore, 0x65: OpLoad,
	}

	for hi := range decodeTable {
		for lo := range decodeTable[hi] {
			b := uint8(lo)
			var op Op
			switch hi {
			case 0x5:
				if b&0x0F == 0 {
					op = OpSeReg
				}
			case 0x8:
				op = group8[b&0x0F]
			case 0x9:
				if b&0x0F == 0 {
					op = OpSneReg
				}
			case 0xE:
				op = groupE[b]
			case 0xF:
				op = groupF[b]
			default:
				op = primary[hi]
			}
			decodeTable[hi][lo] = op
		}
	}
}

// Decode returns the instruction encoded by w, OpUnknown if w doesn't
// encode any.
func Decode(w uint16) Op {
	if w>>12 == 0 {
		switch w {
		case 0x00E0:
			return OpCls
		case 0x00EE:
			return OpRet
		}
		return OpSys
	}
	return decodeTable[w>>12][w&0xFF]
}

// ops holds the instruction handlers, indexed by Op. Handlers run with pc
// already pointing to the next instruction.
var ops = [numOps]func(*CPU, Instr){
	OpUnknown: unknown,
	OpSys:     sys,
	OpCls:     cls,
	OpRet:     ret,
	OpJp:      jp,
	OpCall:    call,
	OpSeImm:   seImm,
	OpSneImm:  sneImm,
	OpSeReg:   seReg,
	OpLdImm:   ldImm,
	OpAddImm:  addImm,
	OpLdReg:   ldReg,
	OpOr:      or,
	OpAnd:     and,
	OpXor:     xor,
	OpAdd:     add,
	OpSub:     sub,
	OpShr:     shr,
	OpSubn:    subn,
	OpShl:     shl,
	OpSneReg:  sneReg,
	OpLdI:     ldI,
	OpJpV0:    jpV0,
	OpRnd:     rnd,
	OpDrw:     drw,
	OpSkp:     skp,
	OpSknp:    sknp,
	OpLdVxDT:  ldVxDT,
	OpLdKey:   ldKey,
	OpLdDT:    ldDT,
	OpLdST:    ldST,
	OpAddI:    addI,
	OpLdF:     ldF,
	OpBCD:     bcd,
	OpStore:   store,
	OpLoad:    load,
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.pc = (c.pc + 2) & pcMask
	}
}

func (c *CPU) setFlag(set bool) {
	if set {
		c.v[FlagReg] = 1
	} else {
		c.v[FlagReg] = 0
	}
}

/* control flow */

func unknown(c *CPU, in Instr) {
	log.ModCPU.WarnZ("unknown opcode").
		Hex16("pc", c.opPC()).
		Hex16("opcode", uint16(in)).
		End()
}

// sys is a call to a machine code routine of the host, ignored.
func sys(c *CPU, in Instr) {
	log.ModCPU.DebugZ("ignored machine code call").
		Hex16("pc", c.opPC()).
		Hex16("addr", in.NNN()).
		End()
}

func jp(c *CPU, in Instr) {
	c.pc = in.NNN()
}

func call(c *CPU, in Instr) {
	if err := c.stack.Push(c.pc); err != nil {
		c.halt(c.opPC(), err)
		return
	}
	c.pc = in.NNN()
}

func ret(c *CPU, _ Instr) {
	addr, err := c.stack.Pop()
	if err != nil {
		c.halt(c.opPC(), err)
		return
	}
	c.pc = addr
}

func jpV0(c *CPU, in Instr) {
	c.pc = (in.NNN() + uint16(c.v[0])) & pcMask
}

func seImm(c *CPU, in Instr)  { c.skipIf(c.v[in.X()] == in.NN()) }
func sneImm(c *CPU, in Instr) { c.skipIf(c.v[in.X()] != in.NN()) }
func seReg(c *CPU, in Instr)  { c.skipIf(c.v[in.X()] == c.v[in.Y()]) }
func sneReg(c *CPU, in Instr) { c.skipIf(c.v[in.X()] != c.v[in.Y()]) }

/* loads and arithmetic */

func ldImm(c *CPU, in Instr) {
	c.v[in.X()] = in.NN()
}

// addImm doesn't touch the flag register.
func addImm(c *CPU, in Instr) {
	c.v[in.X()] += in.NN()
}

func ldReg(c *CPU, in Instr) { c.v[in.X()] = c.v[in.Y()] }
func or(c *CPU, in Instr)    { c.v[in.X()] |= c.v[in.Y()] }
func and(c *CPU, in Instr)   { c.v[in.X()] &= c.v[in.Y()] }
func xor(c *CPU, in Instr)   { c.v[in.X()] ^= c.v[in.Y()] }

// In the following operations the flag is written last, so when VF is the
// destination it holds the flag.

func add(c *CPU, in Instr) {
	sum := uint16(c.v[in.X()]) + uint16(c.v[in.Y()])
	c.v[in.X()] = uint8(sum)
	c.setFlag(sum > 0xFF)
}

// sub sets VF when there's no borrow.
func sub(c *CPU, in Instr) {
	vx, vy := c.v[in.X()], c.v[in.Y()]
	c.v[in.X()] = vx - vy
	c.setFlag(vx >= vy)
}

func subn(c *CPU, in Instr) {
	vx, vy := c.v[in.X()], c.v[in.Y()]
	c.v[in.X()] = vy - vx
	c.setFlag(vy >= vx)
}

func shr(c *CPU, in Instr) {
	vx := c.v[in.X()]
	c.v[in.X()] = vx >> 1
	c.v[FlagReg] = hwio.GetBiti8(vx, 0)
}

func shl(c *CPU, in Instr) {
	vx := c.v[in.X()]
	c.v[in.X()] = vx << 1
	c.v[FlagReg] = hwio.GetBiti8(vx, 7)
}

func rnd(c *CPU, in Instr) {
	c.v[in.X()] = c.rand.Byte() & in.NN()
}

/* index register and memory */

func ldI(c *CPU, in Instr) {
	c.i = in.NNN()
}

// addI doesn't check bounds, memory accesses through I wrap around.
func addI(c *CPU, in Instr) {
	c.i += uint16(c.v[in.X()])
}

func ldF(c *CPU, in Instr) {
	c.i = glyphAddr(c.v[in.X()])
}

func bcd(c *CPU, in Instr) {
	vx := c.v[in.X()]
	c.RAM.Write8(c.i, vx/100)
	c.RAM.Write8(c.i+1, (vx/10)%10)
	c.RAM.Write8(c.i+2, vx%10)
}

func store(c *CPU, in Instr) {
	for x := range uint16(in.X()) + 1 {
		c.RAM.Write8(c.i+x, c.v[x])
	}
}

func load(c *CPU, in Instr) {
	for x := range uint16(in.X()) + 1 {
		c.v[x] = c.RAM.Read8(c.i + x)
	}
}

/* display */

func cls(c *CPU, _ Instr) {
	c.prev = c.screen
	c.screen.clear()
}

func drw(c *CPU, in Instr) {
	var rows [15]byte
	n := in.N()
	c.RAM.Peek(c.i, rows[:n])

	c.prev = c.screen
	collision := c.screen.drawSprite(c.v[in.X()], c.v[in.Y()], rows[:n])
	c.setFlag(collision)
}

/* keypad */

func keyPressed(c *CPU, vx uint8) bool {
	return c.keys[vx&(hwdefs.NumKeys-1)]
}

func skp(c *CPU, in Instr)  { c.skipIf(keyPressed(c, c.v[in.X()])) }
func sknp(c *CPU, in Instr) { c.skipIf(!keyPressed(c, c.v[in.X()])) }

// ldKey waits for a key press by executing itself again until a key is
// down. When several keys are down, the highest one wins.
func ldKey(c *CPU, in Instr) {
	for k := hwdefs.NumKeys - 1; k >= 0; k-- {
		if c.keys[k] {
			c.v[in.X()] = uint8(k)
			return
		}
	}
	c.pc = c.opPC()
}

/* timers */

func ldVxDT(c *CPU, in Instr) { c.v[in.X()] = c.dt }
func ldDT(c *CPU, in Instr)   { c.dt = c.v[in.X()] }
func ldST(c *CPU, in Instr)   { c.st = c.v[in.X()] }
