package hw

import (
	"fmt"
	"io"

	"chipper/emu/log"
	"chipper/hw/hwdefs"
	"chipper/hw/hwio"
)

// FlagReg is the index of VF, the register receiving carry, borrow,
// shifted-out bit and collision.
const FlagReg = 0xF

// pcMask keeps the program counter within the 4KiB address space.
const pcMask = hwio.MemSize - 1

// CPU holds the whole machine state and executes instructions.
type CPU struct {
	RAM hwio.Mem

	v     [16]uint8
	i     uint16
	pc    uint16
	stack Stack

	dt, st uint8

	keys   [hwdefs.NumKeys]bool
	screen Framebuffer
	prev   Framebuffer

	rand Random

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	Cycles int64 // executed instructions since reset

	halted bool
	err    error
}

// NewCPU creates a CPU at power-up state, with the font loaded and the
// program counter at the program start.
func NewCPU() *CPU {
	c := &CPU{
		RAM:  hwio.Mem{Name: "ram"},
		rand: systemRandom{},
	}
	c.Reset()
	return c
}

// Reset reinitializes the whole machine state, as NewCPU does. Memory is
// cleared, so the program must be loaded again.
func (c *CPU) Reset() {
	c.RAM.Reset()
	c.RAM.Copy(hwdefs.FontAddr, fontset[:])

	c.v = [16]uint8{}
	c.i = 0
	c.pc = hwdefs.ProgramStart
	c.stack.reset()
	c.dt, c.st = 0, 0
	c.keys = [hwdefs.NumKeys]bool{}
	c.screen.clear()
	c.prev.clear()

	c.Cycles = 0
	c.halted = false
	c.err = nil
}

// Load copies a program image into memory at the program start.
func (c *CPU) Load(program []byte) error {
	if len(program) > hwio.MemSize-hwdefs.ProgramStart {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge,
			len(program), hwio.MemSize-hwdefs.ProgramStart)
	}
	copy(c.RAM.Data[hwdefs.ProgramStart:], program)
	log.ModCPU.DebugZ("program loaded").Int("size", len(program)).End()
	return nil
}

// SetRandom sets the source used by the RND instruction.
func (c *CPU) SetRandom(r Random) {
	c.rand = r
}

// SetKey sets the state of a keypad key. k must be in [0, 16).
func (c *CPU) SetKey(k int, pressed bool) {
	if k < 0 || k >= hwdefs.NumKeys {
		panic(fmt.Sprintf("SetKey: key %d out of range", k))
	}
	c.keys[k] = pressed
}

// SetKeys overwrites the state of all keypad keys.
func (c *CPU) SetKeys(keys [hwdefs.NumKeys]bool) {
	c.keys = keys
}

func (c *CPU) Keys() [hwdefs.NumKeys]bool { return c.keys }

// Display returns a copy of the current framebuffer.
func (c *CPU) Display() Framebuffer { return c.screen }

// PrevDisplay returns a copy of the framebuffer as it was before the last
// instruction that modified the display.
func (c *CPU) PrevDisplay() Framebuffer { return c.prev }

func (c *CPU) DelayTimer() uint8 { return c.dt }
func (c *CPU) SoundTimer() uint8 { return c.st }

func (c *CPU) PC() uint16       { return c.pc }
func (c *CPU) I() uint16        { return c.i }
func (c *CPU) V(x int) uint8    { return c.v[x&0xF] }
func (c *CPU) Regs() [16]uint8  { return c.v }
func (c *CPU) SP() int          { return c.stack.Len() }
func (c *CPU) CallStack() Stack { return c.stack }

// Tick executes one instruction then counts the timers down.
func (c *CPU) Tick() error {
	if err := c.Step(); err != nil {
		return err
	}
	c.DecrementTimers()
	return nil
}

// Step fetches, decodes and executes one instruction. Unknown instructions
// are logged and skipped. An error is returned if the CPU faulted, in which
// case it stays halted until Reset.
func (c *CPU) Step() error {
	if c.halted {
		return c.err
	}

	pc := c.pc
	w := c.RAM.Read16(pc)
	c.pc = (c.pc + 2) & pcMask

	op := Decode(w)
	c.traceOp(pc, w, op)
	ops[op](c, Instr(w))
	c.Cycles++

	if c.halted {
		log.ModCPU.WarnZ("CPU halted").
			Hex16("pc", pc).
			Hex16("opcode", w).
			Error("err", c.err).
			End()
		return c.err
	}
	return nil
}

// opPC returns the address of the instruction being executed.
func (c *CPU) opPC() uint16 {
	return (c.pc - 2) & pcMask
}

// DecrementTimers counts both timers down by one, stopping at zero.
func (c *CPU) DecrementTimers() {
	if c.dt > 0 {
		c.dt--
	}
	if c.st > 0 {
		c.st--
	}
}

func (c *CPU) IsHalted() bool {
	return c.halted
}

// halt stops execution on a fault. pc is the address of the faulting
// instruction.
func (c *CPU) halt(pc uint16, err error) {
	c.halted = true
	c.err = fmt.Errorf("%w: pc=%03X: %w", ErrHalted, pc, err)
}

/* tracing */

// SetTraceOutput enables the execution trace, one line per instruction, or
// disables it if w is nil.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w}
}

func (c *CPU) traceOp(pc, w uint16, op Op) {
	if c.tracer != nil {
		c.tracer.write(cpuState{
			PC:     pc,
			Opcode: w,
			Op:     op,
			V:      c.v,
			I:      c.i,
			SP:     c.stack.sp,
			DT:     c.dt,
			ST:     c.st,
			Cycles: c.Cycles,
		})
	}
}
