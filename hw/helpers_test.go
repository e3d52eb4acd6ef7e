package hw

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"chipper/hw/hwdefs"
)

func hasPanicked(f func()) (yes bool, msg any) {
	defer func() {
		msg = recover()
		if msg != nil {
			yes = true
		}
	}()
	f()
	return yes, msg
}

// tbwriter writes the execution trace to the test log.
type tbwriter struct{ tb testing.TB }

func (w tbwriter) Write(p []byte) (int, error) {
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// newTestCPU returns a CPU with the given instruction words loaded at the
// program start.
func newTestCPU(t *testing.T, words ...uint16) *CPU {
	t.Helper()

	prog := make([]byte, 0, 2*len(words))
	for _, w := range words {
		prog = append(prog, byte(w>>8), byte(w))
	}

	cpu := NewCPU()
	if err := cpu.Load(prog); err != nil {
		t.Fatal(err)
	}
	if testing.Verbose() {
		cpu.SetTraceOutput(tbwriter{t})
	}
	return cpu
}

// fixedRandom returns the bytes in sequence, cycling.
func fixedRandom(vals ...uint8) Random {
	i := 0
	return RandomFunc(func() uint8 {
		v := vals[i%len(vals)]
		i++
		return v
	})
}

func wantMem8(t *testing.T, cpu *CPU, addr uint16, want uint8) {
	t.Helper()

	if got := cpu.RAM.Read8(addr); got != want {
		t.Errorf("$%03X = %02X want %02X", addr, got, want)
	}
}

// runAndCheckState runs ntick ticks then checks the machine state against
// the given (name, value) pairs. Names are PC, I, SP, DT, ST and V0 to VF.
func runAndCheckState(t *testing.T, cpu *CPU, nticks int, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	for range nticks {
		if err := cpu.Tick(); err != nil {
			t.Fatalf("Tick() error: %v", err)
		}
	}

	checkuint8 := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}
	checkuint16 := func(name string, got, want uint16) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%04X, want $%04X", name, got, want)
		}
	}

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		switch {
		case s == "PC":
			checkuint16("PC", cpu.PC(), toUint16(states[i+1]))
		case s == "I":
			checkuint16("I", cpu.I(), toUint16(states[i+1]))
		case s == "SP":
			if got, want := cpu.SP(), states[i+1].(int); got != want {
				t.Errorf("got SP=%d, want %d", got, want)
			}
		case s == "DT":
			checkuint8("DT", cpu.DelayTimer(), toUint8(states[i+1]))
		case s == "ST":
			checkuint8("ST", cpu.SoundTimer(), toUint8(states[i+1]))
		case len(s) == 2 && s[0] == 'V':
			x, err := strconv.ParseUint(s[1:], 16, 8)
			if err != nil {
				panic("unknown register: " + s)
			}
			checkuint8(s, cpu.V(int(x)), toUint8(states[i+1]))
		default:
			panic("unknown state: " + s)
		}
	}
}

func toUint8(v any) uint8 {
	switch v := v.(type) {
	case int:
		return uint8(v)
	case uint8:
		return v
	}
	panic(fmt.Sprintf("unexpected %T", v))
}

func toUint16(v any) uint16 {
	switch v := v.(type) {
	case int:
		return uint16(v)
	case uint16:
		return v
	}
	panic(fmt.Sprintf("unexpected %T", v))
}

// drawnScreen returns the framebuffer as text, one line per row, '#' for lit
// pixels, for readable diffs.
func drawnScreen(fb Framebuffer) string {
	var sb strings.Builder
	for y := range hwdefs.ScreenHeight {
		for x := range hwdefs.ScreenWidth {
			if fb.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
