package emu

import (
	"image"
	"io"
	"strings"

	"github.com/go-faster/jx"

	"chipper/hw"
)

// Report describes the machine state at the end of a headless run.
type Report struct {
	ROM    string
	Frames int64
	Cycles int64

	PC, I  uint16
	V      [16]uint8
	SP     int
	DT, ST uint8

	Lit    int      // lit pixels count
	Screen []string // one string per row, '#' for lit pixels

	Halted bool
	Err    string

	PNG string // path of the final frame, if saved

	screenshot *image.RGBA
}

func newReport(cpu *hw.CPU, frames int64, err error) Report {
	screen := cpu.Display()
	rep := Report{
		Frames: frames,
		Cycles: cpu.Cycles,
		PC:     cpu.PC(),
		I:      cpu.I(),
		V:      cpu.Regs(),
		SP:     cpu.SP(),
		DT:     cpu.DelayTimer(),
		ST:     cpu.SoundTimer(),
		Lit:    screen.Lit(),
		Screen: screenRows(&screen),
		Halted: cpu.IsHalted(),
	}
	if err != nil {
		rep.Err = err.Error()
	}
	return rep
}

func screenRows(fb *hw.Framebuffer) []string {
	rows := make([]string, hw.Height)
	var sb strings.Builder
	for y := range hw.Height {
		sb.Reset()
		for x := range hw.Width {
			if fb.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// Encode writes the report as a JSON object.
func (r *Report) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("rom", func(e *jx.Encoder) { e.Str(r.ROM) })
		e.Field("frames", func(e *jx.Encoder) { e.Int64(r.Frames) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(r.Cycles) })
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(r.PC) })
		e.Field("i", func(e *jx.Encoder) { e.UInt16(r.I) })
		e.Field("v", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, v := range r.V {
					e.UInt8(v)
				}
			})
		})
		e.Field("sp", func(e *jx.Encoder) { e.Int(r.SP) })
		e.Field("dt", func(e *jx.Encoder) { e.UInt8(r.DT) })
		e.Field("st", func(e *jx.Encoder) { e.UInt8(r.ST) })
		e.Field("lit", func(e *jx.Encoder) { e.Int(r.Lit) })
		e.Field("screen", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, row := range r.Screen {
					e.Str(row)
				}
			})
		})
		e.Field("halted", func(e *jx.Encoder) { e.Bool(r.Halted) })
		if r.Err != "" {
			e.Field("error", func(e *jx.Encoder) { e.Str(r.Err) })
		}
		if r.PNG != "" {
			e.Field("png", func(e *jx.Encoder) { e.Str(r.PNG) })
		}
	})
}

// WriteReports writes the reports to w as an indented JSON array.
func WriteReports(w io.Writer, reports []Report) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for i := range reports {
			reports[i].Encode(e)
		}
	})
	e.RawStr("\n")

	_, err := e.WriteTo(w)
	return err
}
