package emu

import (
	"fmt"
	"image"
	"image/color"

	"chipper/hw"
)

// Color is an opaque RGB color, written #rrggbb in the config file.
type Color struct {
	R, G, B uint8
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	var r, g, b uint8
	if len(text) != 7 {
		return fmt.Errorf("malformed color %q, want #rrggbb", text)
	}
	if _, err := fmt.Sscanf(string(text), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("malformed color %q, want #rrggbb", text)
	}
	*c = Color{R: r, G: g, B: b}
	return nil
}

// Policy controls how framebuffers are turned into video frames.
type Policy uint8

const (
	// PolicyPlain shows the current framebuffer.
	PolicyPlain Policy = iota
	// PolicyGhost also shows, in the ghost color, the pixels which were
	// just erased. Programs erasing then redrawing their sprites flicker
	// less.
	PolicyGhost
)

var policyNames = [...]string{
	PolicyPlain: "plain",
	PolicyGhost: "ghost",
}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", p)
}

// ParsePolicy returns the policy with the given name.
func ParsePolicy(s string) (Policy, error) {
	for i, name := range policyNames {
		if s == name {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown video policy %q", s)
}

func (p Policy) MarshalText() ([]byte, error) {
	if int(p) >= len(policyNames) {
		return nil, fmt.Errorf("unknown video policy %d", p)
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	pol, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = pol
	return nil
}

// Palette converts framebuffers into RGBA video frames.
type Palette struct {
	Foreground Color
	Background Color
	Ghost      Color
	Policy     Policy
}

func (vcfg *VideoConfig) Palette() Palette {
	return Palette{
		Foreground: vcfg.Foreground,
		Background: vcfg.Background,
		Ghost:      vcfg.Ghost,
		Policy:     vcfg.Policy,
	}
}

// frameSize is the size in bytes of an RGBA video frame.
const frameSize = hw.Width * hw.Height * 4

// Render writes the RGBA video frame of cur into dst, prev being the
// framebuffer before the last display change.
func (p *Palette) Render(dst []byte, cur, prev *hw.Framebuffer) {
	fg, bg, ghost := p.Foreground.RGBA(), p.Background.RGBA(), p.Ghost.RGBA()

	for i, lit := range cur {
		c := bg
		switch {
		case lit:
			c = fg
		case p.Policy == PolicyGhost && prev[i]:
			c = ghost
		}
		off := i * 4
		dst[off+0] = c.R
		dst[off+1] = c.G
		dst[off+2] = c.B
		dst[off+3] = c.A
	}
}

// FramebufImage returns an image sharing the pixels of an RGBA frame.
func FramebufImage(frame []byte, w, h int) *image.RGBA {
	return &image.RGBA{
		Pix:    frame,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
}
