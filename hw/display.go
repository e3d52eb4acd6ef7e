package hw

import (
	"chipper/hw/hwdefs"
	"chipper/hw/hwio"
)

const (
	Width  = hwdefs.ScreenWidth
	Height = hwdefs.ScreenHeight
)

// Framebuffer is the monochrome display, row-major, one bool per pixel.
type Framebuffer [Width * Height]bool

// Pixel reports whether the pixel at (x, y) is lit. Coordinates wrap around
// the screen edges.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb[pixelIndex(x, y)]
}

// Lit returns the number of lit pixels.
func (fb *Framebuffer) Lit() int {
	n := 0
	for _, px := range fb {
		if px {
			n++
		}
	}
	return n
}

func (fb *Framebuffer) clear() {
	clear(fb[:])
}

// drawSprite XORs a sprite into the framebuffer, the top left corner at
// (x, y). Each row is one byte, the most significant bit on the left. Pixels
// falling off an edge wrap around to the opposite edge. It reports whether
// any lit pixel got erased.
func (fb *Framebuffer) drawSprite(x, y uint8, rows []byte) (collision bool) {
	for dy, row := range rows {
		for dx := range 8 {
			if !hwio.GetBit8(row, uint(7-dx)) {
				continue
			}
			idx := pixelIndex(int(x)+dx, int(y)+dy)
			if fb[idx] {
				collision = true
			}
			fb[idx] = !fb[idx]
		}
	}
	return collision
}

func pixelIndex(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}
