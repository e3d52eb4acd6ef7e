package emu

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"chipper/hw"
)

// Output shows video frames. A frame is obtained with BeginFrame, filled
// then handed back with EndFrame.
type Output interface {
	BeginFrame() []byte
	EndFrame([]byte)
	// Poll processes pending events, it returns false once the output has
	// been closed by the user.
	Poll() bool
	Close() error
	Screenshot() *image.RGBA
}

// HeadlessOutput is an Output that keeps the last video frame in memory.
type HeadlessOutput struct {
	framebuf [2][]byte
	cur      int // index of the last completed frame

	Frames int64 // completed frames
}

func NewHeadlessOutput() *HeadlessOutput {
	return &HeadlessOutput{
		framebuf: [2][]byte{
			make([]byte, frameSize),
			make([]byte, frameSize),
		},
	}
}

func (ho *HeadlessOutput) BeginFrame() []byte {
	return ho.framebuf[1-ho.cur]
}

func (ho *HeadlessOutput) EndFrame(frame []byte) {
	if &frame[0] == &ho.framebuf[1-ho.cur][0] {
		ho.cur = 1 - ho.cur
	}
	ho.Frames++
}

func (ho *HeadlessOutput) Poll() bool   { return true }
func (ho *HeadlessOutput) Close() error { return nil }

// Screenshot returns a copy of the last completed frame.
func (ho *HeadlessOutput) Screenshot() *image.RGBA {
	frame := make([]byte, frameSize)
	copy(frame, ho.framebuf[ho.cur])
	return FramebufImage(frame, hw.Width, hw.Height)
}

// SaveAsPNG writes img as a png file at path, each pixel scaled up to a
// scale×scale square.
func SaveAsPNG(img image.Image, path string, scale int) error {
	if scale > 1 {
		img = upscale(img, scale)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode: %w", err)
	}
	return f.Close()
}

func upscale(img image.Image, scale int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := range dst.Rect.Dy() {
		for x := range dst.Rect.Dx() {
			dst.Set(x, y, img.At(b.Min.X+x/scale, b.Min.Y+y/scale))
		}
	}
	return dst
}
