package emu

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"chipper/emu/log"
	"chipper/hw"
)

type WindowConfig struct {
	Title        string
	Scale        int
	Monitor      int32
	DisableVSync bool
}

// WindowOutput shows video frames in an OpenGL window.
type WindowOutput struct {
	w *window

	framebuf [2][]byte
	cur      int

	hotkeys map[sdl.Scancode]func()
	closed  bool
}

func NewWindowOutput(cfg WindowConfig) (*WindowOutput, error) {
	w, err := newWindow(cfg, hw.Width, hw.Height)
	if err != nil {
		return nil, err
	}
	return &WindowOutput{
		w: w,
		framebuf: [2][]byte{
			make([]byte, frameSize),
			make([]byte, frameSize),
		},
		hotkeys: make(map[sdl.Scancode]func()),
	}, nil
}

// SetHotkey registers a function to call when the given key gets pressed.
func (wo *WindowOutput) SetHotkey(sc sdl.Scancode, f func()) {
	wo.hotkeys[sc] = f
}

func (wo *WindowOutput) BeginFrame() []byte {
	return wo.framebuf[1-wo.cur]
}

func (wo *WindowOutput) EndFrame(frame []byte) {
	wo.cur = 1 - wo.cur
	sdl.Do(func() { wo.w.render(frame) })
}

func (wo *WindowOutput) Poll() bool {
	sdl.Do(func() {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				wo.closed = true
			case *sdl.KeyboardEvent:
				if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
					break
				}
				if f, ok := wo.hotkeys[ev.Keysym.Scancode]; ok {
					f()
				}
			}
		}
	})
	return !wo.closed
}

func (wo *WindowOutput) Screenshot() *image.RGBA {
	frame := make([]byte, frameSize)
	copy(frame, wo.framebuf[wo.cur])
	return FramebufImage(frame, hw.Width, hw.Height)
}

// FocusWindow raises the window above others and sets the input focus.
func (wo *WindowOutput) FocusWindow() {
	sdl.Do(func() { wo.w.Raise() })
}

func (wo *WindowOutput) Close() error {
	return wo.w.Close()
}

type window struct {
	*sdl.Window
	prog    uint32
	texture uint32
	vao     uint32
	context sdl.GLContext

	texw, texh int32
}

// create opengl window with a full screen texture buffer of size (texw, texh).
func newWindow(cfg WindowConfig, texw, texh int) (*window, error) {
	type result struct {
		w   *window
		err error
	}
	errc := make(chan result, 1)
	sdl.Do(func() {
		w, err := _newWindow(cfg, texw, texh)
		errc <- result{w, err}
	})
	res := <-errc
	return res.w, res.err
}

func _newWindow(cfg WindowConfig, texw, texh int) (*window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %s", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	monitor := cfg.Monitor
	if n, err := sdl.GetNumVideoDisplays(); err == nil && (monitor < 0 || int(monitor) >= n) {
		log.ModVideo.WarnZ("Invalid monitor index, using the first one").
			Int("monitor", int(monitor)).
			Int("monitors", n).
			End()
		monitor = 0
	}

	winw := int32(texw * cfg.Scale)
	winh := int32(texh * cfg.Scale)
	pos := int32(sdl.WINDOWPOS_CENTERED_MASK) | monitor
	w, err := sdl.CreateWindow(cfg.Title, pos, pos, winw, winh,
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %s", err)
	}

	context, err := w.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL context: %s", err)
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize opengl: %s", err)
	}

	interval := 1
	if cfg.DisableVSync {
		interval = 0
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.ModVideo.WarnZ("Failed to set swap interval").Error("err", err).End()
	}

	// Create empty texture buffer.
	tbuf := make([]byte, texw*texh*4)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(texw), int32(texh), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&tbuf[0]))

	vert, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader compilation: %s", err)
	}

	frag, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader compilation: %s", err)
	}

	prog, err := linkProgram(vert, frag)
	if err != nil {
		return nil, fmt.Errorf("shader program link: %s", err)
	}

	var VBO, VAO, EBO uint32
	gl.GenVertexArrays(1, &VAO)
	gl.GenBuffers(1, &VBO)
	gl.GenBuffers(1, &EBO)

	gl.BindVertexArray(VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// Position attributes
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)

	// Texture coordinate attributes.
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	log.ModVideo.InfoZ("Window created").
		Int("width", int(winw)).
		Int("height", int(winh)).
		Int("monitor", int(monitor)).
		End()

	return &window{
		Window:  w,
		prog:    prog,
		texture: texture,
		vao:     VAO,
		context: context,
		texw:    int32(texw),
		texh:    int32(texh),
	}, nil
}

// render draws an RGBA frame, keeping its aspect ratio whatever the window
// size. Must run on the SDL thread.
func (w *window) render(frame []byte) {
	dw, dh := w.GLGetDrawableSize()
	vw, vh := dw, dw*w.texh/w.texw
	if vh > dh {
		vw, vh = dh*w.texw/w.texh, dh
	}
	gl.Viewport((dw-vw)/2, (dh-vh)/2, vw, vh)

	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(w.prog)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w.texw, w.texh, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&frame[0]))

	gl.BindVertexArray(w.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	w.GLSwap()
}

func (w *window) Close() error {
	errc := make(chan error, 1)
	sdl.Do(func() {
		if w.context != nil {
			sdl.GLDeleteContext(w.context)
		}
		err := w.Destroy()
		sdl.Quit()
		errc <- err
	})
	return <-errc
}

// Columns are position and texture coordinates.
// Rows are the quad vertices in clockwise order.
var vertices = []float32{
	// x, y, z, s, t
	1.0, 1.0, 0, 1, 0, // top right
	1.0, -1.0, 0, 1, 1, // bottom right
	-1.0, -1.0, 0, 0, 1, // bottom left
	-1.0, 1.0, 0, 0, 0, // top left
}

var indices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

const fragmentShaderSource = `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;

uniform sampler2D screen;

void main() {
    FragColor = texture(screen, TexCoord);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(source)
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status); status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)

		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(sh, logLength, nil, &log[0])

		return 0, fmt.Errorf("shader compile error: %v", string(log))
	}

	return sh, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	prg := gl.CreateProgram()
	gl.AttachShader(prg, vertexShader)
	gl.AttachShader(prg, fragmentShader)
	gl.LinkProgram(prg)

	var status int32
	if gl.GetProgramiv(prg, gl.LINK_STATUS, &status); status == gl.FALSE {
		var logLength int32
		var glLog [256]byte
		gl.GetProgramInfoLog(prg, int32(len(glLog)), &logLength, &glLog[0])
		return 0, fmt.Errorf("shader program link error: %v", string(glLog[:logLength]))
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return prg, nil
}
