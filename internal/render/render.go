// Package render implements the GPU-assisted YUV renderer: an OpenGL
// context created on the window SDL owns, three single-channel R8
// textures (Y full resolution, U/V half resolution), and a fragment
// shader that performs BT.601 full-range YUV->RGB conversion while the
// vertex shader applies an aspect-fit uniform so the content letterboxes
// inside the surface instead of stretching.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/cowby123/mirror-go/internal/h264"
	"github.com/cowby123/mirror-go/internal/logx"
)

// quad vertices: position (x,y) in clip space, UV (u,v). Two triangles
// covering [-1,1]^2, six vertices total (no index buffer, matching the
// spec's "single draw of six vertices" contract).
var quadVertices = []float32{
	// x, y, u, v
	-1, -1, 0, 1,
	1, -1, 1, 1,
	1, 1, 1, 0,

	-1, -1, 0, 1,
	1, 1, 1, 0,
	-1, 1, 0, 0,
}

// Renderer owns all GPU state for one video resolution. A resolution
// change is handled by discarding this Renderer and constructing a new
// one (see internal/app) rather than resizing textures in place.
type Renderer struct {
	window  *sdl.Window
	glCtx   sdl.GLContext
	program uint32
	vao     uint32
	vbo     uint32

	texY, texU, texV uint32

	scaleUniform int32

	frameW, frameH int
	surfW, surfH   int
}

// New creates a GL context on window, compiles the YUV shader, and
// allocates textures sized for (w,h). sw,sh is the current window
// (surface) size, used for the initial aspect-fit uniform.
func New(window *sdl.Window, w, h, sw, sh int) (*Renderer, error) {
	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE); err != nil {
		return nil, fmt.Errorf("gl attribute: %w", err)
	}
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	// Video pixels are already gamma-encoded; requesting an sRGB-capable
	// default framebuffer here would double-correct, so it is left off.

	glCtx, err := window.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("gl context: %w", err)
	}
	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(glCtx)
		return nil, fmt.Errorf("gl init: %w", err)
	}

	setPreferredSwapInterval()

	program, err := newProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		sdl.GLDeleteContext(glCtx)
		return nil, err
	}

	r := &Renderer{
		window:  window,
		glCtx:   glCtx,
		program: program,
		frameW:  w, frameH: h,
		surfW: sw, surfH: sh,
	}

	r.scaleUniform = gl.GetUniformLocation(program, gl.Str("scale\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	r.texY = newPlaneTexture(w, h)
	r.texU = newPlaneTexture(w/2, h/2)
	r.texV = newPlaneTexture(w/2, h/2)

	gl.UseProgram(program)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("texY\x00")), 0)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("texU\x00")), 1)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("texV\x00")), 2)

	gl.Viewport(0, 0, int32(sw), int32(sh))
	return r, nil
}

// setPreferredSwapInterval tries adaptive vsync first (the GL analogue of
// a mailbox present mode — new frames replace queued ones without
// tearing), then immediate (no sync), then standard vsync as a last
// resort, mirroring the Mailbox > Immediate > Fifo preference order.
func setPreferredSwapInterval() {
	if err := sdl.GLSetSwapInterval(-1); err == nil {
		return
	}
	if err := sdl.GLSetSwapInterval(0); err == nil {
		return
	}
	if err := sdl.GLSetSwapInterval(1); err != nil {
		logx.Errorf("RENDER", "failed to set any swap interval: %v", err)
	}
}

func newPlaneTexture(w, h int) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, nil)
	return tex
}

// Dimensions reports the frame resolution this Renderer's textures were
// built for, used by the app loop to decide whether a rebuild is needed.
func (r *Renderer) Dimensions() (w, h int) { return r.frameW, r.frameH }

// Resize reconfigures the viewport and aspect uniform for a new window
// (surface) size. It does not touch the frame textures.
func (r *Renderer) Resize(sw, sh int) {
	r.surfW, r.surfH = sw, sh
	gl.Viewport(0, 0, int32(sw), int32(sh))
}

// Render uploads a frame's three planes and draws one aspect-fit quad.
// The frame's stride equals its plane width (the decoder packs strides
// to content width), so bytes_per_row is simply the texture width.
func (r *Renderer) Render(frame *h264.YuvFrame) error {
	uploadPlane(r.texY, 0, frame.Width, frame.Height, frame.Y)
	uploadPlane(r.texU, 1, frame.Width/2, frame.Height/2, frame.U)
	uploadPlane(r.texV, 2, frame.Width/2, frame.Height/2, frame.V)

	sx, sy := ComputeAspectScale(frame.Width, frame.Height, r.surfW, r.surfH)

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.Uniform2f(r.scaleUniform, sx, sy)
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	r.window.GLSwap()
	return nil
}

func uploadPlane(tex uint32, unit int32, w, h int, data []byte) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(data))
}

// Close releases GPU resources and destroys the GL context. The SDL
// window itself outlives the renderer.
func (r *Renderer) Close() {
	gl.DeleteTextures(1, &r.texY)
	gl.DeleteTextures(1, &r.texU)
	gl.DeleteTextures(1, &r.texV)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
	sdl.GLDeleteContext(r.glCtx)
}
