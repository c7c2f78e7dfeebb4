//go:build !tinygo && cgo

package gldev

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// GL is a [Device] backed by an OpenGL 4.6 core context. The context must be
// current on the calling OS thread before [NewGL] is called.
type GL struct {
	progs map[Program]glgl.Program
	size  func() (width, height int)
}

var _ Device = (*GL)(nil)

// NewGL initializes OpenGL function pointers for the current context.
// framebufferSize reports the drawing buffer size, usually the window framebuffer size.
func NewGL(framebufferSize func() (width, height int)) (*GL, error) {
	if framebufferSize == nil {
		return nil, errors.New("nil framebuffer size function")
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoContext, err)
	}
	return &GL{
		progs: make(map[Program]glgl.Program),
		size:  framebufferSize,
	}, nil
}

// Version returns the OpenGL version string of the current context.
func (g *GL) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (g *GL) CreateVertexArray() (VertexArray, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, glErrOrMessage("generating vertex array got zero id")
	}
	return VertexArray(vao), nil
}

func (g *GL) BindVertexArray(v VertexArray) { gl.BindVertexArray(uint32(v)) }

func (g *GL) CreateBuffer() (Buffer, error) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, glErrOrMessage("generating buffer got zero id")
	}
	return Buffer(vbo), nil
}

func (g *GL) BindBuffer(target BufferTarget, b Buffer) {
	gl.BindBuffer(glTarget(target), uint32(b))
}

func (g *GL) UploadFloat32(target BufferTarget, data []float32, usage Usage) {
	if len(data) == 0 {
		gl.BufferData(glTarget(target), 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(glTarget(target), 4*len(data), gl.Ptr(data), glUsage(usage))
}

func (g *GL) UploadUint16(target BufferTarget, data []uint16, usage Usage) {
	if len(data) == 0 {
		gl.BufferData(glTarget(target), 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(glTarget(target), 2*len(data), gl.Ptr(data), glUsage(usage))
}

func (g *GL) VertexAttribFloat(loc uint32, size int) {
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, int32(size), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (g *GL) CompileProgram(src ShaderSource) (Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   nullTerminated(src.Vertex),
		Fragment: nullTerminated(src.Fragment),
	})
	if err != nil {
		return 0, fmt.Errorf("compiling program %q: %w", src.Name, err)
	}
	p := Program(prog.ID())
	if p == 0 {
		return 0, glErrOrMessage("program " + src.Name + " got zero id")
	}
	g.progs[p] = prog
	return p, nil
}

func (g *GL) UseProgram(p Program) {
	if p == 0 {
		gl.UseProgram(0)
		return
	}
	prog := g.progs[p]
	prog.Bind()
}

func (g *GL) AttribLocation(p Program, name string) (uint32, error) {
	prog, ok := g.progs[p]
	if !ok {
		return 0, fmt.Errorf("unknown program %d", p)
	}
	return prog.AttribLocation(nullTerminated(name))
}

func (g *GL) UniformLocation(p Program, name string) (int32, error) {
	prog, ok := g.progs[p]
	if !ok {
		return -1, fmt.Errorf("unknown program %d", p)
	}
	return prog.UniformLocation(nullTerminated(name))
}

func (g *GL) Uniform1i(loc int32, v int32)   { gl.Uniform1i(loc, v) }
func (g *GL) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (g *GL) Uniform3f(loc int32, x, y, z float32) {
	gl.Uniform3f(loc, x, y, z)
}
func (g *GL) Uniform4f(loc int32, x, y, z, w float32) {
	gl.Uniform4f(loc, x, y, z, w)
}
func (g *GL) UniformMatrix4(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (g *GL) CreateTexture() (Texture, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, glErrOrMessage("generating texture got zero id")
	}
	return Texture(tex), nil
}

func (g *GL) UploadTexture(t Texture, img image.Image, params TextureParams) error {
	rgba := ToRGBA(img, params.FlipY)
	sz := rgba.Bounds().Size()
	if sz.X == 0 || sz.Y == 0 {
		return errors.New("zero sized texture image")
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	defer gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(sz.X), int32(sz.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(params.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(params.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(params.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(params.WrapT))
	if params.Mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	return glgl.Err()
}

func (g *GL) ActiveTexture(unit int) { gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) }
func (g *GL) BindTexture(t Texture)  { gl.BindTexture(gl.TEXTURE_2D, uint32(t)) }

func (g *GL) Enable(c Capability)  { gl.Enable(glCap(c)) }
func (g *GL) Disable(c Capability) { gl.Disable(glCap(c)) }
func (g *GL) BlendFunc(src, dst BlendFactor) {
	gl.BlendFunc(glBlend(src), glBlend(dst))
}

func (g *GL) ClearColor(r, gr, b, a float32) { gl.ClearColor(r, gr, b, a) }

func (g *GL) Clear(mask ClearMask) {
	var bits uint32
	if mask&ColorBufferBit != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&DepthBufferBit != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (g *GL) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (g *GL) DrawArrays(mode Primitive, first, count int) {
	gl.DrawArrays(glPrimitive(mode), int32(first), int32(count))
}

func (g *GL) DrawElements(mode Primitive, count int) {
	gl.DrawElements(glPrimitive(mode), int32(count), gl.UNSIGNED_SHORT, gl.PtrOffset(0))
}

func (g *GL) DrawingBufferSize() (int, int) { return g.size() }

func (g *GL) DeleteVertexArray(v VertexArray) {
	if v != 0 {
		id := uint32(v)
		gl.DeleteVertexArrays(1, &id)
	}
}

func (g *GL) DeleteBuffer(b Buffer) {
	if b != 0 {
		id := uint32(b)
		gl.DeleteBuffers(1, &id)
	}
}

func (g *GL) DeleteTexture(t Texture) {
	if t != 0 {
		id := uint32(t)
		gl.DeleteTextures(1, &id)
	}
}

func (g *GL) DeleteProgram(p Program) {
	prog, ok := g.progs[p]
	if !ok {
		return
	}
	prog.Delete()
	delete(g.progs, p)
}

func (g *GL) Err() error { return glgl.Err() }

func glTarget(t BufferTarget) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glUsage(u Usage) uint32 {
	if u == DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func glCap(c Capability) uint32 {
	if c == Blend {
		return gl.BLEND
	}
	return gl.DEPTH_TEST
}

func glBlend(f BlendFactor) uint32 {
	switch f {
	case Zero:
		return gl.ZERO
	case One:
		return gl.ONE
	case SrcAlpha:
		return gl.SRC_ALPHA
	case OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	panic("unknown blend factor")
}

func glPrimitive(p Primitive) uint32 {
	if p == TriangleStrip {
		return gl.TRIANGLE_STRIP
	}
	return gl.TRIANGLES
}

func glFilter(f Filter) int32 {
	switch f {
	case Nearest:
		return gl.NEAREST
	case LinearMipmapNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	}
	return gl.LINEAR
}

func glWrap(w Wrap) int32 {
	if w == ClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func nullTerminated(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
