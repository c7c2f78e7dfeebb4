// Package gldev defines the narrow graphics device boundary used by drawables.
// The core never compiles shaders or decodes images itself, it only
// orchestrates calls against a [Device].
package gldev

import (
	"errors"
	"image"
)

// ErrNoContext is returned when no compatible graphics context is available.
var ErrNoContext = errors.New("gldev: no graphics context available")

// GPU resource handles. The zero value of every handle is the "none" handle,
// binding it unbinds the resource.
type (
	Buffer      uint32
	Texture     uint32
	Program     uint32
	VertexArray uint32
)

type BufferTarget uint8

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Usage is a buffer storage hint.
type Usage uint8

const (
	StaticDraw Usage = iota
	DynamicDraw
)

type Capability uint8

const (
	DepthTest Capability = iota
	Blend
)

type BlendFactor uint8

const (
	Zero BlendFactor = iota
	One
	SrcAlpha
	OneMinusSrcAlpha
)

type Primitive uint8

const (
	Triangles Primitive = iota
	TriangleStrip
)

type ClearMask uint8

const (
	ColorBufferBit ClearMask = 1 << iota
	DepthBufferBit
)

type Filter uint8

const (
	Linear Filter = iota
	Nearest
	LinearMipmapNearest
)

type Wrap uint8

const (
	Repeat Wrap = iota
	ClampToEdge
)

// TextureParams are the sampling parameters applied when uploading image data.
type TextureParams struct {
	MinFilter Filter
	MagFilter Filter
	WrapS     Wrap
	WrapT     Wrap
	// FlipY flips the image vertically before upload so that texture
	// coordinate (0,0) maps to the bottom left pixel of the source image.
	FlipY bool
	// Mipmap generates mipmaps after upload.
	Mipmap bool
}

// DefaultTextureParams returns linear filtering with repeat wrapping, flipped Y and mipmaps.
func DefaultTextureParams() TextureParams {
	return TextureParams{
		MinFilter: Linear,
		MagFilter: Linear,
		FlipY:     true,
		Mipmap:    true,
	}
}

// ShaderSource is a named vertex and fragment shader pair.
type ShaderSource struct {
	// Name identifies the program in errors and logs.
	Name     string
	Vertex   string
	Fragment string
}

// Device is the host graphics context. Implementations are not safe for
// concurrent use and must be called from the goroutine owning the context.
type Device interface {
	CreateVertexArray() (VertexArray, error)
	BindVertexArray(VertexArray)

	CreateBuffer() (Buffer, error)
	BindBuffer(BufferTarget, Buffer)
	// UploadFloat32 replaces the contents of the buffer bound to target.
	UploadFloat32(target BufferTarget, data []float32, usage Usage)
	// UploadUint16 replaces the contents of the buffer bound to target.
	UploadUint16(target BufferTarget, data []uint16, usage Usage)
	// VertexAttribFloat enables the attribute at loc and points it at the
	// currently bound array buffer with size tightly packed float32 components.
	VertexAttribFloat(loc uint32, size int)

	// CompileProgram compiles and links a program. Errors carry the compiler diagnostic.
	CompileProgram(ShaderSource) (Program, error)
	UseProgram(Program)
	AttribLocation(p Program, name string) (uint32, error)
	UniformLocation(p Program, name string) (int32, error)
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix4(loc int32, m *[16]float32)

	CreateTexture() (Texture, error)
	UploadTexture(t Texture, img image.Image, params TextureParams) error
	ActiveTexture(unit int)
	BindTexture(Texture)

	Enable(Capability)
	Disable(Capability)
	BlendFunc(src, dst BlendFactor)

	ClearColor(r, g, b, a float32)
	Clear(ClearMask)
	Viewport(x, y, width, height int)
	// DrawArrays draws count vertices starting at first.
	DrawArrays(mode Primitive, first, count int)
	// DrawElements draws count uint16 indices of the bound element buffer.
	DrawElements(mode Primitive, count int)
	// DrawingBufferSize returns the size in pixels of the default framebuffer.
	DrawingBufferSize() (width, height int)

	// Delete releases GPU objects. Deleting the zero handle is a no-op.
	DeleteVertexArray(VertexArray)
	DeleteBuffer(Buffer)
	DeleteTexture(Texture)
	DeleteProgram(Program)

	// Err returns the first pending device error, if any.
	Err() error
}
