package gldev

import (
	"errors"
	"fmt"
	"image"
)

// Call is a single recorded device call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprint(c.Op, c.Args)
}

// Recorder is a [Device] that performs no rendering and records every call.
// It hands out sequential handles and locations, which makes it suitable for
// testing resource lifetimes and draw call sequencing without a GPU.
type Recorder struct {
	Calls []Call
	// Width and Height are returned by DrawingBufferSize.
	Width, Height int
	// CompileErr, if set, is returned by CompileProgram.
	CompileErr error
	// MissingNames lists attribute or uniform names that fail to resolve.
	MissingNames map[string]bool

	nextHandle uint32
	locs       map[Program]map[string]int32
	// Allocation counters.
	VertexArrays, Buffers, Textures, Programs int
	Uploads, TextureUploads                  int
	Deletes                                  int
	// Bound state.
	Bound struct {
		Program     Program
		VertexArray VertexArray
		Texture     Texture
		Buffer      [2]Buffer
		Enabled     map[Capability]bool
		Blend       [2]BlendFactor
	}
}

var _ Device = (*Recorder)(nil)

// NewRecorder returns a Recorder with the given drawing buffer size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.nextHandle++
	return r.nextHandle
}

// Count returns the number of recorded calls with the given op name.
func (r *Recorder) Count(op string) (n int) {
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded op names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset discards recorded calls. Counters and handles are kept.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Allocations returns the total number of GPU objects created.
func (r *Recorder) Allocations() int {
	return r.VertexArrays + r.Buffers + r.Textures + r.Programs
}

func (r *Recorder) CreateVertexArray() (VertexArray, error) {
	r.VertexArrays++
	h := VertexArray(r.handle())
	r.record("CreateVertexArray", h)
	return h, nil
}

func (r *Recorder) BindVertexArray(v VertexArray) {
	r.Bound.VertexArray = v
	r.record("BindVertexArray", v)
}

func (r *Recorder) CreateBuffer() (Buffer, error) {
	r.Buffers++
	h := Buffer(r.handle())
	r.record("CreateBuffer", h)
	return h, nil
}

func (r *Recorder) BindBuffer(target BufferTarget, b Buffer) {
	r.Bound.Buffer[target] = b
	r.record("BindBuffer", target, b)
}

func (r *Recorder) UploadFloat32(target BufferTarget, data []float32, usage Usage) {
	r.Uploads++
	r.record("UploadFloat32", target, append([]float32(nil), data...), usage)
}

func (r *Recorder) UploadUint16(target BufferTarget, data []uint16, usage Usage) {
	r.Uploads++
	r.record("UploadUint16", target, append([]uint16(nil), data...), usage)
}

func (r *Recorder) VertexAttribFloat(loc uint32, size int) {
	r.record("VertexAttribFloat", loc, size)
}

func (r *Recorder) CompileProgram(src ShaderSource) (Program, error) {
	if r.CompileErr != nil {
		return 0, fmt.Errorf("compiling %q: %w", src.Name, r.CompileErr)
	} else if src.Vertex == "" || src.Fragment == "" {
		return 0, fmt.Errorf("compiling %q: empty shader source", src.Name)
	}
	r.Programs++
	h := Program(r.handle())
	r.record("CompileProgram", src.Name, h)
	return h, nil
}

func (r *Recorder) UseProgram(p Program) {
	r.Bound.Program = p
	r.record("UseProgram", p)
}

func (r *Recorder) location(p Program, name string) (int32, error) {
	if r.MissingNames[name] {
		return -1, fmt.Errorf("location %q not found in program %d", name, p)
	}
	if r.locs == nil {
		r.locs = make(map[Program]map[string]int32)
	}
	m := r.locs[p]
	if m == nil {
		m = make(map[string]int32)
		r.locs[p] = m
	}
	loc, ok := m[name]
	if !ok {
		loc = int32(len(m))
		m[name] = loc
	}
	return loc, nil
}

func (r *Recorder) AttribLocation(p Program, name string) (uint32, error) {
	loc, err := r.location(p, name)
	if err != nil {
		return 0, err
	}
	r.record("AttribLocation", p, name)
	return uint32(loc), nil
}

func (r *Recorder) UniformLocation(p Program, name string) (int32, error) {
	loc, err := r.location(p, name)
	if err != nil {
		return -1, err
	}
	r.record("UniformLocation", p, name)
	return loc, nil
}

func (r *Recorder) Uniform1i(loc int32, v int32)   { r.record("Uniform1i", loc, v) }
func (r *Recorder) Uniform1f(loc int32, v float32) { r.record("Uniform1f", loc, v) }
func (r *Recorder) Uniform3f(loc int32, x, y, z float32) {
	r.record("Uniform3f", loc, x, y, z)
}
func (r *Recorder) Uniform4f(loc int32, x, y, z, w float32) {
	r.record("Uniform4f", loc, x, y, z, w)
}
func (r *Recorder) UniformMatrix4(loc int32, m *[16]float32) {
	r.record("UniformMatrix4", loc, *m)
}

func (r *Recorder) CreateTexture() (Texture, error) {
	r.Textures++
	h := Texture(r.handle())
	r.record("CreateTexture", h)
	return h, nil
}

func (r *Recorder) UploadTexture(t Texture, img image.Image, params TextureParams) error {
	if t == 0 {
		return errors.New("upload to zero texture")
	} else if img == nil {
		return errors.New("nil image")
	}
	r.TextureUploads++
	r.record("UploadTexture", t, img.Bounds(), params)
	return nil
}

func (r *Recorder) ActiveTexture(unit int) { r.record("ActiveTexture", unit) }

func (r *Recorder) BindTexture(t Texture) {
	r.Bound.Texture = t
	r.record("BindTexture", t)
}

func (r *Recorder) Enable(c Capability) {
	r.setCap(c, true)
	r.record("Enable", c)
}

func (r *Recorder) Disable(c Capability) {
	r.setCap(c, false)
	r.record("Disable", c)
}

func (r *Recorder) setCap(c Capability, v bool) {
	if r.Bound.Enabled == nil {
		r.Bound.Enabled = make(map[Capability]bool)
	}
	r.Bound.Enabled[c] = v
}

func (r *Recorder) BlendFunc(src, dst BlendFactor) {
	r.Bound.Blend = [2]BlendFactor{src, dst}
	r.record("BlendFunc", src, dst)
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) { r.record("ClearColor", cr, cg, cb, ca) }
func (r *Recorder) Clear(mask ClearMask)              { r.record("Clear", mask) }
func (r *Recorder) Viewport(x, y, width, height int) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) DrawArrays(mode Primitive, first, count int) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) DrawElements(mode Primitive, count int) {
	r.record("DrawElements", mode, count)
}

func (r *Recorder) DrawingBufferSize() (int, int) { return r.Width, r.Height }

func (r *Recorder) DeleteVertexArray(v VertexArray) { r.del("DeleteVertexArray", uint32(v)) }
func (r *Recorder) DeleteBuffer(b Buffer)            { r.del("DeleteBuffer", uint32(b)) }
func (r *Recorder) DeleteTexture(t Texture)          { r.del("DeleteTexture", uint32(t)) }
func (r *Recorder) DeleteProgram(p Program)          { r.del("DeleteProgram", uint32(p)) }

func (r *Recorder) del(op string, h uint32) {
	if h == 0 {
		return
	}
	r.Deletes++
	r.record(op, h)
}

func (r *Recorder) Err() error { return nil }
