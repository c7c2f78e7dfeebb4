package glmesh

import (
	"errors"
	"fmt"

	"github.com/soypat/glscene/gldev"
)

// Attribute is one per-vertex float attribute stored in its own buffer.
type Attribute struct {
	Name string
	// Size is the number of float32 components per vertex.
	Size int
	Data []float32
	// Usage defaults to [gldev.StaticDraw].
	Usage gldev.Usage
}

// MeshData is the vertex layout and contents of a mesh.
type MeshData struct {
	Name       string
	Attributes []Attribute
	// Indices are optional. When present the mesh is drawn with DrawElements.
	Indices   []uint16
	Primitive gldev.Primitive
}

// VertexCount returns the number of vertices described by the first attribute.
func (md *MeshData) VertexCount() int {
	if len(md.Attributes) == 0 || md.Attributes[0].Size <= 0 {
		return 0
	}
	return len(md.Attributes[0].Data) / md.Attributes[0].Size
}

// Validate checks that all attributes describe the same number of vertices
// and that indices stay in range.
func (md *MeshData) Validate() error {
	if len(md.Attributes) == 0 {
		return errors.New("mesh has no attributes")
	}
	n := md.VertexCount()
	if n == 0 {
		return errors.New("mesh has no vertices")
	}
	for _, a := range md.Attributes {
		if a.Size <= 0 || a.Size > 4 {
			return fmt.Errorf("attribute %q: bad component size %d", a.Name, a.Size)
		} else if len(a.Data)%a.Size != 0 {
			return fmt.Errorf("attribute %q: %d floats not a multiple of %d", a.Name, len(a.Data), a.Size)
		} else if len(a.Data)/a.Size != n {
			return fmt.Errorf("attribute %q: %d vertices, want %d", a.Name, len(a.Data)/a.Size, n)
		}
	}
	for _, idx := range md.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d out of range of %d vertices", idx, n)
		}
	}
	return nil
}

// Mesh holds the GPU resident geometry of a drawable. It is created once and
// never reallocated.
type Mesh struct {
	Name      string
	VAO       gldev.VertexArray
	Buffers   []gldev.Buffer
	Index     gldev.Buffer
	Count     int
	Primitive gldev.Primitive
}

// NewMesh uploads data and records the attribute layout in a new vertex array,
// using the attribute locations resolved by mat.
func NewMesh(dev gldev.Device, mat *Material, data MeshData) (_ *Mesh, err error) {
	err = data.Validate()
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", data.Name, err)
	}
	vao, err := dev.CreateVertexArray()
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		Name:      data.Name,
		VAO:       vao,
		Primitive: data.Primitive,
		Count:     data.VertexCount(),
	}
	dev.BindVertexArray(vao)
	defer func() {
		dev.BindVertexArray(0)
		if err != nil {
			m.Release(dev)
		}
	}()
	for _, a := range data.Attributes {
		loc, ok := mat.Attrib(a.Name)
		if !ok {
			return nil, fmt.Errorf("mesh %q: material has no attribute %q", data.Name, a.Name)
		}
		buf, err := CreateBuffer(dev, gldev.ArrayBuffer, a.Data, a.Usage)
		if err != nil {
			return nil, err
		}
		dev.VertexAttribFloat(loc, a.Size)
		m.Buffers = append(m.Buffers, buf)
	}
	if len(data.Indices) > 0 {
		m.Index, err = CreateIndexBuffer(dev, data.Indices)
		if err != nil {
			return nil, err
		}
		m.Count = len(data.Indices)
	}
	return m, nil
}

// Indexed reports whether the mesh is drawn from an element buffer.
func (m *Mesh) Indexed() bool { return m.Index != 0 }

// Bind binds the mesh vertex array.
func (m *Mesh) Bind(dev gldev.Device) { dev.BindVertexArray(m.VAO) }

// Draw issues the draw call for the whole mesh. The mesh must be bound.
func (m *Mesh) Draw(dev gldev.Device) {
	if m.Indexed() {
		dev.DrawElements(m.Primitive, m.Count)
	} else {
		dev.DrawArrays(m.Primitive, 0, m.Count)
	}
}

// CreateBuffer creates an array buffer and uploads data to it. The buffer is left bound.
func CreateBuffer(dev gldev.Device, target gldev.BufferTarget, data []float32, usage gldev.Usage) (gldev.Buffer, error) {
	buf, err := dev.CreateBuffer()
	if err != nil {
		return 0, err
	}
	dev.BindBuffer(target, buf)
	dev.UploadFloat32(target, data, usage)
	return buf, nil
}

// CreateIndexBuffer creates an element buffer with static indices. The buffer is left bound.
func CreateIndexBuffer(dev gldev.Device, indices []uint16) (gldev.Buffer, error) {
	buf, err := dev.CreateBuffer()
	if err != nil {
		return 0, err
	}
	dev.BindBuffer(gldev.ElementArrayBuffer, buf)
	dev.UploadUint16(gldev.ElementArrayBuffer, indices, gldev.StaticDraw)
	return buf, nil
}

// QuadIndices returns two triangles per quad for n quads laid out as
// consecutive groups of 4 vertices.
func QuadIndices(n int) []uint16 {
	idx := make([]uint16, 0, 6*n)
	for i := 0; i < n; i++ {
		b := uint16(4 * i)
		idx = append(idx, b, b+1, b+2, b, b+2, b+3)
	}
	return idx
}

// Release deletes the mesh buffers and vertex array.
func (m *Mesh) Release(dev gldev.Device) {
	for _, buf := range m.Buffers {
		dev.DeleteBuffer(buf)
	}
	dev.DeleteBuffer(m.Index)
	dev.DeleteVertexArray(m.VAO)
	*m = Mesh{Name: m.Name}
}
