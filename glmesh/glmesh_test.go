package glmesh_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/anim"
	"github.com/soypat/glscene/gldev"
	"github.com/soypat/glscene/glmesh"
)

var testShader = gldev.ShaderSource{Name: "test", Vertex: "void main(){}", Fragment: "void main(){}"}

func triangleData() glmesh.MeshData {
	return glmesh.MeshData{
		Name: "tri",
		Attributes: []glmesh.Attribute{
			{Name: "aVertexPosition", Size: 3, Data: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}},
			{Name: "aVertexColor", Size: 4, Data: []float32{1, 0, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1}},
		},
		Primitive: gldev.Triangles,
	}
}

func testMaterial() glmesh.MaterialConfig {
	return glmesh.MaterialConfig{
		Shader:     testShader,
		Attributes: []string{"aVertexPosition", "aVertexColor"},
		Uniforms:   []string{glmesh.UniformModelView, glmesh.UniformProjection, glmesh.UniformAlpha},
		State:      glmesh.Opaque,
	}
}

// near compares with an absolute tolerance since rotations leave float noise
// where the exact result is zero.
func near(got, want mgl32.Vec4) bool {
	return got.Sub(want).Len() < 1e-6
}

func TestModelView(t *testing.T) {
	mv := glmesh.ModelView(ms3.Vec{X: 1}, ms3.Vec{Y: 2, Z: -5}, ms3.Vec{})
	got := mv.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if got != (mgl32.Vec4{1, 2, -5, 1}) {
		t.Errorf("translation: got %v", got)
	}
	mv = glmesh.ModelView(ms3.Vec{}, ms3.Vec{}, ms3.Vec{Y: math32.Pi / 2})
	got = mv.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !near(got, mgl32.Vec4{0, 0, -1, 1}) {
		t.Errorf("rotation about y: got %v", got)
	}
	// Rotation is applied before translation.
	mv = glmesh.ModelView(ms3.Vec{}, ms3.Vec{Z: -5}, ms3.Vec{Z: math32.Pi})
	got = mv.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !near(got, mgl32.Vec4{-1, 0, -5, 1}) {
		t.Errorf("rotate then translate: got %v", got)
	}
}

func TestMeshDataValidate(t *testing.T) {
	good := triangleData()
	if err := good.Validate(); err != nil {
		t.Fatal(err)
	}
	if good.VertexCount() != 3 {
		t.Errorf("vertex count %d", good.VertexCount())
	}
	var tests = []struct {
		name string
		mod  func(*glmesh.MeshData)
	}{
		{"no attributes", func(md *glmesh.MeshData) { md.Attributes = nil }},
		{"ragged", func(md *glmesh.MeshData) { md.Attributes[1].Data = md.Attributes[1].Data[:8] }},
		{"not multiple", func(md *glmesh.MeshData) { md.Attributes[0].Data = md.Attributes[0].Data[:8] }},
		{"bad size", func(md *glmesh.MeshData) { md.Attributes[0].Size = 5 }},
		{"index range", func(md *glmesh.MeshData) { md.Indices = []uint16{0, 1, 3} }},
	}
	for _, test := range tests {
		md := triangleData()
		test.mod(&md)
		if err := md.Validate(); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestQuadIndices(t *testing.T) {
	got := glmesh.QuadIndices(2)
	want := []uint16{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v", got)
	}
	if len(glmesh.QuadIndices(0)) != 0 {
		t.Error("expected no indices")
	}
}

func TestObjectAllocatesOnce(t *testing.T) {
	dev := gldev.NewRecorder(100, 100)
	obj, err := glmesh.NewObject(dev, testMaterial(), triangleData())
	if err != nil {
		t.Fatal(err)
	}
	obj.Rotation = anim.Spin('y', 1)
	alpha := anim.Alpha
	obj.Alpha = &alpha
	allocs, uploads := dev.Allocations(), dev.Uploads
	// Program, vertex array and one buffer per attribute.
	if allocs != 4 {
		t.Errorf("construction allocated %d objects, want 4", allocs)
	}
	dev.Reset()
	for i := uint64(0); i < 50; i++ {
		f := glscene.Frame{T: i, Projection: mgl32.Ident4()}
		if err := obj.Draw(&f); err != nil {
			t.Fatal(err)
		}
	}
	if dev.Allocations() != allocs || dev.Uploads != uploads {
		t.Errorf("draws allocated: %d objects, %d uploads", dev.Allocations()-allocs, dev.Uploads-uploads)
	}
	if n := dev.Count("DrawArrays"); n != 50 {
		t.Errorf("got %d draw calls", n)
	}
	if n := dev.Count("Uniform1f"); n != 50 {
		t.Errorf("alpha uploaded %d times", n)
	}
	if !dev.Bound.Enabled[gldev.DepthTest] || dev.Bound.Enabled[gldev.Blend] {
		t.Error("opaque state not applied")
	}
	obj.Release()
	if dev.Deletes != allocs {
		t.Errorf("released %d of %d objects", dev.Deletes, allocs)
	}
}

func TestIndexedMesh(t *testing.T) {
	dev := gldev.NewRecorder(1, 1)
	data := triangleData()
	data.Indices = []uint16{0, 1, 2, 2, 1, 0}
	obj, err := glmesh.NewObject(dev, testMaterial(), data)
	if err != nil {
		t.Fatal(err)
	}
	if !obj.Mesh.Indexed() || obj.Mesh.Count != 6 {
		t.Fatalf("mesh %+v", obj.Mesh)
	}
	obj.Draw(&glscene.Frame{})
	if dev.Count("DrawElements") != 1 || dev.Count("DrawArrays") != 0 {
		t.Errorf("ops %v", dev.Ops())
	}
}

func TestMaterialErrors(t *testing.T) {
	dev := gldev.NewRecorder(1, 1)
	dev.MissingNames = map[string]bool{glmesh.UniformAlpha: true}
	_, err := glmesh.NewMaterial(dev, testMaterial())
	if err == nil {
		t.Error("expected missing uniform error")
	} else if dev.Deletes != dev.Allocations() {
		t.Error("failed material leaked its program")
	}

	dev = gldev.NewRecorder(1, 1)
	compileErr := errors.New("0:1: syntax error")
	dev.CompileErr = compileErr
	_, err = glmesh.NewObject(dev, testMaterial(), triangleData())
	if !errors.Is(err, compileErr) {
		t.Errorf("expected compile error, got %v", err)
	}

	dev = gldev.NewRecorder(1, 1)
	data := triangleData()
	data.Attributes[1].Name = "aUnknown"
	_, err = glmesh.NewObject(dev, testMaterial(), data)
	if err == nil {
		t.Error("expected unresolved attribute error")
	} else if dev.Deletes != dev.Allocations() {
		t.Errorf("failed object leaked %d GPU objects", dev.Allocations()-dev.Deletes)
	}
}

func TestRenderStateApply(t *testing.T) {
	dev := gldev.NewRecorder(1, 1)
	glmesh.Additive.Apply(dev)
	if dev.Bound.Enabled[gldev.DepthTest] || !dev.Bound.Enabled[gldev.Blend] {
		t.Error("additive state")
	}
	if dev.Bound.Blend != [2]gldev.BlendFactor{gldev.SrcAlpha, gldev.One} {
		t.Errorf("blend %v", dev.Bound.Blend)
	}
	glmesh.Glow.Apply(dev)
	if dev.Bound.Blend != [2]gldev.BlendFactor{gldev.One, gldev.One} {
		t.Errorf("blend %v", dev.Bound.Blend)
	}
}
