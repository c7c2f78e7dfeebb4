package gldev

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestToRGBAFlip(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 4, 6)) // Non-zero origin.
	src.SetGray(2, 3, color.Gray{Y: 10})         // Top row.
	src.SetGray(3, 5, color.Gray{Y: 200})        // Bottom row.

	got := ToRGBA(src, false)
	if got.Bounds() != image.Rect(0, 0, 2, 3) {
		t.Fatal("unexpected bounds", got.Bounds())
	}
	if got.RGBAAt(0, 0).R != 10 || got.RGBAAt(1, 2).R != 200 {
		t.Error("unflipped image contents moved", got.RGBAAt(0, 0), got.RGBAAt(1, 2))
	}

	flipped := ToRGBA(src, true)
	if flipped.RGBAAt(0, 2).R != 10 {
		t.Error("top row should become bottom row, got", flipped.RGBAAt(0, 2))
	}
	if flipped.RGBAAt(1, 0).R != 200 {
		t.Error("bottom row should become top row, got", flipped.RGBAAt(1, 0))
	}
}

func TestToRGBAFlipDoesNotMutateSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	ToRGBA(src, true)
	if src.RGBAAt(0, 0).R != 1 {
		t.Error("source image was modified by flip")
	}
}

func TestRecorderHandlesAndLocations(t *testing.T) {
	r := NewRecorder(640, 480)
	vao, _ := r.CreateVertexArray()
	buf, _ := r.CreateBuffer()
	if vao == 0 || buf == 0 || uint32(vao) == uint32(buf) {
		t.Fatal("expected distinct non-zero handles", vao, buf)
	}
	prog, err := r.CompileProgram(ShaderSource{Name: "p", Vertex: "v", Fragment: "f"})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := r.UniformLocation(prog, "a")
	b, _ := r.UniformLocation(prog, "b")
	a2, _ := r.UniformLocation(prog, "a")
	if a == b || a != a2 {
		t.Error("locations should be stable per name and distinct across names", a, b, a2)
	}
	r.MissingNames = map[string]bool{"gone": true}
	if _, err := r.AttribLocation(prog, "gone"); err == nil {
		t.Error("expected missing attribute error")
	}
	if r.Allocations() != 3 {
		t.Error("want 3 allocations, got", r.Allocations())
	}
	if w, h := r.DrawingBufferSize(); w != 640 || h != 480 {
		t.Error("bad drawing buffer size", w, h)
	}
}

func TestRecorderCompileError(t *testing.T) {
	r := NewRecorder(1, 1)
	errCompile := errors.New("0:1: syntax error")
	r.CompileErr = errCompile
	_, err := r.CompileProgram(ShaderSource{Name: "broken", Vertex: "v", Fragment: "f"})
	if !errors.Is(err, errCompile) {
		t.Fatal("expected wrapped compile error, got", err)
	}
	if r.Programs != 0 {
		t.Error("failed compile should not allocate a program")
	}
}

func TestRecorderBoundState(t *testing.T) {
	r := NewRecorder(1, 1)
	r.Enable(Blend)
	r.BlendFunc(SrcAlpha, One)
	r.Disable(DepthTest)
	if !r.Bound.Enabled[Blend] || r.Bound.Enabled[DepthTest] {
		t.Error("capability state not tracked", r.Bound.Enabled)
	}
	if r.Bound.Blend != [2]BlendFactor{SrcAlpha, One} {
		t.Error("blend func not tracked", r.Bound.Blend)
	}
	if r.Count("Enable") != 1 || r.Count("Disable") != 1 {
		t.Error("bad call counts", r.Ops())
	}
	r.Reset()
	if len(r.Calls) != 0 {
		t.Error("reset did not clear calls")
	}
}
