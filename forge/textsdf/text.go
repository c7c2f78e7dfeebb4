package textsdf

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/assets"
	"github.com/soypat/glscene/gldev"
	"github.com/soypat/glscene/glmesh"
)

// Text shader uniform names.
const (
	uniformProjection = "projectionMatrix"
	uniformColor      = "color"
	uniformBgColor    = "bgColor"
	uniformPxRange    = "pxRange"
)

// Fallback is drawn in place of runes missing from the atlas.
const Fallback = '?'

// glyphDepth places glyph quads inside the orthographic clip volume.
const glyphDepth = -0.1

// FixedText draws a line of text at a fixed pixel position on screen,
// unaffected by the scene offset. Glyphs are drawn one quad at a time,
// re-uploading the texture coordinates of each glyph to a single dynamic buffer.
type FixedText struct {
	Text  []rune
	X, Y  float32
	Size  float32
	Color mgl32.Vec4
	// Background is blended where the glyph is absent.
	Background mgl32.Vec4

	layout AtlasLayout
	dev    gldev.Device
	mesh   *glmesh.Mesh
	mat    *glmesh.Material
	coords [8]float32
}

var _ glscene.Drawable = (*FixedText)(nil)

// NewFixedText uploads atlas and prepares a single glyph quad. Runes of
// cfg.Text not rendered in atlas are replaced by [Fallback].
func NewFixedText(dev gldev.Device, cfg glscene.TextConfig, atlas *Atlas) (*FixedText, error) {
	params := gldev.TextureParams{
		MinFilter: gldev.Linear,
		MagFilter: gldev.Linear,
		WrapS:     gldev.ClampToEdge,
		WrapT:     gldev.ClampToEdge,
		FlipY:     true,
	}
	mat, err := glmesh.NewMaterial(dev, glmesh.MaterialConfig{
		Shader:     assets.SDFTextShader(),
		Attributes: []string{"aVertexPosition", "aTextureCoordinate"},
		Uniforms: []string{
			glmesh.UniformModelView, uniformProjection,
			uniformColor, uniformBgColor, uniformPxRange,
		},
		Textured:      true,
		Sampler:       "msdf",
		Image:         atlas.Image,
		TextureParams: params,
		State:         glmesh.Opaque,
	})
	if err != nil {
		return nil, err
	}
	mesh, err := glmesh.NewMesh(dev, mat, glyphQuad())
	if err != nil {
		mat.Release(dev)
		return nil, err
	}
	text := []rune(cfg.Text)
	for i, c := range text {
		if !atlas.Has(c) {
			text[i] = Fallback
		}
	}
	return &FixedText{
		Text:       text,
		X:          cfg.X,
		Y:          cfg.Y,
		Size:       cfg.Size,
		Color:      mgl32.Vec4(cfg.Color),
		Background: mgl32.Vec4(cfg.Background),
		layout:     atlas.Layout,
		dev:        dev,
		mesh:       mesh,
		mat:        mat,
	}, nil
}

func glyphQuad() glmesh.MeshData {
	const z = glyphDepth
	return glmesh.MeshData{
		Name: "glyph",
		Attributes: []glmesh.Attribute{
			{Name: "aVertexPosition", Size: 3, Data: []float32{
				0, 0, z,
				1, 0, z,
				1, 1, z,
				0, 1, z,
			}},
			{Name: "aTextureCoordinate", Size: 2, Data: make([]float32, 8), Usage: gldev.DynamicDraw},
		},
		Indices:   glmesh.QuadIndices(1),
		Primitive: gldev.Triangles,
	}
}

// Projection returns the orthographic projection mapping pixels to clip
// space with the origin at the bottom left of the drawing buffer.
func Projection(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), 0, float32(height), 0.1, 1000)
}

// Draw renders every glyph as a Size by Size square advancing Size pixels to the right.
func (ft *FixedText) Draw(f *glscene.Frame) error {
	dev := ft.dev
	ft.mat.Use(dev)
	ft.mesh.Bind(dev)
	proj := Projection(f.Width, f.Height)
	ft.mat.SetMat4(dev, uniformProjection, &proj)
	ft.mat.SetVec4(dev, uniformColor, ft.Color)
	ft.mat.SetVec4(dev, uniformBgColor, ft.Background)
	// The shader expects the full span of the field, edge to edge.
	ft.mat.SetFloat(dev, uniformPxRange, 2*ft.layout.PxRange)
	coordBuf := ft.mesh.Buffers[1]
	for i, c := range ft.Text {
		ft.coords = ft.layout.TexCoords(c)
		dev.BindBuffer(gldev.ArrayBuffer, coordBuf)
		dev.UploadFloat32(gldev.ArrayBuffer, ft.coords[:], gldev.DynamicDraw)
		mv := mgl32.Translate3D(ft.X+ft.Size*float32(i), ft.Y, 0).Mul4(mgl32.Scale3D(ft.Size, ft.Size, 1))
		ft.mat.SetMat4(dev, glmesh.UniformModelView, &mv)
		ft.mesh.Draw(dev)
	}
	dev.BindVertexArray(0)
	return nil
}

// Release frees the glyph quad buffers and atlas texture.
func (ft *FixedText) Release() error {
	ft.mesh.Release(ft.dev)
	ft.mat.Release(ft.dev)
	return nil
}
