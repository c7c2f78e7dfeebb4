// Package shapes provides the solid drawables of the scene: a textured
// ground plane, a vertex colored pyramid and a translucent glass cube.
package shapes

import (
	"image"
	"image/color"

	"github.com/soypat/glscene"
	"github.com/soypat/glscene/anim"
	"github.com/soypat/glscene/assets"
	"github.com/soypat/glscene/gldev"
	"github.com/soypat/glscene/glmesh"
)

// Ground half extent and texture repeats across the whole plane.
const (
	GroundExtent  = 100
	GroundRepeats = 100
)

var (
	grassLight = color.RGBA{R: 70, G: 140, B: 50, A: 255}
	grassDark  = color.RGBA{R: 45, G: 105, B: 35, A: 255}
)

var texturedUniforms = []string{
	glmesh.UniformModelView,
	glmesh.UniformProjection,
	glmesh.UniformAlpha,
}

var texturedAttributes = []string{"aVertexPosition", "aTextureCoord"}

// Ground returns a large horizontal quad at the configured height with a
// repeating texture. Only the scene offset moves it.
func Ground(dev gldev.Device, cfg glscene.GroundConfig, loader glmesh.ImageLoader) (*glmesh.Object, error) {
	const e = GroundExtent
	h := cfg.Height
	data := glmesh.MeshData{
		Name: "ground",
		Attributes: []glmesh.Attribute{
			{Name: "aVertexPosition", Size: 3, Data: []float32{
				-e, h, e,
				e, h, e,
				e, h, -e,
				-e, h, -e,
			}},
			{Name: "aTextureCoord", Size: 2, Data: []float32{
				0, 0,
				GroundRepeats, 0,
				GroundRepeats, GroundRepeats,
				0, GroundRepeats,
			}},
		},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
		Primitive: gldev.Triangles,
	}
	params := gldev.DefaultTextureParams()
	params.MinFilter = gldev.LinearMipmapNearest
	obj, err := texturedObject(dev, data, glmesh.Opaque, loader, cfg.Texture,
		assets.Checkerboard(64, 8, grassLight, grassDark), params)
	if err != nil {
		return nil, err
	}
	alpha := anim.Constant(1)
	obj.Alpha = &alpha
	return obj, nil
}

// Pyramid returns a four sided pyramid with colored corners spinning about
// the y axis one degree per frame.
func Pyramid(dev gldev.Device, cfg glscene.ObjectConfig) (*glmesh.Object, error) {
	obj, err := glmesh.NewObject(dev, glmesh.MaterialConfig{
		Shader:     assets.ColorShader(),
		Attributes: []string{"aVertexPosition", "aVertexColor"},
		Uniforms:   []string{glmesh.UniformModelView, glmesh.UniformProjection},
		State:      glmesh.Opaque,
	}, PyramidData())
	if err != nil {
		return nil, err
	}
	obj.Position = cfg.Position
	obj.Rotation = anim.Spin('y', anim.Radians(1))
	return obj, nil
}

// PyramidData returns the 12 vertices of the pyramid's four faces.
func PyramidData() glmesh.MeshData {
	const a = 1.0
	return glmesh.MeshData{
		Name: "pyramid",
		Attributes: []glmesh.Attribute{
			{Name: "aVertexPosition", Size: 3, Data: []float32{
				// Front.
				0, 1, 0,
				-1, -1, 1,
				1, -1, 1,
				// Right.
				0, 1, 0,
				1, -1, 1,
				1, -1, -1,
				// Back.
				0, 1, 0,
				1, -1, -1,
				-1, -1, -1,
				// Left.
				0, 1, 0,
				-1, -1, -1,
				-1, -1, 1,
			}},
			{Name: "aVertexColor", Size: 4, Data: []float32{
				1, 0, 0, a, 0, 1, 0, a, 0, 0, 1, a,
				1, 0, 0, a, 0, 0, 1, a, 0, 1, 0, a,
				1, 0, 0, a, 0, 1, 0, a, 0, 0, 1, a,
				1, 0, 0, a, 0, 0, 1, a, 0, 1, 0, a,
			}},
		},
		Primitive: gldev.Triangles,
	}
}

// Cube returns a translucent textured cube tumbling about all three axes
// and additively blended over what was drawn before it.
func Cube(dev gldev.Device, cfg glscene.ObjectConfig, loader glmesh.ImageLoader) (*glmesh.Object, error) {
	params := gldev.DefaultTextureParams()
	params.MinFilter = gldev.LinearMipmapNearest
	obj, err := texturedObject(dev, CubeData(), glmesh.Additive, loader, cfg.Texture, assets.Glass(64), params)
	if err != nil {
		return nil, err
	}
	obj.Position = cfg.Position
	// Axis angles of 5, 10 and 2 degrees per frame are converted to radians
	// twice, so the cube turns slowly.
	obj.Rotation = anim.Compound(anim.Radians(anim.Radians(1)), 5, 10, 2)
	alpha := anim.Alpha
	obj.Alpha = &alpha
	return obj, nil
}

// CubeData returns the 24 vertices and 36 indices of a cube of side 2.
func CubeData() glmesh.MeshData {
	return glmesh.MeshData{
		Name: "cube",
		Attributes: []glmesh.Attribute{
			{Name: "aVertexPosition", Size: 3, Data: []float32{
				// Front.
				-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1, 1,
				// Back.
				-1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1, -1,
				// Top.
				-1, 1, -1, -1, 1, 1, 1, 1, 1, 1, 1, -1,
				// Bottom.
				-1, -1, -1, 1, -1, -1, 1, -1, 1, -1, -1, 1,
				// Right.
				1, -1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1,
				// Left.
				-1, -1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1,
			}},
			{Name: "aTextureCoord", Size: 2, Data: []float32{
				0, 0, 1, 0, 1, 1, 0, 1,
				1, 0, 1, 1, 0, 1, 0, 0,
				0, 1, 0, 0, 1, 0, 1, 1,
				1, 1, 0, 1, 0, 0, 1, 0,
				1, 0, 1, 1, 0, 1, 0, 0,
				0, 0, 1, 0, 1, 1, 0, 1,
			}},
		},
		Indices:   glmesh.QuadIndices(6),
		Primitive: gldev.Triangles,
	}
}

func texturedObject(dev gldev.Device, data glmesh.MeshData, state glmesh.RenderState, loader glmesh.ImageLoader, path string, fallback image.Image, params gldev.TextureParams) (*glmesh.Object, error) {
	obj, err := glmesh.NewObject(dev, glmesh.MaterialConfig{
		Shader:        assets.TextureShader(),
		Attributes:    texturedAttributes,
		Uniforms:      texturedUniforms,
		Textured:      true,
		TextureParams: params,
		State:         state,
	}, data)
	if err != nil {
		return nil, err
	}
	err = obj.Material.LoadTexture(dev, loader, path, fallback, params)
	if err != nil {
		obj.Release()
		return nil, err
	}
	return obj, nil
}
