// Package particles implements the blended particle drawables of the scene:
// a fan of orbiting starburst sprites and GPU animated flames.
package particles

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/anim"
	"github.com/soypat/glscene/assets"
	"github.com/soypat/glscene/gldev"
	"github.com/soypat/glscene/glmesh"
)

// Sprite is one starburst particle on its orbit.
type Sprite struct {
	Distance float32
	Speed    float32
	Color    mgl32.Vec3
}

// Transform composes the sprite's orbit step onto mv at frame time t:
// rotate by the spin angle, move out along the orbit, then undo the spin so
// the sprite faces the viewer.
func (sp Sprite) Transform(mv mgl32.Mat4, t float32) mgl32.Mat4 {
	spin := anim.SpinAngle(sp.Speed, t)
	mv = mv.Mul4(mgl32.HomogRotate3DZ(spin))
	mv = mv.Mul4(mgl32.Translate3D(10*sp.Distance, sp.Distance, 0))
	return mv.Mul4(mgl32.HomogRotate3DZ(-spin))
}

// Starburst draws a single textured quad once per sprite. Each sprite
// transform builds on the previous sprite's so the fan spirals outwards.
type Starburst struct {
	Sprites []Sprite
	// Depth is the z distance of the fan centre.
	Depth float32

	dev  gldev.Device
	mesh *glmesh.Mesh
	mat  *glmesh.Material
}

var _ glscene.Drawable = (*Starburst)(nil)

// NewStarburst allocates the sprite quad and its material. Sprite colors are drawn from rng.
func NewStarburst(dev gldev.Device, cfg glscene.StarburstConfig, rng *rand.Rand, loader glmesh.ImageLoader) (*Starburst, error) {
	params := gldev.DefaultTextureParams()
	mat, err := glmesh.NewMaterial(dev, glmesh.MaterialConfig{
		Shader:        assets.ParticleShader(),
		Attributes:    []string{"aVertexPosition", "aTextureCoord"},
		Uniforms:      []string{glmesh.UniformModelView, glmesh.UniformProjection, glmesh.UniformColor},
		Textured:      true,
		TextureParams: params,
		State:         glmesh.Additive,
	})
	if err != nil {
		return nil, err
	}
	err = mat.LoadTexture(dev, loader, cfg.Texture, assets.RadialSprite(64), params)
	if err != nil {
		mat.Release(dev)
		return nil, err
	}
	mesh, err := glmesh.NewMesh(dev, mat, SpriteQuad())
	if err != nil {
		mat.Release(dev)
		return nil, err
	}
	return &Starburst{
		Sprites: NewSprites(cfg.Sprites, rng),
		Depth:   cfg.Depth,
		dev:     dev,
		mesh:    mesh,
		mat:     mat,
	}, nil
}

// NewSprites returns n sprites on orbits of increasing distance and speed.
func NewSprites(n int, rng *rand.Rand) []Sprite {
	sprites := make([]Sprite, n)
	for i := range sprites {
		d, speed := anim.Orbit(i, n)
		sprites[i] = Sprite{
			Distance: d,
			Speed:    speed,
			Color:    mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()},
		}
	}
	return sprites
}

// SpriteQuad is a unit quad in the xy plane drawn as a triangle strip.
func SpriteQuad() glmesh.MeshData {
	return glmesh.MeshData{
		Name: "starburst",
		Attributes: []glmesh.Attribute{
			{Name: "aVertexPosition", Size: 3, Data: []float32{
				-1, -1, 0,
				1, -1, 0,
				-1, 1, 0,
				1, 1, 0,
			}},
			{Name: "aTextureCoord", Size: 2, Data: []float32{
				0, 0,
				1, 0,
				0, 1,
				1, 1,
			}},
		},
		Primitive: gldev.TriangleStrip,
	}
}

// Draw issues one draw call per sprite.
func (sb *Starburst) Draw(f *glscene.Frame) error {
	dev := sb.dev
	t := f.Time()
	sb.mat.Use(dev)
	sb.mesh.Bind(dev)
	sb.mat.SetMat4(dev, glmesh.UniformProjection, &f.Projection)
	off := f.OffsetVec3()
	mv := mgl32.Translate3D(off[0], off[1], off[2]+sb.Depth)
	for i := range sb.Sprites {
		sp := &sb.Sprites[i]
		mv = sp.Transform(mv, t)
		sb.mat.SetMat4(dev, glmesh.UniformModelView, &mv)
		sb.mat.SetVec3(dev, glmesh.UniformColor, sp.Color)
		sb.mesh.Draw(dev)
	}
	dev.BindVertexArray(0)
	return nil
}

// Release frees the sprite quad and material.
func (sb *Starburst) Release() error {
	sb.mesh.Release(sb.dev)
	sb.mat.Release(sb.dev)
	return nil
}
