package particles

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/assets"
	"github.com/soypat/glscene/gldev"
	"github.com/soypat/glscene/glmesh"
)

// Flame particle generation parameters.
const (
	MaxLifetime     = 8
	SpawnDiameter   = 0.5
	MaxUpVelocity   = 0.1
	MaxSideVelocity = 0.02
)

// Flame uniform names.
const (
	uniformTime     = "uTime"
	uniformTimeFrag = "uTimeFrag"
	uniformFirePos  = "uFirePos"
)

// Flame is a fire made of billboarded particles. Particle motion is a pure
// function of time evaluated in the vertex shader, so the particle buffers
// are uploaded once and never touched again.
type Flame struct {
	Position ms3.Vec
	Color    mgl32.Vec4

	dev  gldev.Device
	mesh *glmesh.Mesh
	mat  *glmesh.Material
}

var _ glscene.Drawable = (*Flame)(nil)

// Particle is the spawn state of one flame particle.
type Particle struct {
	Lifetime float32
	Offset   ms3.Vec
	Velocity ms3.Vec
}

// NewParticle draws a particle spawning near the fire base. Horizontal
// velocities point towards the centre so the flame narrows as it rises.
func NewParticle(rng *rand.Rand) Particle {
	spread := func() float32 { return SpawnDiameter*rng.Float32() - SpawnDiameter/2 }
	var p Particle
	// Lifetime in (0, MaxLifetime]; the shader divides by it.
	p.Lifetime = MaxLifetime * (1 - rng.Float32())
	p.Offset.X = spread() / 3
	p.Offset.Y = spread() / 10
	p.Offset.Z = spread() / 3
	// Particles off centre start higher.
	p.Offset.Y += math32.Abs(p.Offset.X / 2)

	p.Velocity.Y = MaxUpVelocity * rng.Float32()
	p.Velocity.X = MaxSideVelocity * rng.Float32()
	if p.Offset.X > 0 {
		p.Velocity.X = -p.Velocity.X
	}
	p.Velocity.Z = MaxSideVelocity * rng.Float32()
	if p.Offset.Z > 0 {
		p.Velocity.Z = -p.Velocity.Z
	}
	return p
}

var (
	triCorners = [8]float32{-1, -1, 1, -1, 1, 1, -1, 1}
	quadCoords = [8]float32{0, 0, 1, 0, 1, 1, 0, 1}
)

// FlameData returns the vertex data of n particles, one quad each.
// Every quad corner repeats its particle's spawn state.
func FlameData(n int, rng *rand.Rand) glmesh.MeshData {
	var (
		lifetimes  = make([]float32, 0, 4*n)
		texCoords  = make([]float32, 0, 8*n)
		corners    = make([]float32, 0, 8*n)
		offsets    = make([]float32, 0, 12*n)
		velocities = make([]float32, 0, 12*n)
	)
	for i := 0; i < n; i++ {
		p := NewParticle(rng)
		for j := 0; j < 4; j++ {
			lifetimes = append(lifetimes, p.Lifetime)
			corners = append(corners, triCorners[2*j], triCorners[2*j+1])
			texCoords = append(texCoords, quadCoords[2*j], quadCoords[2*j+1])
			offsets = append(offsets, p.Offset.X, p.Offset.Y, p.Offset.Z)
			velocities = append(velocities, p.Velocity.X, p.Velocity.Y, p.Velocity.Z)
		}
	}
	return glmesh.MeshData{
		Name: "flame",
		Attributes: []glmesh.Attribute{
			{Name: "aLifetime", Size: 1, Data: lifetimes},
			{Name: "aTextureCoords", Size: 2, Data: texCoords},
			{Name: "aTriCorner", Size: 2, Data: corners},
			{Name: "aCenterOffset", Size: 3, Data: offsets},
			{Name: "aVelocity", Size: 3, Data: velocities},
		},
		Indices:   glmesh.QuadIndices(n),
		Primitive: gldev.Triangles,
	}
}

// NewFlame generates the particles of a flame from rng and uploads them.
func NewFlame(dev gldev.Device, cfg glscene.FlameConfig, rng *rand.Rand, loader glmesh.ImageLoader) (*Flame, error) {
	params := gldev.DefaultTextureParams()
	params.WrapS, params.WrapT = gldev.ClampToEdge, gldev.ClampToEdge
	mat, err := glmesh.NewMaterial(dev, glmesh.MaterialConfig{
		Shader:     assets.FlameShader(),
		Attributes: []string{"aLifetime", "aTextureCoords", "aTriCorner", "aCenterOffset", "aVelocity"},
		Uniforms: []string{
			glmesh.UniformModelView, glmesh.UniformProjection,
			uniformTime, uniformTimeFrag, uniformFirePos, glmesh.UniformColor,
		},
		Textured:      true,
		Sampler:       "fireAtlas",
		TextureParams: params,
		State:         glmesh.Glow,
	})
	if err != nil {
		return nil, err
	}
	err = mat.LoadTexture(dev, loader, cfg.Texture, assets.FireAtlas(64), params)
	if err != nil {
		mat.Release(dev)
		return nil, err
	}
	mesh, err := glmesh.NewMesh(dev, mat, FlameData(cfg.Particles, rng))
	if err != nil {
		mat.Release(dev)
		return nil, err
	}
	return &Flame{
		Position: cfg.Position,
		Color:    mgl32.Vec4(cfg.Color),
		dev:      dev,
		mesh:     mesh,
		mat:      mat,
	}, nil
}

// Draw renders all particles in a single indexed draw call. The fire
// position is applied in the shader on top of the scene offset.
func (fl *Flame) Draw(f *glscene.Frame) error {
	dev := fl.dev
	t := f.Time()
	fl.mat.Use(dev)
	fl.mesh.Bind(dev)
	off := f.OffsetVec3()
	mv := mgl32.Translate3D(off[0], off[1], off[2])
	fl.mat.SetMat4(dev, glmesh.UniformProjection, &f.Projection)
	fl.mat.SetMat4(dev, glmesh.UniformModelView, &mv)
	fl.mat.SetFloat(dev, uniformTime, t/8)
	fl.mat.SetFloat(dev, uniformTimeFrag, t)
	fl.mat.SetVec3(dev, uniformFirePos, mgl32.Vec3{fl.Position.X, fl.Position.Y, fl.Position.Z})
	fl.mat.SetVec4(dev, glmesh.UniformColor, fl.Color)
	fl.mesh.Draw(dev)
	dev.BindVertexArray(0)
	return nil
}

// Release frees the particle buffers and material.
func (fl *Flame) Release() error {
	fl.mesh.Release(fl.dev)
	fl.mat.Release(fl.dev)
	return nil
}
