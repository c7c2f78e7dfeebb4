package glmesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/anim"
	"github.com/soypat/glscene/gldev"
)

// ModelView returns translate(offset) * translate(pos) * rotX * rotY * rotZ.
// Rotation angles are in radians.
func ModelView(offset, pos, rot ms3.Vec) mgl32.Mat4 {
	mv := mgl32.Translate3D(offset.X+pos.X, offset.Y+pos.Y, offset.Z+pos.Z)
	if rot.X != 0 {
		mv = mv.Mul4(mgl32.HomogRotate3DX(rot.X))
	}
	if rot.Y != 0 {
		mv = mv.Mul4(mgl32.HomogRotate3DY(rot.Y))
	}
	if rot.Z != 0 {
		mv = mv.Mul4(mgl32.HomogRotate3DZ(rot.Z))
	}
	return mv
}

// Object is a single mesh drawn with one material at a fixed world position,
// rotated and optionally faded by animation curves of frame time.
type Object struct {
	Name     string
	Mesh     *Mesh
	Material *Material
	Position ms3.Vec
	Rotation anim.Rotation
	// Alpha is uploaded to the alpha uniform when not nil.
	Alpha *anim.Curve

	dev gldev.Device
}

var _ glscene.Drawable = (*Object)(nil)

// NewObject creates the material and mesh of a drawable object. All GPU
// resources are allocated here and reused by every Draw.
func NewObject(dev gldev.Device, mcfg MaterialConfig, data MeshData) (*Object, error) {
	mat, err := NewMaterial(dev, mcfg)
	if err != nil {
		return nil, err
	}
	mesh, err := NewMesh(dev, mat, data)
	if err != nil {
		mat.Release(dev)
		return nil, err
	}
	return &Object{
		Name:     data.Name,
		Mesh:     mesh,
		Material: mat,
		dev:      dev,
	}, nil
}

// Draw renders the object with the frame's projection and scene offset.
func (o *Object) Draw(f *glscene.Frame) error {
	dev := o.dev
	t := f.Time()
	mv := ModelView(f.Offset, o.Position, o.Rotation.Eval(t))
	o.Material.Use(dev)
	o.Mesh.Bind(dev)
	o.Material.SetMat4(dev, UniformProjection, &f.Projection)
	o.Material.SetMat4(dev, UniformModelView, &mv)
	if o.Alpha != nil {
		o.Material.SetFloat(dev, UniformAlpha, o.Alpha.Eval(t))
	}
	o.Mesh.Draw(dev)
	dev.BindVertexArray(0)
	return nil
}

// Release frees the mesh and material.
func (o *Object) Release() error {
	o.Mesh.Release(o.dev)
	o.Material.Release(o.dev)
	return nil
}
