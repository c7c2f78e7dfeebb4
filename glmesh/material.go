// Package glmesh implements the generic mesh and material abstraction shared
// by every drawable: a vertex layout uploaded once, a shader program with
// resolved locations, an optional texture and the render state to draw with.
package glmesh

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/glscene/gldev"
)

// Common uniform names used by the bundled shaders.
const (
	UniformModelView  = "modelViewMatrix"
	UniformProjection = "perspectiveMatrix"
	UniformSampler    = "uSampler"
	UniformAlpha      = "uAlpha"
	UniformColor      = "uColor"
)

// RenderState is the subset of fixed function state a material needs.
// It is applied in full on every use since other drawables leave the
// context in an arbitrary state.
type RenderState struct {
	DepthTest bool
	Blend     bool
	// Blend factors, ignored when Blend is false.
	Src, Dst gldev.BlendFactor
}

var (
	// Opaque is depth tested geometry without blending.
	Opaque = RenderState{DepthTest: true}
	// Additive blends source alpha on top of the destination without depth testing.
	Additive = RenderState{Blend: true, Src: gldev.SrcAlpha, Dst: gldev.One}
	// Glow adds source and destination colors unweighted.
	Glow = RenderState{Blend: true, Src: gldev.One, Dst: gldev.One}
)

// Apply sets the render state on dev.
func (rs RenderState) Apply(dev gldev.Device) {
	if rs.DepthTest {
		dev.Enable(gldev.DepthTest)
	} else {
		dev.Disable(gldev.DepthTest)
	}
	if rs.Blend {
		dev.Enable(gldev.Blend)
		dev.BlendFunc(rs.Src, rs.Dst)
	} else {
		dev.Disable(gldev.Blend)
	}
}

// MaterialConfig configures [NewMaterial].
type MaterialConfig struct {
	Shader gldev.ShaderSource
	// Attributes are the vertex attribute names the program consumes.
	Attributes []string
	// Uniforms are resolved once at construction.
	Uniforms []string
	// Textured allocates a texture bound to unit 0 on use. The image may be
	// provided now through Image or uploaded later by an asset loader.
	Textured bool
	// Sampler is the sampler uniform name. Defaults to [UniformSampler].
	Sampler       string
	Image         image.Image
	TextureParams gldev.TextureParams
	State         RenderState
}

// Material is a linked shader program with its named locations, an optional
// texture and the render state it is drawn with.
type Material struct {
	Program  gldev.Program
	Texture  gldev.Texture
	State    RenderState
	attribs  map[string]uint32
	uniforms map[string]int32
	sampler  int32
}

// NewMaterial compiles the configured program and resolves all locations.
// On failure every object created so far is deleted.
func NewMaterial(dev gldev.Device, cfg MaterialConfig) (_ *Material, err error) {
	prog, err := dev.CompileProgram(cfg.Shader)
	if err != nil {
		return nil, err
	}
	mat := &Material{
		Program:  prog,
		State:    cfg.State,
		attribs:  make(map[string]uint32, len(cfg.Attributes)),
		uniforms: make(map[string]int32, len(cfg.Uniforms)),
		sampler:  -1,
	}
	defer func() {
		if err != nil {
			mat.Release(dev)
		}
	}()
	dev.UseProgram(prog)
	for _, name := range cfg.Attributes {
		loc, err := dev.AttribLocation(prog, name)
		if err != nil {
			return nil, fmt.Errorf("%s attribute %q: %w", cfg.Shader.Name, name, err)
		}
		mat.attribs[name] = loc
	}
	for _, name := range cfg.Uniforms {
		loc, err := dev.UniformLocation(prog, name)
		if err != nil {
			return nil, fmt.Errorf("%s uniform %q: %w", cfg.Shader.Name, name, err)
		}
		mat.uniforms[name] = loc
	}
	if cfg.Textured {
		sampler := cfg.Sampler
		if sampler == "" {
			sampler = UniformSampler
		}
		mat.sampler, err = dev.UniformLocation(prog, sampler)
		if err != nil {
			return nil, fmt.Errorf("%s sampler %q: %w", cfg.Shader.Name, sampler, err)
		}
		mat.Texture, err = dev.CreateTexture()
		if err != nil {
			return nil, err
		}
		if cfg.Image != nil {
			err = dev.UploadTexture(mat.Texture, cfg.Image, cfg.TextureParams)
			if err != nil {
				return nil, fmt.Errorf("%s texture: %w", cfg.Shader.Name, err)
			}
		}
	}
	return mat, nil
}

// Attrib returns the location of a vertex attribute resolved at construction.
func (mat *Material) Attrib(name string) (uint32, bool) {
	loc, ok := mat.attribs[name]
	return loc, ok
}

// Uniform returns the location of a uniform resolved at construction or -1,
// which the device silently ignores.
func (mat *Material) Uniform(name string) int32 {
	loc, ok := mat.uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

// Use binds the program, applies the render state and binds the texture to unit 0.
func (mat *Material) Use(dev gldev.Device) {
	dev.UseProgram(mat.Program)
	mat.State.Apply(dev)
	if mat.Texture != 0 {
		dev.ActiveTexture(0)
		dev.BindTexture(mat.Texture)
		dev.Uniform1i(mat.sampler, 0)
	}
}

func (mat *Material) SetMat4(dev gldev.Device, name string, m *mgl32.Mat4) {
	dev.UniformMatrix4(mat.Uniform(name), (*[16]float32)(m))
}

func (mat *Material) SetFloat(dev gldev.Device, name string, v float32) {
	dev.Uniform1f(mat.Uniform(name), v)
}

func (mat *Material) SetVec3(dev gldev.Device, name string, v mgl32.Vec3) {
	dev.Uniform3f(mat.Uniform(name), v[0], v[1], v[2])
}

func (mat *Material) SetVec4(dev gldev.Device, name string, v mgl32.Vec4) {
	dev.Uniform4f(mat.Uniform(name), v[0], v[1], v[2], v[3])
}

// Release deletes the program and texture.
func (mat *Material) Release(dev gldev.Device) {
	dev.DeleteTexture(mat.Texture)
	dev.DeleteProgram(mat.Program)
	mat.Texture = 0
	mat.Program = 0
}

// ImageLoader queues an image file for asynchronous upload to a texture.
type ImageLoader interface {
	Load(tex gldev.Texture, path string, params gldev.TextureParams)
}

// LoadTexture fills the material texture from the image file at path through
// loader, or uploads fallback right away when path is empty or loader is nil.
func (mat *Material) LoadTexture(dev gldev.Device, loader ImageLoader, path string, fallback image.Image, params gldev.TextureParams) error {
	if mat.Texture == 0 {
		return fmt.Errorf("material has no texture")
	}
	if path != "" && loader != nil {
		loader.Load(mat.Texture, path, params)
		return nil
	} else if fallback == nil {
		return nil
	}
	return dev.UploadTexture(mat.Texture, fallback, params)
}
