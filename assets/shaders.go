// Package assets bundles the shader programs of the scene and provides
// texture images, either decoded from files in the background or generated
// procedurally.
package assets

import (
	_ "embed"

	"github.com/soypat/glscene/gldev"
)

// Embedded GLSL sources.
var (
	//go:embed shaders/color.vert
	colorVert string
	//go:embed shaders/color.frag
	colorFrag string
	//go:embed shaders/texture.vert
	textureVert string
	//go:embed shaders/texture.frag
	textureFrag string
	//go:embed shaders/particles.frag
	particlesFrag string
	//go:embed shaders/flame.vert
	flameVert string
	//go:embed shaders/flame.frag
	flameFrag string
	//go:embed shaders/sdftext.vert
	sdfTextVert string
	//go:embed shaders/sdftext.frag
	sdfTextFrag string
)

// ColorShader draws geometry with per-vertex colors.
// Attributes: aVertexPosition, aVertexColor.
func ColorShader() gldev.ShaderSource {
	return gldev.ShaderSource{Name: "color", Vertex: colorVert, Fragment: colorFrag}
}

// TextureShader draws textured geometry scaled by a uAlpha uniform.
// Attributes: aVertexPosition, aTextureCoord.
func TextureShader() gldev.ShaderSource {
	return gldev.ShaderSource{Name: "texture", Vertex: textureVert, Fragment: textureFrag}
}

// ParticleShader draws a textured sprite tinted by a uColor uniform.
// It shares the vertex layout of [TextureShader].
func ParticleShader() gldev.ShaderSource {
	return gldev.ShaderSource{Name: "particles", Vertex: textureVert, Fragment: particlesFrag}
}

// FlameShader animates billboarded fire particles on the GPU from
// per-particle lifetime, offset and velocity attributes.
func FlameShader() gldev.ShaderSource {
	return gldev.ShaderSource{Name: "flame", Vertex: flameVert, Fragment: flameFrag}
}

// SDFTextShader renders glyphs from a signed distance field atlas.
func SDFTextShader() gldev.ShaderSource {
	return gldev.ShaderSource{Name: "sdftext", Vertex: sdfTextVert, Fragment: sdfTextFrag}
}
