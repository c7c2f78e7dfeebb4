package assets

import (
	"image"
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// Checkerboard returns a size by size image of cells by cells alternating squares.
func Checkerboard(size, cells int, c0, c1 color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if cells <= 0 {
		cells = 1
	}
	cell := max(size/cells, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := c0
			if (x/cell+y/cell)%2 == 1 {
				c = c1
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// Glass returns a translucent pane with a bright frame and a diagonal sheen.
func Glass(size int) *image.RGBA {
	var (
		edge  = color.RGBA{R: 235, G: 245, B: 255, A: 255}
		inner = color.RGBA{R: 20, G: 60, B: 95, A: 140}
	)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	inv := 1 / float32(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u, v := (float32(x)+0.5)*inv, (float32(y)+0.5)*inv
			// Distance to nearest border in [0,0.5].
			border := min(u, v, 1-u, 1-v)
			t := ms1.SmoothStep(0, 0.08, border)
			c := Gradient(edge, inner, t)
			sheen := 1 - ms1.Clamp(math.Abs(u+v-0.8)*6, 0, 1)
			img.SetRGBA(x, y, Gradient(c, edge, 0.5*sheen))
		}
	}
	return img
}

// RadialSprite returns a white glow whose alpha falls off from the centre.
func RadialSprite(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	half := float32(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := (float32(x)+0.5-half)/half, (float32(y)+0.5-half)/half
			r := math.Hypot(dx, dy)
			a := ms1.Clamp(1-r, 0, 1)
			a = a * a
			// Four point star spikes along the axes.
			spike := ms1.Clamp(1-math.Min(math.Abs(dx), math.Abs(dy))*12, 0, 1) * (1 - r)
			a = ms1.Clamp(a+0.6*spike, 0, 1)
			v := uint8(a * 255)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}

// FireAtlasFrames is the number of animation frames per row and column of [FireAtlas].
const FireAtlasFrames = 4

// FireAtlas returns 16 animation frames of a flame puff laid out in a 4x4
// grid, first frame in the top left. Frames shrink and cool from yellow
// to dark red as the puff ages.
func FireAtlas(frameSize int) *image.RGBA {
	const n = FireAtlasFrames
	var (
		hot  = color.RGBA{R: 255, G: 230, B: 120, A: 255}
		cool = color.RGBA{R: 150, G: 20, B: 0, A: 255}
	)
	img := image.NewRGBA(image.Rect(0, 0, n*frameSize, n*frameSize))
	half := float32(frameSize) / 2
	for frame := 0; frame < n*n; frame++ {
		age := float32(frame) / (n*n - 1)
		ox, oy := (frame%n)*frameSize, (frame/n)*frameSize
		radius := 1 - 0.6*age
		tint := Gradient(hot, cool, age)
		for y := 0; y < frameSize; y++ {
			for x := 0; x < frameSize; x++ {
				dx, dy := (float32(x)+0.5-half)/half, (float32(y)+0.5-half)/half
				// Teardrop: narrower towards the top of the frame.
				dx *= 1 + 0.5*ms1.Clamp(-dy, 0, 1)
				r := math.Hypot(dx, dy) / radius
				a := ms1.Clamp(1-r, 0, 1)
				a *= a * (1 - 0.5*age)
				img.SetRGBA(ox+x, oy+y, color.RGBA{
					R: uint8(float32(tint.R) * a),
					G: uint8(float32(tint.G) * a),
					B: uint8(float32(tint.B) * a),
					A: uint8(255 * a),
				})
			}
		}
	}
	return img
}
