package gldev

import (
	"image"

	"golang.org/x/image/draw"
)

// ToRGBA converts img to a tightly packed RGBA image with origin at (0,0).
// If flipY is set rows are reversed so the first row of the result is the
// bottom row of img, which is the order OpenGL expects texel rows in.
func ToRGBA(img image.Image, flipY bool) *image.RGBA {
	bb := img.Bounds()
	dst, ok := img.(*image.RGBA)
	if !ok || bb.Min != (image.Point{}) || dst.Stride != 4*bb.Dx() || flipY {
		dst = image.NewRGBA(image.Rect(0, 0, bb.Dx(), bb.Dy()))
		draw.Draw(dst, dst.Bounds(), img, bb.Min, draw.Src)
	}
	if !flipY {
		return dst
	}
	h := dst.Bounds().Dy()
	stride := dst.Stride
	tmp := make([]byte, stride)
	for y := 0; y < h/2; y++ {
		top := dst.Pix[y*stride : (y+1)*stride]
		bot := dst.Pix[(h-1-y)*stride : (h-y)*stride]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
	return dst
}
