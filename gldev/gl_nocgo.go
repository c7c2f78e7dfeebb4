//go:build tinygo || !cgo

package gldev

import "fmt"

var errNoCGO = fmt.Errorf("%w: OpenGL requires CGo and is not supported on TinyGo", ErrNoContext)

// GL is unavailable without CGo.
type GL struct{}

// NewGL always fails without CGo.
func NewGL(framebufferSize func() (width, height int)) (*GL, error) {
	return nil, errNoCGO
}
