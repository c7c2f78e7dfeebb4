//go:build tinygo || !cgo

package sceneaux

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/soypat/glscene"
	"github.com/soypat/glscene/gldev"
)

// Run requires CGo to open a window.
func Run(ctx context.Context, cfg glscene.Config, fsys fs.FS) error {
	return fmt.Errorf("%w: windowing requires cgo", gldev.ErrNoContext)
}
