package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	"github.com/soypat/glscene"
	"github.com/soypat/glscene/gldev"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type loadResult struct {
	tex    gldev.Texture
	path   string
	params gldev.TextureParams
	img    image.Image
	err    error
}

// TextureLoader decodes image files on background goroutines and uploads
// them to their textures on the render goroutine when polled. Until then the
// texture stays blank. A file that fails to load leaves its texture blank
// and is only logged at debug level.
//
// Load, Poll and Wait must be called from the goroutine that owns the device.
type TextureLoader struct {
	dev     gldev.Device
	fsys    fs.FS
	results chan loadResult
	done    chan struct{}
	closed  bool
	pending int
	failed  int
}

// NewTextureLoader returns a loader reading image files from fsys.
func NewTextureLoader(dev gldev.Device, fsys fs.FS) *TextureLoader {
	return &TextureLoader{
		dev:     dev,
		fsys:    fsys,
		results: make(chan loadResult, 8),
		done:    make(chan struct{}),
	}
}

// Load starts decoding the image at path for upload to tex.
// It does nothing once the loader is closed.
func (l *TextureLoader) Load(tex gldev.Texture, path string, params gldev.TextureParams) {
	if l.closed {
		return
	}
	l.pending++
	go func() {
		img, err := decodeFile(l.fsys, path)
		select {
		case l.results <- loadResult{tex: tex, path: path, params: params, img: img, err: err}:
		case <-l.done:
		}
	}()
}

// Close discards pending images and lets their decoding goroutines exit
// without being polled. Close is idempotent.
func (l *TextureLoader) Close() {
	if l.closed {
		return
	}
	l.closed = true
	close(l.done)
	l.pending = 0
}

func decodeFile(fsys fs.FS, path string) (image.Image, error) {
	fp, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	img, format, err := image.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	glscene.Logger().Debug("decoded texture", "path", path, "format", format, "bounds", img.Bounds())
	return img, nil
}

// Poll uploads every image that finished decoding without blocking.
// It returns the first upload error.
func (l *TextureLoader) Poll() error {
	for l.pending > 0 {
		select {
		case res := <-l.results:
			if err := l.finish(res); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// Wait blocks until all pending images are decoded and uploaded or ctx is done.
func (l *TextureLoader) Wait(ctx context.Context) error {
	for l.pending > 0 {
		select {
		case res := <-l.results:
			if err := l.finish(res); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (l *TextureLoader) finish(res loadResult) error {
	l.pending--
	if res.err != nil {
		l.failed++
		glscene.Logger().Debug("texture load failed", "path", res.path, "err", res.err)
		return nil
	}
	err := l.dev.UploadTexture(res.tex, res.img, res.params)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", res.path, err)
	}
	return nil
}

// Pending returns the number of images not yet uploaded.
func (l *TextureLoader) Pending() int { return l.pending }

// Failed returns the number of images that could not be loaded.
func (l *TextureLoader) Failed() int { return l.failed }
