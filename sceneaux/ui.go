//go:build !tinygo && cgo

package sceneaux

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/assets"
	"github.com/soypat/glscene/gldev"
)

// Run opens a window sized by cfg, builds the scene and renders it until the
// window is closed or ctx is done. Texture paths are opened from fsys; a nil
// fsys selects the procedural textures. Run must be called from the main
// OS thread.
func Run(ctx context.Context, cfg glscene.Config, fsys fs.FS) error {
	window, term, err := startGLFW(cfg.Window)
	if err != nil {
		return err
	}
	defer term()
	dev, err := gldev.NewGL(window.GetFramebufferSize)
	if err != nil {
		return err
	}
	glscene.Logger().Info("opengl context", "version", dev.Version())
	var loader *assets.TextureLoader
	if fsys != nil {
		loader = assets.NewTextureLoader(dev, fsys)
		defer loader.Close()
	}
	scene, err := BuildScene(dev, cfg, loader)
	if err != nil {
		return err
	}
	defer scene.Dispose()
	bindInput(window, scene)

	err = scene.Start()
	if err != nil {
		return err
	}
	start := time.Now()
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		err = scene.Tick(time.Since(start))
		if err != nil {
			return err
		}
		if err = dev.Err(); err != nil {
			return fmt.Errorf("frame %d: %w", scene.FrameCount(), err)
		}
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func bindInput(window *glfw.Window, scene *glscene.Scene) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		scene.KeyDown(mapKey(key))
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			scene.MouseDown(w.GetCursorPos())
		case glfw.Release:
			scene.MouseUp()
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		scene.MouseMove(xpos, ypos)
	})
}

func mapKey(key glfw.Key) glscene.Key {
	switch key {
	case glfw.KeyEscape:
		return glscene.KeyEscape
	case glfw.KeyA:
		return glscene.KeyA
	case glfw.KeyD:
		return glscene.KeyD
	case glfw.KeyS:
		return glscene.KeyS
	case glfw.KeyW:
		return glscene.KeyW
	}
	return glscene.KeyUnknown
}

func startGLFW(wcfg glscene.WindowConfig) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("%w: initializing GLFW: %s", gldev.ErrNoContext, err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(wcfg.Width, wcfg.Height, wcfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("%w: creating window: %s", gldev.ErrNoContext, err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	return window, glfw.Terminate, nil
}
