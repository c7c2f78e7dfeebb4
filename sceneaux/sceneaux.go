// Package sceneaux assembles the demo scene from a configuration and hosts it
// in a window. It is an auxiliary package to get a scene on screen quickly;
// applications with their own host loop need only [BuildScene].
package sceneaux

import (
	"fmt"
	"image/png"
	"math/rand"
	"os"

	"github.com/soypat/glscene"
	"github.com/soypat/glscene/assets"
	"github.com/soypat/glscene/forge/particles"
	"github.com/soypat/glscene/forge/shapes"
	"github.com/soypat/glscene/forge/textsdf"
	"github.com/soypat/glscene/gldev"
	"github.com/soypat/glscene/glmesh"
)

// BuildScene constructs every drawable enabled in cfg and adds it to a new
// scene in a fixed order: ground, starburst, pyramid, cube, flames, text.
// Configured texture files are read through loader, which is polled before
// every frame. A nil loader selects the procedural textures.
// On error all drawables constructed so far are released.
func BuildScene(dev gldev.Device, cfg glscene.Config, loader *assets.TextureLoader) (_ *glscene.Scene, err error) {
	scene, err := glscene.NewScene(dev, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			scene.Dispose()
			if loader != nil {
				loader.Close()
			}
		}
	}()
	var imgs glmesh.ImageLoader
	if loader != nil {
		imgs = loader
		if err = scene.BeforeFrame(loader.Poll); err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	add := func(name string, d glscene.Drawable, err error) error {
		if err != nil {
			return fmt.Errorf("building %s: %w", name, err)
		}
		return scene.Add(name, d)
	}
	if cfg.Ground.Enabled {
		ground, err := shapes.Ground(dev, cfg.Ground, imgs)
		if err = add("ground", ground, err); err != nil {
			return nil, err
		}
	}
	if cfg.Starburst.Enabled {
		sb, err := particles.NewStarburst(dev, cfg.Starburst, rng, imgs)
		if err = add("starburst", sb, err); err != nil {
			return nil, err
		}
	}
	if cfg.Pyramid.Enabled {
		pyramid, err := shapes.Pyramid(dev, cfg.Pyramid)
		if err = add("pyramid", pyramid, err); err != nil {
			return nil, err
		}
	}
	if cfg.Cube.Enabled {
		cube, err := shapes.Cube(dev, cfg.Cube, imgs)
		if err = add("cube", cube, err); err != nil {
			return nil, err
		}
	}
	for i, fc := range cfg.Flames {
		flame, err := particles.NewFlame(dev, fc, rng, imgs)
		if err = add(fmt.Sprintf("flame%d", i), flame, err); err != nil {
			return nil, err
		}
	}
	if len(cfg.Text) == 0 {
		return scene, nil
	}
	atlas, err := textsdf.DefaultAtlas()
	if err != nil {
		return nil, fmt.Errorf("building glyph atlas: %w", err)
	}
	for i, tc := range cfg.Text {
		text, err := textsdf.NewFixedText(dev, tc, atlas)
		if err = add(fmt.Sprintf("text%d", i), text, err); err != nil {
			return nil, err
		}
	}
	return scene, nil
}

// WriteAtlasPNG saves the distance field atlas image to a PNG file with said filename.
func WriteAtlasPNG(filename string, atlas *textsdf.Atlas) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, atlas.Image)
	if err != nil {
		return err
	}
	return fp.Sync()
}
