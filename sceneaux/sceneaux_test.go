package sceneaux

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/soypat/glscene"
	"github.com/soypat/glscene/assets"
	"github.com/soypat/glscene/forge/textsdf"
	"github.com/soypat/glscene/gldev"
)

func TestBuildSceneOrder(t *testing.T) {
	dev := gldev.NewRecorder(640, 480)
	cfg := glscene.DefaultConfig()
	cfg.Flames = append(cfg.Flames, glscene.FlameConfig{Particles: 10, Color: [4]float32{1, 1, 1, 1}})
	scene, err := BuildScene(dev, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ground", "starburst", "pyramid", "cube", "flame0", "flame1", "text0"}
	if got := scene.Names(); !slices.Equal(got, want) {
		t.Fatalf("drawables %v, want %v", got, want)
	}
	if err = scene.Start(); err != nil {
		t.Fatal(err)
	}
	allocs := dev.Allocations()
	for i := 0; i < 3; i++ {
		if err = scene.Tick(0); err != nil {
			t.Fatal(err)
		}
	}
	if dev.Allocations() != allocs {
		t.Errorf("ticks allocated %d GPU objects", dev.Allocations()-allocs)
	}
	if err = scene.Dispose(); err != nil {
		t.Fatal(err)
	}
	if dev.Deletes != allocs {
		t.Errorf("released %d of %d GPU objects", dev.Deletes, allocs)
	}
}

func TestBuildSceneToggles(t *testing.T) {
	dev := gldev.NewRecorder(640, 480)
	cfg := glscene.DefaultConfig()
	cfg.Ground.Enabled = false
	cfg.Starburst.Enabled = false
	cfg.Cube.Enabled = false
	cfg.Flames = nil
	cfg.Text = nil
	scene, err := BuildScene(dev, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := scene.Names(); !slices.Equal(got, []string{"pyramid"}) {
		t.Errorf("drawables %v", got)
	}
}

func TestBuildSceneError(t *testing.T) {
	dev := gldev.NewRecorder(640, 480)
	dev.MissingNames = map[string]bool{"aVertexColor": true} // Pyramid fails after ground and starburst.
	_, err := BuildScene(dev, glscene.DefaultConfig(), nil)
	if err == nil {
		t.Fatal("expected pyramid construction error")
	}
	if dev.Deletes != dev.Allocations() {
		t.Errorf("leaked %d GPU objects after failed build", dev.Allocations()-dev.Deletes)
	}
}

func TestBuildSceneErrorClosesLoader(t *testing.T) {
	fsys := fstest.MapFS{"grass.png": {Data: []byte("not an image")}}
	dev := gldev.NewRecorder(640, 480)
	dev.MissingNames = map[string]bool{"aVertexColor": true}
	cfg := glscene.DefaultConfig()
	cfg.Ground.Texture = "grass.png"
	loader := assets.NewTextureLoader(dev, fsys)
	_, err := BuildScene(dev, cfg, loader)
	if err == nil {
		t.Fatal("expected pyramid construction error")
	}
	if loader.Pending() != 0 {
		t.Errorf("%d loads still pending after failed build", loader.Pending())
	}
	if err := loader.Poll(); err != nil {
		t.Error(err)
	}
}

func TestBuildSceneTextures(t *testing.T) {
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatal(err)
	}
	fsys := fstest.MapFS{"grass.png": {Data: buf.Bytes()}}
	dev := gldev.NewRecorder(640, 480)
	cfg := glscene.DefaultConfig()
	cfg.Ground.Texture = "grass.png"
	cfg.Cube.Texture = "missing.png"
	cfg.Starburst.Enabled = false
	cfg.Flames = nil
	cfg.Text = nil
	loader := assets.NewTextureLoader(dev, fsys)
	scene, err := BuildScene(dev, cfg, loader)
	if err != nil {
		t.Fatal(err)
	}
	if loader.Pending() != 2 {
		t.Fatalf("%d pending loads, want 2", loader.Pending())
	}
	uploads := dev.TextureUploads
	if err = scene.Start(); err != nil {
		t.Fatal(err)
	}
	for loader.Pending() > 0 {
		if err = scene.Tick(0); err != nil {
			t.Fatal(err)
		}
	}
	if dev.TextureUploads != uploads+1 || loader.Failed() != 1 {
		t.Errorf("%d uploads and %d failures after loading", dev.TextureUploads-uploads, loader.Failed())
	}
}

func TestWriteAtlasPNG(t *testing.T) {
	var f textsdf.Font
	err := f.LoadTTFBytes(textsdf.GoMonoTTF())
	if err != nil {
		t.Fatal(err)
	}
	atlas, err := textsdf.NewAtlas(&f, textsdf.DefaultAtlasLayout(), []rune("Hi"))
	if err != nil {
		t.Fatal(err)
	}
	filename := filepath.Join(t.TempDir(), "atlas.png")
	err = WriteAtlasPNG(filename, atlas)
	if err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	cfg, err := png.DecodeConfig(fp)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := atlas.Layout.Size(); cfg.Width != w || cfg.Height != h {
		t.Errorf("png %dx%d, want %dx%d", cfg.Width, cfg.Height, w, h)
	}
}
