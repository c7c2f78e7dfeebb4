package glscene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"gopkg.in/yaml.v3"
)

// MaxFlameParticles keeps particle quad indices within 16 bits.
const MaxFlameParticles = 1 << 14

// Clip planes of the perspective projection.
const (
	NearPlane = 0.1
	FarPlane  = 100.0
)

// Config is the configuration surface of a scene, read once at startup.
// Drawable toggles are consumed by the scene builder; the scene itself uses
// the camera, input and reporting fields.
type Config struct {
	Window WindowConfig `yaml:"window"`
	// Fovy is the vertical field of view in degrees.
	Fovy          float32    `yaml:"fovy"`
	InitialOffset ms3.Vec    `yaml:"initial_offset"`
	Step          float32    `yaml:"step"`
	DragScale     float32    `yaml:"drag_scale"`
	ClearColor    [4]float32 `yaml:"clear_color"`
	// FramesPerReport sets the interval of performance reports. Zero disables them.
	FramesPerReport int `yaml:"frames_per_report"`
	// Seed seeds particle generation and random sprite colors.
	Seed int64 `yaml:"seed"`

	Ground    GroundConfig    `yaml:"ground"`
	Starburst StarburstConfig `yaml:"starburst"`
	Pyramid   ObjectConfig    `yaml:"pyramid"`
	Cube      ObjectConfig    `yaml:"cube"`
	Flames    []FlameConfig   `yaml:"flames"`
	Text      []TextConfig    `yaml:"text"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ObjectConfig toggles a solid object and places it in the world.
type ObjectConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Position ms3.Vec `yaml:"position"`
	// Texture is an image path. Empty selects a procedural image.
	Texture string `yaml:"texture"`
}

type GroundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Height  float32 `yaml:"height"`
	Texture string  `yaml:"texture"`
}

type StarburstConfig struct {
	Enabled bool    `yaml:"enabled"`
	Sprites int     `yaml:"sprites"`
	Texture string  `yaml:"texture"`
	Depth   float32 `yaml:"depth"`
}

type FlameConfig struct {
	Position  ms3.Vec    `yaml:"position"`
	Particles int        `yaml:"particles"`
	Color     [4]float32 `yaml:"color"`
	Texture   string     `yaml:"texture"`
}

type TextConfig struct {
	Text string `yaml:"text"`
	// X and Y are the bottom left corner in pixels.
	X          float32    `yaml:"x"`
	Y          float32    `yaml:"y"`
	Size       float32    `yaml:"size"`
	Color      [4]float32 `yaml:"color"`
	Background [4]float32 `yaml:"background"`
}

// DefaultConfig returns the configuration of the demo scene.
func DefaultConfig() Config {
	return Config{
		Window:          WindowConfig{Width: 1024, Height: 768, Title: "glscene"},
		Fovy:            45,
		InitialOffset:   ms3.Vec{},
		Step:            0.2,
		DragScale:       1.0 / 50,
		ClearColor:      [4]float32{0.1, 0.2, 0.3, 1},
		FramesPerReport: 300,
		Seed:            1,
		Ground:          GroundConfig{Enabled: true, Height: -2},
		Starburst:       StarburstConfig{Enabled: true, Sprites: 50, Depth: -25},
		Pyramid:         ObjectConfig{Enabled: true, Position: ms3.Vec{X: -1.5, Z: -5}},
		Cube:            ObjectConfig{Enabled: true, Position: ms3.Vec{X: 1.5, Z: -6}},
		Flames: []FlameConfig{
			{Position: ms3.Vec{X: 0, Y: -1.5, Z: -8}, Particles: 400, Color: [4]float32{1, 0.5, 0.2, 1}},
		},
		Text: []TextConfig{
			{Text: "glscene", X: 16, Y: 16, Size: 24, Color: [4]float32{1, 1, 1, 1}},
		},
	}
}

// Validate reports the first invalid field of the configuration.
func (cfg *Config) Validate() error {
	switch {
	case !(cfg.Fovy > 0 && cfg.Fovy < 180):
		return fmt.Errorf("fovy %g out of range (0,180)", cfg.Fovy)
	case !finite(cfg.Step) || cfg.Step == 0:
		return fmt.Errorf("step must be finite and non-zero, got %g", cfg.Step)
	case !finite(cfg.DragScale):
		return fmt.Errorf("non-finite drag_scale %g", cfg.DragScale)
	case cfg.FramesPerReport < 0:
		return errors.New("negative frames_per_report")
	case cfg.Starburst.Enabled && cfg.Starburst.Sprites <= 0:
		return fmt.Errorf("starburst needs a positive sprite count, got %d", cfg.Starburst.Sprites)
	}
	for i, f := range cfg.Flames {
		if f.Particles <= 0 || f.Particles > MaxFlameParticles {
			return fmt.Errorf("flame %d: particle count %d out of range [1,%d]", i, f.Particles, MaxFlameParticles)
		}
	}
	for i, t := range cfg.Text {
		if t.Size <= 0 {
			return fmt.Errorf("text %d: non-positive size %g", i, t.Size)
		}
	}
	return nil
}

func finite(v float32) bool { return !math32.IsNaN(v) && !math32.IsInf(v, 0) }

// Projection returns the perspective projection for a drawing buffer of the
// given size. Only the aspect ratio depends on the size.
func (cfg *Config) Projection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(cfg.Fovy), aspect, NearPlane, FarPlane)
}

// DecodeConfig reads a YAML configuration from r. Missing fields keep their
// default value; unknown fields are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// EncodeConfig writes cfg as YAML to w.
func EncodeConfig(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(cfg)
	if err != nil {
		return err
	}
	return enc.Close()
}
