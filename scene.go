// Package glscene renders an ordered set of independent drawables once per
// frame tick. A [Scene] owns the shared projection, the user driven scene
// offset and the frame counter, and threads them to every drawable through a
// per-frame [Frame] value.
package glscene

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glscene/gldev"
)

var (
	// ErrNotRunning is returned by Tick when the scene was not started or was disposed.
	ErrNotRunning = errors.New("glscene: scene not running")
	// ErrStarted is returned when modifying drawable membership after Start.
	ErrStarted = errors.New("glscene: scene already started")
)

// Frame is the per-tick context passed to every drawable. It is read-only
// within Draw.
type Frame struct {
	// Projection is the camera projection shared by all drawables this frame.
	Projection mgl32.Mat4
	// T is the frame counter, incremented once per tick.
	T uint64
	// Offset is the scene-wide translation applied before per-object transforms.
	Offset ms3.Vec
	// Width and Height are the drawing buffer size in pixels.
	Width, Height int
}

// Time returns the frame counter as the time parameter of animations.
func (f *Frame) Time() float32 { return float32(f.T) }

// OffsetVec3 returns the scene offset as a translation vector.
func (f *Frame) OffsetVec3() mgl32.Vec3 {
	return mgl32.Vec3{f.Offset.X, f.Offset.Y, f.Offset.Z}
}

// Drawable is an object owning GPU resources that renders itself each frame.
// Draw must establish all render state it relies on.
type Drawable interface {
	Draw(f *Frame) error
}

// Releaser is implemented by drawables that free GPU resources on [Scene.Dispose].
type Releaser interface {
	Release() error
}

// State is the lifecycle state of a Scene.
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

type entry struct {
	name string
	d    Drawable
}

// Scene is the scene graph and frame loop. It is not safe for concurrent use:
// input handlers and Tick must run on the same goroutine, which is the case
// for GLFW callbacks dispatched from PollEvents.
type Scene struct {
	dev     gldev.Device
	cfg     Config
	entries []entry
	hooks   []func() error

	offset ms3.Vec
	drag   dragState

	proj          mgl32.Mat4
	width, height int
	projUpdates   int

	t     uint64
	state State
	stats frameStats
}

// NewScene returns an uninitialized scene drawing to dev. The configuration
// is copied and never modified afterwards.
func NewScene(dev gldev.Device, cfg Config) (*Scene, error) {
	if dev == nil {
		return nil, gldev.ErrNoContext
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &Scene{
		dev:    dev,
		cfg:    cfg,
		offset: cfg.InitialOffset,
		stats:  frameStats{every: cfg.FramesPerReport},
	}, nil
}

// Add appends a drawable. Drawables are drawn in the order they are added;
// no depth sorting is performed so blended drawables must be ordered by the caller.
func (s *Scene) Add(name string, d Drawable) error {
	if s.state != StateUninitialized {
		return ErrStarted
	} else if d == nil {
		return fmt.Errorf("nil drawable %q", name)
	}
	s.entries = append(s.entries, entry{name: name, d: d})
	return nil
}

// BeforeFrame registers a hook run at the start of every tick before
// drawing, such as uploading textures whose images finished decoding.
func (s *Scene) BeforeFrame(hook func() error) error {
	if s.state != StateUninitialized {
		return ErrStarted
	}
	s.hooks = append(s.hooks, hook)
	return nil
}

// Names returns the drawable names in draw order.
func (s *Scene) Names() []string {
	names := make([]string, len(s.entries))
	for i := range s.entries {
		names[i] = s.entries[i].name
	}
	return names
}

// Start transitions the scene to running and computes the initial projection.
func (s *Scene) Start() error {
	if s.state != StateUninitialized {
		return ErrStarted
	}
	c := s.cfg.ClearColor
	s.dev.ClearColor(c[0], c[1], c[2], c[3])
	s.resize()
	s.state = StateRunning
	Logger().Info("scene started", "drawables", len(s.entries), "width", s.width, "height", s.height)
	return nil
}

// Tick renders one frame. timestamp is a monotonic time used only for
// performance reports. Drawing stops at the first drawable error.
func (s *Scene) Tick(timestamp time.Duration) error {
	if s.state != StateRunning {
		return ErrNotRunning
	}
	for _, hook := range s.hooks {
		if err := hook(); err != nil {
			return err
		}
	}
	w, h := s.dev.DrawingBufferSize()
	if w != s.width || h != s.height {
		s.resize()
	}
	s.dev.Clear(gldev.ColorBufferBit | gldev.DepthBufferBit)
	frame := Frame{
		Projection: s.proj,
		T:          s.t,
		Offset:     s.offset,
		Width:      s.width,
		Height:     s.height,
	}
	for i := range s.entries {
		e := &s.entries[i]
		if err := e.d.Draw(&frame); err != nil {
			return fmt.Errorf("drawing %s: %w", e.name, err)
		}
	}
	if avg, fps, ok := s.stats.observe(s.t, timestamp); ok {
		Logger().Info("frame report", "frames", s.stats.every, "avg", avg.Round(time.Microsecond), "fps", int(fps+0.5))
	}
	s.t++
	return nil
}

// resize reads the drawing buffer size, sets the viewport and recomputes the projection.
func (s *Scene) resize() {
	s.width, s.height = s.dev.DrawingBufferSize()
	s.dev.Viewport(0, 0, s.width, s.height)
	s.proj = s.cfg.Projection(s.width, s.height)
	s.projUpdates++
	Logger().Debug("projection updated", "width", s.width, "height", s.height)
}

// Dispose releases drawables implementing [Releaser] and stops the scene.
// Calling Dispose more than once is a no-op.
func (s *Scene) Dispose() error {
	if s.state == StateDisposed {
		return nil
	}
	s.state = StateDisposed
	var errs []error
	for _, e := range s.entries {
		if r, ok := e.d.(Releaser); ok {
			if err := r.Release(); err != nil {
				errs = append(errs, fmt.Errorf("releasing %s: %w", e.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// State returns the lifecycle state.
func (s *Scene) State() State { return s.state }

// Offset returns the current scene offset.
func (s *Scene) Offset() ms3.Vec { return s.offset }

// Projection returns the current projection matrix.
func (s *Scene) Projection() mgl32.Mat4 { return s.proj }

// FrameCount returns the number of completed ticks.
func (s *Scene) FrameCount() uint64 { return s.t }

// Config returns the scene configuration.
func (s *Scene) Config() Config { return s.cfg }

// Device returns the graphics device the scene draws to.
func (s *Scene) Device() gldev.Device { return s.dev }
