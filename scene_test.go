package glscene_test

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glscene"
	"github.com/soypat/glscene/gldev"
)

type drawRecorder struct {
	name   string
	log    *[]string
	frames []glscene.Frame
	err    error
	freed  int
}

func (d *drawRecorder) Draw(f *glscene.Frame) error {
	*d.log = append(*d.log, d.name)
	d.frames = append(d.frames, *f)
	return d.err
}

func (d *drawRecorder) Release() error {
	d.freed++
	return nil
}

func newTestScene(t *testing.T, dev *gldev.Recorder) *glscene.Scene {
	t.Helper()
	s, err := glscene.NewScene(dev, glscene.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDrawOrder(t *testing.T) {
	dev := gldev.NewRecorder(640, 480)
	s := newTestScene(t, dev)
	var log []string
	names := []string{"starburst", "pyramid", "cube"}
	draws := make([]*drawRecorder, len(names))
	for i, name := range names {
		draws[i] = &drawRecorder{name: name, log: &log}
		if err := s.Add(name, draws[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Tick(time.Duration(i) * time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	want := append(append(append([]string{}, names...), names...), names...)
	if !reflect.DeepEqual(log, want) {
		t.Errorf("draw order %v, want %v", log, want)
	}
	for i, f := range draws[0].frames {
		if f.T != uint64(i) {
			t.Errorf("frame %d got t=%d", i, f.T)
		}
	}
	if s.FrameCount() != 3 {
		t.Errorf("frame count %d, want 3", s.FrameCount())
	}
	if !reflect.DeepEqual(s.Names(), names) {
		t.Errorf("names %v", s.Names())
	}
}

func TestProjectionOnlyOnResize(t *testing.T) {
	dev := gldev.NewRecorder(800, 400)
	s := newTestScene(t, dev)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	initial := s.Projection()
	for i := 0; i < 10; i++ {
		s.Tick(0)
	}
	if dev.Count("Viewport") != 1 {
		t.Fatalf("viewport set %d times without resize", dev.Count("Viewport"))
	}
	if s.Projection() != initial {
		t.Fatal("projection changed without resize")
	}
	dev.Width, dev.Height = 400, 400
	s.Tick(0)
	if dev.Count("Viewport") != 2 {
		t.Fatalf("resize did not update viewport")
	}
	resized := s.Projection()
	// Perspective matrices only differ in the aspect term at [0][0].
	for i := range resized {
		if i == 0 {
			continue
		}
		if resized[i] != initial[i] {
			t.Errorf("element %d changed on resize: %v -> %v", i, initial[i], resized[i])
		}
	}
	if got, want := resized[0], 2*initial[0]; abs(got-want) > 1e-5 {
		t.Errorf("aspect term %v, want %v", got, want)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	cfg := glscene.DefaultConfig()
	cfg.InitialOffset = ms3.Vec{X: 1, Y: 2, Z: -3}
	s, err := glscene.NewScene(gldev.NewRecorder(1, 1), cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.KeyDown(glscene.KeyA)
	if got := s.Offset().X; got != 1+cfg.Step {
		t.Errorf("after a: x=%v", got)
	}
	s.KeyDown(glscene.KeyA)
	if got := s.Offset().X; abs(got-(1+2*cfg.Step)) > 1e-6 {
		t.Errorf("after a,a: x=%v", got)
	}
	s.KeyDown(glscene.KeyEscape)
	if s.Offset() != cfg.InitialOffset {
		t.Errorf("escape reset to %v, want %v", s.Offset(), cfg.InitialOffset)
	}
	// Reset must be exact after any sequence.
	for _, k := range []glscene.Key{glscene.KeyW, glscene.KeyS, glscene.KeyS, glscene.KeyD, glscene.KeyEscape} {
		s.KeyDown(k)
	}
	if s.Offset() != cfg.InitialOffset {
		t.Errorf("second reset to %v", s.Offset())
	}
}

func TestKeyDirections(t *testing.T) {
	var tests = []struct {
		key  glscene.Key
		want ms3.Vec
	}{
		{glscene.KeyA, ms3.Vec{X: 0.2}},
		{glscene.KeyD, ms3.Vec{X: -0.2}},
		{glscene.KeyW, ms3.Vec{Z: 0.2}},
		{glscene.KeyS, ms3.Vec{Z: -0.2}},
		{glscene.KeyUnknown, ms3.Vec{}},
	}
	for _, test := range tests {
		cfg := glscene.DefaultConfig()
		cfg.Step = 0.2
		s, _ := glscene.NewScene(gldev.NewRecorder(1, 1), cfg)
		s.KeyDown(test.key)
		if s.Offset() != test.want {
			t.Errorf("key %d: got %v, want %v", test.key, s.Offset(), test.want)
		}
	}
}

func TestMouseDrag(t *testing.T) {
	s := newTestScene(t, gldev.NewRecorder(1, 1))
	s.MouseMove(100, 100) // Not dragging.
	if s.Offset() != (ms3.Vec{}) {
		t.Fatal("moved without drag")
	}
	s.MouseDown(10, 10)
	s.MouseMove(60, 110)
	got := s.Offset()
	if abs(got.X-1) > 1e-6 || abs(got.Y+2) > 1e-6 || got.Z != 0 {
		t.Errorf("drag offset %v, want (1,-2,0)", got)
	}
	s.MouseUp()
	s.MouseMove(1000, 1000)
	if s.Offset() != got {
		t.Error("moved after mouse up")
	}
}

func TestLifecycle(t *testing.T) {
	dev := gldev.NewRecorder(10, 10)
	s := newTestScene(t, dev)
	var log []string
	d := &drawRecorder{name: "d", log: &log}
	if err := s.Tick(0); !errors.Is(err, glscene.ErrNotRunning) {
		t.Errorf("tick before start: %v", err)
	}
	s.Add("d", d)
	if s.State() != glscene.StateUninitialized {
		t.Fatal("bad initial state")
	}
	s.Start()
	if err := s.Add("late", d); !errors.Is(err, glscene.ErrStarted) {
		t.Errorf("add after start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, glscene.ErrStarted) {
		t.Errorf("double start: %v", err)
	}
	if err := s.Dispose(); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispose(); err != nil {
		t.Fatal(err)
	}
	if d.freed != 1 {
		t.Errorf("released %d times", d.freed)
	}
	if err := s.Tick(0); !errors.Is(err, glscene.ErrNotRunning) {
		t.Errorf("tick after dispose: %v", err)
	}
	if s.State().String() != "disposed" {
		t.Errorf("state %s", s.State())
	}
}

func TestTickStopsOnError(t *testing.T) {
	s := newTestScene(t, gldev.NewRecorder(10, 10))
	var log []string
	fail := errors.New("boom")
	s.Add("a", &drawRecorder{name: "a", log: &log, err: fail})
	s.Add("b", &drawRecorder{name: "b", log: &log})
	s.Start()
	err := s.Tick(0)
	if !errors.Is(err, fail) || !strings.Contains(err.Error(), "a") {
		t.Fatalf("got %v", err)
	}
	if len(log) != 1 {
		t.Errorf("drew %v after failure", log)
	}
	if s.FrameCount() != 0 {
		t.Error("frame advanced on failed tick")
	}
}

func TestBeforeFrameHook(t *testing.T) {
	s := newTestScene(t, gldev.NewRecorder(10, 10))
	calls := 0
	s.BeforeFrame(func() error { calls++; return nil })
	s.Start()
	s.Tick(0)
	s.Tick(0)
	if calls != 2 {
		t.Errorf("hook called %d times", calls)
	}
}

func TestConfigYAML(t *testing.T) {
	var buf bytes.Buffer
	want := glscene.DefaultConfig()
	if err := glscene.EncodeConfig(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := glscene.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", got, want)
	}

	partial := "fovy: 60\nstarburst:\n  enabled: false\n"
	got, err = glscene.DecodeConfig(strings.NewReader(partial))
	if err != nil {
		t.Fatal(err)
	}
	if got.Fovy != 60 || got.Starburst.Enabled || got.Step != want.Step {
		t.Errorf("partial decode: %+v", got)
	}
	_, err = glscene.DecodeConfig(strings.NewReader("fovy: 200\n"))
	if err == nil {
		t.Error("expected fovy range error")
	}
	for _, bad := range []string{"step: 0\n", "step: .nan\n", "drag_scale: .inf\n", "fovy: .nan\n"} {
		_, err = glscene.DecodeConfig(strings.NewReader(bad))
		if err == nil {
			t.Errorf("expected error decoding %q", bad)
		}
	}
	_, err = glscene.DecodeConfig(strings.NewReader("no_such_field: 1\n"))
	if err == nil {
		t.Error("expected unknown field error")
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	glscene.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer glscene.SetLogger(nil)
	s, err := glscene.NewScene(gldev.NewRecorder(8, 8), glscene.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Dispose()
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "scene started") {
		t.Errorf("start not logged through configured logger: %q", buf.String())
	}
	glscene.SetLogger(nil)
	if glscene.Logger() == nil {
		t.Fatal("nil logger after reset")
	}
	buf.Reset()
	glscene.Logger().Info("discarded")
	if buf.Len() != 0 {
		t.Error("reset logger still writes to old handler")
	}
}
