// Package anim implements stateless animation curves. Every curve is a pure
// function of frame time so drawables carry no hidden per-frame state.
package anim

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const deg2rad = math32.Pi / 180

// Radians converts degrees to radians.
func Radians(deg float32) float32 { return deg * deg2rad }

// Kind tags the variant of a [Curve].
type Kind uint8

const (
	KindConstant Kind = iota
	KindLinear
	KindSinusoidal
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindLinear:
		return "linear"
	case KindSinusoidal:
		return "sinusoidal"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Curve is a scalar function of time. The meaning of the parameters depends on Kind:
//
//	constant:   Offset
//	linear:     Offset + Rate*t
//	sinusoidal: Offset + Amplitude*sin(Frequency*t + Phase)
type Curve struct {
	Kind      Kind
	Offset    float32
	Rate      float32
	Amplitude float32
	Frequency float32
	Phase     float32
}

// Constant returns a curve that always evaluates to v.
func Constant(v float32) Curve { return Curve{Kind: KindConstant, Offset: v} }

// Linear returns a curve starting at offset that advances rate per unit time.
func Linear(offset, rate float32) Curve {
	return Curve{Kind: KindLinear, Offset: offset, Rate: rate}
}

// Sinusoidal returns a bounded oscillation around offset.
func Sinusoidal(offset, amplitude, frequency, phase float32) Curve {
	return Curve{Kind: KindSinusoidal, Offset: offset, Amplitude: amplitude, Frequency: frequency, Phase: phase}
}

// Eval evaluates the curve at time t.
func (c Curve) Eval(t float32) float32 {
	switch c.Kind {
	case KindLinear:
		return c.Offset + c.Rate*t
	case KindSinusoidal:
		return c.Offset + c.Amplitude*math32.Sin(c.Frequency*t+c.Phase)
	}
	return c.Offset
}

// Bounds returns the minimum and maximum values the curve can take. Linear
// curves with non-zero rate are unbounded and return ±Inf.
func (c Curve) Bounds() (lo, hi float32) {
	switch c.Kind {
	case KindLinear:
		if c.Rate == 0 {
			return c.Offset, c.Offset
		}
		return math32.Inf(-1), math32.Inf(1)
	case KindSinusoidal:
		a := math32.Abs(c.Amplitude)
		return c.Offset - a, c.Offset + a
	}
	return c.Offset, c.Offset
}

// Rotation is a per-axis rotation where each axis advances independently.
// Angles are in radians.
type Rotation struct {
	X, Y, Z Curve
}

// Eval returns the rotation angles around each axis at time t.
func (r Rotation) Eval(t float32) ms3.Vec {
	return ms3.Vec{X: r.X.Eval(t), Y: r.Y.Eval(t), Z: r.Z.Eval(t)}
}

// Spin returns a rotation around a single axis at rate radians per frame.
// Axis must be one of 'x', 'y' or 'z'.
func Spin(axis byte, rate float32) Rotation {
	var r Rotation
	switch axis {
	case 'x':
		r.X = Linear(0, rate)
	case 'y':
		r.Y = Linear(0, rate)
	case 'z':
		r.Z = Linear(0, rate)
	default:
		panic("bad spin axis " + string(axis))
	}
	return r
}

// Compound returns a rotation whose three axes advance at the given multiples
// of base. The result tumbles without ever repeating a simple orbit.
func Compound(base, kx, ky, kz float32) Rotation {
	return Rotation{
		X: Linear(0, kx*base),
		Y: Linear(0, ky*base),
		Z: Linear(0, kz*base),
	}
}

// Alpha is the translucency oscillation shared by blended geometry.
// It evaluates to 0.4 + 0.2*sin(0.01*t) and is never fully opaque or transparent.
var Alpha = Sinusoidal(0.4, 0.2, 0.01, 0)

// Orbit returns the orbit distance and spin speed of particle i of n in a
// radial fan. Both scale linearly with i/n so particle 0 sits still at the centre.
func Orbit(i, n int) (distance, speed float32) {
	if n <= 0 {
		return 0, 0
	}
	f := float32(i) / float32(n)
	return f, 5 * f
}

// SpinAngle is the orbit angle of a particle with the given speed at frame t.
func SpinAngle(speed, t float32) float32 {
	return speed * Radians(t)
}
