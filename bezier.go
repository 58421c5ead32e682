package ambience

import (
	"math"

	"github.com/tanema/gween/ease"
)

// CubicBezier is a CSS-style timing curve through (0,0), (X1,Y1), (X2,Y2),
// (1,1). X1 and X2 must lie in [0, 1]; Y values may overshoot.
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

const (
	bezierNewtonIterations = 8
	bezierEpsilon          = 1e-7
)

// polynomial coefficients for one axis: b(u) = ((a*u + b)*u + c)*u
func bezierCoeffs(p1, p2 float64) (a, b, c float64) {
	c = 3 * p1
	b = 3*(p2-p1) - c
	a = 1 - c - b
	return
}

func sampleCurve(a, b, c, u float64) float64 {
	return ((a*u+b)*u + c) * u
}

func sampleDerivative(a, b, c, u float64) float64 {
	return (3*a*u+2*b)*u + c
}

// solveX finds u such that x(u) = x using Newton's method, falling back to
// bisection when the derivative is too flat.
func (cb CubicBezier) solveX(x float64) float64 {
	ax, bx, cx := bezierCoeffs(cb.X1, cb.X2)

	u := x
	for i := 0; i < bezierNewtonIterations; i++ {
		err := sampleCurve(ax, bx, cx, u) - x
		if math.Abs(err) < bezierEpsilon {
			return u
		}
		d := sampleDerivative(ax, bx, cx, u)
		if math.Abs(d) < 1e-6 {
			break
		}
		u -= err / d
	}

	lo, hi := 0.0, 1.0
	u = x
	for lo < hi {
		v := sampleCurve(ax, bx, cx, u)
		if math.Abs(v-x) < bezierEpsilon {
			return u
		}
		if x > v {
			lo = u
		} else {
			hi = u
		}
		next := (lo + hi) / 2
		if next == u {
			break
		}
		u = next
	}
	return u
}

// At returns the eased progress for linear progress t. t is clamped to
// [0, 1]; the endpoints map exactly to 0 and 1.
func (cb CubicBezier) At(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := cb.solveX(t)
	ay, by, cy := bezierCoeffs(cb.Y1, cb.Y2)
	return sampleCurve(ay, by, cy, u)
}

// TweenFunc adapts the curve to gween's easing signature.
func (cb CubicBezier) TweenFunc() ease.TweenFunc {
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(cb.At(float64(t/d)))
	}
}
