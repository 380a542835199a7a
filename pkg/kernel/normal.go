package kernel

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	basisY = v3.Vec{X: 0, Y: 1, Z: 0}
	basisZ = v3.Vec{X: 0, Y: 0, Z: 1}
)

// verticalThreshold is the in-plane extent under which a chord is treated
// as vertical and spanned with the Y axis instead of Z.
const verticalThreshold = 0.001

// CurveNormal returns the unit normal of c. Straight curves span their
// chord with the Z axis (Y for near-vertical chords). Curved ones use the
// first interior tessellation point that is not collinear with the chord.
// The second result is false when c is degenerate.
func CurveNormal(c Curve) (v3.Vec, bool) {
	pts := c.Tessellate()
	n := len(pts)
	if n < 2 {
		return v3.Vec{}, false
	}

	p := pts[0]
	v := pts[n-1].Sub(p)

	if n == 2 {
		w := basisZ
		if math.Abs(v.X)+math.Abs(v.Y) <= verticalThreshold {
			w = basisY
		}
		normal := v.Cross(w)
		if normal.Length() == 0 {
			return v3.Vec{}, false
		}
		return normal.Normalize(), true
	}

	for i := 1; i < n-1; i++ {
		normal := v.Cross(pts[i].Sub(p))
		if normal.Length() > 0 {
			return normal.Normalize(), true
		}
	}
	return v3.Vec{}, false
}

// TangentNormal approximates the normal of c at point p. It draws a chord
// from p to the nearest tessellation vertex that is not p itself and takes
// that chord's normal. When the nearest vertex collapses onto p the whole
// curve chord is used instead.
func TangentNormal(k Kernel, c Curve, p v3.Vec) (v3.Vec, bool) {
	closest := c.EndPoint(1)
	for _, pt := range c.Tessellate() {
		d := Distance(pt, p)
		if d < Distance(closest, p) && d > Tolerance {
			closest = pt
		}
	}

	from := p
	if Distance(closest, p) < Tolerance {
		from = c.EndPoint(0)
		closest = c.EndPoint(1)
	}

	chord, err := k.Line(from, closest)
	if err != nil {
		return v3.Vec{}, false
	}
	return CurveNormal(chord)
}
