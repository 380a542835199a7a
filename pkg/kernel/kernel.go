// Package kernel defines the abstract curve kernel interface.
// Implementations (sdfx) provide the planar curve primitives the
// insulation core consumes from the host: lines, arcs through three
// points, free-form splines, rigid transforms and intersections.
// The kernel abstraction allows swapping backends without changing the
// rest of the system.
package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Tolerance is the distance below which two points are treated as the same
// point when probing a tessellation.
const Tolerance = 0.0001

// Epsilon is the numeric slack used by intersection and bound checks.
const Epsilon = 1e-9

// CurveKind enumerates the concrete curve variants.
type CurveKind int

const (
	KindLine   CurveKind = iota // straight segment or infinite line
	KindArc                     // circular arc or full circle
	KindSpline                  // free-form interpolating spline
)

func (k CurveKind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	case KindSpline:
		return "spline"
	default:
		return "unknown"
	}
}

// Curve is an immutable planar curve. Parameters passed to Evaluate are
// normalized: 0 maps to EndPoint(0) and 1 to EndPoint(1) for bounded
// curves. Values outside [0,1] continue along the underlying geometry.
type Curve interface {
	Kind() CurveKind
	Evaluate(t float64) v3.Vec
	EndPoint(i int) v3.Vec
	Length() float64
	Tessellate() []v3.Vec
	IsBound() bool

	// Unbound returns a copy extended infinitely along its geometry.
	// Splines cannot be unbounded and return themselves.
	Unbound() Curve
}

// Circular is implemented by arc curves.
type Circular interface {
	Center() v3.Vec
	Radius() float64
	// Angles returns the start angle and the signed sweep in radians,
	// measured counter-clockwise from +X.
	Angles() (start, sweep float64)
}

// Kernel is the abstract curve kernel interface.
type Kernel interface {
	// Primitives
	Line(p0, p1 v3.Vec) (Curve, error)
	UnboundLine(origin, dir v3.Vec) (Curve, error)
	Arc(start, end, through v3.Vec) (Curve, error)
	Spline(points []v3.Vec) (Curve, error)

	// Transforms
	Translate(c Curve, v v3.Vec) Curve
	RotateAt(c Curve, pivot v3.Vec, angle float64) Curve // about +Z, radians

	// Intersect returns the points where a meets b, ordered by distance
	// from a's start (or origin, for unbound lines).
	Intersect(a, b Curve) []v3.Vec
}

// Distance returns |a - b|.
func Distance(a, b v3.Vec) float64 {
	return a.Sub(b).Length()
}

// Lerp interpolates between a and b.
func Lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}
