// Package sdfx implements the kernel.Kernel interface on top of the
// github.com/deadsy/sdfx vector and matrix types. Curves are planar: all
// intersection work happens in the XY plane and Z is carried through.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/chazu/insulator/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// ErrDegenerate is returned when the requested primitive collapses to a
// point or cannot be constructed from the given points.
var ErrDegenerate = errors.New("degenerate curve")

// SdfxKernel implements kernel.Kernel using sdfx vectors and transforms.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// Line creates a bounded segment from p0 to p1.
func (k *SdfxKernel) Line(p0, p1 v3.Vec) (kernel.Curve, error) {
	if kernel.Distance(p0, p1) < kernel.Epsilon {
		return nil, fmt.Errorf("sdfx: line: %w", ErrDegenerate)
	}
	return &line{p0: p0, p1: p1, bound: true}, nil
}

// UnboundLine creates an infinite line through origin along dir.
func (k *SdfxKernel) UnboundLine(origin, dir v3.Vec) (kernel.Curve, error) {
	if dir.Length() < kernel.Epsilon {
		return nil, fmt.Errorf("sdfx: unbound line: zero direction: %w", ErrDegenerate)
	}
	return &line{p0: origin, p1: origin.Add(dir.Normalize()), bound: false}, nil
}

// Arc creates the circular arc from start to end passing through through.
func (k *SdfxKernel) Arc(start, end, through v3.Vec) (kernel.Curve, error) {
	a, err := newArcThrough(start, end, through)
	if err != nil {
		return nil, fmt.Errorf("sdfx: arc: %w", err)
	}
	return a, nil
}

// Spline creates an interpolating spline through points.
func (k *SdfxKernel) Spline(points []v3.Vec) (kernel.Curve, error) {
	s, err := newSpline(points)
	if err != nil {
		return nil, fmt.Errorf("sdfx: spline: %w", err)
	}
	return s, nil
}

// Translate moves a curve by v.
func (k *SdfxKernel) Translate(c kernel.Curve, v v3.Vec) kernel.Curve {
	return transform(c, sdf.Translate3d(v))
}

// RotateAt rotates a curve about the Z axis through pivot.
func (k *SdfxKernel) RotateAt(c kernel.Curve, pivot v3.Vec, angle float64) kernel.Curve {
	m := sdf.Translate3d(pivot).Mul(sdf.RotateZ(angle)).Mul(sdf.Translate3d(pivot.MulScalar(-1)))
	return transform(c, m)
}

// Intersect returns the intersection points of a and b.
func (k *SdfxKernel) Intersect(a, b kernel.Curve) []v3.Vec {
	return intersect(a, b)
}

// transform applies a rigid transform to any curve built by this kernel.
// Arcs are rebuilt through their transformed start, middle and end points.
func transform(c kernel.Curve, m sdf.M44) kernel.Curve {
	switch cv := c.(type) {
	case *line:
		return &line{p0: m.MulPosition(cv.p0), p1: m.MulPosition(cv.p1), bound: cv.bound}
	case *arc:
		s := m.MulPosition(cv.Evaluate(0))
		mid := m.MulPosition(cv.Evaluate(0.5))
		e := m.MulPosition(cv.Evaluate(1))
		out, err := newArcThrough(s, e, mid)
		if err != nil {
			// A rigid transform cannot make three distinct points collinear.
			panic(fmt.Sprintf("sdfx: transform arc: %v", err))
		}
		out.bound = cv.bound
		return out
	case *spline:
		pts := make([]v3.Vec, len(cv.points))
		for i, p := range cv.points {
			pts[i] = m.MulPosition(p)
		}
		out, err := newSpline(pts)
		if err != nil {
			panic(fmt.Sprintf("sdfx: transform spline: %v", err))
		}
		return out
	default:
		// Foreign curve: carry its tessellation over as a spline.
		pts := c.Tessellate()
		for i := range pts {
			pts[i] = m.MulPosition(pts[i])
		}
		out, err := newSpline(pts)
		if err != nil {
			panic(fmt.Sprintf("sdfx: transform %T: %v", c, err))
		}
		return out
	}
}
