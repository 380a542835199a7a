package sdfx

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/insulator/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Line
// ---------------------------------------------------------------------------

// line is a segment from p0 to p1. When unbound, p0 is the origin and
// p1 - p0 is the unit direction.
type line struct {
	p0, p1 v3.Vec
	bound  bool
}

func (l *line) Kind() kernel.CurveKind { return kernel.KindLine }

func (l *line) Evaluate(t float64) v3.Vec { return kernel.Lerp(l.p0, l.p1, t) }

func (l *line) EndPoint(i int) v3.Vec {
	if i == 0 {
		return l.p0
	}
	return l.p1
}

func (l *line) Length() float64 {
	if !l.bound {
		return math.Inf(1)
	}
	return kernel.Distance(l.p0, l.p1)
}

func (l *line) Tessellate() []v3.Vec { return []v3.Vec{l.p0, l.p1} }

func (l *line) IsBound() bool { return l.bound }

func (l *line) Unbound() kernel.Curve {
	d := l.p1.Sub(l.p0).Normalize()
	return &line{p0: l.p0, p1: l.p0.Add(d), bound: false}
}

// ---------------------------------------------------------------------------
// Arc
// ---------------------------------------------------------------------------

// maxArcStep bounds the angle between consecutive tessellation points.
const maxArcStep = math.Pi / 36

// arc is a circular arc in a plane parallel to XY. Sweep is signed:
// positive runs counter-clockwise.
type arc struct {
	center v3.Vec
	radius float64
	start  float64
	sweep  float64
	bound  bool
}

// newArcThrough builds the arc from start to end passing through mid.
func newArcThrough(start, end, mid v3.Vec) (*arc, error) {
	if kernel.Distance(start, end) < kernel.Epsilon {
		return nil, fmt.Errorf("coincident end points: %w", ErrDegenerate)
	}

	// Work relative to start to keep the determinant well conditioned.
	bx, by := mid.X-start.X, mid.Y-start.Y
	cx, cy := end.X-start.X, end.Y-start.Y
	d := 2 * (bx*cy - by*cx)
	if math.Abs(d) < kernel.Epsilon {
		return nil, fmt.Errorf("collinear points: %w", ErrDegenerate)
	}
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d

	center := v3.Vec{X: start.X + ux, Y: start.Y + uy, Z: start.Z}
	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	am := math.Atan2(mid.Y-center.Y, mid.X-center.X)
	a1 := math.Atan2(end.Y-center.Y, end.X-center.X)

	toEnd := normAngle(a1 - a0)
	toMid := normAngle(am - a0)
	sweep := toEnd
	if toMid > toEnd {
		sweep = toEnd - 2*math.Pi
	}

	return &arc{
		center: center,
		radius: math.Hypot(ux, uy),
		start:  a0,
		sweep:  sweep,
		bound:  true,
	}, nil
}

func (a *arc) Kind() kernel.CurveKind { return kernel.KindArc }

func (a *arc) Evaluate(t float64) v3.Vec {
	return a.at(a.start + a.sweep*t)
}

func (a *arc) at(angle float64) v3.Vec {
	return v3.Vec{
		X: a.center.X + a.radius*math.Cos(angle),
		Y: a.center.Y + a.radius*math.Sin(angle),
		Z: a.center.Z,
	}
}

func (a *arc) EndPoint(i int) v3.Vec {
	if i == 0 {
		return a.Evaluate(0)
	}
	return a.Evaluate(1)
}

func (a *arc) Length() float64 {
	if !a.bound {
		return 2 * math.Pi * a.radius
	}
	return a.radius * math.Abs(a.sweep)
}

func (a *arc) Tessellate() []v3.Vec {
	sweep := a.sweep
	if !a.bound {
		sweep = 2 * math.Pi
	}
	n := int(math.Ceil(math.Abs(sweep) / maxArcStep))
	if n < 2 {
		n = 2
	}
	pts := make([]v3.Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, a.at(a.start+sweep*float64(i)/float64(n)))
	}
	return pts
}

func (a *arc) IsBound() bool { return a.bound }

func (a *arc) Unbound() kernel.Curve {
	out := *a
	out.bound = false
	return &out
}

func (a *arc) Center() v3.Vec { return a.center }

func (a *arc) Radius() float64 { return a.radius }

func (a *arc) Angles() (float64, float64) { return a.start, a.sweep }

// contains reports whether p's polar angle lies within the arc's sweep.
func (a *arc) contains(p v3.Vec) bool {
	if !a.bound {
		return true
	}
	angle := math.Atan2(p.Y-a.center.Y, p.X-a.center.X)
	rel := normAngle(angle - a.start)
	if a.sweep < 0 {
		rel = normAngle(a.start - angle)
	}
	const slack = 1e-9
	return rel <= math.Abs(a.sweep)+slack || rel >= 2*math.Pi-slack
}

// normAngle maps an angle onto [0, 2π).
func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ---------------------------------------------------------------------------
// Spline
// ---------------------------------------------------------------------------

// splineSamples is the number of flattening steps per spline span.
const splineSamples = 16

// spline is a Catmull-Rom curve through its points, flattened once at
// construction. Parameters are arc-length fractions of the flattening.
type spline struct {
	points  []v3.Vec
	samples []v3.Vec
	cum     []float64 // cumulative length at each sample
}

func newSpline(points []v3.Vec) (*spline, error) {
	pts := make([]v3.Vec, 0, len(points))
	for _, p := range points {
		if len(pts) > 0 && kernel.Distance(pts[len(pts)-1], p) < kernel.Epsilon {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("need at least 2 distinct points, got %d: %w", len(pts), ErrDegenerate)
	}

	samples := []v3.Vec{pts[0]}
	n := len(pts)
	for i := 0; i < n-1; i++ {
		prev := pts[max(i-1, 0)]
		next := pts[min(i+2, n-1)]
		b0 := pts[i]
		b3 := pts[i+1]
		b1 := b0.Add(b3.Sub(prev).MulScalar(1.0 / 6))
		b2 := b3.Sub(next.Sub(b0).MulScalar(1.0 / 6))
		for j := 1; j <= splineSamples; j++ {
			samples = append(samples, cubic(b0, b1, b2, b3, float64(j)/splineSamples))
		}
	}

	cum := make([]float64, len(samples))
	for i := 1; i < len(samples); i++ {
		cum[i] = cum[i-1] + kernel.Distance(samples[i-1], samples[i])
	}
	return &spline{points: pts, samples: samples, cum: cum}, nil
}

// cubic evaluates a cubic Bézier segment at t.
func cubic(p0, p1, p2, p3 v3.Vec, t float64) v3.Vec {
	mt := 1 - t
	a := p0.MulScalar(mt * mt * mt)
	b := p1.MulScalar(3 * mt * mt * t)
	c := p2.MulScalar(3 * mt * t * t)
	d := p3.MulScalar(t * t * t)
	return a.Add(b).Add(c).Add(d)
}

func (s *spline) Kind() kernel.CurveKind { return kernel.KindSpline }

func (s *spline) Evaluate(t float64) v3.Vec {
	target := t * s.Length()
	last := len(s.samples) - 1
	i := sort.SearchFloat64s(s.cum, target)
	// Clamp to a real span so values outside [0,1] extrapolate linearly.
	if i < 1 {
		i = 1
	}
	if i > last {
		i = last
	}
	span := s.cum[i] - s.cum[i-1]
	if span == 0 {
		return s.samples[i]
	}
	return kernel.Lerp(s.samples[i-1], s.samples[i], (target-s.cum[i-1])/span)
}

func (s *spline) EndPoint(i int) v3.Vec {
	if i == 0 {
		return s.samples[0]
	}
	return s.samples[len(s.samples)-1]
}

func (s *spline) Length() float64 { return s.cum[len(s.cum)-1] }

func (s *spline) Tessellate() []v3.Vec {
	out := make([]v3.Vec, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *spline) IsBound() bool { return true }

func (s *spline) Unbound() kernel.Curve { return s }
