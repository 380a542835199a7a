package sdfx

import (
	"math"
	"sort"

	"github.com/chazu/insulator/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// segment is the point set p + d*u for u in [lo, hi].
type segment struct {
	p, d   v3.Vec
	lo, hi float64
}

func (s segment) at(u float64) v3.Vec { return s.p.Add(s.d.MulScalar(u)) }

func (s segment) within(u float64) bool {
	const slack = 1e-9
	return u >= s.lo-slack && u <= s.hi+slack
}

// pieces splits a curve into straight segments, or returns its arc.
func pieces(c kernel.Curve) ([]segment, *arc) {
	switch cv := c.(type) {
	case *line:
		if !cv.bound {
			return []segment{{p: cv.p0, d: cv.p1.Sub(cv.p0), lo: math.Inf(-1), hi: math.Inf(1)}}, nil
		}
		return []segment{{p: cv.p0, d: cv.p1.Sub(cv.p0), lo: 0, hi: 1}}, nil
	case *arc:
		return nil, cv
	default:
		pts := c.Tessellate()
		segs := make([]segment, 0, len(pts))
		for i := 1; i < len(pts); i++ {
			d := pts[i].Sub(pts[i-1])
			if d.Length() < kernel.Epsilon {
				continue
			}
			segs = append(segs, segment{p: pts[i-1], d: d, lo: 0, hi: 1})
		}
		return segs, nil
	}
}

// intersect computes the planar intersections of a and b, deduplicated and
// ordered by distance from a's first end point.
func intersect(a, b kernel.Curve) []v3.Vec {
	segsA, arcA := pieces(a)
	segsB, arcB := pieces(b)

	var hits []v3.Vec
	switch {
	case arcA == nil && arcB == nil:
		for _, sa := range segsA {
			for _, sb := range segsB {
				if p, ok := segmentSegment(sa, sb); ok {
					hits = append(hits, p)
				}
			}
		}
	case arcA == nil:
		for _, sa := range segsA {
			hits = append(hits, segmentArc(sa, arcB)...)
		}
	case arcB == nil:
		for _, sb := range segsB {
			for _, p := range segmentArc(sb, arcA) {
				p.Z = arcA.center.Z
				hits = append(hits, p)
			}
		}
	default:
		hits = arcArc(arcA, arcB)
	}

	ref := a.EndPoint(0)
	sort.SliceStable(hits, func(i, j int) bool {
		return kernel.Distance(hits[i], ref) < kernel.Distance(hits[j], ref)
	})

	out := hits[:0]
	for _, h := range hits {
		dup := false
		for _, o := range out {
			if kernel.Distance(h, o) < 1e-7 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, h)
		}
	}
	return out
}

// cross2 is the Z component of the cross product of the XY projections.
func cross2(a, b v3.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

func segmentSegment(a, b segment) (v3.Vec, bool) {
	denom := cross2(a.d, b.d)
	if math.Abs(denom) < kernel.Epsilon*a.d.Length()*b.d.Length() {
		// Parallel or overlapping: no isolated intersection.
		return v3.Vec{}, false
	}
	w := b.p.Sub(a.p)
	u := cross2(w, b.d) / denom
	s := cross2(w, a.d) / denom
	if !a.within(u) || !b.within(s) {
		return v3.Vec{}, false
	}
	return a.at(u), true
}

func segmentArc(s segment, c *arc) []v3.Vec {
	fx, fy := s.p.X-c.center.X, s.p.Y-c.center.Y
	qa := s.d.X*s.d.X + s.d.Y*s.d.Y
	qb := 2 * (fx*s.d.X + fy*s.d.Y)
	qc := fx*fx + fy*fy - c.radius*c.radius

	disc := qb*qb - 4*qa*qc
	if disc < -kernel.Epsilon*qa {
		return nil
	}

	var roots []float64
	if disc <= kernel.Epsilon*qa {
		roots = []float64{-qb / (2 * qa)}
	} else {
		sq := math.Sqrt(disc)
		roots = []float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)}
	}

	var out []v3.Vec
	for _, u := range roots {
		if !s.within(u) {
			continue
		}
		p := s.at(u)
		if c.contains(p) {
			out = append(out, p)
		}
	}
	return out
}

func arcArc(a, b *arc) []v3.Vec {
	dx, dy := b.center.X-a.center.X, b.center.Y-a.center.Y
	d := math.Hypot(dx, dy)
	if d < kernel.Epsilon {
		return nil
	}
	if d > a.radius+b.radius+kernel.Epsilon || d < math.Abs(a.radius-b.radius)-kernel.Epsilon {
		return nil
	}

	along := (a.radius*a.radius - b.radius*b.radius + d*d) / (2 * d)
	h2 := a.radius*a.radius - along*along
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)

	bx := a.center.X + dx*along/d
	by := a.center.Y + dy*along/d
	candidates := []v3.Vec{{X: bx - dy*h/d, Y: by + dx*h/d, Z: a.center.Z}}
	if h > kernel.Epsilon {
		candidates = append(candidates, v3.Vec{X: bx + dy*h/d, Y: by - dx*h/d, Z: a.center.Z})
	}

	var out []v3.Vec
	for _, p := range candidates {
		if a.contains(p) && b.contains(p) {
			out = append(out, p)
		}
	}
	return out
}
