package insulation

import (
	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// JoinSource reports the walls joined to a wall at one of its ends.
type JoinSource interface {
	JoinedAt(wall model.ElementID, end model.End) []*model.Wall
}

// Banned is the set of walls excluded from join extension.
type Banned map[model.ElementID]bool

// NewBanned builds a Banned set from ids.
func NewBanned(ids ...model.ElementID) Banned {
	return lo.SliceToMap(ids, func(id model.ElementID) (model.ElementID, bool) {
		return id, true
	})
}

// Joiner extends boundary pairs so the insulation of joined walls meets
// without a gap. Only straight boundaries are extended.
type Joiner struct {
	Kernel   kernel.Kernel
	Resolver Resolver
	Joins    JoinSource
}

// neighbors returns the pairs of the walls joined at end that are not
// banned and carry an insulation layer.
func (j Joiner) neighbors(w *model.Wall, end model.End, banned Banned) []BoundaryPair {
	walls := lo.Filter(j.Joins.JoinedAt(w.ID, end), func(n *model.Wall, _ int) bool {
		return !banned[n.ID]
	})
	var out []BoundaryPair
	for _, n := range walls {
		pair, err := j.Resolver.Resolve(n)
		if err != nil {
			continue
		}
		out = append(out, pair)
	}
	return out
}

// unique intersects the unbound extensions of a and b and returns the
// intersection point only when there is exactly one.
func (j Joiner) unique(a, b kernel.Curve) (v3.Vec, bool) {
	hits := j.Kernel.Intersect(a.Unbound(), b.Unbound())
	if len(hits) != 1 {
		return v3.Vec{}, false
	}
	return hits[0], true
}

// ExtendLeft moves the start of the inner boundary onto the outer face of
// the wall joined at w's start. When several neighbors qualify the last
// one wins. inner is returned unchanged when it is curved or nothing
// intersects uniquely.
func (j Joiner) ExtendLeft(w *model.Wall, inner kernel.Curve, banned Banned) kernel.Curve {
	if inner.Kind() != kernel.KindLine {
		return inner
	}

	var (
		hit   v3.Vec
		found bool
	)
	for _, next := range j.neighbors(w, model.EndStart, banned) {
		if p, ok := j.unique(inner, next.Outer); ok {
			hit, found = p, true
		}
	}
	if !found {
		return inner
	}

	extended, err := j.Kernel.Line(hit, inner.EndPoint(1))
	if err != nil {
		return inner
	}
	return extended
}

// ExtendRight moves the ends of both boundaries onto the inner face of
// the wall joined at w's end. Both intersections must exist, otherwise
// the pair passes through unchanged.
func (j Joiner) ExtendRight(w *model.Wall, pair BoundaryPair, banned Banned) BoundaryPair {
	if pair.Inner.Kind() != kernel.KindLine || pair.Outer.Kind() != kernel.KindLine {
		return pair
	}

	var (
		innerHit, outerHit     v3.Vec
		innerFound, outerFound bool
	)
	for _, next := range j.neighbors(w, model.EndEnd, banned) {
		if p, ok := j.unique(pair.Inner, next.Inner); ok {
			innerHit, innerFound = p, true
		}
		if p, ok := j.unique(pair.Outer, next.Inner); ok {
			outerHit, outerFound = p, true
		}
	}
	if !innerFound || !outerFound {
		return pair
	}

	outer, err := j.Kernel.Line(pair.Outer.EndPoint(0), outerHit)
	if err != nil {
		return pair
	}
	inner, err := j.Kernel.Line(pair.Inner.EndPoint(0), innerHit)
	if err != nil {
		return pair
	}
	return BoundaryPair{Outer: outer, Inner: inner}
}
