package insulation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/model"
)

// DefaultKeyword is the material name fragment that marks the insulation
// layer.
const DefaultKeyword = "soft insulation"

// quarterTurn is the rotation used to swing the baseline across the wall.
// The value is kept as-is; it is not exactly π/2.
const quarterTurn = 1.57079633

// ErrNoInsulationLayer is returned when no layer of a wall matches the
// insulation keyword.
var ErrNoInsulationLayer = errors.New("no insulation layer")

// BoundaryPair holds the two faces of an insulation layer. Both curves run
// in the direction of the wall's location curve.
type BoundaryPair struct {
	Outer kernel.Curve
	Inner kernel.Curve
}

// Resolver locates insulation layers inside wall compound structures.
type Resolver struct {
	Kernel  kernel.Kernel
	Keyword string // case-insensitive material fragment, DefaultKeyword if empty
}

func (r Resolver) keyword() string {
	if r.Keyword == "" {
		return DefaultKeyword
	}
	return strings.ToLower(r.Keyword)
}

// Matches reports whether a material name marks an insulation layer.
func (r Resolver) Matches(material string) bool {
	return material != "" && strings.Contains(strings.ToLower(material), r.keyword())
}

// Resolve returns the boundary pair of the first matching layer of w.
//
// Layers are walked from the exterior side. The near face of the layer
// sits at ypos = width/2 - offset from the centerline and the far face at
// ypos - layerWidth. A layer crossing the centerline is measured from the
// opposite side instead. The baseline is swung a quarter turn about its
// start, evaluated at those distances and the original baseline is then
// translated onto each face.
func (r Resolver) Resolve(w *model.Wall) (BoundaryPair, error) {
	if w.Location == nil {
		return BoundaryPair{}, fmt.Errorf("insulation: wall %q: no location curve", w.Name)
	}
	k := r.Kernel
	base := w.Location
	start := base.EndPoint(0)

	var offset float64
	for _, layer := range w.Layers {
		if !r.Matches(layer.Material) {
			offset += layer.Width
			continue
		}

		ypos := w.Width/2 - offset
		angle := -quarterTurn
		layerOffset := ypos - layer.Width
		if ypos-layer.Width < 0 {
			angle = -angle
			ypos = -w.Width/2 + offset
			layerOffset = ypos + layer.Width
		}
		if w.Flipped {
			angle = -angle
		}

		rotated := k.RotateAt(base, start, angle)
		innerStart := rotated.Evaluate(layerOffset / rotated.Length())

		outerStart := rotated.Evaluate(ypos / rotated.Length())
		if ypos < 0 {
			// Keep the parameter positive by swinging the other way.
			helper := k.RotateAt(base, start, -angle)
			outerStart = helper.Evaluate(-ypos / helper.Length())
		}

		return BoundaryPair{
			Outer: k.Translate(base, start.Sub(outerStart)),
			Inner: k.Translate(base, start.Sub(innerStart)),
		}, nil
	}

	if hint := r.closestMaterial(w.Layers); hint != "" {
		return BoundaryPair{}, fmt.Errorf("insulation: wall %q: %w (closest material %q)", w.Name, ErrNoInsulationLayer, hint)
	}
	return BoundaryPair{}, fmt.Errorf("insulation: wall %q: %w", w.Name, ErrNoInsulationLayer)
}

// closestMaterial returns the layer material nearest to the keyword by
// edit distance, or "" if the wall has no named materials.
func (r Resolver) closestMaterial(layers []model.Layer) string {
	best, bestDist := "", math.MaxInt
	for _, l := range layers {
		if l.Material == "" {
			continue
		}
		d := levenshtein.ComputeDistance(strings.ToLower(l.Material), r.keyword())
		if d < bestDist {
			best, bestDist = l.Material, d
		}
	}
	return best
}
