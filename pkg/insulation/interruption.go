package insulation

import (
	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Interruption is an arc-length interval along the inner boundary in
// which no loop may end, such as a door or window.
type Interruption struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// NewInterruption centers an interval of the given width on the opening
// point. The center distance is the straight distance from the baseline's
// first end point.
func NewInterruption(baseline kernel.Curve, center v3.Vec, width float64) Interruption {
	d := kernel.Distance(baseline.EndPoint(0), center)
	return Interruption{From: d - width/2, To: d + width/2}
}

// Extend shifts both bounds by delta.
func (i Interruption) Extend(delta float64) Interruption {
	return Interruption{From: i.From + delta, To: i.To + delta}
}

// Contains reports whether the normalized parameter lies strictly inside
// the interval on a curve of the given length.
func (i Interruption) Contains(param, length float64) bool {
	return param > i.From/length && param < i.To/length
}

// OpeningInterruptions converts a wall's openings into interruptions
// measured along its location curve.
func OpeningInterruptions(w *model.Wall, openings []*model.Opening) []Interruption {
	return lo.Map(openings, func(o *model.Opening, _ int) Interruption {
		return NewInterruption(w.Location, o.Position, o.Width)
	})
}

// ShiftInterruptions returns a copy of list shifted by the length the
// inner boundary gained at its start. Nothing shifts when it did not grow.
func ShiftInterruptions(list []Interruption, oldInner, newInner kernel.Curve) []Interruption {
	offset := newInner.Length() - oldInner.Length()
	out := make([]Interruption, len(list))
	for i, ir := range list {
		if offset > 0 {
			ir = ir.Extend(offset)
		}
		out[i] = ir
	}
	return out
}
