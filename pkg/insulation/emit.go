package insulation

import (
	"fmt"

	"github.com/chazu/insulator/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Corners are the four points of one step. P1 and P2 lie on the inner
// boundary, P3 and P4 on the outer one. P2 equals P1 on the final step.
type Corners struct {
	P1, P2, P3, P4 v3.Vec
}

// Soft-loop shape fractions.
const (
	axisNear = 0.2  // reference axis near P1/P3
	axisFar  = 0.8  // reference axis near P2/P4
	sideLow  = 0.25 // arc through points on the side lines
	sideHigh = 0.75
	bendLow  = 0.4 // straight middle segment end points on the axes
	bendHigh = 0.6
)

// ZigZag emits a single diagonal: P1 to P4 on the left wing, P3 to P2 on
// the right.
func ZigZag(k kernel.Kernel, c Corners, wing Wing) ([]kernel.Curve, error) {
	from, to := c.P1, c.P4
	if wing == WingRight {
		from, to = c.P3, c.P2
	}
	l, err := k.Line(from, to)
	if err != nil {
		return nil, fmt.Errorf("zig-zag: %w", err)
	}
	return []kernel.Curve{l}, nil
}

// SoftLoop emits the S-shaped loop: an arc from A to C through B, a line
// from C to D and an arc from D to F through E. The right wing mirrors
// the left one.
func SoftLoop(k kernel.Kernel, c Corners, wing Wing) ([]kernel.Curve, error) {
	bottomNear, bottomFar := c.P1, c.P1
	if c.P1 != c.P2 {
		bottomNear = kernel.Lerp(c.P1, c.P2, axisNear)
		bottomFar = kernel.Lerp(c.P1, c.P2, axisFar)
	}
	topNear := kernel.Lerp(c.P3, c.P4, axisNear)
	topFar := kernel.Lerp(c.P3, c.P4, axisFar)

	var a, b, cc, d, e, f v3.Vec
	if wing == WingLeft {
		a = c.P1
		b = kernel.Lerp(c.P2, c.P4, sideLow)
		cc = kernel.Lerp(bottomFar, topFar, bendLow)
		d = kernel.Lerp(bottomNear, topNear, bendHigh)
		e = kernel.Lerp(c.P1, c.P3, sideHigh)
		f = c.P4
	} else {
		a = c.P3
		b = kernel.Lerp(c.P2, c.P4, sideHigh)
		cc = kernel.Lerp(bottomFar, topFar, bendHigh)
		d = kernel.Lerp(bottomNear, topNear, bendLow)
		e = kernel.Lerp(c.P1, c.P3, sideLow)
		f = c.P2
	}

	first, err := k.Arc(a, cc, b)
	if err != nil {
		return nil, fmt.Errorf("soft loop: first arc: %w", err)
	}
	middle, err := k.Line(cc, d)
	if err != nil {
		return nil, fmt.Errorf("soft loop: middle: %w", err)
	}
	last, err := k.Arc(d, f, e)
	if err != nil {
		return nil, fmt.Errorf("soft loop: last arc: %w", err)
	}
	return []kernel.Curve{first, middle, last}, nil
}
