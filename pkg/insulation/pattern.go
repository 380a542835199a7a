package insulation

import (
	"fmt"
	"strings"

	"github.com/chazu/insulator/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Wing and style
// ---------------------------------------------------------------------------

// Wing is the left/right bias alternated between consecutive loops.
type Wing int

const (
	WingLeft Wing = iota
	WingRight
)

// Toggle returns the opposite wing.
func (w Wing) Toggle() Wing {
	if w == WingLeft {
		return WingRight
	}
	return WingLeft
}

func (w Wing) String() string {
	if w == WingLeft {
		return "left"
	}
	return "right"
}

// Style selects the symbol drawn per step.
type Style int

const (
	StyleLoop   Style = iota // soft S-shaped loops
	StyleZigZag              // straight diagonals
)

func (s Style) String() string {
	switch s {
	case StyleLoop:
		return "loop"
	case StyleZigZag:
		return "zigzag"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses "loop" or "zigzag" (also "zig-zag").
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loop", "soft", "soft-loop":
		return StyleLoop, nil
	case "zigzag", "zig-zag":
		return StyleZigZag, nil
	default:
		return 0, fmt.Errorf("insulation: unknown style %q", s)
	}
}

func (s Style) emit(k kernel.Kernel, c Corners, wing Wing) ([]kernel.Curve, error) {
	if s == StyleZigZag {
		return ZigZag(k, c, wing)
	}
	return SoftLoop(k, c, wing)
}

// ---------------------------------------------------------------------------
// Steps
// ---------------------------------------------------------------------------

// Outcome classifies a single step.
type Outcome int

const (
	OutcomeDrawn      Outcome = iota // geometry emitted, wing toggled
	OutcomeSkipped                   // next point inside an interruption, nothing emitted
	OutcomeTerminated                // walk cannot continue
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDrawn:
		return "drawn"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// StepInput is the state a single step starts from.
type StepInput struct {
	Pair          BoundaryPair
	Distance      float64 // arc length along the inner boundary
	Wing          Wing
	Interruptions []Interruption
	Style         Style
}

// StepResult is the outcome of one step. Advance is only meaningful for
// drawn and skipped steps.
type StepResult struct {
	Outcome  Outcome
	Distance float64 // where the step started
	Advance  float64
	Corners  Corners
	Curves   []kernel.Curve
	Wing     Wing // wing the step was drawn with
	NextWing Wing
	Reason   string // why the walk terminated
}

// midway is the normalized position past which a missing outer boundary
// ends the walk instead of retrying against its unbound extension.
const midway = 0.5

// Step computes one loop at in.Distance. It never mutates its input.
//
// The loop height is the distance from the inner point P1 to the outer
// boundary along the local normal, and the step advances by a quarter of
// it. A step whose next point falls inside an interruption advances
// without drawing.
func Step(k kernel.Kernel, in StepInput) StepResult {
	inner, outer := in.Pair.Inner, in.Pair.Outer
	length := inner.Length()

	stop := func(reason string) StepResult {
		return StepResult{
			Outcome:  OutcomeTerminated,
			Distance: in.Distance,
			Wing:     in.Wing,
			NextWing: in.Wing,
			Reason:   reason,
		}
	}

	dist := in.Distance / length
	if dist > 1 {
		return stop("past the end of the inner boundary")
	}

	p1 := inner.Evaluate(dist)
	p3, outer, ok := reachOuter(k, inner, outer, p1, dist <= midway)
	if !ok {
		return stop("outer boundary not reached")
	}

	r := kernel.Distance(p1, p3) / 4
	if r <= 0 {
		return stop("boundaries touch")
	}

	distr := (in.Distance + r) / length
	if distr > 1 {
		return stop("next step past the end of the inner boundary")
	}
	for _, ir := range in.Interruptions {
		if ir.Contains(distr, length) {
			return StepResult{
				Outcome:  OutcomeSkipped,
				Distance: in.Distance,
				Advance:  r,
				Wing:     in.Wing,
				NextWing: in.Wing,
			}
		}
	}

	final := distr >= 1
	p2 := p1
	if !final {
		p2 = inner.Evaluate(distr)
	}
	p4, _, ok := reachOuter(k, inner, outer, p2, false)
	if !ok {
		return stop("outer boundary not reached at the far side")
	}
	if final {
		p4 = in.Pair.Outer.EndPoint(1)
	}

	corners := Corners{P1: p1, P2: p2, P3: p3, P4: p4}
	curves, err := in.Style.emit(k, corners, in.Wing)
	if err != nil {
		return stop(err.Error())
	}

	return StepResult{
		Outcome:  OutcomeDrawn,
		Distance: in.Distance,
		Advance:  r,
		Corners:  corners,
		Curves:   curves,
		Wing:     in.Wing,
		NextWing: in.Wing.Toggle(),
	}
}

// reachOuter casts the normal of inner at p onto outer and returns the
// nearest hit. With retry, a miss is repeated against the unbound outer
// boundary, which is returned for later casts.
func reachOuter(k kernel.Kernel, inner, outer kernel.Curve, p v3.Vec, retry bool) (v3.Vec, kernel.Curve, bool) {
	n, ok := kernel.TangentNormal(k, inner, p)
	if !ok {
		return v3.Vec{}, outer, false
	}
	probe, err := k.UnboundLine(p, n)
	if err != nil {
		return v3.Vec{}, outer, false
	}
	hits := k.Intersect(probe, outer)
	if len(hits) == 0 && retry {
		outer = outer.Unbound()
		hits = k.Intersect(probe, outer)
	}
	if len(hits) == 0 {
		return v3.Vec{}, outer, false
	}
	return hits[0], outer, true
}

// ---------------------------------------------------------------------------
// Walk
// ---------------------------------------------------------------------------

// Pattern is the fold of every step of one walk.
type Pattern struct {
	Steps      []StepResult
	Distance   float64 // arc length reached
	Terminated bool    // stopped before reaching the end
	Reason     string
}

// Curves returns the emitted curves in drawing order.
func (p Pattern) Curves() []kernel.Curve {
	var out []kernel.Curve
	for _, s := range p.Steps {
		out = append(out, s.Curves...)
	}
	return out
}

// Count returns the number of steps with the given outcome.
func (p Pattern) Count(o Outcome) int {
	n := 0
	for _, s := range p.Steps {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

// Walk steps along pair.Inner from its start until the end is reached or
// a step terminates. The wing starts left and toggles after every drawn
// step.
func Walk(k kernel.Kernel, pair BoundaryPair, interruptions []Interruption, style Style) Pattern {
	var p Pattern
	length := pair.Inner.Length()
	if !(length > 0) {
		p.Terminated = true
		p.Reason = "inner boundary has no length"
		return p
	}

	wing := WingLeft
	for p.Distance/length < 1 {
		res := Step(k, StepInput{
			Pair:          pair,
			Distance:      p.Distance,
			Wing:          wing,
			Interruptions: interruptions,
			Style:         style,
		})
		p.Steps = append(p.Steps, res)
		if res.Outcome == OutcomeTerminated {
			p.Terminated = true
			p.Reason = res.Reason
			break
		}
		p.Distance += res.Advance
		wing = res.NextWing
	}
	return p
}
