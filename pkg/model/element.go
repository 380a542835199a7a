package model

import (
	"github.com/chazu/insulator/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
)

// ElementID is a name-derived identifier for document elements.
type ElementID string

// NewElementID returns a deterministic id for the given name. The same name
// always yields the same id, so reruns produce identical documents.
func NewElementID(name string) ElementID {
	return ElementID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String())
}

// Short returns the first 8 characters of the id for display.
func (id ElementID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// IsZero reports whether the id is unset.
func (id ElementID) IsZero() bool { return id == "" }

// ElementKind enumerates the element variants a document can hold.
type ElementKind int

const (
	KindWall         ElementKind = iota // wall with a compound structure
	KindDetailLine                      // straight detail curve
	KindDetailArc                       // circular detail curve
	KindDetailSpline                    // free-form detail curve
	KindOpening                         // door or window hosted by a wall
	KindGroup                           // grouped elements
)

func (k ElementKind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindDetailLine:
		return "detail-line"
	case KindDetailArc:
		return "detail-arc"
	case KindDetailSpline:
		return "detail-spline"
	case KindOpening:
		return "opening"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// End selects one of a wall's location curve end points.
type End int

const (
	EndStart End = 0
	EndEnd   End = 1
)

func (e End) String() string {
	if e == EndStart {
		return "start"
	}
	return "end"
}

// Element is implemented by every document element.
type Element interface {
	ElementID() ElementID
	Kind() ElementKind
	element() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Walls
// ---------------------------------------------------------------------------

// Layer is one ply of a wall's compound structure.
type Layer struct {
	Width    float64 `json:"width"`
	Material string  `json:"material"`
}

// Wall is a wall-like element. Layers run from the exterior side of the
// location curve to the interior side.
type Wall struct {
	ID       ElementID    `json:"id"`
	Name     string       `json:"name"`
	Location kernel.Curve `json:"-"`
	Width    float64      `json:"width"`
	Flipped  bool         `json:"flipped,omitempty"`
	Layers   []Layer      `json:"layers"`
}

func (w *Wall) ElementID() ElementID { return w.ID }
func (w *Wall) Kind() ElementKind    { return KindWall }
func (*Wall) element()               {}

// LayerWidth returns the summed width of all layers.
func (w *Wall) LayerWidth() float64 {
	var total float64
	for _, l := range w.Layers {
		total += l.Width
	}
	return total
}

// ---------------------------------------------------------------------------
// Openings
// ---------------------------------------------------------------------------

// Opening is a door or window inserted into a wall.
type Opening struct {
	ID       ElementID `json:"id"`
	Host     ElementID `json:"host"`
	Position v3.Vec    `json:"position"` // location point of the insert
	Width    float64   `json:"width"`
}

func (o *Opening) ElementID() ElementID { return o.ID }
func (o *Opening) Kind() ElementKind    { return KindOpening }
func (*Opening) element()               {}

// ---------------------------------------------------------------------------
// Detail curves and groups
// ---------------------------------------------------------------------------

// DetailCurve is a view-specific curve element. Its kind follows the
// geometry it carries.
type DetailCurve struct {
	ID    ElementID    `json:"id"`
	Name  string       `json:"name,omitempty"`
	Curve kernel.Curve `json:"-"`
}

func (d *DetailCurve) ElementID() ElementID { return d.ID }

func (d *DetailCurve) Kind() ElementKind {
	switch d.Curve.Kind() {
	case kernel.KindArc:
		return KindDetailArc
	case kernel.KindSpline:
		return KindDetailSpline
	default:
		return KindDetailLine
	}
}

func (*DetailCurve) element() {}

// Group collects elements into one compound element.
type Group struct {
	ID      ElementID   `json:"id"`
	Name    string      `json:"name,omitempty"`
	Members []ElementID `json:"members"`
}

func (g *Group) ElementID() ElementID { return g.ID }
func (g *Group) Kind() ElementKind    { return KindGroup }
func (*Group) element()               {}
