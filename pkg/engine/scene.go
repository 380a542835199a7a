package engine

import (
	"fmt"

	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// sceneBuilder accumulates the elements a script creates. Ids derive from
// element names, and anonymous elements are numbered in creation order, so
// the same script always yields the same ids.
type sceneBuilder struct {
	kernel kernel.Kernel
	doc    *model.Document
	anon   int
}

func newSceneBuilder(k kernel.Kernel, doc *model.Document) *sceneBuilder {
	return &sceneBuilder{kernel: k, doc: doc}
}

type wallSpec struct {
	name     string
	location kernel.Curve
	width    float64
	flipped  bool
	layers   []model.Layer
}

func (b *sceneBuilder) nextID(kind model.ElementKind, name string) model.ElementID {
	if name == "" {
		b.anon++
		return model.NewElementID(fmt.Sprintf("scene/%s/_anon_%d", kind, b.anon))
	}
	return model.NewElementID(fmt.Sprintf("scene/%s/%s", kind, name))
}

// curveArgs builds a line from :from and :to, or an arc when :through is
// also given.
func (b *sceneBuilder) curveArgs(fn string, pa kwArgs) (kernel.Curve, error) {
	var pts [3]v3.Vec
	for i, key := range []string{"from", "to", "through"} {
		v, ok := pa.kw[key]
		if !ok {
			if key == "through" {
				break
			}
			return nil, fmt.Errorf("%s: missing :%s", fn, key)
		}
		p, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fn, key, err)
		}
		pts[i] = p
	}

	var (
		c   kernel.Curve
		err error
	)
	if _, ok := pa.kw["through"]; ok {
		c, err = b.kernel.Arc(pts[0], pts[1], pts[2])
	} else {
		c, err = b.kernel.Line(pts[0], pts[1])
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return c, nil
}

func (b *sceneBuilder) addWall(s wallSpec) (zygo.Sexp, error) {
	w := &model.Wall{
		ID:       b.nextID(model.KindWall, s.name),
		Name:     s.name,
		Location: s.location,
		Width:    s.width,
		Flipped:  s.flipped,
		Layers:   s.layers,
	}
	if w.Width == 0 {
		w.Width = w.LayerWidth()
	}
	if err := b.doc.Add(w, s.name); err != nil {
		return zygo.SexpNull, fmt.Errorf("wall: %w", err)
	}
	return &sexpElementRef{id: w.ID, kind: model.KindWall, name: s.name}, nil
}

func (b *sceneBuilder) addOpening(host *model.Wall, name string, at v3.Vec, width float64) (zygo.Sexp, error) {
	o := &model.Opening{
		ID:       b.nextID(model.KindOpening, name),
		Host:     host.ID,
		Position: at,
		Width:    width,
	}
	if err := b.doc.Add(o, name); err != nil {
		return zygo.SexpNull, fmt.Errorf("opening: %w", err)
	}
	return &sexpElementRef{id: o.ID, kind: model.KindOpening, name: name}, nil
}

func (b *sceneBuilder) addDetail(name string, c kernel.Curve) (zygo.Sexp, error) {
	dc := &model.DetailCurve{Name: name, Curve: c}
	dc.ID = b.nextID(dc.Kind(), name)
	if err := b.doc.Add(dc, name); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", dc.Kind(), err)
	}
	return &sexpElementRef{id: dc.ID, kind: dc.Kind(), name: name}, nil
}

// element resolves an element reference or a name string.
func (b *sceneBuilder) element(s zygo.Sexp) (model.Element, error) {
	switch v := s.(type) {
	case *sexpElementRef:
		e, ok := b.doc.Element(v.id)
		if !ok {
			return nil, fmt.Errorf("%s: %w", v.SexpString(nil), model.ErrUnknownElement)
		}
		return e, nil
	case *zygo.SexpStr:
		e, ok := b.doc.Lookup(v.S)
		if !ok {
			return nil, fmt.Errorf("%q: %w", v.S, model.ErrUnknownElement)
		}
		return e, nil
	}
	return nil, fmt.Errorf("expected element reference or name, got %T (%s)", s, s.SexpString(nil))
}

func (b *sceneBuilder) wall(s zygo.Sexp) (*model.Wall, error) {
	e, err := b.element(s)
	if err != nil {
		return nil, err
	}
	return b.doc.Wall(e.ElementID())
}
