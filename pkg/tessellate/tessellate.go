// Package tessellate walks a document and flattens its drawable elements
// into polylines. One outline is produced per curve; groups are walked
// transparently and stamp their id on the outlines of their members.
package tessellate

import (
	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/model"
)

// Outline is one flattened curve together with the element it came from.
type Outline struct {
	kernel.Polyline
	Element     model.ElementID `json:"element"`
	ElementKind string          `json:"elementKind"`
	Name        string          `json:"name,omitempty"`
	Group       model.ElementID `json:"group,omitempty"`
}

// Tessellate flattens every wall location and detail curve in d. Elements
// owned by a group are emitted once, when the group is reached. The walk is
// read-only and follows document order.
func Tessellate(d *model.Document) []*Outline {
	if d == nil {
		return nil
	}
	var out []*Outline
	visit := func(e model.Element, c kernel.Curve, name string, group model.ElementID) {
		out = append(out, &Outline{
			Polyline:    *kernel.ToPolyline(c),
			Element:     e.ElementID(),
			ElementKind: e.Kind().String(),
			Name:        name,
			Group:       group,
		})
	}
	owned := grouped(d)
	for _, e := range d.Elements() {
		if owned[e.ElementID()] {
			continue
		}
		walk(d, e, "", visit, map[model.ElementID]bool{})
	}
	return out
}

// Curves returns the curves reachable from ids, descending into groups.
func Curves(d *model.Document, ids ...model.ElementID) []kernel.Curve {
	var out []kernel.Curve
	visit := func(_ model.Element, c kernel.Curve, _ string, _ model.ElementID) {
		out = append(out, c)
	}
	for _, id := range ids {
		if e, ok := d.Element(id); ok {
			walk(d, e, "", visit, map[model.ElementID]bool{})
		}
	}
	return out
}

type visitFunc func(e model.Element, c kernel.Curve, name string, group model.ElementID)

// walk visits e, recursing into group members. The outermost group wins.
func walk(d *model.Document, e model.Element, group model.ElementID, visit visitFunc, seen map[model.ElementID]bool) {
	if seen[e.ElementID()] {
		return
	}
	seen[e.ElementID()] = true

	switch v := e.(type) {
	case *model.Wall:
		if v.Location != nil {
			visit(v, v.Location, v.Name, group)
		}
	case *model.DetailCurve:
		if v.Curve != nil {
			visit(v, v.Curve, v.Name, group)
		}
	case *model.Group:
		if group == "" {
			group = v.ID
		}
		for _, id := range v.Members {
			if m, ok := d.Element(id); ok {
				walk(d, m, group, visit, seen)
			}
		}
	case *model.Opening:
		// Openings are metadata on their host wall.
	}
}

// grouped returns the ids of every element that belongs to some group.
func grouped(d *model.Document) map[model.ElementID]bool {
	owned := make(map[model.ElementID]bool)
	for _, e := range d.OfKind(model.KindGroup) {
		for _, id := range e.(*model.Group).Members {
			owned[id] = true
		}
	}
	return owned
}
