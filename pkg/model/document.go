package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateElement is returned when an id or name is already taken.
	ErrDuplicateElement = errors.New("duplicate element")
	// ErrUnknownElement is returned when a referenced element does not exist.
	ErrUnknownElement = errors.New("unknown element")
	// ErrWrongKind is returned when a referenced element has the wrong kind.
	ErrWrongKind = errors.New("wrong element kind")
)

type joinKey struct {
	wall ElementID
	end  End
}

// Document is an in-memory host document. Elements keep their insertion
// order so iteration is deterministic.
type Document struct {
	elements map[ElementID]Element
	order    []ElementID
	names    map[string]ElementID
	joins    map[joinKey][]ElementID
	inserts  map[ElementID][]ElementID
	uppers   map[ElementID]ElementID

	// Selection holds the ids the command operates on, in pick order.
	Selection []ElementID

	transactions int
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		elements: make(map[ElementID]Element),
		names:    make(map[string]ElementID),
		joins:    make(map[joinKey][]ElementID),
		inserts:  make(map[ElementID][]ElementID),
		uppers:   make(map[ElementID]ElementID),
	}
}

// Add inserts an element. name may be empty for anonymous elements.
// Openings are registered as inserts of their host wall.
func (d *Document) Add(e Element, name string) error {
	id := e.ElementID()
	if id.IsZero() {
		return fmt.Errorf("model: add %s: empty id", e.Kind())
	}
	if _, ok := d.elements[id]; ok {
		return fmt.Errorf("model: add %s %s: %w", e.Kind(), id.Short(), ErrDuplicateElement)
	}
	if name != "" {
		if _, ok := d.names[name]; ok {
			return fmt.Errorf("model: add %s %q: %w", e.Kind(), name, ErrDuplicateElement)
		}
	}
	if o, ok := e.(*Opening); ok {
		if _, err := d.Wall(o.Host); err != nil {
			return fmt.Errorf("model: add opening: %w", err)
		}
		d.inserts[o.Host] = append(d.inserts[o.Host], id)
	}

	d.elements[id] = e
	d.order = append(d.order, id)
	if name != "" {
		d.names[name] = id
	}
	return nil
}

// Element returns the element with the given id.
func (d *Document) Element(id ElementID) (Element, bool) {
	e, ok := d.elements[id]
	return e, ok
}

// Lookup returns the element registered under name.
func (d *Document) Lookup(name string) (Element, bool) {
	id, ok := d.names[name]
	if !ok {
		return nil, false
	}
	return d.elements[id], true
}

// Wall returns the wall with the given id.
func (d *Document) Wall(id ElementID) (*Wall, error) {
	e, ok := d.elements[id]
	if !ok {
		return nil, fmt.Errorf("wall %s: %w", id.Short(), ErrUnknownElement)
	}
	w, ok := e.(*Wall)
	if !ok {
		return nil, fmt.Errorf("%s %s is not a wall: %w", e.Kind(), id.Short(), ErrWrongKind)
	}
	return w, nil
}

// Elements returns every element in insertion order.
func (d *Document) Elements() []Element {
	out := make([]Element, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.elements[id])
	}
	return out
}

// OfKind returns the elements of one kind in insertion order.
func (d *Document) OfKind(kind ElementKind) []Element {
	var out []Element
	for _, id := range d.order {
		if e := d.elements[id]; e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of elements.
func (d *Document) Len() int { return len(d.order) }

// ---------------------------------------------------------------------------
// Relationships
// ---------------------------------------------------------------------------

// Join records that wall a's end aEnd meets wall b's end bEnd. Joins are
// symmetric: each wall sees the other at its own end.
func (d *Document) Join(a ElementID, aEnd End, b ElementID, bEnd End) error {
	if a == b {
		return fmt.Errorf("model: join: wall %s joined to itself", a.Short())
	}
	for _, id := range []ElementID{a, b} {
		if _, err := d.Wall(id); err != nil {
			return fmt.Errorf("model: join: %w", err)
		}
	}
	d.joins[joinKey{a, aEnd}] = append(d.joins[joinKey{a, aEnd}], b)
	d.joins[joinKey{b, bEnd}] = append(d.joins[joinKey{b, bEnd}], a)
	return nil
}

// JoinedAt returns the walls joined to wall at the given end.
func (d *Document) JoinedAt(wall ElementID, end End) []*Wall {
	var out []*Wall
	for _, id := range d.joins[joinKey{wall, end}] {
		if w, err := d.Wall(id); err == nil {
			out = append(out, w)
		}
	}
	return out
}

// Inserts returns the openings hosted by wall in insertion order.
func (d *Document) Inserts(wall ElementID) []*Opening {
	var out []*Opening
	for _, id := range d.inserts[wall] {
		if o, ok := d.elements[id].(*Opening); ok {
			out = append(out, o)
		}
	}
	return out
}

// Pair registers upper as the outer boundary picked for the detail curve
// lower.
func (d *Document) Pair(lower, upper ElementID) error {
	for _, id := range []ElementID{lower, upper} {
		e, ok := d.elements[id]
		if !ok {
			return fmt.Errorf("model: pair: %s: %w", id.Short(), ErrUnknownElement)
		}
		if _, ok := e.(*DetailCurve); !ok {
			return fmt.Errorf("model: pair: %s %s: %w", e.Kind(), id.Short(), ErrWrongKind)
		}
	}
	d.uppers[lower] = upper
	return nil
}

// Upper returns the detail curve paired with lower.
func (d *Document) Upper(lower ElementID) (*DetailCurve, bool) {
	id, ok := d.uppers[lower]
	if !ok {
		return nil, false
	}
	dc, ok := d.elements[id].(*DetailCurve)
	return dc, ok
}

// Select appends ids to the selection.
func (d *Document) Select(ids ...ElementID) error {
	for _, id := range ids {
		if _, ok := d.elements[id]; !ok {
			return fmt.Errorf("model: select %s: %w", id.Short(), ErrUnknownElement)
		}
	}
	d.Selection = append(d.Selection, ids...)
	return nil
}
