// Package command drives insulation over a selection: it dispatches on the
// kind of each selected element, runs the pattern walk and records the
// generated curves in one transaction for the whole batch.
package command

import (
	"errors"
	"fmt"
	"log"

	"github.com/chazu/insulator/pkg/insulation"
	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/model"
)

// TransactionName names the transaction opened for every batch.
const TransactionName = "DrawInsulation"

// Host is the document the command reads walls from and writes curves to.
type Host interface {
	Element(id model.ElementID) (model.Element, bool)
	Inserts(wall model.ElementID) []*model.Opening
	JoinedAt(wall model.ElementID, end model.End) []*model.Wall
	Begin(name string) *model.Transaction
}

// Compile-time interface check.
var _ Host = (*model.Document)(nil)

// Picker supplies the outer boundary for a selected detail curve.
type Picker interface {
	PickUpper(lower *model.DetailCurve) (*model.DetailCurve, error)
}

// Options are collected once per batch.
type Options struct {
	Style   insulation.Style
	Keyword string // insulation material fragment, insulation.DefaultKeyword if empty
}

// Report summarizes the walk over one selected element.
type Report struct {
	Element    model.ElementID   `json:"element"`
	Kind       model.ElementKind `json:"kind"`
	Drawn      int               `json:"drawn"`
	Skipped    int               `json:"skipped"`
	Terminated bool              `json:"terminated"`
	Reason     string            `json:"reason,omitempty"`
	Curves     []model.ElementID `json:"curves"`
	Group      model.ElementID   `json:"group,omitempty"`
}

// Command draws insulation for a selection.
type Command struct {
	Kernel  kernel.Kernel
	Host    Host
	Picker  Picker
	Options Options
}

// Run processes every selected element inside one transaction. Elements
// other than walls, detail lines and detail arcs are ignored. If any
// element fails the transaction is rolled back and the failures are
// returned joined together; geometric shortfalls only end a walk early.
func (c *Command) Run(selection []model.ElementID) ([]Report, error) {
	tx := c.Host.Begin(TransactionName)

	var (
		reports []Report
		errs    []error
	)
	for _, id := range selection {
		e, ok := c.Host.Element(id)
		if !ok {
			errs = append(errs, fmt.Errorf("element %s: %w", id.Short(), model.ErrUnknownElement))
			continue
		}

		var (
			rep Report
			err error
		)
		switch e.Kind() {
		case model.KindDetailLine, model.KindDetailArc:
			rep, err = c.detail(tx, e.(*model.DetailCurve))
		case model.KindWall:
			rep, err = c.wall(tx, e.(*model.Wall))
		default:
			log.Printf("command: ignoring %s %s", e.Kind(), id.Short())
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if rep.Terminated {
			log.Printf("command: %s %s: %d drawn, %d skipped, stopped early: %s",
				rep.Kind, id.Short(), rep.Drawn, rep.Skipped, rep.Reason)
		} else {
			log.Printf("command: %s %s: %d drawn, %d skipped", rep.Kind, id.Short(), rep.Drawn, rep.Skipped)
		}
		reports = append(reports, rep)
	}

	if err := errors.Join(errs...); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("command: %s failed: %w", TransactionName, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	return reports, nil
}

// detail walks between a selected detail curve and the picked upper curve.
func (c *Command) detail(tx *model.Transaction, lower *model.DetailCurve) (Report, error) {
	if c.Picker == nil {
		return Report{}, fmt.Errorf("%s %s: no picker for the upper curve", lower.Kind(), lower.ID.Short())
	}
	upper, err := c.Picker.PickUpper(lower)
	if err != nil {
		return Report{}, fmt.Errorf("%s %s: %w", lower.Kind(), lower.ID.Short(), err)
	}
	pair := insulation.BoundaryPair{Outer: upper.Curve, Inner: lower.Curve}
	pattern := insulation.Walk(c.Kernel, pair, nil, c.Options.Style)
	return record(tx, lower, pattern)
}

// wall resolves the insulation layer of w, extends it across joins and
// walks it, skipping hosted openings.
func (c *Command) wall(tx *model.Transaction, w *model.Wall) (Report, error) {
	resolver := insulation.Resolver{Kernel: c.Kernel, Keyword: c.Options.Keyword}
	pair, err := resolver.Resolve(w)
	if err != nil {
		return Report{}, err
	}

	interruptions := insulation.OpeningInterruptions(w, c.Host.Inserts(w.ID))
	banned := insulation.NewBanned(w.ID)
	joiner := insulation.Joiner{Kernel: c.Kernel, Resolver: resolver, Joins: c.Host}

	inner := joiner.ExtendLeft(w, pair.Inner, banned)
	interruptions = insulation.ShiftInterruptions(interruptions, pair.Inner, inner)
	extended := joiner.ExtendRight(w, insulation.BoundaryPair{Outer: pair.Outer, Inner: inner}, banned)

	pattern := insulation.Walk(c.Kernel, extended, interruptions, c.Options.Style)
	return record(tx, w, pattern)
}

// record stages the curves of a walk and groups them.
func record(tx *model.Transaction, e model.Element, p insulation.Pattern) (Report, error) {
	rep := Report{
		Element:    e.ElementID(),
		Kind:       e.Kind(),
		Drawn:      p.Count(insulation.OutcomeDrawn),
		Skipped:    p.Count(insulation.OutcomeSkipped),
		Terminated: p.Terminated,
		Reason:     p.Reason,
	}
	for _, curve := range p.Curves() {
		id, err := tx.CreateDetailCurve(curve)
		if err != nil {
			return Report{}, fmt.Errorf("%s %s: %w", e.Kind(), e.ElementID().Short(), err)
		}
		rep.Curves = append(rep.Curves, id)
	}
	if len(rep.Curves) == 0 {
		return rep, nil
	}
	group, err := tx.NewGroup(rep.Curves)
	if err != nil {
		return Report{}, fmt.Errorf("%s %s: %w", e.Kind(), e.ElementID().Short(), err)
	}
	rep.Group = group
	return rep, nil
}
