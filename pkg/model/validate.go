package model

import (
	"fmt"
	"math"

	"github.com/chazu/insulator/pkg/kernel"
)

// ValidationSeverity indicates whether a validation finding blocks the
// command or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the command
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ElementID ElementID          // which element has the problem (zero if document-level)
	Message   string             // human-readable description
	Severity  ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.ElementID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] element %s: %s", e.Severity, e.ElementID.Short(), e.Message)
}

// layerSlack is the tolerated mismatch between a wall's width and the sum
// of its layer widths.
const layerSlack = 1e-6

// Validate runs the structural checks on d and returns every finding.
// An empty slice means the document is valid. Validate never mutates d.
func Validate(d *Document) []ValidationError {
	var errs []ValidationError
	for _, e := range d.Elements() {
		switch el := e.(type) {
		case *Wall:
			errs = append(errs, validateWall(el)...)
		case *Opening:
			errs = append(errs, validateOpening(d, el)...)
		case *DetailCurve:
			if el.Curve == nil {
				errs = append(errs, errorf(el.ID, "detail curve has no geometry"))
			}
		case *Group:
			for _, m := range el.Members {
				if _, ok := d.elements[m]; !ok {
					errs = append(errs, errorf(el.ID, "group member %s does not exist", m.Short()))
				}
			}
		}
	}
	errs = append(errs, validateSelection(d)...)
	return errs
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateWall(w *Wall) []ValidationError {
	var errs []ValidationError
	if w.Location == nil {
		errs = append(errs, errorf(w.ID, "wall %q has no location curve", w.Name))
	}
	if w.Width <= 0 {
		errs = append(errs, errorf(w.ID, "wall %q width must be positive, got %g", w.Name, w.Width))
	}
	for i, l := range w.Layers {
		if l.Width <= 0 {
			errs = append(errs, errorf(w.ID, "wall %q layer %d width must be positive, got %g", w.Name, i, l.Width))
		}
	}
	if len(w.Layers) > 0 && math.Abs(w.LayerWidth()-w.Width) > layerSlack {
		errs = append(errs, warnf(w.ID, "wall %q layers sum to %g but the wall is %g wide", w.Name, w.LayerWidth(), w.Width))
	}
	return errs
}

func validateOpening(d *Document, o *Opening) []ValidationError {
	var errs []ValidationError
	if o.Width <= 0 {
		errs = append(errs, errorf(o.ID, "opening width must be positive, got %g", o.Width))
	}
	host, err := d.Wall(o.Host)
	if err != nil {
		return append(errs, errorf(o.ID, "opening host: %v", err))
	}
	if host.Location != nil {
		along := kernel.Distance(host.Location.EndPoint(0), o.Position)
		if along > host.Location.Length() {
			errs = append(errs, warnf(o.ID, "opening lies %g past the end of wall %q", along-host.Location.Length(), host.Name))
		}
	}
	return errs
}

func validateSelection(d *Document) []ValidationError {
	var errs []ValidationError
	for _, id := range d.Selection {
		e, ok := d.elements[id]
		if !ok {
			errs = append(errs, errorf("", "selected element %s does not exist", id.Short()))
			continue
		}
		switch e.Kind() {
		case KindWall:
		case KindDetailLine, KindDetailArc:
			if _, ok := d.Upper(id); !ok {
				errs = append(errs, warnf(id, "no upper curve paired; one will be picked"))
			}
		default:
			errs = append(errs, warnf(id, "%s elements are not insulated and will be ignored", e.Kind()))
		}
	}
	return errs
}

func errorf(id ElementID, format string, args ...any) ValidationError {
	return ValidationError{ElementID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(id ElementID, format string, args ...any) ValidationError {
	return ValidationError{ElementID: id, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}
