package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/insulator/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a point.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpLayer wraps one wall layer until `wall` consumes it.
type sexpLayer struct {
	layer model.Layer
}

func (l *sexpLayer) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(layer :width %g :material %q)", l.layer.Width, l.layer.Material)
}
func (l *sexpLayer) Type() *zygo.RegisteredType { return nil }

// sexpElementRef wraps an element id so it can be passed between builtins.
type sexpElementRef struct {
	id   model.ElementID
	kind model.ElementKind
	name string // human-readable name for error messages
}

func (r *sexpElementRef) SexpString(ps *zygo.PrintState) string {
	if r.name != "" {
		return fmt.Sprintf("(%s %q)", r.kind, r.name)
	}
	return fmt.Sprintf("(%s %s)", r.kind, r.id.Short())
}
func (r *sexpElementRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Trailing keyword acts as a flag.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// require returns the keyword value or an error naming it.
func (a kwArgs) require(fn, key string) (zygo.Sexp, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, fmt.Errorf("%s: missing :%s", fn, key)
	}
	return v, nil
}

// name returns the first positional string argument, or "" if there is none.
func (a kwArgs) name(fn string) (string, error) {
	if len(a.positional) == 0 {
		return "", nil
	}
	s, err := toString(a.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toBool accepts true/false and treats a bare flag (nil) as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toEnd converts :start / :end to a wall end.
func toEnd(s zygo.Sexp) (model.End, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected end keyword (:start, :end): %w", err)
	}
	switch name {
	case "start", "0":
		return model.EndStart, nil
	case "end", "1":
		return model.EndEnd, nil
	}
	return 0, fmt.Errorf("invalid end %q, expected start or end", name)
}

// toVec3 extracts a point from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVec3s extracts a list of points.
func toVec3s(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	pts := make([]v3.Vec, 0, len(items))
	for i, item := range items {
		p, err := toVec3(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// toLayers extracts a list of wall layers.
func toLayers(s zygo.Sexp) ([]model.Layer, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	layers := make([]model.Layer, 0, len(items))
	for i, item := range items {
		l, ok := item.(*sexpLayer)
		if !ok {
			return nil, fmt.Errorf("layer %d: expected layer, got %T (%s)", i, item, item.SexpString(nil))
		}
		layers = append(layers, l.layer)
	}
	return layers, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL into a zygomys environment. The
// builtins populate b's document during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *sceneBuilder) {

	// -----------------------------------------------------------------------
	// (vec3 x y [z])
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 || len(args) > 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires 2 or 3 numeric arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: argument %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (layer :width 0.1 :material "Soft Insulation")
	// -----------------------------------------------------------------------
	env.AddFunction("layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var l model.Layer

		v, err := pa.require("layer", "width")
		if err != nil {
			return zygo.SexpNull, err
		}
		if l.Width, err = toFloat64(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("layer: width: %w", err)
		}
		if v, ok := pa.kw["material"]; ok {
			if l.Material, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: material: %w", err)
			}
		}
		return &sexpLayer{layer: l}, nil
	})

	// -----------------------------------------------------------------------
	// (wall "name" :from p :to p [:through p] [:width w] [:flipped true]
	//       :layers (list (layer ...) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		wallName, err := pa.name("wall")
		if err != nil {
			return zygo.SexpNull, err
		}

		loc, err := b.curveArgs("wall", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		var ws wallSpec
		ws.name = wallName
		ws.location = loc
		if v, ok := pa.kw["layers"]; ok {
			if ws.layers, err = toLayers(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wall: layers: %w", err)
			}
		}
		if v, ok := pa.kw["width"]; ok {
			if ws.width, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wall: width: %w", err)
			}
		}
		if v, ok := pa.kw["flipped"]; ok {
			if ws.flipped, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wall: flipped: %w", err)
			}
		}

		return b.addWall(ws)
	})

	// -----------------------------------------------------------------------
	// (opening "wall" :at p :width w ["name"])
	// -----------------------------------------------------------------------
	env.AddFunction("opening", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("opening requires a host wall")
		}
		host, err := b.wall(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("opening: host: %w", err)
		}
		var openingName string
		if len(pa.positional) > 1 {
			if openingName, err = toString(pa.positional[1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("opening: name: %w", err)
			}
		}

		v, err := pa.require("opening", "at")
		if err != nil {
			return zygo.SexpNull, err
		}
		at, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("opening: at: %w", err)
		}
		v, err = pa.require("opening", "width")
		if err != nil {
			return zygo.SexpNull, err
		}
		width, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("opening: width: %w", err)
		}

		return b.addOpening(host, openingName, at, width)
	})

	// -----------------------------------------------------------------------
	// (join :a "w1" :a-end :end :b "w2" :b-end :start)
	// -----------------------------------------------------------------------
	env.AddFunction("join", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var (
			walls [2]*model.Wall
			ends  [2]model.End
		)
		for i, side := range []string{"a", "b"} {
			v, err := pa.require("join", side)
			if err != nil {
				return zygo.SexpNull, err
			}
			if walls[i], err = b.wall(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("join: %s: %w", side, err)
			}
			v, err = pa.require("join", side+"-end")
			if err != nil {
				return zygo.SexpNull, err
			}
			if ends[i], err = toEnd(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("join: %s-end: %w", side, err)
			}
		}
		if err := b.doc.Join(walls[0].ID, ends[0], walls[1].ID, ends[1]); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (detail-line "name" :from p :to p)
	// (detail-arc "name" :from p :to p :through p)
	// -----------------------------------------------------------------------
	detail := func(fn string, needThrough bool) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			detailName, err := pa.name(fn)
			if err != nil {
				return zygo.SexpNull, err
			}
			if _, ok := pa.kw["through"]; ok != needThrough {
				if needThrough {
					return zygo.SexpNull, fmt.Errorf("%s: missing :through", fn)
				}
				return zygo.SexpNull, fmt.Errorf("%s: unexpected :through, use detail-arc", fn)
			}
			c, err := b.curveArgs(fn, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			return b.addDetail(detailName, c)
		}
	}
	env.AddFunction("detail_line", detail("detail-line", false))
	env.AddFunction("detail_arc", detail("detail-arc", true))

	// -----------------------------------------------------------------------
	// (detail-spline "name" :points (list p p p ...))
	// -----------------------------------------------------------------------
	env.AddFunction("detail_spline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		detailName, err := pa.name("detail-spline")
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := pa.require("detail-spline", "points")
		if err != nil {
			return zygo.SexpNull, err
		}
		pts, err := toVec3s(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("detail-spline: points: %w", err)
		}
		c, err := b.kernel.Spline(pts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("detail-spline: %w", err)
		}
		return b.addDetail(detailName, c)
	})

	// -----------------------------------------------------------------------
	// (pair lower upper)
	// -----------------------------------------------------------------------
	env.AddFunction("pair", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pair requires a lower and an upper detail curve, got %d arguments", len(args))
		}
		lower, err := b.element(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pair: lower: %w", err)
		}
		upper, err := b.element(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pair: upper: %w", err)
		}
		if err := b.doc.Pair(lower.ElementID(), upper.ElementID()); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (select ref ...)
	// -----------------------------------------------------------------------
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ids := make([]model.ElementID, 0, len(args))
		for i, a := range args {
			e, err := b.element(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("select: argument %d: %w", i, err)
			}
			ids = append(ids, e.ElementID())
		}
		if err := b.doc.Select(ids...); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})
}
