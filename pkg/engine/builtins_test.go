package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(layer :material "foam")`,
			expect: `(layer "__kw_material" "foam")`,
		},
		{
			name:   "multiple keywords",
			input:  `(opening "w" :at p :width 1)`,
			expect: `(opening "w" "__kw_at" p "__kw_width" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :kw detail-line`",
			expect: "`raw :kw detail-line`",
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(detail-line :a-end ref)`,
			expect: `(detail_line "__kw_a-end" ref)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 -1 -2.5)`,
			expect: `(vec3 -1 -2.5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func evalScene(t *testing.T, src string) *model.Document {
	t.Helper()
	s, evalErrs, err := newTestEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return s.Document
}

func evalFails(t *testing.T, src, want string) {
	t.Helper()
	s, evalErrs, err := newTestEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if s != nil || len(evalErrs) == 0 {
		t.Fatalf("expected eval errors for %q", src)
	}
	if !strings.Contains(evalErrs[0].Error(), want) {
		t.Errorf("error = %q, want containing %q", evalErrs[0].Error(), want)
	}
}

func lookupWall(t *testing.T, d *model.Document, name string) *model.Wall {
	t.Helper()
	e, ok := d.Lookup(name)
	if !ok {
		t.Fatalf("element %q not found", name)
	}
	w, err := d.Wall(e.ElementID())
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func near(a, b v3.Vec) bool {
	return kernel.Distance(a, b) < 1e-9
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

func TestWall(t *testing.T) {
	d := evalScene(t, `
(def ins (layer :width 0.2 :material "Soft Insulation"))
(wall "south" :from (vec3 0 0) :to (vec3 10 0)
      :layers (list (layer :width 0.1 :material "Brick") ins))
`)
	w := lookupWall(t, d, "south")
	if w.Location.Kind() != kernel.KindLine {
		t.Errorf("location kind = %s, want line", w.Location.Kind())
	}
	if !near(w.Location.EndPoint(1), v3.Vec{X: 10}) {
		t.Errorf("end = %v", w.Location.EndPoint(1))
	}
	if len(w.Layers) != 2 || w.Layers[1].Material != "Soft Insulation" {
		t.Fatalf("layers = %+v", w.Layers)
	}
	// Width defaults to the layer sum.
	if math.Abs(w.Width-0.3) > 1e-12 {
		t.Errorf("width = %g, want 0.3", w.Width)
	}
	if w.Flipped {
		t.Error("wall should not be flipped by default")
	}
}

func TestCurvedFlippedWall(t *testing.T) {
	d := evalScene(t, `
(wall "bay" :from (vec3 0 0) :to (vec3 10 0) :through (vec3 5 5)
      :width 0.3 :flipped true
      :layers (list (layer :width 0.3 :material "soft insulation")))
`)
	w := lookupWall(t, d, "bay")
	if w.Location.Kind() != kernel.KindArc {
		t.Errorf("location kind = %s, want arc", w.Location.Kind())
	}
	if !w.Flipped {
		t.Error("expected flipped wall")
	}
}

func TestOpeningAndJoin(t *testing.T) {
	d := evalScene(t, `
(def south (wall "south" :from (vec3 0 0) :to (vec3 10 0) :width 0.2))
(wall "east" :from (vec3 10 0) :to (vec3 10 8) :width 0.2)
(opening south :at (vec3 4 0) :width 0.9 "door")
(opening "south" :at (vec3 7 0) :width 1.2)
(join :a "south" :a-end :end :b "east" :b-end :start)
`)
	south := lookupWall(t, d, "south")
	east := lookupWall(t, d, "east")

	ins := d.Inserts(south.ID)
	if len(ins) != 2 {
		t.Fatalf("expected 2 openings, got %d", len(ins))
	}
	if ins[0].Width != 0.9 || !near(ins[0].Position, v3.Vec{X: 4}) {
		t.Errorf("first opening = %+v", ins[0])
	}
	if _, ok := d.Lookup("door"); !ok {
		t.Error("named opening not registered")
	}

	at := d.JoinedAt(south.ID, model.EndEnd)
	if len(at) != 1 || at[0].ID != east.ID {
		t.Errorf("south end joins = %v", at)
	}
	if at := d.JoinedAt(east.ID, model.EndStart); len(at) != 1 || at[0].ID != south.ID {
		t.Errorf("east start joins = %v", at)
	}
}

func TestDetailCurvesPairAndSelect(t *testing.T) {
	d := evalScene(t, `
(detail-line "lower" :from (vec3 0 0) :to (vec3 10 0))
(detail-arc "upper" :from (vec3 0 1) :to (vec3 10 1) :through (vec3 5 2))
(detail-spline "wave" :points (list (vec3 0 3) (vec3 3 4) (vec3 6 3) (vec3 9 4)))
(pair "lower" "upper")
(select "lower")
`)
	kinds := map[string]model.ElementKind{
		"lower": model.KindDetailLine,
		"upper": model.KindDetailArc,
		"wave":  model.KindDetailSpline,
	}
	for name, want := range kinds {
		e, ok := d.Lookup(name)
		if !ok {
			t.Fatalf("%q not found", name)
		}
		if e.Kind() != want {
			t.Errorf("%q kind = %s, want %s", name, e.Kind(), want)
		}
	}

	lower, _ := d.Lookup("lower")
	upper, ok := d.Upper(lower.ElementID())
	if !ok || upper.Name != "upper" {
		t.Errorf("pair not registered: %v", upper)
	}
	if len(d.Selection) != 1 || d.Selection[0] != lower.ElementID() {
		t.Errorf("selection = %v", d.Selection)
	}
}

func TestAnonymousElementsGetDistinctIDs(t *testing.T) {
	d := evalScene(t, `
(wall :from (vec3 0 0) :to (vec3 1 0) :width 0.1)
(wall :from (vec3 0 1) :to (vec3 1 1) :width 0.1)
`)
	walls := d.OfKind(model.KindWall)
	if len(walls) != 2 {
		t.Fatalf("expected 2 walls, got %d", len(walls))
	}
	if walls[0].ElementID() == walls[1].ElementID() {
		t.Error("anonymous walls share an id")
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"vec3 arity", `(vec3 1)`, "vec3 requires"},
		{"vec3 type", `(vec3 1 "a")`, "expected number"},
		{"layer without width", `(layer :material "x")`, "missing :width"},
		{"wall without to", `(wall "w" :from (vec3 0 0) :width 1)`, "missing :to"},
		{"degenerate wall", `(wall "w" :from (vec3 0 0) :to (vec3 0 0) :width 1)`, "degenerate"},
		{"bad layers", `(wall "w" :from (vec3 0 0) :to (vec3 1 0) :layers (list 1))`, "expected layer"},
		{"duplicate name", `(wall "w" :from (vec3 0 0) :to (vec3 1 0) :width 1)
(wall "w" :from (vec3 0 1) :to (vec3 1 1) :width 1)`, "duplicate"},
		{"unknown host", `(opening "nope" :at (vec3 0 0) :width 1)`, "unknown element"},
		{"bad end", `(wall "a" :from (vec3 0 0) :to (vec3 1 0) :width 1)
(wall "b" :from (vec3 1 0) :to (vec3 2 0) :width 1)
(join :a "a" :a-end :middle :b "b" :b-end :start)`, "invalid end"},
		{"self join", `(wall "a" :from (vec3 0 0) :to (vec3 1 0) :width 1)
(join :a "a" :a-end :end :b "a" :b-end :start)`, "itself"},
		{"line with through", `(detail-line "l" :from (vec3 0 0) :to (vec3 1 0) :through (vec3 0 1))`, "use detail-arc"},
		{"arc without through", `(detail-arc "a" :from (vec3 0 0) :to (vec3 1 0))`, "missing :through"},
		{"collinear arc", `(detail-arc "a" :from (vec3 0 0) :to (vec3 2 0) :through (vec3 1 0))`, "detail-arc"},
		{"pair a wall", `(wall "w" :from (vec3 0 0) :to (vec3 1 0) :width 1)
(detail-line "l" :from (vec3 0 0) :to (vec3 1 0))
(pair "l" "w")`, "wrong element kind"},
		{"select unknown", `(select "ghost")`, "unknown element"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalFails(t, tt.src, tt.want)
		})
	}
}

func TestArithmeticInScenes(t *testing.T) {
	d := evalScene(t, `
(def span 12)
(wall "w" :from (vec3 0 0) :to (vec3 (* span 0.5) 0) :width (/ 3 10.0))
`)
	w := lookupWall(t, d, "w")
	if !near(w.Location.EndPoint(1), v3.Vec{X: 6}) {
		t.Errorf("end = %v, want (6,0,0)", w.Location.EndPoint(1))
	}
}
