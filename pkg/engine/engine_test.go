package engine

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/insulator/pkg/kernel/sdfx"
)

func newTestEngine() *Engine {
	return NewEngine(sdfx.New())
}

func TestEvaluateEmptyString(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		s, evalErrs, err := newTestEngine().Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("unexpected eval errors: %v", evalErrs)
		}
		if s == nil || s.Document == nil {
			t.Fatal("expected non-nil scene")
		}
		if s.Document.Len() != 0 {
			t.Errorf("expected empty document, got %d elements", s.Document.Len())
		}
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	// Plain arithmetic evaluates but creates no elements.
	s, evalErrs, err := newTestEngine().Evaluate("(def x 10)\n(def y 20)\n(+ x y)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s.Document.Len() != 0 {
		t.Errorf("expected empty document, got %d elements", s.Document.Len())
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	// Unmatched paren is a parse error.
	s, evalErrs, err := newTestEngine().Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	s, evalErrs, err := newTestEngine().Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	s, evalErrs, err := newTestEngine().Evaluate("(+ 1 2)\n(+ 3")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	e := evalErrs[0]
	if e.Message == "" {
		t.Error("eval error message should not be empty")
	}
	// Line info depends on the zygomys error format.
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	}
}

func TestEvaluateInvalidSceneFailsValidation(t *testing.T) {
	// A wall without layers or width parses fine but cannot be insulated.
	s, evalErrs, err := newTestEngine().Evaluate(`(wall "w" :from (vec3 0 0) :to (vec3 5 0))`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene for an invalid wall")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected validation errors")
	}
	if !strings.Contains(evalErrs[0].Message, "width") {
		t.Errorf("expected a width finding, got %q", evalErrs[0].Message)
	}
}

func TestEvaluateWarnings(t *testing.T) {
	// A selected detail curve without an upper partner is only a warning.
	s, evalErrs, err := newTestEngine().Evaluate(`
(detail-line "lower" :from (vec3 0 0) :to (vec3 10 0))
(select "lower")
`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(s.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(s.Warnings), s.Warnings)
	}
	if s.Warnings[0].ElementID != s.Document.Selection[0] {
		t.Errorf("warning element = %s, want the selected curve", s.Warnings[0].ElementID.Short())
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Message: "no location"}
	if strings.Contains(e2.Error(), "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", e2.Error())
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := newTestEngine()
	src := `
(wall "south" :from (vec3 0 0) :to (vec3 10 0)
      :layers (list (layer :width 0.2 :material "Soft Insulation")))
(wall :from (vec3 10 0) :to (vec3 10 5) :width 0.2)
(select "south")
`
	var first []string
	for i := 0; i < 5; i++ {
		s, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		var ids []string
		for _, e := range s.Document.Elements() {
			ids = append(ids, string(e.ElementID()))
		}
		if i == 0 {
			first = ids
			continue
		}
		if strings.Join(ids, ",") != strings.Join(first, ",") {
			t.Errorf("iteration %d: ids differ: %v vs %v", i, ids, first)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// Exercise waitWithTimeout directly with a channel that never sends;
	// an endless script would keep a zygomys goroutine alive after the test.
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult)

	done := make(chan struct{})
	var resultErr error
	go func() {
		defer close(done)
		_, _, resultErr = waitWithTimeout(ch, 1, &mu, &gen)
	}()

	select {
	case <-done:
		if resultErr == nil {
			t.Fatal("expected timeout error, got nil")
		}
		if !strings.Contains(resultErr.Error(), "timed out") {
			t.Errorf("expected timeout error message, got: %v", resultErr)
		}
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2)

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := waitWithTimeout(ch, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "short line format",
			msg:      "line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
