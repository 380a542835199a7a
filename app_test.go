package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/insulator/pkg/config"
	"github.com/chazu/insulator/pkg/model"
)

func testConfig(t *testing.T, style string) config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Pattern.Style = style
	return cfg
}

func newTestApp(t *testing.T) *App {
	return NewApp(testConfig(t, "loop"))
}

func evalFile(t *testing.T, app *App, path string) EvalResult {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return result
}

// TestE2EDetailExample exercises the full pipeline: scene source -> engine
// -> document -> insulation command -> outlines.
func TestE2EDetailExample(t *testing.T) {
	result := evalFile(t, newTestApp(t), "examples/detail.lisp")

	if len(result.Reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(result.Reports))
	}
	rep := result.Reports[0]
	if rep.Kind != model.KindDetailLine || rep.Drawn != 40 || rep.Terminated {
		t.Errorf("report = %+v", rep)
	}
	if len(result.curves) != 120 {
		t.Errorf("expected 120 exportable curves, got %d", len(result.curves))
	}

	// Two scene lines plus every generated curve.
	if len(result.Outlines) != 2+120 {
		t.Fatalf("expected 122 outlines, got %d", len(result.Outlines))
	}
	var generated int
	for _, o := range result.Outlines {
		if o.Color == "" {
			t.Errorf("outline %s: no color assigned", o.Element.Short())
		}
		if o.IsEmpty() {
			t.Errorf("outline %s: no vertices", o.Element.Short())
		}
		if o.Group == rep.Group {
			generated++
			if o.Color == sceneColor {
				t.Errorf("generated outline uses the scene color")
			}
		}
	}
	if generated != 120 {
		t.Errorf("expected 120 grouped outlines, got %d", generated)
	}
}

func TestE2ERoomExample(t *testing.T) {
	result := evalFile(t, newTestApp(t), "examples/room.lisp")

	if len(result.Reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(result.Reports))
	}
	for _, r := range result.Reports {
		if r.Kind != model.KindWall {
			t.Errorf("report kind = %s, want wall", r.Kind)
		}
		if r.Drawn == 0 {
			t.Errorf("wall %s: nothing drawn (%s)", r.Element.Short(), r.Reason)
		}
		if r.Group.IsZero() {
			t.Errorf("wall %s: no group", r.Element.Short())
		}
	}
	// The south wall hosts the door.
	if result.Reports[0].Skipped == 0 {
		t.Error("expected the door to skip steps on the south wall")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestE2EBayExampleZigZag(t *testing.T) {
	result := evalFile(t, NewApp(testConfig(t, "zigzag")), "examples/bay.lisp")

	if len(result.Reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(result.Reports))
	}
	for _, r := range result.Reports {
		// A zig-zag step emits a single curve.
		if len(r.Curves) != r.Drawn {
			t.Errorf("wall %s: %d curves for %d drawn steps", r.Element.Short(), len(r.Curves), r.Drawn)
		}
	}
}

func TestE2EEmptySource(t *testing.T) {
	result := newTestApp(t).Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors, got %d", len(result.Errors))
	}
	if len(result.Outlines) != 0 || len(result.Reports) != 0 {
		t.Errorf("expected empty result, got %d outlines and %d reports", len(result.Outlines), len(result.Reports))
	}
	// Slices are non-nil so JSON serializes [] rather than null.
	if result.Outlines == nil || result.Reports == nil || result.Errors == nil || result.Warnings == nil {
		t.Error("result slices should be non-nil")
	}
}

func TestE2ESyntaxError(t *testing.T) {
	result := newTestApp(t).Evaluate(`(wall "w" :from (vec3 0 0)`)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one error")
	}
	if len(result.Outlines) != 0 {
		t.Errorf("expected 0 outlines on syntax error, got %d", len(result.Outlines))
	}
}

func TestE2EExport(t *testing.T) {
	app := newTestApp(t)
	result := evalFile(t, app, "examples/detail.lisp")
	dir := t.TempDir()

	for _, name := range []string{"detail.dxf", "detail.svg"} {
		path := filepath.Join(dir, name)
		if err := app.Export(result, path); err != nil {
			t.Fatalf("export %s: %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	svg, _ := os.ReadFile(filepath.Join(dir, "detail.svg"))
	if n := strings.Count(string(svg), "<path"); n != 120 {
		t.Errorf("expected 120 svg paths, got %d", n)
	}
}
