package main

import (
	"fmt"
	"log"

	"github.com/chazu/insulator/pkg/command"
	"github.com/chazu/insulator/pkg/config"
	"github.com/chazu/insulator/pkg/engine"
	"github.com/chazu/insulator/pkg/export"
	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/kernel/sdfx"
	"github.com/chazu/insulator/pkg/model"
	"github.com/chazu/insulator/pkg/tessellate"
)

// colorPalette is cycled over insulation groups so neighbouring walls are
// easy to tell apart.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// sceneColor is used for walls and detail curves from the scene itself.
const sceneColor = "#7F8C8D"

// App runs scenes through the engine and the insulation command.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	cfg    config.Config
}

// OutlineData is the JSON-serializable outline format.
type OutlineData struct {
	*tessellate.Outline
	Color string `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Outlines []OutlineData    `json:"outlines"`
	Reports  []command.Report `json:"reports"`
	Errors   []EvalErrorData  `json:"errors"`
	Warnings []EvalErrorData  `json:"warnings"`

	curves []kernel.Curve // generated insulation, for export
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(cfg config.Config) *App {
	k := sdfx.New()
	return &App{
		engine: engine.NewEngine(k),
		kernel: k,
		cfg:    cfg,
	}
}

// Evaluate runs a scene and draws insulation for its selection.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Outlines: []OutlineData{},
		Reports:  []command.Report{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the scene source into a document.
	scene, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors and warnings.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	for _, w := range scene.Warnings {
		msg := w.Message
		if !w.ElementID.IsZero() {
			msg = fmt.Sprintf("element %s: %s", w.ElementID.Short(), w.Message)
		}
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: msg})
	}

	// Step 3: Draw insulation for the selection in one transaction.
	doc := scene.Document
	if len(doc.Selection) > 0 {
		reports, err := a.insulate(doc)
		if err != nil {
			log.Printf("Insulate error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{Message: "insulation failed: " + err.Error()})
			return result
		}
		result.Reports = append(result.Reports, reports...)
		for _, r := range reports {
			result.curves = append(result.curves, tessellate.Curves(doc, r.Curves...)...)
		}
	}

	// Step 4: Flatten everything for display.
	groupColor := make(map[model.ElementID]string)
	for i, r := range result.Reports {
		if !r.Group.IsZero() {
			groupColor[r.Group] = colorPalette[i%len(colorPalette)]
		}
	}
	for _, o := range tessellate.Tessellate(doc) {
		color, ok := groupColor[o.Group]
		if !ok {
			color = sceneColor
		}
		result.Outlines = append(result.Outlines, OutlineData{Outline: o, Color: color})
	}

	return result
}

func (a *App) insulate(doc *model.Document) ([]command.Report, error) {
	style, err := a.cfg.Style()
	if err != nil {
		return nil, err
	}
	cmd := &command.Command{
		Kernel: a.kernel,
		Host:   doc,
		Picker: command.PairPicker{Doc: doc},
		Options: command.Options{
			Style:   style,
			Keyword: a.cfg.Pattern.MaterialKeyword,
		},
	}
	return cmd.Run(doc.Selection)
}

// Export writes the insulation generated by r to path.
func (a *App) Export(r EvalResult, path string) error {
	f, err := export.FormatFromPath(path)
	if err != nil {
		if f, err = a.cfg.Format(); err != nil {
			return err
		}
	}
	return export.Save(path, f, r.curves, a.cfg.ExportOptions())
}
