// Command insulator draws insulation patterns for the walls and detail
// curves selected in a scene file.
//
//	insulator [-config file] [-style loop|zigzag] [-format dxf|svg] [-o out] [-json] scene.lisp
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chazu/insulator/pkg/config"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("insulator: ")

	var (
		cfgPath = flag.String("config", "", "TOML config file")
		style   = flag.String("style", "", "pattern style: loop or zigzag")
		format  = flag.String("format", "", "export format: dxf or svg")
		output  = flag.String("o", "", "output drawing path")
		asJSON  = flag.Bool("json", false, "print the evaluation result as JSON")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: insulator [flags] scene.lisp\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *style != "" {
		cfg.Pattern.Style = *style
	}
	if *format != "" {
		cfg.Export.Format = *format
	}
	if *output != "" {
		cfg.Export.Output = *output
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := NewApp(cfg)
	result := app.Evaluate(string(source))

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encode result: %v", err)
		}
	}
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				log.Printf("%s:%d: %s", flag.Arg(0), e.Line, e.Message)
			} else {
				log.Printf("%s: %s", flag.Arg(0), e.Message)
			}
		}
		os.Exit(1)
	}

	if !*asJSON {
		for _, r := range result.Reports {
			line := fmt.Sprintf("%s %s: %d drawn, %d skipped", r.Kind, r.Element.Short(), r.Drawn, r.Skipped)
			if r.Terminated {
				line += fmt.Sprintf(" (stopped: %s)", r.Reason)
			}
			fmt.Println(line)
		}
	}

	if cfg.Export.Output != "" {
		if err := app.Export(result, cfg.Export.Output); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("wrote %s", cfg.Export.Output)
	}
}
