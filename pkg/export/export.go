// Package export writes generated insulation curves to drawing files.
// DXF output carries LINE and ARC entities; SVG output carries one path per
// curve. Splines are flattened through their tessellation in both formats.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/insulator/pkg/kernel"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects the output file format.
type Format int

const (
	FormatDXF Format = iota
	FormatSVG
)

func (f Format) String() string {
	switch f {
	case FormatDXF:
		return "dxf"
	case FormatSVG:
		return "svg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat accepts "dxf" or "svg", in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dxf":
		return FormatDXF, nil
	case "svg":
		return FormatSVG, nil
	}
	return 0, fmt.Errorf("export: %q: %w", s, ErrUnknownFormat)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Options control the appearance of exported drawings.
type Options struct {
	Layer string  // DXF layer name
	Scale float64 // SVG pixels per drawing unit
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Layer: "INSULATION", Scale: 100}
}

// Save writes curves to path in the given format.
func Save(path string, f Format, curves []kernel.Curve, opts Options) error {
	switch f {
	case FormatDXF:
		return SaveDXF(path, curves, opts)
	case FormatSVG:
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := WriteSVG(out, curves, opts); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	}
	return fmt.Errorf("export: %s: %w", f, ErrUnknownFormat)
}
