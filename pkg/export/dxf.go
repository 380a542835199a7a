package export

import (
	"fmt"
	"math"

	"github.com/chazu/insulator/pkg/kernel"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

// SaveDXF writes curves to a DXF file on opts.Layer.
func SaveDXF(path string, curves []kernel.Curve, opts Options) error {
	if opts.Layer == "" {
		opts.Layer = DefaultOptions().Layer
	}
	d := dxf.NewDrawing()
	if _, err := d.AddLayer(opts.Layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("export: dxf layer %q: %w", opts.Layer, err)
	}
	if err := d.ChangeLayer(opts.Layer); err != nil {
		return fmt.Errorf("export: dxf layer %q: %w", opts.Layer, err)
	}
	for i, c := range curves {
		if err := drawDXF(d, c); err != nil {
			return fmt.Errorf("export: dxf curve %d: %w", i, err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: dxf: %w", err)
	}
	return nil
}

func drawDXF(d *drawing.Drawing, c kernel.Curve) error {
	if circ, ok := c.(kernel.Circular); ok && c.IsBound() {
		from, to := arcDegrees(circ.Angles())
		ctr := circ.Center()
		_, err := d.Arc(ctr.X, ctr.Y, ctr.Z, circ.Radius(), from, to)
		return err
	}
	pts := c.Tessellate()
	for i := 1; i < len(pts); i++ {
		p, q := pts[i-1], pts[i]
		if _, err := d.Line(p.X, p.Y, p.Z, q.X, q.Y, q.Z); err != nil {
			return err
		}
	}
	return nil
}

// arcDegrees converts a signed sweep to the counter-clockwise start and end
// angles DXF expects.
func arcDegrees(start, sweep float64) (float64, float64) {
	if sweep < 0 {
		start, sweep = start+sweep, -sweep
	}
	return start * 180 / math.Pi, (start + sweep) * 180 / math.Pi
}
