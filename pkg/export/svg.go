package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/chazu/insulator/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const svgMargin = 10

// WriteSVG writes curves as an SVG document with one path per curve. The
// drawing is scaled by opts.Scale and flipped so +Y points up.
func WriteSVG(w io.Writer, curves []kernel.Curve, opts Options) error {
	if opts.Scale <= 0 {
		opts.Scale = DefaultOptions().Scale
	}
	v := newViewport(curves, opts.Scale)

	canvas := svg.New(w)
	canvas.Start(v.width, v.height)
	canvas.Gstyle("fill:none;stroke:black;stroke-width:1")
	for _, c := range curves {
		canvas.Path(v.path(c))
	}
	canvas.Gend()
	canvas.End()
	return nil
}

// viewport maps drawing coordinates to SVG pixels.
type viewport struct {
	minX, maxY    float64
	scale         float64
	width, height int
}

func newViewport(curves []kernel.Curve, scale float64) viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range curves {
		for _, p := range c.Tessellate() {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if len(curves) == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	return viewport{
		minX:   minX,
		maxY:   maxY,
		scale:  scale,
		width:  int(math.Ceil((maxX-minX)*scale)) + 2*svgMargin,
		height: int(math.Ceil((maxY-minY)*scale)) + 2*svgMargin,
	}
}

func (v viewport) xy(p v3.Vec) string {
	x := (p.X-v.minX)*v.scale + svgMargin
	y := (v.maxY-p.Y)*v.scale + svgMargin
	return fmt.Sprintf("%.3f %.3f", x, y)
}

func (v viewport) path(c kernel.Curve) string {
	if circ, ok := c.(kernel.Circular); ok && c.IsBound() {
		_, sweep := circ.Angles()
		if math.Abs(sweep) < 2*math.Pi-kernel.Epsilon {
			large, dir := 0, 0
			if math.Abs(sweep) > math.Pi {
				large = 1
			}
			// Flipping Y turns counter-clockwise into the SVG positive sweep.
			if sweep > 0 {
				dir = 1
			}
			r := circ.Radius() * v.scale
			return fmt.Sprintf("M %s A %.3f %.3f 0 %d %d %s",
				v.xy(c.EndPoint(0)), r, r, large, dir, v.xy(c.EndPoint(1)))
		}
	}
	var b strings.Builder
	for i, p := range c.Tessellate() {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(v.xy(p))
	}
	return b.String()
}
