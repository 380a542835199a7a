package insulation

import (
	"math"
	"testing"

	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/kernel/sdfx"
	"github.com/chazu/insulator/pkg/model"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const eps = 1e-6

func pt(x, y float64) v3.Vec { return v3.Vec{X: x, Y: y} }

func near(a, b v3.Vec) bool { return kernel.Distance(a, b) < eps }

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func mustLine(t *testing.T, k kernel.Kernel, a, b v3.Vec) kernel.Curve {
	t.Helper()
	c, err := k.Line(a, b)
	if err != nil {
		t.Fatalf("Line(%v, %v): %v", a, b, err)
	}
	return c
}

// straightPair is a 10 unit long cavity 1 unit high.
func straightPair(t *testing.T, k kernel.Kernel) BoundaryPair {
	t.Helper()
	return BoundaryPair{
		Outer: mustLine(t, k, pt(0, 1), pt(10, 1)),
		Inner: mustLine(t, k, pt(0, 0), pt(10, 0)),
	}
}

// insulatedWall builds a wall whose single layer is soft insulation
// spanning its whole width.
func insulatedWall(t *testing.T, k kernel.Kernel, name string, from, to v3.Vec) *model.Wall {
	t.Helper()
	return &model.Wall{
		ID:       model.NewElementID("wall/" + name),
		Name:     name,
		Location: mustLine(t, k, from, to),
		Width:    1,
		Layers:   []model.Layer{{Width: 1, Material: "Soft Insulation"}},
	}
}

// fakeJoins is a JoinSource backed by a map.
type fakeJoins map[model.ElementID]map[model.End][]*model.Wall

func (f fakeJoins) JoinedAt(wall model.ElementID, end model.End) []*model.Wall {
	return f[wall][end]
}

func newKernel() kernel.Kernel { return sdfx.New() }
