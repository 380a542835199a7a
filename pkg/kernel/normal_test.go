package kernel_test

import (
	"testing"

	"github.com/chazu/insulator/pkg/kernel"
	"github.com/chazu/insulator/pkg/kernel/sdfx"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestTangentNormal(t *testing.T) {
	k := sdfx.New()
	line, err := k.Line(v3.Vec{X: 0, Y: 0}, v3.Vec{X: 10, Y: 0})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		at   v3.Vec
	}{
		{"interior point", v3.Vec{X: 5, Y: 0}},
		{"at the far end falls back to the full chord", v3.Vec{X: 10, Y: 0}},
		{"at the start", v3.Vec{X: 0, Y: 0}},
	}
	want := v3.Vec{X: 0, Y: -1, Z: 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := kernel.TangentNormal(k, line, tt.at)
			if !ok {
				t.Fatal("expected a normal")
			}
			if kernel.Distance(got, want) > 1e-12 {
				t.Errorf("TangentNormal = %v, want %v", got, want)
			}
		})
	}
}

func TestTangentNormalOnArc(t *testing.T) {
	k := sdfx.New()
	// Counter-clockwise upper half of the unit circle.
	arc, err := k.Arc(v3.Vec{X: 1}, v3.Vec{X: -1}, v3.Vec{Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	got, ok := kernel.TangentNormal(k, arc, v3.Vec{X: 0, Y: 1})
	if !ok {
		t.Fatal("expected a normal")
	}
	// The nearest vertex lies on the arc, so the chord is nearly tangent
	// and its normal points close to radial.
	if got.Y < 0.99 && got.Y > -0.99 {
		t.Errorf("normal at the apex should be near ±Y, got %v", got)
	}
}
