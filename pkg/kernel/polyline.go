package kernel

// Polyline is a flattened curve suitable for rendering.
// Vertices is flat: 3 floats per vertex (x,y,z).
type Polyline struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Kind     string    `json:"kind"`     // line, arc or spline
}

// ToPolyline flattens c through its tessellation.
func ToPolyline(c Curve) *Polyline {
	pts := c.Tessellate()
	vertices := make([]float32, 0, len(pts)*3)
	for _, p := range pts {
		vertices = append(vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return &Polyline{Vertices: vertices, Kind: c.Kind().String()}
}

// VertexCount returns the number of vertices.
func (p *Polyline) VertexCount() int {
	return len(p.Vertices) / 3
}

// IsEmpty returns true if the polyline has no geometry.
func (p *Polyline) IsEmpty() bool {
	return len(p.Vertices) == 0
}
