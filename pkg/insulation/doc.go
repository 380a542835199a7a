// Package insulation generates insulation symbols between the two faces
// of an insulation layer.
//
// A Resolver finds the layer's boundary pair on a wall, a Joiner extends
// that pair to meet the layers of walls joined at either end, and Walk
// steps along the inner boundary emitting one soft loop or zig-zag per
// step while skipping openings. Geometric shortfalls never surface as
// errors here: joins pass geometry through unchanged and walks stop early.
package insulation
