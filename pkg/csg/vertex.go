package csg

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a polygon corner: a position, a shading normal and a blend
// weight. The weight scales the translation part of a transform, which lets
// callers deform meshes non-rigidly. Vertices are values and are copied
// freely.
type Vertex struct {
	Pos    v3.Vec
	Normal v3.Vec
	Weight float64
}

// NewVertex returns a vertex with weight 1.
func NewVertex(pos, normal v3.Vec) Vertex {
	return Vertex{Pos: pos, Normal: normal, Weight: 1}
}

// Flip returns the vertex with its normal negated.
func (v Vertex) Flip() Vertex {
	v.Normal = v.Normal.MulScalar(-1)
	return v
}

// Interpolate returns the vertex at parameter t on the segment from v to o.
// Position and weight are interpolated linearly; the normal is interpolated
// and renormalised.
func (v Vertex) Interpolate(o Vertex, t float64) Vertex {
	n := lerp(v.Normal, o.Normal, t)
	if l := n.Length(); l > 0 {
		n = n.MulScalar(1 / l)
	}
	return Vertex{
		Pos:    lerp(v.Pos, o.Pos, t),
		Normal: n,
		Weight: v.Weight + (o.Weight-v.Weight)*t,
	}
}

// Transform maps the vertex through t. The translation part of t is scaled
// by the vertex weight; the normal is mapped by the linear part only.
func (v Vertex) Transform(t Transform) Vertex {
	origin := t.Apply(v3.Vec{})
	p := t.Apply(v.Pos)
	if v.Weight != 1 {
		p = p.Sub(origin.MulScalar(1 - v.Weight))
	}
	n := t.Apply(v.Normal).Sub(origin)
	if l := n.Length(); l > 0 {
		n = n.MulScalar(1 / l)
	}
	v.Pos = p
	v.Normal = n
	return v
}

func (v Vertex) String() string {
	return fmt.Sprintf("vertex(%g %g %g)", v.Pos.X, v.Pos.Y, v.Pos.Z)
}

func lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

func finite(v v3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}
