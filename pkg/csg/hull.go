package csg

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/bspcsg/pkg/hull"
)

// Huller computes the convex hull of a point set as outward-facing
// polygons. It fails for point sets that do not span a volume.
type Huller interface {
	Hull(points []v3.Vec, eps float64) ([]*Polygon, error)
}

// HullerFunc adapts a function to Huller.
type HullerFunc func(points []v3.Vec, eps float64) ([]*Polygon, error)

func (f HullerFunc) Hull(points []v3.Vec, eps float64) ([]*Polygon, error) {
	return f(points, eps)
}

// DefaultHuller is the incremental hull from package hull.
var DefaultHuller Huller = HullerFunc(quickHull)

func quickHull(points []v3.Vec, eps float64) ([]*Polygon, error) {
	tris, err := hull.Compute(points, eps)
	if err != nil {
		return nil, err
	}
	polys := make([]*Polygon, 0, len(tris))
	for _, tri := range tris {
		n := tri.Normal()
		p, ok := rebuild([]Vertex{NewVertex(tri[0], n), NewVertex(tri[1], n), NewVertex(tri[2], n)})
		if !ok {
			continue
		}
		polys = append(polys, p)
	}
	return polys, nil
}
