// Package bsp implements the kernel.Kernel interface on the exact
// polygon-based CSG in package csg.
package bsp

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/bspcsg/pkg/csg"
	"github.com/chazu/bspcsg/pkg/kernel"
	"github.com/chazu/bspcsg/pkg/primitive"
)

// Compile-time interface check.
var _ kernel.Kernel = (*BSPKernel)(nil)

// bspSolid wraps a csg.Solid to implement kernel.Solid.
type bspSolid struct {
	s *csg.Solid
}

// BoundingBox returns the axis-aligned bounding box.
func (s *bspSolid) BoundingBox() (min, max [3]float64) {
	return s.s.Bounds().Array()
}

// BSPKernel implements kernel.Kernel on csg solids. Every solid it creates
// carries the kernel's options.
type BSPKernel struct {
	opts []csg.Option
}

// New returns a BSPKernel whose solids are built with opts.
func New(opts ...csg.Option) *BSPKernel {
	return &BSPKernel{opts: opts}
}

// Name returns "bsp".
func (k *BSPKernel) Name() string { return "bsp" }

// Unwrap returns the csg solid behind a solid created by a BSPKernel.
func Unwrap(s kernel.Solid) (*csg.Solid, error) {
	b, ok := s.(*bspSolid)
	if !ok {
		return nil, fmt.Errorf("bsp: %T: %w", s, kernel.ErrForeignSolid)
	}
	return b.s, nil
}

// unwrap is Unwrap for operations with no error return. Mixing backends is
// a programming error.
func unwrap(s kernel.Solid) *csg.Solid {
	c, err := Unwrap(s)
	if err != nil {
		panic(err)
	}
	return c
}

func wrap(s *csg.Solid) kernel.Solid {
	return &bspSolid{s: s}
}

// Wrap exposes a csg solid as a kernel solid.
func Wrap(s *csg.Solid) kernel.Solid {
	return wrap(s)
}

// Box creates a box with its minimum corner at the origin.
func (k *BSPKernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := primitive.Box(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2}, v3.Vec{X: x, Y: y, Z: z}, k.opts...)
	if err != nil {
		return nil, err
	}
	return wrap(s), nil
}

// Sphere creates a UV sphere centered at the origin with segments slices
// and half as many stacks. Zero segments selects the default.
func (k *BSPKernel) Sphere(radius float64, segments int) (kernel.Solid, error) {
	slices := segmentsOrDefault(segments)
	s, err := primitive.Sphere(v3.Vec{}, radius, slices, max(2, slices/2), k.opts...)
	if err != nil {
		return nil, err
	}
	return wrap(s), nil
}

// Cylinder creates a Z-axis cylinder centered at the origin.
func (k *BSPKernel) Cylinder(height, radius float64, segments int) (kernel.Solid, error) {
	half := v3.Vec{Z: height / 2}
	s, err := primitive.Cylinder(half.MulScalar(-1), half, radius, segmentsOrDefault(segments), k.opts...)
	if err != nil {
		return nil, err
	}
	return wrap(s), nil
}

func segmentsOrDefault(n int) int {
	if n == 0 {
		return primitive.DefaultSlices
	}
	return n
}

// Union returns the union of two solids.
func (k *BSPKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Union(unwrap(b)))
}

// Difference returns the difference a - b.
func (k *BSPKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Difference(unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *BSPKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Intersect(unwrap(b)))
}

// Hull returns the convex hull of all solids.
func (k *BSPKernel) Hull(solids ...kernel.Solid) (kernel.Solid, error) {
	if len(solids) == 0 {
		return nil, fmt.Errorf("bsp: hull of nothing: %w", csg.ErrDegenerate)
	}
	cs := make([]*csg.Solid, len(solids))
	for i, s := range solids {
		c, err := Unwrap(s)
		if err != nil {
			return nil, err
		}
		cs[i] = c
	}
	h, err := cs[0].Hull(cs[1:]...)
	if err != nil {
		return nil, err
	}
	return wrap(h), nil
}

// Translate moves a solid by (x, y, z).
func (k *BSPKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(unwrap(s).Translate(x, y, z))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *BSPKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(unwrap(s).Rotate(x, y, z))
}

// Scale scales a solid along each axis.
func (k *BSPKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(unwrap(s).Scale(x, y, z))
}

// ToMesh fans every polygon into triangles with the polygon's plane normal.
func (k *BSPKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	c, err := Unwrap(s)
	if err != nil {
		return nil, err
	}
	m := &kernel.Mesh{}
	for _, p := range c.Polygons() {
		n := p.Plane().Normal
		normal := [3]float64{n.X, n.Y, n.Z}
		for _, tri := range p.Triangles() {
			m.AddTriangle(point(tri[0].Pos), point(tri[1].Pos), point(tri[2].Pos), normal)
		}
	}
	return m, nil
}

func point(p v3.Vec) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// FromSDF samples an sdfx signed distance field with marching cubes and
// returns the surface as a csg solid. Degenerate triangles are dropped.
func FromSDF(s sdf.SDF3, cells int, opts ...csg.Option) *csg.Solid {
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	polys := make([]*csg.Polygon, 0, len(triangles))
	dropped := 0
	for _, tri := range triangles {
		p, err := csg.PolygonFromPoints(tri[0], tri[1], tri[2])
		if err != nil {
			dropped++
			continue
		}
		polys = append(polys, p)
	}
	if dropped > 0 {
		csg.Logger().Debug("bsp: dropped degenerate marching cubes triangles", "count", dropped)
	}
	return csg.New(polys, opts...).WithName("sdf")
}
