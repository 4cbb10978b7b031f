// Package primitive generates closed polygon meshes for the basic solids.
// Every face is convex, planar and wound counter-clockwise seen from
// outside.
package primitive

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/bspcsg/pkg/csg"
)

// ErrInvalidParameter is returned for non-positive sizes or too few segments.
var ErrInvalidParameter = errors.New("invalid primitive parameter")

// Default tessellation used by callers that do not choose their own.
const (
	DefaultSlices = 16
	DefaultStacks = 8
)

// builder accumulates faces and remembers the first error.
type builder struct {
	polys []*csg.Polygon
	err   error
}

func (b *builder) face(verts ...csg.Vertex) {
	if b.err != nil {
		return
	}
	p, err := csg.NewPolygon(verts...)
	if err != nil {
		b.err = err
		return
	}
	b.polys = append(b.polys, p)
}

func (b *builder) solid(name string, opts []csg.Option) (*csg.Solid, error) {
	if b.err != nil {
		return nil, fmt.Errorf("primitive: %s: %w", name, b.err)
	}
	return csg.New(b.polys, opts...).WithName(name), nil
}

// cubeFaces lists the corners of each box face by corner index, where bit
// 0, 1 and 2 of the index select the +X, +Y and +Z side.
var cubeFaces = []struct {
	corners [4]int
	normal  v3.Vec
}{
	{[4]int{0, 4, 6, 2}, v3.Vec{X: -1}},
	{[4]int{1, 3, 7, 5}, v3.Vec{X: 1}},
	{[4]int{0, 1, 5, 4}, v3.Vec{Y: -1}},
	{[4]int{2, 6, 7, 3}, v3.Vec{Y: 1}},
	{[4]int{0, 2, 3, 1}, v3.Vec{Z: -1}},
	{[4]int{4, 5, 7, 6}, v3.Vec{Z: 1}},
}

// Box returns an axis-aligned box with the given center and size.
func Box(center, size v3.Vec, opts ...csg.Option) (*csg.Solid, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("primitive: box size %v: %w", size, ErrInvalidParameter)
	}
	half := size.MulScalar(0.5)
	corner := func(i int) v3.Vec {
		return v3.Vec{
			X: center.X + half.X*sign(i&1),
			Y: center.Y + half.Y*sign(i&2),
			Z: center.Z + half.Z*sign(i&4),
		}
	}
	var b builder
	for _, f := range cubeFaces {
		vs := make([]csg.Vertex, 4)
		for k, c := range f.corners {
			vs[k] = csg.NewVertex(corner(c), f.normal)
		}
		b.face(vs...)
	}
	return b.solid("box", opts)
}

// Cube returns a cube with the given center and edge length.
func Cube(center v3.Vec, size float64, opts ...csg.Option) (*csg.Solid, error) {
	return Box(center, v3.Vec{X: size, Y: size, Z: size}, opts...)
}

func sign(bit int) float64 {
	if bit != 0 {
		return 1
	}
	return -1
}

// Sphere returns a UV sphere: slices segments around the Y axis and stacks
// bands from pole to pole. Bands touching a pole are triangles.
func Sphere(center v3.Vec, radius float64, slices, stacks int, opts ...csg.Option) (*csg.Solid, error) {
	if radius <= 0 || slices < 3 || stacks < 2 {
		return nil, fmt.Errorf("primitive: sphere r=%g %dx%d: %w", radius, slices, stacks, ErrInvalidParameter)
	}
	at := func(u, v float64) csg.Vertex {
		theta, phi := u*2*math.Pi, v*math.Pi
		dir := v3.Vec{
			X: math.Cos(theta) * math.Sin(phi),
			Y: math.Cos(phi),
			Z: math.Sin(theta) * math.Sin(phi),
		}
		return csg.NewVertex(center.Add(dir.MulScalar(radius)), dir)
	}
	var b builder
	for i := 0; i < slices; i++ {
		u0, u1 := float64(i)/float64(slices), float64(i+1)/float64(slices)
		for j := 0; j < stacks; j++ {
			v0, v1 := float64(j)/float64(stacks), float64(j+1)/float64(stacks)
			vs := []csg.Vertex{at(u0, v0)}
			if j > 0 {
				vs = append(vs, at(u1, v0))
			}
			if j < stacks-1 {
				vs = append(vs, at(u1, v1))
			}
			vs = append(vs, at(u0, v1))
			b.face(vs...)
		}
	}
	return b.solid("sphere", opts)
}

// Cylinder returns a cylinder of the given radius running from start to end,
// approximated by slices flat sides.
func Cylinder(start, end v3.Vec, radius float64, slices int, opts ...csg.Option) (*csg.Solid, error) {
	ray := end.Sub(start)
	length := ray.Length()
	if radius <= 0 || slices < 3 || length == 0 {
		return nil, fmt.Errorf("primitive: cylinder r=%g len=%g slices=%d: %w", radius, length, slices, ErrInvalidParameter)
	}
	axisZ := ray.MulScalar(1 / length)
	ref := v3.Vec{Y: 1}
	if math.Abs(axisZ.Y) > 0.5 {
		ref = v3.Vec{X: 1}
	}
	axisX := ref.Cross(axisZ)
	axisX = axisX.MulScalar(1 / axisX.Length())
	axisY := axisX.Cross(axisZ)
	axisY = axisY.MulScalar(1 / axisY.Length())

	bottom := csg.NewVertex(start, axisZ.MulScalar(-1))
	top := csg.NewVertex(end, axisZ)
	// rim returns the point at fraction t around the rim of the cap at
	// height h (0 or 1). blend mixes the side normal with the cap normal.
	rim := func(h, t, blend float64) csg.Vertex {
		angle := t * 2 * math.Pi
		out := axisX.MulScalar(math.Cos(angle)).Add(axisY.MulScalar(math.Sin(angle)))
		pos := start.Add(ray.MulScalar(h)).Add(out.MulScalar(radius))
		n := out.MulScalar(1 - math.Abs(blend)).Add(axisZ.MulScalar(blend))
		return csg.NewVertex(pos, n)
	}

	var b builder
	for i := 0; i < slices; i++ {
		t0, t1 := float64(i)/float64(slices), float64(i+1)/float64(slices)
		b.face(bottom, rim(0, t0, -1), rim(0, t1, -1))
		b.face(rim(0, t1, 0), rim(0, t0, 0), rim(1, t0, 0), rim(1, t1, 0))
		b.face(top, rim(1, t1, 1), rim(1, t0, 1))
	}
	return b.solid("cylinder", opts)
}

// Tetrahedron returns a regular tetrahedron centered on center whose
// vertices lie at distance radius from it.
func Tetrahedron(center v3.Vec, radius float64, opts ...csg.Option) (*csg.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("primitive: tetrahedron r=%g: %w", radius, ErrInvalidParameter)
	}
	k := radius / math.Sqrt(3)
	pts := []v3.Vec{
		center.Add(v3.Vec{X: k, Y: k, Z: k}),
		center.Add(v3.Vec{X: k, Y: -k, Z: -k}),
		center.Add(v3.Vec{X: -k, Y: k, Z: -k}),
		center.Add(v3.Vec{X: -k, Y: -k, Z: k}),
	}
	var b builder
	for _, f := range [][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}} {
		p0, p1, p2 := pts[f[0]], pts[f[1]], pts[f[2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		n = n.MulScalar(1 / n.Length())
		b.face(csg.NewVertex(p0, n), csg.NewVertex(p1, n), csg.NewVertex(p2, n))
	}
	return b.solid("tetrahedron", opts)
}
