package csg

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Polygon is a convex, planar loop of at least three vertices together with
// the plane they span. Polygons are immutable: every operation that moves
// vertices returns a new Polygon whose plane is recomputed from the moved
// vertices, so the plane can never go stale. Immutable polygons are shared
// freely between solids and BSP trees.
type Polygon struct {
	verts  []Vertex
	plane  Plane
	bounds Bounds
}

// NewPolygon validates verts with the default tolerance and returns the
// polygon they form.
func NewPolygon(verts ...Vertex) (*Polygon, error) {
	return DefaultConfig().NewPolygon(verts...)
}

// NewPolygon validates verts with the config's tolerance. The vertices must
// be coplanar and wind counter-clockwise around the plane normal without
// turning back on themselves.
func (c Config) NewPolygon(verts ...Vertex) (*Polygon, error) {
	c = c.normalized()
	if len(verts) < 3 {
		return nil, fmt.Errorf("csg: new polygon: %d vertices: %w", len(verts), ErrTooFewVertices)
	}
	for i, v := range verts {
		if !finite(v.Pos) {
			return nil, fmt.Errorf("csg: new polygon: vertex %d is not finite: %w", i, ErrDegeneratePolygon)
		}
	}
	vs := append([]Vertex(nil), verts...)
	plane, ok := planeOf(vs)
	if !ok {
		return nil, fmt.Errorf("csg: new polygon: %w", ErrDegeneratePolygon)
	}
	p := &Polygon{verts: vs, plane: plane, bounds: vertexBounds(vs)}
	eps := c.Epsilon * p.bounds.scale()
	for i, v := range vs {
		if d := plane.Distance(v.Pos); math.Abs(d) > eps {
			return nil, fmt.Errorf("csg: new polygon: vertex %d is %g off plane: %w", i, d, ErrNotCoplanar)
		}
	}
	n := len(vs)
	for i := range vs {
		e0 := vs[(i+1)%n].Pos.Sub(vs[i].Pos)
		e1 := vs[(i+2)%n].Pos.Sub(vs[(i+1)%n].Pos)
		turn := e0.Cross(e1).Dot(plane.Normal)
		if turn < -eps*math.Max(1, e0.Length()*e1.Length()) {
			return nil, fmt.Errorf("csg: new polygon: reflex corner at vertex %d: %w", (i+1)%n, ErrNotConvex)
		}
	}
	return p, nil
}

// PolygonFromPoints builds a validated polygon from bare positions. Every
// vertex gets the polygon's plane normal.
func PolygonFromPoints(points ...v3.Vec) (*Polygon, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("csg: polygon from points: %d points: %w", len(points), ErrTooFewVertices)
	}
	plane, ok := PlaneFromPoints(points[0], points[1], points[2])
	if !ok {
		// first three collinear; let planeOf search the loop
		vs := make([]Vertex, len(points))
		for i, p := range points {
			vs[i] = Vertex{Pos: p, Weight: 1}
		}
		if plane, ok = planeOf(vs); !ok {
			return nil, fmt.Errorf("csg: polygon from points: %w", ErrDegeneratePolygon)
		}
	}
	vs := make([]Vertex, len(points))
	for i, p := range points {
		vs[i] = NewVertex(p, plane.Normal)
	}
	return NewPolygon(vs...)
}

// withPlane wraps verts produced by splitting a polygon. The fragment lies
// in its parent's plane, so the plane is inherited rather than refitted.
func withPlane(verts []Vertex, plane Plane) *Polygon {
	return &Polygon{verts: verts, plane: plane, bounds: vertexBounds(verts)}
}

// rebuild wraps verts moved by a transform. ok is false when the transform
// collapsed the loop.
func rebuild(verts []Vertex) (*Polygon, bool) {
	plane, ok := planeOf(verts)
	if !ok {
		return nil, false
	}
	return &Polygon{verts: verts, plane: plane, bounds: vertexBounds(verts)}, true
}

// planeOf computes the plane of a vertex loop from its first three vertices,
// falling back to the first non-collinear triple that starts at vertex 0.
func planeOf(verts []Vertex) (Plane, bool) {
	if p, ok := PlaneFromPoints(verts[0].Pos, verts[1].Pos, verts[2].Pos); ok {
		return p, true
	}
	for i := 1; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			if p, ok := PlaneFromPoints(verts[0].Pos, verts[i].Pos, verts[j].Pos); ok {
				return p, true
			}
		}
	}
	return Plane{}, false
}

func vertexBounds(verts []Vertex) Bounds {
	var b Bounds
	for _, v := range verts {
		b = b.Include(v.Pos)
	}
	return b
}

// Vertices returns a copy of the vertex loop.
func (p *Polygon) Vertices() []Vertex {
	return append([]Vertex(nil), p.verts...)
}

// Vertex returns the i'th vertex.
func (p *Polygon) Vertex(i int) Vertex { return p.verts[i] }

// Len returns the number of vertices.
func (p *Polygon) Len() int { return len(p.verts) }

// Plane returns the supporting plane.
func (p *Polygon) Plane() Plane { return p.plane }

// Bounds returns the polygon's bounding box.
func (p *Polygon) Bounds() Bounds { return p.bounds }

// Clone returns a deep copy of the polygon.
func (p *Polygon) Clone() *Polygon {
	return &Polygon{verts: p.Vertices(), plane: p.plane, bounds: p.bounds}
}

// Flip reverses the winding, negates every vertex normal and flips the
// plane.
func (p *Polygon) Flip() *Polygon {
	n := len(p.verts)
	vs := make([]Vertex, n)
	for i, v := range p.verts {
		vs[n-1-i] = v.Flip()
	}
	return &Polygon{verts: vs, plane: p.plane.Flip(), bounds: p.bounds}
}

// Translate returns the polygon moved by d. Translation leaves the normal
// alone, so only the plane distance changes.
func (p *Polygon) Translate(d v3.Vec) *Polygon {
	vs := make([]Vertex, len(p.verts))
	for i, v := range p.verts {
		v.Pos = v.Pos.Add(d)
		vs[i] = v
	}
	plane := Plane{Normal: p.plane.Normal, Dist: p.plane.Dist + p.plane.Normal.Dot(d)}
	return withPlane(vs, plane)
}

// Transform maps every vertex through t. Orientation-reversing transforms
// also reverse the winding so the polygon keeps facing outward. ok is false
// when the transform collapses the polygon to a line or point.
func (p *Polygon) Transform(t Transform) (*Polygon, bool) {
	n := len(p.verts)
	vs := make([]Vertex, n)
	reverse := t.IsOrientationReversing()
	for i, v := range p.verts {
		tv := v.Transform(t)
		if reverse {
			vs[n-1-i] = tv
		} else {
			vs[i] = tv
		}
	}
	return rebuild(vs)
}

// Triangles fans the polygon into triangles around its first vertex.
func (p *Polygon) Triangles() [][3]Vertex {
	tris := make([][3]Vertex, 0, len(p.verts)-2)
	for i := 1; i+1 < len(p.verts); i++ {
		tris = append(tris, [3]Vertex{p.verts[0], p.verts[i], p.verts[i+1]})
	}
	return tris
}

// Area returns the polygon's area.
func (p *Polygon) Area() float64 {
	var sum v3.Vec
	o := p.verts[0].Pos
	for i := 1; i+1 < len(p.verts); i++ {
		sum = sum.Add(p.verts[i].Pos.Sub(o).Cross(p.verts[i+1].Pos.Sub(o)))
	}
	return sum.Length() / 2
}

// Centroid returns the mean of the vertex positions.
func (p *Polygon) Centroid() v3.Vec {
	var c v3.Vec
	for _, v := range p.verts {
		c = c.Add(v.Pos)
	}
	return c.MulScalar(1 / float64(len(p.verts)))
}

// Contains reports whether pt lies on the polygon, within eps of its plane
// and inside or on every edge.
func (p *Polygon) Contains(pt v3.Vec, eps float64) bool {
	if math.Abs(p.plane.Distance(pt)) > eps {
		return false
	}
	n := len(p.verts)
	for i := range p.verts {
		a, b := p.verts[i].Pos, p.verts[(i+1)%n].Pos
		edge := b.Sub(a)
		if edge.Cross(pt.Sub(a)).Dot(p.plane.Normal) < -eps*math.Max(1, edge.Length()) {
			return false
		}
	}
	return true
}

// SignedVolume returns the signed volume of the cone from the origin to the
// polygon. Summed over a closed outward-facing mesh this is the enclosed
// volume.
func (p *Polygon) SignedVolume() float64 {
	var vol float64
	o := p.verts[0].Pos
	for i := 1; i+1 < len(p.verts); i++ {
		vol += o.Dot(p.verts[i].Pos.Cross(p.verts[i+1].Pos))
	}
	return vol / 6
}

func (p *Polygon) String() string {
	return fmt.Sprintf("polygon(%d vertices, %v)", len(p.verts), p.plane)
}
