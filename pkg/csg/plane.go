package csg

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Side is the classification of a point or polygon against a plane. Polygon
// sides are the bitwise OR of their vertex sides, so Front|Back == Spanning.
type Side uint8

const (
	Coplanar Side = 0
	Front    Side = 1
	Back     Side = 2
	Spanning Side = Front | Back
)

func (s Side) String() string {
	switch s {
	case Coplanar:
		return "coplanar"
	case Front:
		return "front"
	case Back:
		return "back"
	case Spanning:
		return "spanning"
	default:
		return "unknown"
	}
}

// Plane is an oriented plane: the points p with Normal·p == Dist. Normal is
// always unit length.
type Plane struct {
	Normal v3.Vec
	Dist   float64
}

// The axis-aligned planes through the origin.
var (
	PlaneXY = Plane{Normal: v3.Vec{X: 0, Y: 0, Z: 1}}
	PlaneXZ = Plane{Normal: v3.Vec{X: 0, Y: 1, Z: 0}}
	PlaneYZ = Plane{Normal: v3.Vec{X: 1, Y: 0, Z: 0}}
)

// NewPlane returns the plane with the given normal (normalised) and distance.
// ok is false for a zero normal.
func NewPlane(normal v3.Vec, dist float64) (p Plane, ok bool) {
	l := normal.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Plane{}, false
	}
	return Plane{Normal: normal.MulScalar(1 / l), Dist: dist / l}, true
}

// PlaneFromPoints returns the plane through a, b and c, oriented so the
// points wind counter-clockwise when viewed from the front. ok is false when
// the points are collinear.
func PlaneFromPoints(a, b, c v3.Vec) (p Plane, ok bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Plane{}, false
	}
	n = n.MulScalar(1 / l)
	return Plane{Normal: n, Dist: n.Dot(a)}, true
}

// FitPlane fits a plane to a loop of points by averaging the normals of the
// fan triangles (p0, pi, pi+1) and the distances of all points. The fan
// normals are oriented to agree with the first non-degenerate one.
func FitPlane(points []v3.Vec) (Plane, error) {
	if len(points) < 3 {
		return Plane{}, fmt.Errorf("csg: fit plane to %d points: %w", len(points), ErrTooFewVertices)
	}
	var sum, ref v3.Vec
	haveRef := false
	for i := 1; i+1 < len(points); i++ {
		n := points[i].Sub(points[0]).Cross(points[i+1].Sub(points[0]))
		if n.Length() == 0 {
			continue
		}
		if !haveRef {
			ref = n
			haveRef = true
		} else if n.Dot(ref) < 0 {
			n = n.MulScalar(-1)
		}
		sum = sum.Add(n)
	}
	l := sum.Length()
	if !haveRef || l == 0 {
		return Plane{}, fmt.Errorf("csg: fit plane: %w", ErrDegeneratePolygon)
	}
	n := sum.MulScalar(1 / l)
	var d float64
	for _, p := range points {
		d += n.Dot(p)
	}
	return Plane{Normal: n, Dist: d / float64(len(points))}, nil
}

// Flip returns the plane facing the other way.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.MulScalar(-1), Dist: -p.Dist}
}

// Distance returns the signed distance of pt from the plane.
func (p Plane) Distance(pt v3.Vec) float64 {
	return p.Normal.Dot(pt) - p.Dist
}

// Classify reports which side of the plane pt lies on, treating points within
// eps of the plane as coplanar.
func (p Plane) Classify(pt v3.Vec, eps float64) Side {
	t := p.Distance(pt)
	switch {
	case t < -eps:
		return Back
	case t > eps:
		return Front
	default:
		return Coplanar
	}
}

// ClassifyPolygon returns the OR of the sides of every vertex of poly.
func (p Plane) ClassifyPolygon(poly *Polygon, eps float64) Side {
	var s Side
	for _, v := range poly.verts {
		s |= p.Classify(v.Pos, eps)
	}
	return s
}

func (p Plane) String() string {
	return fmt.Sprintf("plane(n=%g %g %g, d=%g)", p.Normal.X, p.Normal.Y, p.Normal.Z, p.Dist)
}

// splitBuckets collects the output of splitting polygons against a plane.
type splitBuckets struct {
	coplanarFront []*Polygon
	coplanarBack  []*Polygon
	front         []*Polygon
	back          []*Polygon
}

func (b *splitBuckets) merge(o splitBuckets) {
	b.coplanarFront = append(b.coplanarFront, o.coplanarFront...)
	b.coplanarBack = append(b.coplanarBack, o.coplanarBack...)
	b.front = append(b.front, o.front...)
	b.back = append(b.back, o.back...)
}

// Split splits poly by the plane. Coplanar polygons are returned in
// coplanarFront when they face the same way as the plane and coplanarBack
// otherwise. Polygons crossing the plane are cut in two; the new vertices
// are shared by both fragments.
func (p Plane) Split(poly *Polygon, eps float64) (coplanarFront, coplanarBack, front, back []*Polygon) {
	var b splitBuckets
	p.splitInto(poly, eps, &b)
	return b.coplanarFront, b.coplanarBack, b.front, b.back
}

func (p Plane) splitInto(poly *Polygon, eps float64, out *splitBuckets) {
	n := len(poly.verts)
	sides := make([]Side, n)
	var kind Side
	for i, v := range poly.verts {
		sides[i] = p.Classify(v.Pos, eps)
		kind |= sides[i]
	}

	switch kind {
	case Coplanar:
		if p.Normal.Dot(poly.plane.Normal) > 0 {
			out.coplanarFront = append(out.coplanarFront, poly)
		} else {
			out.coplanarBack = append(out.coplanarBack, poly)
		}
	case Front:
		out.front = append(out.front, poly)
	case Back:
		out.back = append(out.back, poly)
	case Spanning:
		f := make([]Vertex, 0, n+1)
		b := make([]Vertex, 0, n+1)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			si, sj := sides[i], sides[j]
			vi, vj := poly.verts[i], poly.verts[j]
			if si != Back {
				f = append(f, vi)
			}
			if si != Front {
				b = append(b, vi)
			}
			if si|sj != Spanning {
				continue
			}
			v, ok := p.intersectEdge(vi, vj)
			if !ok {
				Logger().Debug("csg: skipped degenerate edge while splitting",
					"from", vi.Pos, "to", vj.Pos, "plane", p.String())
				continue
			}
			f = append(f, v)
			b = append(b, v)
		}
		if len(f) >= 3 {
			out.front = append(out.front, withPlane(f, poly.plane))
		}
		if len(b) >= 3 {
			out.back = append(out.back, withPlane(b, poly.plane))
		}
	}
}

// intersectEdge returns the vertex where the edge vi→vj crosses the plane.
// ok is false when the edge is parallel to the plane or has zero length.
func (p Plane) intersectEdge(vi, vj Vertex) (Vertex, bool) {
	denom := p.Normal.Dot(vj.Pos.Sub(vi.Pos))
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return Vertex{}, false
	}
	t := (p.Dist - p.Normal.Dot(vi.Pos)) / denom
	if math.IsNaN(t) {
		return Vertex{}, false
	}
	t = math.Max(0, math.Min(1, t))
	return vi.Interpolate(vj, t), true
}
