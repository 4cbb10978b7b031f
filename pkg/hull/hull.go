// Package hull computes 3D convex hulls of point sets.
//
// The hull is built incrementally: a starting tetrahedron is grown one point
// at a time by deleting the faces the point can see and closing the hole with
// a fan of new faces from the point to the horizon.
package hull

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDegenerate is returned when the points do not span a volume: fewer than
// four points, or all of them collinear or coplanar.
var ErrDegenerate = errors.New("hull: degenerate point set")

// Triangle is one outward-facing hull face, wound counter-clockwise when
// viewed from outside.
type Triangle [3]v3.Vec

// Normal returns the unit outward normal of the face.
func (t Triangle) Normal() v3.Vec {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if l := n.Length(); l > 0 {
		return n.MulScalar(1 / l)
	}
	return n
}

type face struct {
	v      [3]int
	normal v3.Vec
	dist   float64
	dead   bool
}

func (f *face) distance(p v3.Vec) float64 {
	return f.normal.Dot(p) - f.dist
}

type edge struct{ a, b int }

// builder holds the state of one hull computation.
type builder struct {
	pts      []v3.Vec
	faces    []face
	interior v3.Vec
	tol      float64
}

// Compute returns the faces of the convex hull of points. eps is the
// distance below which a point counts as lying on a face; it is scaled by
// the magnitude of the input coordinates.
func Compute(points []v3.Vec, eps float64) ([]Triangle, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("hull: %d points: %w", len(points), ErrDegenerate)
	}
	scale := 1.0
	for _, p := range points {
		scale = math.Max(scale, math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z))))
	}
	b := &builder{pts: points, tol: eps * scale}

	seed, err := b.seed()
	if err != nil {
		return nil, err
	}
	for i := range points {
		if i == seed[0] || i == seed[1] || i == seed[2] || i == seed[3] {
			continue
		}
		b.add(i)
	}

	var out []Triangle
	for _, f := range b.faces {
		if f.dead {
			continue
		}
		out = append(out, Triangle{points[f.v[0]], points[f.v[1]], points[f.v[2]]})
	}
	return out, nil
}

// seed picks four extreme points spanning a tetrahedron and creates its
// faces.
func (b *builder) seed() ([4]int, error) {
	var s [4]int
	pts := b.pts

	for i, p := range pts {
		if p.X < pts[s[0]].X {
			s[0] = i
		}
	}

	best := -1.0
	for i, p := range pts {
		if d := p.Sub(pts[s[0]]).Length(); d > best {
			best, s[1] = d, i
		}
	}
	if best <= b.tol {
		return s, fmt.Errorf("hull: all points coincide: %w", ErrDegenerate)
	}

	axis := pts[s[1]].Sub(pts[s[0]])
	best = -1
	for i, p := range pts {
		if d := axis.Cross(p.Sub(pts[s[0]])).Length() / axis.Length(); d > best {
			best, s[2] = d, i
		}
	}
	if best <= b.tol {
		return s, fmt.Errorf("hull: points are collinear: %w", ErrDegenerate)
	}

	n := axis.Cross(pts[s[2]].Sub(pts[s[0]]))
	n = n.MulScalar(1 / n.Length())
	best = -1
	for i, p := range pts {
		if d := math.Abs(n.Dot(p.Sub(pts[s[0]]))); d > best {
			best, s[3] = d, i
		}
	}
	if best <= b.tol {
		return s, fmt.Errorf("hull: points are coplanar: %w", ErrDegenerate)
	}

	b.interior = pts[s[0]].Add(pts[s[1]]).Add(pts[s[2]]).Add(pts[s[3]]).MulScalar(0.25)
	b.newFace(s[0], s[1], s[2])
	b.newFace(s[0], s[1], s[3])
	b.newFace(s[0], s[2], s[3])
	b.newFace(s[1], s[2], s[3])
	return s, nil
}

// newFace adds the face (a, b, c), reordering it if needed so its normal
// points away from the interior point.
func (b *builder) newFace(i, j, k int) {
	pa, pb, pc := b.pts[i], b.pts[j], b.pts[k]
	n := pb.Sub(pa).Cross(pc.Sub(pa))
	l := n.Length()
	if l == 0 {
		return
	}
	n = n.MulScalar(1 / l)
	if n.Dot(b.interior.Sub(pa)) > 0 {
		j, k = k, j
		n = n.MulScalar(-1)
	}
	b.faces = append(b.faces, face{v: [3]int{i, j, k}, normal: n, dist: n.Dot(pa)})
}

// add grows the hull to include point i.
func (b *builder) add(i int) {
	p := b.pts[i]
	var lit []int
	visible := make(map[edge]bool)
	for fi := range b.faces {
		f := &b.faces[fi]
		if f.dead || f.distance(p) <= b.tol {
			continue
		}
		f.dead = true
		lit = append(lit, fi)
		for k := 0; k < 3; k++ {
			visible[edge{f.v[k], f.v[(k+1)%3]}] = true
		}
	}
	// A directed edge of a visible face whose twin is not visible lies on
	// the horizon.
	for _, fi := range lit {
		v := b.faces[fi].v
		for k := 0; k < 3; k++ {
			a, c := v[k], v[(k+1)%3]
			if !visible[edge{c, a}] {
				b.newFace(a, c, i)
			}
		}
	}
}
