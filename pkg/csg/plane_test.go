package csg

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/tdewolff/test"
)

func square(t *testing.T, z float64) *Polygon {
	t.Helper()
	p, err := PolygonFromPoints(
		v3.Vec{X: -1, Y: -1, Z: z},
		v3.Vec{X: 1, Y: -1, Z: z},
		v3.Vec{X: 1, Y: 1, Z: z},
		v3.Vec{X: -1, Y: 1, Z: z},
	)
	test.Error(t, err)
	return p
}

func TestPlaneFromPoints(t *testing.T) {
	p, ok := PlaneFromPoints(v3.Vec{Z: 2}, v3.Vec{X: 1, Z: 2}, v3.Vec{Y: 1, Z: 2})
	test.That(t, ok)
	test.T(t, p.Normal, v3.Vec{Z: 1})
	test.Float(t, p.Dist, 2)

	_, ok = PlaneFromPoints(v3.Vec{}, v3.Vec{X: 1}, v3.Vec{X: 2})
	test.That(t, !ok, "collinear points")
}

func TestFitPlane(t *testing.T) {
	pts := []v3.Vec{{X: 0, Y: 0, Z: 1}, {X: 2, Y: 0, Z: 1}, {X: 2, Y: 2, Z: 1}, {X: 1, Y: 3, Z: 1}, {X: 0, Y: 2, Z: 1}}
	p, err := FitPlane(pts)
	test.Error(t, err)
	test.That(t, math.Abs(p.Normal.Z-1) < 1e-12, "normal", p.Normal)
	test.That(t, math.Abs(p.Dist-1) < 1e-12, "dist", p.Dist)

	_, err = FitPlane(pts[:2])
	test.That(t, err != nil)
	_, err = FitPlane([]v3.Vec{{}, {X: 1}, {X: 2}})
	test.That(t, err != nil)
}

func TestClassify(t *testing.T) {
	p := Plane{Normal: v3.Vec{Z: 1}, Dist: 1}
	tests := []struct {
		pt   v3.Vec
		want Side
	}{
		{v3.Vec{Z: 2}, Front},
		{v3.Vec{Z: 0}, Back},
		{v3.Vec{X: 5, Z: 1}, Coplanar},
		{v3.Vec{Z: 1 + 1e-9}, Coplanar},
		{v3.Vec{Z: 1 - 1e-7}, Back},
	}
	for _, tt := range tests {
		if got := p.Classify(tt.pt, 1e-8); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.pt, got, tt.want)
		}
		// classification is stable under repetition
		if got := p.Classify(tt.pt, 1e-8); got != tt.want {
			t.Errorf("second Classify(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
	test.T(t, Front|Back, Spanning)
}

func TestSplitWhole(t *testing.T) {
	up := Plane{Normal: v3.Vec{Z: 1}}
	down := up.Flip()

	cf, cb, f, b := up.Split(square(t, 0), 1e-8)
	test.T(t, len(cf), 1)
	test.T(t, len(cb)+len(f)+len(b), 0)

	cf, cb, f, b = down.Split(square(t, 0), 1e-8)
	test.T(t, len(cb), 1)
	test.T(t, len(cf)+len(f)+len(b), 0)

	_, _, f, b = up.Split(square(t, 3), 1e-8)
	test.T(t, len(f), 1)
	test.T(t, len(b), 0)

	_, _, f, b = up.Split(square(t, -3), 1e-8)
	test.T(t, len(f), 0)
	test.T(t, len(b), 1)
}

func TestSplitSpanning(t *testing.T) {
	poly := square(t, 0)
	cut := Plane{Normal: v3.Vec{X: 1}, Dist: 0.5}
	const eps = 1e-8

	cf, cb, front, back := cut.Split(poly, eps)
	test.T(t, len(cf)+len(cb), 0)
	test.T(t, len(front), 1)
	test.T(t, len(back), 1)

	for _, v := range front[0].verts {
		test.That(t, cut.Classify(v.Pos, eps) != Back, "front fragment vertex behind plane", v)
	}
	for _, v := range back[0].verts {
		test.That(t, cut.Classify(v.Pos, eps) != Front, "back fragment vertex in front of plane", v)
	}
	test.T(t, front[0].Len(), 4)
	test.T(t, back[0].Len(), 4)
	test.That(t, math.Abs(front[0].Area()+back[0].Area()-poly.Area()) < 1e-12, "areas")
	// fragments inherit the parent plane
	test.T(t, front[0].Plane(), poly.Plane())

	// every original vertex ends up in exactly one fragment
	seen := 0
	for _, v := range poly.verts {
		for _, frag := range []*Polygon{front[0], back[0]} {
			for _, w := range frag.verts {
				if w.Pos == v.Pos {
					seen++
				}
			}
		}
	}
	test.T(t, seen, poly.Len())
}

func TestSplitThroughVertex(t *testing.T) {
	// diagonal cut through two opposite corners yields two triangles
	cut, _ := NewPlane(v3.Vec{X: 1, Y: -1}, 0)
	_, _, front, back := cut.Split(square(t, 0), 1e-8)
	test.T(t, len(front), 1)
	test.T(t, len(back), 1)
	test.T(t, front[0].Len(), 3)
	test.T(t, back[0].Len(), 3)
}

func TestIntersectEdgeGuard(t *testing.T) {
	p := Plane{Normal: v3.Vec{Z: 1}}
	v := NewVertex(v3.Vec{Z: 1}, v3.Vec{Z: 1})
	_, ok := p.intersectEdge(v, v)
	test.That(t, !ok, "zero-length edge")

	a := NewVertex(v3.Vec{Z: -1}, v3.Vec{X: 1})
	b := NewVertex(v3.Vec{Z: 3}, v3.Vec{X: 1})
	m, ok := p.intersectEdge(a, b)
	test.That(t, ok)
	test.That(t, math.Abs(m.Pos.Z) < 1e-15, "intersection", m.Pos)
}

func TestSplitParallelMatchesSerial(t *testing.T) {
	var polys []*Polygon
	for i := 0; i < 500; i++ {
		polys = append(polys, square(t, float64(i%7)-3).Translate(v3.Vec{X: float64(i%5) * 0.3}))
	}
	cut := Plane{Normal: v3.Vec{X: 1}, Dist: 0.4}

	serial := splitPolygons(Config{Epsilon: 1e-8, ParallelThreshold: -1, Workers: 1}, cut, polys)
	par := splitPolygons(Config{Epsilon: 1e-8, ParallelThreshold: 10, Workers: 4}, cut, polys)
	test.T(t, len(par.front), len(serial.front))
	test.T(t, len(par.back), len(serial.back))
	test.T(t, len(par.coplanarFront)+len(par.coplanarBack), len(serial.coplanarFront)+len(serial.coplanarBack))
	for i := range serial.front {
		test.T(t, par.front[i].Len(), serial.front[i].Len())
		for j := range serial.front[i].verts {
			test.T(t, par.front[i].verts[j].Pos, serial.front[i].verts[j].Pos)
		}
	}
}
