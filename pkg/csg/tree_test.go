package csg

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/tdewolff/test"
)

func TestTreeBuildKeepsEveryPolygon(t *testing.T) {
	polys := cube(t, v3.Vec{}, 2)
	tree := NewTree(polys, DefaultConfig())
	all := tree.AllPolygons()
	test.T(t, len(all), 6)
	test.That(t, math.Abs(volumeOf(all)-8) < 1e-12, "volume", volumeOf(all))
	for i := range tree.nodes {
		test.That(t, tree.nodes[i].hasPlane, "node without plane", i)
		test.T(t, len(tree.nodes[i].pending), 0)
	}
	// a convex solid builds a single chain of back children
	test.T(t, tree.Len(), 6)
}

func TestTreeInvertInvolution(t *testing.T) {
	polys := append(cube(t, v3.Vec{}, 2), cube(t, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 2)...)
	tree := NewTree(polys, DefaultConfig())
	before := tree.AllPolygons()

	tree.Invert()
	inverted := tree.AllPolygons()
	test.That(t, math.Abs(volumeOf(inverted)+volumeOf(before)) < 1e-12, "inverted volume")

	tree.Invert()
	after := tree.AllPolygons()
	test.T(t, len(after), len(before))
	for i := range before {
		test.T(t, after[i].Plane(), before[i].Plane())
		for j := range before[i].verts {
			test.T(t, after[i].verts[j].Pos, before[i].verts[j].Pos)
		}
	}
}

func TestClipPolygonsEmptyTree(t *testing.T) {
	tree := NewTree(nil, DefaultConfig())
	polys := cube(t, v3.Vec{}, 1)
	out := tree.ClipPolygons(polys)
	test.T(t, len(out), len(polys))
	test.T(t, len(tree.ClipPolygons(nil)), 0)
}

func TestClipPolygonsRemovesInside(t *testing.T) {
	tree := NewTree(cube(t, v3.Vec{}, 2), DefaultConfig())

	small, err := PolygonFromPoints(v3.Vec{X: -0.5, Y: -0.5}, v3.Vec{X: 0.5, Y: -0.5}, v3.Vec{X: 0.5, Y: 0.5})
	test.Error(t, err)
	test.T(t, len(tree.ClipPolygons([]*Polygon{small})), 0)

	far := small.Translate(v3.Vec{X: 5})
	test.T(t, len(tree.ClipPolygons([]*Polygon{far})), 1)

	// a polygon crossing the surface keeps only its outside part
	wide, err := PolygonFromPoints(v3.Vec{X: 0}, v3.Vec{X: 3}, v3.Vec{X: 3, Y: 0.5}, v3.Vec{X: 0, Y: 0.5})
	test.Error(t, err)
	var area float64
	for _, p := range tree.ClipPolygons([]*Polygon{wide}) {
		area += p.Area()
	}
	test.That(t, math.Abs(area-1) < 1e-12, "clipped area", area)
}

func TestClipToAndClone(t *testing.T) {
	a := NewTree(cube(t, v3.Vec{}, 2), DefaultConfig())
	b := NewTree(cube(t, v3.Vec{X: 1}, 2), DefaultConfig())
	c := a.Clone()

	a.ClipTo(b)
	// a's faces inside b lose their overlap; the clone is untouched
	var area, cloneArea float64
	for _, p := range a.AllPolygons() {
		area += p.Area()
	}
	for _, p := range c.AllPolygons() {
		cloneArea += p.Area()
	}
	test.That(t, math.Abs(cloneArea-24) < 1e-12, "clone area", cloneArea)
	// the +X face lies inside b and goes; side faces coplanar with b's
	// faces of the same orientation survive
	test.That(t, math.Abs(area-20) < 1e-12, "clipped area", area)
}

func TestBooleanPolygons(t *testing.T) {
	cfg := DefaultConfig()
	a := cube(t, v3.Vec{}, 1)
	b := cube(t, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 1)

	tests := []struct {
		name string
		got  []*Polygon
		want float64
	}{
		{"union", unionPolygons(cfg, a, b), 1.875},
		{"difference", differencePolygons(cfg, a, b), 0.875},
		{"intersect", intersectPolygons(cfg, a, b), 0.125},
		{"self union", unionPolygons(cfg, a, a), 1},
		{"self difference", differencePolygons(cfg, a, a), 0},
		{"self intersect", intersectPolygons(cfg, a, a), 1},
		{"union with empty", unionPolygons(cfg, nil, b), 1},
		{"difference from empty", differencePolygons(cfg, nil, b), 0},
		{"difference of empty", differencePolygons(cfg, a, nil), 1},
		{"intersect with empty", intersectPolygons(cfg, nil, b), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := volumeOf(tt.got); math.Abs(v-tt.want) > 1e-9 {
				t.Errorf("volume = %v, want %v", v, tt.want)
			}
		})
	}
}

func TestBooleanPolygonsEmptyOperand(t *testing.T) {
	cfg := DefaultConfig()
	a := cube(t, v3.Vec{}, 1)
	test.T(t, len(unionPolygons(cfg, a, nil)), len(a))
	test.T(t, len(unionPolygons(cfg, nil, a)), len(a))
	test.T(t, len(differencePolygons(cfg, a, nil)), len(a))
	test.T(t, len(differencePolygons(cfg, nil, a)), 0)
	test.T(t, len(intersectPolygons(cfg, a, nil)), 0)
	test.T(t, len(intersectPolygons(cfg, nil, a)), 0)
}
