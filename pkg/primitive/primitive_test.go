package primitive

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/tdewolff/test"

	"github.com/chazu/bspcsg/pkg/csg"
)

// outward checks that every face normal points away from the solid's center.
func outward(t *testing.T, s *csg.Solid) {
	t.Helper()
	c := s.Center()
	for _, p := range s.Polygons() {
		pl := p.Plane()
		if pl.Normal.Dot(p.Centroid().Sub(c)) <= 0 {
			t.Errorf("%s: face %v points inward", s.Name(), p)
		}
	}
}

func TestBox(t *testing.T) {
	s, err := Box(v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 2, Y: 4, Z: 6})
	test.Error(t, err)
	test.T(t, s.Len(), 6)
	test.That(t, math.Abs(s.Volume()-48) < 1e-9, "volume", s.Volume())

	b := s.Bounds()
	test.T(t, b.Min, v3.Vec{X: 0, Y: 0, Z: 0})
	test.T(t, b.Max, v3.Vec{X: 2, Y: 4, Z: 6})
	outward(t, s)
}

func TestCube(t *testing.T) {
	s, err := Cube(v3.Vec{}, 1)
	test.Error(t, err)
	test.That(t, math.Abs(s.Volume()-1) < 1e-12, "volume", s.Volume())
	test.T(t, s.Name(), "box")
}

func TestSphere(t *testing.T) {
	s, err := Sphere(v3.Vec{}, 2, DefaultSlices, DefaultStacks)
	test.Error(t, err)
	test.T(t, s.Len(), DefaultSlices*DefaultStacks)

	exact := 4.0 / 3 * math.Pi * 8
	v := s.Volume()
	test.That(t, v < exact && v > 0.8*exact, "volume", v, "exact", exact)
	outward(t, s)

	e := s.Extents()
	test.That(t, math.Abs(e.Y-4) < 1e-9, "pole to pole", e.Y)
}

func TestCylinder(t *testing.T) {
	s, err := Cylinder(v3.Vec{}, v3.Vec{Z: 3}, 1, 32)
	test.Error(t, err)
	test.T(t, s.Len(), 3*32)

	// regular 32-gon area times height
	want := 0.5 * 32 * math.Sin(2*math.Pi/32) * 3
	test.That(t, math.Abs(s.Volume()-want) < 1e-9, "volume", s.Volume(), "want", want)
	outward(t, s)
}

func TestCylinderAlongY(t *testing.T) {
	s, err := Cylinder(v3.Vec{Y: -1}, v3.Vec{Y: 1}, 0.5, 8)
	test.Error(t, err)
	e := s.Extents()
	test.That(t, math.Abs(e.Y-2) < 1e-9, "length", e.Y)
	outward(t, s)
}

func TestTetrahedron(t *testing.T) {
	s, err := Tetrahedron(v3.Vec{}, math.Sqrt(3))
	test.Error(t, err)
	test.T(t, s.Len(), 4)
	// corners of the cube [-1,1]^3 minus four corner tetrahedra of 4/3
	test.That(t, math.Abs(s.Volume()-8.0/3) < 1e-9, "volume", s.Volume())
	outward(t, s)
}

func TestInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*csg.Solid, error)
	}{
		{"box", func() (*csg.Solid, error) { return Box(v3.Vec{}, v3.Vec{X: 1, Y: 0, Z: 1}) }},
		{"sphere radius", func() (*csg.Solid, error) { return Sphere(v3.Vec{}, -1, 8, 4) }},
		{"sphere slices", func() (*csg.Solid, error) { return Sphere(v3.Vec{}, 1, 2, 4) }},
		{"cylinder length", func() (*csg.Solid, error) { return Cylinder(v3.Vec{}, v3.Vec{}, 1, 8) }},
		{"tetrahedron", func() (*csg.Solid, error) { return Tetrahedron(v3.Vec{}, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}
