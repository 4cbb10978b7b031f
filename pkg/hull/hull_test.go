package hull

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/tdewolff/test"
)

func cubePoints() []v3.Vec {
	var pts []v3.Vec
	for _, x := range []float64{-1, 1} {
		for _, y := range []float64{-1, 1} {
			for _, z := range []float64{-1, 1} {
				pts = append(pts, v3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

func volume(tris []Triangle) float64 {
	var v float64
	for _, t := range tris {
		v += t[0].Dot(t[1].Cross(t[2])) / 6
	}
	return v
}

func TestComputeCube(t *testing.T) {
	pts := cubePoints()
	pts = append(pts, v3.Vec{}, v3.Vec{X: 0.5, Y: -0.2, Z: 0.1}) // interior points
	tris, err := Compute(pts, 1e-9)
	test.Error(t, err)
	test.That(t, math.Abs(volume(tris)-8) < 1e-9, "volume", volume(tris))

	for _, tri := range tris {
		n := tri.Normal()
		c := tri[0].Add(tri[1]).Add(tri[2]).MulScalar(1.0 / 3)
		test.That(t, n.Dot(c) > 0, "face points inward", tri)
		for _, p := range pts {
			test.That(t, n.Dot(p.Sub(tri[0])) < 1e-9, "point outside hull", p)
		}
	}
}

func TestComputeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var pts []v3.Vec
	for i := 0; i < 300; i++ {
		pts = append(pts, v3.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1, Z: rng.Float64()*2 - 1})
	}
	tris, err := Compute(pts, 1e-9)
	test.Error(t, err)
	test.That(t, volume(tris) > 0 && volume(tris) <= 8, "volume", volume(tris))
	for _, tri := range tris {
		n := tri.Normal()
		for _, p := range pts {
			test.That(t, n.Dot(p.Sub(tri[0])) < 1e-7, "point outside hull", p)
		}
	}
}

func TestComputeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []v3.Vec
	}{
		{"empty", nil},
		{"three", []v3.Vec{{X: 0}, {X: 1}, {Y: 1}}},
		{"coincident", []v3.Vec{{X: 1}, {X: 1}, {X: 1}, {X: 1}}},
		{"collinear", []v3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}}},
		{"coplanar", []v3.Vec{{X: 0}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 0.5, Y: 0.3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.pts, 1e-9)
			if !errors.Is(err, ErrDegenerate) {
				t.Errorf("Compute() error = %v, want ErrDegenerate", err)
			}
		})
	}
}
