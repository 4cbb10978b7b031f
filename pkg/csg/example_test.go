package csg_test

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/bspcsg/pkg/csg"
	"github.com/chazu/bspcsg/pkg/primitive"
)

func Example() {
	a, _ := primitive.Cube(v3.Vec{}, 1)
	b, _ := primitive.Cube(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 1)

	fmt.Printf("union %.3f\n", a.Union(b).Volume())
	fmt.Printf("difference %.3f\n", a.Difference(b).Volume())
	fmt.Printf("intersection %.3f\n", a.Intersect(b).Volume())
	// Output:
	// union 1.875
	// difference 0.875
	// intersection 0.125
}

func ExampleSolid_Transform() {
	a, _ := primitive.Cube(v3.Vec{}, 2)
	moved := a.Transform(csg.Translation(1, 0, 0)).Scale(1, 0.5, 1)
	b := moved.Bounds()
	fmt.Printf("%.1f %.1f\n", b.Min.X, b.Max.Y)
	// Output:
	// 0.0 0.5
}
