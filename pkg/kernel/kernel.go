// Package kernel defines the abstract geometry kernel interface.
// Implementations (bsp, sdfx) provide solid modeling and boolean
// operations behind this interface, so the evaluator can swap backends
// without changing the rest of the system.
package kernel

import "errors"

// ErrUnsupported is returned by kernels that cannot perform an operation.
var ErrUnsupported = errors.New("kernel: operation not supported by this backend")

// ErrForeignSolid is returned when a kernel is handed a solid built by a
// different kernel.
var ErrForeignSolid = errors.New("kernel: solid belongs to another backend")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Name identifies the backend in logs and CLI flags.
	Name() string

	// Primitives. Boxes have their minimum corner at the origin; spheres
	// and Z-axis cylinders are centered on it.
	Box(x, y, z float64) (Solid, error)
	Sphere(radius float64, segments int) (Solid, error)
	Cylinder(height, radius float64, segments int) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid
	Hull(solids ...Solid) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
