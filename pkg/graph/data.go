package graph

import "fmt"

// Vec3 is a plain 3-vector used in node payloads.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// IsZero reports whether every component is zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// Shape distinguishes between primitive shapes.
type Shape int

const (
	ShapeBox      Shape = iota // axis-aligned box, min corner at origin
	ShapeSphere                // sphere centered at origin
	ShapeCylinder              // Z-axis cylinder centered at origin
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// PrimitiveData describes a primitive solid. Size is used by boxes; Radius
// and Height by spheres and cylinders.
type PrimitiveData struct {
	Shape    Shape   `json:"shape"`
	Size     Vec3    `json:"size,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Segments int     `json:"segments,omitempty"`
}

func (PrimitiveData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData is a spatial transformation of the single child. Scale is
// applied first, then rotation, then translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
	Scale       *Vec3 `json:"scale,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanOp enumerates the boolean operations.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData folds Op over the children left to right.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Hull and part
// ---------------------------------------------------------------------------

// HullData is the convex hull of all children.
type HullData struct{}

func (HullData) nodeData() {}

// PartData marks a named root. Its single child is the part's body.
type PartData struct {
	Description string `json:"description,omitempty"`
}

func (PartData) nodeData() {}
