package csg

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform is the affine map collaborator consumed by Solid.Transform.
type Transform interface {
	Apply(p v3.Vec) v3.Vec
	IsOrientationReversing() bool
}

// matrix adapts an sdfx 4x4 matrix to Transform.
type matrix struct {
	m sdf.M44
}

// Compile-time interface check.
var _ Transform = matrix{}

// Matrix wraps an sdfx homogeneous matrix as a Transform.
func Matrix(m sdf.M44) Transform {
	return matrix{m: m}
}

func (t matrix) Apply(p v3.Vec) v3.Vec {
	return t.m.MulPosition(p)
}

func (t matrix) IsOrientationReversing() bool {
	return t.m.Determinant() < 0
}

// Translation returns a transform moving points by (x, y, z).
func Translation(x, y, z float64) Transform {
	return Matrix(sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotation returns a transform rotating by Euler angles in degrees around
// the X, Y and Z axes, applied X first.
func Rotation(x, y, z float64) Transform {
	m := sdf.RotateZ(radians(z)).Mul(sdf.RotateY(radians(y))).Mul(sdf.RotateX(radians(x)))
	return Matrix(m)
}

// Scaling returns a transform scaling each axis independently.
func Scaling(x, y, z float64) Transform {
	return Matrix(sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Mirroring returns a transform reflecting points across p, offset
// included. The three axis planes use the sdfx mirror matrices; any other
// plane is reflected directly.
func Mirroring(p Plane) Transform {
	switch p {
	case PlaneXY:
		return Matrix(sdf.MirrorXY())
	case PlaneXZ:
		return Matrix(sdf.MirrorXZ())
	case PlaneYZ:
		return Matrix(sdf.MirrorYZ())
	}
	return reflection{plane: p}
}

// reflection mirrors across an arbitrary plane.
type reflection struct {
	plane Plane
}

func (r reflection) Apply(p v3.Vec) v3.Vec {
	d := r.plane.Distance(p)
	return p.Sub(r.plane.Normal.MulScalar(2 * d))
}

func (r reflection) IsOrientationReversing() bool { return true }

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
