package csg

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	sdf.Box3
	valid bool
}

// BoundsOf returns the smallest box containing every point.
func BoundsOf(points ...v3.Vec) Bounds {
	var b Bounds
	for _, p := range points {
		b = b.Include(p)
	}
	return b
}

// Include returns b grown to contain p.
func (b Bounds) Include(p v3.Vec) Bounds {
	if !b.valid {
		return Bounds{Box3: sdf.Box3{Min: p, Max: p}, valid: true}
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
	return b
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	switch {
	case !o.valid:
		return b
	case !b.valid:
		return o
	}
	b.Min = b.Min.Min(o.Min)
	b.Max = b.Max.Max(o.Max)
	return b
}

// Intersects reports whether the boxes overlap, allowing eps of slack on
// every side so that touching boxes count as overlapping.
func (b Bounds) Intersects(o Bounds, eps float64) bool {
	if !b.valid || !o.valid {
		return false
	}
	return b.Min.X <= o.Max.X+eps && o.Min.X <= b.Max.X+eps &&
		b.Min.Y <= o.Max.Y+eps && o.Min.Y <= b.Max.Y+eps &&
		b.Min.Z <= o.Max.Z+eps && o.Min.Z <= b.Max.Z+eps
}

// Contains reports whether p lies inside the box, within eps.
func (b Bounds) Contains(p v3.Vec, eps float64) bool {
	return b.valid &&
		p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps &&
		p.Z >= b.Min.Z-eps && p.Z <= b.Max.Z+eps
}

// IsEmpty reports whether the box contains no points at all.
func (b Bounds) IsEmpty() bool { return !b.valid }

// Center returns the midpoint of the box, or the origin when empty.
func (b Bounds) Center() v3.Vec {
	if !b.valid {
		return v3.Vec{}
	}
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Extents returns the size of the box along each axis.
func (b Bounds) Extents() v3.Vec {
	if !b.valid {
		return v3.Vec{}
	}
	return b.Max.Sub(b.Min)
}

// Array returns the corners as arrays, the form kernel.Solid reports.
func (b Bounds) Array() (min, max [3]float64) {
	if !b.valid {
		return
	}
	return [3]float64{b.Min.X, b.Min.Y, b.Min.Z}, [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
}

// scale is the largest absolute coordinate of the box, at least 1. Relative
// tolerances are expressed as eps*scale.
func (b Bounds) scale() float64 {
	s := 1.0
	if !b.valid {
		return s
	}
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		s = math.Max(s, math.Abs(v))
	}
	return s
}

func (b Bounds) String() string {
	if !b.valid {
		return "bounds(empty)"
	}
	return fmt.Sprintf("bounds([%g %g %g], [%g %g %g])",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}
