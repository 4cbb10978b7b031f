package csg

import (
	"errors"

	"github.com/chazu/bspcsg/pkg/hull"
)

var (
	// ErrTooFewVertices is returned for polygons with fewer than three vertices.
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")

	// ErrDegeneratePolygon is returned when no three vertices span a plane.
	ErrDegeneratePolygon = errors.New("polygon vertices are collinear")

	// ErrNotCoplanar is returned when a vertex lies off the polygon's plane.
	ErrNotCoplanar = errors.New("polygon vertices are not coplanar")

	// ErrNotConvex is returned when the vertex loop turns the wrong way.
	ErrNotConvex = errors.New("polygon is not convex")

	// ErrNoHuller is returned by Hull when the solid has no hull collaborator.
	ErrNoHuller = errors.New("no convex hull collaborator configured")

	// ErrDegenerate is the hull collaborator's failure for flat or too-small
	// point sets.
	ErrDegenerate = hull.ErrDegenerate
)
