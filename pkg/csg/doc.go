// Package csg is a boundary-representation solid modeling kernel.
//
// A Solid is a closed mesh of convex planar polygons. Union, Difference and
// Intersect combine solids by building a BSP tree over each operand and
// clipping one against the other, following the classic csg.js scheme:
//
//	union:        a.ClipTo(b); b.ClipTo(a); b.Invert(); b.ClipTo(a); b.Invert(); a.Build(b)
//	difference:   ~(~a ∪ b)
//	intersection: ~(~a ∪ ~b)
//
// BSP trees are transient: they live for one boolean operation and are
// stored as arenas of nodes addressed by index.
//
// Tolerances, boolean shortcuts and parallelism are set per solid through
// Config; nothing in the package is mutable global state except the logger.
package csg
