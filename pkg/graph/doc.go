// Package graph defines the CSG design graph. The design graph is an
// immutable DAG of primitives, transforms, boolean operations and hulls;
// its roots are named parts. A script evaluation produces one graph, which
// is then evaluated against a geometry kernel.
package graph
