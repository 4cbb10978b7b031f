// Package tessellate evaluates a design graph against a geometry kernel
// and produces triangle meshes. One mesh is produced per part.
package tessellate

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/bspcsg/pkg/csg"
	"github.com/chazu/bspcsg/pkg/graph"
	"github.com/chazu/bspcsg/pkg/kernel"
)

// Options tunes evaluation.
type Options struct {
	// Segments is used for spheres and cylinders that do not choose their
	// own. Zero leaves the choice to the kernel.
	Segments int
	// Workers bounds the number of parts meshed concurrently. Zero or
	// less means one per part.
	Workers int
}

// Tessellate evaluates every part of the design graph and returns one mesh
// per part, in root order. The graph is never mutated.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	return TessellateContext(context.Background(), g, k, Options{})
}

// TessellateContext is Tessellate with options and cancellation. The graph
// is validated first. Parts are evaluated and meshed concurrently; nodes
// shared between parts are evaluated once.
func TessellateContext(ctx context.Context, g *graph.DesignGraph, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}
	for _, f := range graph.Validate(g) {
		if f.Severity == graph.SeverityError {
			return nil, fmt.Errorf("tessellate: invalid graph: %w", f)
		}
	}
	parts := g.Parts()
	ev := newEvaluator(g, k, opts)
	meshes := make([]*kernel.Mesh, len(parts))

	eg, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for i, part := range parts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			solid, err := ev.solid(part.ID)
			if err != nil {
				return fmt.Errorf("tessellate: part %q: %w", part.Name, err)
			}
			mesh, err := k.ToMesh(solid)
			if err != nil {
				return fmt.Errorf("tessellate: ToMesh failed for part %q: %w", part.Name, err)
			}
			mesh.PartName = part.Name
			csg.Logger().Debug("tessellate: part done",
				"part", part.Name, "kernel", k.Name(), "triangles", mesh.TriangleCount())
			meshes[i] = mesh
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// Solid evaluates a single node of a validated graph to a kernel solid.
func Solid(g *graph.DesignGraph, k kernel.Kernel, id graph.NodeID, opts Options) (kernel.Solid, error) {
	return newEvaluator(g, k, opts).solid(id)
}

// evaluator memoizes node solids by ID. Concurrent callers asking for the
// same node wait for a single evaluation.
type evaluator struct {
	g    *graph.DesignGraph
	k    kernel.Kernel
	opts Options

	mu    sync.Mutex
	cache map[graph.NodeID]*entry
}

type entry struct {
	once  sync.Once
	solid kernel.Solid
	err   error
}

func newEvaluator(g *graph.DesignGraph, k kernel.Kernel, opts Options) *evaluator {
	return &evaluator{g: g, k: k, opts: opts, cache: make(map[graph.NodeID]*entry)}
}

func (ev *evaluator) solid(id graph.NodeID) (kernel.Solid, error) {
	ev.mu.Lock()
	e, ok := ev.cache[id]
	if !ok {
		e = &entry{}
		ev.cache[id] = e
	}
	ev.mu.Unlock()

	e.once.Do(func() {
		n := ev.g.Get(id)
		if n == nil {
			e.err = fmt.Errorf("node %s does not exist", id.Short())
			return
		}
		e.solid, e.err = ev.eval(n)
	})
	return e.solid, e.err
}

func (ev *evaluator) children(n *graph.Node) ([]kernel.Solid, error) {
	solids := make([]kernel.Solid, len(n.Children))
	for i, cid := range n.Children {
		s, err := ev.solid(cid)
		if err != nil {
			return nil, err
		}
		solids[i] = s
	}
	return solids, nil
}

func (ev *evaluator) eval(n *graph.Node) (kernel.Solid, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return ev.primitive(n)

	case graph.NodeTransform:
		return ev.transform(n)

	case graph.NodeBoolean:
		d, ok := n.Data.(graph.BooleanData)
		if !ok {
			return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		solids, err := ev.children(n)
		if err != nil {
			return nil, err
		}
		if len(solids) == 0 {
			return nil, fmt.Errorf("%s node %s has no operands", d.Op, n.ID.Short())
		}
		op := map[graph.BooleanOp]func(a, b kernel.Solid) kernel.Solid{
			graph.OpUnion:        ev.k.Union,
			graph.OpDifference:   ev.k.Difference,
			graph.OpIntersection: ev.k.Intersection,
		}[d.Op]
		if op == nil {
			return nil, fmt.Errorf("boolean node %s has unknown op %d", n.ID.Short(), int(d.Op))
		}
		r := solids[0]
		for _, s := range solids[1:] {
			r = op(r, s)
		}
		return r, nil

	case graph.NodeHull:
		solids, err := ev.children(n)
		if err != nil {
			return nil, err
		}
		return ev.k.Hull(solids...)

	case graph.NodePart:
		if len(n.Children) != 1 {
			return nil, fmt.Errorf("part %q has %d bodies", n.Name, len(n.Children))
		}
		return ev.solid(n.Children[0])

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// primitive creates geometry for a primitive node.
func (ev *evaluator) primitive(n *graph.Node) (kernel.Solid, error) {
	d, ok := n.Data.(graph.PrimitiveData)
	if !ok {
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	segments := d.Segments
	if segments == 0 {
		segments = ev.opts.Segments
	}
	switch d.Shape {
	case graph.ShapeBox:
		return ev.k.Box(d.Size.X, d.Size.Y, d.Size.Z)
	case graph.ShapeSphere:
		return ev.k.Sphere(d.Radius, segments)
	case graph.ShapeCylinder:
		return ev.k.Cylinder(d.Height, d.Radius, segments)
	}
	return nil, fmt.Errorf("primitive node %s has unknown shape %d", n.ID.Short(), int(d.Shape))
}

// transform applies scale, then rotation, then translation to the child.
func (ev *evaluator) transform(n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("transform node %s has %d children", n.ID.Short(), len(n.Children))
	}
	s, err := ev.solid(n.Children[0])
	if err != nil {
		return nil, err
	}
	if v := td.Scale; v != nil {
		s = ev.k.Scale(s, v.X, v.Y, v.Z)
	}
	if v := td.Rotation; v != nil && !v.IsZero() {
		s = ev.k.Rotate(s, v.X, v.Y, v.Z)
	}
	if v := td.Translation; v != nil && !v.IsZero() {
		s = ev.k.Translate(s, v.X, v.Y, v.Z)
	}
	return s, nil
}
