package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/bspcsg/pkg/graph"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so solids can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(solid %q)", n.name)
	}
	return fmt.Sprintf("(solid %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Keyword at end with no value: treat as flag with nil.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// float returns the keyword value, or the positional argument at pos, or
// def when neither is given. pos < 0 disables the positional lookup.
func (a kwArgs) float(key string, pos int, def float64) (float64, error) {
	if v, ok := a.kw[key]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return f, nil
	}
	if pos >= 0 && pos < len(a.positional) {
		f, err := toFloat64(a.positional[pos])
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return f, nil
	}
	return def, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3, or spreads a single number over
// all three components.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	if f, err := toFloat64(s); err == nil {
		return graph.Vec3{X: f, Y: f, Z: f}, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// vecArgs reads a vector from either one vec3 argument or three numbers.
func vecArgs(args []zygo.Sexp) (graph.Vec3, error) {
	switch len(args) {
	case 1:
		return toVec3(args[0])
	case 3:
		var v [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return graph.Vec3{}, err
			}
			v[i] = f
		}
		return graph.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected a vec3 or three numbers, got %d arguments", len(args))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// solidArgs collects solid operands, flattening lists and arrays so that
// (union parts...) and (union [a b c]) both work.
func solidArgs(args []zygo.Sexp) ([]graph.NodeID, error) {
	var ids []graph.NodeID
	for _, a := range args {
		if _, ok := a.(*sexpNodeRef); !ok {
			if items, err := sexpListToSlice(a); err == nil {
				nested, err := solidArgs(items)
				if err != nil {
					return nil, err
				}
				ids = append(ids, nested...)
				continue
			}
		}
		id, err := toNodeRef(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder accumulates the design graph while a script runs.
type builder struct {
	g     *graph.DesignGraph
	parts map[string]graph.NodeID // part name -> body
}

func newBuilder() *builder {
	return &builder{g: graph.New(), parts: make(map[string]graph.NodeID)}
}

// add stores n and returns a reference to it.
func (b *builder) add(n *graph.Node) *sexpNodeRef {
	b.g.AddNode(n)
	return &sexpNodeRef{id: n.ID, name: n.Name}
}

func (b *builder) primitive(data graph.PrimitiveData) *sexpNodeRef {
	return b.add(graph.NewNode(graph.NodePrimitive, "", data))
}

func (b *builder) transform(data graph.TransformData, child graph.NodeID) *sexpNodeRef {
	return b.add(graph.NewNode(graph.NodeTransform, "", data, child))
}

// definePart registers a named root over body. Names are single-assignment.
func (b *builder) definePart(name string, body graph.NodeID) (*sexpNodeRef, error) {
	if _, dup := b.parts[name]; dup {
		return nil, fmt.Errorf("part %q is already defined", name)
	}
	b.parts[name] = body
	ref := b.add(graph.NewNode(graph.NodePart, name, graph.PartData{}, body))
	b.g.AddRoot(ref.id)
	return ref, nil
}

// builtinFunc is the zygomys user function signature.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// wrapErr prefixes every error from fn with the builtin's name.
func wrapErr(name string, fn func(args []zygo.Sexp) (zygo.Sexp, error)) builtinFunc {
	return func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := fn(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return v, nil
	}
}

// registerBuiltins installs the modeling builtins into a zygomys
// environment. The builtins populate b as the script runs.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	add := func(name string, fn func(args []zygo.Sexp) (zygo.Sexp, error)) {
		env.AddFunction(name, wrapErr(name, fn))
	}

	// (vec3 1 2 3)
	add("vec3", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("expected 3 numbers, got %d arguments", len(args))
		}
		v, err := vecArgs(args)
		if err != nil {
			return nil, err
		}
		return &sexpVec3{vec: v}, nil
	})

	// (box 10 20 30), (box (vec3 10 20 30)) or (box :size (vec3 ...))
	add("box", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size graph.Vec3
		var err error
		if v, ok := pa.kw["size"]; ok {
			size, err = toVec3(v)
		} else {
			size, err = vecArgs(pa.positional)
		}
		if err != nil {
			return nil, err
		}
		return b.primitive(graph.PrimitiveData{Shape: graph.ShapeBox, Size: size}), nil
	})

	// (cube 10)
	add("cube", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected a size, got %d arguments", len(args))
		}
		s, err := toFloat64(args[0])
		if err != nil {
			return nil, err
		}
		return b.primitive(graph.PrimitiveData{Shape: graph.ShapeBox, Size: graph.Vec3{X: s, Y: s, Z: s}}), nil
	})

	// (sphere 5 :segments 24) or (sphere :radius 5)
	add("sphere", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.float("radius", 0, 0)
		if err != nil {
			return nil, err
		}
		seg, err := pa.float("segments", -1, 0)
		if err != nil {
			return nil, err
		}
		return b.primitive(graph.PrimitiveData{Shape: graph.ShapeSphere, Radius: r, Segments: int(seg)}), nil
	})

	// (cylinder :height 20 :radius 3 :segments 32) or (cylinder 20 3)
	add("cylinder", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := pa.float("height", 0, 0)
		if err != nil {
			return nil, err
		}
		r, err := pa.float("radius", 1, 0)
		if err != nil {
			return nil, err
		}
		seg, err := pa.float("segments", -1, 0)
		if err != nil {
			return nil, err
		}
		return b.primitive(graph.PrimitiveData{
			Shape: graph.ShapeCylinder, Height: h, Radius: r, Segments: int(seg),
		}), nil
	})

	// (union a b ...), (difference a b ...), (intersection a b ...)
	for _, op := range []graph.BooleanOp{graph.OpUnion, graph.OpDifference, graph.OpIntersection} {
		add(op.String(), func(args []zygo.Sexp) (zygo.Sexp, error) {
			ids, err := solidArgs(args)
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, fmt.Errorf("expected at least one solid")
			}
			if len(ids) == 1 {
				return &sexpNodeRef{id: ids[0]}, nil
			}
			return b.add(graph.NewNode(graph.NodeBoolean, "", graph.BooleanData{Op: op}, ids...)), nil
		})
	}

	// (hull a b ...)
	add("hull", func(args []zygo.Sexp) (zygo.Sexp, error) {
		ids, err := solidArgs(args)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("expected at least one solid")
		}
		return b.add(graph.NewNode(graph.NodeHull, "", graph.HullData{}, ids...)), nil
	})

	// (translate solid 1 2 3) or (translate solid (vec3 1 2 3))
	add("translate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return transformArgs(b, args, func(v graph.Vec3) graph.TransformData {
			return graph.TransformData{Translation: &v}
		})
	})

	// (rotate solid 0 0 90): Euler angles in degrees
	add("rotate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return transformArgs(b, args, func(v graph.Vec3) graph.TransformData {
			return graph.TransformData{Rotation: &v}
		})
	})

	// (scale solid 2) or (scale solid 1 2 3)
	add("scale", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return transformArgs(b, args, func(v graph.Vec3) graph.TransformData {
			return graph.TransformData{Scale: &v}
		})
	})

	// (place solid :at (vec3 ...) :rotate (vec3 ...) :scale (vec3 ...))
	add("place", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return nil, fmt.Errorf("expected one solid, got %d", len(pa.positional))
		}
		child, err := toNodeRef(pa.positional[0])
		if err != nil {
			return nil, err
		}
		var td graph.TransformData
		for key, dst := range map[string]**graph.Vec3{
			"at":     &td.Translation,
			"rotate": &td.Rotation,
			"scale":  &td.Scale,
		} {
			v, ok := pa.kw[key]
			if !ok {
				continue
			}
			vec, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			*dst = &vec
		}
		return b.transform(td, child), nil
	})

	// (defpart "name" solid)
	add("defpart", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires a name and a body expression")
		}
		name, err := toString(args[0])
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		if name == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
		body, err := toNodeRef(args[1])
		if err != nil {
			return nil, err
		}
		if _, err := b.definePart(name, body); err != nil {
			return nil, err
		}
		return &sexpNodeRef{id: body, name: name}, nil
	})

	// (part "name") returns the body of a defined part.
	add("part", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires exactly one name argument")
		}
		name, err := toString(args[0])
		if err != nil {
			return nil, err
		}
		body, ok := b.parts[name]
		if !ok {
			return nil, fmt.Errorf("no part named %q", name)
		}
		return &sexpNodeRef{id: body, name: name}, nil
	})
}

// transformArgs handles (op solid vec) and (op solid x y z).
func transformArgs(b *builder, args []zygo.Sexp, mk func(graph.Vec3) graph.TransformData) (zygo.Sexp, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("expected a solid and a vector")
	}
	child, err := toNodeRef(args[0])
	if err != nil {
		return nil, err
	}
	v, err := vecArgs(args[1:])
	if err != nil {
		return nil, err
	}
	return b.transform(mk(v), child), nil
}
