package graph

import (
	"fmt"
	"math"
	"sort"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs the structural and parameter checks on the design graph.
// Findings are sorted errors first. The graph is never mutated.
func Validate(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateArity(g)...)
	errs = append(errs, validateParameters(g)...)
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Severity < errs[j].Severity
	})
	return errs
}

// HasErrors reports whether any finding blocks evaluation.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateDAG checks for cycles using DFS with 3-color marking.
func validateDAG(g *DesignGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for id := range g.Nodes {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every child ID points to an existing node.
func validateReferences(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that every NameIndex entry resolves and that no two
// nodes share a name.
func validateNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range g.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that every root exists and warns about nodes that no
// root reaches.
func validateRoots(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}
	if len(g.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		node := g.Nodes[queue[0]]
		queue = queue[1:]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id := range g.Nodes {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "node is not reachable from any root",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateArity checks child counts and payload types per node kind.
func validateArity(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	report := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range g.Nodes {
		switch n.Kind {
		case NodePrimitive:
			if _, ok := n.Data.(PrimitiveData); !ok {
				report(n, "primitive node carries %T", n.Data)
			}
			if len(n.Children) != 0 {
				report(n, "primitive has %d children, want 0", len(n.Children))
			}
		case NodeTransform:
			if _, ok := n.Data.(TransformData); !ok {
				report(n, "transform node carries %T", n.Data)
			}
			if len(n.Children) != 1 {
				report(n, "transform has %d children, want 1", len(n.Children))
			}
		case NodeBoolean:
			d, ok := n.Data.(BooleanData)
			if !ok {
				report(n, "boolean node carries %T", n.Data)
				continue
			}
			if len(n.Children) < 1 {
				report(n, "%s has no operands", d.Op)
			}
		case NodeHull:
			if _, ok := n.Data.(HullData); !ok {
				report(n, "hull node carries %T", n.Data)
			}
			if len(n.Children) < 1 {
				report(n, "hull has no operands")
			}
		case NodePart:
			if _, ok := n.Data.(PartData); !ok {
				report(n, "part node carries %T", n.Data)
			}
			if len(n.Children) != 1 {
				report(n, "part has %d children, want 1", len(n.Children))
			}
			if n.Name == "" {
				report(n, "part has no name")
			}
		default:
			report(n, "unknown node kind %d", int(n.Kind))
		}
	}
	return errs
}

// validateParameters checks primitive and transform payload values.
func validateParameters(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	report := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

	for _, n := range g.Nodes {
		switch d := n.Data.(type) {
		case PrimitiveData:
			switch d.Shape {
			case ShapeBox:
				if !positive(d.Size.X) || !positive(d.Size.Y) || !positive(d.Size.Z) {
					report(n, "box size %s must be positive", d.Size)
				}
			case ShapeSphere:
				if !positive(d.Radius) {
					report(n, "sphere radius %g must be positive", d.Radius)
				}
			case ShapeCylinder:
				if !positive(d.Radius) || !positive(d.Height) {
					report(n, "cylinder radius %g and height %g must be positive", d.Radius, d.Height)
				}
			default:
				report(n, "unknown shape %d", int(d.Shape))
			}
			if d.Segments != 0 && d.Segments < 3 {
				report(n, "segments %d must be at least 3", d.Segments)
			}
		case TransformData:
			if d.Translation == nil && d.Rotation == nil && d.Scale == nil {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  "transform has no effect",
					Severity: SeverityWarning,
				})
			}
			if d.Scale != nil && (d.Scale.X == 0 || d.Scale.Y == 0 || d.Scale.Z == 0) {
				report(n, "scale %s collapses the solid", *d.Scale)
			}
		}
	}
	return errs
}
