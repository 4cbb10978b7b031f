package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // box, sphere, cylinder
	NodeTransform                 // translate, rotate, scale one child
	NodeBoolean                   // union, difference, intersection of children
	NodeHull                      // convex hull of children
	NodePart                      // named root wrapping one child
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodeHull:
		return "hull"
	case NodePart:
		return "part"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// NewNode builds a node and derives its content-addressed ID.
func NewNode(kind NodeKind, name string, data NodeData, children ...NodeID) *Node {
	return &Node{
		ID:       HashNode(kind, name, data, children),
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	}
}
