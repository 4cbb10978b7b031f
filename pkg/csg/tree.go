package csg

// nodeID addresses a node in a Tree's arena.
type nodeID int32

const nilNode nodeID = -1

// node is one BSP node. Once hasPlane is set the plane never changes.
type node struct {
	plane    Plane
	hasPlane bool
	polygons []*Polygon // coplanar with plane, kept at this node
	pending  []*Polygon // queued by Build, empty between calls
	front    nodeID
	back     nodeID
}

// Tree is a BSP tree over a polygon set. Nodes live in a single arena and
// refer to their children by index; the root is node 0. Every operation is
// iterative, so arbitrarily deep trees are safe. A Tree is owned by one
// goroutine at a time.
type Tree struct {
	cfg   Config
	nodes []node
}

// NewTree builds a tree over polys.
func NewTree(polys []*Polygon, cfg Config) *Tree {
	t := &Tree{cfg: cfg.normalized()}
	t.addNode()
	t.Build(polys)
	return t
}

// addNode appends an empty node. It may reallocate the arena, so callers
// must not hold *node pointers across it.
func (t *Tree) addNode() nodeID {
	t.nodes = append(t.nodes, node{front: nilNode, back: nilNode})
	return nodeID(len(t.nodes) - 1)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Build inserts polys into the tree. A node without a plane takes the plane
// of its first queued polygon; every queued polygon is then split against
// it, coplanar pieces staying at the node and the rest queued on the
// matching child.
func (t *Tree) Build(polys []*Polygon) {
	if len(polys) == 0 {
		return
	}
	root := &t.nodes[0]
	root.pending = append(root.pending, polys...)

	stack := []nodeID{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		if len(n.pending) == 0 {
			continue
		}
		if !n.hasPlane {
			n.plane = n.pending[0].plane
			n.hasPlane = true
		}
		queue := n.pending
		n.pending = nil
		b := splitPolygons(t.cfg, n.plane, queue)
		n.polygons = append(n.polygons, b.coplanarFront...)
		n.polygons = append(n.polygons, b.coplanarBack...)

		if len(b.front) > 0 {
			child := t.nodes[id].front
			if child == nilNode {
				child = t.addNode()
				t.nodes[id].front = child
			}
			t.nodes[child].pending = append(t.nodes[child].pending, b.front...)
			stack = append(stack, child)
		}
		if len(b.back) > 0 {
			child := t.nodes[id].back
			if child == nilNode {
				child = t.addNode()
				t.nodes[id].back = child
			}
			t.nodes[child].pending = append(t.nodes[child].pending, b.back...)
			stack = append(stack, child)
		}
	}
}

// ClipPolygons removes the parts of polys that lie inside the solid this
// tree represents. Coplanar pieces travel with the side they face; pieces
// reaching a node with no back child are inside and dropped. An empty tree
// returns polys unchanged.
func (t *Tree) ClipPolygons(polys []*Polygon) []*Polygon {
	if len(polys) == 0 {
		return nil
	}
	if !t.nodes[0].hasPlane {
		return append([]*Polygon(nil), polys...)
	}

	type job struct {
		id    nodeID
		polys []*Polygon
	}
	var out []*Polygon
	stack := []job{{0, polys}}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[j.id]
		b := splitPolygons(t.cfg, n.plane, j.polys)
		front := append(b.coplanarFront, b.front...)
		back := append(b.coplanarBack, b.back...)

		if n.front != nilNode && len(front) > 0 {
			stack = append(stack, job{n.front, front})
		} else {
			out = append(out, front...)
		}
		if n.back != nilNode && len(back) > 0 {
			stack = append(stack, job{n.back, back})
		}
	}
	return out
}

// ClipTo clips the polygons held at every node of t against other.
func (t *Tree) ClipTo(other *Tree) {
	for i := range t.nodes {
		if len(t.nodes[i].polygons) == 0 {
			continue
		}
		t.nodes[i].polygons = other.ClipPolygons(t.nodes[i].polygons)
	}
}

// Invert turns the tree inside out: solid becomes empty space and back.
// Polygons and planes are flipped and every node's children swapped.
func (t *Tree) Invert() {
	for i := range t.nodes {
		n := &t.nodes[i]
		for j, p := range n.polygons {
			n.polygons[j] = p.Flip()
		}
		for j, p := range n.pending {
			n.pending[j] = p.Flip()
		}
		if n.hasPlane {
			n.plane = n.plane.Flip()
		}
		n.front, n.back = n.back, n.front
	}
}

// AllPolygons returns every polygon in the tree in pre-order: a node's own
// polygons, then its front subtree, then its back subtree.
func (t *Tree) AllPolygons() []*Polygon {
	var out []*Polygon
	stack := []nodeID{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		out = append(out, n.polygons...)
		out = append(out, n.pending...)
		if n.back != nilNode {
			stack = append(stack, n.back)
		}
		if n.front != nilNode {
			stack = append(stack, n.front)
		}
	}
	return out
}

// Clone returns an independent copy of the tree. Polygons are immutable and
// shared; the node lists are not.
func (t *Tree) Clone() *Tree {
	c := &Tree{cfg: t.cfg, nodes: make([]node, len(t.nodes))}
	for i, n := range t.nodes {
		n.polygons = append([]*Polygon(nil), n.polygons...)
		n.pending = append([]*Polygon(nil), n.pending...)
		c.nodes[i] = n
	}
	return c
}
