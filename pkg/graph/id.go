package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// NodeID is a content-addressed node identifier: the hex SHA-256 of the
// node's kind, payload and children. Identical subexpressions get the same
// ID and are stored, and evaluated, once.
type NodeID string

// ZeroID is the empty identifier.
const ZeroID NodeID = ""

// NewNodeID hashes an arbitrary path into a NodeID.
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:]))
}

// HashNode derives the ID of a node from its content.
func HashNode(kind NodeKind, name string, data NodeData, children []NodeID) NodeID {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte(fmt.Sprint(data))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%T|%s", kind, name, data, payload)
	for _, c := range children {
		b.WriteByte('|')
		b.WriteString(string(c))
	}
	return NewNodeID(b.String())
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

// Short returns the first eight characters of the ID for display.
func (id NodeID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}
