package projection

import (
	"strings"

	"github.com/goccy/go-json"
)

// SnapshotNode is one row of a Snapshot: the node's field values plus its
// children in row order.
type SnapshotNode struct {
	Values   []string        `json:"values"`
	Children []*SnapshotNode `json:"children,omitempty"`
}

// Snapshot is a detached, serializable copy of the derived tree. It is the
// canonical form for golden files and for comparing two projections
// structurally (the arena design makes this a plain recursive copy).
type Snapshot struct {
	Flat  bool            `json:"flat,omitempty"`
	Nodes []*SnapshotNode `json:"nodes"`
}

// Snapshot captures the current derived tree.
func (e *Engine[E]) Snapshot() *Snapshot {
	fields := e.source.FieldCount()

	var copyNode func(id NodeID) *SnapshotNode
	copyNode = func(id NodeID) *SnapshotNode {
		sn := &SnapshotNode{Values: make([]string, fields)}
		for f := 0; f < fields; f++ {
			sn.Values[f] = e.Value(id, f)
		}
		for _, cid := range e.nodes[id].children {
			sn.Children = append(sn.Children, copyNode(cid))
		}
		return sn
	}

	s := &Snapshot{Flat: e.flat}
	for _, cid := range e.nodes[Root].children {
		s.Nodes = append(s.Nodes, copyNode(cid))
	}
	return s
}

// MarshalIndent renders the snapshot as indented JSON.
func (s *Snapshot) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Equal reports whether two snapshots describe the same tree: same shape,
// same values, same row order.
func (s *Snapshot) Equal(other *Snapshot) bool {
	a, errA := json.Marshal(s)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

// String renders the snapshot as an indented name-per-line dump, one row
// per node, suitable for CLI output and test diffs.
func (s *Snapshot) String() string {
	var sb strings.Builder
	var render func(n *SnapshotNode, depth int)
	render = func(n *SnapshotNode, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		if len(n.Values) > 0 {
			sb.WriteString(n.Values[0])
		}
		for _, v := range n.Values[1:] {
			if v != "" {
				sb.WriteString("\t")
				sb.WriteString(v)
			}
		}
		sb.WriteString("\n")
		for _, c := range n.Children {
			render(c, depth+1)
		}
	}
	for _, n := range s.Nodes {
		render(n, 0)
	}
	return sb.String()
}
