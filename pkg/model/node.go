// Package model provides the caller-owned source tree that projections
// observe. The tree is plain hierarchical data: named nodes with an ordered
// field-value list and ordered children. Projections hold non-owning
// references to nodes and learn about mutations through the Listener
// interface; they never mutate the tree themselves.
package model

// Node is one element of the source tree. Nodes are created through Tree
// mutators so that parent/child links and change notifications stay
// consistent; a Node obtained any other way is not part of a tree.
type Node struct {
	name     string
	values   []string // extra field values; field 0 is the name
	parent   *Node
	children []*Node
	sentinel bool // the tree's internal root
}

// Name returns the node's display name (field 0).
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	return n.name
}

// Value returns the node's value at the given field. Field 0 is the name;
// higher fields come from the extra value list. Out-of-range fields and nil
// nodes return "".
func (n *Node) Value(field int) string {
	if n == nil || field < 0 {
		return ""
	}
	if field == 0 {
		return n.name
	}
	if field-1 < len(n.values) {
		return n.values[field-1]
	}
	return ""
}

// Parent returns the node's parent, or nil for top-level and detached
// nodes.
func (n *Node) Parent() *Node {
	if n == nil || n.parent == nil || n.parent.sentinel {
		return nil
	}
	return n.parent
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Child returns the child at the given row, or nil if the row is out of
// range.
func (n *Node) Child(row int) *Node {
	if n == nil || row < 0 || row >= len(n.children) {
		return nil
	}
	return n.children[row]
}

// Children returns the node's children in display order. The returned slice
// is the node's own storage; callers must not mutate it.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return n.ChildCount() > 0
}

// Row returns the node's index among its siblings, or -1 if the node is
// detached.
func (n *Node) Row() int {
	if n == nil || n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}
