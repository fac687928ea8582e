package model

// Listener receives change notifications from a Tree. All notifications are
// delivered synchronously on the mutating goroutine, after the mutation has
// been applied, so listeners always observe the post-change structure.
//
// A nil parent identifies the tree root.
type Listener interface {
	// RowsInserted reports that children [first, last] were inserted under
	// parent.
	RowsInserted(parent *Node, first, last int)

	// RowsRemoved reports that children [first, last] were removed from
	// parent. The removed nodes are already detached when this fires.
	RowsRemoved(parent *Node, first, last int)

	// DataChanged reports that field values changed on the children
	// [firstRow, lastRow] of parent, in fields [firstField, lastField].
	DataChanged(parent *Node, firstRow, lastRow, firstField, lastField int)

	// TreeReset reports that the whole tree was replaced. Any previously
	// held node references are invalid after this fires.
	TreeReset()
}

// Tree owns a hierarchy of nodes and notifies listeners about mutations.
// The root is an internal sentinel: externally it is addressed as a nil
// *Node, matching the "no element" handle of consumers.
//
// Tree is not safe for concurrent use; it is designed for a single-threaded,
// event-driven owner.
type Tree struct {
	root       *Node
	fieldCount int
	listeners  []Listener
	muted      bool
}

// NewTree creates an empty tree whose nodes carry fieldCount fields
// (minimum 1, the name field).
func NewTree(fieldCount int) *Tree {
	if fieldCount < 1 {
		fieldCount = 1
	}
	return &Tree{
		root:       &Node{sentinel: true},
		fieldCount: fieldCount,
	}
}

// FieldCount returns the number of fields each node carries.
func (t *Tree) FieldCount() int {
	return t.fieldCount
}

// Subscribe registers a listener for change notifications.
func (t *Tree) Subscribe(l Listener) {
	if l == nil {
		return
	}
	t.listeners = append(t.listeners, l)
}

// Unsubscribe removes a previously registered listener.
func (t *Tree) Unsubscribe(l Listener) {
	for i, reg := range t.listeners {
		if reg == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// resolve maps the external nil-root handle to the internal sentinel.
func (t *Tree) resolve(n *Node) *Node {
	if n == nil {
		return t.root
	}
	return n
}

// ChildCount returns the number of children of the given node (nil = root).
func (t *Tree) ChildCount(n *Node) int {
	return t.resolve(n).ChildCount()
}

// ChildAt returns the child of n (nil = root) at the given row, or nil if
// the row is out of range.
func (t *Tree) ChildAt(n *Node, row int) *Node {
	return t.resolve(n).Child(row)
}

// ParentOf returns the parent of n, or nil for top-level nodes, the root
// handle itself, and detached nodes.
func (t *Tree) ParentOf(n *Node) *Node {
	if n == nil || n.parent == nil || n.parent == t.root {
		return nil
	}
	return n.parent
}

// Value returns the value of n at the given field, or "" for the root
// handle and out-of-range fields.
func (t *Tree) Value(n *Node, field int) string {
	if n == nil {
		return ""
	}
	return n.Value(field)
}

// Roots returns the top-level nodes in display order.
func (t *Tree) Roots() []*Node {
	return t.root.children
}

// InsertChildren creates new nodes with the given names and inserts them
// under parent (nil = root) starting at row. Row is clamped to the valid
// range. Returns the created nodes.
func (t *Tree) InsertChildren(parent *Node, row int, names ...string) []*Node {
	if len(names) == 0 {
		return nil
	}
	p := t.resolve(parent)
	if row < 0 {
		row = 0
	}
	if row > len(p.children) {
		row = len(p.children)
	}

	created := make([]*Node, len(names))
	for i, name := range names {
		created[i] = &Node{name: name, parent: p}
	}
	p.children = append(p.children[:row], append(created, p.children[row:]...)...)

	t.notifyRowsInserted(parent, row, row+len(names)-1)
	return created
}

// AppendChildren creates new nodes with the given names at the end of
// parent's child list (nil = root). Returns the created nodes.
func (t *Tree) AppendChildren(parent *Node, names ...string) []*Node {
	return t.InsertChildren(parent, t.resolve(parent).ChildCount(), names...)
}

// InsertPath walks the given name path from the root, reusing existing
// children by name and creating (with notification) only the missing tail.
// Returns the node for the final path segment.
func (t *Tree) InsertPath(parts ...string) *Node {
	var current *Node // nil = root handle
	for _, part := range parts {
		p := t.resolve(current)
		var existing *Node
		for _, c := range p.children {
			if c.name == part {
				existing = c
				break
			}
		}
		if existing != nil {
			current = existing
			continue
		}
		created := t.AppendChildren(current, part)
		current = created[0]
	}
	return current
}

// RemoveChildren removes the children [first, last] of parent (nil = root).
// The range is clamped; an empty resulting range is a no-op. Removed nodes
// are detached and must not be used as handles afterwards.
func (t *Tree) RemoveChildren(parent *Node, first, last int) {
	p := t.resolve(parent)
	if first < 0 {
		first = 0
	}
	if last >= len(p.children) {
		last = len(p.children) - 1
	}
	if first > last {
		return
	}

	for _, c := range p.children[first : last+1] {
		c.parent = nil
	}
	p.children = append(p.children[:first], p.children[last+1:]...)

	t.notifyRowsRemoved(parent, first, last)
}

// SetValue sets the value of n at the given field and notifies listeners.
// Field 0 renames the node. Out-of-range fields and detached nodes are
// ignored.
func (t *Tree) SetValue(n *Node, field int, value string) {
	if n == nil || field < 0 || field >= t.fieldCount {
		return
	}
	row := n.Row()
	if row < 0 {
		return
	}

	if field == 0 {
		n.name = value
	} else {
		for len(n.values) < field {
			n.values = append(n.values, "")
		}
		n.values[field-1] = value
	}
	t.notifyDataChanged(t.ParentOf(n), row, row, field, field)
}

// Reset replaces the whole tree: existing nodes are discarded, build is run
// against the empty tree with notifications muted, and a single TreeReset
// notification fires at the end. Build may be nil to just clear the tree.
func (t *Tree) Reset(build func(t *Tree)) {
	for _, c := range t.root.children {
		c.parent = nil
	}
	t.root = &Node{sentinel: true}

	if build != nil {
		t.muted = true
		build(t)
		t.muted = false
	}
	t.notifyReset()
}

// FindByName scans the whole tree with a non-recursive stack walk and
// returns every node whose name is in the given set, in depth-first order.
func (t *Tree) FindByName(names ...string) []*Node {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var found []*Node
	stack := make([]*Node, 0, len(t.root.children))
	for i := len(t.root.children) - 1; i >= 0; i-- {
		stack = append(stack, t.root.children[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if want[n.name] {
			found = append(found, n)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return found
}

func (t *Tree) notifyRowsInserted(parent *Node, first, last int) {
	if t.muted {
		return
	}
	for _, l := range t.listeners {
		l.RowsInserted(parent, first, last)
	}
}

func (t *Tree) notifyRowsRemoved(parent *Node, first, last int) {
	if t.muted {
		return
	}
	for _, l := range t.listeners {
		l.RowsRemoved(parent, first, last)
	}
}

func (t *Tree) notifyDataChanged(parent *Node, firstRow, lastRow, firstField, lastField int) {
	if t.muted {
		return
	}
	for _, l := range t.listeners {
		l.DataChanged(parent, firstRow, lastRow, firstField, lastField)
	}
}

func (t *Tree) notifyReset() {
	for _, l := range t.listeners {
		l.TreeReset()
	}
}
