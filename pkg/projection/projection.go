// Package projection maintains derived views over a caller-owned source
// tree: a filtered hierarchical projection and a flattened, sorted
// projection. The source is read-only from the package's perspective; the
// engine owns a parallel proxy tree and keeps it consistent with the source
// through change notifications.
//
// Proxy nodes live in an arena addressed by stable integer NodeIDs, each
// storing its parent ID and an ordered child ID list, plus a side table
// mapping source handles to NodeIDs. The arena is discarded and rebuilt
// atomically on filter changes and resets, and patched in place for local
// structural source changes.
package projection

// NodeID addresses a proxy node in the engine's arena. IDs are stable until
// the next rebuild; after a rebuild only Root remains meaningful.
type NodeID int

const (
	// Invalid is the canonical "no node" result. Queries on Invalid are
	// total and return empty results rather than failing.
	Invalid NodeID = -1

	// Root is the proxy root. It has no source element and is never
	// removed.
	Root NodeID = 0
)

// Source is the read-only boundary to the caller's tree. The zero value of
// E is the sentinel "no element" handle identifying the root. Handles must
// stay valid until the source announces their removal or a reset.
type Source[E comparable] interface {
	// ChildCount returns the number of children of parent (zero = root).
	ChildCount(parent E) int

	// ChildAt returns the child of parent at the given row, or the zero
	// handle if the row is out of range.
	ChildAt(parent E, row int) E

	// ParentOf returns the parent of el, or the zero handle for top-level
	// elements.
	ParentOf(el E) E

	// Value returns the display value of el at the given field.
	Value(el E, field int) string

	// FieldCount returns the number of fields elements carry.
	FieldCount() int
}

// Notifier receives structural notifications about the derived tree. Begin
// calls fire before the corresponding internal mutation and End calls after
// it, so queries issued from a Begin callback observe the old structure and
// queries after End observe the new one. Reported row counts therefore
// always agree with the actual structure at every callback boundary.
type Notifier interface {
	BeginReset()
	EndReset()
	BeginInsertRows(parent NodeID, first, last int)
	EndInsertRows()
	BeginRemoveRows(parent NodeID, first, last int)
	EndRemoveRows()
	DataChanged(node NodeID, field int)
}

// BaseNotifier is a no-op Notifier for embedding in consumers that only
// care about a subset of notifications.
type BaseNotifier struct{}

func (BaseNotifier) BeginReset()                                    {}
func (BaseNotifier) EndReset()                                      {}
func (BaseNotifier) BeginInsertRows(parent NodeID, first, last int) {}
func (BaseNotifier) EndInsertRows()                                 {}
func (BaseNotifier) BeginRemoveRows(parent NodeID, first, last int) {}
func (BaseNotifier) EndRemoveRows()                                 {}
func (BaseNotifier) DataChanged(node NodeID, field int)             {}

// proxyNode is one arena entry. A node's position in its parent's child
// list is its row; parent/child links are kept mutually consistent by
// construction. Removed entries are detached (parent set to Invalid) and
// left in place until the next rebuild compacts the arena.
type proxyNode[E comparable] struct {
	source   E
	parent   NodeID
	children []NodeID
}

// arena holds the proxy tree plus the source-to-proxy side table. Index 0
// is always the root.
type arena[E comparable] struct {
	nodes      []proxyNode[E]
	fromSource map[E]NodeID
}

func newArena[E comparable]() *arena[E] {
	return &arena[E]{
		nodes:      []proxyNode[E]{{parent: Invalid}},
		fromSource: make(map[E]NodeID),
	}
}

// add appends a node for src as the last child of parent and returns its ID.
func (a *arena[E]) add(parent NodeID, src E) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, proxyNode[E]{source: src, parent: parent})
	a.nodes[parent].children = append(a.nodes[parent].children, id)
	a.fromSource[src] = id
	return id
}

// dropLast removes the most recently added node. It may only be called
// while the node is still the last arena entry and the last child of its
// parent, i.e. during speculative construction.
func (a *arena[E]) dropLast(id NodeID) {
	n := a.nodes[id]
	delete(a.fromSource, n.source)
	siblings := a.nodes[n.parent].children
	a.nodes[n.parent].children = siblings[:len(siblings)-1]
	a.nodes = a.nodes[:id]
}

// valid reports whether id addresses a live arena node.
func (a *arena[E]) valid(id NodeID) bool {
	if id < 0 || int(id) >= len(a.nodes) {
		return false
	}
	return id == Root || a.nodes[id].parent != Invalid
}

// Engine projects a source tree into a filtered (or flattened) derived
// tree. It is single-threaded: all rebuilds and patches run synchronously
// on the caller's goroutine before the triggering call returns.
//
// The engine implements the listener shape of pkg/model's Tree, so for a
// *model.Node source it can be subscribed directly to the tree.
type Engine[E comparable] struct {
	source Source[E]
	*arena[E]

	filter        filterState
	keepAncestors bool

	flat      bool
	sortField int
	sortDesc  bool

	notifiers []Notifier
}

// New creates an engine over the given source and performs the initial
// build. The caller is responsible for routing source change notifications
// to the engine (for pkg/model, tree.Subscribe(engine)).
func New[E comparable](source Source[E]) *Engine[E] {
	e := &Engine[E]{
		source: source,
		arena:  newArena[E](),
	}
	e.Rebuild()
	return e
}

// AddNotifier registers a consumer for derived-tree notifications.
func (e *Engine[E]) AddNotifier(n Notifier) {
	if n == nil {
		return
	}
	e.notifiers = append(e.notifiers, n)
}

// RemoveNotifier removes a previously registered consumer.
func (e *Engine[E]) RemoveNotifier(n Notifier) {
	for i, reg := range e.notifiers {
		if reg == n {
			e.notifiers = append(e.notifiers[:i], e.notifiers[i+1:]...)
			return
		}
	}
}

// RowCount returns the number of children of the given proxy node.
func (e *Engine[E]) RowCount(id NodeID) int {
	if !e.valid(id) {
		return 0
	}
	return len(e.nodes[id].children)
}

// ChildAt returns the child of id at the given row, or Invalid.
func (e *Engine[E]) ChildAt(id NodeID, row int) NodeID {
	if !e.valid(id) || row < 0 || row >= len(e.nodes[id].children) {
		return Invalid
	}
	return e.nodes[id].children[row]
}

// ParentOf returns the parent of id, or Invalid for the root and for
// invalid IDs.
func (e *Engine[E]) ParentOf(id NodeID) NodeID {
	if !e.valid(id) || id == Root {
		return Invalid
	}
	return e.nodes[id].parent
}

// RowOf returns the node's index among its siblings, or -1 for the root
// and for invalid IDs.
func (e *Engine[E]) RowOf(id NodeID) int {
	parent := e.ParentOf(id)
	if parent == Invalid {
		return -1
	}
	for i, c := range e.nodes[parent].children {
		if c == id {
			return i
		}
	}
	return -1
}

// Value returns the source value of the node at the given field, or "" for
// invalid IDs and the root.
func (e *Engine[E]) Value(id NodeID, field int) string {
	if !e.valid(id) || id == Root {
		return ""
	}
	return e.source.Value(e.nodes[id].source, field)
}

// MapToSource returns the source element the proxy node represents. The
// root and invalid IDs map to the zero handle.
func (e *Engine[E]) MapToSource(id NodeID) E {
	var zero E
	if !e.valid(id) || id == Root {
		return zero
	}
	return e.nodes[id].source
}

// MapFromSource returns the proxy node representing the source element, or
// Invalid if the element is filtered out. The zero handle maps to Root.
func (e *Engine[E]) MapFromSource(el E) NodeID {
	var zero E
	if el == zero {
		return Root
	}
	id, ok := e.fromSource[el]
	if !ok {
		return Invalid
	}
	return id
}

// Len returns the total number of live proxy nodes, excluding the root.
func (e *Engine[E]) Len() int {
	return len(e.fromSource)
}

func (e *Engine[E]) beginReset() {
	for _, n := range e.notifiers {
		n.BeginReset()
	}
}

func (e *Engine[E]) endReset() {
	for _, n := range e.notifiers {
		n.EndReset()
	}
}

func (e *Engine[E]) beginInsertRows(parent NodeID, first, last int) {
	for _, n := range e.notifiers {
		n.BeginInsertRows(parent, first, last)
	}
}

func (e *Engine[E]) endInsertRows() {
	for _, n := range e.notifiers {
		n.EndInsertRows()
	}
}

func (e *Engine[E]) beginRemoveRows(parent NodeID, first, last int) {
	for _, n := range e.notifiers {
		n.BeginRemoveRows(parent, first, last)
	}
}

func (e *Engine[E]) endRemoveRows() {
	for _, n := range e.notifiers {
		n.EndRemoveRows()
	}
}

func (e *Engine[E]) notifyDataChanged(id NodeID, field int) {
	for _, n := range e.notifiers {
		n.DataChanged(id, field)
	}
}
