// Package traverse provides a restartable, lazily evaluated tree walker
// usable over any hierarchy that can enumerate children, including the
// source and derived trees of this repository.
//
// The walker does not detect cycles: feeding it a corrupted, cyclic
// structure is a precondition violation and results in non-termination.
package traverse

// Order selects the visit order of a Walker.
type Order int

const (
	// DepthFirst visits a node's subtree before its next sibling.
	DepthFirst Order = iota

	// BreadthFirst visits all nodes of one depth before the next.
	BreadthFirst
)

type entry[T any] struct {
	node  T
	depth int
}

// Walker lazily enumerates the nodes of a tree. Configure it before the
// first Next (or call Reset after reconfiguring); then repeatedly call
// Next until it reports false.
//
// A Walker is single-use state over a fixed root set; Reset returns it to
// its initial position over the same roots.
type Walker[T any] struct {
	roots    []T
	children func(T) []T

	order    Order
	reverse  bool
	maxDepth int
	include  func(T) bool

	started   bool
	stack     []entry[T]
	queue     []entry[T]
	head      int
	lastAdded int
	lastDepth int
}

// New creates a walker over the given roots. The children function
// enumerates a node's children in display order.
func New[T any](children func(T) []T, roots ...T) *Walker[T] {
	return &Walker[T]{
		roots:    roots,
		children: children,
		maxDepth: -1,
	}
}

// SetOrder selects depth-first (default) or breadth-first order.
func (w *Walker[T]) SetOrder(order Order) { w.order = order }

// SetReverse iterates children in reverse insertion order.
func (w *Walker[T]) SetReverse(reverse bool) { w.reverse = reverse }

// SetMaxDepth limits expansion: nodes at the cutoff depth are still
// yielded but not descended into. Roots are depth 0; negative means
// unlimited.
func (w *Walker[T]) SetMaxDepth(depth int) { w.maxDepth = depth }

// SetInclude installs an inclusion predicate. Nodes failing it are skipped
// in the output but their children are still visited.
func (w *Walker[T]) SetInclude(include func(T) bool) { w.include = include }

// Reset returns the walker to its initial state over the same roots.
func (w *Walker[T]) Reset() {
	w.started = false
	w.stack = nil
	w.queue = nil
	w.head = 0
	w.lastAdded = 0
	w.lastDepth = 0
}

// Depth returns the depth of the last yielded node.
func (w *Walker[T]) Depth() int { return w.lastDepth }

// Next yields the next node, or false when the walk is exhausted.
func (w *Walker[T]) Next() (T, bool) {
	if !w.started {
		w.start()
	}
	if w.order == BreadthFirst {
		return w.nextBreadth()
	}
	return w.nextDepth()
}

// Prune drops the subtree of the node most recently yielded by Next: its
// already-enqueued children are removed from the pending work set. Calling
// it at any other time is a no-op.
func (w *Walker[T]) Prune() {
	if w.lastAdded == 0 {
		return
	}
	if w.order == BreadthFirst {
		w.queue = w.queue[:len(w.queue)-w.lastAdded]
	} else {
		w.stack = w.stack[:len(w.stack)-w.lastAdded]
	}
	w.lastAdded = 0
}

func (w *Walker[T]) start() {
	w.started = true
	if w.order == BreadthFirst {
		w.queue = w.queue[:0]
		w.head = 0
		if w.reverse {
			for i := len(w.roots) - 1; i >= 0; i-- {
				w.queue = append(w.queue, entry[T]{w.roots[i], 0})
			}
		} else {
			for _, r := range w.roots {
				w.queue = append(w.queue, entry[T]{r, 0})
			}
		}
		return
	}
	w.stack = w.stack[:0]
	if w.reverse {
		for _, r := range w.roots {
			w.stack = append(w.stack, entry[T]{r, 0})
		}
	} else {
		for i := len(w.roots) - 1; i >= 0; i-- {
			w.stack = append(w.stack, entry[T]{w.roots[i], 0})
		}
	}
}

func (w *Walker[T]) nextDepth() (T, bool) {
	for len(w.stack) > 0 {
		e := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		added := 0
		if w.maxDepth < 0 || e.depth < w.maxDepth {
			cs := w.children(e.node)
			if w.reverse {
				for _, c := range cs {
					w.stack = append(w.stack, entry[T]{c, e.depth + 1})
				}
			} else {
				for i := len(cs) - 1; i >= 0; i-- {
					w.stack = append(w.stack, entry[T]{cs[i], e.depth + 1})
				}
			}
			added = len(cs)
		}

		if w.include != nil && !w.include(e.node) {
			continue
		}
		w.lastAdded = added
		w.lastDepth = e.depth
		return e.node, true
	}
	var zero T
	return zero, false
}

func (w *Walker[T]) nextBreadth() (T, bool) {
	for w.head < len(w.queue) {
		e := w.queue[w.head]
		w.head++

		added := 0
		if w.maxDepth < 0 || e.depth < w.maxDepth {
			cs := w.children(e.node)
			if w.reverse {
				for i := len(cs) - 1; i >= 0; i-- {
					w.queue = append(w.queue, entry[T]{cs[i], e.depth + 1})
				}
			} else {
				for _, c := range cs {
					w.queue = append(w.queue, entry[T]{c, e.depth + 1})
				}
			}
			added = len(cs)
		}

		if w.include != nil && !w.include(e.node) {
			continue
		}
		w.lastAdded = added
		w.lastDepth = e.depth
		return e.node, true
	}
	var zero T
	return zero, false
}

// Collect runs the walk to completion from its current position and
// returns the yielded nodes.
func (w *Walker[T]) Collect() []T {
	var out []T
	for {
		n, ok := w.Next()
		if !ok {
			return out
		}
		out = append(out, n)
	}
}
