package projection

import (
	"sort"
	"strings"
)

// Rebuild discards the derived tree and reconstructs it from the source.
// The reconstruction is atomic from the consumer's perspective: the new
// arena is built aside and swapped in between BeginReset and EndReset, so
// no partially built state is ever observable. Rebuild is idempotent:
// with unchanged source and configuration it produces an identical tree.
func (e *Engine[E]) Rebuild() {
	next := newArena[E]()
	if e.flat {
		e.collectFlat(next)
	} else {
		var root E
		e.buildLevel(next, Root, root)
	}

	e.beginReset()
	e.arena = next
	e.endReset()
}

// buildLevel builds proxy nodes for the accepted part of src's subtree
// under proxyParent and reports whether the subtree contained any accepted
// element. Acceptance of a whole subtree falls out of the recursion itself,
// so the pass is O(N) over the source tree; rejected branches are visited
// once, not re-scanned per ancestor.
func (e *Engine[E]) buildLevel(a *arena[E], proxyParent NodeID, src E) bool {
	contains := false
	count := e.source.ChildCount(src)
	for row := 0; row < count; row++ {
		child := e.source.ChildAt(src, row)
		if e.accepts(child) {
			id := a.add(proxyParent, child)
			e.buildLevel(a, id, child)
			contains = true
			continue
		}
		if e.keepAncestors {
			// Speculative placeholder: keep it only if the subtree
			// turns out to contain an accepted element.
			id := a.add(proxyParent, child)
			if e.buildLevel(a, id, child) {
				contains = true
			} else {
				a.dropLast(id)
			}
		} else {
			// Promote mode: the rejected level is elided and accepted
			// descendants attach to proxyParent directly.
			if e.buildLevel(a, proxyParent, child) {
				contains = true
			}
		}
	}
	return contains
}

// SetFlat toggles between the flattened projection and the hierarchical
// one. The filter configuration is retained across toggles. Triggers a
// full rebuild.
func (e *Engine[E]) SetFlat(flat bool) {
	e.flat = flat
	e.Rebuild()
}

// Flat returns whether the flattened projection is active.
func (e *Engine[E]) Flat() bool {
	return e.flat
}

// SetSortField selects the field whose string value orders the flattened
// projection. Triggers a full rebuild.
func (e *Engine[E]) SetSortField(field int) {
	e.sortField = field
	e.Rebuild()
}

// SetSortDescending selects the sort direction for the flattened
// projection. Descending is the exact reverse comparison, so with no ties
// it yields the exact reverse of the ascending sequence. Triggers a full
// rebuild.
func (e *Engine[E]) SetSortDescending(desc bool) {
	e.sortDesc = desc
	e.Rebuild()
}

// SortField returns the configured sort field.
func (e *Engine[E]) SortField() int {
	return e.sortField
}

// SortDescending returns the configured sort direction.
func (e *Engine[E]) SortDescending() bool {
	return e.sortDesc
}

// collectFlat builds the flattened projection: a pre-order collection of
// every source element (not just leaves), stably sorted by the string value
// at the sort field and attached as direct children of the root.
func (e *Engine[E]) collectFlat(a *arena[E]) {
	var all []E
	var root E
	var walk func(el E)
	walk = func(el E) {
		count := e.source.ChildCount(el)
		for row := 0; row < count; row++ {
			child := e.source.ChildAt(el, row)
			all = append(all, child)
			walk(child)
		}
	}
	walk(root)

	keys := make([]string, len(all))
	for i, el := range all {
		keys[i] = e.source.Value(el, e.sortField)
	}
	order := make([]int, len(all))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		c := strings.Compare(keys[order[i]], keys[order[j]])
		if e.sortDesc {
			return c > 0
		}
		return c < 0
	})

	for _, i := range order {
		a.add(Root, all[i])
	}
}
