package projection

// Incremental update path. These methods match the listener shape of
// pkg/model's Tree, so an engine over *model.Node handles can be subscribed
// to the tree directly. They patch the proxy tree in place for local
// structural changes and fall back to a full Rebuild whenever a local patch
// cannot be computed (flattened mode, unmapped parents, promote-mode
// splices through the affected range). The fallback keeps the incremental
// path equivalent to rebuilding from scratch.

// RowsInserted handles a source rows-inserted notification for children
// [first, last] of parent.
func (e *Engine[E]) RowsInserted(parent E, first, last int) {
	if e.flat {
		e.Rebuild()
		return
	}

	pid := e.MapFromSource(parent)
	if pid == Invalid || (!e.keepAncestors && e.filter.active() && e.mixedChildren(pid, parent)) {
		// The proxy parent is filtered out or holds spliced descendants;
		// a local patch cannot place the new rows. Rebuild only if the
		// inserted range is visible at all.
		for row := first; row <= last; row++ {
			if e.acceptedRecursively(e.source.ChildAt(parent, row)) {
				e.Rebuild()
				return
			}
		}
		return
	}

	for row := first; row <= last; row++ {
		el := e.source.ChildAt(parent, row)
		if !e.acceptedRecursively(el) {
			continue
		}
		if !e.accepts(el) && !e.keepAncestors {
			// Promote mode splices el's accepted descendants upward;
			// the result is non-local, so rebuild.
			e.Rebuild()
			return
		}
		prow := e.proxyRowFor(pid, parent, row)
		e.beginInsertRows(pid, prow, prow)
		id := e.insertAt(pid, prow, el)
		e.buildLevel(e.arena, id, el)
		e.endInsertRows()
	}
}

// RowsRemoved handles a source rows-removed notification. The source has
// already detached the removed elements, so the patch works by membership:
// proxy children of the mapped parent whose source element is no longer a
// child of the source parent are pruned, in descending row order so that
// the rows of not-yet-removed siblings stay valid throughout.
func (e *Engine[E]) RowsRemoved(parent E, first, last int) {
	if e.flat {
		e.Rebuild()
		return
	}

	pid := e.MapFromSource(parent)
	if pid == Invalid {
		if !e.keepAncestors && e.filter.active() {
			// Spliced descendants of parent may be mapped elsewhere.
			e.Rebuild()
		}
		return
	}
	if !e.keepAncestors && e.filter.active() && e.mixedChildren(pid, parent) {
		e.Rebuild()
		return
	}

	remaining := make(map[E]bool, e.source.ChildCount(parent))
	for row := 0; row < e.source.ChildCount(parent); row++ {
		remaining[e.source.ChildAt(parent, row)] = true
	}

	children := e.nodes[pid].children
	for i := len(children) - 1; i >= 0; i-- {
		cid := children[i]
		if remaining[e.nodes[cid].source] {
			continue
		}
		e.beginRemoveRows(pid, i, i)
		e.detach(cid)
		e.endRemoveRows()
		children = e.nodes[pid].children
	}

	e.pruneEmptyPlaceholders(pid)
}

// DataChanged handles a source data-changed notification for the
// rectangular range [firstRow, lastRow] x [firstField, lastField] under
// parent. Data changes do not re-run the filter: a change that would alter
// acceptance is not detected until the next rebuild. Mapped cells are
// forwarded to consumers; unmapped ones are dropped.
func (e *Engine[E]) DataChanged(parent E, firstRow, lastRow, firstField, lastField int) {
	if e.flat {
		// Flattening has no incremental path; the sort key may have
		// changed, so re-collect.
		e.Rebuild()
		return
	}

	for row := firstRow; row <= lastRow; row++ {
		el := e.source.ChildAt(parent, row)
		id := e.MapFromSource(el)
		if id == Invalid || id == Root {
			continue
		}
		for field := firstField; field <= lastField; field++ {
			e.notifyDataChanged(id, field)
		}
	}
}

// TreeReset handles a source structure-reset notification.
func (e *Engine[E]) TreeReset() {
	e.Rebuild()
}

// mixedChildren reports whether pid holds proxy children whose source is
// not a direct child of parent, i.e. promote-mode splices.
func (e *Engine[E]) mixedChildren(pid NodeID, parent E) bool {
	for _, cid := range e.nodes[pid].children {
		if e.source.ParentOf(e.nodes[cid].source) != parent {
			return true
		}
	}
	return false
}

// proxyRowFor computes the proxy row for the source child of parent at
// srcRow: the number of preceding source siblings that are represented as
// direct children of pid.
func (e *Engine[E]) proxyRowFor(pid NodeID, parent E, srcRow int) int {
	row := 0
	for i := 0; i < srcRow; i++ {
		sib := e.source.ChildAt(parent, i)
		if id, ok := e.fromSource[sib]; ok && e.nodes[id].parent == pid {
			row++
		}
	}
	return row
}

// insertAt creates a proxy node for src as the child of parent at the
// given row.
func (e *Engine[E]) insertAt(parent NodeID, row int, src E) NodeID {
	id := NodeID(len(e.nodes))
	e.nodes = append(e.nodes, proxyNode[E]{source: src, parent: parent})
	siblings := e.nodes[parent].children
	siblings = append(siblings, 0)
	copy(siblings[row+1:], siblings[row:])
	siblings[row] = id
	e.nodes[parent].children = siblings
	e.fromSource[src] = id
	return id
}

// detach removes id and its subtree from the proxy tree. Arena slots are
// left in place but invalidated; the next rebuild compacts them.
func (e *Engine[E]) detach(id NodeID) {
	parent := e.nodes[id].parent
	siblings := e.nodes[parent].children
	for i, cid := range siblings {
		if cid == id {
			e.nodes[parent].children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	e.invalidateSubtree(id)
}

func (e *Engine[E]) invalidateSubtree(id NodeID) {
	delete(e.fromSource, e.nodes[id].source)
	for _, cid := range e.nodes[id].children {
		e.invalidateSubtree(cid)
	}
	e.nodes[id].parent = Invalid
	e.nodes[id].children = nil
}

// pruneEmptyPlaceholders walks up from id removing keep-ancestor
// placeholders that lost their last child, so that removals leave the same
// tree a rebuild would produce.
func (e *Engine[E]) pruneEmptyPlaceholders(id NodeID) {
	if !e.filter.active() {
		return
	}
	for id != Root && e.valid(id) &&
		len(e.nodes[id].children) == 0 && !e.accepts(e.nodes[id].source) {
		parent := e.nodes[id].parent
		row := e.RowOf(id)
		e.beginRemoveRows(parent, row, row)
		e.detach(id)
		e.endRemoveRows()
		id = parent
	}
}
