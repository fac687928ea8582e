package projection

import (
	"regexp"
	"strings"
)

// CaptureFunc refines a pattern match: it receives the pattern's first
// capture group (or the whole match when the pattern has no groups) and
// decides whether the candidate match stands. A rejected candidate does not
// reject the element outright; the remaining fields are still tried.
type CaptureFunc func(captured string) bool

// filterState holds the current filter configuration. Free text and
// compiled pattern are mutually exclusive; the setters clear one when the
// other is assigned.
type filterState struct {
	text          string
	caseSensitive bool
	exact         bool
	pattern       *regexp.Regexp
	fields        []int
	capture       CaptureFunc
}

// active reports whether any filtering is configured at all.
func (f *filterState) active() bool {
	return f.text != "" || f.pattern != nil
}

// SetFilterText installs a free-text filter and clears any pattern filter.
// An empty text accepts every element. Triggers a full rebuild: a filter
// change can flip acceptance at arbitrary depth, so no incremental patch is
// attempted.
func (e *Engine[E]) SetFilterText(text string, caseSensitive, exactMatch bool) {
	e.filter.text = text
	e.filter.caseSensitive = caseSensitive
	e.filter.exact = exactMatch
	e.filter.pattern = nil
	e.Rebuild()
}

// SetFilterPattern installs a compiled pattern filter and clears any
// free-text filter. A nil pattern accepts every element. Triggers a full
// rebuild.
func (e *Engine[E]) SetFilterPattern(pattern *regexp.Regexp) {
	e.filter.pattern = pattern
	e.filter.text = ""
	e.Rebuild()
}

// SetFilterFields restricts which fields are tested by the filter. No
// fields means all fields. Triggers a full rebuild.
func (e *Engine[E]) SetFilterFields(fields ...int) {
	e.filter.fields = append([]int(nil), fields...)
	e.Rebuild()
}

// SetCaptureFilter installs a secondary refinement applied to pattern
// captures, or removes it when fn is nil. It has no effect on free-text
// filters. Triggers a full rebuild.
func (e *Engine[E]) SetCaptureFilter(fn CaptureFunc) {
	e.filter.capture = fn
	e.Rebuild()
}

// SetKeepAncestors selects the structural mode: when true, rejected
// ancestors of an accepted element are retained as placeholders; when
// false, they are elided and accepted descendants are promoted to the
// nearest retained ancestor. Triggers a full rebuild.
func (e *Engine[E]) SetKeepAncestors(keep bool) {
	e.keepAncestors = keep
	e.Rebuild()
}

// KeepAncestors returns the current structural mode.
func (e *Engine[E]) KeepAncestors() bool {
	return e.keepAncestors
}

// IsPlaceholder reports whether the node is present only as a structural
// ancestor of an accepted element, rather than being a filter match itself.
// Placeholders still render their own values. Only keep-ancestor mode
// produces placeholders.
func (e *Engine[E]) IsPlaceholder(id NodeID) bool {
	if !e.valid(id) || id == Root || !e.filter.active() {
		return false
	}
	return !e.accepts(e.nodes[id].source)
}

// accepts evaluates the filter against one element: it matches iff the
// predicate holds on at least one of the designated fields.
func (e *Engine[E]) accepts(el E) bool {
	f := &e.filter
	fields := f.fields
	if len(fields) == 0 {
		n := e.source.FieldCount()
		fields = make([]int, n)
		for i := range fields {
			fields[i] = i
		}
	}

	if f.pattern != nil {
		for _, field := range fields {
			value := e.source.Value(el, field)
			m := f.pattern.FindStringSubmatch(value)
			if m == nil {
				continue
			}
			if f.capture != nil {
				captured := m[0]
				if len(m) > 1 {
					captured = m[1]
				}
				if !f.capture(captured) {
					continue
				}
			}
			return true
		}
		return false
	}

	if f.text == "" {
		return true
	}
	needle := f.text
	if !f.caseSensitive {
		needle = strings.ToLower(needle)
	}
	for _, field := range fields {
		value := e.source.Value(el, field)
		if !f.caseSensitive {
			value = strings.ToLower(value)
		}
		if f.exact {
			if value == needle {
				return true
			}
		} else if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}

// acceptedRecursively reports whether el or any of its descendants is
// accepted. Used by the incremental insert path; the full rebuild computes
// the same property in a single pass instead.
func (e *Engine[E]) acceptedRecursively(el E) bool {
	if e.accepts(el) {
		return true
	}
	for row := 0; row < e.source.ChildCount(el); row++ {
		if e.acceptedRecursively(e.source.ChildAt(el, row)) {
			return true
		}
	}
	return false
}
