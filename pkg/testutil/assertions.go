package testutil

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/outliner/pkg/model"
	"github.com/vanderheijden86/outliner/pkg/projection"
)

// AssertProjection verifies that the engine's derived tree renders to the
// expected indented dump. The expected string is dedented: leading and
// trailing blank lines are dropped and the common leading tab indentation of
// the literal is stripped, so expectations can be written inline as raw
// string literals.
func AssertProjection(t *testing.T, e *projection.Engine[*model.Node], want string) {
	t.Helper()
	got := e.Snapshot().String()
	if got != Dedent(want) {
		t.Errorf("projection mismatch\ngot:\n%s\nwant:\n%s", got, Dedent(want))
	}
}

// AssertRowCount verifies the child count of a proxy node.
func AssertRowCount(t *testing.T, e *projection.Engine[*model.Node], id projection.NodeID, want int) {
	t.Helper()
	if got := e.RowCount(id); got != want {
		t.Errorf("expected %d rows under node %d, got %d", want, id, got)
	}
}

// AssertMapped verifies that the named source node is present in the
// projection, and returns its proxy ID.
func AssertMapped(t *testing.T, tree *model.Tree, e *projection.Engine[*model.Node], name string) projection.NodeID {
	t.Helper()
	nodes := tree.FindByName(name)
	if len(nodes) != 1 {
		t.Fatalf("expected exactly one source node named %q, got %d", name, len(nodes))
	}
	id := e.MapFromSource(nodes[0])
	if id == projection.Invalid {
		t.Errorf("expected %q to be mapped into the projection", name)
	}
	return id
}

// AssertNotMapped verifies that the named source node is filtered out.
func AssertNotMapped(t *testing.T, tree *model.Tree, e *projection.Engine[*model.Node], name string) {
	t.Helper()
	for _, n := range tree.FindByName(name) {
		if id := e.MapFromSource(n); id != projection.Invalid {
			t.Errorf("expected %q to be filtered out, got proxy node %d", name, id)
		}
	}
}

// Dedent strips the common leading tab indentation of a raw string literal
// and drops surrounding blank lines.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, "\t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.Join(lines, "\n") + "\n"
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
