package projection_test

import (
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/vanderheijden86/outliner/pkg/model"
	"github.com/vanderheijden86/outliner/pkg/projection"
	"github.com/vanderheijden86/outliner/pkg/testutil"
)

// sceneTree builds the fixture used by most tests:
//
//	Group_A
//	  Item_1
//	  Item_2
//	Group_B
//	  Sub_B
//	    Item_3
//	Group_C
//	  Thing
func sceneTree() *model.Tree {
	t := model.NewTree(1)
	a := t.AppendChildren(nil, "Group_A")[0]
	t.AppendChildren(a, "Item_1", "Item_2")
	b := t.AppendChildren(nil, "Group_B")[0]
	sub := t.AppendChildren(b, "Sub_B")[0]
	t.AppendChildren(sub, "Item_3")
	c := t.AppendChildren(nil, "Group_C")[0]
	t.AppendChildren(c, "Thing")
	return t
}

func newEngine(t *model.Tree) *projection.Engine[*model.Node] {
	e := projection.New[*model.Node](t)
	t.Subscribe(e)
	return e
}

func TestUnfilteredPassthrough(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	testutil.AssertProjection(t, e, `
		Group_A
		  Item_1
		  Item_2
		Group_B
		  Sub_B
		    Item_3
		Group_C
		  Thing
	`)
	if e.Len() != 8 {
		t.Errorf("expected 8 proxy nodes, got %d", e.Len())
	}
}

func TestPromoteModeSplicesRejectedAncestors(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetFilterText("Item", false, false)

	// Group and Sub levels are rejected; items attach to the root across
	// any number of rejected levels.
	testutil.AssertProjection(t, e, `
		Item_1
		Item_2
		Item_3
	`)
	testutil.AssertNotMapped(t, tree, e, "Group_A")
	testutil.AssertNotMapped(t, tree, e, "Sub_B")
	testutil.AssertNotMapped(t, tree, e, "Thing")
}

func TestPromoteModeKeepsAcceptedInteriorNodes(t *testing.T) {
	tree := model.NewTree(1)
	a := tree.AppendChildren(nil, "box_outer")[0]
	inner := tree.AppendChildren(a, "box_inner")[0]
	tree.AppendChildren(inner, "lid")
	e := newEngine(tree)

	e.SetFilterText("box", false, false)

	// Accepted nodes keep their accepted descendants nested; only the
	// rejected leaf disappears.
	testutil.AssertProjection(t, e, `
		box_outer
		  box_inner
	`)
}

func TestKeepAncestorsRetainsPlaceholders(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetKeepAncestors(true)
	e.SetFilterText("Item", false, false)

	testutil.AssertProjection(t, e, `
		Group_A
		  Item_1
		  Item_2
		Group_B
		  Sub_B
		    Item_3
	`)

	group := testutil.AssertMapped(t, tree, e, "Group_A")
	item := testutil.AssertMapped(t, tree, e, "Item_1")
	if !e.IsPlaceholder(group) {
		t.Error("expected Group_A to be a placeholder")
	}
	if e.IsPlaceholder(item) {
		t.Error("expected Item_1 to be a real match")
	}
	// Group_C has no matching descendants and is dropped entirely.
	testutil.AssertNotMapped(t, tree, e, "Group_C")
}

func TestNoFilterHasNoPlaceholders(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)
	e.SetKeepAncestors(true)

	for row := 0; row < e.RowCount(projection.Root); row++ {
		id := e.ChildAt(projection.Root, row)
		if e.IsPlaceholder(id) {
			t.Errorf("node %d reported as placeholder without an active filter", id)
		}
	}
}

func TestFilterCaseSensitivity(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetFilterText("item", false, false)
	if e.Len() != 3 {
		t.Errorf("case-insensitive: expected 3 matches, got %d", e.Len())
	}

	e.SetFilterText("item", true, false)
	if e.Len() != 0 {
		t.Errorf("case-sensitive: expected 0 matches, got %d", e.Len())
	}
}

func TestFilterExactMatch(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetFilterText("Item_1", false, true)
	testutil.AssertProjection(t, e, `
		Item_1
	`)

	e.SetFilterText("Item", false, true)
	if e.Len() != 0 {
		t.Errorf("exact: expected no node named exactly \"Item\", got %d", e.Len())
	}
}

func TestFilterFields(t *testing.T) {
	tree := model.NewTree(2)
	a := tree.AppendChildren(nil, "alpha")[0]
	tree.SetValue(a, 1, "red")
	b := tree.AppendChildren(nil, "beta")[0]
	tree.SetValue(b, 1, "blue")
	e := newEngine(tree)

	// All fields by default: "red" matches alpha's field 1.
	e.SetFilterText("red", false, false)
	testutil.AssertMapped(t, tree, e, "alpha")
	testutil.AssertNotMapped(t, tree, e, "beta")

	// Restricted to the name field, "red" matches nothing.
	e.SetFilterFields(0)
	if e.Len() != 0 {
		t.Errorf("expected no matches on field 0, got %d", e.Len())
	}

	// Back to all fields.
	e.SetFilterFields()
	testutil.AssertMapped(t, tree, e, "alpha")
}

func TestPatternFilter(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetFilterPattern(regexp.MustCompile(`^Item_[12]$`))
	testutil.AssertProjection(t, e, `
		Item_1
		Item_2
	`)
}

func TestCaptureFilter(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetFilterPattern(regexp.MustCompile(`Item_(\d+)`))
	e.SetCaptureFilter(func(captured string) bool {
		n, err := strconv.Atoi(captured)
		return err == nil && n >= 2
	})

	testutil.AssertProjection(t, e, `
		Item_2
		Item_3
	`)

	e.SetCaptureFilter(nil)
	if e.Len() != 3 {
		t.Errorf("expected capture filter removal to restore 3 matches, got %d", e.Len())
	}
}

func TestCaptureRejectionTriesRemainingFields(t *testing.T) {
	tree := model.NewTree(2)
	n := tree.AppendChildren(nil, "v1")[0]
	tree.SetValue(n, 1, "v9")
	e := newEngine(tree)

	// The name's capture "1" is rejected, but field 1 captures "9" and
	// stands, so the element is still accepted.
	e.SetFilterPattern(regexp.MustCompile(`v(\d)`))
	e.SetCaptureFilter(func(captured string) bool { return captured == "9" })

	testutil.AssertMapped(t, tree, e, "v1")
}

func TestTextAndPatternAreMutuallyExclusive(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetFilterText("Thing", false, false)
	e.SetFilterPattern(regexp.MustCompile(`Item_1`))
	// The pattern governs now; the earlier text must not also apply.
	testutil.AssertProjection(t, e, `
		Item_1
	`)

	e.SetFilterText("Thing", false, false)
	// And back: the pattern is cleared by the text setter.
	testutil.AssertProjection(t, e, `
		Thing
	`)
}

func TestEmptyFilterAcceptsEverything(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)
	e.SetFilterText("Item", false, false)
	e.SetFilterText("", false, false)
	if e.Len() != 8 {
		t.Errorf("expected empty filter to restore all 8 nodes, got %d", e.Len())
	}
}

func TestFlatten(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	e.SetFlat(true)

	// Every element appears, containers included, ordered by name.
	testutil.AssertProjection(t, e, `
		Group_A
		Group_B
		Group_C
		Item_1
		Item_2
		Item_3
		Sub_B
		Thing
	`)
	if e.RowCount(projection.Root) != 8 {
		t.Errorf("expected 8 flat rows, got %d", e.RowCount(projection.Root))
	}
}

func TestFlattenDescendingIsExactReverse(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)
	e.SetFlat(true)

	asc := e.Snapshot()
	e.SetSortDescending(true)
	desc := e.Snapshot()

	n := len(asc.Nodes)
	if n != len(desc.Nodes) {
		t.Fatalf("row count changed across direction flip: %d vs %d", n, len(desc.Nodes))
	}
	for i := range asc.Nodes {
		a := asc.Nodes[i].Values[0]
		d := desc.Nodes[n-1-i].Values[0]
		if a != d {
			t.Errorf("row %d: ascending %q, reversed descending %q", i, a, d)
		}
	}
}

func TestFlattenSortsByConfiguredField(t *testing.T) {
	tree := model.NewTree(2)
	for i, weight := range []string{"30", "10", "20"} {
		n := tree.AppendChildren(nil, fmt.Sprintf("node_%d", i))[0]
		tree.SetValue(n, 1, weight)
	}
	e := newEngine(tree)

	e.SetFlat(true)
	e.SetSortField(1)

	var got []string
	for row := 0; row < e.RowCount(projection.Root); row++ {
		got = append(got, e.Value(e.ChildAt(projection.Root, row), 0))
	}
	want := []string{"node_1", "node_2", "node_0"}
	if len(got) != len(want) {
		t.Fatalf("unexpected row count: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected sort order: %v", got)
		}
	}
}

func TestFlattenSortIsStable(t *testing.T) {
	tree := model.NewTree(2)
	// All sort keys equal; document order must survive.
	for _, name := range []string{"c", "a", "b"} {
		n := tree.AppendChildren(nil, name)[0]
		tree.SetValue(n, 1, "same")
	}
	e := newEngine(tree)
	e.SetFlat(true)
	e.SetSortField(1)

	testutil.AssertProjection(t, e, `
		c
		a
		b
	`)
}

func TestMapRoundTrips(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)
	e.SetFilterText("Item", false, false)
	e.SetKeepAncestors(true)

	var walk func(id projection.NodeID)
	walk = func(id projection.NodeID) {
		for row := 0; row < e.RowCount(id); row++ {
			child := e.ChildAt(id, row)
			if e.ParentOf(child) != id {
				t.Errorf("node %d: parent mismatch", child)
			}
			if e.RowOf(child) != row {
				t.Errorf("node %d: RowOf %d, want %d", child, e.RowOf(child), row)
			}
			if e.MapFromSource(e.MapToSource(child)) != child {
				t.Errorf("node %d: source round-trip broke", child)
			}
			walk(child)
		}
	}
	walk(projection.Root)
}

func TestQueriesAreTotalOnInvalid(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)

	if e.RowCount(projection.Invalid) != 0 {
		t.Error("RowCount(Invalid) != 0")
	}
	if e.ChildAt(projection.Invalid, 0) != projection.Invalid {
		t.Error("ChildAt(Invalid) != Invalid")
	}
	if e.ParentOf(projection.Invalid) != projection.Invalid {
		t.Error("ParentOf(Invalid) != Invalid")
	}
	if e.RowOf(projection.Invalid) != -1 {
		t.Error("RowOf(Invalid) != -1")
	}
	if e.Value(projection.Invalid, 0) != "" {
		t.Error("Value(Invalid) != \"\"")
	}
	if e.ChildAt(projection.Root, 99) != projection.Invalid {
		t.Error("out-of-range ChildAt != Invalid")
	}
	if e.MapToSource(projection.Root) != nil {
		t.Error("MapToSource(Root) != zero handle")
	}
	if e.MapFromSource(nil) != projection.Root {
		t.Error("MapFromSource(zero) != Root")
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	tree := sceneTree()
	e := newEngine(tree)
	e.SetKeepAncestors(true)
	e.SetFilterText("Item", false, false)

	before := e.Snapshot()
	e.Rebuild()
	if !before.Equal(e.Snapshot()) {
		t.Error("rebuild with unchanged inputs produced a different tree")
	}
}
