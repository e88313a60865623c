package container

import (
	"testing"

	"github.com/foliagewm/foliage/internal/geometry"
)

type countingSink struct{ marked []*Container }

func (s *countingSink) MarkDirty(c *Container) { s.marked = append(s.marked, c) }

func TestAttachAppendsAndAddsToFocusOrder(t *testing.T) {
	root := NewRoot()
	ws := NewWorkspace("1", "1", false, geometry.Horizontal)
	sink := &countingSink{}

	Attach(root, ws, -1, sink)

	if ws.Parent() != root {
		t.Fatalf("expected ws.Parent() == root")
	}
	if len(root.Children()) != 1 || root.Children()[0] != ws {
		t.Fatalf("expected root to have ws as sole child")
	}
	if len(root.ChildFocusOrder()) != 1 || root.ChildFocusOrder()[0] != ws.ID {
		t.Fatalf("expected ws at front of focus order")
	}
	if len(sink.marked) == 0 {
		t.Fatalf("expected sink to be notified")
	}
}

func TestAttachAtIndexInsertsInPlace(t *testing.T) {
	root := NewRoot()
	a := NewWorkspace("a", "a", false, geometry.Horizontal)
	b := NewWorkspace("b", "b", false, geometry.Horizontal)
	c := NewWorkspace("c", "c", false, geometry.Horizontal)

	Attach(root, a, -1, nil)
	Attach(root, c, -1, nil)
	Attach(root, b, 1, nil)

	got := root.Children()
	if got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("expected order [a b c], got %v %v %v", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestDetachRemovesFromChildrenAndFocusOrder(t *testing.T) {
	root := NewRoot()
	ws := NewWorkspace("1", "1", false, geometry.Horizontal)
	Attach(root, ws, -1, nil)

	Detach(ws, nil)

	if ws.Parent() != nil {
		t.Fatalf("expected ws.Parent() == nil after detach")
	}
	if len(root.Children()) != 0 {
		t.Fatalf("expected root to have no children")
	}
	if containsID(root.ChildFocusOrder(), ws.ID) {
		t.Fatalf("expected ws removed from focus order")
	}
}

func TestReplacePreservesPositionAndFocusOrderSlot(t *testing.T) {
	root := NewRoot()
	split := NewSplit(geometry.Horizontal, 1.0)
	Attach(root, split, -1, nil)
	SetFocusedDescendant(split, nil)

	only := NewTilingWindow(1, 1.0)
	Replace(split, only, nil)

	if root.Children()[0] != only {
		t.Fatalf("expected only to occupy split's old position")
	}
	if root.ChildFocusOrder()[0] != only.ID {
		t.Fatalf("expected only to occupy split's old focus-order slot")
	}
	if split.Parent() != nil {
		t.Fatalf("expected split detached after replace")
	}
}

func TestSetFocusedDescendantPromotesAncestorChain(t *testing.T) {
	root := NewRoot()
	ws := NewWorkspace("1", "1", false, geometry.Horizontal)
	split := NewSplit(geometry.Horizontal, 1.0)
	w1 := NewTilingWindow(1, 0.5)
	w2 := NewTilingWindow(2, 0.5)

	Attach(root, ws, -1, nil)
	Attach(ws, split, -1, nil)
	Attach(split, w1, -1, nil)
	Attach(split, w2, -1, nil)

	// w1 attached first, so it's already at the front. Focus w2 instead.
	SetFocusedDescendant(w2, nil)

	if split.ChildFocusOrder()[0] != w2.ID {
		t.Fatalf("expected w2 at front of split's focus order")
	}
	if ws.ChildFocusOrder()[0] != split.ID {
		t.Fatalf("expected split at front of ws's focus order")
	}
	if root.ChildFocusOrder()[0] != ws.ID {
		t.Fatalf("expected ws at front of root's focus order")
	}
	if LastFocusedDescendant(root) != w2 {
		t.Fatalf("expected w2 to be the computed focused container")
	}
}

func TestSetFocusedDescendantStopsAtEndAncestor(t *testing.T) {
	root := NewRoot()
	ws := NewWorkspace("1", "1", false, geometry.Horizontal)
	split := NewSplit(geometry.Horizontal, 1.0)
	w1 := NewTilingWindow(1, 0.5)
	w2 := NewTilingWindow(2, 0.5)

	Attach(root, ws, -1, nil)
	Attach(ws, split, -1, nil)
	Attach(split, w1, -1, nil)
	Attach(split, w2, -1, nil)

	SetFocusedDescendant(w2, ws)

	if split.ChildFocusOrder()[0] != w2.ID {
		t.Fatalf("expected w2 promoted within split")
	}
	// ws's own focus order (and above) must be untouched since endAncestor
	// was ws.
	if ws.ChildFocusOrder()[0] != split.ID {
		t.Fatalf("expected ws's focus order unchanged by a scoped promotion")
	}
}
