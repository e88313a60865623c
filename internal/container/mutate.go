package container

import "github.com/google/uuid"

// DirtySink receives notifications that a subtree needs to be redrawn.
// WmState implements this to feed the reconciler's redraw queue; tests can
// pass nil to skip it.
type DirtySink interface {
	MarkDirty(*Container)
}

func markDirty(sink DirtySink, c *Container) {
	if sink != nil && c != nil {
		sink.MarkDirty(c)
	}
}

// Attach inserts child as a child of parent at the given structural index
// (clamped into range; pass -1 or len(parent.children) to append). It
// updates parent/child links, then updates parent's child_focus_order:
// child's id goes to the back of the focus order unless it is already
// present there, in which case its existing position is kept. Detach
// removes the id from the focus order, so a child reattached to a parent
// it was detached from also goes to the back; its earlier focus position
// there is not remembered.
func Attach(parent, child *Container, index int, sink DirtySink) {
	if index < 0 || index > len(parent.children) {
		index = len(parent.children)
	}

	child.parent = parent
	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = child

	if !containsID(parent.childFocusOrder, child.ID) {
		parent.childFocusOrder = append(parent.childFocusOrder, child.ID)
	}

	markDirty(sink, parent)
	markDirty(sink, child)
}

// Detach removes child from its parent's children and child_focus_order.
// child.parent is cleared; child's own subtree is left intact (only the
// link to its former parent is severed).
func Detach(child *Container, sink DirtySink) {
	parent := child.parent
	if parent == nil {
		return
	}

	parent.children = removeContainer(parent.children, child)
	parent.childFocusOrder = removeID(parent.childFocusOrder, child.ID)
	child.parent = nil

	markDirty(sink, parent)
}

// Replace swaps old for new at the same structural position and the same
// position in child_focus_order, preserving new's place in both without
// disturbing the rest of the order. new inherits old's parent link; old is
// left detached.
func Replace(old, new *Container, sink DirtySink) {
	parent := old.parent
	if parent == nil {
		return
	}

	for i, c := range parent.children {
		if c == old {
			parent.children[i] = new
			break
		}
	}
	for i, id := range parent.childFocusOrder {
		if id == old.ID {
			parent.childFocusOrder[i] = new.ID
			break
		}
	}

	new.parent = parent
	old.parent = nil

	markDirty(sink, parent)
	markDirty(sink, new)
}

// Move detaches child from its current parent and reattaches it under
// newParent at newIndex.
func Move(child, newParent *Container, newIndex int, sink DirtySink) {
	Detach(child, sink)
	Attach(newParent, child, newIndex, sink)
}

// SetFocusedDescendant promotes target's id to the front of child_focus_order
// for every ancestor of target, starting at target's immediate parent and
// stopping at endAncestor (exclusive) or the root. Passing a nil endAncestor
// walks all the way to the root. This is the sole way focus is recorded in
// the tree: there is no separate "focused" pointer, only these orderings.
func SetFocusedDescendant(target *Container, endAncestor *Container) {
	for n := target; n.parent != nil && n.parent != endAncestor; n = n.parent {
		n.parent.childFocusOrder = promoteID(n.parent.childFocusOrder, n.ID)
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// promoteID moves id to the front of ids, appending it if absent.
func promoteID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	filtered := make([]uuid.UUID, 0, len(ids))
	for _, x := range ids {
		if x != id {
			filtered = append(filtered, x)
		}
	}
	return append([]uuid.UUID{id}, filtered...)
}

func removeContainer(list []*Container, target *Container) []*Container {
	out := list[:0]
	for _, c := range list {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}
