package container

import "github.com/google/uuid"

// Parent returns c's parent, or nil for the root.
func (c *Container) Parent() *Container { return c.parent }

// Children returns c's children in structural order. The returned slice is
// owned by c; callers must not mutate it.
func (c *Container) Children() []*Container { return c.children }

// IsDetached reports whether c has been removed from the tree (and is not
// itself the root).
func (c *Container) IsDetached() bool { return c.Kind != KindRoot && c.parent == nil }

// ChildFocusOrder returns the ids of c's children, most-recently-focused
// first. The returned slice is owned by c; callers must not mutate it.
func (c *Container) ChildFocusOrder() []uuid.UUID { return c.childFocusOrder }

// IsDisplayed reports whether a workspace is the one currently shown on its
// monitor. Meaningless for other kinds.
func (c *Container) IsDisplayed() bool { return c.displayed }

// SetDisplayed marks whether a workspace is the one currently shown on its
// monitor. Exactly one workspace per monitor should have this set at a
// time; enforcing that is the caller's responsibility (the monitor-to-
// workspace switch operation), not the tree's.
func (c *Container) SetDisplayed(v bool) { c.displayed = v }

// Descendants performs a depth-first, structural-order walk of c's
// descendants (not including c itself).
func Descendants(c *Container) []*Container {
	var out []*Container
	var walk func(*Container)
	walk = func(n *Container) {
		for _, child := range n.children {
			out = append(out, child)
			walk(child)
		}
	}
	walk(c)
	return out
}

// SelfAndDescendants is Descendants with c itself prepended.
func SelfAndDescendants(c *Container) []*Container {
	return append([]*Container{c}, Descendants(c)...)
}

// Workspace returns the nearest Workspace ancestor of c (c itself if c is a
// workspace), or nil if none exists (e.g. c is detached or is the root).
func Workspace(c *Container) *Container {
	for n := c; n != nil; n = n.parent {
		if n.Kind == KindWorkspace {
			return n
		}
	}
	return nil
}

// Monitor returns the nearest Monitor ancestor of c, or nil.
func Monitor(c *Container) *Container {
	for n := c; n != nil; n = n.parent {
		if n.Kind == KindMonitor {
			return n
		}
	}
	return nil
}

// TilingSiblings returns the children of c's parent that are tiling
// containers (split or tiling-window), excluding c itself.
func TilingSiblings(c *Container) []*Container {
	if c.parent == nil {
		return nil
	}
	var out []*Container
	for _, sib := range c.parent.children {
		if sib == c {
			continue
		}
		if isTilingMember(sib) {
			out = append(out, sib)
		}
	}
	return out
}

func isTilingMember(c *Container) bool {
	switch c.Kind {
	case KindSplit:
		return true
	case KindTilingWindow:
		return true
	default:
		return false
	}
}

// TilingChildren returns c's children that participate in tiling layout
// (splits and tiling windows), in structural order.
func TilingChildren(c *Container) []*Container {
	var out []*Container
	for _, child := range c.children {
		if isTilingMember(child) {
			out = append(out, child)
		}
	}
	return out
}

// byID finds a child of c with the given id, or nil.
func byID(c *Container, id uuid.UUID) *Container {
	for _, child := range c.children {
		if child.ID == id {
			return child
		}
	}
	return nil
}

// LastFocusedDescendant walks child_focus_order[0] from c down to the
// deepest descendant: the result is always a window or a childless
// workspace. Returns c itself if c has no children.
func LastFocusedDescendant(c *Container) *Container {
	n := c
	for len(n.childFocusOrder) > 0 {
		next := byID(n, n.childFocusOrder[0])
		if next == nil {
			// child_focus_order should always reference a live child; degrade
			// gracefully rather than panic on a read if it's ever stale.
			break
		}
		n = next
	}
	return n
}

// DescendantFocusOrder performs a depth-first walk of c's descendants,
// guided at each level by child_focus_order rather than structural order:
// the most-recently-focused child is visited (and its subtree fully
// explored) before its less-recently-focused siblings.
func DescendantFocusOrder(c *Container) []*Container {
	var out []*Container
	var walk func(*Container)
	walk = func(n *Container) {
		for _, id := range n.childFocusOrder {
			child := byID(n, id)
			if child == nil {
				continue
			}
			out = append(out, child)
			walk(child)
		}
	}
	walk(c)
	return out
}
