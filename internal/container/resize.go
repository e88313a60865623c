package container

// ResizeTilingContainer distributes a resize: the target
// container grows or shrinks by delta, and its tiling siblings absorb the
// opposite change distributed according to their available headroom (when
// growing) or equally (when shrinking), so that the sibling group's tiling
// sizes continue to sum to 1.0.
func ResizeTilingContainer(c *Container, delta float64) {
	siblings := TilingSiblings(c)
	if len(siblings) == 0 {
		return
	}

	available := availableSize(siblings)

	clamped := delta
	if clamped < MinTilingSize-c.TilingSize {
		clamped = MinTilingSize - c.TilingSize
	}
	if clamped > available {
		clamped = available
	}

	c.TilingSize += clamped

	for _, sib := range siblings {
		sib.TilingSize -= siblingSizeDelta(sib, len(siblings), clamped, available)
	}
}

func availableSize(siblings []*Container) float64 {
	sum := 0.0
	for _, s := range siblings {
		sum += s.TilingSize - MinTilingSize
	}
	return sum
}

func siblingSizeDelta(sibling *Container, siblingCount int, target, available float64) float64 {
	siblingAvailable := sibling.TilingSize - MinTilingSize

	var resizeFactor float64
	if available == 0 || target < 0 {
		resizeFactor = 1.0 / float64(siblingCount)
	} else {
		resizeFactor = siblingAvailable / available
	}

	return resizeFactor * target
}

// FlattenAncestors is the exported entry point for normalizing a split
// container after a caller has detached one of its tiling children
// directly (outside UpdateWindowState's own leaveTiling path, e.g. a
// destroyed or monitor-crossing window). It is flattenIfNeeded under a
// name callers outside the package can use.
func FlattenAncestors(split *Container, sink DirtySink) {
	flattenIfNeeded(split, sink)
}

// flattenIfNeeded replaces a split container with its single remaining
// tiling child (or removes it entirely if it now has none), per invariant
// 8: a split with fewer than two tiling children is illegal. It recurses
// upward since flattening a split can leave its own parent with too few
// tiling children.
func flattenIfNeeded(split *Container, sink DirtySink) {
	if split == nil || split.Kind != KindSplit || split.parent == nil {
		return
	}

	tiling := TilingChildren(split)
	switch len(tiling) {
	case 0:
		parent := split.parent
		Detach(split, sink)
		flattenIfNeeded(parent, sink)
	case 1:
		only := tiling[0]
		only.TilingSize = split.TilingSize
		parent := split.parent
		Replace(split, only, sink)
		flattenIfNeeded(parent, sink)
	default:
		// Two or more tiling children: already legal, nothing to do.
	}
}

// RedistributeAfterRemoval is the exported entry point for rescaling a
// parent's remaining tiling children after a caller has detached one
// directly (see FlattenAncestors).
func RedistributeAfterRemoval(parent *Container) {
	redistributeAfterRemoval(parent)
}

// redistributeAfterRemoval rescales the remaining tiling children of parent
// so their sizes continue to sum to 1.0, proportionally preserving their
// relative shares. Called after a tiling child has been detached from
// parent (parent.children no longer includes it).
func redistributeAfterRemoval(parent *Container) {
	remaining := TilingChildren(parent)
	if len(remaining) == 0 {
		return
	}

	sum := 0.0
	for _, c := range remaining {
		sum += c.TilingSize
	}
	if sum == 0 {
		return
	}

	factor := 1.0 / sum
	for _, c := range remaining {
		c.TilingSize *= factor
	}
}

// insertNewTilingChild adds window as a new tiling child of parent at the
// end: existing N siblings are uniformly scaled by
// N/(N+1) and the newcomer is assigned 1/(N+1); residual rounding is
// absorbed into the newcomer so the sum stays exactly 1.
func insertNewTilingChild(parent, window *Container, sink DirtySink) {
	existing := TilingChildren(parent)
	n := len(existing)

	for _, c := range existing {
		c.TilingSize *= float64(n) / float64(n+1)
	}

	window.TilingSize = 1.0 / float64(n+1)

	Attach(parent, window, -1, sink)

	sum := window.TilingSize
	for _, c := range existing {
		sum += c.TilingSize
	}
	window.TilingSize += 1.0 - sum
}

// restoreTilingChild reinserts window at its remembered position with its
// remembered size, scaling the current tiling siblings at that position
// down proportionally to make room. This is the inverse of
// redistributeAfterRemoval and is what makes
// update_window_state(w, Tiling) round-trip exactly after
// update_window_state(w, prev) when nothing else has mutated the sibling
// set in between.
func restoreTilingChild(parent, window *Container, index int, rememberedSize float64, sink DirtySink) {
	current := TilingChildren(parent)
	sum := 0.0
	for _, c := range current {
		sum += c.TilingSize
	}

	remainingTarget := 1.0 - rememberedSize
	if sum > 0 {
		factor := remainingTarget / sum
		for _, c := range current {
			c.TilingSize *= factor
		}
	}

	window.TilingSize = rememberedSize
	if index < 0 || index > len(parent.children) {
		index = len(parent.children)
	}
	Attach(parent, window, index, sink)
}
