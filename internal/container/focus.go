package container

// FocusTargetAfterRemoval chooses what should receive focus when removed
// was just detached (or is about to be) from its workspace. If removed was
// not the focused container, no change is needed and this returns nil. If
// removed was focused, the candidates are the other windows of removed's
// workspace, in descendant focus order, and the search order is:
//
//  1. The most-recently-focused candidate of the same "kind" (Tiling
//     prefers Tiling; any Floating or any Fullscreen prefers any window of
//     that same family). Minimized windows are never eligible here.
//  2. Failing that, the most-recently-focused non-minimized candidate of
//     any kind.
//  3. Failing that, the first candidate in focus order regardless of state
//     (including Minimized, so focus has somewhere to land).
//  4. Failing that (the workspace has no other window), the workspace
//     itself.
func FocusTargetAfterRemoval(removed *Container, wasFocused bool) *Container {
	if !wasFocused {
		return nil
	}

	ws := Workspace(removed)
	if ws == nil {
		return nil
	}

	candidates := siblingWindowsInFocusOrder(ws, removed)
	if len(candidates) == 0 {
		return ws
	}

	if removed.Kind.IsWindow() {
		for _, cand := range candidates {
			if cand.State != StateMinimized && sameKind(cand.State, removed.State) {
				return cand
			}
		}
	}

	for _, cand := range candidates {
		if cand.State != StateMinimized {
			return cand
		}
	}

	return candidates[0]
}

// siblingWindowsInFocusOrder returns every window descendant of ws other
// than excluded, ordered by ws's child_focus_order (most-recently-focused
// branch first).
func siblingWindowsInFocusOrder(ws *Container, excluded *Container) []*Container {
	var out []*Container
	for _, c := range DescendantFocusOrder(ws) {
		if c == excluded || !c.Kind.IsWindow() {
			continue
		}
		out = append(out, c)
	}
	return out
}
