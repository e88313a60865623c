package container

// UpdateWindowState is the sole entry point for window state transitions.
// It handles the Tiling/Floating/Fullscreen/Minimized state machine;
// DisplayState (Shown/Hiding/Hidden) is managed separately by the
// reconciler and workspace-focus commands, since it tracks OS visibility
// rather than layout placement.
//
// Restoring out of Fullscreen or Minimized always goes back to whichever
// state preceded it (the "restore prev" transition), regardless
// of the literal requested state — except Fullscreen -> Minimized, which is
// a real transition (a newly-minimized window remembers Fullscreen so a
// later restore brings it back).
func UpdateWindowState(w *Container, requested WindowState, sink DirtySink) {
	if !w.Kind.IsWindow() {
		return
	}

	current := w.State
	if requested == current {
		return
	}

	if current == StateMinimized || (current == StateFullscreen && requested != StateMinimized) {
		if w.PrevState != nil {
			requested = *w.PrevState
		}
		w.PrevState = nil
	}

	if requested == current {
		return
	}

	ws := Workspace(w)

	switch requested {
	case StateTiling:
		leaveNonTiling(w, sink)
		enterTiling(w, ws, sink)
	case StateFloating:
		leaveCurrent(w, sink)
		enterNonTiling(w, ws, StateFloating, sink)
	case StateFullscreen:
		demoteWorkspaceFullscreen(w, ws, sink)
		stash := current
		leaveCurrent(w, sink)
		enterNonTiling(w, ws, StateFullscreen, sink)
		w.PrevState = &stash
	case StateMinimized:
		stash := current
		leaveCurrent(w, sink)
		enterNonTiling(w, ws, StateMinimized, sink)
		w.PrevState = &stash
	}
}

func leaveCurrent(w *Container, sink DirtySink) {
	if w.State == StateTiling {
		leaveTiling(w, sink)
	}
	// Leaving Floating/Fullscreen/Minimized has no structural effect: the
	// window already lives as a direct, non-tiling child of its workspace.
}

// leaveTiling detaches w from its split parent, remembers exactly where it
// was (for a later restore), redistributes the freed tiling size among
// remaining siblings, and flattens the parent if it now has fewer than two
// tiling children.
func leaveTiling(w *Container, sink DirtySink) {
	parent := w.parent
	index := indexOf(parent, w)

	w.tilingMemory = &tilingMemory{parent: parent, index: index, size: w.TilingSize}

	Detach(w, sink)
	redistributeAfterRemoval(parent)
	flattenIfNeeded(parent, sink)
}

// enterTiling reinserts w into the tiling tree. If w remembers a valid
// insertion point from a previous leaveTiling (and that container is still
// attached), it restores there with its remembered size; otherwise it is
// appended as a brand-new tile at ws's tiling root. ws is the workspace w
// belonged to before this transition started (captured by the caller, since
// w may already be detached by the time this runs).
func enterTiling(w *Container, ws *Container, sink DirtySink) {
	w.Kind = KindTilingWindow
	w.DisplayState = DisplayShown

	if mem := w.tilingMemory; mem != nil && !mem.parent.IsDetached() && mem.parent.Kind != KindRoot {
		w.tilingMemory = nil
		restoreTilingChild(mem.parent, w, mem.index, mem.size, sink)
		return
	}
	w.tilingMemory = nil

	if ws == nil {
		return
	}
	insertNewTilingChild(ws, w, sink)
}

// enterNonTiling reattaches w as a direct non-tiling child of ws (the
// workspace it belonged to before this transition started) in the given
// state, if it isn't already attached somewhere.
func enterNonTiling(w *Container, ws *Container, state WindowState, sink DirtySink) {
	w.Kind = KindNonTilingWindow
	w.State = state
	w.DisplayState = DisplayShown

	if w.parent == nil && ws != nil {
		Attach(ws, w, -1, sink)
	}
}

// leaveNonTiling detaches w from its current direct-workspace-child
// position so enterTiling can reattach it into the split tree; Detach is a
// no-op if w is already unattached.
func leaveNonTiling(w *Container, sink DirtySink) {
	w.State = StateTiling
	Detach(w, sink)
}

// demoteWorkspaceFullscreen enforces the at-most-one-fullscreen-window-per-
// workspace rule before w enters Fullscreen: any other fullscreen
// window on the same workspace is demoted to its own stashed previous
// state.
func demoteWorkspaceFullscreen(w *Container, ws *Container, sink DirtySink) {
	if ws == nil {
		return
	}
	// Snapshot first: demoting a child mutates ws.children in place, which
	// would otherwise corrupt a concurrent range over the live slice.
	children := append([]*Container(nil), ws.children...)
	for _, child := range children {
		if child == w || child.Kind != KindNonTilingWindow {
			continue
		}
		if child.State == StateFullscreen {
			UpdateWindowState(child, StateTiling, sink)
		}
	}
}

func indexOf(parent *Container, child *Container) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}
