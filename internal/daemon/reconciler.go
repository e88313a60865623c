// Package daemon implements the reconciler: the step that runs at
// event-loop quiescence to flush the container tree's pending redraw work
// and native-focus intent back out to the platform backend.
package daemon

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/geometry"
	"github.com/foliagewm/foliage/internal/platform"
	"github.com/foliagewm/foliage/internal/tiling"
	"github.com/foliagewm/foliage/internal/wm"
)

// Reconciler drives the WM state's pending redraw queue and focus-sync
// flag out to the platform backend after every handler dispatch.
type Reconciler struct {
	state *wm.State
	log   *slog.Logger
}

// NewReconciler builds a Reconciler over state.
func NewReconciler(state *wm.State, log *slog.Logger) *Reconciler {
	return &Reconciler{state: state, log: log}
}

// Run performs one quiescence pass: redraw, then sync_native_focus.
func (r *Reconciler) Run() {
	r.redraw()
	r.syncNativeFocus()
}

// redraw expands the dirty set to window descendants, deduplicates,
// computes each window's target rect and visibility, and issues the
// minimum OS calls to converge. A window whose platform call fails keeps
// its container dirty for the next pass: platform failures never poison
// the tree, and the dirty set is only cleared for containers that were
// successfully applied.
func (r *Reconciler) redraw() {
	dirty := r.state.TakeDirty()
	if len(dirty) == 0 {
		return
	}

	windows := expandToWindows(dirty)
	if len(windows) == 0 {
		return
	}

	rects := r.layoutRects(windows)

	var failed []*container.Container
	for _, w := range windows {
		if !r.reconcileWindow(w, rects) {
			failed = append(failed, w)
		}
	}
	for _, w := range failed {
		r.state.MarkDirty(w)
	}
}

// layoutRects computes target rects for every tiling window reachable from
// the set of workspaces touched by the dirty windows. Non-tiling windows
// (Floating/Fullscreen/Minimized) are handled separately in
// reconcileWindow since their geometry doesn't come from the split
// partition.
func (r *Reconciler) layoutRects(windows []*container.Container) map[uuid.UUID]geometry.Rect {
	out := make(map[uuid.UUID]geometry.Rect)
	seen := make(map[uuid.UUID]bool)

	for _, w := range windows {
		ws := container.Workspace(w)
		if ws == nil {
			continue
		}
		if seen[ws.ID] {
			continue
		}
		seen[ws.ID] = true

		mon := container.Monitor(ws)
		if mon == nil {
			continue
		}

		working := rectFromPlatform(mon.NativeMonitor.Usable)
		scale := dpiScale(mon)

		wsRect, err := tiling.WorkspaceRect(working, r.state.Config.Gaps, scale)
		if err != nil {
			if r.log != nil {
				r.log.Warn("workspace rect computation failed", "error", err)
			}
			continue
		}

		rects, err := tiling.Layout(ws, wsRect, r.state.Config.Gaps, scale)
		if err != nil {
			if r.log != nil {
				r.log.Warn("tiling layout computation failed", "error", err)
			}
			continue
		}
		for id, rect := range rects {
			out[id] = rect
		}
	}
	return out
}

// reconcileWindow issues the OS calls needed to bring w to its target rect
// and visibility, returning false if a platform call failed (so the caller
// keeps it dirty for a retry on the next pass).
func (r *Reconciler) reconcileWindow(w *container.Container, rects map[uuid.UUID]geometry.Rect) bool {
	ws := container.Workspace(w)
	displayed := ws != nil && ws.IsDisplayed()

	if w.DisplayState == container.DisplayHiding {
		if err := r.state.Backend.Hide(w.NativeWindow); err != nil {
			r.warnFailed(w, "hide", err)
			return false
		}
		w.DisplayState = container.DisplayHidden
		return true
	}

	if !displayed {
		if w.DisplayState != container.DisplayHidden {
			if err := r.state.Backend.Hide(w.NativeWindow); err != nil {
				r.warnFailed(w, "hide", err)
				return false
			}
			w.DisplayState = container.DisplayHidden
		}
		return true
	}

	if w.State == container.StateMinimized {
		return true
	}

	rect, ok := r.targetRect(w, rects)
	if ok {
		if err := r.state.Backend.MoveResize(w.NativeWindow, rect); err != nil {
			r.warnFailed(w, "move/resize", err)
			return false
		}
	}

	if w.DisplayState != container.DisplayShown {
		if err := r.state.Backend.Show(w.NativeWindow); err != nil {
			r.warnFailed(w, "show", err)
			return false
		}
		w.DisplayState = container.DisplayShown
	}

	return true
}

func (r *Reconciler) targetRect(w *container.Container, rects map[uuid.UUID]geometry.Rect) (platform.Rect, bool) {
	if w.Kind == container.KindNonTilingWindow {
		if w.State == container.StateFullscreen {
			if mon := container.Monitor(w); mon != nil {
				return mon.NativeMonitor.Bounds, true
			}
		}
		fr := w.FloatingRect
		return platform.Rect{X: fr.X(), Y: fr.Y(), Width: fr.Width(), Height: fr.Height()}, true
	}
	if rect, ok := rects[w.ID]; ok {
		return platform.Rect{X: rect.Left, Y: rect.Top, Width: rect.Width(), Height: rect.Height()}, true
	}
	return platform.Rect{}, false
}

func (r *Reconciler) warnFailed(w *container.Container, op string, err error) {
	if r.log != nil {
		r.log.Warn("platform call failed, will retry", "op", op, "window", w.NativeWindow, "error", err)
	}
}

// syncNativeFocus: if a focus change is
// pending, compare the OS's reported focused window against the tree's
// computed focused container and issue a native focus call if they
// differ. Suppressed when the target is a workspace without windows (no
// native handle to focus).
func (r *Reconciler) syncNativeFocus() {
	if !r.state.Pending.FocusChange {
		return
	}
	r.state.Pending.FocusChange = false

	target := r.state.Focused()
	if target == nil || !target.Kind.IsWindow() {
		return // workspace with no windows: nothing to focus natively.
	}

	current, err := r.state.Backend.ActiveWindow()
	if err == nil && current == target.NativeWindow {
		return
	}

	if err := r.state.Backend.Focus(target.NativeWindow); err != nil {
		if r.log != nil {
			r.log.Warn("native focus sync failed", "window", target.NativeWindow, "error", err)
		}
	}
}

func expandToWindows(dirty []*container.Container) []*container.Container {
	seen := make(map[uuid.UUID]bool)
	var out []*container.Container
	for _, c := range dirty {
		if c.IsDetached() {
			continue
		}
		for _, n := range container.SelfAndDescendants(c) {
			if !n.Kind.IsWindow() || n.IsDetached() {
				continue
			}
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			out = append(out, n)
		}
	}
	return out
}

// dpiScale returns the monitor's DPI scale factor, or nil if the platform
// backend doesn't report one (treated as 1.0 by LengthUnit.ToPx).
func dpiScale(mon *container.Container) *float64 {
	return nil
}

func rectFromPlatform(r platform.Rect) geometry.Rect {
	return geometry.NewRect(r.X, r.Y, r.Width, r.Height)
}
