package wm

import (
	"regexp"
	"time"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/geometry"
	"github.com/foliagewm/foliage/internal/platform"
)

// Now is overridable in tests so the 100ms grace-period comparisons are
// deterministic; production callers never set it.
var Now = time.Now

// HandleWindowFocused handles the OS reporting nw as the newly-focused
// window. Guards against unmanaged,
// Hiding, and already-focused windows, demotes a fullscreen focus-holder,
// vetoes the event inside the post-unmanage/minimize grace window, and
// otherwise records the new focus and requests a native-focus sync.
func (s *State) HandleWindowFocused(nw platform.WindowID) {
	w := s.WindowByNative(nw)
	if w == nil {
		return // window not managed: silent.
	}
	if w.DisplayState == container.DisplayHiding {
		return
	}
	if w == s.Focused() {
		return
	}

	if prev := s.Focused(); prev != nil && prev.Kind.IsWindow() && prev.State == container.StateFullscreen {
		container.UpdateWindowState(prev, container.StateMinimized, s)
	}

	if s.WithinFocusGrace(Now()) {
		s.Pending.FocusChange = true
		return
	}

	if w.DisplayState == container.DisplayHidden {
		s.focusWorkspaceOf(w)
	}

	s.SetFocus(w)
	s.runWindowRules(w, ruleEventFocus)
	s.Pending.FocusChange = true
	s.Notify(NotifyFocusChanged, w.ID)
}

// HandleWindowDestroyed handles a managed window being destroyed. The
// focus target is computed *before* detaching, since
// FocusTargetAfterRemoval needs w still in place to read its siblings and
// state kind. If w was not the focused container, no focus change is
// needed at all.
func (s *State) HandleWindowDestroyed(nw platform.WindowID) {
	w := s.WindowByNative(nw)
	if w == nil {
		return
	}

	wasFocused := w == s.Focused()
	target := container.FocusTargetAfterRemoval(w, wasFocused)

	parent := w.Parent()
	container.Detach(w, s)
	if parent != nil && parent.Kind == container.KindSplit {
		flattenAncestors(parent, s)
	}
	s.UnindexWindow(w)
	s.StampUnmanagedOrMinimized(Now())

	if target != nil {
		s.SetFocus(target)
		s.Pending.FocusChange = true
	}
	s.Notify(NotifyWindowUnmanaged, w.ID)
}

// HandleWindowMinimized routes a minimize transition through the state
// machine, retargets focus if w held it,
// and open the grace window.
func (s *State) HandleWindowMinimized(nw platform.WindowID) {
	w := s.WindowByNative(nw)
	if w == nil {
		return
	}

	wasFocused := w == s.Focused()
	container.UpdateWindowState(w, container.StateMinimized, s)

	if target := container.FocusTargetAfterRemoval(w, wasFocused); target != nil {
		s.SetFocus(target)
		s.Pending.FocusChange = true
	}
	s.StampUnmanagedOrMinimized(Now())
}

// WindowShownInfo carries the details handle_window_shown needs to pick a
// target state and workspace; the platform backend and window-rule
// matching fill this in before calling HandleWindowShown.
type WindowShownInfo struct {
	Native       platform.WindowID
	Title        string
	Class        string
	Process      string
	InitialState container.WindowState // Tiling unless a rule/default says otherwise
	Rect         geometry.Rect
}

// HandleWindowShown manages a newly shown top-level window onto the
// displayed workspace of its monitor (the
// backend's ActiveDisplay, since a freshly mapped window has no location
// history yet), in the state chosen by window rules or the configured
// default.
func (s *State) HandleWindowShown(info WindowShownInfo) {
	active, err := s.Backend.ActiveDisplay()
	var mon *container.Container
	if err == nil {
		mon = s.MonitorByNative(active.ID)
	}
	if mon == nil {
		for _, m := range s.monitors {
			mon = m
			break
		}
	}
	if mon == nil {
		return
	}

	ws := displayedWorkspace(mon)
	if ws == nil {
		return
	}

	var w *container.Container
	state := info.InitialState
	if rs, ok := s.ruleOverride(info, ruleEventManage); ok {
		state = rs
	}

	switch state {
	case container.StateFloating, container.StateFullscreen, container.StateMinimized:
		w = container.NewNonTilingWindow(info.Native, state, info.Rect)
		container.Attach(ws, w, -1, s)
	default:
		// Enter Tiling through UpdateWindowState so the new window gets its
		// 1/(N+1) share and its tiling siblings are rescaled.
		w = container.NewNonTilingWindow(info.Native, container.StateFloating, info.Rect)
		container.Attach(ws, w, -1, s)
		container.UpdateWindowState(w, container.StateTiling, s)
	}

	s.IndexWindow(w)
	s.SetFocus(w)
	s.Pending.FocusChange = true
	s.Notify(NotifyWindowManaged, w.ID)
}

// HandleWindowMovedOrResized handles an OS-reported move/resize: a
// Floating window's OS rect is authoritative and gets captured; a Tiling window's OS-level move is
// not honored; the reconciler will re-apply its computed geometry on the
// next redraw pass.
func (s *State) HandleWindowMovedOrResized(nw platform.WindowID, rect geometry.Rect) {
	w := s.WindowByNative(nw)
	if w == nil {
		return
	}
	if w.State == container.StateFloating {
		w.FloatingRect = rect
	}
	s.MarkDirty(w)
}

// HandleWindowLocationChanged detects a monitor crossing
// and reparents the window to the new monitor's displayed workspace if so.
func (s *State) HandleWindowLocationChanged(nw platform.WindowID, rect geometry.Rect) {
	w := s.WindowByNative(nw)
	if w == nil {
		return
	}

	cx, cy := rect.CenterX(), rect.CenterY()
	target := s.NearestMonitor(cx, cy)
	if target == nil {
		return
	}
	if container.Monitor(w) == target {
		return
	}

	ws := displayedWorkspace(target)
	if ws == nil {
		return
	}

	oldParent := w.Parent()
	wasTiling := w.State == container.StateTiling
	if wasTiling {
		container.UpdateWindowState(w, container.StateFloating, s)
	}
	container.Move(w, ws, -1, s)
	if oldParent != nil && oldParent.Kind == container.KindSplit {
		flattenAncestors(oldParent, s)
	}
	if wasTiling {
		container.UpdateWindowState(w, container.StateTiling, s)
	}
	s.MarkDirty(w)
}

func (s *State) focusWorkspaceOf(w *container.Container) {
	ws := container.Workspace(w)
	if ws == nil {
		return
	}
	s.FocusWorkspace(ws)
}

// FocusWorkspace marks target's monitor
// to display it (hiding the previously displayed workspace), and sets
// focused descendant to the workspace's last-focused window, or the
// workspace itself if empty.
func (s *State) FocusWorkspace(target *container.Container) {
	mon := container.Monitor(target)
	if mon == nil {
		return
	}

	for _, sib := range mon.Children() {
		if sib.Kind != container.KindWorkspace || sib == target {
			continue
		}
		if sib.IsDisplayed() {
			hideWorkspace(sib, s)
			sib.SetDisplayed(false)
		}
	}

	target.SetDisplayed(true)
	showWorkspace(target, s)
	s.MarkDirty(target)

	dest := container.LastFocusedDescendant(target)
	s.SetFocus(dest)
	s.Pending.FocusChange = true
	s.Notify(NotifyWorkspaceActivated, target.ID)
}

func hideWorkspace(ws *container.Container, sink container.DirtySink) {
	for _, w := range container.Descendants(ws) {
		if !w.Kind.IsWindow() {
			continue
		}
		if w.DisplayState == container.DisplayShown {
			w.DisplayState = container.DisplayHiding
		}
	}
	markContainer(ws, sink)
}

func showWorkspace(ws *container.Container, sink container.DirtySink) {
	for _, w := range container.Descendants(ws) {
		if !w.Kind.IsWindow() {
			continue
		}
		if w.State != container.StateMinimized {
			w.DisplayState = container.DisplayShown
		}
	}
	markContainer(ws, sink)
}

func markContainer(c *container.Container, sink container.DirtySink) {
	if sink == nil {
		return
	}
	if s, ok := sink.(*State); ok {
		s.MarkDirty(c)
	}
}

// flattenAncestors normalizes parent after a caller has detached one of its
// tiling children directly (outside UpdateWindowState's own leaveTiling
// path): rescale the remaining tiling siblings back to summing 1.0, then
// flatten the split if it now holds fewer than two tiling children.
func flattenAncestors(parent *container.Container, sink container.DirtySink) {
	if parent == nil {
		return
	}
	container.RedistributeAfterRemoval(parent)
	if parent.Kind == container.KindSplit {
		container.FlattenAncestors(parent, sink)
	}
}

func displayedWorkspace(mon *container.Container) *container.Container {
	for _, c := range mon.Children() {
		if c.Kind == container.KindWorkspace && c.IsDisplayed() {
			return c
		}
	}
	return nil
}

type ruleEvent string

const (
	ruleEventManage ruleEvent = "manage"
	ruleEventFocus  ruleEvent = "focus"
)

// runWindowRules applies configured window rules for event to w. The
// container does not store w's title, class or process, so rules are
// matched against empty strings: only a rule whose patterns all match an
// empty value applies. Fullscreen demotion runs before this is called
// (HandleWindowFocused's own ordering), and only the state-setting subset
// of a matched rule's commands is interpreted here; anything else is left
// unexecuted.
func (s *State) runWindowRules(w *container.Container, event ruleEvent) {
	if st, ok := s.ruleOverride(WindowShownInfo{Native: w.NativeWindow}, event); ok && st != w.State {
		container.UpdateWindowState(w, st, s)
	}
}

// ruleOverride finds the first matching rule for event and, if any of its
// commands sets a tiling state, returns that state.
func (s *State) ruleOverride(info WindowShownInfo, event ruleEvent) (container.WindowState, bool) {
	if s.Config == nil {
		return 0, false
	}
	for _, rule := range s.Config.WindowRules {
		if string(rule.Event) != string(event) {
			continue
		}
		if !matchRule(rule, info) {
			continue
		}
		for _, cmd := range rule.Commands {
			if st, ok := stateCommand(cmd); ok {
				return st, true
			}
		}
	}
	return 0, false
}

func stateCommand(cmd string) (container.WindowState, bool) {
	switch cmd {
	case "set-floating":
		return container.StateFloating, true
	case "set-fullscreen":
		return container.StateFullscreen, true
	case "set-tiling":
		return container.StateTiling, true
	case "set-minimized":
		return container.StateMinimized, true
	default:
		return 0, false
	}
}

// matchRule reports whether info satisfies every non-empty pattern in
// rule.Match (title/class/process), each compiled as a regexp. An
// unparseable pattern never matches, rather than panicking mid-dispatch.
func matchRule(rule config.WindowRule, info WindowShownInfo) bool {
	return matchField(rule.Match.Title, info.Title) &&
		matchField(rule.Match.Class, info.Class) &&
		matchField(rule.Match.Process, info.Process)
}

func matchField(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
