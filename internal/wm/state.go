// Package wm wires the container tree to the platform backend: it holds
// the daemon's live state, dispatches OS and command events into the
// F-handlers that mutate the tree, and records the pending work that the
// reconciler in internal/daemon flushes back to the window system.
package wm

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/geometry"
	"github.com/foliagewm/foliage/internal/platform"
)

// FocusGracePeriod is how long after an unmanage or minimize an
// OS-reported focus event is vetoed, so it cannot override the focus change
// the WM itself just made. A single shared timestamp rather than a per-window
// one is a deliberate simplification: two windows racing the grace period
// independently within the same 100ms is not worth tracking separately.
const FocusGracePeriod = 100 * time.Millisecond

// PendingSync tracks work the reconciler must do on its next pass, set by
// handlers and cleared once flushed.
type PendingSync struct {
	FocusChange bool
}

// NotificationKind tags the DTO-level events published on the state's
// Events channel for IPC subscribers.
type NotificationKind string

const (
	NotifyFocusChanged         NotificationKind = "FocusChanged"
	NotifyWindowManaged        NotificationKind = "WindowManaged"
	NotifyWindowUnmanaged      NotificationKind = "WindowUnmanaged"
	NotifyWorkspaceActivated   NotificationKind = "WorkspaceActivated"
	NotifyWorkspaceUpdated     NotificationKind = "WorkspaceUpdated"
	NotifyBindingModesChanged  NotificationKind = "BindingModesChanged"
	NotifyTilingDirectionChanged NotificationKind = "TilingDirectionChanged"
)

// Notification is a single event-channel item; ContainerID is the subject
// container where applicable (the focused window, the managed/unmanaged
// window, the activated workspace), zero otherwise.
type Notification struct {
	Kind        NotificationKind
	ContainerID uuid.UUID
}

// State is the daemon's single mutable source of truth: the container tree
// plus the lookup indices and bookkeeping needed to drive it from OS events
// and IPC commands. It implements container.DirtySink.
type State struct {
	mu sync.Mutex

	Root    *container.Container
	Backend platform.Backend
	Config  *config.Config
	Log     *slog.Logger

	Pending PendingSync

	// ActiveBorderWindow is a non-owning reference (id only) to the window
	// currently wearing the active-border decoration; resolved through
	// ContainerByID and silently treated as absent if stale.
	ActiveBorderWindow uuid.UUID

	// BindingModes holds the names of the currently active binding modes;
	// resolving a key sequence to a command is the hotkey layer's job, this
	// just tracks which named modes are "on".
	BindingModes []string

	// UnmanagedOrMinimizedAt is stamped whenever a window is destroyed or
	// minimized; a WindowFocused event arriving within
	// FocusGracePeriod afterward is treated as an OS-initiated
	// reassignment and vetoed rather than applied.
	UnmanagedOrMinimizedAt time.Time

	monitors map[int]*container.Container
	windows  map[platform.WindowID]*container.Container
	byID     map[uuid.UUID]*container.Container
	dirty    map[uuid.UUID]*container.Container

	events chan Notification
}

// New builds an empty state rooted at a fresh container tree.
func New(backend platform.Backend, cfg *config.Config, log *slog.Logger) *State {
	root := container.NewRoot()
	s := &State{
		Root:     root,
		Backend:  backend,
		Config:   cfg,
		Log:      log,
		monitors: make(map[int]*container.Container),
		windows:  make(map[platform.WindowID]*container.Container),
		byID:     make(map[uuid.UUID]*container.Container),
		dirty:    make(map[uuid.UUID]*container.Container),
		events:   make(chan Notification, 256),
	}
	s.index(root)
	return s
}

// Events returns the channel DTO-level notifications are published on for
// IPC subscribers. Never closed during normal operation.
func (s *State) Events() <-chan Notification { return s.events }

// Notify publishes a notification, dropping it rather than blocking if no
// subscriber is draining the channel quickly enough.
func (s *State) Notify(kind NotificationKind, id uuid.UUID) {
	select {
	case s.events <- Notification{Kind: kind, ContainerID: id}:
	default:
		if s.Log != nil {
			s.Log.Warn("event channel full, dropping notification", "kind", kind)
		}
	}
}

// MarkDirty implements container.DirtySink: the reconciler drains this set
// on its next pass rather than redrawing synchronously inside a handler.
func (s *State) MarkDirty(c *container.Container) {
	if c == nil {
		return
	}
	s.dirty[c.ID] = c
}

// TakeDirty drains and returns the current dirty set (the redraw queue,
// append-only within a handler and cleared on flush).
func (s *State) TakeDirty() []*container.Container {
	out := make([]*container.Container, 0, len(s.dirty))
	for _, c := range s.dirty {
		out = append(out, c)
	}
	s.dirty = make(map[uuid.UUID]*container.Container)
	return out
}

// Lock / Unlock expose the state's mutex so the daemon's single event loop
// can serialize handler dispatch with IPC command handling; both run on the
// same goroutine per iteration in practice, but commands may arrive from
// the IPC server's own goroutine.
func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

// Populate bootstraps the tree from the backend's current displays: one
// Monitor per display, one workspace per configured entry (falling back to
// a single default), the first marked displayed.
func (s *State) Populate() error {
	displays, err := s.Backend.Displays()
	if err != nil {
		return err
	}
	for _, d := range displays {
		s.addMonitor(d)
	}
	return nil
}

func (s *State) addMonitor(d platform.Display) *container.Container {
	mon := container.NewMonitor(d)
	container.Attach(s.Root, mon, -1, s)
	s.monitors[d.ID] = mon
	s.index(mon)

	names := s.configuredWorkspaceNames()
	for i, name := range names {
		ws := container.NewWorkspace(name.Name, name.DisplayName, name.KeepAlive, geometry.Horizontal)
		container.Attach(mon, ws, -1, s)
		if i == 0 {
			ws.SetDisplayed(true)
		}
		s.index(ws)
	}

	return mon
}

type workspaceName struct {
	Name, DisplayName string
	KeepAlive         bool
}

func (s *State) configuredWorkspaceNames() []workspaceName {
	if s.Config == nil || len(s.Config.Workspaces) == 0 {
		return []workspaceName{{Name: "1", DisplayName: "1", KeepAlive: true}}
	}
	out := make([]workspaceName, 0, len(s.Config.Workspaces))
	for _, w := range s.Config.Workspaces {
		out = append(out, workspaceName{Name: w.Name, DisplayName: w.DisplayName, KeepAlive: w.KeepAlive})
	}
	return out
}

// AddMonitor registers a newly connected display (e.g. a hotplug event
// after startup), creating its configured workspaces the same way Populate
// does for the initial set.
func (s *State) AddMonitor(d platform.Display) *container.Container {
	return s.addMonitor(d)
}

// RemoveMonitor detaches a monitor (e.g. on unplug), after the caller has
// migrated any windows it still held elsewhere.
func (s *State) RemoveMonitor(mon *container.Container) {
	delete(s.monitors, mon.NativeMonitor.ID)
	container.Detach(mon, s)
	s.unindex(mon)
}

// IndexWindow registers a newly managed window in the lookup indices; a
// handler must call this after attaching a window anywhere in the tree.
func (s *State) IndexWindow(w *container.Container) {
	s.byID[w.ID] = w
	s.windows[w.NativeWindow] = w
}

// UnindexWindow removes a window (and its own id, it has no descendants)
// from the lookup indices.
func (s *State) UnindexWindow(w *container.Container) {
	delete(s.byID, w.ID)
	delete(s.windows, w.NativeWindow)
}

func (s *State) index(c *container.Container) {
	for _, n := range container.SelfAndDescendants(c) {
		s.byID[n.ID] = n
		if n.Kind.IsWindow() {
			s.windows[n.NativeWindow] = n
		}
	}
}

func (s *State) unindex(c *container.Container) {
	for _, n := range container.SelfAndDescendants(c) {
		delete(s.byID, n.ID)
		if n.Kind.IsWindow() {
			delete(s.windows, n.NativeWindow)
		}
	}
}

// ContainerByID looks up any container by its id.
func (s *State) ContainerByID(id uuid.UUID) *container.Container { return s.byID[id] }

// WindowByNative looks up a managed window by its platform window id.
func (s *State) WindowByNative(id platform.WindowID) *container.Container { return s.windows[id] }

// MonitorByNative looks up a Monitor container by its platform display id.
func (s *State) MonitorByNative(id int) *container.Container { return s.monitors[id] }

// Monitors returns every Monitor container, in no particular order.
func (s *State) Monitors() []*container.Container {
	out := make([]*container.Container, 0, len(s.monitors))
	for _, m := range s.monitors {
		out = append(out, m)
	}
	return out
}

// Focused returns the currently focused container, computed (never cached)
// by walking child_focus_order from the root.
func (s *State) Focused() *container.Container {
	return container.LastFocusedDescendant(s.Root)
}

// FocusMode derives whether the focused container is "tiling" or
// "floating" by inspecting the focused container's Kind/State, falling
// back to "tiling" when focus sits on a workspace with no windows.
func (s *State) FocusMode() string {
	f := s.Focused()
	if f == nil || !f.Kind.IsWindow() {
		return "tiling"
	}
	switch f.State {
	case container.StateFloating, container.StateFullscreen:
		return "floating"
	default:
		return "tiling"
	}
}

// SetFocus records target as the tree's focused descendant. It does not
// touch PendingSync or UnmanagedOrMinimizedAt; callers (the F-handlers)
// manage those per the specific transition they're implementing.
func (s *State) SetFocus(target *container.Container) {
	container.SetFocusedDescendant(target, nil)
}

// WithinFocusGrace reports whether now falls inside the grace window opened
// by the last unmanage-or-minimize, used by handle_window_focused to veto a
// stale OS focus event racing the WM's own successor choice.
func (s *State) WithinFocusGrace(now time.Time) bool {
	return now.Sub(s.UnmanagedOrMinimizedAt) < FocusGracePeriod
}

// StampUnmanagedOrMinimized records now as the moment a window was just
// destroyed or minimized, opening the focus-override grace window.
func (s *State) StampUnmanagedOrMinimized(now time.Time) {
	s.UnmanagedOrMinimizedAt = now
}

// NearestMonitor returns the Monitor container whose bounds center is
// closest to (x, y); used by HandleWindowLocationChanged's
// monitor-crossing detection. Returns nil if
// no monitor is registered.
func (s *State) NearestMonitor(x, y int) *container.Container {
	var best *container.Container
	bestDist := -1
	for _, m := range s.monitors {
		b := m.NativeMonitor.Bounds
		cx, cy := b.X+b.Width/2, b.Y+b.Height/2
		dist := (cx-x)*(cx-x) + (cy-y)*(cy-y)
		if best == nil || dist < bestDist {
			best, bestDist = m, dist
		}
	}
	return best
}
