package daemon

import (
	"log/slog"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/platform"
	"github.com/foliagewm/foliage/internal/wm"
)

// Daemon drives the platform's event stream into the WM state's F-handlers
// and runs the G-reconciler at every quiescence point, the way the
// teacher's runDaemon wired its tiler/hotkeys/ipc and then blocked on
// backend.EventLoop().
type Daemon struct {
	state      *wm.State
	reconciler *Reconciler
	log        *slog.Logger
	reloadChan chan *config.Config
}

// New builds a Daemon over state, ready to Run once the backend and IPC
// server have been started by the caller. reloadChan is shared with the
// IPC server and the config.Watcher: whichever fires first, the daemon
// applies the new config on its next loop iteration.
func New(state *wm.State, log *slog.Logger, reloadChan chan *config.Config) *Daemon {
	return &Daemon{state: state, reconciler: NewReconciler(state, log), log: log, reloadChan: reloadChan}
}

// Run starts the backend's event pump and blocks, dispatching every event
// into the WM state and reconciling after each, until the backend's event
// channel closes.
func (d *Daemon) Run() {
	go func() {
		if err := d.state.Backend.Run(); err != nil && d.log != nil {
			d.log.Error("platform backend stopped", "error", err)
		}
	}()

	events := d.state.Backend.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.dispatch(ev)
		case newCfg, ok := <-d.reloadChan:
			if !ok {
				d.reloadChan = nil
				continue
			}
			d.applyConfig(newCfg)
		}
	}
}

func (d *Daemon) dispatch(ev platform.Event) {
	s := d.state
	s.Lock()

	switch ev.Kind {
	case platform.EventWindowShown:
		if info, ok := d.shownInfo(ev.Window); ok {
			s.HandleWindowShown(info)
		}
	case platform.EventWindowDestroyed:
		s.HandleWindowDestroyed(ev.Window)
	case platform.EventWindowFocused:
		s.HandleWindowFocused(ev.Window)
	case platform.EventWindowMinimized:
		s.HandleWindowMinimized(ev.Window)
	case platform.EventWindowMovedOrResized:
		s.HandleWindowMovedOrResized(ev.Window, rectFromPlatform(ev.Bounds))
	case platform.EventWindowLocationChanged:
		if rect, ok := s.Backend.WindowBounds(ev.Window); ok {
			s.HandleWindowLocationChanged(ev.Window, rectFromPlatform(rect))
		}
	case platform.EventMonitorAdded:
		s.AddMonitor(ev.Display)
	case platform.EventMonitorRemoved:
		d.removeMonitor(ev.Display.ID)
	case platform.EventDisplaySettingsChanged:
		s.MarkDirty(s.Root)
	}

	d.reconciler.Run()
	s.Unlock()
}

// shownInfo resolves the title/class/pid metadata handle_window_shown needs
// by scanning every display's window list for a match, since a freshly
// mapped window carries no location history of its own yet.
func (d *Daemon) shownInfo(nw platform.WindowID) (wm.WindowShownInfo, bool) {
	displays, err := d.state.Backend.Displays()
	if err != nil {
		return wm.WindowShownInfo{}, false
	}
	for _, disp := range displays {
		windows, err := d.state.Backend.ListWindowsOnDisplay(disp.ID)
		if err != nil {
			continue
		}
		for _, win := range windows {
			if win.ID != nw {
				continue
			}
			return wm.WindowShownInfo{
				Native:       nw,
				Title:        win.Title,
				Class:        win.AppID,
				InitialState: container.StateTiling,
				Rect:         rectFromPlatform(win.Bounds),
			}, true
		}
	}
	return wm.WindowShownInfo{}, false
}

// removeMonitor moves every child (window or split) of the departing
// monitor's workspaces into the displayed workspace of the nearest
// remaining monitor, then removes the departing monitor; its workspaces
// themselves are not moved. When no other monitor remains, the departing
// monitor's workspaces are detached together with their windows.
func (d *Daemon) removeMonitor(displayID int) {
	s := d.state
	mon := s.MonitorByNative(displayID)
	if mon == nil {
		return
	}

	b := mon.NativeMonitor.Bounds
	cx, cy := b.X+b.Width/2, b.Y+b.Height/2

	var fallback *container.Container
	bestDist := -1
	for _, m := range s.Monitors() {
		if m == mon {
			continue
		}
		mb := m.NativeMonitor.Bounds
		mcx, mcy := mb.X+mb.Width/2, mb.Y+mb.Height/2
		dist := (mcx-cx)*(mcx-cx) + (mcy-cy)*(mcy-cy)
		if fallback == nil || dist < bestDist {
			fallback, bestDist = m, dist
		}
	}
	if fallback == nil {
		for _, ws := range mon.Children() {
			container.Detach(ws, s)
		}
		s.RemoveMonitor(mon)
		return
	}

	dest := displayedWorkspace(fallback)
	if dest != nil {
		for _, ws := range mon.Children() {
			for _, win := range append([]*container.Container(nil), ws.Children()...) {
				container.Move(win, dest, -1, s)
				s.MarkDirty(win)
			}
		}
	}
	s.RemoveMonitor(mon)
}

func displayedWorkspace(mon *container.Container) *container.Container {
	for _, c := range mon.Children() {
		if c.Kind == container.KindWorkspace && c.IsDisplayed() {
			return c
		}
	}
	return nil
}

func (d *Daemon) applyConfig(newCfg *config.Config) {
	d.state.Lock()
	d.state.Config = newCfg
	d.state.MarkDirty(d.state.Root)
	d.state.Unlock()
}
