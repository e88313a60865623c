//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/foliagewm/foliage/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend
// interface, translating xgbutil/EWMH calls into platform-neutral
// operations and x11.Events into platform.Events.
type LinuxBackend struct {
	conn   *x11.Connection
	log    *slog.Logger
	events chan Event
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend opens a fresh X11 connection and wraps it.
func NewLinuxBackend(log *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn, log: log, events: make(chan Event, 256)}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for hotkey registration,
// which operates directly on xgbutil/keybind rather than through Backend.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the root window hotkeys are grabbed against.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Events returns the channel platform.Events are published on.
func (b *LinuxBackend) Events() <-chan Event { return b.events }

// Run subscribes to the X11 event sources and pumps xgbutil's dispatcher
// (blocking) until the connection closes, translating each x11.Event into
// a platform.Event as it arrives.
func (b *LinuxBackend) Run() error {
	raw := b.conn.Subscribe(b.log)
	go func() {
		for ev := range raw {
			if translated, ok := b.translate(ev); ok {
				select {
				case b.events <- translated:
				default:
					if b.log != nil {
						b.log.Warn("platform event channel full, dropping event")
					}
				}
			}
		}
		close(b.events)
	}()
	b.conn.EventLoop()
	return nil
}

func (b *LinuxBackend) translate(ev x11.Event) (Event, bool) {
	switch ev.Kind {
	case x11.EventMapNotify:
		return Event{Kind: EventWindowShown, Window: WindowID(ev.Window)}, true
	case x11.EventDestroyNotify:
		return Event{Kind: EventWindowDestroyed, Window: WindowID(ev.Window)}, true
	case x11.EventActiveWindowChanged:
		return Event{Kind: EventWindowFocused, Window: WindowID(ev.Window)}, true
	case x11.EventConfigureNotify:
		return Event{
			Kind:   EventWindowMovedOrResized,
			Window: WindowID(ev.Window),
			Bounds: Rect{X: ev.Bounds.X, Y: ev.Bounds.Y, Width: ev.Bounds.Width, Height: ev.Bounds.Height},
		}, true
	case x11.EventWmStateChanged:
		return Event{Kind: EventWindowLocationChanged, Window: WindowID(ev.Window)}, true
	case x11.EventScreenChanged:
		return Event{Kind: EventDisplaySettingsChanged}, true
	default:
		return Event{}, false
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveDisplay returns the currently active display.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	active, err := conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}

	return displayFromMonitor(*active), nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindowsOnDisplay lists normal windows whose centers are inside the display bounds.
func (b *LinuxBackend) ListWindowsOnDisplay(displayID int) ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}

	var target *Display
	for i := range displays {
		if displays[i].ID == displayID {
			target = &displays[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}

	clients, err := ewmh.ClientListGet(conn.XUtil)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) {
			continue
		}

		rect, ok := b.WindowBounds(WindowID(windowID))
		if !ok {
			continue
		}

		if !containsPoint(target.Bounds, rect.X+rect.Width/2, rect.Y+rect.Height/2) {
			continue
		}

		pid := 0
		if p, err := ewmh.WmPidGet(conn.XUtil, windowID); err == nil {
			pid = int(p)
		}

		windows = append(windows, Window{
			ID:     WindowID(windowID),
			PID:    pid,
			AppID:  windowAppID(conn, windowID),
			Title:  windowTitle(conn, windowID),
			Bounds: rect,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// WindowBounds returns a window's current on-screen geometry.
func (b *LinuxBackend) WindowBounds(windowID WindowID) (Rect, bool) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, false
	}
	x, y, w, h, ok := conn.WindowRect(xproto.Window(windowID))
	return Rect{X: x, Y: y, Width: w, Height: h}, ok
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Focus sets X input focus to a window; it does not raise it.
func (b *LinuxBackend) Focus(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow2(xproto.Window(windowID))
}

// Show maps a window.
func (b *LinuxBackend) Show(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ShowWindow(xproto.Window(windowID))
}

// Hide unmaps a window.
func (b *LinuxBackend) Hide(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.HideWindow(xproto.Window(windowID))
}

// Minimize requests iconic state via WM_CHANGE_STATE.
func (b *LinuxBackend) Minimize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Minimize(xproto.Window(windowID))
}

// Restore un-minimizes a window by remapping it.
func (b *LinuxBackend) Restore(windowID WindowID) error {
	return b.Show(windowID)
}

// SetFullscreen requests or clears _NET_WM_STATE_FULLSCREEN.
func (b *LinuxBackend) SetFullscreen(windowID WindowID, on bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetFullscreenState(xproto.Window(windowID), on)
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	deleteReply, err := xproto.InternAtom(conn.XUtil.Conn(), false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}
	protocolsReply, err := xproto.InternAtom(conn.XUtil.Conn(), false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(windowID),
		Type:   protocolsReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteReply.Atom), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		conn.XUtil.Conn(),
		false,
		xproto.Window(windowID),
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// displayFromMonitor sets Usable equal to Bounds: dock struts are not
// subtracted here, so Usable excludes them only where m already does.
func displayFromMonitor(m x11.Monitor) Display {
	bounds := Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
	return Display{ID: m.ID, Name: m.Name, Bounds: bounds, Usable: bounds}
}

func containsPoint(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func windowAppID(conn *x11.Connection, windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(conn.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func windowTitle(conn *x11.Connection, windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(conn.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(conn.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return ""
}
