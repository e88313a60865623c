package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Event mirrors platform.Event without importing the platform package, so
// x11 stays a pure X11 binding; Backend translates between the two.
type Event struct {
	Kind    EventKind
	Window  xproto.Window
	Bounds  struct{ X, Y, Width, Height int }
	Monitor Monitor
}

type EventKind int

const (
	EventMapNotify EventKind = iota
	EventUnmapNotify
	EventDestroyNotify
	EventConfigureNotify
	EventActiveWindowChanged
	EventWmStateChanged
	EventScreenChanged
)

// Subscribe registers the substructure, property, and RandR callbacks the
// daemon needs to track window and monitor lifecycle, and returns the
// channel events are published on. The caller must still run EventLoop (or
// Run) to pump xgbutil's dispatcher.
func (c *Connection) Subscribe(log *slog.Logger) <-chan Event {
	out := make(chan Event, 256)
	emit := func(e Event) {
		select {
		case out <- e:
		default:
			if log != nil {
				log.Warn("x11 event channel full, dropping event", "kind", e.Kind)
			}
		}
	}

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		emit(Event{Kind: EventMapNotify, Window: ev.Window})
	}).Connect(c.XUtil, c.Root)

	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		emit(Event{Kind: EventUnmapNotify, Window: ev.Window})
	}).Connect(c.XUtil, c.Root)

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		emit(Event{Kind: EventDestroyNotify, Window: ev.Window})
	}).Connect(c.XUtil, c.Root)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		e := Event{Kind: EventConfigureNotify, Window: ev.Window}
		e.Bounds.X, e.Bounds.Y = int(ev.X), int(ev.Y)
		e.Bounds.Width, e.Bounds.Height = int(ev.Width), int(ev.Height)
		emit(e)
	}).Connect(c.XUtil, c.Root)

	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := atomName(c, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_ACTIVE_WINDOW":
			active, err := ewmh.ActiveWindowGet(c.XUtil)
			if err == nil {
				emit(Event{Kind: EventActiveWindowChanged, Window: active})
			}
		case "_NET_WM_STATE":
			emit(Event{Kind: EventWmStateChanged, Window: ev.Window})
		}
	}).Connect(c.XUtil, c.Root)

	if err := randr.Init(c.XUtil.Conn()); err == nil {
		randr.SelectInputChecked(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange)
		xevent.RandrScreenChangeNotifyFun(func(_ *xgbutil.XUtil, _ xevent.RandrScreenChangeNotifyEvent) {
			emit(Event{Kind: EventScreenChanged})
		}).Connect(c.XUtil, c.Root)
	}

	return out
}

func atomName(c *Connection, atom xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(c.XUtil.Conn(), atom).Reply()
	if err != nil {
		return "", err
	}
	return reply.Name, nil
}
