// Package hotkeys binds configured key sequences to WM command strings via
// xgbutil's global keygrab: register once at startup, dispatch into the
// daemon from the X event loop's own goroutine.
package hotkeys

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/platform"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Dispatch runs a resolved command string against the daemon. Interpreting
// the string (e.g. "focus-workspace 3", "set-tiling-direction vertical") is
// the daemon's job; the hotkey layer only resolves which string a key
// sequence maps to and whether its binding mode is currently active.
type Dispatch func(command string)

// Handler manages global keyboard shortcuts, grouped into the named
// binding modes a WindowRule or keybinding can toggle on and off.
type Handler struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	dispatch Dispatch
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler bound to backend's X11 connection, if
// the backend exposes one (a non-X11 backend simply registers nothing).
func NewHandler(backend platform.Backend, dispatch Dispatch) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{xu: xu, root: root, dispatch: dispatch}
}

// RegisterBindingModes registers every key sequence across modes, each
// gated by isActive(modeName); the empty mode name is always active, as
// the base (un-toggled) binding set.
func (h *Handler) RegisterBindingModes(modes []config.BindingMode, isActive func(mode string) bool) error {
	for _, mode := range modes {
		modeName := mode.Name
		for seq, cmd := range mode.Bindings {
			command := cmd
			if err := h.RegisterFunc(seq, func() {
				if modeName != "" && isActive != nil && !isActive(modeName) {
					return
				}
				h.dispatch(command)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback for a single key
// sequence (e.g. "Mod4-Return").
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
