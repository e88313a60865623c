// Package container implements the window manager's hierarchical layout
// tree: the root/monitor/workspace/split/window hierarchy, the invariants
// that must hold after every mutation, and the algorithms (resize
// distribution, flatten, focus tracking, window-state transitions) that
// keep it normalized.
//
// A container is modeled as a single tagged struct rather than one type per
// variant: every container shares a small header (id, parent, children,
// child-focus-order) and the variant-specific fields that don't apply to a
// given Kind are simply left zero. This mirrors the "shared header plus
// associated functions" collapse the design favors over per-variant getter
// mixins.
package container

import (
	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/geometry"
	"github.com/foliagewm/foliage/internal/platform"
)

// Kind tags which variant of the container sum type a Container is.
type Kind int

const (
	KindRoot Kind = iota
	KindMonitor
	KindWorkspace
	KindSplit
	KindTilingWindow
	KindNonTilingWindow
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindMonitor:
		return "monitor"
	case KindWorkspace:
		return "workspace"
	case KindSplit:
		return "split"
	case KindTilingWindow:
		return "tiling_window"
	case KindNonTilingWindow:
		return "non_tiling_window"
	default:
		return "unknown"
	}
}

// IsWindow reports whether the kind represents a managed window (as opposed
// to a structural container).
func (k Kind) IsWindow() bool {
	return k == KindTilingWindow || k == KindNonTilingWindow
}

// WindowState is the logical state of a managed window. It is distinct from
// DisplayState: WindowState describes where the window sits in the layout
// model (tiled, floating, fullscreen, minimized); DisplayState describes
// its OS-visibility lifecycle (shown, being hidden, hidden).
type WindowState int

const (
	StateTiling WindowState = iota
	StateFloating
	StateFullscreen
	StateMinimized
)

func (s WindowState) String() string {
	switch s {
	case StateTiling:
		return "tiling"
	case StateFloating:
		return "floating"
	case StateFullscreen:
		return "fullscreen"
	case StateMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// sameKind reports whether two window states are the same "family" for the
// purposes of focus_target_after_removal's same-kind preference: any two
// Floating windows match, any two Fullscreen windows match, Tiling matches
// Tiling, and Minimized never matches (it is excluded from the preference
// entirely).
func sameKind(a, b WindowState) bool {
	if a == StateMinimized || b == StateMinimized {
		return false
	}
	return a == b
}

// DisplayState is the OS-visibility lifecycle of a window, independent of
// its WindowState.
type DisplayState int

const (
	// DisplayShown is the steady visible state: the window is on a
	// displayed workspace and has been handed its target geometry.
	DisplayShown DisplayState = iota
	// DisplayHiding is transient: the WM has asked the OS to hide the
	// window (e.g. a workspace switch moved it off-screen) but the
	// reconciler has not yet confirmed/resolved the transition.
	DisplayHiding
	// DisplayHidden is steady-state invisible: the window's workspace is
	// not currently displayed.
	DisplayHidden
)

func (s DisplayState) String() string {
	switch s {
	case DisplayShown:
		return "shown"
	case DisplayHiding:
		return "hiding"
	case DisplayHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// MinTilingSize is the floor every tiling size fraction must respect.
const MinTilingSize = 0.01

// tilingMemory records where a window sat in the tiling tree before it left
// Tiling, so that a later transition back to Tiling can restore its exact
// position and size rather than re-appending at the end.
type tilingMemory struct {
	parent *Container // split or workspace it was a tiling child of
	index  int        // position within parent.children at detach time
	size   float64    // tiling size fraction at detach time
}

// Container is the sum type described in the data model: Root, Monitor,
// Workspace, SplitContainer, TilingWindow, and NonTilingWindow all share
// this struct; Kind selects which fields are meaningful.
type Container struct {
	ID   uuid.UUID
	Kind Kind

	parent          *Container
	children        []*Container
	childFocusOrder []uuid.UUID

	// Monitor fields.
	NativeMonitor platform.Display

	// Workspace fields.
	Name          string
	DisplayName   string
	KeepAlive     bool // workspace is not destroyed when emptied
	displayed     bool // true for the one workspace per monitor currently shown

	// Split / TilingWindow fields.
	TilingDirection geometry.TilingDirection // split only
	TilingSize      float64                  // split + tiling window

	// Window fields (TilingWindow / NonTilingWindow).
	NativeWindow  platform.WindowID
	State         WindowState
	PrevState     *WindowState // stash for Fullscreen/Minimized reversibility
	DisplayState  DisplayState
	FloatingRect  geometry.Rect // current rect while Floating
	tilingMemory  *tilingMemory
}

// NewRoot constructs the unique root container.
func NewRoot() *Container {
	return &Container{ID: uuid.New(), Kind: KindRoot}
}

// NewMonitor constructs a monitor container wrapping a platform display.
func NewMonitor(display platform.Display) *Container {
	return &Container{ID: uuid.New(), Kind: KindMonitor, NativeMonitor: display}
}

// NewWorkspace constructs a workspace container.
func NewWorkspace(name, displayName string, keepAlive bool, direction geometry.TilingDirection) *Container {
	return &Container{
		ID:              uuid.New(),
		Kind:            KindWorkspace,
		Name:            name,
		DisplayName:     displayName,
		KeepAlive:       keepAlive,
		TilingDirection: direction,
	}
}

// NewSplit constructs a structural split container with an initial tiling
// size (callers normalize siblings afterward).
func NewSplit(direction geometry.TilingDirection, size float64) *Container {
	return &Container{ID: uuid.New(), Kind: KindSplit, TilingDirection: direction, TilingSize: size}
}

// NewTilingWindow constructs a managed window already in the Tiling state.
func NewTilingWindow(native platform.WindowID, size float64) *Container {
	return &Container{
		ID:            uuid.New(),
		Kind:          KindTilingWindow,
		NativeWindow:  native,
		State:         StateTiling,
		TilingSize:    size,
		DisplayState:  DisplayShown,
	}
}

// NewNonTilingWindow constructs a managed window in a non-tiling state
// (Floating, Fullscreen, or Minimized).
func NewNonTilingWindow(native platform.WindowID, state WindowState, rect geometry.Rect) *Container {
	return &Container{
		ID:           uuid.New(),
		Kind:         KindNonTilingWindow,
		NativeWindow: native,
		State:        state,
		FloatingRect: rect,
		DisplayState: DisplayShown,
	}
}
