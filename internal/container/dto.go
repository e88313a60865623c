package container

import (
	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/geometry"
)

// DTO is the JSON-serializable snapshot of a Container returned over IPC.
// Kind selects which of the variant-specific fields are populated;
// fields that don't apply to a given Kind are omitted via omitempty.
type DTO struct {
	ID              uuid.UUID `json:"id"`
	ParentID        *uuid.UUID `json:"parentId,omitempty"`
	Kind            string    `json:"kind"`
	Children        []*DTO    `json:"children,omitempty"`
	ChildFocusOrder []uuid.UUID `json:"childFocusOrder,omitempty"`
	HasFocus        bool      `json:"hasFocus"`

	// Monitor.
	NativeMonitor int `json:"nativeMonitor,omitempty"`

	// Workspace.
	Name            string `json:"name,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
	IsDisplayed     bool   `json:"isDisplayed,omitempty"`
	TilingDirection string `json:"tilingDirection,omitempty"`

	// Split + tiling window.
	TilingSize float64 `json:"tilingSize,omitempty"`

	// Window (tiling + non-tiling).
	NativeWindow uint32 `json:"nativeWindow,omitempty"`
	State        string `json:"state,omitempty"`
	DisplayState string `json:"displayState,omitempty"`
	X            int    `json:"x,omitempty"`
	Y            int    `json:"y,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// ToDTO recursively converts c and its descendants into the wire format.
// focused, the tree's focused container (see LastFocusedDescendant(root)), is
// used to set HasFocus on exactly one node: the currently focused
// container itself, not its ancestors. workspaceRects supplies each
// workspace's effective content rect (keyed by its id), computed by the
// caller since deriving it requires the tiling package's layout math,
// which this package cannot import without a cycle; a nil or missing
// entry simply leaves the workspace's rect fields zeroed.
func ToDTO(c *Container, focused *Container, workspaceRects map[uuid.UUID]geometry.Rect) *DTO {
	d := &DTO{
		ID:              c.ID,
		Kind:            c.Kind.String(),
		ChildFocusOrder: c.childFocusOrder,
		HasFocus:        c == focused,
	}
	if c.parent != nil {
		pid := c.parent.ID
		d.ParentID = &pid
	}

	switch c.Kind {
	case KindMonitor:
		d.NativeMonitor = c.NativeMonitor.ID
	case KindWorkspace:
		d.Name = c.Name
		d.DisplayName = c.DisplayName
		d.IsDisplayed = c.displayed
		d.TilingDirection = string(c.TilingDirection)
		if rect, ok := workspaceRects[c.ID]; ok {
			d.X = rect.X()
			d.Y = rect.Y()
			d.Width = rect.Width()
			d.Height = rect.Height()
		}
	case KindSplit:
		d.TilingDirection = string(c.TilingDirection)
		d.TilingSize = c.TilingSize
	case KindTilingWindow, KindNonTilingWindow:
		d.NativeWindow = uint32(c.NativeWindow)
		d.State = c.State.String()
		d.DisplayState = c.DisplayState.String()
		if c.Kind == KindTilingWindow {
			d.TilingSize = c.TilingSize
		}
		if c.State == StateFloating || c.State == StateFullscreen {
			d.X = c.FloatingRect.X()
			d.Y = c.FloatingRect.Y()
			d.Width = c.FloatingRect.Width()
			d.Height = c.FloatingRect.Height()
		}
	}

	for _, child := range c.children {
		d.Children = append(d.Children, ToDTO(child, focused, workspaceRects))
	}

	return d
}
