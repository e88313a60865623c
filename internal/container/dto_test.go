package container

import (
	"testing"

	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/geometry"
)

func TestToDTOMarksFocusedContainer(t *testing.T) {
	root := NewRoot()
	ws := NewWorkspace("1", "one", true, geometry.Horizontal)
	Attach(root, ws, -1, nil)
	win := NewTilingWindow(7, 1.0)
	Attach(ws, win, -1, nil)

	dto := ToDTO(root, win, nil)

	if dto.HasFocus {
		t.Fatalf("expected root to not have focus")
	}
	wsDTO := dto.Children[0]
	if wsDTO.Name != "1" || wsDTO.DisplayName != "one" {
		t.Fatalf("unexpected workspace fields: %+v", wsDTO)
	}
	winDTO := wsDTO.Children[0]
	if !winDTO.HasFocus {
		t.Fatalf("expected window to be marked as focused")
	}
	if winDTO.State != "tiling" {
		t.Fatalf("expected state tiling, got %q", winDTO.State)
	}
	if winDTO.ParentID == nil || *winDTO.ParentID != ws.ID {
		t.Fatalf("expected window's parentId to be ws.ID")
	}
}

func TestToDTOIncludesFloatingGeometry(t *testing.T) {
	root := NewRoot()
	ws := NewWorkspace("1", "1", false, geometry.Horizontal)
	Attach(root, ws, -1, nil)
	rect := geometry.NewRect(10, 20, 300, 200)
	win := NewNonTilingWindow(3, StateFloating, rect)
	Attach(ws, win, -1, nil)

	dto := ToDTO(root, nil, nil)
	winDTO := dto.Children[0].Children[0]

	if winDTO.X != 10 || winDTO.Y != 20 || winDTO.Width != 300 || winDTO.Height != 200 {
		t.Fatalf("expected floating geometry to be carried over, got %+v", winDTO)
	}
}

func TestToDTOIncludesWorkspaceRect(t *testing.T) {
	root := NewRoot()
	ws := NewWorkspace("1", "1", true, geometry.Horizontal)
	Attach(root, ws, -1, nil)

	rects := map[uuid.UUID]geometry.Rect{
		ws.ID: geometry.NewRect(0, 0, 1920, 1040),
	}

	dto := ToDTO(root, nil, rects)
	wsDTO := dto.Children[0]

	if wsDTO.X != 0 || wsDTO.Y != 0 || wsDTO.Width != 1920 || wsDTO.Height != 1040 {
		t.Fatalf("expected workspace rect to be carried over, got %+v", wsDTO)
	}
}
