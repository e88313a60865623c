package container

import (
	"testing"

	"github.com/foliagewm/foliage/internal/geometry"
)

func newTestWorkspace() (*Container, *Container) {
	root := NewRoot()
	ws := NewWorkspace("1", "1", false, geometry.Horizontal)
	Attach(root, ws, -1, nil)
	return root, ws
}

func TestUpdateWindowStateTilingToFloatingDetachesFromSplit(t *testing.T) {
	_, ws := newTestWorkspace()
	wins := threeEqualTilingWindows(ws)
	target := wins[1]

	UpdateWindowState(target, StateFloating, nil)

	if target.State != StateFloating {
		t.Fatalf("expected StateFloating, got %v", target.State)
	}
	if target.Kind != KindNonTilingWindow {
		t.Fatalf("expected KindNonTilingWindow, got %v", target.Kind)
	}
	if target.Parent() != ws {
		t.Fatalf("expected target reattached directly under ws")
	}
	sum := wins[0].TilingSize + wins[2].TilingSize
	if !approxEqual(sum, 1.0) {
		t.Fatalf("expected remaining tiling siblings to sum to 1.0, got %v", sum)
	}
}

func TestUpdateWindowStateFloatingToTilingRestoresPosition(t *testing.T) {
	_, ws := newTestWorkspace()
	wins := threeEqualTilingWindows(ws)
	target := wins[1]
	originalIndex := indexOf(ws, target)

	UpdateWindowState(target, StateFloating, nil)
	UpdateWindowState(target, StateTiling, nil)

	if target.State != StateTiling {
		t.Fatalf("expected StateTiling, got %v", target.State)
	}
	if target.Kind != KindTilingWindow {
		t.Fatalf("expected KindTilingWindow, got %v", target.Kind)
	}
	if indexOf(ws, target) != originalIndex {
		t.Fatalf("expected target restored to index %d, got %d", originalIndex, indexOf(ws, target))
	}
	if !approxEqual(target.TilingSize, 1.0/3) {
		t.Fatalf("expected restored size 1/3, got %v", target.TilingSize)
	}
}

func TestUpdateWindowStateFullscreenThenRestoreGoesBackToTiling(t *testing.T) {
	_, ws := newTestWorkspace()
	wins := threeEqualTilingWindows(ws)
	target := wins[0]

	UpdateWindowState(target, StateFullscreen, nil)
	if target.State != StateFullscreen {
		t.Fatalf("expected StateFullscreen, got %v", target.State)
	}
	if target.PrevState == nil || *target.PrevState != StateTiling {
		t.Fatalf("expected PrevState stashed as Tiling")
	}

	// Requesting Floating here should be ignored in favor of the stashed
	// Tiling state: restoring out of Fullscreen always goes back to prev.
	UpdateWindowState(target, StateFloating, nil)

	if target.State != StateTiling {
		t.Fatalf("expected restore to Tiling regardless of literal request, got %v", target.State)
	}
	if target.PrevState != nil {
		t.Fatalf("expected PrevState cleared after restore")
	}
}

func TestUpdateWindowStateFullscreenToMinimizedIsRealTransition(t *testing.T) {
	_, ws := newTestWorkspace()
	wins := threeEqualTilingWindows(ws)
	target := wins[0]

	UpdateWindowState(target, StateFullscreen, nil)
	UpdateWindowState(target, StateMinimized, nil)

	if target.State != StateMinimized {
		t.Fatalf("expected StateMinimized, got %v", target.State)
	}
	if target.PrevState == nil || *target.PrevState != StateFullscreen {
		t.Fatalf("expected PrevState stashed as Fullscreen, not overwritten by the Tiling below it")
	}

	UpdateWindowState(target, StateTiling, nil)
	if target.State != StateFullscreen {
		t.Fatalf("expected restore from Minimized to go back to Fullscreen, got %v", target.State)
	}
}

func TestUpdateWindowStateOnlyOneFullscreenPerWorkspace(t *testing.T) {
	_, ws := newTestWorkspace()
	wins := threeEqualTilingWindows(ws)
	first := wins[0]
	second := wins[1]

	UpdateWindowState(first, StateFullscreen, nil)
	UpdateWindowState(second, StateFullscreen, nil)

	if first.State == StateFullscreen {
		t.Fatalf("expected first window demoted once second goes fullscreen")
	}
	if second.State != StateFullscreen {
		t.Fatalf("expected second window to be fullscreen")
	}

	fullscreenCount := 0
	for _, w := range []*Container{first, second, wins[2]} {
		if w.State == StateFullscreen {
			fullscreenCount++
		}
	}
	if fullscreenCount != 1 {
		t.Fatalf("expected exactly one fullscreen window, got %d", fullscreenCount)
	}
}

func TestUpdateWindowStateNoOpWhenAlreadyTarget(t *testing.T) {
	_, ws := newTestWorkspace()
	wins := threeEqualTilingWindows(ws)
	target := wins[0]

	before := target.TilingSize
	UpdateWindowState(target, StateTiling, nil)

	if target.TilingSize != before {
		t.Fatalf("expected no-op to leave size untouched")
	}
}
