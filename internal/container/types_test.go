package container

import (
	"testing"

	"github.com/foliagewm/foliage/internal/geometry"
)

func TestNewWorkspaceDefaults(t *testing.T) {
	ws := NewWorkspace("1", "one", false, geometry.Horizontal)
	if ws.Kind != KindWorkspace {
		t.Fatalf("expected KindWorkspace, got %v", ws.Kind)
	}
	if ws.Name != "1" || ws.DisplayName != "one" {
		t.Fatalf("unexpected name/displayName: %q %q", ws.Name, ws.DisplayName)
	}
	if ws.KeepAlive {
		t.Fatalf("expected KeepAlive false")
	}
}

func TestNewTilingWindowIsShownAndTiling(t *testing.T) {
	w := NewTilingWindow(1, 0.5)
	if w.State != StateTiling {
		t.Fatalf("expected StateTiling, got %v", w.State)
	}
	if w.DisplayState != DisplayShown {
		t.Fatalf("expected DisplayShown, got %v", w.DisplayState)
	}
	if w.TilingSize != 0.5 {
		t.Fatalf("expected size 0.5, got %v", w.TilingSize)
	}
}

func TestKindIsWindow(t *testing.T) {
	cases := map[Kind]bool{
		KindRoot:            false,
		KindMonitor:         false,
		KindWorkspace:       false,
		KindSplit:           false,
		KindTilingWindow:    true,
		KindNonTilingWindow: true,
	}
	for kind, want := range cases {
		if got := kind.IsWindow(); got != want {
			t.Errorf("%v.IsWindow() = %v, want %v", kind, got, want)
		}
	}
}

func TestSameKindExcludesMinimized(t *testing.T) {
	if sameKind(StateMinimized, StateMinimized) {
		t.Fatalf("expected Minimized to never match, even itself")
	}
	if !sameKind(StateFloating, StateFloating) {
		t.Fatalf("expected Floating to match Floating")
	}
	if sameKind(StateTiling, StateFloating) {
		t.Fatalf("expected Tiling and Floating not to match")
	}
}
