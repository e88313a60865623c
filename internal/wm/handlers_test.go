package wm

import (
	"testing"
	"time"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/geometry"
	"github.com/foliagewm/foliage/internal/platform"
)

// fakeBackend is a no-op platform.Backend: every test in this file only
// exercises the container-tree side effects of a handler, never an actual
// OS call.
type fakeBackend struct {
	displays []platform.Display
	active   platform.Display
}

func (f *fakeBackend) Displays() ([]platform.Display, error) { return f.displays, nil }
func (f *fakeBackend) ActiveDisplay() (platform.Display, error) { return f.active, nil }
func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) { return 0, nil }
func (f *fakeBackend) ListWindowsOnDisplay(int) ([]platform.Window, error) { return nil, nil }
func (f *fakeBackend) WindowBounds(platform.WindowID) (platform.Rect, bool) { return platform.Rect{}, false }
func (f *fakeBackend) MoveResize(platform.WindowID, platform.Rect) error { return nil }
func (f *fakeBackend) Focus(platform.WindowID) error { return nil }
func (f *fakeBackend) Show(platform.WindowID) error { return nil }
func (f *fakeBackend) Hide(platform.WindowID) error { return nil }
func (f *fakeBackend) Minimize(platform.WindowID) error { return nil }
func (f *fakeBackend) Restore(platform.WindowID) error { return nil }
func (f *fakeBackend) SetFullscreen(platform.WindowID, bool) error { return nil }
func (f *fakeBackend) Close(platform.WindowID) error { return nil }
func (f *fakeBackend) Events() <-chan platform.Event { return nil }
func (f *fakeBackend) Run() error { return nil }
func (f *fakeBackend) Disconnect() {}

var _ platform.Backend = (*fakeBackend)(nil)

func newTestState(t *testing.T, cfg *config.Config) (*State, *fakeBackend) {
	t.Helper()
	display := platform.Display{ID: 1, Name: "test", Bounds: platform.Rect{Width: 1920, Height: 1080}, Usable: platform.Rect{Width: 1920, Height: 1080}}
	backend := &fakeBackend{displays: []platform.Display{display}, active: display}
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := New(backend, cfg, nil)
	if err := s.Populate(); err != nil {
		t.Fatalf("Populate() error: %v", err)
	}
	return s, backend
}

func TestHandleWindowShownManagesOntoDisplayedWorkspace(t *testing.T) {
	s, _ := newTestState(t, nil)

	s.HandleWindowShown(WindowShownInfo{Native: 100, Title: "term", InitialState: container.StateTiling})

	w := s.WindowByNative(100)
	if w == nil {
		t.Fatal("expected window 100 to be managed")
	}
	if w.Kind != container.KindTilingWindow {
		t.Fatalf("expected tiling window, got %v", w.Kind)
	}
	if s.Focused() != w {
		t.Fatal("expected newly shown window to be focused")
	}
	if !s.Pending.FocusChange {
		t.Fatal("expected a pending focus-sync request")
	}
}

func TestHandleWindowShownAppliesMatchingWindowRule(t *testing.T) {
	cfg := &config.Config{
		WindowRules: []config.WindowRule{
			{
				Match:    config.WindowRuleMatch{Title: "^popup$"},
				Event:    config.RuleEventManage,
				Commands: []string{"set-floating"},
			},
		},
	}
	s, _ := newTestState(t, cfg)

	s.HandleWindowShown(WindowShownInfo{Native: 200, Title: "popup", InitialState: container.StateTiling})

	w := s.WindowByNative(200)
	if w == nil {
		t.Fatal("expected window 200 to be managed")
	}
	if w.State != container.StateFloating {
		t.Fatalf("expected window-rule override to StateFloating, got %v", w.State)
	}
}

func TestHandleWindowFocusedVetoedWithinGracePeriod(t *testing.T) {
	s, _ := newTestState(t, nil)
	s.HandleWindowShown(WindowShownInfo{Native: 1, InitialState: container.StateTiling})
	s.HandleWindowShown(WindowShownInfo{Native: 2, InitialState: container.StateTiling})
	s.HandleWindowShown(WindowShownInfo{Native: 3, InitialState: container.StateTiling})

	s.HandleWindowDestroyed(3) // stamps UnmanagedOrMinimizedAt = now, promotes focus off w3
	promoted := s.Focused()

	origNow := Now
	defer func() { Now = origNow }()
	Now = func() time.Time { return time.Now() } // still inside the grace window

	s.HandleWindowFocused(1) // stale OS event racing the WM's own successor choice

	if s.Focused() != promoted {
		t.Fatalf("expected focus veto to keep %v focused, got %v", promoted, s.Focused())
	}
	if !s.Pending.FocusChange {
		t.Fatal("expected a pending native-focus resync even though the tree focus didn't move")
	}
}

func TestHandleWindowDestroyedPromotesNextFocus(t *testing.T) {
	s, _ := newTestState(t, nil)
	s.HandleWindowShown(WindowShownInfo{Native: 1, InitialState: container.StateTiling})
	s.HandleWindowShown(WindowShownInfo{Native: 2, InitialState: container.StateTiling})
	w1 := s.WindowByNative(1)

	s.HandleWindowDestroyed(2)

	if s.Focused() != w1 {
		t.Fatalf("expected remaining window to be focused after destroy")
	}
	if s.WindowByNative(2) != nil {
		t.Fatal("expected destroyed window to be unindexed")
	}
}

func TestHandleWindowMovedOrResizedCapturesFloatingRectOnly(t *testing.T) {
	s, _ := newTestState(t, nil)
	s.HandleWindowShown(WindowShownInfo{Native: 1, InitialState: container.StateFloating, Rect: geometry.NewRect(0, 0, 100, 100)})
	w := s.WindowByNative(1)

	newRect := geometry.NewRect(10, 10, 200, 200)
	s.HandleWindowMovedOrResized(1, newRect)

	if w.FloatingRect != newRect {
		t.Fatalf("expected floating rect captured, got %v", w.FloatingRect)
	}
}

func TestFocusWorkspaceHidesPreviousAndShowsTarget(t *testing.T) {
	cfg := &config.Config{Workspaces: []config.WorkspaceConfig{
		{Name: "1", DisplayName: "1", KeepAlive: true},
		{Name: "2", DisplayName: "2", KeepAlive: true},
	}}
	s, _ := newTestState(t, cfg)

	mon := s.Monitors()[0]
	var ws1, ws2 *container.Container
	for _, ws := range mon.Children() {
		switch ws.Name {
		case "1":
			ws1 = ws
		case "2":
			ws2 = ws
		}
	}
	if ws1 == nil || ws2 == nil {
		t.Fatal("expected both configured workspaces to exist")
	}
	if !ws1.IsDisplayed() {
		t.Fatal("expected workspace 1 displayed by default")
	}

	s.FocusWorkspace(ws2)

	if ws1.IsDisplayed() {
		t.Fatal("expected workspace 1 hidden after switching")
	}
	if !ws2.IsDisplayed() {
		t.Fatal("expected workspace 2 displayed")
	}
}
