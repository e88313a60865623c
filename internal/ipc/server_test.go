package ipc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/platform"
	"github.com/foliagewm/foliage/internal/wm"
)

type fakeBackend struct {
	displays []platform.Display
}

func (f *fakeBackend) Displays() ([]platform.Display, error)                { return f.displays, nil }
func (f *fakeBackend) ActiveDisplay() (platform.Display, error)             { return f.displays[0], nil }
func (f *fakeBackend) ActiveWindow() (platform.WindowID, error)             { return 0, nil }
func (f *fakeBackend) ListWindowsOnDisplay(int) ([]platform.Window, error)  { return nil, nil }
func (f *fakeBackend) WindowBounds(platform.WindowID) (platform.Rect, bool) { return platform.Rect{}, false }
func (f *fakeBackend) MoveResize(platform.WindowID, platform.Rect) error    { return nil }
func (f *fakeBackend) Focus(platform.WindowID) error                       { return nil }
func (f *fakeBackend) Show(platform.WindowID) error                        { return nil }
func (f *fakeBackend) Hide(platform.WindowID) error                        { return nil }
func (f *fakeBackend) Minimize(platform.WindowID) error                    { return nil }
func (f *fakeBackend) Restore(platform.WindowID) error                     { return nil }
func (f *fakeBackend) SetFullscreen(platform.WindowID, bool) error         { return nil }
func (f *fakeBackend) Close(platform.WindowID) error                       { return nil }
func (f *fakeBackend) Events() <-chan platform.Event                       { return nil }
func (f *fakeBackend) Run() error                                          { return nil }
func (f *fakeBackend) Disconnect()                                         {}

var _ platform.Backend = (*fakeBackend)(nil)

func newTestServer(t *testing.T) (*Server, *wm.State) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	display := platform.Display{ID: 1, Name: "test", Bounds: platform.Rect{Width: 1920, Height: 1080}, Usable: platform.Rect{Width: 1920, Height: 1080}}
	backend := &fakeBackend{displays: []platform.Display{display}}
	cfg := &config.Config{Workspaces: []config.WorkspaceConfig{{Name: "1", DisplayName: "1", KeepAlive: true}, {Name: "2", DisplayName: "2", KeepAlive: true}}}
	state := wm.New(backend, cfg, nil)
	if err := state.Populate(); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	reloadChan := make(chan *config.Config, 1)
	server, err := NewServer(state, nil, reloadChan)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(server.Stop)

	return server, state
}

func TestServerGetTree(t *testing.T) {
	newTestServer(t)
	client := NewClient()

	dto, err := client.GetTree()
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if dto.Kind != "root" {
		t.Fatalf("expected root DTO, got %q", dto.Kind)
	}
}

func TestServerGetMonitors(t *testing.T) {
	newTestServer(t)
	client := NewClient()

	monitors, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors: %v", err)
	}
	if len(monitors.Monitors) != 1 {
		t.Fatalf("expected 1 monitor, got %d", len(monitors.Monitors))
	}
}

func TestServerFocusWorkspace(t *testing.T) {
	_, state := newTestServer(t)
	client := NewClient()

	if err := client.FocusWorkspace("2"); err != nil {
		t.Fatalf("FocusWorkspace: %v", err)
	}

	mon := state.Monitors()[0]
	for _, ws := range mon.Children() {
		if ws.Name == "2" && !ws.IsDisplayed() {
			t.Fatal("expected workspace 2 to become displayed")
		}
		if ws.Name == "1" && ws.IsDisplayed() {
			t.Fatal("expected workspace 1 to no longer be displayed")
		}
	}
}

func TestServerFocusWorkspaceUnknownNameErrors(t *testing.T) {
	newTestServer(t)
	client := NewClient()

	if err := client.FocusWorkspace("does-not-exist"); err == nil {
		t.Fatal("expected an error for an unknown workspace name")
	}
}

func TestServerSubscribeReceivesFocusChanged(t *testing.T) {
	_, state := newTestServer(t)
	client := NewClient()

	events, err := client.Subscribe()
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	state.Lock()
	state.Notify(wm.NotifyFocusChanged, uuid.Nil)
	state.Unlock()

	select {
	case n := <-events:
		if n.Kind != NotificationKind(wm.NotifyFocusChanged) {
			t.Fatalf("expected FocusChanged notification, got %v", n.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscribed event")
	}
}

func TestResponseUnmarshalsRawData(t *testing.T) {
	var resp Response
	raw := []byte(`{"status":"OK","data":{"monitors":[]}}`)
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Status != "OK" {
		t.Fatalf("expected OK, got %q", resp.Status)
	}
}
