package tiling

import (
	"testing"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/geometry"
	"github.com/foliagewm/foliage/internal/platform"
)

func noGaps() config.GapsConfig {
	return config.GapsConfig{Inner: "0px", Outer: "0px"}
}

// buildWorkspace attaches n tiling windows directly to a fresh workspace's
// tiling root, horizontal direction, via UpdateWindowState so insertion
// sizing matches the production insert path.
func buildWorkspace(n int) *container.Container {
	ws := container.NewWorkspace("1", "1", true, geometry.Horizontal)
	for i := 0; i < n; i++ {
		w := container.NewNonTilingWindow(platformID(i), container.StateFloating, geometry.Rect{})
		container.Attach(ws, w, -1, nil)
		container.UpdateWindowState(w, container.StateTiling, nil)
	}
	return ws
}

func platformID(i int) platform.WindowID { return platform.WindowID(1000 + i) }

// One monitor 1920x1080, three tiling windows, no gaps. Expected thirds.
func TestLayoutThreeWindowsEqualThirds(t *testing.T) {
	ws := buildWorkspace(3)
	rect := geometry.NewRect(0, 0, 1920, 1080)

	rects, err := Layout(ws, rect, noGaps(), nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	windows := container.TilingChildren(ws)
	if len(windows) != 3 {
		t.Fatalf("expected 3 tiling windows, got %d", len(windows))
	}

	want := []geometry.Rect{
		geometry.NewRect(0, 0, 640, 1080),
		geometry.NewRect(640, 0, 640, 1080),
		geometry.NewRect(1280, 0, 640, 1080),
	}
	for i, w := range windows {
		got, ok := rects[w.ID]
		if !ok {
			t.Fatalf("missing rect for window %d", i)
		}
		if got != want[i] {
			t.Fatalf("window %d: got %+v, want %+v", i, got, want[i])
		}
	}
}

func TestLayoutResizeRedistributesSiblingSpace(t *testing.T) {
	ws := buildWorkspace(3)
	windows := container.TilingChildren(ws)
	b := windows[1]

	container.ResizeTilingContainer(b, 0.1)

	rect := geometry.NewRect(0, 0, 1920, 1080)
	rects, err := Layout(ws, rect, noGaps(), nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	tol := 2 // allow a couple of pixels of rounding slack

	wantA := geometry.NewRect(0, 0, 544, 1080)
	wantB := geometry.NewRect(544, 0, 832, 1080)
	wantC := geometry.NewRect(1376, 0, 544, 1080)

	assertClose(t, "A", rects[windows[0].ID], wantA, tol)
	assertClose(t, "B", rects[windows[1].ID], wantB, tol)
	assertClose(t, "C", rects[windows[2].ID], wantC, tol)
}

func assertClose(t *testing.T, label string, got, want geometry.Rect, tol int) {
	t.Helper()
	if abs(got.Left-want.Left) > tol || abs(got.Top-want.Top) > tol ||
		abs(got.Right-want.Right) > tol || abs(got.Bottom-want.Bottom) > tol {
		t.Fatalf("%s: got %+v, want %+v (tol %d)", label, got, want, tol)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestWorkspaceRectSubtractsOuterGap(t *testing.T) {
	gaps := config.GapsConfig{Inner: "0px", Outer: "10px"}
	working := geometry.NewRect(0, 0, 1920, 1080)

	got, err := WorkspaceRect(working, gaps, nil)
	if err != nil {
		t.Fatalf("WorkspaceRect: %v", err)
	}
	want := geometry.NewRect(10, 10, 1900, 1060)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
