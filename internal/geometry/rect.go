// Package geometry holds the platform-independent primitives the container
// tree uses to reason about screen space: rectangles, length units, and
// tiling direction.
package geometry

// Rect is an axis-aligned rectangle in integer device pixels, expressed as
// its four edges rather than an origin/extent pair so that delta math
// between two rects (e.g. a monitor's bounds vs. its working area) is a
// plain component-wise subtraction.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// NewRect builds a Rect from an origin and extent.
func NewRect(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }
func (r Rect) X() int      { return r.Left }
func (r Rect) Y() int      { return r.Top }

// Delta returns the component-wise difference needed to go from other to r:
// each field is r's edge minus other's corresponding edge. Used to express
// a monitor's working-area inset as a Rect of deltas relative to its full
// bounds.
func (r Rect) Delta(other Rect) Rect {
	return Rect{
		Left:   r.Left - other.Left,
		Top:    r.Top - other.Top,
		Right:  r.Right - other.Right,
		Bottom: r.Bottom - other.Bottom,
	}
}

// Translate shifts the rect by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// ContainsPoint reports whether (x, y) falls within the rect, right/bottom
// edges exclusive.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// CenterX and CenterY return the rect's midpoint, used for monitor-overlap
// heuristics (which monitor contains a given window's center).
func (r Rect) CenterX() int { return r.Left + r.Width()/2 }
func (r Rect) CenterY() int { return r.Top + r.Height()/2 }
