// Package tiling turns the container tree's tiling sizes into concrete
// screen rectangles: the workspace-level gap/working-area math, and the
// recursive split partition the reconciler walks to place every tiling
// window.
package tiling

import (
	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/geometry"
)

// WorkspaceRect derives a workspace's effective content rect from its
// monitor's working rect (the platform backend's Usable rect) by
// subtracting the configured outer gap. Insets
// go through LengthUnit with the monitor's DPI scale factor when
// scale_with_dpi is true.
func WorkspaceRect(workingRect geometry.Rect, gaps config.GapsConfig, scale *float64) (geometry.Rect, error) {
	effectiveScale := scale
	if !gaps.ScaleWithDPI {
		effectiveScale = nil
	}

	left, top, right, bottom, err := gaps.OuterGap()
	if err != nil {
		return geometry.Rect{}, err
	}

	width := workingRect.Width()
	height := workingRect.Height()

	return geometry.Rect{
		Left:   workingRect.Left + left.ToPx(width, effectiveScale),
		Top:    workingRect.Top + top.ToPx(height, effectiveScale),
		Right:  workingRect.Right - right.ToPx(width, effectiveScale),
		Bottom: workingRect.Bottom - bottom.ToPx(height, effectiveScale),
	}, nil
}

// Layout recursively partitions rect among ws's tiling children in
// proportion to their tiling sizes, walking into nested split containers,
// and returns the resulting rect for every tiling window descendant. Gap
// is the inner gap applied between adjacent tiling children at every
// level of the split tree.
func Layout(ws *container.Container, rect geometry.Rect, gaps config.GapsConfig, scale *float64) (map[uuid.UUID]geometry.Rect, error) {
	out := make(map[uuid.UUID]geometry.Rect)

	effectiveScale := scale
	if !gaps.ScaleWithDPI {
		effectiveScale = nil
	}
	innerUnit, err := innerGapUnit(gaps)
	if err != nil {
		return nil, err
	}

	partition(ws, rect, innerUnit, effectiveScale, out)
	return out, nil
}

func innerGapUnit(gaps config.GapsConfig) (geometry.LengthUnit, error) {
	if gaps.Inner == "" {
		return geometry.Px(0), nil
	}
	return geometry.ParseLengthUnit(gaps.Inner)
}

// partition lays out node's tiling children within rect, recursing into
// split containers and recording a final rect for every tiling window.
func partition(node *container.Container, rect geometry.Rect, gap geometry.LengthUnit, scale *float64, out map[uuid.UUID]geometry.Rect) {
	children := container.TilingChildren(node)
	if len(children) == 0 {
		return
	}

	direction := node.TilingDirection
	primary := rect.Width()
	if direction == geometry.Vertical {
		primary = rect.Height()
	}

	gapPx := gap.ToPx(primary, scale)
	totalGap := gapPx * (len(children) - 1)
	available := primary - totalGap
	if available < 0 {
		available = 0
	}

	offset := 0
	for i, child := range children {
		size := int(child.TilingSize * float64(available))
		// The last child absorbs any rounding remainder so the partition
		// exactly fills rect with no 1px gap at the far edge.
		if i == len(children)-1 {
			size = available - offset
		}

		var childRect geometry.Rect
		if direction == geometry.Horizontal {
			left := rect.Left + offset + i*gapPx
			childRect = geometry.Rect{Left: left, Top: rect.Top, Right: left + size, Bottom: rect.Bottom}
		} else {
			top := rect.Top + offset + i*gapPx
			childRect = geometry.Rect{Left: rect.Left, Top: top, Right: rect.Right, Bottom: top + size}
		}
		offset += size

		switch child.Kind {
		case container.KindSplit:
			partition(child, childRect, gap, scale, out)
		default:
			out[child.ID] = childRect
		}
	}
}
