package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// LengthUnitKind distinguishes the three forms a configured length can take.
type LengthUnitKind string

const (
	// LengthPixels is an absolute device-pixel count, unaffected by DPI scale.
	LengthPixels LengthUnitKind = "px"
	// LengthPercent is a percentage of the reference extent passed to ToPx.
	LengthPercent LengthUnitKind = "percent"
	// LengthDPIScaled is an absolute value scaled by the monitor's DPI factor.
	LengthDPIScaled LengthUnitKind = "dpi"
)

// LengthUnit is a gap/inset value as configured by the user: either a raw
// pixel count, a percentage of some reference extent, or a DPI-scaled pixel
// count. It converts to a concrete pixel delta via ToPx, which takes the
// reference extent (width for horizontal insets, height for vertical ones)
// and an optional DPI scale factor.
type LengthUnit struct {
	Kind  LengthUnitKind
	Value float64
}

// Px constructs an absolute-pixel LengthUnit.
func Px(v float64) LengthUnit { return LengthUnit{Kind: LengthPixels, Value: v} }

// Percent constructs a percent-of-reference LengthUnit. v is in [0, 100].
func Percent(v float64) LengthUnit { return LengthUnit{Kind: LengthPercent, Value: v} }

// DPIScaled constructs a DPI-scaled absolute-pixel LengthUnit.
func DPIScaled(v float64) LengthUnit { return LengthUnit{Kind: LengthDPIScaled, Value: v} }

// ToPx resolves the length to a concrete pixel value. referenceExtent is the
// axis extent the percentage form is relative to (pass width for left/right
// insets, height for top/bottom ones — never a single shared reference).
// scale is the monitor's DPI scale factor; pass nil (or 1) when
// scale_with_dpi is false.
func (l LengthUnit) ToPx(referenceExtent int, scale *float64) int {
	switch l.Kind {
	case LengthPercent:
		return int(l.Value / 100 * float64(referenceExtent))
	case LengthDPIScaled:
		factor := 1.0
		if scale != nil {
			factor = *scale
		}
		return int(l.Value * factor)
	default:
		return int(l.Value)
	}
}

// ParseLengthUnit parses a config string like "20px", "5%", or "20dpi".
// A bare number defaults to pixels.
func ParseLengthUnit(s string) (LengthUnit, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return LengthUnit{}, fmt.Errorf("invalid percent length %q: %w", s, err)
		}
		return Percent(v), nil
	case strings.HasSuffix(s, "dpi"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "dpi"), 64)
		if err != nil {
			return LengthUnit{}, fmt.Errorf("invalid dpi length %q: %w", s, err)
		}
		return DPIScaled(v), nil
	default:
		s = strings.TrimSuffix(s, "px")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return LengthUnit{}, fmt.Errorf("invalid length %q: %w", s, err)
		}
		return Px(v), nil
	}
}

// RectDelta is the four-sided inset a gap or working-area delta applies to a
// monitor rect: Left/Top/Right/Bottom lengths resolved against the
// appropriate axis extent (width for Left/Right, height for Top/Bottom).
type RectDelta struct {
	Left, Top, Right, Bottom LengthUnit
}

// Apply resolves the delta against a reference rect and DPI scale, returning
// the four pixel insets in left/top/right/bottom order.
func (d RectDelta) Apply(width, height int, scale *float64) (left, top, right, bottom int) {
	return d.Left.ToPx(width, scale),
		d.Top.ToPx(height, scale),
		d.Right.ToPx(width, scale),
		d.Bottom.ToPx(height, scale)
}
