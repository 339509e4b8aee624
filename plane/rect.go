// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

import "fmt"

// Rect is an integer rectangle in pixels. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// R is shorthand for Rect{Left: l, Top: t, Right: r, Bottom: b}.
func R(l, t, r, b int) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// Width returns the rectangle width.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the rectangle height.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Intersects reports whether r and o touch or overlap. Shared edges count,
// so two rectangles stacked with r.Bottom == o.Top intersect.
func (r Rect) Intersects(o Rect) bool {
	return max(r.Left, o.Left) <= min(r.Right, o.Right) &&
		max(r.Top, o.Top) <= min(r.Bottom, o.Bottom)
}

// SharesScanlines reports whether r and o cover at least one common row.
func (r Rect) SharesScanlines(o Rect) bool {
	switch {
	case r.Top == o.Top:
		return true
	case o.Top < r.Top:
		return o.Bottom > r.Top
	default:
		return r.Bottom > o.Top
	}
}

// Scale multiplies every edge by the given factors, truncating toward zero.
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{
		Left:   int(float64(r.Left) * sx),
		Top:    int(float64(r.Top) * sy),
		Right:  int(float64(r.Right) * sx),
		Bottom: int(float64(r.Bottom) * sy),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d,%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

// Size is a width/height pair used for plane limits.
type Size struct {
	W, H int
}

// within reports whether w x h lies within [min, max] on both axes.
// A zero max means unbounded on that axis.
func within(w, h int, lo, hi Size) bool {
	if w < lo.W || h < lo.H {
		return false
	}
	if hi.W > 0 && w > hi.W {
		return false
	}
	if hi.H > 0 && h > hi.H {
		return false
	}
	return true
}
