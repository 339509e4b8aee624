// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

// Blending is the layer blend mode requested by the window system.
type Blending uint8

const (
	BlendNone Blending = iota
	BlendPremultiplied
	BlendCoverage
)

// Composition records how a layer ends up on screen after planning.
type Composition uint8

const (
	// CompositionUnassigned is the state before a successful plan.
	CompositionUnassigned Composition = iota

	// CompositionDevice means a plane scans the layer out directly.
	CompositionDevice

	// CompositionClient means the layer is drawn into the software
	// framebuffer target by the GPU or CPU compositor.
	CompositionClient
)

func (c Composition) String() string {
	switch c {
	case CompositionDevice:
		return "Device"
	case CompositionClient:
		return "Client"
	default:
		return "Unassigned"
	}
}

// Layer is one visual element of a frame.
//
// The fields above the planner block are inputs filled by the layer-list
// producer. The planner block is overwritten on every Plan call.
type Layer struct {
	ID   uint32
	Name string

	// Source is the crop of the buffer that is shown.
	Source Rect
	// Display is the destination rectangle on the output.
	Display Rect

	Format     Format
	Compressed bool // AFBC or similar tiled compression
	Stride     int  // buffer row length in pixels
	// BufferWidth is the full buffer width; 0 means Source.Width().
	BufferWidth int

	Transform Transform
	Blending  Blending
	Alpha     uint8 // plane alpha, 0xFF is opaque
	HDR       bool

	// Skip asks for software composition regardless of plane capabilities.
	Skip bool
	// Target marks the synthetic framebuffer target layer.
	Target bool

	// Planner block.

	// Order is the paint-order position within the frame, bottom first.
	// The framebuffer target uses one past the last layer.
	Order int
	// Software is set by the pre-check when the layer cannot be overlaid.
	Software bool
	// MirrorDisplay is Display mapped onto a mirrored secondary output.
	MirrorDisplay Rect
	Composition   Composition
	ZPos          int
	Plane         *Plane
}

// Reset clears the planner block.
func (l *Layer) Reset() {
	l.Order = 0
	l.Software = false
	l.MirrorDisplay = Rect{}
	l.Composition = CompositionUnassigned
	l.ZPos = -1
	l.Plane = nil
}

// NeedsSoftware reports whether the layer must be composited in software.
func (l *Layer) NeedsSoftware() bool { return l.Skip || l.Software }

// Video reports whether the layer carries YUV content.
func (l *Layer) Video() bool { return l.Format.IsYUV() }

// Rotated reports whether the layer has any transform applied.
func (l *Layer) Rotated() bool { return l.Transform != 0 }

// Scaled reports whether the scan-out scales the source on either axis.
func (l *Layer) Scaled() bool { return l.HScale() != 1 || l.VScale() != 1 }

// HScale returns the horizontal source/destination ratio. Values above 1
// mean downscaling. For quarter turns the source height feeds the
// destination width.
func (l *Layer) HScale() float64 { return l.hscale(l.Display) }

// VScale returns the vertical source/destination ratio.
func (l *Layer) VScale() float64 { return l.vscale(l.Display) }

// MirrorHScale returns the horizontal ratio against MirrorDisplay.
func (l *Layer) MirrorHScale() float64 { return l.hscale(l.MirrorDisplay) }

// MirrorVScale returns the vertical ratio against MirrorDisplay.
func (l *Layer) MirrorVScale() float64 { return l.vscale(l.MirrorDisplay) }

func (l *Layer) hscale(dst Rect) float64 {
	if l.Transform.QuarterTurn() {
		return ratio(l.Source.Height(), dst.Width())
	}
	return ratio(l.Source.Width(), dst.Width())
}

func (l *Layer) vscale(dst Rect) float64 {
	if l.Transform.QuarterTurn() {
		return ratio(l.Source.Width(), dst.Height())
	}
	return ratio(l.Source.Height(), dst.Height())
}

// PlaneAlpha returns the constant alpha the plane must apply.
// Only premultiplied blending carries the layer alpha to the plane.
func (l *Layer) PlaneAlpha() uint8 {
	if l.Blending == BlendPremultiplied {
		return l.Alpha
	}
	return 0xFF
}

// Width returns BufferWidth, or the source width when BufferWidth is unset.
func (l *Layer) Width() int {
	if l.BufferWidth > 0 {
		return l.BufferWidth
	}
	return l.Source.Width()
}

func ratio(src, dst int) float64 {
	if dst <= 0 {
		return 0
	}
	return float64(src) / float64(dst)
}
