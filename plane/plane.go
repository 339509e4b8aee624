// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

import "slices"

// Class is an opaque hardware capability class. Tables name their classes
// (for example "cluster", "esmart", "smart"); the planner never branches on
// a class, it only reports it.
type Class uint8

// PairSlot places a plane inside a two-window hardware unit. The secondary
// window may only continue a binding started by the primary window of the
// same unit.
type PairSlot struct {
	Unit      int
	Secondary bool
}

// Plane is one hardware scan-out window.
type Plane struct {
	ID   uint32
	Name string

	// Formats lists the formats accepted uncompressed.
	Formats []Format
	// CompressedFormats lists the formats accepted with compression.
	CompressedFormats []Format

	MinInput, MaxInput   Size
	MinOutput, MaxOutput Size

	// ScaleMin and ScaleMax bound source/destination per axis.
	// Both zero means the plane cannot scale at all.
	ScaleMin, ScaleMax float64

	// Rotations is the set of transform bits the plane can apply.
	Rotations Transform

	// CompressedRotationsOnly limits every transform to compressed buffers.
	CompressedRotationsOnly bool

	Alpha bool
	HDR   bool

	Pair *PairSlot

	index int
}

// Index returns the plane position within its table.
func (p *Plane) Index() int { return p.index }

// SupportsFormat reports whether the plane accepts f with the given
// compression setting.
func (p *Plane) SupportsFormat(f Format, compressed bool) bool {
	if compressed {
		return slices.Contains(p.CompressedFormats, f)
	}
	return slices.Contains(p.Formats, f)
}

// Compression reports whether the plane accepts any compressed format.
func (p *Plane) Compression() bool { return len(p.CompressedFormats) > 0 }

// YUV reports whether the plane accepts any YUV format.
func (p *Plane) YUV() bool {
	return slices.ContainsFunc(p.Formats, Format.IsYUV) ||
		slices.ContainsFunc(p.CompressedFormats, Format.IsYUV)
}

// Scaling reports whether the plane can scale.
func (p *Plane) Scaling() bool { return p.ScaleMax > 0 }

// Rotation reports whether the plane supports any transform.
func (p *Plane) Rotation() bool { return p.Rotations != 0 }

// Group is a set of planes addressed as one resource. A group with more than
// one plane is a multi-region group: each plane is one sub-window.
type Group struct {
	ID    uint32
	Name  string
	Class Class

	// Possible is the bitmask of displays that may use the group.
	// Zero means every display.
	Possible uint32

	// Reserved groups are never matched.
	Reserved bool

	Planes []*Plane

	index int
}

// Index returns the group position within its table.
func (g *Group) Index() int { return g.index }

// Windows returns the number of sub-windows.
func (g *Group) Windows() int { return len(g.Planes) }

// Usable reports whether display may use the group.
func (g *Group) Usable(display int) bool {
	if g.Possible == 0 {
		return true
	}
	if display < 0 || display >= 32 {
		return false
	}
	return g.Possible&(1<<uint(display)) != 0
}
