// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

import (
	"errors"
	"fmt"
)

// ErrInvalidTable is returned by NewTable for inconsistent descriptions.
var ErrInvalidTable = errors.New("plane: invalid table")

// Rules holds the hardware-generation constants used by the predicates.
// They are data of the table, not properties of the planner.
type Rules struct {
	// RotateStrideAlign is the stride alignment, in pixels, required for
	// compressed layers that are rotated by a quarter turn or reflected
	// horizontally.
	RotateStrideAlign int
	// RotateMaxHeight caps the source height of quarter-turned compressed layers.
	RotateMaxHeight int
	// PairMaxWidth caps source and destination widths while two-window
	// pairing is in effect.
	PairMaxWidth int

	// MinLayerSize is the smallest source or destination edge a plane can show.
	MinLayerSize int
	// CompressedWidthAlign is the required source width alignment of
	// compressed layers.
	CompressedWidthAlign int
	// OddWidthDownscale forbids horizontal downscaling of uncompressed
	// layers with odd widths.
	OddWidthDownscale bool

	// LargeVideoWidth is the source width above which a video layer counts
	// as large.
	LargeVideoWidth int
	// CompressedVideoLimit is the number of compressed-video groups at or
	// below which large compressed video is assumed to need all of them, so
	// the framebuffer target stays uncompressed.
	CompressedVideoLimit int

	// TargetScaleMin and TargetScaleMax bound the framebuffer target's scale
	// factors when it is compressed.
	TargetScaleMin, TargetScaleMax float64

	// Unsupported lists formats no plane of this generation overlays.
	Unsupported []Format
}

// DefaultRules returns the constants shared by the rk356x and rk3588
// generations.
func DefaultRules() Rules {
	return Rules{
		RotateStrideAlign:    64,
		RotateMaxHeight:      2048,
		PairMaxWidth:         2048,
		MinLayerSize:         4,
		CompressedWidthAlign: 4,
		OddWidthDownscale:    true,
		LargeVideoWidth:      2048,
		CompressedVideoLimit: 2,
		TargetScaleMin:       0.25,
		TargetScaleMax:       4,
		Unsupported:          []Format{FormatABGR2101010},
	}
}

// Table describes every plane group of one hardware generation.
type Table struct {
	Name string
	// SoCs lists the chip identifiers the table applies to.
	SoCs    []string
	Classes []string
	Groups  []*Group
	Rules   Rules

	planes []*Plane
	units  int
}

// NewTable validates groups and returns a table with plane and group
// indices assigned. A table without groups is valid; planning against it
// fails with a fatal error.
func NewTable(name string, socs, classes []string, groups []*Group, rules Rules) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidTable)
	}
	t := &Table{Name: name, SoCs: socs, Classes: classes, Groups: groups, Rules: rules}

	names := make(map[string]bool)
	primaries := make(map[int]bool)
	secondaries := make(map[int]bool)
	for gi, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("%w: group %d is nil", ErrInvalidTable, gi)
		}
		if len(g.Planes) == 0 {
			return nil, fmt.Errorf("%w: group %q has no planes", ErrInvalidTable, g.Name)
		}
		if int(g.Class) >= len(classes) && len(classes) > 0 {
			return nil, fmt.Errorf("%w: group %q has unknown class %d", ErrInvalidTable, g.Name, g.Class)
		}
		g.index = gi
		for _, p := range g.Planes {
			if p == nil {
				return nil, fmt.Errorf("%w: group %q has a nil plane", ErrInvalidTable, g.Name)
			}
			if names[p.Name] {
				return nil, fmt.Errorf("%w: duplicate plane %q", ErrInvalidTable, p.Name)
			}
			names[p.Name] = true
			if p.ScaleMax > 0 && p.ScaleMin > p.ScaleMax {
				return nil, fmt.Errorf("%w: plane %q scale bounds %v > %v",
					ErrInvalidTable, p.Name, p.ScaleMin, p.ScaleMax)
			}
			if s := p.Pair; s != nil {
				if s.Unit < 0 {
					return nil, fmt.Errorf("%w: plane %q has negative pair unit", ErrInvalidTable, p.Name)
				}
				if s.Secondary {
					if secondaries[s.Unit] {
						return nil, fmt.Errorf("%w: pair unit %d has two secondaries", ErrInvalidTable, s.Unit)
					}
					secondaries[s.Unit] = true
				} else {
					if primaries[s.Unit] {
						return nil, fmt.Errorf("%w: pair unit %d has two primaries", ErrInvalidTable, s.Unit)
					}
					primaries[s.Unit] = true
				}
				t.units = max(t.units, s.Unit+1)
			}
			p.index = len(t.planes)
			t.planes = append(t.planes, p)
		}
	}
	for u := range secondaries {
		if !primaries[u] {
			return nil, fmt.Errorf("%w: pair unit %d has no primary", ErrInvalidTable, u)
		}
	}
	return t, nil
}

// Planes returns every plane in table order.
func (t *Table) Planes() []*Plane { return t.planes }

// PlaneByName returns the named plane and its group.
func (t *Table) PlaneByName(name string) (*Plane, *Group, bool) {
	for _, g := range t.Groups {
		for _, p := range g.Planes {
			if p.Name == name {
				return p, g, true
			}
		}
	}
	return nil, nil, false
}

// ClassName returns the name of c, or "class<N>" when the table has none.
func (t *Table) ClassName(c Class) string {
	if int(c) < len(t.Classes) {
		return t.Classes[c]
	}
	return fmt.Sprintf("class%d", c)
}

// PairUnits returns one more than the highest pair unit in the table.
func (t *Table) PairUnits() int { return t.units }

// MaxWindows returns the largest sub-window count of any group.
func (t *Table) MaxWindows() int {
	n := 0
	for _, g := range t.Groups {
		n = max(n, len(g.Planes))
	}
	return n
}
