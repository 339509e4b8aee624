// Package combine packs adjacent layers that can share one multi-region
// plane group.
package combine

import (
	"cmp"
	"slices"

	"github.com/gogpu/hwc/plane"
)

// Options controls which layers may share a group.
type Options struct {
	// MultiRegion enables grouping. When false every layer is its own group.
	MultiRegion bool
	// MultiRegionScale allows scaled layers inside a multi-region group.
	MultiRegionScale bool
	// MaxWindows caps the layers per group. Zero means no cap.
	MaxWindows int
}

// Combiner groups layers. The returned groups alias storage owned by the
// Combiner and stay valid until the next Combine call.
type Combiner struct {
	opts    Options
	backing []*plane.Layer
	groups  [][]*plane.Layer
}

// New returns a Combiner with the given options.
func New(opts Options) *Combiner {
	return &Combiner{opts: opts}
}

// Options returns the options the Combiner was created with.
func (c *Combiner) Options() Options { return c.opts }

// Combine partitions layers, in paint order, into groups of mutually
// compatible adjacent layers. Members of each group are ordered by
// destination top edge, ties kept in paint order.
//
// ok is false when more than limit groups are needed; the groups are still
// returned so callers can report them.
func (c *Combiner) Combine(layers []*plane.Layer, limit int) (groups [][]*plane.Layer, ok bool) {
	c.backing = append(c.backing[:0], layers...)
	c.groups = c.groups[:0]

	start := 0
	for i := 1; i <= len(c.backing); i++ {
		if i < len(c.backing) && c.joins(c.backing[start:i], c.backing[i]) {
			continue
		}
		c.groups = append(c.groups, c.backing[start:i:i])
		start = i
	}

	for _, g := range c.groups {
		if len(g) > 1 {
			slices.SortStableFunc(g, func(a, b *plane.Layer) int {
				return cmp.Compare(a.Display.Top, b.Display.Top)
			})
		}
	}
	return c.groups, len(c.groups) <= limit
}

func (c *Combiner) joins(group []*plane.Layer, l *plane.Layer) bool {
	if c.opts.MaxWindows > 0 && len(group) >= c.opts.MaxWindows {
		return false
	}
	for _, m := range group {
		if !Compatible(m, l, c.opts) {
			return false
		}
	}
	return true
}

// Compatible reports whether a and b may share one multi-region group:
// same format, compression and plane alpha, no 10-bit content, no scaling
// unless allowed, and destinations that neither touch nor share a scanline.
// The framebuffer target never shares a group.
func Compatible(a, b *plane.Layer, opts Options) bool {
	switch {
	case !opts.MultiRegion:
		return false
	case a.Target || b.Target:
		return false
	case a.Format.Is10Bit() || b.Format.Is10Bit():
		return false
	case a.Format != b.Format || a.Compressed != b.Compressed:
		return false
	case a.PlaneAlpha() != b.PlaneAlpha():
		return false
	case (a.Scaled() || b.Scaled()) && !opts.MultiRegionScale:
		return false
	case a.Display.Intersects(b.Display) || a.Display.SharesScanlines(b.Display):
		return false
	}
	return true
}
