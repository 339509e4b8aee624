// Package match binds layer groups to plane groups.
//
// A Context carries every piece of mutable planning state for one display:
// which planes, groups and layers are in use, which groups are blocked for
// the frame, and the pairing state of two-window units. Tables stay
// read-only, so several Contexts may share one table.
package match

import (
	"context"
	"log/slog"

	"github.com/gogpu/hwc/internal/usage"
	"github.com/gogpu/hwc/plane"
)

// pairState tracks one two-window unit during an attempt.
type pairState struct {
	bound      bool // primary window bound
	z          int
	left       int
	format     plane.Format
	compressed bool
	// open is false when the primary binding rules out a secondary window.
	open bool
	// broken is set once a secondary candidate violated continuity.
	broken bool
}

// Context is the per-display planning state. It is not safe for
// concurrent use.
type Context struct {
	table  *plane.Table
	logger *slog.Logger
	debug  bool

	planes  usage.Bitmap
	groups  usage.Bitmap
	layers  usage.Bitmap
	blocked usage.Bitmap

	pairs    []pairState
	saved    []pairState
	bindings []plane.Binding
	assign   []plane.Assignment

	mirror     bool
	targetFlip bool
}

// New returns a Context for table. A nil logger is replaced by a silent one.
func New(table *plane.Table, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Context{
		table:  table,
		logger: logger,
		debug:  logger.Enabled(context.Background(), slog.LevelDebug),
		pairs:  make([]pairState, table.PairUnits()),
		saved:  make([]pairState, table.PairUnits()),
	}
	c.planes.Resize(len(table.Planes()))
	c.groups.Resize(len(table.Groups))
	c.blocked.Resize(len(table.Groups))
	return c
}

// Table returns the capability table.
func (c *Context) Table() *plane.Table { return c.table }

// Begin prepares the Context for a frame with up to n layers, including the
// framebuffer target. It clears every usage flag and every block.
func (c *Context) Begin(n int) {
	c.layers.Resize(n)
	c.blocked.Reset()
	if cap(c.assign) < n {
		c.assign = make([]plane.Assignment, 0, n)
	}
	if cap(c.bindings) < n {
		c.bindings = make([]plane.Binding, 0, n)
	}
	c.Reset()
}

// Reset returns the attempt state to clean: no plane, group or layer in use,
// no bindings, no pairing. Blocks set for the frame are kept.
func (c *Context) Reset() {
	c.planes.Reset()
	c.groups.Reset()
	c.layers.Reset()
	clear(c.pairs)
	c.bindings = c.bindings[:0]
	c.assign = c.assign[:0]
}

// Block excludes group gi from matching for the rest of the frame.
func (c *Context) Block(gi int) { c.blocked.Set(gi) }

// Blocked reports whether group gi is excluded for the frame.
func (c *Context) Blocked(gi int) bool { return c.blocked.Test(gi) }

// Available returns the number of groups not blocked.
func (c *Context) Available() int { return c.blocked.Len() - c.blocked.Count() }

// SetMirror enables the mirrored-output geometry checks.
func (c *Context) SetMirror(on bool) { c.mirror = on }

// SetTargetFlip allows a framebuffer target to be bound with the opposite
// compression setting when its own is refused by a plane's format list.
func (c *Context) SetTargetFlip(on bool) { c.targetFlip = on }

// Bindings returns the bindings of the current attempt in z order. The
// slice aliases Context storage and is invalidated by Reset.
func (c *Context) Bindings() []plane.Binding { return c.bindings }

// PlaneUsed reports whether the plane with index i is bound.
func (c *Context) PlaneUsed(i int) bool { return c.planes.Test(i) }

// GroupUsed reports whether group gi is bound.
func (c *Context) GroupUsed(gi int) bool { return c.groups.Test(gi) }

// Matched reports whether the layer with the given Order is bound.
func (c *Context) Matched(order int) bool { return c.layers.Test(order) }

// Idle reports whether no plane, group or layer is in use.
func (c *Context) Idle() bool {
	return c.planes.Empty() && c.groups.Empty() && c.layers.Empty() && len(c.bindings) == 0
}
