package match

import (
	"context"
	"log/slog"

	"github.com/gogpu/hwc/plane"
)

// Match binds groups in order, the i-th group at z-position i. On failure
// the Context is Reset before returning, so no plane stays in use.
func (c *Context) Match(groups [][]*plane.Layer) bool {
	for z, g := range groups {
		if !c.MatchGroup(g, z) {
			if c.debug {
				c.logger.Debug("match: group unplaced", "z", z, "layers", len(g))
			}
			c.Reset()
			return false
		}
	}
	return true
}

// MatchGroup binds every layer of one group to sub-windows of the first free
// plane group that can take them all. Partial picks in a plane group that
// cannot take the whole layer group are undone before the next plane group
// is tried.
func (c *Context) MatchGroup(layers []*plane.Layer, z int) bool {
	if len(layers) == 0 {
		return true
	}
	for gi, g := range c.table.Groups {
		if c.blocked.Test(gi) || c.groups.Test(gi) || len(layers) > g.Windows() {
			continue
		}
		mark := len(c.assign)
		copy(c.saved, c.pairs)
		if c.bindGroup(g, layers, z) {
			c.groups.Set(gi)
			c.bindings = append(c.bindings, plane.Binding{
				ZPos:        z,
				Group:       g,
				Assignments: c.assign[mark:len(c.assign):len(c.assign)],
			})
			return true
		}
		c.undo(mark)
	}
	return false
}

func (c *Context) bindGroup(g *plane.Group, layers []*plane.Layer, z int) bool {
	for _, l := range layers {
		found := false
		for _, p := range g.Planes {
			if c.planes.Test(p.Index()) {
				continue
			}
			r, compressed := c.check(p, l, z)
			if r != plane.ReasonNone {
				if c.debug {
					c.logger.Debug("match: plane rejected layer",
						"plane", p.Name, "layer", l.ID, "z", z, "reason", r.String())
				}
				continue
			}
			c.pick(p, l, z, compressed)
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

// undo drops the picks made since mark and restores pairing state. Pairing
// marked broken against a primary bound before the failed group stays broken.
func (c *Context) undo(mark int) {
	for _, a := range c.assign[mark:] {
		c.planes.Clear(a.Plane.Index())
		c.layers.Clear(a.Layer.Order)
	}
	c.assign = c.assign[:mark]
	for i := range c.pairs {
		broken := c.pairs[i].broken && c.saved[i].bound
		c.pairs[i] = c.saved[i]
		c.pairs[i].broken = c.saved[i].broken || broken
	}
}

func (c *Context) pick(p *plane.Plane, l *plane.Layer, z int, compressed bool) {
	c.planes.Set(p.Index())
	c.layers.Set(l.Order)
	c.assign = append(c.assign, plane.Assignment{Layer: l, Plane: p, Compressed: compressed})

	if s := p.Pair; s != nil && !s.Secondary {
		limit := c.table.Rules.PairMaxWidth
		c.pairs[s.Unit] = pairState{
			bound:      true,
			z:          z,
			left:       l.Display.Left,
			format:     l.Format,
			compressed: compressed,
			open: !(limit > 0 && (l.Source.Width() > limit || l.Display.Width() > limit)) &&
				!l.HDR && !l.Transform.QuarterTurn(),
		}
	}
}

// check evaluates p against l and returns the compression setting the plane
// would be programmed with.
func (c *Context) check(p *plane.Plane, l *plane.Layer, z int) (plane.Reason, bool) {
	if s := p.Pair; s != nil && s.Secondary {
		if r := c.checkPair(s.Unit, l, z); r != plane.ReasonNone {
			return r, l.Compressed
		}
	}

	compressed := l.Compressed
	r := p.Check(l)
	if r == plane.ReasonFormat && l.Target && c.targetFlip && p.SupportsFormat(l.Format, !compressed) {
		alt := *l
		alt.Compressed = !compressed
		if r = p.Check(&alt); r == plane.ReasonNone {
			compressed = alt.Compressed
		}
	}
	if r != plane.ReasonNone {
		return r, compressed
	}

	rules := &c.table.Rules
	if compressed && l.Transform&(plane.ReflectX|plane.Rotate90|plane.Rotate270) != 0 &&
		rules.RotateStrideAlign > 0 && l.Stride%rules.RotateStrideAlign != 0 {
		return plane.ReasonStride, compressed
	}
	if compressed && l.Transform.QuarterTurn() &&
		rules.RotateMaxHeight > 0 && l.Source.Height() > rules.RotateMaxHeight {
		return plane.ReasonRotateHeight, compressed
	}

	if c.mirror {
		switch p.CheckGeometry(l.MirrorDisplay, l.MirrorHScale(), l.MirrorVScale()) {
		case plane.ReasonNone:
		case plane.ReasonOutput:
			return plane.ReasonMirrorOutput, compressed
		default:
			return plane.ReasonMirrorScale, compressed
		}
	}
	return plane.ReasonNone, compressed
}

// checkPair validates a secondary window of unit u for l at z. Continuity
// failures break pairing for the unit until its primary is bound again.
func (c *Context) checkPair(u int, l *plane.Layer, z int) plane.Reason {
	ps := &c.pairs[u]
	if !ps.bound || !ps.open || ps.broken {
		return plane.ReasonPairing
	}
	limit := c.table.Rules.PairMaxWidth
	switch {
	case z != ps.z && z != ps.z+1,
		(ps.left-l.Display.Left)%2 != 0,
		l.Format != ps.format || l.Compressed != ps.compressed,
		limit > 0 && (l.Source.Width() > limit || l.Display.Width() > limit):
		ps.broken = true
		if c.debug {
			c.logger.Debug("match: pairing disabled", "unit", u, "layer", l.ID, "z", z, "primary_z", ps.z)
		}
		return plane.ReasonPairing
	}
	return plane.ReasonNone
}

// Force binds target to the first free plane accepting its format with either
// compression setting, ignoring geometry. When no free plane knows the
// format at all, the first free plane is taken. It is the last resort that
// keeps full-software composition infallible on a non-empty pool.
func (c *Context) Force(target *plane.Layer, z int) bool {
	for _, strict := range [...]bool{true, false} {
		for gi, g := range c.table.Groups {
			if c.blocked.Test(gi) || c.groups.Test(gi) {
				continue
			}
			for _, p := range g.Planes {
				if c.planes.Test(p.Index()) {
					continue
				}
				compressed := target.Compressed
				switch {
				case p.SupportsFormat(target.Format, compressed):
				case p.SupportsFormat(target.Format, !compressed):
					compressed = !compressed
				case strict:
					continue
				}
				mark := len(c.assign)
				c.pick(p, target, z, compressed)
				c.groups.Set(gi)
				c.bindings = append(c.bindings, plane.Binding{
					ZPos:        z,
					Group:       g,
					Assignments: c.assign[mark:len(c.assign):len(c.assign)],
				})
				c.logger.LogAttrs(context.Background(), slog.LevelWarn, "match: target forced onto plane",
					slog.String("plane", p.Name),
					slog.String("format", target.Format.String()),
					slog.Bool("format_supported", strict))
				return true
			}
		}
	}
	return false
}
