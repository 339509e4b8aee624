package hwc

import (
	"context"
	"iter"
	"log/slog"
	"slices"

	"github.com/gogpu/hwc/internal/combine"
	"github.com/gogpu/hwc/internal/match"
	"github.com/gogpu/hwc/plane"
	"github.com/gogpu/hwc/trace"
)

// Planner assigns the layers of successive frames of one display to plane
// groups of a capability table.
//
// A Planner is not safe for concurrent use. Planners of different displays
// sharing one pool of planes must be created from the same [Pool].
type Planner struct {
	table  *plane.Table
	opts   options
	logger *slog.Logger
	debug  bool

	ctx      *match.Context
	combiner *combine.Combiner
	pool     *Pool

	reserved      []int
	warnedReserve bool

	work     []*plane.Layer
	attempts int
	records  []trace.Attempt
	seq      uint64
	last     Policy
}

// New returns a Planner for table.
func New(table *plane.Table, opts ...Option) (*Planner, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	p := &Planner{
		table:  table,
		opts:   o,
		logger: logger,
		debug:  logger.Enabled(context.Background(), slog.LevelDebug),
		ctx:    match.New(table, logger),
		combiner: combine.New(combine.Options{
			MultiRegion:      o.multiRegion,
			MultiRegionScale: o.multiRegionScale,
			MaxWindows:       table.MaxWindows(),
		}),
	}
	p.ctx.SetTargetFlip(true)
	p.resolveReserved()
	return p, nil
}

// Table returns the capability table the Planner works on.
func (p *Planner) Table() *plane.Table { return p.table }

// Display returns the display index the Planner works for.
func (p *Planner) Display() int { return p.opts.display }

func (p *Planner) resolveReserved() {
	for _, name := range p.opts.reserved {
		_, g, ok := p.table.PlaneByName(name)
		if !ok {
			p.logger.Warn("hwc: reserved plane not found", "plane", name, "table", p.table.Name)
			continue
		}
		if !slices.Contains(p.reserved, g.Index()) {
			p.reserved = append(p.reserved, g.Index())
		}
	}
}

// Plan assigns the frame's layers. On success every layer's planner fields
// describe its composition, and the returned Plan lists the bindings.
//
// The only failure for a valid frame is [ErrNoResources]: the display has
// no usable plane group.
func (p *Planner) Plan(f *Frame) (*Plan, error) {
	if f == nil {
		return nil, ErrNilFrame
	}
	if f.Target == nil && (f.Width <= 0 || f.Height <= 0) {
		return nil, ErrInvalidFrame
	}
	if p.pool != nil {
		p.pool.mu.Lock()
		defer p.pool.mu.Unlock()
	}

	p.seq++
	p.attempts = 0
	p.records = p.records[:0]
	plan, err := p.plan(f)
	p.emit(f, plan, err)
	return plan, err
}

func (p *Planner) plan(f *Frame) (*Plan, error) {
	n := len(f.Layers)
	p.ctx.Begin(n + 1)
	p.block()
	if p.ctx.Available() == 0 {
		return nil, ErrNoResources
	}

	rules := &p.table.Rules
	sw := Span{-1, -1}
	video, largeVideo := -1, -1
	for i, l := range f.Layers {
		l.Reset()
		l.Order = i
		if reason := rules.SoftwareReason(l); reason != "" {
			l.Software = true
			if sw.First < 0 {
				sw.First = i
			}
			sw.Last = i
			if p.debug {
				p.logger.Debug("hwc: layer needs software", "layer", l.ID, "name", l.Name, "reason", reason)
			}
			continue
		}
		if l.Video() {
			video = i
			if rules.LargeVideo(l) {
				largeVideo = i
			}
		}
	}
	if largeVideo >= 0 {
		video = largeVideo
	}

	target := p.prepareTarget(f)
	target.Order = n
	sx, sy, mirrored := mirrorScale(f)
	p.ctx.SetMirror(mirrored)
	if mirrored {
		applyMirror(f.Layers, sx, sy)
		target.MirrorDisplay = target.Display.Scale(sx, sy)
	}

	demand := plane.CountDemand(f.Layers, rules)
	supply := plane.CountSupply(p.table.Groups, p.available)
	compressed, why := p.targetCompression(target, demand, supply, mirrored)
	target.Compressed = compressed
	if p.debug && !compressed {
		p.logger.Debug("hwc: framebuffer target uncompressed", "reason", why)
	}

	set := SelectPolicies(FrameStats{Demand: demand, Supply: supply, ForceSoftware: p.opts.forceSoftware})
	for _, pol := range policyOrder {
		if !set.Has(pol) {
			continue
		}
		if span, ok := p.try(pol, f.Layers, target, sw, video); ok {
			return p.finish(f, pol, span, target), nil
		}
	}
	// Software only fails when no free plane exists, which Available rules out.
	return nil, ErrNoResources
}

// block marks the groups this display cannot use for the frame.
func (p *Planner) block() {
	for gi, g := range p.table.Groups {
		if g.Reserved || !g.Usable(p.opts.display) ||
			(p.pool != nil && p.pool.ownedByOther(gi, p.opts.display)) {
			p.ctx.Block(gi)
		}
	}
	if len(p.reserved) == 0 {
		return
	}
	left := p.ctx.Available()
	for _, gi := range p.reserved {
		if !p.ctx.Blocked(gi) {
			left--
		}
	}
	if left <= 0 {
		if p.ctx.Available() > 0 && !p.warnedReserve {
			p.logger.Warn("hwc: reserved planes would leave no plane group, reservations ignored",
				"display", p.opts.display)
			p.warnedReserve = true
		}
		return
	}
	for _, gi := range p.reserved {
		p.ctx.Block(gi)
	}
}

func (p *Planner) available(g *plane.Group) bool { return !p.ctx.Blocked(g.Index()) }

// try runs one policy and returns the span composited in software.
func (p *Planner) try(pol Policy, layers []*plane.Layer, target *plane.Layer, sw Span, video int) (Span, bool) {
	n := len(layers)
	none := Span{-1, -1}
	switch pol {
	case PolicyOverlay:
		return none, p.attempt(pol, none, layers)
	case PolicyMixSkip:
		if sw.First < 0 {
			return none, false
		}
		return p.mix(pol, skipSpans(n, sw.First, sw.Last), layers, target, sw)
	case PolicyMixVideo:
		if video < 0 {
			return none, false
		}
		return p.mix(pol, videoSpans(n, p.ctx.Available(), video), layers, target, sw)
	case PolicyMixTop:
		return p.mix(pol, topSpans(n), layers, target, sw)
	case PolicyMixBottom:
		return p.mix(pol, bottomSpans(n), layers, target, sw)
	case PolicySoftware:
		all := Span{0, n - 1}
		p.work = append(p.work[:0], target)
		if p.attempt(pol, all, p.work) {
			return all, true
		}
		p.ctx.Reset()
		return all, p.ctx.Force(target, 0)
	}
	return none, false
}

// mix tries each candidate span in order. Spans that leave a software layer
// outside are skipped without matching.
func (p *Planner) mix(pol Policy, spans iter.Seq[Span], layers []*plane.Layer, target *plane.Layer, sw Span) (Span, bool) {
	for s := range spans {
		if sw.First >= 0 && !s.Covers(sw) {
			continue
		}
		p.work = append(p.work[:0], layers[:s.First]...)
		p.work = append(p.work, target)
		p.work = append(p.work, layers[s.Last+1:]...)
		if p.attempt(pol, s, p.work) {
			return s, true
		}
	}
	return Span{-1, -1}, false
}

// attempt runs grouping and matching over one candidate layer list from a
// clean state.
func (p *Planner) attempt(pol Policy, span Span, layers []*plane.Layer) bool {
	p.ctx.Reset()
	groups, ok := p.combiner.Combine(layers, p.ctx.Available())
	if ok {
		ok = p.ctx.Match(groups)
	}
	p.attempts++
	if p.opts.trace != nil {
		p.records = append(p.records, trace.Attempt{
			Policy: pol.String(),
			First:  span.First,
			Last:   span.Last,
			Groups: len(groups),
			OK:     ok,
		})
	}
	if p.debug {
		p.logger.Debug("hwc: attempt", "policy", pol.String(), "span", span.String(),
			"groups", len(groups), "ok", ok)
	}
	return ok
}

// finish writes the outcome back into the layers and builds the Plan.
func (p *Planner) finish(f *Frame, pol Policy, span Span, target *plane.Layer) *Plan {
	plan := &Plan{
		Display:  p.opts.display,
		Policy:   pol,
		Bindings: cloneBindings(p.ctx.Bindings()),
		Attempts: p.attempts,
	}
	compressed := target.Compressed
	for _, b := range plan.Bindings {
		for _, a := range b.Assignments {
			a.Layer.Composition = plane.CompositionDevice
			a.Layer.ZPos = b.ZPos
			a.Layer.Plane = a.Plane
			if a.Layer == target {
				compressed = a.Compressed
			}
		}
	}
	if pol != PolicyOverlay {
		for i := span.First; i <= span.Last; i++ {
			f.Layers[i].Composition = plane.CompositionClient
		}
		plan.Target = &Target{
			Layer:         target,
			Span:          span,
			Format:        target.Format,
			TextureFormat: target.Format.TextureFormat(),
			Compressed:    compressed,
			Width:         target.Source.Width(),
			Height:        target.Source.Height(),
		}
	}

	if pol != p.last {
		p.logger.Info("hwc: policy changed", "display", p.opts.display,
			"from", p.last.String(), "to", pol.String(), "attempts", p.attempts)
		p.last = pol
	}
	if p.pool != nil {
		p.pool.claim(p.opts.display, plan.Bindings)
	}
	return plan
}

func (p *Planner) emit(f *Frame, plan *Plan, err error) {
	if p.opts.trace == nil {
		return
	}
	tf := &trace.Frame{
		Seq:         p.seq,
		Display:     p.opts.display,
		Layers:      len(f.Layers),
		Attempts:    slices.Clone(p.records),
		TargetFirst: -1,
		TargetLast:  -1,
	}
	if err != nil {
		tf.Error = err.Error()
		p.opts.trace.Record(tf)
		return
	}
	tf.Policy = plan.Policy.String()
	for _, b := range plan.Bindings {
		tb := trace.Binding{Z: b.ZPos, Group: b.Group.Name}
		for _, a := range b.Assignments {
			tb.Planes = append(tb.Planes, a.Plane.Name)
			tb.Layers = append(tb.Layers, a.Layer.ID)
		}
		tf.Bindings = append(tf.Bindings, tb)
	}
	if t := plan.Target; t != nil {
		tf.TargetFirst = t.Span.First
		tf.TargetLast = t.Span.Last
		tf.TargetCompressed = t.Compressed
	}
	p.opts.trace.Record(tf)
}
