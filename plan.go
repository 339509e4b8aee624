package hwc

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwc/plane"
)

// Plan is the outcome of planning one frame, consumed by the commit stage.
type Plan struct {
	Display int
	Policy  Policy

	// Bindings are in z order. Each binding's assignments are copies owned
	// by the Plan.
	Bindings []plane.Binding

	// Target describes the framebuffer target when the policy composites
	// any layer in software. It is nil for Overlay.
	Target *Target

	// Attempts counts the placement attempts made, including the successful one.
	Attempts int
}

// Target describes the software-composited framebuffer target handed to the
// GPU or CPU compositor.
type Target struct {
	Layer *plane.Layer

	// Span is the range of frame layers the compositor draws into the
	// target. It is empty (Len 0) for a frame without layers.
	Span Span

	Format        plane.Format
	TextureFormat gputypes.TextureFormat
	// Compressed is the compression the target must be rendered with. It
	// is the compression of the plane binding, which can differ from the
	// initial choice.
	Compressed bool

	Width, Height int
}

// Planes returns the number of planes the plan uses.
func (p *Plan) Planes() int {
	n := 0
	for _, b := range p.Bindings {
		n += len(b.Assignments)
	}
	return n
}

// Validate checks the structural guarantees of a plan against a pool of
// groups plane groups: at most one binding per group and per plane, each
// layer in at most one binding, z-positions strictly increasing together
// with paint order, and no more bindings than groups.
func (p *Plan) Validate(groups int) error {
	if len(p.Bindings) > groups {
		return fmt.Errorf("%w: %d bindings for %d groups", ErrInvalidPlan, len(p.Bindings), groups)
	}
	seenGroups := make(map[*plane.Group]bool, len(p.Bindings))
	seenPlanes := make(map[*plane.Plane]bool)
	seenLayers := make(map[*plane.Layer]bool)
	lastZ, lastOrder := -1, -1
	for i, b := range p.Bindings {
		if b.Group == nil || len(b.Assignments) == 0 {
			return fmt.Errorf("%w: binding %d is empty", ErrInvalidPlan, i)
		}
		if seenGroups[b.Group] {
			return fmt.Errorf("%w: group %q bound twice", ErrInvalidPlan, b.Group.Name)
		}
		seenGroups[b.Group] = true
		if b.ZPos <= lastZ {
			return fmt.Errorf("%w: z-position %d after %d", ErrInvalidPlan, b.ZPos, lastZ)
		}
		lastZ = b.ZPos

		lo, hi := -1, -1
		for _, a := range b.Assignments {
			if seenPlanes[a.Plane] {
				return fmt.Errorf("%w: plane %q bound twice", ErrInvalidPlan, a.Plane.Name)
			}
			seenPlanes[a.Plane] = true
			if seenLayers[a.Layer] {
				return fmt.Errorf("%w: layer %d bound twice", ErrInvalidPlan, a.Layer.ID)
			}
			seenLayers[a.Layer] = true
			first, last := p.paintRange(a.Layer)
			if lo < 0 || first < lo {
				lo = first
			}
			hi = max(hi, last)
		}
		if lo <= lastOrder {
			return fmt.Errorf("%w: binding at z %d breaks paint order", ErrInvalidPlan, b.ZPos)
		}
		lastOrder = hi
	}
	return nil
}

// paintRange returns the paint-order positions a bound layer stands for.
// The framebuffer target stands for its whole span.
func (p *Plan) paintRange(l *plane.Layer) (first, last int) {
	if l.Target && p.Target != nil {
		return p.Target.Span.First, max(p.Target.Span.Last, p.Target.Span.First)
	}
	return l.Order, l.Order
}

// cloneBindings copies bindings out of matcher storage.
func cloneBindings(src []plane.Binding) []plane.Binding {
	n := 0
	for _, b := range src {
		n += len(b.Assignments)
	}
	assign := make([]plane.Assignment, 0, n)
	out := make([]plane.Binding, len(src))
	for i, b := range src {
		start := len(assign)
		assign = append(assign, b.Assignments...)
		out[i] = plane.Binding{ZPos: b.ZPos, Group: b.Group, Assignments: assign[start:len(assign):len(assign)]}
	}
	return out
}
