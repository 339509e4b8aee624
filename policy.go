package hwc

import (
	"strings"

	"github.com/gogpu/hwc/plane"
)

// Policy identifies one placement strategy of the planner.
type Policy uint8

const (
	// PolicyNone is the zero value; no plan has been produced.
	PolicyNone Policy = iota

	// PolicyOverlay puts every layer on a plane.
	PolicyOverlay

	// PolicyMixSkip composites the span between the first and the last
	// software layer, widened if needed.
	PolicyMixSkip

	// PolicyMixVideo keeps the bottom layers up to and including the video
	// on planes and composites the layers above it.
	PolicyMixVideo

	// PolicyMixTop composites a span ending at the top layer.
	PolicyMixTop

	// PolicyMixBottom composites a span starting at the bottom layer.
	PolicyMixBottom

	// PolicySoftware composites every layer into the framebuffer target.
	PolicySoftware
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "None"
	case PolicyOverlay:
		return "Overlay"
	case PolicyMixSkip:
		return "MixSkip"
	case PolicyMixVideo:
		return "MixVideo"
	case PolicyMixTop:
		return "MixTop"
	case PolicyMixBottom:
		return "MixBottom"
	case PolicySoftware:
		return "Software"
	default:
		return "Unknown"
	}
}

// Mixed reports whether the policy splits the frame between planes and the
// framebuffer target.
func (p Policy) Mixed() bool { return p >= PolicyMixSkip && p <= PolicyMixBottom }

// policyOrder is the fixed priority order of the planner.
var policyOrder = [...]Policy{
	PolicyOverlay, PolicyMixSkip, PolicyMixVideo, PolicyMixTop, PolicyMixBottom, PolicySoftware,
}

// PolicySet is a set of policies.
type PolicySet uint16

// Has reports whether p is in the set.
func (s PolicySet) Has(p Policy) bool { return s&(1<<p) != 0 }

// With returns s with p added.
func (s PolicySet) With(p Policy) PolicySet { return s | 1<<p }

// Policies returns the members in priority order.
func (s PolicySet) Policies() []Policy {
	out := make([]Policy, 0, len(policyOrder))
	for _, p := range policyOrder {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s PolicySet) String() string {
	var b strings.Builder
	for i, p := range s.Policies() {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// FrameStats holds what policy selection looks at.
type FrameStats struct {
	Demand        plane.Demand
	Supply        plane.Supply
	ForceSoftware bool
}

// SelectPolicies returns the policies worth trying for a frame.
//
// Heuristics:
//   - Forced software, or a frame with no layers: only Software
//   - Overlay only when aggregate demand fits aggregate supply
//   - MixSkip only when some layer needs software
//   - MixVideo only when the frame has video and some plane can show it
//   - MixTop, MixBottom and Software always
func SelectPolicies(stats FrameStats) PolicySet {
	var s PolicySet
	if stats.ForceSoftware || stats.Demand.Layers == 0 {
		return s.With(PolicySoftware)
	}
	if stats.Demand.FitsOverlay(stats.Supply) {
		s = s.With(PolicyOverlay)
	}
	if stats.Demand.Software > 0 {
		s = s.With(PolicyMixSkip)
	}
	if stats.Demand.Video > 0 && stats.Supply.Video > 0 {
		s = s.With(PolicyMixVideo)
	}
	return s.With(PolicyMixTop).With(PolicyMixBottom).With(PolicySoftware)
}
