package hwc

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/hwc/plane"
)

func TestPolicyString(t *testing.T) {
	tests := []struct {
		p    Policy
		want string
	}{
		{PolicyNone, "None"},
		{PolicyOverlay, "Overlay"},
		{PolicyMixSkip, "MixSkip"},
		{PolicyMixVideo, "MixVideo"},
		{PolicyMixTop, "MixTop"},
		{PolicyMixBottom, "MixBottom"},
		{PolicySoftware, "Software"},
		{Policy(42), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.String())
	}
	assert.True(t, PolicyMixVideo.Mixed())
	assert.False(t, PolicyOverlay.Mixed())
	assert.False(t, PolicySoftware.Mixed())
}

func TestSelectPolicies(t *testing.T) {
	plenty := plane.Supply{Groups: 8, Compression: 4, Scaling: 8, Video: 4, Rotation: 4}
	tests := []struct {
		name  string
		stats FrameStats
		want  string
	}{
		{
			name:  "forced",
			stats: FrameStats{Demand: plane.Demand{Layers: 3}, Supply: plenty, ForceSoftware: true},
			want:  "Software",
		},
		{
			name:  "no layers",
			stats: FrameStats{Supply: plenty},
			want:  "Software",
		},
		{
			name:  "fits",
			stats: FrameStats{Demand: plane.Demand{Layers: 3, Compressed: 1}, Supply: plenty},
			want:  "Overlay|MixTop|MixBottom|Software",
		},
		{
			name:  "software layer",
			stats: FrameStats{Demand: plane.Demand{Layers: 3, Software: 1}, Supply: plenty},
			want:  "MixSkip|MixTop|MixBottom|Software",
		},
		{
			name:  "video",
			stats: FrameStats{Demand: plane.Demand{Layers: 3, Video: 1}, Supply: plenty},
			want:  "Overlay|MixVideo|MixTop|MixBottom|Software",
		},
		{
			name:  "video without video planes",
			stats: FrameStats{Demand: plane.Demand{Layers: 3, Video: 1}, Supply: plane.Supply{Groups: 4}},
			want:  "MixTop|MixBottom|Software",
		},
		{
			name:  "too many rotations",
			stats: FrameStats{Demand: plane.Demand{Layers: 3, Rotated: 5}, Supply: plenty},
			want:  "MixTop|MixBottom|Software",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectPolicies(tt.stats).String())
		})
	}
}

func TestPolicySetOrder(t *testing.T) {
	var s PolicySet
	s = s.With(PolicySoftware).With(PolicyOverlay).With(PolicyMixBottom)
	assert.Equal(t, []Policy{PolicyOverlay, PolicyMixBottom, PolicySoftware}, s.Policies())
	assert.True(t, s.Has(PolicyOverlay))
	assert.False(t, s.Has(PolicyMixSkip))
}

func collect(seq func(func(Span) bool)) []Span {
	var out []Span
	for s := range seq {
		out = append(out, s)
	}
	return out
}

func TestSkipSpans(t *testing.T) {
	assert.Equal(t, []Span{{2, 3}, {1, 3}, {0, 3}, {0, 4}}, collect(skipSpans(5, 2, 3)))
	assert.Equal(t, []Span{{0, 0}, {0, 1}, {0, 2}}, collect(skipSpans(3, 0, 0)))
	assert.Equal(t, []Span{{0, 2}}, collect(skipSpans(3, 0, 2)))
	assert.Empty(t, collect(skipSpans(0, 0, 0)))
	assert.Empty(t, collect(skipSpans(3, 2, 1)))
}

func TestVideoSpans(t *testing.T) {
	// Six layers, three groups, video at 1: start with three layers on top.
	assert.Equal(t, []Span{{3, 5}, {2, 5}}, collect(videoSpans(6, 3, 1)))
	// More groups than layers still composites the top layer.
	assert.Equal(t, []Span{{3, 3}, {2, 3}, {1, 3}}, collect(videoSpans(4, 8, 0)))
	// Video on top leaves nothing to composite.
	assert.Empty(t, collect(videoSpans(4, 2, 3)))
}

func TestTopBottomSpans(t *testing.T) {
	assert.Equal(t, []Span{{2, 2}, {1, 2}}, collect(topSpans(3)))
	assert.Equal(t, []Span{{0, 0}, {0, 1}}, collect(bottomSpans(3)))
	assert.Empty(t, collect(topSpans(1)))
	assert.Empty(t, collect(bottomSpans(1)))
	assert.Empty(t, collect(topSpans(0)))
}

// Every generator grows its span by exactly one layer per step and stays
// within bounds, so each yields at most n spans.
func TestSpansGrow(t *testing.T) {
	for n := range 9 {
		gens := map[string][]Span{
			"top":    collect(topSpans(n)),
			"bottom": collect(bottomSpans(n)),
		}
		for first := range n {
			for last := first; last < n; last++ {
				gens["skip"] = collect(skipSpans(n, first, last))
				for v := range n {
					gens["video"] = collect(videoSpans(n, 3, v))
					for name, spans := range gens {
						assert.LessOrEqual(t, len(spans), n, name)
						for i, s := range spans {
							assert.True(t, s.First >= 0 && s.Last < n && s.First <= s.Last, "%s %v", name, s)
							if i > 0 {
								assert.Equal(t, spans[i-1].Len()+1, s.Len(), "%s %v", name, spans)
								assert.True(t, s.Covers(spans[i-1]), "%s %v", name, spans)
							}
						}
						assert.False(t, slices.ContainsFunc(spans, func(s Span) bool { return s.Len() == 0 }))
					}
				}
			}
		}
	}
}

func TestSpan(t *testing.T) {
	s := Span{2, 4}
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(5))
	assert.True(t, s.Covers(Span{3, 4}))
	assert.False(t, s.Covers(Span{1, 3}))
	assert.Equal(t, "(2,4)", s.String())
}
