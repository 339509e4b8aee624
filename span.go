package hwc

import (
	"fmt"
	"iter"
)

// Span is an inclusive range of layer indices composited into the
// framebuffer target.
type Span struct {
	First, Last int
}

// Len returns the number of layers in the span.
func (s Span) Len() int { return s.Last - s.First + 1 }

// Contains reports whether index i lies in the span.
func (s Span) Contains(i int) bool { return i >= s.First && i <= s.Last }

// Covers reports whether o lies entirely in s.
func (s Span) Covers(o Span) bool { return o.First >= s.First && o.Last <= s.Last }

func (s Span) String() string { return fmt.Sprintf("(%d,%d)", s.First, s.Last) }

// The generators below yield candidate spans in priority order. Each span
// after the first is one layer longer than the one before it, so a
// generator over n layers yields at most n spans.

// skipSpans starts at the span of software layers [first, last], widens the
// bottom edge to index 0, then widens the top edge to n-1.
func skipSpans(n, first, last int) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		if n == 0 || first < 0 || last >= n || first > last {
			return
		}
		if !yield(Span{first, last}) {
			return
		}
		for f := first - 1; f >= 0; f-- {
			if !yield(Span{f, last}) {
				return
			}
		}
		for l := last + 1; l < n; l++ {
			if !yield(Span{0, l}) {
				return
			}
		}
	}
}

// videoSpans keeps layers up to and including the video layer at index
// video on planes and composites a span ending at the top layer. The span
// starts with max(1, n-groups) layers and grows downward until it would
// reach the video layer or index 0.
func videoSpans(n, groups, video int) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		floor := max(video+1, 1)
		k := max(1, n-groups)
		for f := max(n-k, floor); f >= floor && f <= n-1; f-- {
			if !yield(Span{f, n - 1}) {
				return
			}
		}
	}
}

// topSpans composites the top layer, then grows downward, leaving at least
// the bottom layer on a plane.
func topSpans(n int) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for f := n - 1; f >= 1; f-- {
			if !yield(Span{f, n - 1}) {
				return
			}
		}
	}
}

// bottomSpans composites the bottom layer, then grows upward, leaving at
// least the top layer on a plane.
func bottomSpans(n int) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for l := 0; l <= n-2; l++ {
			if !yield(Span{0, l}) {
				return
			}
		}
	}
}
