// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

import "slices"

// SoftwareReason returns a short reason when l cannot be overlaid by any plane
// of the generation, independent of which plane is tried. It returns "" when
// the layer may be offered to the matcher. The framebuffer target is never
// sent to software.
func (r *Rules) SoftwareReason(l *Layer) string {
	if l.Target {
		return ""
	}
	if l.Skip {
		return "skip"
	}
	if slices.Contains(r.Unsupported, l.Format) {
		return "unsupported-format"
	}
	if l.Transform&Unsupported != 0 {
		return "unsupported-transform"
	}
	sw, sh := l.Source.Width(), l.Source.Height()
	dw, dh := l.Display.Width(), l.Display.Height()
	if m := r.MinLayerSize; sw < m || sh < m || dw < m || dh < m {
		return "too-small"
	}
	if l.Compressed && r.CompressedWidthAlign > 0 && sw%r.CompressedWidthAlign != 0 {
		return "compressed-width"
	}
	if r.OddWidthDownscale && !l.Compressed && sw > dw && (sw%16 == 1 || dw%2 == 1) {
		return "odd-width-downscale"
	}
	return ""
}

// LargeVideo reports whether l is a video layer that needs one of the few
// planes able to carry it: wider than LargeVideoWidth in the buffer, or for
// compressed layers also on screen or when HDR.
func (r *Rules) LargeVideo(l *Layer) bool {
	if !l.Video() {
		return false
	}
	w := r.LargeVideoWidth
	if w > 0 && l.Width() > w {
		return true
	}
	return l.Compressed && (l.HDR || (w > 0 && l.Display.Width() > w))
}

// TargetScaleOK reports whether a compressed framebuffer target may be
// scanned out with scale factor f. Zero bounds disable the check.
func (r *Rules) TargetScaleOK(f float64) bool {
	if r.TargetScaleMin > 0 && f < r.TargetScaleMin {
		return false
	}
	if r.TargetScaleMax > 0 && f > r.TargetScaleMax {
		return false
	}
	return true
}
