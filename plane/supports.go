// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

// Reason explains why a plane rejected a layer. ReasonNone means accepted.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonFormat
	ReasonInput
	ReasonOutput
	ReasonScale
	ReasonRotation
	ReasonAlpha
	ReasonHDR

	// Structural reasons are raised by the matcher, not by Plane.Check.
	ReasonStride
	ReasonRotateHeight
	ReasonPairing
	ReasonMirrorOutput
	ReasonMirrorScale
)

var reasonNames = [...]string{
	ReasonNone:         "ok",
	ReasonFormat:       "format",
	ReasonInput:        "input-size",
	ReasonOutput:       "output-size",
	ReasonScale:        "scale",
	ReasonRotation:     "rotation",
	ReasonAlpha:        "alpha",
	ReasonHDR:          "hdr",
	ReasonStride:       "stride",
	ReasonRotateHeight: "rotate-height",
	ReasonPairing:      "pairing",
	ReasonMirrorOutput: "mirror-output-size",
	ReasonMirrorScale:  "mirror-scale",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Supports reports whether p can scan out l on its own.
func (p *Plane) Supports(l *Layer) bool { return p.Check(l) == ReasonNone }

// Check evaluates format and compression, input and output size, scale per
// axis, rotation, plane alpha and HDR, in that order, and returns the first
// failing property.
func (p *Plane) Check(l *Layer) Reason {
	if !p.SupportsFormat(l.Format, l.Compressed) {
		return ReasonFormat
	}
	if !within(l.Source.Width(), l.Source.Height(), p.MinInput, p.MaxInput) {
		return ReasonInput
	}
	if r := p.CheckGeometry(l.Display, l.HScale(), l.VScale()); r != ReasonNone {
		return r
	}
	if l.Transform&Unsupported != 0 || !p.Rotations.Contains(l.Transform) {
		return ReasonRotation
	}
	if l.Transform != 0 && p.CompressedRotationsOnly && !l.Compressed {
		return ReasonRotation
	}
	if l.PlaneAlpha() != 0xFF && !p.Alpha {
		return ReasonAlpha
	}
	if l.HDR && !p.HDR {
		return ReasonHDR
	}
	return ReasonNone
}

// CheckGeometry evaluates the output size of dst and the scale factors
// hs and vs (source/destination). It is used both for the primary display
// and for a mirrored output.
func (p *Plane) CheckGeometry(dst Rect, hs, vs float64) Reason {
	if !within(dst.Width(), dst.Height(), p.MinOutput, p.MaxOutput) {
		return ReasonOutput
	}
	if !p.scaleOK(hs) || !p.scaleOK(vs) {
		return ReasonScale
	}
	return ReasonNone
}

func (p *Plane) scaleOK(f float64) bool {
	if f <= 0 {
		return false
	}
	if !p.Scaling() {
		return f == 1
	}
	return f >= p.ScaleMin && f <= p.ScaleMax
}
