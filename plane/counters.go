// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

import "slices"

// Demand summarises what a frame asks of the hardware.
type Demand struct {
	Layers     int
	Compressed int
	Scaled     int
	Video      int
	LargeVideo int
	// LargeCompressedVideo counts large video layers that are also compressed.
	LargeCompressedVideo int
	Rotated              int
	HDR                  int
	Software             int
}

// Supply summarises what the available groups offer. Each group counts once,
// by its first plane.
type Supply struct {
	Groups      int
	Compression int
	Scaling     int
	Video       int
	// CompressedVideo counts groups that take compressed YUV.
	CompressedVideo int
	Rotation        int
	HDR             int
}

// CountDemand tallies layers. Target layers are not counted.
func CountDemand(layers []*Layer, rules *Rules) Demand {
	var d Demand
	for _, l := range layers {
		if l.Target {
			continue
		}
		d.Layers++
		if l.NeedsSoftware() {
			d.Software++
		}
		if l.Compressed {
			d.Compressed++
		}
		if l.Scaled() {
			d.Scaled++
		}
		if l.Video() {
			d.Video++
		}
		if rules.LargeVideo(l) {
			d.LargeVideo++
			if l.Compressed {
				d.LargeCompressedVideo++
			}
		}
		if l.Rotated() {
			d.Rotated++
		}
		if l.HDR {
			d.HDR++
		}
	}
	return d
}

// CountSupply tallies groups for which usable returns true. A nil usable
// counts every group.
func CountSupply(groups []*Group, usable func(*Group) bool) Supply {
	var s Supply
	for _, g := range groups {
		if usable != nil && !usable(g) {
			continue
		}
		p := g.Planes[0]
		s.Groups++
		if p.Compression() {
			s.Compression++
		}
		if p.Scaling() {
			s.Scaling++
		}
		if p.YUV() {
			s.Video++
		}
		if slices.ContainsFunc(p.CompressedFormats, Format.IsYUV) {
			s.CompressedVideo++
		}
		if p.Rotation() {
			s.Rotation++
		}
		if p.HDR {
			s.HDR++
		}
	}
	return s
}

// FitsOverlay reports whether every layer could in principle get its own
// capable group: no software layers, and compressed, scaled, video and
// rotated demand each within supply.
func (d Demand) FitsOverlay(s Supply) bool {
	return d.Software == 0 &&
		d.Compressed <= s.Compression &&
		d.Scaled <= s.Scaling &&
		d.Video <= s.Video &&
		d.Rotated <= s.Rotation
}
