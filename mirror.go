package hwc

import "github.com/gogpu/hwc/plane"

// mirrorScale returns the factors that map framebuffer coordinates onto the
// mirrored output's mode. ok is false without a usable mirror.
func mirrorScale(f *Frame) (sx, sy float64, ok bool) {
	m := f.Mirror
	if m == nil || m.Width <= 0 || m.Height <= 0 || f.Width <= 0 || f.Height <= 0 {
		return 0, 0, false
	}
	return float64(m.Width) / float64(f.Width), float64(m.Height) / float64(f.Height), true
}

// applyMirror sets MirrorDisplay of every layer. The matcher checks plane
// output size and scale against it in addition to Display.
func applyMirror(layers []*plane.Layer, sx, sy float64) {
	for _, l := range layers {
		l.MirrorDisplay = l.Display.Scale(sx, sy)
	}
}
