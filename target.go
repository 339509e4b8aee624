package hwc

import "github.com/gogpu/hwc/plane"

// prepareTarget returns the frame's framebuffer target, synthesising one
// that covers the framebuffer when the frame has none. A synthesised target
// belongs to the returned Plan and is never reused.
func (p *Planner) prepareTarget(f *Frame) *plane.Layer {
	t := f.Target
	if t == nil {
		t = &plane.Layer{
			Name:     "framebuffer-target",
			Source:   plane.R(0, 0, f.Width, f.Height),
			Display:  plane.R(0, 0, f.Width, f.Height),
			Format:   plane.FormatABGR8888,
			Stride:   f.Width,
			Blending: plane.BlendPremultiplied,
			Alpha:    0xFF,
		}
	}
	t.Reset()
	t.Target = true
	return t
}

// targetCompression decides whether the framebuffer target should be
// rendered compressed. reason names the rule that turned compression off.
func (p *Planner) targetCompression(t *plane.Layer, d plane.Demand, s plane.Supply, mirrored bool) (on bool, reason string) {
	r := &p.table.Rules
	switch {
	case !p.opts.targetCompression:
		return false, "disabled"
	case s.Compression == 0:
		return false, "no compression plane"
	case d.LargeCompressedVideo > 0 && s.CompressedVideo <= r.CompressedVideoLimit:
		return false, "compression planes needed by video"
	case !r.TargetScaleOK(t.HScale()) || !r.TargetScaleOK(t.VScale()):
		return false, "scale"
	case mirrored && (!r.TargetScaleOK(t.MirrorHScale()) || !r.TargetScaleOK(t.MirrorVScale())):
		return false, "mirror scale"
	}
	return true, ""
}
