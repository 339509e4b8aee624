package hwc

import "github.com/gogpu/hwc/plane"

// Frame is one display refresh worth of layers.
type Frame struct {
	// Width and Height are the framebuffer size of the display.
	Width, Height int

	// Layers are in paint order, bottom first. The planner overwrites
	// each layer's planner fields.
	Layers []*plane.Layer

	// Target is the framebuffer target supplied by the compositor. When nil
	// the planner synthesises one covering the framebuffer.
	Target *plane.Layer

	// Mirror, when set, is a secondary output showing the same content.
	Mirror *Mirror
}

// Mirror describes a secondary output that scans out the primary's planes.
type Mirror struct {
	// Width and Height are the secondary output's mode size.
	Width, Height int
}
