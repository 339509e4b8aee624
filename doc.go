// Package hwc plans how the layers of a frame are shown on the hardware
// planes of a display controller.
//
// # Overview
//
// A display controller scans out a small number of hardware planes and
// blends them in z-order. A frame usually has more layers than there are
// planes, and not every plane can show every layer: formats, scaling,
// rotation and compression differ between plane classes. The planner picks,
// for every frame, which layers go on which plane and which layers are
// composited by the GPU into a single framebuffer target that then takes one
// plane itself.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/hwc"
//	    "github.com/gogpu/hwc/config"
//	)
//
//	table := config.MustTable("rk3588")
//	p, err := hwc.New(table, hwc.WithDisplay(0))
//	if err != nil {
//	    return err
//	}
//
//	plan, err := p.Plan(&hwc.Frame{Width: 1920, Height: 1080, Layers: layers})
//	if err != nil {
//	    return err
//	}
//	for _, b := range plan.Bindings {
//	    fmt.Println(b.ZPos, b.Group.Name)
//	}
//
// # Policies
//
// Plan tries the policies in a fixed order and returns the first one that
// binds every layer:
//
//   - [PolicyOverlay]: every layer on its own plane or shared multi-window group.
//   - [PolicyMixSkip]: the layers that must be composited, plus whatever lies
//     between them, go into the target.
//   - [PolicyMixVideo]: the video stays on a plane and the layers above it
//     are composited.
//   - [PolicyMixTop] and [PolicyMixBottom]: a growing span at the top or the
//     bottom of the stack is composited.
//   - [PolicySoftware]: everything is composited into the target.
//
// Software composition always succeeds while the display has at least one
// usable plane group.
//
// # Capability Tables
//
// The planes of a display controller are described by a [plane.Table].
// Built-in tables and YAML loading live in package config; tables can be
// registered under a variant name like database/sql drivers.
//
// # Multiple Displays
//
// Planners of displays that share one controller must be created from a
// [Pool], which keeps a plane group bound to at most one display at a time.
//
// # Tracing
//
// [WithTrace] records every Plan call, including the failed attempts, as a
// [trace.Frame]. The CBOR writer in package trace produces byte-identical
// output for identical input, so traces can be diffed across runs.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package hwc
