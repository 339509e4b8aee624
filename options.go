package hwc

import (
	"log/slog"

	"github.com/gogpu/hwc/trace"
)

// Option configures a Planner during creation.
//
// Example:
//
//	// Defaults: multi-region grouping on, compressed framebuffer target.
//	p, err := hwc.New(table)
//
//	// Keep a plane free for another client and record traces.
//	p, err := hwc.New(table,
//	    hwc.WithReservedPlanes("Esmart3-win0"),
//	    hwc.WithTrace(trace.NewWriter(f)),
//	)
type Option func(*options)

// options holds the configuration of a Planner.
type options struct {
	forceSoftware     bool
	multiRegion       bool
	multiRegionScale  bool
	reserved          []string
	targetCompression bool
	display           int
	logger            *slog.Logger
	trace             trace.Sink
}

// defaultOptions returns the default planner options.
func defaultOptions() options {
	return options{
		multiRegion:       true,
		targetCompression: true,
		logger:            nil, // Will be set to Logger() if nil
	}
}

// WithForceSoftware composites every frame into the framebuffer target.
func WithForceSoftware(on bool) Option {
	return func(o *options) {
		o.forceSoftware = on
	}
}

// WithMultiRegion enables packing several layers into one multi-window
// plane group. Enabled by default.
func WithMultiRegion(on bool) Option {
	return func(o *options) {
		o.multiRegion = on
	}
}

// WithMultiRegionScale allows scaled layers inside multi-window groups.
// Disabled by default.
func WithMultiRegionScale(on bool) Option {
	return func(o *options) {
		o.multiRegionScale = on
	}
}

// WithReservedPlanes keeps the groups owning the named planes out of
// planning. Unknown names are logged and ignored.
func WithReservedPlanes(names ...string) Option {
	return func(o *options) {
		o.reserved = append(o.reserved, names...)
	}
}

// WithTargetCompression lets the planner request a compressed framebuffer
// target when the pool and the frame allow it. Enabled by default.
func WithTargetCompression(on bool) Option {
	return func(o *options) {
		o.targetCompression = on
	}
}

// WithDisplay sets the display index the planner works for. Plane groups
// whose display mask excludes it are never used.
func WithDisplay(display int) Option {
	return func(o *options) {
		o.display = display
	}
}

// WithLogger sets the planner's logger instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTrace sends one [trace.Frame] per Plan call to sink.
func WithTrace(sink trace.Sink) Option {
	return func(o *options) {
		o.trace = sink
	}
}
