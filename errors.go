package hwc

import "errors"

// ErrNoResources is returned by Plan when the display has no usable plane
// group at all. The caller has to composite the whole frame without the
// display controller's help, or drop the frame.
var ErrNoResources = errors.New("hwc: no plane resources available")

// ErrNilTable is returned by New when no capability table is given.
var ErrNilTable = errors.New("hwc: nil capability table")

// ErrNilFrame is returned by Plan for a nil frame.
var ErrNilFrame = errors.New("hwc: nil frame")

// ErrInvalidFrame is returned by Plan for a frame that has neither a
// framebuffer size nor a framebuffer target.
var ErrInvalidFrame = errors.New("hwc: frame has no size and no target")

// ErrInvalidPlan is wrapped by Plan.Validate.
var ErrInvalidPlan = errors.New("hwc: invalid plan")
