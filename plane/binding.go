// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

// Assignment is one layer scanned out by one plane.
type Assignment struct {
	Layer *Layer
	Plane *Plane
	// Compressed is the compression setting the plane is programmed with.
	// It differs from Layer.Compressed only for a framebuffer target whose
	// compression was flipped to find a plane.
	Compressed bool
}

// Binding is one layer group bound to one plane group at one z-position.
type Binding struct {
	ZPos        int
	Group       *Group
	Assignments []Assignment
}
