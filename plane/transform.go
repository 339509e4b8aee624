// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

import (
	"fmt"
	"strings"
)

// Transform is a set of rotation and reflection bits applied at scan-out.
// The zero value is the identity.
type Transform uint32

const (
	Rotate90 Transform = 1 << iota
	Rotate180
	Rotate270
	ReflectX
	ReflectY

	// Unsupported marks a layer transform the display hardware cannot
	// express at all. No plane supports it.
	Unsupported Transform = 1 << 31
)

var transformNames = [...]struct {
	bit  Transform
	name string
}{
	{Rotate90, "rotate-90"},
	{Rotate180, "rotate-180"},
	{Rotate270, "rotate-270"},
	{ReflectX, "reflect-x"},
	{ReflectY, "reflect-y"},
	{Unsupported, "unsupported"},
}

// ParseTransform parses one transform name ("rotate-90", "reflect-x", ...).
// "rotate-0" and "identity" parse to the zero transform.
func ParseTransform(s string) (Transform, error) {
	switch s {
	case "rotate-0", "identity", "":
		return 0, nil
	}
	for _, n := range transformNames {
		if n.name == s {
			return n.bit, nil
		}
	}
	return 0, fmt.Errorf("plane: unknown transform %q", s)
}

// Contains reports whether every bit of o is set in t.
func (t Transform) Contains(o Transform) bool { return t&o == o }

// QuarterTurn reports whether the transform rotates by 90 or 270 degrees.
func (t Transform) QuarterTurn() bool { return t&(Rotate90|Rotate270) != 0 }

func (t Transform) String() string {
	if t == 0 {
		return "identity"
	}
	var parts []string
	for _, n := range transformNames {
		if t&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
