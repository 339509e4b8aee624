// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package plane models display-controller compositing resources and the
// per-frame layers the planner assigns to them.
//
// # Resources
//
// A [Plane] is one hardware scan-out unit. Planes that are addressed together
// form a [Group]; a group with several planes can show several non-overlapping
// layers at one z-position ("multi-region"). Some planes belong to a paired
// unit (see [PairSlot]) whose secondary window may only continue what the
// primary window started.
//
// A [Table] holds every group of one hardware generation together with the
// generation's [Rules]. Tables are plain data: new hardware is described by a
// new table, not new code.
//
// # Layers
//
// A [Layer] is one visual element of a frame with its geometry, pixel format
// and flags. The planner writes back the outcome (composition type, plane,
// z-position) into the layer after a successful plan.
//
// # Predicates
//
// [Plane.Check] evaluates whether a plane can scan out a layer on its own.
// [Rules.SoftwareReason] decides whether a layer must go to software
// composition before any plane is considered. [CountDemand] and
// [CountSupply] summarise a frame and a pool for the planner's pre-check.
package plane
