// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plane

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format is a DRM fourcc pixel format code.
type Format uint32

// Pixel formats known to the planner. Any other well-formed fourcc is
// accepted by [ParseFormat] and simply has no derived properties.
const (
	FormatXRGB8888    Format = Format('X') | Format('R')<<8 | Format('2')<<16 | Format('4')<<24
	FormatARGB8888    Format = Format('A') | Format('R')<<8 | Format('2')<<16 | Format('4')<<24
	FormatXBGR8888    Format = Format('X') | Format('B')<<8 | Format('2')<<16 | Format('4')<<24
	FormatABGR8888    Format = Format('A') | Format('B')<<8 | Format('2')<<16 | Format('4')<<24
	FormatRGB888      Format = Format('R') | Format('G')<<8 | Format('2')<<16 | Format('4')<<24
	FormatBGR888      Format = Format('B') | Format('G')<<8 | Format('2')<<16 | Format('4')<<24
	FormatRGB565      Format = Format('R') | Format('G')<<8 | Format('1')<<16 | Format('6')<<24
	FormatBGR565      Format = Format('B') | Format('G')<<8 | Format('1')<<16 | Format('6')<<24
	FormatABGR2101010 Format = Format('A') | Format('B')<<8 | Format('3')<<16 | Format('0')<<24
	FormatNV12        Format = Format('N') | Format('V')<<8 | Format('1')<<16 | Format('2')<<24
	FormatNV21        Format = Format('N') | Format('V')<<8 | Format('2')<<16 | Format('1')<<24
	FormatNV16        Format = Format('N') | Format('V')<<8 | Format('1')<<16 | Format('6')<<24
	FormatNV61        Format = Format('N') | Format('V')<<8 | Format('6')<<16 | Format('1')<<24
	FormatNV24        Format = Format('N') | Format('V')<<8 | Format('2')<<16 | Format('4')<<24
	FormatNV42        Format = Format('N') | Format('V')<<8 | Format('4')<<16 | Format('2')<<24
	FormatNV15        Format = Format('N') | Format('V')<<8 | Format('1')<<16 | Format('5')<<24
	FormatYUV420_8    Format = Format('Y') | Format('U')<<8 | Format('0')<<16 | Format('8')<<24
	FormatYUV420_10   Format = Format('Y') | Format('U')<<8 | Format('1')<<16 | Format('0')<<24
)

// ParseFormat parses a four character code such as "XR24" or "NV12".
// Only upper-case letters, digits and spaces are valid fourcc characters.
func ParseFormat(s string) (Format, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("plane: fourcc %q must have 4 characters", s)
	}
	for i := range 4 {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != ' ' {
			return 0, fmt.Errorf("plane: fourcc %q has invalid character %q", s, c)
		}
	}
	return Format(s[0]) | Format(s[1])<<8 | Format(s[2])<<16 | Format(s[3])<<24, nil
}

// String returns the four character code.
func (f Format) String() string {
	if f == 0 {
		return "none"
	}
	b := [4]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	return string(b[:])
}

// IsYUV reports whether the format carries luma/chroma planes (video).
func (f Format) IsYUV() bool {
	switch f {
	case FormatNV12, FormatNV21, FormatNV16, FormatNV61, FormatNV24, FormatNV42,
		FormatNV15, FormatYUV420_8, FormatYUV420_10:
		return true
	}
	return false
}

// Is10Bit reports whether the format has more than 8 bits per component.
// Multi-region windows cannot share such formats.
func (f Format) Is10Bit() bool {
	switch f {
	case FormatNV15, FormatYUV420_10, FormatABGR2101010:
		return true
	}
	return false
}

// TextureFormat returns the GPU texture format a software compositor should
// render into for this scan-out format. DRM fourccs name components from the
// most significant bit, so ARGB8888 is BGRA in memory order.
// Formats without a matching texture format return TextureFormatUndefined.
func (f Format) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatARGB8888, FormatXRGB8888:
		return gputypes.TextureFormatBGRA8Unorm
	case FormatABGR8888, FormatXBGR8888:
		return gputypes.TextureFormatRGBA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}
