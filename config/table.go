// Package config loads capability tables, planner settings and frame
// fixtures from YAML, and keeps the registry of built-in hardware variants.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/hwc/plane"
)

// ErrUnknownFormat is returned for a pixel format name that is neither a
// known name nor a four character code.
var ErrUnknownFormat = errors.New("config: unknown pixel format")

var formatNames = map[string]plane.Format{
	"XRGB8888":    plane.FormatXRGB8888,
	"ARGB8888":    plane.FormatARGB8888,
	"XBGR8888":    plane.FormatXBGR8888,
	"ABGR8888":    plane.FormatABGR8888,
	"RGB888":      plane.FormatRGB888,
	"BGR888":      plane.FormatBGR888,
	"RGB565":      plane.FormatRGB565,
	"BGR565":      plane.FormatBGR565,
	"ABGR2101010": plane.FormatABGR2101010,
	"NV12":        plane.FormatNV12,
	"NV21":        plane.FormatNV21,
	"NV16":        plane.FormatNV16,
	"NV61":        plane.FormatNV61,
	"NV24":        plane.FormatNV24,
	"NV42":        plane.FormatNV42,
	"NV15":        plane.FormatNV15,
	"YUV420_8":    plane.FormatYUV420_8,
	"YUV420_10":   plane.FormatYUV420_10,
}

// ParseFormat accepts a DRM format name such as "ARGB8888" or a raw four
// character code such as "AR24".
func ParseFormat(s string) (plane.Format, error) {
	if f, ok := formatNames[strings.ToUpper(s)]; ok {
		return f, nil
	}
	f, err := plane.ParseFormat(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

func parseFormats(names []string) ([]plane.Format, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]plane.Format, len(names))
	for i, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseTransforms(names []string) (plane.Transform, error) {
	var t plane.Transform
	for _, n := range names {
		b, err := plane.ParseTransform(n)
		if err != nil {
			return 0, err
		}
		t |= b
	}
	return t, nil
}

// size is a "WxH" string in YAML.
type size plane.Size

func (s *size) UnmarshalYAML(n *yaml.Node) error {
	var v string
	if err := n.Decode(&v); err != nil {
		return err
	}
	w, h, ok := strings.Cut(v, "x")
	if !ok {
		return fmt.Errorf("config: line %d: size %q is not WxH", n.Line, v)
	}
	wi, err := strconv.Atoi(w)
	if err != nil {
		return fmt.Errorf("config: line %d: size %q: %w", n.Line, v, err)
	}
	hi, err := strconv.Atoi(h)
	if err != nil {
		return fmt.Errorf("config: line %d: size %q: %w", n.Line, v, err)
	}
	*s = size{W: wi, H: hi}
	return nil
}

type rulesFile struct {
	RotateStrideAlign    *int      `yaml:"rotate_stride_align"`
	RotateMaxHeight      *int      `yaml:"rotate_max_height"`
	PairMaxWidth         *int      `yaml:"pair_max_width"`
	MinLayerSize         *int      `yaml:"min_layer_size"`
	CompressedWidthAlign *int      `yaml:"compressed_width_align"`
	OddWidthDownscale    *bool     `yaml:"odd_width_downscale"`
	LargeVideoWidth      *int      `yaml:"large_video_width"`
	CompressedVideoLimit *int      `yaml:"compressed_video_limit"`
	TargetScale          []float64 `yaml:"target_scale"`
	Unsupported          []string  `yaml:"unsupported_formats"`
}

// capsFile is the capability block shared by a class and its planes.
type capsFile struct {
	Formats    []string  `yaml:"formats"`
	Compressed []string  `yaml:"compressed_formats"`
	MinInput   size      `yaml:"min_input"`
	MaxInput   size      `yaml:"max_input"`
	MinOutput  size      `yaml:"min_output"`
	MaxOutput  size      `yaml:"max_output"`
	Scale      []float64 `yaml:"scale"`
	Rotations  []string  `yaml:"rotations"`
	Alpha      bool      `yaml:"alpha"`
	HDR        bool      `yaml:"hdr"`

	// RotationsCompressedOnly refuses every transform on uncompressed buffers.
	RotationsCompressedOnly bool `yaml:"rotations_compressed_only"`
}

type classFile struct {
	Name     string `yaml:"name"`
	capsFile `yaml:",inline"`
}

type pairFile struct {
	Unit      int  `yaml:"unit"`
	Secondary bool `yaml:"secondary"`
}

type windowFile struct {
	Name string    `yaml:"name"`
	Pair *pairFile `yaml:"pair"`
}

type groupFile struct {
	Name     string       `yaml:"name"`
	Class    string       `yaml:"class"`
	Displays []int        `yaml:"displays"`
	Reserved bool         `yaml:"reserved"`
	Windows  []windowFile `yaml:"windows"`
}

type tableFile struct {
	Name    string      `yaml:"name"`
	SoCs    []string    `yaml:"socs"`
	Rules   rulesFile   `yaml:"rules"`
	Classes []classFile `yaml:"classes"`
	Groups  []groupFile `yaml:"groups"`
}

// ParseTable builds a capability table from its YAML description. Rules
// left out of the rules block take the values of [plane.DefaultRules].
//
// Planes take their capabilities from their group's class:
//
//	classes:
//	  - name: esmart
//	    formats: [ARGB8888, NV12]
//	    max_input: 4096x2304
//	    scale: [0.125, 8]
//	groups:
//	  - name: Esmart0
//	    class: esmart
//	    displays: [0, 1]
//	    windows: [{name: Esmart0-win0}, {name: Esmart0-win1}]
func ParseTable(data []byte) (*plane.Table, error) {
	var tf tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("config: decode table: %w", err)
	}

	rules, err := tf.Rules.build()
	if err != nil {
		return nil, fmt.Errorf("config: table %q: %w", tf.Name, err)
	}

	classes := make([]string, len(tf.Classes))
	byName := make(map[string]int, len(tf.Classes))
	for i, c := range tf.Classes {
		classes[i] = c.Name
		byName[c.Name] = i
	}

	groups := make([]*plane.Group, 0, len(tf.Groups))
	for _, gf := range tf.Groups {
		ci, ok := byName[gf.Class]
		if !ok {
			return nil, fmt.Errorf("config: group %q: unknown class %q", gf.Name, gf.Class)
		}
		g := &plane.Group{
			Name:     gf.Name,
			Class:    plane.Class(ci),
			Reserved: gf.Reserved,
		}
		for _, d := range gf.Displays {
			if d < 0 || d >= 32 {
				return nil, fmt.Errorf("config: group %q: display %d out of range", gf.Name, d)
			}
			g.Possible |= 1 << uint(d)
		}
		for _, wf := range gf.Windows {
			p, err := tf.Classes[ci].newPlane(wf.Name)
			if err != nil {
				return nil, fmt.Errorf("config: plane %q: %w", wf.Name, err)
			}
			if wf.Pair != nil {
				p.Pair = &plane.PairSlot{Unit: wf.Pair.Unit, Secondary: wf.Pair.Secondary}
			}
			g.Planes = append(g.Planes, p)
		}
		groups = append(groups, g)
	}
	return plane.NewTable(tf.Name, tf.SoCs, classes, groups, rules)
}

// LoadTable reads a capability table from a YAML file.
func LoadTable(path string) (*plane.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTable(data)
}

func (c *classFile) newPlane(name string) (*plane.Plane, error) {
	formats, err := parseFormats(c.Formats)
	if err != nil {
		return nil, err
	}
	compressed, err := parseFormats(c.Compressed)
	if err != nil {
		return nil, err
	}
	rotations, err := parseTransforms(c.Rotations)
	if err != nil {
		return nil, err
	}
	p := &plane.Plane{
		Name:                    name,
		Formats:                 formats,
		CompressedFormats:       compressed,
		MinInput:                plane.Size(c.MinInput),
		MaxInput:                plane.Size(c.MaxInput),
		MinOutput:               plane.Size(c.MinOutput),
		MaxOutput:               plane.Size(c.MaxOutput),
		Rotations:               rotations,
		CompressedRotationsOnly: c.RotationsCompressedOnly,
		Alpha:                   c.Alpha,
		HDR:                     c.HDR,
	}
	switch len(c.Scale) {
	case 0:
	case 2:
		p.ScaleMin, p.ScaleMax = c.Scale[0], c.Scale[1]
	default:
		return nil, fmt.Errorf("scale wants [min, max], got %v", c.Scale)
	}
	return p, nil
}

func (r *rulesFile) build() (plane.Rules, error) {
	out := plane.DefaultRules()
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&out.RotateStrideAlign, r.RotateStrideAlign)
	setInt(&out.RotateMaxHeight, r.RotateMaxHeight)
	setInt(&out.PairMaxWidth, r.PairMaxWidth)
	setInt(&out.MinLayerSize, r.MinLayerSize)
	setInt(&out.CompressedWidthAlign, r.CompressedWidthAlign)
	setInt(&out.LargeVideoWidth, r.LargeVideoWidth)
	setInt(&out.CompressedVideoLimit, r.CompressedVideoLimit)
	if r.OddWidthDownscale != nil {
		out.OddWidthDownscale = *r.OddWidthDownscale
	}
	switch len(r.TargetScale) {
	case 0:
	case 2:
		out.TargetScaleMin, out.TargetScaleMax = r.TargetScale[0], r.TargetScale[1]
	default:
		return out, fmt.Errorf("target_scale wants [min, max], got %v", r.TargetScale)
	}
	if r.Unsupported != nil {
		f, err := parseFormats(r.Unsupported)
		if err != nil {
			return out, err
		}
		out.Unsupported = f
	}
	return out, nil
}
