package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/plane"
)

// rect is a [left, top, right, bottom] list in YAML.
type rect plane.Rect

func (r *rect) UnmarshalYAML(n *yaml.Node) error {
	var v []int
	if err := n.Decode(&v); err != nil {
		return err
	}
	if len(v) != 4 {
		return fmt.Errorf("config: line %d: rectangle wants [left, top, right, bottom], got %v", n.Line, v)
	}
	*r = rect(plane.R(v[0], v[1], v[2], v[3]))
	return nil
}

type layerFile struct {
	ID          uint32   `yaml:"id"`
	Name        string   `yaml:"name"`
	Source      *rect    `yaml:"source"`
	Display     rect     `yaml:"display"`
	Format      string   `yaml:"format"`
	Compressed  bool     `yaml:"compressed"`
	Stride      int      `yaml:"stride"`
	BufferWidth int      `yaml:"buffer_width"`
	Transform   []string `yaml:"transform"`
	Blending    string   `yaml:"blending"`
	Alpha       *uint8   `yaml:"alpha"`
	HDR         bool     `yaml:"hdr"`
	Skip        bool     `yaml:"skip"`
}

type mirrorFile struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type frameFile struct {
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Mirror *mirrorFile `yaml:"mirror"`
	Target *layerFile  `yaml:"target"`
	Layers []layerFile `yaml:"layers"`
}

// ParseFrame decodes a frame fixture:
//
//	width: 1920
//	height: 1080
//	layers:
//	  - name: wallpaper
//	    display: [0, 0, 1920, 1080]
//	    format: XRGB8888
//	  - name: video
//	    source: [0, 0, 3840, 2160]
//	    display: [0, 0, 1920, 1080]
//	    format: YUV420_8
//	    compressed: true
//
// A layer without a source shows its whole buffer at display size, with a
// stride of the source width. Layers default to premultiplied blending at
// full alpha, and to ID index+1.
func ParseFrame(data []byte) (*hwc.Frame, error) {
	var ff frameFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ff); err != nil {
		return nil, fmt.Errorf("config: decode frame: %w", err)
	}

	f := &hwc.Frame{Width: ff.Width, Height: ff.Height}
	if ff.Mirror != nil {
		f.Mirror = &hwc.Mirror{Width: ff.Mirror.Width, Height: ff.Mirror.Height}
	}
	for i := range ff.Layers {
		l, err := ff.Layers[i].layer(uint32(i + 1))
		if err != nil {
			return nil, err
		}
		f.Layers = append(f.Layers, l)
	}
	if ff.Target != nil {
		t, err := ff.Target.layer(0)
		if err != nil {
			return nil, err
		}
		f.Target = t
	}
	return f, nil
}

// LoadFrame reads a frame fixture from a YAML file.
func LoadFrame(path string) (*hwc.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFrame(data)
}

func (lf *layerFile) layer(id uint32) (*plane.Layer, error) {
	format, err := ParseFormat(lf.Format)
	if err != nil {
		return nil, fmt.Errorf("config: layer %q: %w", lf.Name, err)
	}
	transform, err := parseTransforms(lf.Transform)
	if err != nil {
		return nil, fmt.Errorf("config: layer %q: %w", lf.Name, err)
	}
	blending, err := parseBlending(lf.Blending)
	if err != nil {
		return nil, fmt.Errorf("config: layer %q: %w", lf.Name, err)
	}

	l := &plane.Layer{
		ID:          lf.ID,
		Name:        lf.Name,
		Display:     plane.Rect(lf.Display),
		Format:      format,
		Compressed:  lf.Compressed,
		Stride:      lf.Stride,
		BufferWidth: lf.BufferWidth,
		Transform:   transform,
		Blending:    blending,
		Alpha:       0xFF,
		HDR:         lf.HDR,
		Skip:        lf.Skip,
	}
	if l.ID == 0 {
		l.ID = id
	}
	if lf.Source != nil {
		l.Source = plane.Rect(*lf.Source)
	} else {
		w, h := l.Display.Width(), l.Display.Height()
		if transform.QuarterTurn() {
			w, h = h, w
		}
		l.Source = plane.R(0, 0, w, h)
	}
	if l.Stride == 0 {
		l.Stride = l.Source.Width()
	}
	if lf.Alpha != nil {
		l.Alpha = *lf.Alpha
	}
	return l, nil
}

func parseBlending(s string) (plane.Blending, error) {
	switch s {
	case "", "premultiplied":
		return plane.BlendPremultiplied, nil
	case "coverage":
		return plane.BlendCoverage, nil
	case "none":
		return plane.BlendNone, nil
	}
	return 0, fmt.Errorf("unknown blending %q", s)
}
