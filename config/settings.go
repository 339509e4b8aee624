package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/hwc"
)

// Settings are the global planner toggles as read from a YAML file.
// Unset fields keep the planner defaults.
type Settings struct {
	ForceSoftware     *bool    `yaml:"force_software"`
	MultiRegion       *bool    `yaml:"multi_region"`
	MultiRegionScale  *bool    `yaml:"multi_region_scale"`
	ReservedPlanes    []string `yaml:"reserved_planes"`
	TargetCompression *bool    `yaml:"target_compression"`
}

// ParseSettings decodes settings. Unknown keys are an error; an empty
// document yields the defaults.
func ParseSettings(data []byte) (*Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode settings: %w", err)
	}
	return &s, nil
}

// LoadSettings reads settings from a YAML file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSettings(data)
}

// Options converts the settings to planner options.
func (s *Settings) Options() []hwc.Option {
	var opts []hwc.Option
	if s.ForceSoftware != nil {
		opts = append(opts, hwc.WithForceSoftware(*s.ForceSoftware))
	}
	if s.MultiRegion != nil {
		opts = append(opts, hwc.WithMultiRegion(*s.MultiRegion))
	}
	if s.MultiRegionScale != nil {
		opts = append(opts, hwc.WithMultiRegionScale(*s.MultiRegionScale))
	}
	if len(s.ReservedPlanes) > 0 {
		opts = append(opts, hwc.WithReservedPlanes(s.ReservedPlanes...))
	}
	if s.TargetCompression != nil {
		opts = append(opts, hwc.WithTargetCompression(*s.TargetCompression))
	}
	return opts
}
