package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/plane"
)

func TestBuiltinVariants(t *testing.T) {
	assert.Subset(t, Variants(), []string{"rk356x", "rk3588"})
	assert.IsIncreasing(t, Variants())

	rk356x := MustTable("rk356x")
	assert.Len(t, rk356x.Groups, 6)
	assert.Len(t, rk356x.Planes(), 20)
	assert.Equal(t, 2, rk356x.PairUnits())
	assert.Equal(t, 4, rk356x.MaxWindows())
	assert.Equal(t, plane.DefaultRules(), rk356x.Rules)
	assert.Equal(t, "cluster", rk356x.ClassName(rk356x.Groups[0].Class))
	assert.Equal(t, "smart", rk356x.ClassName(rk356x.Groups[5].Class))

	p, g, ok := rk356x.PlaneByName("Cluster1-win1")
	require.True(t, ok)
	assert.Equal(t, "Cluster1", g.Name)
	assert.Equal(t, &plane.PairSlot{Unit: 1, Secondary: true}, p.Pair)
	assert.True(t, p.SupportsFormat(plane.FormatYUV420_8, true))
	assert.False(t, p.SupportsFormat(plane.FormatNV12, false))
	assert.Equal(t, plane.Size{W: 4096, H: 2304}, p.MaxInput)

	smart, _, ok := rk356x.PlaneByName("Smart0-win0")
	require.True(t, ok)
	assert.False(t, smart.Scaling())

	rk3588 := MustTable("rk3588")
	assert.Len(t, rk3588.Groups, 8)
	assert.Len(t, rk3588.Planes(), 24)
	_, esmart2, ok := rk3588.PlaneByName("Esmart2-win0")
	require.True(t, ok)
	assert.False(t, esmart2.Usable(0))
	assert.True(t, esmart2.Usable(3))
}

func TestNewTableReturnsFreshTables(t *testing.T) {
	a := MustTable("rk3588")
	b := MustTable("rk3588")
	a.Groups[0].Reserved = true
	assert.False(t, b.Groups[0].Reserved)
}

func TestForSoC(t *testing.T) {
	tbl, err := ForSoC("rk3568")
	require.NoError(t, err)
	assert.Equal(t, "rk356x", tbl.Name)

	tbl, err = ForSoC("rk3588s")
	require.NoError(t, err)
	assert.Equal(t, "rk3588", tbl.Name)

	_, err = ForSoC("rk9999")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestRegistry(t *testing.T) {
	_, err := NewTable("missing")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	Register("test-variant", func() (*plane.Table, error) {
		return ParseTable([]byte(minimalTable))
	})
	t.Cleanup(func() { unregister("test-variant") })

	assert.Contains(t, Variants(), "test-variant")
	tbl, err := NewTable("test-variant")
	require.NoError(t, err)
	assert.Equal(t, "mini", tbl.Name)

	assert.Panics(t, func() { Register("test-variant", func() (*plane.Table, error) { return nil, nil }) })
	assert.Panics(t, func() { Register("nil-factory", nil) })
	assert.Panics(t, func() { MustTable("missing") })
}

const minimalTable = `
name: mini
rules:
  rotate_stride_align: 32
  target_scale: [0.5, 2]
  unsupported_formats: []
classes:
  - name: basic
    formats: [ARGB8888, ABGR8888, NV12]
    min_input: 2x2
    max_input: 1920x1080
    min_output: 2x2
    max_output: 1920x1080
    scale: [0.5, 2]
    rotations: [reflect-y]
    alpha: true
groups:
  - name: G0
    class: basic
    displays: [0]
    windows: [{name: G0-win0}, {name: G0-win1}]
  - name: G1
    class: basic
    reserved: true
    windows: [{name: G1-win0}]
`

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable([]byte(minimalTable))
	require.NoError(t, err)

	want := plane.DefaultRules()
	want.RotateStrideAlign = 32
	want.TargetScaleMin, want.TargetScaleMax = 0.5, 2
	want.Unsupported = nil
	assert.Equal(t, want, tbl.Rules)

	require.Len(t, tbl.Groups, 2)
	g0 := tbl.Groups[0]
	assert.Equal(t, uint32(1), g0.Possible)
	assert.Equal(t, 2, g0.Windows())
	assert.True(t, tbl.Groups[1].Reserved)

	p := g0.Planes[1]
	assert.Equal(t, "G0-win1", p.Name)
	assert.Equal(t, []plane.Format{plane.FormatARGB8888, plane.FormatABGR8888, plane.FormatNV12}, p.Formats)
	assert.Equal(t, plane.Size{W: 2, H: 2}, p.MinInput)
	assert.Equal(t, 0.5, p.ScaleMin)
	assert.Equal(t, plane.ReflectY, p.Rotations)
	assert.True(t, p.Alpha)
	assert.Nil(t, p.Pair)
	assert.NotSame(t, g0.Planes[0], g0.Planes[1])
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "name: x\ncolour: red\n"},
		{"unknown class", "name: x\ngroups: [{name: G, class: nope, windows: [{name: w}]}]\n"},
		{"bad size", "name: x\nclasses: [{name: c, max_input: big}]\ngroups: [{name: G, class: c, windows: [{name: w}]}]\n"},
		{"bad format", "name: x\nclasses: [{name: c, formats: [RGBA8]}]\ngroups: [{name: G, class: c, windows: [{name: w}]}]\n"},
		{"format typo", "name: x\nclasses: [{name: c, formats: [ARGB888x]}]\ngroups: [{name: G, class: c, windows: [{name: w}]}]\n"},
		{"bad scale", "name: x\nclasses: [{name: c, scale: [1]}]\ngroups: [{name: G, class: c, windows: [{name: w}]}]\n"},
		{"bad rotation", "name: x\nclasses: [{name: c, rotations: [sideways]}]\ngroups: [{name: G, class: c, windows: [{name: w}]}]\n"},
		{"bad display", "name: x\nclasses: [{name: c}]\ngroups: [{name: G, class: c, displays: [40], windows: [{name: w}]}]\n"},
		{"no name", "classes: [{name: c}]\n"},
		{"empty group", "name: x\nclasses: [{name: c}]\ngroups: [{name: G, class: c}]\n"},
		{"bad target scale", "name: x\nrules: {target_scale: [1, 2, 3]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("argb8888")
	require.NoError(t, err)
	assert.Equal(t, plane.FormatARGB8888, f)

	f, err = ParseFormat("NV12")
	require.NoError(t, err)
	assert.Equal(t, plane.FormatNV12, f)

	f, err = ParseFormat("XR24")
	require.NoError(t, err)
	assert.Equal(t, plane.FormatXRGB8888, f)

	for _, bad := range []string{"RGBA8", "nope", "ARGB888x", "xr24"} {
		_, err = ParseFormat(bad)
		assert.ErrorIs(t, err, ErrUnknownFormat, bad)
	}
}

func TestSettingsOptions(t *testing.T) {
	s, err := ParseSettings([]byte("force_software: true\nreserved_planes: [G0-win0]\nmulti_region: false\n"))
	require.NoError(t, err)
	assert.Len(t, s.Options(), 3)

	tbl, err := ParseTable([]byte(minimalTable))
	require.NoError(t, err)
	p, err := hwc.New(tbl, s.Options()...)
	require.NoError(t, err)

	f, err := ParseFrame([]byte("width: 640\nheight: 480\nlayers: [{display: [0, 0, 640, 480], format: ARGB8888}]\n"))
	require.NoError(t, err)
	plan, err := p.Plan(f)
	require.NoError(t, err)
	assert.Equal(t, hwc.PolicySoftware, plan.Policy)

	empty, err := ParseSettings(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Options())

	_, err = ParseSettings([]byte("force_sofware: true\n"))
	assert.Error(t, err)
}

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`
width: 1920
height: 1080
mirror: {width: 1280, height: 720}
layers:
  - name: wallpaper
    display: [0, 0, 1920, 1080]
    format: XRGB8888
    blending: none
  - id: 42
    name: rotated
    display: [100, 100, 700, 1100]
    format: ARGB8888
    compressed: true
    transform: [rotate-90]
    alpha: 128
  - name: status
    source: [0, 0, 1920, 64]
    display: [0, 0, 1920, 64]
    stride: 2048
    format: AB24
    skip: true
`))
	require.NoError(t, err)
	assert.Equal(t, 1920, f.Width)
	assert.Equal(t, &hwc.Mirror{Width: 1280, Height: 720}, f.Mirror)
	assert.Nil(t, f.Target)
	require.Len(t, f.Layers, 3)

	wall := f.Layers[0]
	assert.Equal(t, uint32(1), wall.ID)
	assert.Equal(t, plane.R(0, 0, 1920, 1080), wall.Source)
	assert.Equal(t, 1920, wall.Stride)
	assert.Equal(t, plane.BlendNone, wall.Blending)
	assert.Equal(t, uint8(0xFF), wall.Alpha)

	rot := f.Layers[1]
	assert.Equal(t, uint32(42), rot.ID)
	assert.Equal(t, plane.R(0, 0, 1000, 600), rot.Source, "source follows the rotation")
	assert.Equal(t, plane.Rotate90, rot.Transform)
	assert.Equal(t, plane.BlendPremultiplied, rot.Blending)
	assert.Equal(t, uint8(128), rot.Alpha)
	assert.Equal(t, 1.0, rot.HScale())

	status := f.Layers[2]
	assert.Equal(t, plane.FormatABGR8888, status.Format)
	assert.Equal(t, 2048, status.Stride)
	assert.True(t, status.Skip)
}

func TestParseFrameErrors(t *testing.T) {
	for _, doc := range []string{
		"layers: [{display: [0, 0, 10], format: ARGB8888}]",
		"layers: [{display: [0, 0, 10, 10], format: ARGB1}]",
		"layers: [{display: [0, 0, 10, 10], format: ARGB8888, blending: add}]",
		"layers: [{display: [0, 0, 10, 10], format: ARGB8888, transform: [spin]}]",
		"target: {display: [0, 0, 10, 10], format: nope}",
	} {
		_, err := ParseFrame([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestBuiltinClusterRotatesCompressedOnly(t *testing.T) {
	for _, variant := range []string{"rk356x", "rk3588"} {
		t.Run(variant, func(t *testing.T) {
			tbl := MustTable(variant)
			cluster, _, ok := tbl.PlaneByName("Cluster0-win0")
			require.True(t, ok)
			assert.True(t, cluster.CompressedRotationsOnly)
			esmart, _, ok := tbl.PlaneByName("Esmart0-win0")
			require.True(t, ok)
			assert.False(t, esmart.CompressedRotationsOnly)

			rotated := func(compressed bool) *plane.Layer {
				return &plane.Layer{
					ID:         1,
					Source:     plane.R(0, 0, 1000, 600),
					Display:    plane.R(0, 0, 600, 1000),
					Format:     plane.FormatARGB8888,
					Compressed: compressed,
					Stride:     1088,
					Transform:  plane.Rotate90,
					Alpha:      0xFF,
				}
			}

			p, err := hwc.New(tbl)
			require.NoError(t, err)

			l := rotated(false)
			plan, err := p.Plan(&hwc.Frame{Width: 1920, Height: 1080, Layers: []*plane.Layer{l}})
			require.NoError(t, err)
			assert.NotEqual(t, hwc.PolicyOverlay, plan.Policy)
			assert.Equal(t, plane.CompositionClient, l.Composition)

			l = rotated(true)
			plan, err = p.Plan(&hwc.Frame{Width: 1920, Height: 1080, Layers: []*plane.Layer{l}})
			require.NoError(t, err)
			assert.Equal(t, hwc.PolicyOverlay, plan.Policy)
			require.NotNil(t, l.Plane)
			assert.Equal(t, plane.CompositionDevice, l.Composition)
			assert.Contains(t, l.Plane.Name, "Cluster")
		})
	}
}
