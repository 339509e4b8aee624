package hwc_test

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/config"
	"github.com/gogpu/hwc/plane"
	"github.com/gogpu/hwc/trace"
)

var randomFormats = []plane.Format{
	plane.FormatARGB8888, plane.FormatXRGB8888, plane.FormatABGR8888, plane.FormatRGB565,
	plane.FormatNV12, plane.FormatYUV420_8, plane.FormatABGR2101010,
}

// randomFrame draws a frame of up to 12 layers on a 1920x1080 display.
func randomFrame(r *rand.Rand) *hwc.Frame {
	f := &hwc.Frame{Width: 1920, Height: 1080}
	if r.IntN(8) == 0 {
		f.Mirror = &hwc.Mirror{Width: 1280, Height: 720}
	}
	n := r.IntN(13)
	for i := range n {
		w, h := 2+r.IntN(1918), 2+r.IntN(1078)
		left, top := r.IntN(1920-w+1), r.IntN(1080-h+1)
		l := &plane.Layer{
			ID:       uint32(i + 1),
			Display:  plane.R(left, top, left+w, top+h),
			Format:   randomFormats[r.IntN(len(randomFormats))],
			Blending: plane.Blending(r.IntN(3)),
			Alpha:    uint8(r.IntN(256)),
			HDR:      r.IntN(16) == 0,
			Skip:     r.IntN(10) == 0,
		}
		sw, sh := w, h
		if r.IntN(3) == 0 {
			sw, sh = max(2, w*(1+r.IntN(4))/2), max(2, h*(1+r.IntN(4))/2)
		}
		switch r.IntN(6) {
		case 0:
			l.Transform = plane.Rotate90
			sw, sh = sh, sw
		case 1:
			l.Transform = plane.ReflectY
		}
		if l.Format == plane.FormatYUV420_8 || r.IntN(3) == 0 {
			l.Compressed = true
			sw = max(4, sw&^3)
		}
		l.Source = plane.R(0, 0, sw, sh)
		l.Stride = sw
		if r.IntN(2) == 0 {
			l.Stride = (sw + 63) &^ 63
		}
		f.Layers = append(f.Layers, l)
	}
	return f
}

func TestPlanProperties(t *testing.T) {
	for _, variant := range []string{"rk356x", "rk3588"} {
		t.Run(variant, func(t *testing.T) {
			table := config.MustTable(variant)
			p, err := hwc.New(table)
			require.NoError(t, err)

			r := rand.New(rand.NewPCG(1, 2))
			for i := range 500 {
				f := randomFrame(r)
				plan, err := p.Plan(f)
				require.NoError(t, err, "frame %d", i)
				require.NoError(t, plan.Validate(len(table.Groups)), "frame %d", i)

				// Every layer is either on a plane or inside the target span.
				for j, l := range f.Layers {
					switch l.Composition {
					case plane.CompositionDevice:
						assert.NotNil(t, l.Plane, "frame %d layer %d", i, j)
						assert.GreaterOrEqual(t, l.ZPos, 0)
						assert.False(t, l.NeedsSoftware(), "frame %d layer %d", i, j)
					case plane.CompositionClient:
						require.NotNil(t, plan.Target, "frame %d", i)
						assert.True(t, plan.Target.Span.Contains(j), "frame %d layer %d", i, j)
					default:
						t.Fatalf("frame %d layer %d left %v", i, j, l.Composition)
					}
				}
				if plan.Target != nil {
					assert.Equal(t, plane.CompositionDevice, plan.Target.Layer.Composition)
					assert.NotEqual(t, hwc.PolicyOverlay, plan.Policy)
				}
			}
		})
	}
}

func TestPlanDeterministicTrace(t *testing.T) {
	run := func() []byte {
		var buf bytes.Buffer
		w := trace.NewWriter(&buf)
		p, err := hwc.New(config.MustTable("rk3588"), hwc.WithTrace(w))
		require.NoError(t, err)

		r := rand.New(rand.NewPCG(7, 7))
		for range 100 {
			_, err := p.Plan(randomFrame(r))
			require.NoError(t, err)
		}
		require.NoError(t, w.Err())
		return buf.Bytes()
	}
	a, b := run(), run()
	require.NotEmpty(t, a)
	assert.True(t, bytes.Equal(a, b), "traces differ")

	frames, err := trace.ReadAll(bytes.NewReader(a))
	require.NoError(t, err)
	assert.Len(t, frames, 100)
	assert.Equal(t, uint64(100), frames[99].Seq)
}

func TestPlanReservedNeverUsed(t *testing.T) {
	table := config.MustTable("rk356x")
	p, err := hwc.New(table, hwc.WithReservedPlanes("Cluster0-win0", "Esmart1-win2"))
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(3, 4))
	for i := range 300 {
		plan, err := p.Plan(randomFrame(r))
		require.NoError(t, err)
		for _, b := range plan.Bindings {
			assert.NotEqual(t, "Cluster0", b.Group.Name, "frame %d", i)
			assert.NotEqual(t, "Esmart1", b.Group.Name, "frame %d", i)
		}
	}
}

func TestPoolDisplaysNeverShareGroups(t *testing.T) {
	table := config.MustTable("rk3588")
	pool, err := hwc.NewPool(table)
	require.NoError(t, err)

	planners := make([]*hwc.Planner, 3)
	for d := range planners {
		planners[d], err = pool.Planner(d)
		require.NoError(t, err)
	}

	owner := make(map[string]int)
	r := rand.New(rand.NewPCG(5, 6))
	for i := range 300 {
		d := r.IntN(len(planners))
		plan, err := planners[d].Plan(randomFrame(r))
		if err != nil {
			require.ErrorIs(t, err, hwc.ErrNoResources)
			continue
		}
		for name, o := range owner {
			if o == d {
				delete(owner, name)
			}
		}
		for _, b := range plan.Bindings {
			if o, ok := owner[b.Group.Name]; ok {
				t.Fatalf("frame %d: display %d bound %s owned by display %d", i, d, b.Group.Name, o)
			}
			owner[b.Group.Name] = d
		}
	}
}
