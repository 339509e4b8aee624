package hwc

import (
	"log/slog"
	"testing"

	"github.com/gogpu/hwc/trace"
)

// TestDefaultOptions tests the option defaults of a new planner.
func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if !o.multiRegion {
		t.Error("multi-region grouping should be on by default")
	}
	if o.multiRegionScale {
		t.Error("scaled multi-region layers should be off by default")
	}
	if !o.targetCompression {
		t.Error("target compression should be on by default")
	}
	if o.forceSoftware {
		t.Error("forced software should be off by default")
	}
	if o.display != 0 {
		t.Errorf("display = %d, want 0", o.display)
	}
}

// TestOptionsApplied tests that every option reaches the planner.
func TestOptionsApplied(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	rec := &trace.Recorder{}

	p, err := New(testTable(t, singles(2)...),
		WithForceSoftware(true),
		WithMultiRegion(false),
		WithMultiRegionScale(true),
		WithReservedPlanes("g0w0"),
		WithReservedPlanes("g1w0"),
		WithTargetCompression(false),
		WithDisplay(3),
		WithLogger(logger),
		WithTrace(rec),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	o := p.opts
	if !o.forceSoftware || o.multiRegion || !o.multiRegionScale || o.targetCompression {
		t.Errorf("flags not applied: %+v", o)
	}
	if len(o.reserved) != 2 {
		t.Errorf("reserved = %v, want both names", o.reserved)
	}
	if p.Display() != 3 {
		t.Errorf("Display() = %d, want 3", p.Display())
	}
	if p.logger != logger {
		t.Error("logger is not the injected logger")
	}
	if o.trace != rec {
		t.Error("trace sink is not the injected recorder")
	}
}

// TestLastOptionWins tests that a later option overrides an earlier one.
func TestLastOptionWins(t *testing.T) {
	p, err := New(testTable(t, singles(1)...), WithDisplay(1), WithDisplay(2), WithMultiRegion(false), WithMultiRegion(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Display() != 2 {
		t.Errorf("Display() = %d, want 2", p.Display())
	}
	if !p.opts.multiRegion {
		t.Error("multi-region should be re-enabled")
	}
}
