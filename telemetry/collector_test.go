package telemetry

import (
	"math"
	"testing"

	"seep/sim"
)

func TestCollectorWindowTiming(t *testing.T) {
	c := NewCollector(5.0, 1.0/60.0, 0.05)

	if got := c.WindowDurationTicks(); got != 300 {
		t.Errorf("window duration = %d ticks, want 300", got)
	}
	if c.ShouldFlush(299) {
		t.Error("should not flush before the window elapses")
	}
	if !c.ShouldFlush(300) {
		t.Error("expected a flush at the window boundary")
	}
}

func TestCollectorWindowDeltas(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0, 0.5)
	wet := []float64{0, 0, 1, 1}

	first := c.Flush(60, 3, 0.5, 0.01, wet, sim.PassTotals{
		Spawned: 10, Retired: 4, Deposits: 20, DepositMass: 2.5,
	})
	if first.Spawned != 10 || first.Retired != 4 {
		t.Errorf("first window spawned/retired = %d/%d, want 10/4", first.Spawned, first.Retired)
	}
	if math.Abs(first.DepositMass-2.5) > 1e-12 {
		t.Errorf("first window deposit mass = %v, want 2.5", first.DepositMass)
	}

	second := c.Flush(120, 3, 1.0, 0.01, wet, sim.PassTotals{
		Spawned: 25, Retired: 19, Deposits: 48, DepositMass: 6.0,
	})
	if second.Spawned != 15 || second.Retired != 15 {
		t.Errorf("second window spawned/retired = %d/%d, want 15/15", second.Spawned, second.Retired)
	}
	if math.Abs(second.DepositMass-3.5) > 1e-12 {
		t.Errorf("second window deposit mass = %v, want 3.5", second.DepositMass)
	}
	if second.WindowStartTick != 60 || second.WindowEndTick != 120 {
		t.Errorf("second window spans %d-%d, want 60-120", second.WindowStartTick, second.WindowEndTick)
	}
	if math.Abs(second.SimTimeSec-2.0) > 1e-6 {
		t.Errorf("sim time = %v, want 2.0", second.SimTimeSec)
	}
}

func TestCollectorCounterReset(t *testing.T) {
	// A reconfigured engine restarts its counters at zero; the collector
	// must not produce wrapped deltas.
	c := NewCollector(1.0, 1.0/60.0, 0.5)
	c.Flush(60, 0, 1, 0, nil, sim.PassTotals{Spawned: 100, DepositMass: 9})

	stats := c.Flush(120, 0, 1, 0, nil, sim.PassTotals{Spawned: 7, DepositMass: 0.5})
	if stats.Spawned != 7 {
		t.Errorf("spawned after reset = %d, want 7", stats.Spawned)
	}
	if math.Abs(stats.DepositMass-0.5) > 1e-12 {
		t.Errorf("deposit mass after reset = %v, want 0.5", stats.DepositMass)
	}
}

func TestCollectorFieldSnapshot(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0, 0.5)
	wet := []float64{0, 0.2, 0.6, 1.0}

	stats := c.Flush(60, 0, 1, 0, wet, sim.PassTotals{})
	if math.Abs(stats.TotalWetness-1.8) > 1e-12 {
		t.Errorf("total wetness = %v, want 1.8", stats.TotalWetness)
	}
	if math.Abs(stats.Coverage-0.5) > 1e-12 {
		t.Errorf("coverage = %v, want 0.5", stats.Coverage)
	}
	if stats.WetMax != 1.0 {
		t.Errorf("max = %v, want 1", stats.WetMax)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 1.0/60.0, 0.05)
	if got := c.WindowDurationTicks(); got != 1 {
		t.Errorf("degenerate window should clamp to 1 tick, got %d", got)
	}
}
