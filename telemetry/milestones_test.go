package telemetry

import "testing"

func TestMilestoneRampCompleteFiresOnce(t *testing.T) {
	md := NewMilestoneDetector(1.6)

	if ms := md.Check(WindowStats{Intensity: 0.5}); len(ms) != 0 {
		t.Fatalf("partial ramp should not trigger, got %v", ms)
	}

	ms := md.Check(WindowStats{Intensity: 1, WindowEndTick: 300})
	if len(ms) != 1 || ms[0].Type != MilestoneRampComplete {
		t.Fatalf("expected one ramp_complete milestone, got %v", ms)
	}
	if ms[0].Tick != 300 {
		t.Errorf("milestone tick = %d, want 300", ms[0].Tick)
	}

	if ms := md.Check(WindowStats{Intensity: 1}); len(ms) != 0 {
		t.Errorf("ramp_complete should fire only once, got %v", ms)
	}
}

func TestMilestoneFirstSaturation(t *testing.T) {
	md := NewMilestoneDetector(1.6)

	if ms := md.Check(WindowStats{WetMax: 1.5}); len(ms) != 0 {
		t.Fatalf("below-cap max should not trigger, got %v", ms)
	}

	ms := md.Check(WindowStats{WetMax: 1.6, WindowEndTick: 42})
	if len(ms) != 1 || ms[0].Type != MilestoneFirstSaturation {
		t.Fatalf("expected one first_saturation milestone, got %v", ms)
	}

	if ms := md.Check(WindowStats{WetMax: 1.6}); len(ms) != 0 {
		t.Errorf("first_saturation should fire only once, got %v", ms)
	}
}

func TestMilestoneCoverageThresholds(t *testing.T) {
	md := NewMilestoneDetector(1.6)

	// Crossing 25% and 50% inside one window fires both at once.
	ms := md.Check(WindowStats{Intensity: 0.2, Coverage: 0.6})
	if len(ms) != 2 {
		t.Fatalf("expected two coverage milestones, got %v", ms)
	}
	for _, m := range ms {
		if m.Type != MilestoneCoverage {
			t.Errorf("unexpected milestone type %s", m.Type)
		}
	}

	ms = md.Check(WindowStats{Intensity: 0.2, Coverage: 0.95})
	if len(ms) != 2 {
		t.Fatalf("expected the 75%% and 90%% marks, got %v", ms)
	}

	if ms := md.Check(WindowStats{Intensity: 0.2, Coverage: 0.99}); len(ms) != 0 {
		t.Errorf("all marks spent, expected none, got %v", ms)
	}
}

func TestMilestoneDryOutNeedsRainStop(t *testing.T) {
	md := NewMilestoneDetector(1.6)

	// A dry field before any rain is not a dry-out.
	if ms := md.Check(WindowStats{Intensity: 0, TotalWetness: 0}); len(ms) != 0 {
		t.Fatalf("dry-out before rain should not trigger, got %v", ms)
	}

	md.Check(WindowStats{Intensity: 0.5, TotalWetness: 40})

	// Rain stopped but the field is still wet.
	if ms := md.Check(WindowStats{Intensity: 0, TotalWetness: 5}); len(ms) != 0 {
		t.Fatalf("wet field should not trigger dry-out, got %v", ms)
	}

	ms := md.Check(WindowStats{Intensity: 0, TotalWetness: 0, WindowEndTick: 9000})
	if len(ms) != 1 || ms[0].Type != MilestoneDryOut {
		t.Fatalf("expected one dry_out milestone, got %v", ms)
	}

	// Quiet until the next rain cycle completes.
	if ms := md.Check(WindowStats{Intensity: 0, TotalWetness: 0}); len(ms) != 0 {
		t.Fatalf("dry_out should not repeat while dry, got %v", ms)
	}

	md.Check(WindowStats{Intensity: 0.5, TotalWetness: 10})
	ms = md.Check(WindowStats{Intensity: 0, TotalWetness: 0})
	if len(ms) != 1 || ms[0].Type != MilestoneDryOut {
		t.Errorf("dry_out should re-arm after a new rain cycle, got %v", ms)
	}
}
