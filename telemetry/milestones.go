package telemetry

import (
	"fmt"
	"log/slog"
)

// MilestoneType identifies the type of milestone.
type MilestoneType string

const (
	MilestoneRampComplete    MilestoneType = "ramp_complete"
	MilestoneFirstSaturation MilestoneType = "first_saturation"
	MilestoneCoverage        MilestoneType = "coverage"
	MilestoneDryOut          MilestoneType = "dry_out"
)

// Milestone represents an automatically detected moment in a run.
type Milestone struct {
	Type        MilestoneType `csv:"type"`
	Tick        int64         `csv:"tick"`
	Description string        `csv:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"tick", m.Tick,
		"description", m.Description,
	)
}

// coverageMarks are the coverage fractions that each trigger one milestone.
var coverageMarks = []float64{0.25, 0.50, 0.75, 0.90}

// MilestoneDetector detects notable moments in the window stats stream.
// Every milestone fires at most once, except the dry-out, which re-arms
// when the rain resumes.
type MilestoneDetector struct {
	saturation float64

	rampFired       bool
	saturationFired bool
	coverageFired   []bool

	// Dry-out tracking
	wasRaining  bool
	peakTotal   float64
	dryOutFired bool
}

// NewMilestoneDetector creates a detector. saturation is the field's
// per-cell cap, used to recognize the first fully saturated cell.
func NewMilestoneDetector(saturation float64) *MilestoneDetector {
	return &MilestoneDetector{
		saturation:    saturation,
		coverageFired: make([]bool, len(coverageMarks)),
	}
}

// Check analyzes the latest stats and returns any triggered milestones.
func (md *MilestoneDetector) Check(stats WindowStats) []Milestone {
	var milestones []Milestone

	if m := md.checkRampComplete(stats); m != nil {
		milestones = append(milestones, *m)
	}
	if m := md.checkFirstSaturation(stats); m != nil {
		milestones = append(milestones, *m)
	}
	milestones = append(milestones, md.checkCoverage(stats)...)
	if m := md.checkDryOut(stats); m != nil {
		milestones = append(milestones, *m)
	}

	return milestones
}

func (md *MilestoneDetector) checkRampComplete(stats WindowStats) *Milestone {
	if md.rampFired || stats.Intensity < 1 {
		return nil
	}
	md.rampFired = true
	return &Milestone{
		Type:        MilestoneRampComplete,
		Tick:        stats.WindowEndTick,
		Description: "rain ramp reached full intensity",
	}
}

func (md *MilestoneDetector) checkFirstSaturation(stats WindowStats) *Milestone {
	if md.saturationFired || md.saturation <= 0 || stats.WetMax < md.saturation*0.999 {
		return nil
	}
	md.saturationFired = true
	return &Milestone{
		Type:        MilestoneFirstSaturation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("first cell reached saturation %.2f", md.saturation),
	}
}

func (md *MilestoneDetector) checkCoverage(stats WindowStats) []Milestone {
	var out []Milestone
	for i, mark := range coverageMarks {
		if md.coverageFired[i] || stats.Coverage < mark {
			continue
		}
		md.coverageFired[i] = true
		out = append(out, Milestone{
			Type:        MilestoneCoverage,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("coverage passed %.0f%% (at %.1f%%)", mark*100, stats.Coverage*100),
		})
	}
	return out
}

// checkDryOut fires once per rain cycle, when the rain has stopped and the
// field has fully dried out.
func (md *MilestoneDetector) checkDryOut(stats WindowStats) *Milestone {
	if stats.Intensity > 0 {
		md.wasRaining = true
		md.dryOutFired = false
		if stats.TotalWetness > md.peakTotal {
			md.peakTotal = stats.TotalWetness
		}
		return nil
	}

	if !md.wasRaining || md.dryOutFired || md.peakTotal <= 0 {
		return nil
	}
	if stats.TotalWetness > 0 {
		return nil
	}

	md.dryOutFired = true
	peak := md.peakTotal
	md.peakTotal = 0
	return &Milestone{
		Type:        MilestoneDryOut,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("field fully dried from peak wetness %.1f", peak),
	}
}
