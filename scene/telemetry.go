package scene

import "log/slog"

// flushTelemetry flushes the stats window when due, mirrors it to slog and
// CSV, and checks for milestones.
func (s *Scene) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	wet := s.eng.Field().Wet
	if cap(s.wetBuf) < len(wet) {
		s.wetBuf = make([]float64, len(wet))
	}
	s.wetBuf = s.wetBuf[:len(wet)]
	for i, v := range wet {
		s.wetBuf[i] = float64(v)
	}

	stats := s.collector.Flush(
		s.tick,
		s.eng.Droplets(),
		float64(s.eng.Intensity()),
		float64(s.eng.Pulse()),
		s.wetBuf,
		s.eng.Totals(),
	)
	perfStats := s.perf.Stats()

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, m := range s.milestones.Check(stats) {
		if s.logStats {
			m.LogMilestone()
		}
		if err := s.output.WriteMilestone(m); err != nil {
			slog.Error("failed to write milestone", "error", err)
		}
	}
}

// updateAudio follows the rain ramp with the ambience gain and fires a
// plink for impacts landed since the last frame.
func (s *Scene) updateAudio() {
	s.sound.SetIntensity(s.eng.Intensity())

	impacts := s.eng.Totals().Impacts
	if impacts < s.lastImpacts {
		s.lastImpacts = 0
	}
	if d := impacts - s.lastImpacts; d > 0 {
		strength := float32(d) * 0.25
		if strength > 1 {
			strength = 1
		}
		s.sound.Plink(strength)
		s.lastImpacts = impacts
	}
}
