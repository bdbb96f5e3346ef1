package telemetry

import (
	"math"
	"testing"
)

func TestComputeFieldStats(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	fs := ComputeFieldStats(values, 8)

	if math.Abs(fs.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", fs.Mean)
	}
	if math.Abs(fs.Total-55) > 0.001 {
		t.Errorf("total = %v, want 55", fs.Total)
	}
	// Sample standard deviation of 1..10
	if math.Abs(fs.Std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", fs.Std)
	}
	if fs.P10 != 1 || fs.P50 != 5 || fs.P90 != 9 {
		t.Errorf("quantiles = %v/%v/%v, want 1/5/9", fs.P10, fs.P50, fs.P90)
	}
	if fs.Max != 10 {
		t.Errorf("max = %v, want 10", fs.Max)
	}
	// 8, 9, 10 sit at or above the wet level
	if math.Abs(fs.Coverage-0.3) > 0.001 {
		t.Errorf("coverage = %v, want 0.3", fs.Coverage)
	}
}

func TestComputeFieldStatsUnsortedInput(t *testing.T) {
	fs := ComputeFieldStats([]float64{9, 1, 5, 3, 7}, 0.5)

	if fs.P50 != 5 {
		t.Errorf("median = %v, want 5", fs.P50)
	}
	if fs.Max != 9 {
		t.Errorf("max = %v, want 9", fs.Max)
	}
}

func TestComputeFieldStatsEmpty(t *testing.T) {
	fs := ComputeFieldStats(nil, 0.05)

	if fs != (FieldStats{}) {
		t.Errorf("empty sample should return all zeros, got %+v", fs)
	}
}

func TestComputeFieldStatsSingle(t *testing.T) {
	fs := ComputeFieldStats([]float64{0.4}, 0.05)

	if fs.Mean != 0.4 || fs.P50 != 0.4 || fs.Max != 0.4 {
		t.Errorf("single-sample stats should all equal the value, got %+v", fs)
	}
	if fs.Std != 0 {
		t.Errorf("single-sample std = %v, want 0", fs.Std)
	}
	if fs.Coverage != 1 {
		t.Errorf("coverage = %v, want 1", fs.Coverage)
	}
}
