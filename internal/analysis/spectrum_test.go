package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumPads(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins after padding to 128, got %d", len(ps))
	}
	for i, v := range ps {
		if v != 0 {
			t.Fatalf("constant series should have an empty spectrum, bin %d = %f", i, v)
		}
	}
	if ps := PowerSpectrum([]float64{1}); ps != nil {
		t.Errorf("expected no spectrum for a single sample, got %v", ps)
	}
}

func TestPeaksFindsPeriod(t *testing.T) {
	tests := []struct {
		name     string
		period   float64
		interval float64
	}{
		{"fast", 0.5, 0.01},
		{"slow", 4, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := make([]float64, 512)
			for i := range series {
				series[i] = 10 + 3*math.Sin(2*math.Pi*float64(i)*tt.interval/tt.period)
			}
			peaks, err := Peaks(series, tt.interval, 1)
			if err != nil {
				t.Fatalf("Peaks failed: %v", err)
			}
			if len(peaks) != 1 {
				t.Fatalf("expected one peak, got %d", len(peaks))
			}
			// Bin width bounds the error.
			binWidth := 1 / (512 * tt.interval)
			if math.Abs(peaks[0].Frequency-1/tt.period) > binWidth {
				t.Errorf("expected frequency %f, got %f", 1/tt.period, peaks[0].Frequency)
			}
		})
	}
}

func TestPeaksValidates(t *testing.T) {
	if _, err := Peaks([]float64{1, 2}, 1, 0); err == nil {
		t.Error("expected error for short series")
	}
	if _, err := Peaks(make([]float64, 8), 0, 0); err == nil {
		t.Error("expected error for zero interval")
	}
}
