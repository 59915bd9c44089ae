package analysis

import (
	"fmt"
	"sort"
)

// Peak is one frequency bin of a spectrum.
type Peak struct {
	Frequency float64 `json:"frequency"`
	Period    float64 `json:"period"`
	Power     float64 `json:"power"`
}

// Peaks returns the strongest local maxima of the spectrum of series, which
// was sampled every interval seconds, strongest first. The zero-frequency
// bin is skipped.
func Peaks(series []float64, interval float64, limit int) ([]Peak, error) {
	if len(series) < 4 {
		return nil, fmt.Errorf("analysis: need at least 4 samples, got %d", len(series))
	}
	if interval <= 0 {
		return nil, fmt.Errorf("analysis: sample interval must be positive, got %f", interval)
	}

	ps := PowerSpectrum(series)
	n := len(ps) * 2
	var peaks []Peak
	for k := 1; k < len(ps); k++ {
		left := ps[k-1]
		right := 0.0
		if k+1 < len(ps) {
			right = ps[k+1]
		}
		if ps[k] <= 0 || ps[k] < left || ps[k] < right {
			continue
		}
		freq := float64(k) / (float64(n) * interval)
		peaks = append(peaks, Peak{Frequency: freq, Period: 1 / freq, Power: ps[k]})
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Power > peaks[j].Power })
	if limit > 0 && len(peaks) > limit {
		peaks = peaks[:limit]
	}
	return peaks, nil
}
