// Package analysis finds periodic behaviour in recorded run series.
//
// Bound systems oscillate: a binary pair trades kinetic and potential energy
// once per orbit. [Peaks] locates those oscillations in a sampled series:
//
//	peaks, err := analysis.Peaks(kinetic, sampleInterval, 3)
//	fmt.Printf("orbital period %.2fs\n", peaks[0].Period)
package analysis
