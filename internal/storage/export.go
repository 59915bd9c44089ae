package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

type ExportData struct {
	Info       RunInfo            `json:"info"`
	Ticks      uint64             `json:"ticks"`
	Elapsed    float64            `json:"elapsed"`
	Collisions uint64             `json:"collisions"`
	Metrics    map[string]float64 `json:"metrics"`
	Samples    []metrics.Sample   `json:"samples"`
}

// ExportJSON writes a run to path, or to stdout when path is "-".
func ExportJSON(path string, info RunInfo, result *sim.Result, samples []metrics.Sample) error {
	if path == "-" {
		return WriteJSON(os.Stdout, info, result, samples)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result, samples)
}

func WriteJSON(w io.Writer, info RunInfo, result *sim.Result, samples []metrics.Sample) error {
	data := ExportData{
		Info:       info,
		Ticks:      result.Ticks,
		Elapsed:    result.Elapsed,
		Collisions: result.Collisions,
		Metrics:    result.Metrics,
		Samples:    samples,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
