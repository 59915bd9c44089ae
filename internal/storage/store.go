package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{"tick", "time", "kinetic", "potential", "total", "momentum_x", "momentum_y", "collisions"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes the configuration a run was started with.
type RunInfo struct {
	Name      string  `json:"name"`
	Seed      int64   `json:"seed"`
	Bodies    int     `json:"bodies"`
	Dt        float64 `json:"dt"`
	G         float64 `json:"g"`
	Amplifier float64 `json:"amplifier"`
	Boundary  bool    `json:"boundary"`
}

type RunMetadata struct {
	RunInfo
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Ticks      uint64             `json:"ticks"`
	Elapsed    float64            `json:"elapsed"`
	Collisions uint64             `json:"collisions"`
	Samples    int                `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and samples.csv into a new run directory and
// returns the run ID.
func (s *Store) Save(info RunInfo, result *sim.Result, samples []metrics.Sample) (string, error) {
	now := time.Now()
	name := info.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		RunInfo:    info,
		ID:         runID,
		Timestamp:  now,
		Ticks:      result.Ticks,
		Elapsed:    result.Elapsed,
		Collisions: result.Collisions,
		Samples:    len(samples),
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamples(csvFile, samples); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteSamples encodes samples as CSV with a header row.
func WriteSamples(out io.Writer, samples []metrics.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
	for _, smp := range samples {
		row := []string{
			strconv.FormatUint(smp.Tick, 10),
			f(smp.Time),
			f(smp.Kinetic),
			f(smp.Potential),
			f(smp.Total),
			f(smp.MomentumX),
			f(smp.MomentumY),
			strconv.FormatUint(smp.Collisions, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads a run's samples.csv. Rows that fail to parse are
// skipped.
func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		smp, err := parseSample(record)
		if err != nil {
			continue
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseSample(record []string) (metrics.Sample, error) {
	if len(record) != len(sampleHeader) {
		return metrics.Sample{}, fmt.Errorf("expected %d fields, got %d", len(sampleHeader), len(record))
	}

	var smp metrics.Sample
	var err error
	if smp.Tick, err = strconv.ParseUint(record[0], 10, 64); err != nil {
		return smp, err
	}
	floats := []*float64{&smp.Time, &smp.Kinetic, &smp.Potential, &smp.Total, &smp.MomentumX, &smp.MomentumY}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(record[i+1], 64); err != nil {
			return smp, err
		}
	}
	if smp.Collisions, err = strconv.ParseUint(record[7], 10, 64); err != nil {
		return smp, err
	}
	return smp, nil
}
