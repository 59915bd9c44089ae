package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Ticks:      2,
		Elapsed:    0.02,
		Collisions: 3,
		Metrics: map[string]float64{
			"energy_drift": 0.015,
		},
	}
}

func testSamples() []metrics.Sample {
	return []metrics.Sample{
		{Tick: 1, Time: 0.01, Kinetic: 2, Potential: -5, Total: -3, MomentumX: 0.5, MomentumY: -0.25, Collisions: 1},
		{Tick: 2, Time: 0.02, Kinetic: 2.5, Potential: -5.5, Total: -3, MomentumX: 0.5, MomentumY: -0.25, Collisions: 3},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	info := RunInfo{Name: "disc", Seed: 42, Bodies: 200, Dt: 0.01, G: 6.6743, Amplifier: 1}
	runID, err := st.Save(info, testResult(), testSamples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(info, meta.RunInfo); diff != "" {
		t.Errorf("run info mismatch (-want +got):\n%s", diff)
	}
	if meta.Collisions != 3 || meta.Samples != 2 {
		t.Errorf("expected 3 collisions and 2 samples, got %d and %d", meta.Collisions, meta.Samples)
	}
	if meta.Metrics["energy_drift"] != 0.015 {
		t.Errorf("expected energy_drift 0.015, got %f", meta.Metrics["energy_drift"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if diff := cmp.Diff(testSamples(), samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, name := range []string{"a", "b"} {
		if _, err := st.Save(RunInfo{Name: name}, testResult(), nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "a" || runs[1].Name != "b" {
		t.Errorf("expected runs ordered by time, got %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunInfo{}, testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "samples.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadSamplesSkipsBadRows(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runDir := filepath.Join(tmpDir, "manual")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteSamples(&buf, testSamples()[:1]); err != nil {
		t.Fatal(err)
	}
	buf.WriteString("oops,1,2\n")
	if err := os.WriteFile(filepath.Join(runDir, "samples.csv"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	samples, err := st.LoadSamples("manual")
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("expected 1 sample, got %d", len(samples))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, RunInfo{Name: "x", Seed: 7}, testResult(), testSamples()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Info.Seed != 7 || len(got.Samples) != 2 || got.Ticks != 2 {
		t.Errorf("unexpected export %+v", got)
	}
}
