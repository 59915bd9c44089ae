package sim

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/dynamo"
)

func testConfig(n int) Config {
	cfg := DefaultConfig()
	cfg.Spawn.Count = n
	cfg.Logger = log.New(io.Discard, "", 0)
	return cfg
}

func TestNewSpawnsBodies(t *testing.T) {
	s := New(testConfig(10))
	if len(s.Bodies()) != 10 {
		t.Fatalf("expected 10 bodies, got %d", len(s.Bodies()))
	}
	if s.Engine().Len() != 10 {
		t.Errorf("expected engine to hold 10 bodies, got %d", s.Engine().Len())
	}
}

func TestFirstFrameDoesNotStep(t *testing.T) {
	s := New(testConfig(5))
	t0 := time.Unix(100, 0)

	if err := s.Frame(t0); err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	if s.Tick() != 0 {
		t.Errorf("first frame should only set the baseline, tick=%d", s.Tick())
	}

	if err := s.Frame(t0.Add(16 * time.Millisecond)); err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	if s.Tick() != 1 {
		t.Errorf("expected tick 1, got %d", s.Tick())
	}
	if math.Abs(s.Elapsed()-0.016) > 1e-9 {
		t.Errorf("expected elapsed 0.016, got %f", s.Elapsed())
	}
}

func TestPauseStopsPhysicsNotCamera(t *testing.T) {
	s := New(testConfig(5))
	b := s.Bodies()[0]
	before := b.Position(s.Engine())

	s.Press("space")
	if err := s.Advance(0.1); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if !s.Paused() {
		t.Fatal("expected paused after pressing space")
	}

	s.Release("space")
	s.Press("d")
	for i := 0; i < 5; i++ {
		if err := s.Advance(0.1); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}

	if s.Tick() != 0 {
		t.Errorf("paused simulation stepped %d times", s.Tick())
	}
	if b.Position(s.Engine()) != before {
		t.Error("body moved while paused")
	}
	if s.View.Pan.X <= 0 {
		t.Errorf("camera should keep panning while paused, pan=%v", s.View.Pan)
	}

	s.Press("space")
	if err := s.Advance(0.1); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if s.Paused() || s.Tick() != 1 {
		t.Errorf("expected unpaused with one tick, paused=%v tick=%d", s.Paused(), s.Tick())
	}
}

func TestHeldPauseTogglesOnce(t *testing.T) {
	s := New(testConfig(1))
	s.Press("space")
	for i := 0; i < 3; i++ {
		if err := s.Advance(0.1); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}
	if !s.Paused() {
		t.Error("holding pause should toggle only on the press edge")
	}
}

func TestStepErrorStillAdvancesInput(t *testing.T) {
	s := New(testConfig(3))
	s.Press("q")

	err := s.Advance(-1)

	var stepErr *dynamo.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrInvalidTimestep) {
		t.Errorf("expected wrapped invalid timestep, got %v", err)
	}
	if stepErr.Tick != 1 {
		t.Errorf("expected tick 1, got %d", stepErr.Tick)
	}
	if s.Input.IsPressed("q") {
		t.Error("input buffers should rotate even when the step fails")
	}
}

func TestGravityPullsPairTogether(t *testing.T) {
	s := New(testConfig(0))
	a := s.AddBody(dynamo.BodyDef{Position: cp.Vector{X: -5}, Radius: 1, Density: 1})
	b := s.AddBody(dynamo.BodyDef{Position: cp.Vector{X: 5}, Radius: 1, Density: 1})

	for i := 0; i < 30; i++ {
		if err := s.Advance(1.0 / 60); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}

	pa, pb := a.Position(s.Engine()), b.Position(s.Engine())
	if pa.X <= -5 || pb.X >= 5 {
		t.Errorf("expected bodies to approach, got %v and %v", pa, pb)
	}
	if math.Abs(pa.X+pb.X) > 1e-9 {
		t.Errorf("equal masses should stay symmetric, got %v and %v", pa, pb)
	}
}

func TestRunValidates(t *testing.T) {
	s := New(testConfig(1))

	if _, err := s.Run(context.Background(), 10, 0); !errors.Is(err, dynamo.ErrInvalidTimestep) {
		t.Errorf("expected invalid timestep, got %v", err)
	}
	if _, err := s.Run(context.Background(), 0, 0.1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected parameter bounds, got %v", err)
	}
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string          { return "count" }
func (c *countingMetric) Observe(s *Simulation) { c.n++ }
func (c *countingMetric) Value() float64        { return float64(c.n) }
func (c *countingMetric) Reset()                { c.n = 0 }

func TestRunCollectsMetrics(t *testing.T) {
	s := New(testConfig(4))
	m := &countingMetric{}
	s.AddMetric(m)

	result, err := s.Run(context.Background(), 25, 0.01)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ticks != 25 {
		t.Errorf("expected 25 ticks, got %d", result.Ticks)
	}
	if result.Metrics["count"] != 25 {
		t.Errorf("expected metric observed 25 times, got %f", result.Metrics["count"])
	}
}

func TestRunCancelled(t *testing.T) {
	s := New(testConfig(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, 100, 0.01)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result.Ticks != 0 {
		t.Errorf("expected no ticks, got %d", result.Ticks)
	}
}

func TestResetRespawnsDeterministically(t *testing.T) {
	s := New(testConfig(6))
	first := s.Bodies()[0].Position(s.Engine())
	epoch := s.Engine().Epoch()

	if _, err := s.Run(context.Background(), 10, 0.05); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	s.Reset()

	if s.Engine().Epoch() == epoch {
		t.Error("reset should create a new engine epoch")
	}
	if got := s.Bodies()[0].Position(s.Engine()); got != first {
		t.Errorf("expected respawn at %v, got %v", first, got)
	}
	if s.Tick() != 0 {
		t.Errorf("expected tick 0 after reset, got %d", s.Tick())
	}
}

func TestEnsemble(t *testing.T) {
	for _, workers := range []int{0, 1} {
		e := NewEnsemble(testConfig(5), 3, 10)
		e.Workers = workers
		e.NewMetrics = func() []Metric { return []Metric{&countingMetric{}} }

		results, err := e.Run(context.Background(), 20, 0.01)
		if err != nil {
			t.Fatalf("workers=%d: ensemble failed: %v", workers, err)
		}
		if len(results) != 3 {
			t.Fatalf("workers=%d: expected 3 results, got %d", workers, len(results))
		}
		for i, r := range results {
			if r.Ticks != 20 || r.Metrics["count"] != 20 {
				t.Errorf("workers=%d run %d: ticks=%d count=%f", workers, i, r.Ticks, r.Metrics["count"])
			}
		}
	}
}
