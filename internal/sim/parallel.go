package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs the same configuration under consecutive seeds. Every run
// gets its own engine; at most Workers runs execute at once.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64

	// Workers defaults to GOMAXPROCS.
	Workers int
	// NewMetrics builds a fresh set of metrics for each run.
	NewMetrics func() []Metric
}

func NewEnsemble(cfg Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: cfg, numRuns: numRuns, seedStart: seedStart}
}

// Run executes every member for ticks steps of dt. The first failing run
// cancels the rest; its error is returned along with whatever results were
// collected, indexed by run.
func (e *Ensemble) Run(ctx context.Context, ticks int, dt float64) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range e.numRuns {
		g.Go(func() error {
			cfg := e.base
			cfg.Seed = e.seedStart + int64(i)
			cfg.Attractors = append(cfg.Attractors[:0:0], cfg.Attractors...)

			s := New(cfg)
			if e.NewMetrics != nil {
				for _, m := range e.NewMetrics() {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, ticks, dt)
			results[i] = res
			return err
		})
	}

	return results, g.Wait()
}
