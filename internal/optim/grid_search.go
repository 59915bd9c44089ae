// Package optim searches configuration grids for the setting that minimises
// a run metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/sim"
)

// RunFunc runs one grid point and returns its result.
type RunFunc func(ctx context.Context, params map[string]float64) (*sim.Result, error)

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Workers bounds concurrent runs; zero means one per grid point.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ParseAxis parses "name=v1,v2,...".
func ParseAxis(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("optim: expected name=v1,v2,..., got %q", s)
	}
	var vals []float64
	for _, f := range strings.Split(list, ",") {
		var v float64
		if _, err := fmt.Sscanf(strings.TrimSpace(f), "%g", &v); err != nil {
			return "", nil, fmt.Errorf("optim: %s: bad value %q", name, f)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

// Points expands the grid in row-major order.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		var next []map[string]float64
		for _, p := range points {
			for _, val := range g.ranges[depth] {
				np := make(map[string]float64, len(p)+1)
				for k, v := range p {
					np[k] = v
				}
				np[name] = val
				next = append(next, np)
			}
		}
		points = next
	}
	return points
}

// Search runs every grid point and returns the trials sorted by metricName,
// best first. Failed runs are kept with their error and sort last. The
// search stops early only when ctx is done.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string) ([]Trial, error) {
	points := g.Points()
	trials := make([]Trial, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	if g.Workers > 0 {
		eg.SetLimit(g.Workers)
	}
	var mu sync.Mutex
	for i, p := range points {
		eg.Go(func() error {
			trial := Trial{Params: p, Value: math.Inf(1)}
			result, err := run(ctx, p)
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case err != nil:
				trial.Err = err
			default:
				v, ok := result.Metrics[metricName]
				if !ok {
					trial.Err = fmt.Errorf("optim: run has no metric %q", metricName)
				} else {
					trial.Value = v
				}
			}
			mu.Lock()
			trials[i] = trial
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(trials, func(i, j int) bool {
		if (trials[i].Err == nil) != (trials[j].Err == nil) {
			return trials[i].Err == nil
		}
		return trials[i].Value < trials[j].Value
	})
	return trials, nil
}
