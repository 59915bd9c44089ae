package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/sim"
)

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --param is needed (settings: %s)", strings.Join(config.Settings(), ", "))
	}

	var names []string
	var ranges [][]float64
	for _, a := range axes {
		name, vals, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		if _, err := base.Get(name); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	grid := optim.NewGridSearch(names, ranges)
	grid.Workers = workers
	quiet := log.New(io.Discard, "", 0)

	run := func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		cfg := *base
		for name, v := range params {
			if err := cfg.Set(name, v); err != nil {
				return nil, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		s := sim.New(cfg.SimConfig(quiet))
		for _, m := range defaultMetrics(&cfg) {
			s.AddMetric(m)
		}
		return s.Run(ctx, cfg.Ticks, cfg.Dt)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %d points, minimising %s...\n", len(grid.Points()), metric)
	start := time.Now()
	trials, err := grid.Search(ctx, run, metric)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metric))
	for _, t := range trials {
		fmt.Fprintln(w, formatTrial(names, t))
	}
	return w.Flush()
}

func formatTrial(names []string, t optim.Trial) string {
	cols := make([]string, 0, len(names)+1)
	for _, name := range names {
		cols = append(cols, fmt.Sprintf("%g", t.Params[name]))
	}
	if t.Err != nil {
		cols = append(cols, "error: "+t.Err.Error())
	} else {
		cols = append(cols, fmt.Sprintf("%.6g", t.Value))
	}
	return strings.Join(cols, "\t")
}
