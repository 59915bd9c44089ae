package config

import (
	"fmt"
	"sort"
)

type numeric struct {
	get func(*Config) float64
	set func(*Config, float64)
}

// numerics are the scalar settings addressable by name, for sweeps and the
// interactive editor.
var numerics = map[string]numeric{
	"seed":         {func(c *Config) float64 { return float64(c.Seed) }, func(c *Config, v float64) { c.Seed = int64(v) }},
	"bodies":       {func(c *Config) float64 { return float64(c.Bodies) }, func(c *Config, v float64) { c.Bodies = int(v) }},
	"world_radius": {func(c *Config) float64 { return c.WorldRadius }, func(c *Config, v float64) { c.WorldRadius = v }},
	"max_radius":   {func(c *Config) float64 { return c.MaxRadius }, func(c *Config, v float64) { c.MaxRadius = v }},
	"min_radius":   {func(c *Config) float64 { return c.MinRadius }, func(c *Config, v float64) { c.MinRadius = v }},
	"max_speed":    {func(c *Config) float64 { return c.MaxSpeed }, func(c *Config, v float64) { c.MaxSpeed = v }},
	"max_spin":     {func(c *Config) float64 { return c.MaxSpin }, func(c *Config, v float64) { c.MaxSpin = v }},
	"density":      {func(c *Config) float64 { return c.Density }, func(c *Config, v float64) { c.Density = v }},
	"dt":           {func(c *Config) float64 { return c.Dt }, func(c *Config, v float64) { c.Dt = v }},
	"ticks":        {func(c *Config) float64 { return float64(c.Ticks) }, func(c *Config, v float64) { c.Ticks = int(v) }},
	"constant":     {func(c *Config) float64 { return c.Gravity.Constant }, func(c *Config, v float64) { c.Gravity.Constant = v }},
	"amplifier":    {func(c *Config) float64 { return c.Gravity.Amplifier }, func(c *Config, v float64) { c.Gravity.Amplifier = v }},
	"softening":    {func(c *Config) float64 { return c.Gravity.Softening }, func(c *Config, v float64) { c.Gravity.Softening = v }},
	"iterations":   {func(c *Config) float64 { return float64(c.Physics.Iterations) }, func(c *Config, v float64) { c.Physics.Iterations = int(v) }},
	"restitution":  {func(c *Config) float64 { return c.Physics.Restitution }, func(c *Config, v float64) { c.Physics.Restitution = v }},
	"friction":     {func(c *Config) float64 { return c.Physics.Friction }, func(c *Config, v float64) { c.Physics.Friction = v }},
}

// Get returns the named scalar setting.
func (c *Config) Get(name string) (float64, error) {
	n, ok := numerics[name]
	if !ok {
		return 0, fmt.Errorf("unknown setting %q (known: %v)", name, Settings())
	}
	return n.get(c), nil
}

// Set changes the named scalar setting. Integer settings truncate v. The
// result is not validated.
func (c *Config) Set(name string, v float64) error {
	n, ok := numerics[name]
	if !ok {
		return fmt.Errorf("unknown setting %q (known: %v)", name, Settings())
	}
	n.set(c, v)
	return nil
}

// Settings lists the names accepted by Get and Set.
func Settings() []string {
	names := make([]string, 0, len(numerics))
	for name := range numerics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
