package sim

import (
	"log"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/camera"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/physics"
)

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(s *Simulation)
	Value() float64
	Reset()
}

// Observer is notified after every successful engine step.
type Observer interface {
	OnStep(s *Simulation)
}

// Config is everything needed to build a Simulation.
type Config struct {
	Seed       int64
	Spawn      body.SpawnParams
	Field      gravity.Field
	Attractors []gravity.PointMass
	Physics    physics.Options
	Camera     camera.Params
	Bindings   camera.Bindings
	Textures   []string
	Logger     *log.Logger
}

// DefaultConfig returns the interactive defaults: 200 bodies in a radius 50
// world under G = 6.6743.
func DefaultConfig() Config {
	return Config{
		Seed:     1,
		Spawn:    body.DefaultSpawnParams(),
		Field:    gravity.NewField(UniversalGravity),
		Physics:  physics.DefaultOptions(),
		Camera:   camera.DefaultParams(),
		Bindings: camera.DefaultBindings(),
	}
}

// UniversalGravity is G scaled by 1e11 so that unit-density bodies of
// radius around 1 attract visibly.
const UniversalGravity = 6.6743e-11 * 1e11

// Result summarizes a headless run.
type Result struct {
	Ticks      uint64
	Elapsed    float64
	Collisions uint64
	Metrics    map[string]float64
}
