package sim

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/camera"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/input"
	"github.com/san-kum/gravsim/internal/physics"
)

// Simulation owns the engine, its bodies and the interactive state around
// them. It is not safe for concurrent use; adapters feed it from a single
// goroutine.
type Simulation struct {
	Input *input.Controller
	View  *camera.View

	cfg     Config
	engine  *physics.Space
	bodies  body.Set
	stepper *Stepper
	clock   dynamo.Clock
	logger  *log.Logger

	tick    uint64
	elapsed float64

	metrics   []Metric
	observers []Observer
}

// New builds a simulation and spawns its bodies.
func New(cfg Config) *Simulation {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg.Logger = logger
	cfg.Physics.Logger = logger

	s := &Simulation{
		Input:   input.NewController(),
		View:    camera.New(cfg.Camera, cfg.Bindings, cfg.Textures),
		cfg:     cfg,
		stepper: NewStepper(cfg.Field, cfg.Attractors...),
		logger:  logger,
	}
	s.populate()
	return s
}

func (s *Simulation) populate() {
	s.engine = physics.NewSpace(s.cfg.Physics)
	rng := rand.New(rand.NewSource(s.cfg.Seed))
	s.bodies = body.Spawn(s.engine, rng, s.cfg.Spawn)
	s.tick = 0
	s.elapsed = 0
	s.logger.Printf("sim: spawned %d bodies (seed=%d, epoch=%d)", len(s.bodies), s.cfg.Seed, s.engine.Epoch())
}

// Reset discards the engine and respawns from the configured seed. Handles
// issued before the reset no longer resolve.
func (s *Simulation) Reset() {
	s.populate()
	for _, m := range s.metrics {
		m.Reset()
	}
}

// AddBody creates one more body in the current engine.
func (s *Simulation) AddBody(def dynamo.BodyDef) body.Body {
	b := body.Create(s.engine, def)
	s.bodies = append(s.bodies, b)
	return b
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Engine() *physics.Space { return s.engine }
func (s *Simulation) Bodies() body.Set       { return s.bodies }
func (s *Simulation) Field() gravity.Field   { return s.stepper.Field }
func (s *Simulation) Tick() uint64           { return s.tick }
func (s *Simulation) Elapsed() float64       { return s.elapsed }
func (s *Simulation) Paused() bool           { return s.clock.Paused }
func (s *Simulation) Config() Config         { return s.cfg }

// Attractors returns the fixed point masses acting on the bodies.
func (s *Simulation) Attractors() []gravity.PointMass {
	return s.stepper.Attractors
}

// SetAmplifier changes the gravity multiplier for subsequent ticks.
func (s *Simulation) SetAmplifier(amp float64) {
	s.stepper.Field.Amplifier = amp
}

// Particles returns the gravitational view of bodies and attractors.
func (s *Simulation) Particles() []gravity.Particle {
	ps := s.bodies.Particles(s.engine, nil)
	for _, a := range s.stepper.Attractors {
		ps = append(ps, a.Particle())
	}
	return ps
}

func (s *Simulation) Press(k input.Key)   { s.Input.Press(k) }
func (s *Simulation) Release(k input.Key) { s.Input.Release(k) }

// Frame runs one wall-clock frame: pause toggle, physics (unless paused or
// this is the first frame), camera, then input buffer rotation. A step error
// is returned after the camera and input have still been updated.
func (s *Simulation) Frame(now time.Time) error {
	s.togglePause()
	dt, _ := s.clock.Tick(now)
	return s.frame(dt)
}

// Advance runs one frame with a fixed dt instead of the wall clock.
func (s *Simulation) Advance(dt float64) error {
	s.togglePause()
	return s.frame(dt)
}

func (s *Simulation) togglePause() {
	if s.Input.IsPressed(s.View.Bindings.Pause) {
		paused := s.clock.TogglePause()
		s.logger.Printf("sim: paused=%v at tick %d", paused, s.tick)
	}
}

func (s *Simulation) frame(dt float64) error {
	var err error
	if !s.clock.Paused && dt != 0 {
		err = s.step(dt)
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	s.View.Update(dt, s.Input)
	s.Input.Advance()
	return err
}

func (s *Simulation) step(dt float64) error {
	s.tick++
	if err := s.stepper.Step(s.engine, s.bodies, dt); err != nil {
		return &dynamo.StepError{Tick: s.tick, Dt: dt, Wrapped: err}
	}
	s.elapsed += dt

	for _, m := range s.metrics {
		m.Observe(s)
	}
	for _, o := range s.observers {
		o.OnStep(s)
	}
	return nil
}

// Run advances the simulation headlessly for ticks fixed steps of dt,
// stopping early on the first step error or when ctx is cancelled.
func (s *Simulation) Run(ctx context.Context, ticks int, dt float64) (*Result, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidTimestep, dt)
	}
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrParameterBounds, ticks)
	}

	var runErr error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}
		if err := s.Advance(dt); err != nil {
			runErr = err
			break
		}
	}

	result := &Result{
		Ticks:      s.tick,
		Elapsed:    s.elapsed,
		Collisions: s.engine.Collisions(),
		Metrics:    make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}
