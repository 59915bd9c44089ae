package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Stepper couples the gravity solver to the rigid-body engine for one tick.
// Its buffers are reused between ticks, so a Stepper must not be shared
// between goroutines.
type Stepper struct {
	Field      gravity.Field
	Attractors []gravity.PointMass

	particles []gravity.Particle
	forces    []cp.Vector
}

func NewStepper(field gravity.Field, attractors ...gravity.PointMass) *Stepper {
	return &Stepper{Field: field, Attractors: attractors}
}

// Step resets every body's force, applies the net gravitational force of
// all bodies and attractors, then advances the engine by dt with no uniform
// gravity. Engine errors are returned as is.
func (s *Stepper) Step(e dynamo.Engine, bodies body.Set, dt float64) error {
	for _, b := range bodies {
		e.ResetForces(b.RigidBody)
	}

	s.particles = bodies.Particles(e, s.particles[:0])
	for _, a := range s.Attractors {
		s.particles = append(s.particles, a.Particle())
	}
	s.forces = s.Field.Forces(s.particles, s.forces)

	// attractor forces sit past len(bodies) and are dropped
	for i, b := range bodies {
		e.ApplyForce(b.RigidBody, s.forces[i])
	}

	return e.Step(cp.Vector{}, dt)
}
