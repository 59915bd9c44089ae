// Package body provides the lightweight handle through which the simulation
// refers to engine-owned bodies.
package body

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Body identifies one simulated entity. It stores nothing but the handles;
// every attribute is read from the engine when asked for.
type Body struct {
	RigidBody dynamo.RigidBodyHandle
	Collider  dynamo.ColliderHandle
}

func (b Body) Position(q dynamo.Querier) cp.Vector {
	return q.Position(b.RigidBody)
}

func (b Body) Rotation(q dynamo.Querier) float64 {
	return q.Rotation(b.RigidBody)
}

func (b Body) Radius(q dynamo.Querier) float64 {
	return q.Radius(b.Collider)
}

func (b Body) Mass(q dynamo.Querier) float64 {
	return q.Mass(b.RigidBody)
}

func (b Body) Velocity(q dynamo.Querier) cp.Vector {
	return q.Velocity(b.RigidBody)
}

// Particle returns the body's gravitational view at the engine's current
// state.
func (b Body) Particle(q dynamo.Querier) gravity.Particle {
	return gravity.Particle{Position: b.Position(q), Mass: b.Mass(q)}
}

// Bind pairs the body with an engine so it satisfies gravity.Participant.
func (b Body) Bind(q dynamo.Querier) Bound {
	return Bound{Body: b, engine: q}
}

// Bound is a Body together with the engine that resolves it.
type Bound struct {
	Body
	engine dynamo.Querier
}

func (b Bound) Particle() gravity.Particle {
	return b.Body.Particle(b.engine)
}

// Set is an insertion-ordered sequence of bodies.
type Set []Body

// Particles appends the gravitational view of every body to dst, in set
// order.
func (s Set) Particles(q dynamo.Querier, dst []gravity.Particle) []gravity.Particle {
	for _, b := range s {
		dst = append(dst, b.Particle(q))
	}
	return dst
}

// Create adds a body built from def to the engine and returns its handle.
func Create(e dynamo.Engine, def dynamo.BodyDef) Body {
	rb, col := e.CreateBody(def)
	return Body{RigidBody: rb, Collider: col}
}
