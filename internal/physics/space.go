package physics

import (
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeBoundary
)

const minDensity = 1e-6

var epochs atomic.Uint32

// Options configures a Space.
type Options struct {
	Iterations       uint
	WorldRadius      float64
	Boundary         bool
	BoundarySegments int
	Logger           *log.Logger
}

// DefaultOptions returns the solver settings used by the simulation.
func DefaultOptions() Options {
	return Options{
		Iterations:       10,
		WorldRadius:      50,
		BoundarySegments: 64,
	}
}

// Space owns the Chipmunk space and the body and collider arenas that
// handles index into.
type Space struct {
	space  *cp.Space
	epoch  uint32
	logger *log.Logger

	bodies    []*cp.Body
	colliders []*cp.Shape

	collisions uint64
	steps      uint64
}

var _ dynamo.Engine = (*Space)(nil)

// NewSpace creates an empty engine with zero gravity.
func NewSpace(opts Options) *Space {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	iterations := opts.Iterations
	if iterations == 0 {
		iterations = DefaultOptions().Iterations
	}

	space := cp.NewSpace()
	space.Iterations = iterations
	space.SetGravity(cp.Vector{})

	s := &Space{
		space:  space,
		epoch:  epochs.Add(1),
		logger: logger,
	}
	s.setupHandlers()
	if opts.Boundary {
		s.buildBoundary(opts.WorldRadius, opts.BoundarySegments)
	}
	return s
}

// Epoch identifies this engine instance; handles from other instances are
// rejected.
func (s *Space) Epoch() uint32 {
	return s.epoch
}

// Len returns the number of dynamic bodies created so far.
func (s *Space) Len() int {
	return len(s.bodies)
}

// Collisions returns the number of contacts that began since creation.
func (s *Space) Collisions() uint64 {
	return s.collisions
}

// Steps returns the number of completed integration steps.
func (s *Space) Steps() uint64 {
	return s.steps
}

// CreateBody adds a circular dynamic body with a single collider.
func (s *Space) CreateBody(def dynamo.BodyDef) (dynamo.RigidBodyHandle, dynamo.ColliderHandle) {
	if def.Radius <= 0 {
		panic(fmt.Sprintf("physics: body radius must be positive, got %f", def.Radius))
	}
	density := def.Density
	if density < minDensity {
		density = minDensity
	}
	def.Density = density
	mass := def.Mass()

	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, def.Radius, cp.Vector{}))
	body.SetPosition(def.Position)
	body.SetVelocityVector(def.Velocity)
	body.SetAngle(def.Rotation)
	body.SetAngularVelocity(def.AngularVelocity)
	s.space.AddBody(body)

	shape := cp.NewCircle(body, def.Radius, cp.Vector{})
	shape.SetElasticity(def.Restitution)
	shape.SetFriction(def.Friction)
	shape.SetCollisionType(collisionTypeBody)
	s.space.AddShape(shape)

	rb := dynamo.RigidBodyHandle{Index: uint32(len(s.bodies)), Epoch: s.epoch}
	col := dynamo.ColliderHandle{Index: uint32(len(s.colliders)), Epoch: s.epoch}
	s.bodies = append(s.bodies, body)
	s.colliders = append(s.colliders, shape)
	return rb, col
}

func (s *Space) body(h dynamo.RigidBodyHandle) *cp.Body {
	if h.Epoch != s.epoch || int(h.Index) >= len(s.bodies) {
		panic(fmt.Sprintf("physics: %s does not resolve in engine epoch %d", h, s.epoch))
	}
	return s.bodies[h.Index]
}

func (s *Space) collider(h dynamo.ColliderHandle) *cp.Shape {
	if h.Epoch != s.epoch || int(h.Index) >= len(s.colliders) {
		panic(fmt.Sprintf("physics: %s does not resolve in engine epoch %d", h, s.epoch))
	}
	return s.colliders[h.Index]
}

func (s *Space) Position(h dynamo.RigidBodyHandle) cp.Vector {
	return s.body(h).Position()
}

func (s *Space) Rotation(h dynamo.RigidBodyHandle) float64 {
	return s.body(h).Angle()
}

func (s *Space) Velocity(h dynamo.RigidBodyHandle) cp.Vector {
	return s.body(h).Velocity()
}

func (s *Space) Mass(h dynamo.RigidBodyHandle) float64 {
	return s.body(h).Mass()
}

func (s *Space) Radius(h dynamo.ColliderHandle) float64 {
	circle, ok := s.collider(h).Class.(*cp.Circle)
	if !ok {
		panic(fmt.Sprintf("physics: %s is not a circle collider", h))
	}
	return circle.Radius()
}

func (s *Space) Force(h dynamo.RigidBodyHandle) cp.Vector {
	return s.body(h).Force()
}

// ResetForces clears the accumulated force and torque on a body.
func (s *Space) ResetForces(h dynamo.RigidBodyHandle) {
	b := s.body(h)
	b.SetForce(cp.Vector{})
	b.SetTorque(0)
}

// ApplyForce adds force at the body's center of gravity.
func (s *Space) ApplyForce(h dynamo.RigidBodyHandle, force cp.Vector) {
	b := s.body(h)
	b.ApplyForceAtWorldPoint(force, b.LocalToWorld(b.CenterOfGravity()))
}

// Step integrates all bodies and resolves contacts. Chipmunk assertions
// raised during the step are returned as dynamo.ErrEngineFault.
func (s *Space) Step(gravity cp.Vector, dt float64) (err error) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidTimestep, dt)
	}
	if dt == 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", dynamo.ErrEngineFault, r)
		}
	}()

	s.space.SetGravity(gravity)
	s.space.Step(dt)
	s.steps++

	for i, b := range s.bodies {
		p, v := b.Position(), b.Velocity()
		if !finite(p.X, p.Y, v.X, v.Y, b.Angle()) {
			return fmt.Errorf("%w: body %d at %v moving %v", dynamo.ErrUnstable, i, p, v)
		}
	}
	return nil
}

func (s *Space) setupHandlers() {
	handler := s.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		s.collisions++
		return true
	}
}

// buildBoundary closes the world with a ring of static segments.
func (s *Space) buildBoundary(radius float64, segments int) {
	if radius <= 0 {
		return
	}
	if segments < 3 {
		segments = DefaultOptions().BoundarySegments
	}
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		a := cp.ForAngle(step * float64(i)).Mult(radius)
		b := cp.ForAngle(step * float64(i+1)).Mult(radius)
		shape := cp.NewSegment(s.space.StaticBody, a, b, 0.5)
		shape.SetElasticity(1)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeBoundary)
		s.space.AddShape(shape)
	}
	s.logger.Printf("physics: boundary ring radius=%.1f segments=%d", radius, segments)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
