package dynamo

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// RigidBodyHandle identifies a rigid body inside the engine that issued it.
type RigidBodyHandle struct {
	Index uint32
	Epoch uint32
}

func (h RigidBodyHandle) String() string {
	return fmt.Sprintf("body#%d@%d", h.Index, h.Epoch)
}

// ColliderHandle identifies a collider inside the engine that issued it.
type ColliderHandle struct {
	Index uint32
	Epoch uint32
}

func (h ColliderHandle) String() string {
	return fmt.Sprintf("collider#%d@%d", h.Index, h.Epoch)
}

// BodyDef is the initial state of a circular dynamic body.
type BodyDef struct {
	Position        cp.Vector
	Velocity        cp.Vector
	Rotation        float64
	AngularVelocity float64
	Radius          float64
	Density         float64
	Restitution     float64
	Friction        float64
}

// Mass returns the mass a body created from d will have.
func (d BodyDef) Mass() float64 {
	return d.Density * cp.AreaForCircle(0, d.Radius)
}

// Querier reads engine-owned body state. Lookups with a handle the engine did
// not issue panic.
type Querier interface {
	Position(h RigidBodyHandle) cp.Vector
	Rotation(h RigidBodyHandle) float64
	Velocity(h RigidBodyHandle) cp.Vector
	Mass(h RigidBodyHandle) float64
	Radius(h ColliderHandle) float64
}

// Engine is the rigid-body engine contract.
type Engine interface {
	Querier

	CreateBody(def BodyDef) (RigidBodyHandle, ColliderHandle)
	Force(h RigidBodyHandle) cp.Vector
	ResetForces(h RigidBodyHandle)
	ApplyForce(h RigidBodyHandle, force cp.Vector)

	// Step advances every body by dt under a uniform external acceleration and
	// resolves contacts.
	Step(gravity cp.Vector, dt float64) error
}
