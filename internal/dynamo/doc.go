// Package dynamo provides the core primitives shared by the gravity simulation.
//
// The package defines the vocabulary the rest of the simulation is written in:
//
//   - [RigidBodyHandle], [ColliderHandle]: opaque references into engine-owned stores
//   - [BodyDef]: initial state used to create an engine body
//   - [Engine]: the rigid-body engine contract the simulation depends on
//   - [Clock]: wall-clock delta tracking with a pause flag
//
// # Ownership
//
// Bodies never own engine state. Every derived attribute (position, rotation,
// radius, mass) is fetched from the [Engine] at the moment it is needed, so a
// handle is only meaningful together with the engine that issued it.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. A simulation runs on a
// single goroutine and every type here is owned by that goroutine.
package dynamo
