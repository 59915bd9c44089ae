// Package physics implements the rigid-body engine the simulation delegates
// integration and contact resolution to.
//
// [Space] wraps a Chipmunk2D space (github.com/jakecoffman/cp). Bodies are
// circles; each one is reachable only through the handles returned by
// [Space.CreateBody]. Handles embed the epoch of the space that issued them so
// a handle that outlives its space panics on lookup instead of silently
// resolving to another body.
//
// Gravity is not modelled here. The space is stepped with a zero (or
// caller-provided uniform) acceleration; body-specific forces are applied by
// the caller before each step.
package physics
