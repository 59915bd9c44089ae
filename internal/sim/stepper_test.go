package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
)

// recordingEngine is a minimal engine that remembers the order of calls.
type recordingEngine struct {
	positions []cp.Vector
	masses    []float64
	forces    []cp.Vector
	calls     []string
	gravity   cp.Vector
	stepErr   error
}

func (e *recordingEngine) add(p cp.Vector, m float64) body.Body {
	e.positions = append(e.positions, p)
	e.masses = append(e.masses, m)
	e.forces = append(e.forces, cp.Vector{X: 99, Y: 99})
	i := uint32(len(e.positions) - 1)
	return body.Body{RigidBody: dynamo.RigidBodyHandle{Index: i}, Collider: dynamo.ColliderHandle{Index: i}}
}

func (e *recordingEngine) CreateBody(def dynamo.BodyDef) (dynamo.RigidBodyHandle, dynamo.ColliderHandle) {
	b := e.add(def.Position, def.Mass())
	return b.RigidBody, b.Collider
}

func (e *recordingEngine) Position(h dynamo.RigidBodyHandle) cp.Vector { return e.positions[h.Index] }
func (e *recordingEngine) Rotation(h dynamo.RigidBodyHandle) float64   { return 0 }
func (e *recordingEngine) Velocity(h dynamo.RigidBodyHandle) cp.Vector { return cp.Vector{} }
func (e *recordingEngine) Mass(h dynamo.RigidBodyHandle) float64       { return e.masses[h.Index] }
func (e *recordingEngine) Radius(h dynamo.ColliderHandle) float64      { return 1 }
func (e *recordingEngine) Force(h dynamo.RigidBodyHandle) cp.Vector    { return e.forces[h.Index] }

func (e *recordingEngine) ResetForces(h dynamo.RigidBodyHandle) {
	e.calls = append(e.calls, "reset")
	e.forces[h.Index] = cp.Vector{}
}

func (e *recordingEngine) ApplyForce(h dynamo.RigidBodyHandle, f cp.Vector) {
	e.calls = append(e.calls, "apply")
	e.forces[h.Index] = e.forces[h.Index].Add(f)
}

func (e *recordingEngine) Step(g cp.Vector, dt float64) error {
	e.calls = append(e.calls, "step")
	e.gravity = g
	return e.stepErr
}

func TestStepperOrder(t *testing.T) {
	e := &recordingEngine{}
	bodies := body.Set{
		e.add(cp.Vector{X: 0, Y: 0}, 1),
		e.add(cp.Vector{X: 2, Y: 0}, 1),
	}

	s := NewStepper(gravity.NewField(1))
	if err := s.Step(e, bodies, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	want := []string{"reset", "reset", "apply", "apply", "step"}
	if len(e.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, e.calls)
	}
	for i := range want {
		if e.calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], e.calls[i])
		}
	}
	if e.gravity != (cp.Vector{}) {
		t.Errorf("expected zero uniform gravity, got %v", e.gravity)
	}
}

func TestStepperForcesReplaceStaleForces(t *testing.T) {
	e := &recordingEngine{}
	bodies := body.Set{
		e.add(cp.Vector{X: 0, Y: 0}, 2),
		e.add(cp.Vector{X: 2, Y: 0}, 3),
	}

	s := NewStepper(gravity.NewField(1))
	for i := 0; i < 3; i++ {
		if err := s.Step(e, bodies, 0.1); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}

	// G*m1*m2/r² = 6/4
	if math.Abs(e.forces[0].X-1.5) > 1e-12 || math.Abs(e.forces[1].X+1.5) > 1e-12 {
		t.Errorf("expected ±1.5, got %v and %v", e.forces[0], e.forces[1])
	}
}

func TestStepperAttractors(t *testing.T) {
	e := &recordingEngine{}
	bodies := body.Set{e.add(cp.Vector{X: 1, Y: 0}, 1)}

	s := NewStepper(gravity.NewField(1), gravity.PointMass{Position: cp.Vector{}, Mass: 10})
	if err := s.Step(e, bodies, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	if math.Abs(e.forces[0].X+10) > 1e-12 {
		t.Errorf("expected force -10 towards the attractor, got %v", e.forces[0])
	}
}

func TestStepperPropagatesEngineError(t *testing.T) {
	e := &recordingEngine{stepErr: dynamo.ErrEngineFault}
	bodies := body.Set{e.add(cp.Vector{}, 1)}

	err := NewStepper(gravity.NewField(1)).Step(e, bodies, 0.1)
	if !errors.Is(err, dynamo.ErrEngineFault) {
		t.Errorf("expected engine fault, got %v", err)
	}
}

func TestStepperEmptySet(t *testing.T) {
	e := &recordingEngine{}
	if err := NewStepper(gravity.NewField(1)).Step(e, nil, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if len(e.calls) != 1 || e.calls[0] != "step" {
		t.Errorf("expected only a step call, got %v", e.calls)
	}
}
