package metrics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// Kinetic returns the total translational kinetic energy of bodies.
func Kinetic(q dynamo.Querier, bodies body.Set) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass(q) * b.Velocity(q).LengthSq()
	}
	return ke
}

// Momentum returns the total linear momentum of bodies.
func Momentum(q dynamo.Querier, bodies body.Set) cp.Vector {
	var p cp.Vector
	for _, b := range bodies {
		p = p.Add(b.Velocity(q).Mult(b.Mass(q)))
	}
	return p
}

// TotalEnergy returns kinetic plus gravitational potential energy, including
// the potential of any fixed attractors.
func TotalEnergy(s *sim.Simulation) float64 {
	return Kinetic(s.Engine(), s.Bodies()) + s.Field().PotentialEnergy(s.Particles())
}

// Energy is the mean total energy over the observed ticks.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *sim.Simulation) {
	e.totalEnergy += TotalEnergy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of total energy from its
// first observed value. Inelastic collisions make it grow, so it is a
// diagnostic, not a conservation check.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *sim.Simulation) {
	e.observe(TotalEnergy(s))
}

func (e *EnergyDrift) observe(energy float64) {
	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
