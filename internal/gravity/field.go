// Package gravity computes pairwise Newtonian gravity over a set of
// participants.
//
// The solver is a direct O(n²) sum with no tree approximation. Two
// participants at exactly the same position contribute a zero vector to each
// other instead of an infinite force.
package gravity

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Particle is the gravitational view of a participant.
type Particle struct {
	Position cp.Vector
	Mass     float64
}

// Participant is anything that takes part in the gravitational field.
type Participant interface {
	Particle() Particle
}

// PointMass is a free-floating participant that is not backed by the
// rigid-body engine. It attracts bodies but is never moved by them.
type PointMass struct {
	Position cp.Vector
	Mass     float64
}

func (p PointMass) Particle() Particle {
	return Particle{Position: p.Position, Mass: p.Mass}
}

// Collect appends the particle view of each participant to dst.
func Collect(dst []Particle, ps ...Participant) []Particle {
	for _, p := range ps {
		dst = append(dst, p.Particle())
	}
	return dst
}

// Field holds the constants of the gravitational interaction. Amplifier
// scales G; it is not folded into the masses.
type Field struct {
	G         float64
	Amplifier float64
	Softening float64
}

// NewField returns a field with amplifier 1 and no softening.
func NewField(g float64) Field {
	return Field{G: g, Amplifier: 1}
}

func (f Field) strength() float64 {
	return f.G * f.Amplifier
}

// inverseCube returns 1/|d|³ for the separation d, or 0 when the pair
// coincides.
func (f Field) inverseCube(d cp.Vector) float64 {
	distSq := d.LengthSq() + f.Softening*f.Softening
	if distSq == 0 {
		return 0
	}
	return 1 / (distSq * math.Sqrt(distSq))
}

// Forces returns the net gravitational force on every particle, in input
// order. Each unordered pair is visited once and its force is added to one
// side and subtracted from the other.
func (f Field) Forces(ps []Particle, dst []cp.Vector) []cp.Vector {
	dst = resize(dst, len(ps))
	k := f.strength()

	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			d := ps[j].Position.Sub(ps[i].Position)
			inv := f.inverseCube(d)
			if inv == 0 {
				continue
			}
			force := d.Mult(k * ps[i].Mass * ps[j].Mass * inv)
			dst[i] = dst[i].Add(force)
			dst[j] = dst[j].Sub(force)
		}
	}
	return dst
}

// Accelerations returns the gravitational acceleration of every particle,
// summing G*m_j*d/|d|³ over every other particle j.
func (f Field) Accelerations(ps []Particle, dst []cp.Vector) []cp.Vector {
	dst = resize(dst, len(ps))
	k := f.strength()

	for i := range ps {
		var acc cp.Vector
		for j := range ps {
			if i == j {
				continue
			}
			d := ps[j].Position.Sub(ps[i].Position)
			acc = acc.Add(d.Mult(k * ps[j].Mass * f.inverseCube(d)))
		}
		dst[i] = acc
	}
	return dst
}

// PotentialEnergy returns the total pairwise gravitational potential energy.
// Coincident pairs are skipped.
func (f Field) PotentialEnergy(ps []Particle) float64 {
	k := f.strength()
	eps2 := f.Softening * f.Softening
	pe := 0.0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			r2 := ps[j].Position.DistanceSq(ps[i].Position) + eps2
			if r2 == 0 {
				continue
			}
			pe -= k * ps[i].Mass * ps[j].Mass / math.Sqrt(r2)
		}
	}
	return pe
}

func resize(dst []cp.Vector, n int) []cp.Vector {
	if cap(dst) < n {
		dst = make([]cp.Vector, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = cp.Vector{}
	}
	return dst
}
