package body

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// SpawnParams describes a random disc of bodies.
type SpawnParams struct {
	Count       int
	WorldRadius float64
	MaxRadius   float64
	MinRadius   float64
	MaxSpeed    float64
	MaxSpin     float64
	Density     float64
	Restitution float64
	Friction    float64
}

// DefaultSpawnParams returns the disc used by the interactive simulation.
func DefaultSpawnParams() SpawnParams {
	return SpawnParams{
		Count:       200,
		WorldRadius: 50,
		MaxRadius:   1.0,
		MinRadius:   0.05,
		MaxSpeed:    3.0,
		Density:     1.0,
		Restitution: 0.8,
		Friction:    0.8,
	}
}

// RandomDef draws one body uniformly distributed over the world disc with a
// random heading and speed.
func RandomDef(rng *rand.Rand, p SpawnParams) dynamo.BodyDef {
	radius := math.Max(rng.Float64()*p.MaxRadius, p.MinRadius)

	r := math.Max(p.WorldRadius*math.Sqrt(rng.Float64())-radius, 0)
	theta := rng.Float64() * 2 * math.Pi
	heading := rng.Float64() * 2 * math.Pi
	speed := rng.Float64() * p.MaxSpeed

	return dynamo.BodyDef{
		Position:        cp.ForAngle(theta).Mult(r),
		Velocity:        cp.ForAngle(heading).Mult(speed),
		Rotation:        rng.Float64() * 2 * math.Pi,
		AngularVelocity: rng.Float64() * p.MaxSpin,
		Radius:          radius,
		Density:         p.Density,
		Restitution:     p.Restitution,
		Friction:        p.Friction,
	}
}

// Spawn creates p.Count random bodies in e.
func Spawn(e dynamo.Engine, rng *rand.Rand, p SpawnParams) Set {
	set := make(Set, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		set = append(set, Create(e, RandomDef(rng, p)))
	}
	return set
}
