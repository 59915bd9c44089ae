package metrics

import (
	"github.com/san-kum/gravsim/internal/sim"
)

// Containment is the fraction of ticks on which every body stayed within
// radius of the origin.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s *sim.Simulation) {
	c.samples++
	r2 := c.radius * c.radius
	for _, b := range s.Bodies() {
		if b.Position(s.Engine()).LengthSq() > r2 {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// CollisionRate is the number of contacts begun per simulated second.
type CollisionRate struct {
	name  string
	start uint64
	last  uint64
	time  float64
	seen  bool
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(s *sim.Simulation) {
	n := s.Engine().Collisions()
	if !c.seen {
		c.start = n
		c.seen = true
	}
	c.last = n
	c.time = s.Elapsed()
}

func (c *CollisionRate) Value() float64 {
	if c.time == 0 {
		return 0
	}
	return float64(c.last-c.start) / c.time
}

func (c *CollisionRate) Reset() {
	*c = CollisionRate{name: c.name}
}
