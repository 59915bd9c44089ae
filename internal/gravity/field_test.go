package gravity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
)

func isFinite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func TestForcesThirdLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := NewField(6.6743)

	for trial := 0; trial < 50; trial++ {
		ps := []Particle{
			{Position: cp.Vector{X: rng.Float64()*100 - 50, Y: rng.Float64()*100 - 50}, Mass: rng.Float64()*10 + 0.1},
			{Position: cp.Vector{X: rng.Float64()*100 - 50, Y: rng.Float64()*100 - 50}, Mass: rng.Float64()*10 + 0.1},
		}
		forces := f.Forces(ps, nil)

		sum := forces[0].Add(forces[1])
		scale := forces[0].Length()
		if sum.Length() > 1e-12*math.Max(scale, 1) {
			t.Errorf("trial %d: forces not opposite: %v vs %v", trial, forces[0], forces[1])
		}
	}
}

func TestForcesMatchAccelerations(t *testing.T) {
	f := Field{G: 2, Amplifier: 1.5}
	ps := []Particle{
		{Position: cp.Vector{X: 0, Y: 0}, Mass: 3},
		{Position: cp.Vector{X: 4, Y: 0}, Mass: 1},
		{Position: cp.Vector{X: 0, Y: -2}, Mass: 2},
	}

	forces := f.Forces(ps, nil)
	accs := f.Accelerations(ps, nil)
	for i := range ps {
		want := accs[i].Mult(ps[i].Mass)
		if forces[i].Distance(want) > 1e-9 {
			t.Errorf("particle %d: force %v, mass*acc %v", i, forces[i], want)
		}
	}
}

func TestForcesTwoBodyMagnitude(t *testing.T) {
	f := NewField(1)
	ps := []Particle{
		{Position: cp.Vector{X: 0, Y: 0}, Mass: 2},
		{Position: cp.Vector{X: 2, Y: 0}, Mass: 3},
	}
	forces := f.Forces(ps, nil)

	// G*m1*m2/r² = 6/4
	if math.Abs(forces[0].X-1.5) > 1e-12 || forces[0].Y != 0 {
		t.Errorf("expected (1.5,0) on first body, got %v", forces[0])
	}
	if math.Abs(forces[1].X+1.5) > 1e-12 {
		t.Errorf("expected (-1.5,0) on second body, got %v", forces[1])
	}
}

func TestCoincidentBodiesContributeZero(t *testing.T) {
	f := NewField(6.6743)
	ps := []Particle{
		{Position: cp.Vector{X: 1, Y: 1}, Mass: 5},
		{Position: cp.Vector{X: 1, Y: 1}, Mass: 7},
	}

	forces := f.Forces(ps, nil)
	accs := f.Accelerations(ps, nil)
	for i := range ps {
		if forces[i] != (cp.Vector{}) {
			t.Errorf("force %d: expected zero vector, got %v", i, forces[i])
		}
		if accs[i] != (cp.Vector{}) || !isFinite(accs[i]) {
			t.Errorf("acceleration %d: expected zero vector, got %v", i, accs[i])
		}
	}
	if pe := f.PotentialEnergy(ps); pe != 0 || math.IsNaN(pe) {
		t.Errorf("expected zero potential for coincident pair, got %f", pe)
	}
}

func TestSingleBodyHasNoForce(t *testing.T) {
	f := NewField(6.6743)
	ps := []Particle{{Position: cp.Vector{X: 3, Y: 4}, Mass: 10}}

	if got := f.Forces(ps, nil); len(got) != 1 || got[0] != (cp.Vector{}) {
		t.Errorf("expected single zero force, got %v", got)
	}
	if got := f.Accelerations(ps, nil); len(got) != 1 || got[0] != (cp.Vector{}) {
		t.Errorf("expected single zero acceleration, got %v", got)
	}
}

func TestEmptySet(t *testing.T) {
	f := NewField(1)
	if got := f.Forces(nil, nil); len(got) != 0 {
		t.Errorf("expected no forces, got %v", got)
	}
}

func TestForcesReusesBuffer(t *testing.T) {
	f := NewField(1)
	ps := []Particle{
		{Position: cp.Vector{X: 0}, Mass: 1},
		{Position: cp.Vector{X: 1}, Mass: 1},
	}
	buf := make([]cp.Vector, 2, 8)
	buf[0] = cp.Vector{X: 99}

	out := f.Forces(ps, buf)
	if &out[0] != &buf[0] {
		t.Error("expected buffer to be reused")
	}
	if math.Abs(out[0].X-1) > 1e-12 {
		t.Errorf("stale value leaked into result: %v", out[0])
	}
}

func TestAmplifierScalesG(t *testing.T) {
	ps := []Particle{
		{Position: cp.Vector{X: 0}, Mass: 1},
		{Position: cp.Vector{X: 1}, Mass: 1},
	}
	base := NewField(1).Forces(ps, nil)
	amp := Field{G: 1, Amplifier: 4}.Forces(ps, nil)
	if math.Abs(amp[0].X-4*base[0].X) > 1e-12 {
		t.Errorf("expected amplified force %f, got %f", 4*base[0].X, amp[0].X)
	}
}

func TestSofteningBoundsCloseForces(t *testing.T) {
	ps := []Particle{
		{Position: cp.Vector{X: 0}, Mass: 1},
		{Position: cp.Vector{X: 1e-6}, Mass: 1},
	}
	hard := NewField(1).Forces(ps, nil)
	soft := Field{G: 1, Amplifier: 1, Softening: 0.1}.Forces(ps, nil)
	if soft[0].Length() >= hard[0].Length() {
		t.Errorf("softening should reduce close-range force: soft=%v hard=%v", soft[0], hard[0])
	}
}

func TestPotentialEnergy(t *testing.T) {
	f := NewField(2)
	ps := []Particle{
		{Position: cp.Vector{X: 0}, Mass: 3},
		{Position: cp.Vector{X: 3, Y: 4}, Mass: 5},
	}
	want := -2.0 * 3 * 5 / 5
	if got := f.PotentialEnergy(ps); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestCollectPointMasses(t *testing.T) {
	ps := Collect(nil, PointMass{Position: cp.Vector{X: 1}, Mass: 2}, PointMass{Mass: 3})
	if len(ps) != 2 || ps[0].Mass != 2 || ps[1].Mass != 3 {
		t.Errorf("unexpected particles: %v", ps)
	}
}
