package metrics

import (
	"github.com/san-kum/gravsim/internal/sim"
)

// Sample is one row of a run's time series.
type Sample struct {
	Tick       uint64  `json:"tick"`
	Time       float64 `json:"time"`
	Kinetic    float64 `json:"kinetic"`
	Potential  float64 `json:"potential"`
	Total      float64 `json:"total"`
	MomentumX  float64 `json:"momentum_x"`
	MomentumY  float64 `json:"momentum_y"`
	Collisions uint64  `json:"collisions"`
}

// Recorder keeps a Sample every Stride ticks. Limit bounds the number of
// retained samples; older samples are dropped first.
type Recorder struct {
	Stride int
	Limit  int

	samples []Sample
}

func NewRecorder(stride, limit int) *Recorder {
	if stride < 1 {
		stride = 1
	}
	return &Recorder{Stride: stride, Limit: limit}
}

// Snapshot computes a Sample from the current simulation state.
func Snapshot(s *sim.Simulation) Sample {
	ke := Kinetic(s.Engine(), s.Bodies())
	pe := s.Field().PotentialEnergy(s.Particles())
	p := Momentum(s.Engine(), s.Bodies())
	return Sample{
		Tick:       s.Tick(),
		Time:       s.Elapsed(),
		Kinetic:    ke,
		Potential:  pe,
		Total:      ke + pe,
		MomentumX:  p.X,
		MomentumY:  p.Y,
		Collisions: s.Engine().Collisions(),
	}
}

func (r *Recorder) OnStep(s *sim.Simulation) {
	if s.Tick()%uint64(r.Stride) != 0 {
		return
	}
	r.samples = append(r.samples, Snapshot(s))
	if r.Limit > 0 && len(r.samples) > r.Limit {
		r.samples = r.samples[len(r.samples)-r.Limit:]
	}
}

func (r *Recorder) Samples() []Sample {
	return r.samples
}

// Series returns one column of the recorded samples.
func (r *Recorder) Series(field func(Sample) float64) []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = field(s)
	}
	return out
}

func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
}
