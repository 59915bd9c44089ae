// Package frame builds renderer-agnostic descriptions of a simulation frame.
//
// A Descriptor carries everything an external renderer needs to draw one
// frame: an instance transform per body, the camera, and the display
// toggles. It is JSON encoded for the websocket stream.
package frame

import (
	"github.com/san-kum/gravsim/internal/sim"
)

var (
	filledIndices    = []uint16{0, 1, 2, 0, 2, 3}
	wireframeIndices = []uint16{0, 1, 2, 3, 0}
)

// Transform places a unit quad on a body: scaled to the body's diameter,
// rotated and translated to its pose.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
}

// Camera is the view transform: translate by -Pan, rotate by -Rotation,
// scale by Zoom, then an orthographic projection of ViewW by ViewH.
type Camera struct {
	PanX     float64 `json:"pan_x"`
	PanY     float64 `json:"pan_y"`
	Rotation float64 `json:"rotation"`
	Zoom     float64 `json:"zoom"`
	ViewW    float64 `json:"view_w,omitempty"`
	ViewH    float64 `json:"view_h,omitempty"`
}

// Attractor is a fixed point mass drawn as a marker.
type Attractor struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Mass float64 `json:"mass"`
}

type Descriptor struct {
	Tick       uint64      `json:"tick"`
	Time       float64     `json:"time"`
	Paused     bool        `json:"paused"`
	Wireframe  bool        `json:"wireframe"`
	Texture    string      `json:"texture"`
	Indices    []uint16    `json:"indices"`
	Camera     Camera      `json:"camera"`
	Bodies     []Transform `json:"bodies"`
	Attractors []Attractor `json:"attractors,omitempty"`
	Collisions uint64      `json:"collisions"`
}

// Build snapshots s. viewW and viewH may be zero when the viewport size is
// owned by the renderer.
func Build(s *sim.Simulation, viewW, viewH float64) *Descriptor {
	q := s.Engine()
	bodies := s.Bodies()
	v := s.View

	d := &Descriptor{
		Tick:      s.Tick(),
		Time:      s.Elapsed(),
		Paused:    s.Paused(),
		Wireframe: v.Wireframe,
		Texture:   v.Texture(),
		Indices:   Indices(v.Wireframe),
		Camera: Camera{
			PanX:     v.Pan.X,
			PanY:     v.Pan.Y,
			Rotation: v.Rotation,
			Zoom:     v.Zoom,
			ViewW:    viewW,
			ViewH:    viewH,
		},
		Bodies:     make([]Transform, len(bodies)),
		Collisions: q.Collisions(),
	}

	for i, b := range bodies {
		p := b.Position(q)
		d.Bodies[i] = Transform{
			X:        p.X,
			Y:        p.Y,
			Rotation: b.Rotation(q),
			Scale:    2 * b.Radius(q),
		}
	}
	for _, a := range s.Attractors() {
		d.Attractors = append(d.Attractors, Attractor{X: a.Position.X, Y: a.Position.Y, Mass: a.Mass})
	}
	return d
}

// Indices returns the quad index list: a line loop in wireframe mode, two
// triangles otherwise.
func Indices(wireframe bool) []uint16 {
	if wireframe {
		return wireframeIndices
	}
	return filledIndices
}
