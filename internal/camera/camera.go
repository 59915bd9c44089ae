// Package camera turns held keys and elapsed time into view parameters.
package camera

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/gravsim/internal/input"
)

const (
	DefaultPanSpeed    = 400.0
	DefaultZoomSpeed   = 5.0
	DefaultRotateSpeed = 5.0
	DefaultDampening   = 0.05
	DefaultZoom        = 100.0
	DefaultMinZoom     = 0.01
	DefaultMaxZoom     = 10000.0

	// referenceRate is the frame rate at which Dampening is applied once per
	// frame when FrameIndependent is set.
	referenceRate = 60.0
)

// Params holds the tunable camera speeds.
type Params struct {
	PanSpeed         float64 `yaml:"pan_speed"`
	ZoomSpeed        float64 `yaml:"zoom_speed"`
	RotateSpeed      float64 `yaml:"rotate_speed"`
	Dampening        float64 `yaml:"dampening"`
	FrameIndependent bool    `yaml:"frame_independent"`
	Zoom             float64 `yaml:"zoom"`
	MinZoom          float64 `yaml:"min_zoom"`
	MaxZoom          float64 `yaml:"max_zoom"`
}

func DefaultParams() Params {
	return Params{
		PanSpeed:    DefaultPanSpeed,
		ZoomSpeed:   DefaultZoomSpeed,
		RotateSpeed: DefaultRotateSpeed,
		Dampening:   DefaultDampening,
		Zoom:        DefaultZoom,
		MinZoom:     DefaultMinZoom,
		MaxZoom:     DefaultMaxZoom,
	}
}

// Bindings maps camera actions to logical keys.
type Bindings struct {
	RotateLeft  input.Key `yaml:"rotate_left"`
	RotateRight input.Key `yaml:"rotate_right"`
	ZoomIn      input.Key `yaml:"zoom_in"`
	ZoomOut     input.Key `yaml:"zoom_out"`
	Up          input.Key `yaml:"up"`
	Left        input.Key `yaml:"left"`
	Down        input.Key `yaml:"down"`
	Right       input.Key `yaml:"right"`
	Wireframe   input.Key `yaml:"wireframe"`
	Pause       input.Key `yaml:"pause"`
	Texture     input.Key `yaml:"texture"`
}

func DefaultBindings() Bindings {
	return Bindings{
		RotateLeft:  "left",
		RotateRight: "right",
		ZoomIn:      "up",
		ZoomOut:     "down",
		Up:          "w",
		Left:        "a",
		Down:        "s",
		Right:       "d",
		Wireframe:   "q",
		Pause:       "space",
		Texture:     "e",
	}
}

// DefaultTextures are the texture keys an external renderer is expected to
// have loaded.
var DefaultTextures = []string{"moon", "cookie"}

// View is the camera state. Zoom is view units per world unit and is kept
// inside [MinZoom, MaxZoom].
type View struct {
	Pan         cp.Vector
	PanVelocity cp.Vector
	Rotation    float64
	Zoom        float64
	Wireframe   bool

	Params   Params
	Bindings Bindings

	textures []string
	texture  int
}

// New returns a view at the origin. An empty textures list falls back to
// DefaultTextures.
func New(p Params, b Bindings, textures []string) *View {
	if len(textures) == 0 {
		textures = DefaultTextures
	}
	v := &View{
		Params:   p,
		Bindings: b,
		textures: append([]string(nil), textures...),
	}
	v.Zoom = v.clampZoom(p.Zoom)
	return v
}

// Texture returns the selected texture key.
func (v *View) Texture() string {
	return v.textures[v.texture]
}

// Textures returns the texture cycle.
func (v *View) Textures() []string {
	return v.textures
}

// Update applies one frame of camera input: toggles first, then motion.
func (v *View) Update(dt float64, in *input.Controller) {
	v.ApplyToggles(in)
	v.Move(dt, in)
}

// ApplyToggles flips wireframe and cycles the texture when their keys are
// released this tick.
func (v *View) ApplyToggles(in *input.Controller) {
	if in.IsReleased(v.Bindings.Wireframe) {
		v.Wireframe = !v.Wireframe
	}
	if in.IsReleased(v.Bindings.Texture) {
		v.texture = (v.texture + 1) % len(v.textures)
	}
}

// Move integrates rotation, zoom and pan for dt seconds.
func (v *View) Move(dt float64, in *input.Controller) {
	b, p := v.Bindings, v.Params

	if in.IsActive(b.RotateLeft) {
		v.Rotation += p.RotateSpeed * dt
	}
	if in.IsActive(b.RotateRight) {
		v.Rotation -= p.RotateSpeed * dt
	}

	if in.IsActive(b.ZoomIn) {
		v.Zoom += v.Zoom * p.ZoomSpeed * dt
	}
	if in.IsActive(b.ZoomOut) {
		v.Zoom -= v.Zoom * p.ZoomSpeed * dt
	}
	v.Zoom = v.clampZoom(v.Zoom)

	if in.AnyActive(b.Up, b.Left, b.Down, b.Right) {
		v.PanVelocity = v.direction(in).Mult(p.PanSpeed / v.Zoom)
	} else if v.PanVelocity.LengthSq() > 0 {
		v.PanVelocity = v.PanVelocity.Sub(v.PanVelocity.Mult(v.dampening(dt)))
	}

	v.Pan = v.Pan.Add(v.PanVelocity.Mult(dt))
}

// direction sums the rotated unit vectors of the held pan keys and normalizes
// the result. Opposing keys cancel to zero.
func (v *View) direction(in *input.Controller) cp.Vector {
	up := cp.ForAngle(v.Rotation + math.Pi/2)
	right := cp.ForAngle(v.Rotation)

	var dir cp.Vector
	if in.IsActive(v.Bindings.Up) {
		dir = dir.Add(up)
	}
	if in.IsActive(v.Bindings.Left) {
		dir = dir.Sub(right)
	}
	if in.IsActive(v.Bindings.Down) {
		dir = dir.Sub(up)
	}
	if in.IsActive(v.Bindings.Right) {
		dir = dir.Add(right)
	}
	if dir.LengthSq() < 1e-18 {
		return cp.Vector{}
	}
	return dir.Normalize()
}

func (v *View) dampening(dt float64) float64 {
	d := v.Params.Dampening
	if !v.Params.FrameIndependent {
		return d
	}
	if d >= 1 {
		return 1
	}
	return 1 - math.Pow(1-d, dt*referenceRate)
}

func (v *View) clampZoom(z float64) float64 {
	lo, hi := v.Params.MinZoom, v.Params.MaxZoom
	if lo <= 0 {
		lo = DefaultMinZoom
	}
	if hi < lo {
		hi = math.Inf(1)
	}
	if math.IsNaN(z) || z < lo {
		return lo
	}
	if z > hi {
		return hi
	}
	return z
}

// FitZoom sets the zoom so a disc of worldRadius fills the shorter side of a
// viewW by viewH viewport.
func (v *View) FitZoom(viewW, viewH, worldRadius float64) {
	if worldRadius <= 0 {
		return
	}
	v.Zoom = v.clampZoom(math.Min(viewW, viewH) / (2 * worldRadius))
}

// WorldToView projects a world point into view coordinates centred on the
// viewport origin: translate by -Pan, rotate by -Rotation, scale by Zoom.
func (v *View) WorldToView(p cp.Vector) cp.Vector {
	return p.Sub(v.Pan).Rotate(cp.ForAngle(-v.Rotation)).Mult(v.Zoom)
}
