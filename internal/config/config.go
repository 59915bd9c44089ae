package config

import (
	"fmt"
	"log"
	"os"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/camera"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	DefaultSeed        = 42
	DefaultBodies      = 200
	DefaultWorldRadius = 50.0
	DefaultMaxRadius   = 1.0
	DefaultMinRadius   = 0.05
	DefaultMaxSpeed    = 3.0
	DefaultDensity     = 1.0
	DefaultDt          = 0.016
	DefaultTicks       = 1000
	DefaultSampleEvery = 10
	DefaultRestitution = 0.8
	DefaultFriction    = 0.8
	DefaultDataDir     = "runs"
)

type Config struct {
	Name        string  `yaml:"name,omitempty"`
	Seed        int64   `yaml:"seed"`
	Bodies      int     `yaml:"bodies"`
	WorldRadius float64 `yaml:"world_radius"`
	MaxRadius   float64 `yaml:"max_radius"`
	MinRadius   float64 `yaml:"min_radius"`
	MaxSpeed    float64 `yaml:"max_speed"`
	MaxSpin     float64 `yaml:"max_spin"`
	Density     float64 `yaml:"density"`
	Dt          float64 `yaml:"dt"`
	Ticks       int     `yaml:"ticks"`
	SampleEvery int     `yaml:"sample_every"`
	DataDir     string  `yaml:"data_dir"`

	Gravity GravityConfig `yaml:"gravity"`
	Physics PhysicsConfig `yaml:"physics"`
	Camera  CameraConfig  `yaml:"camera"`
}

type GravityConfig struct {
	Constant   float64           `yaml:"constant"`
	Amplifier  float64           `yaml:"amplifier"`
	Softening  float64           `yaml:"softening"`
	Attractors []AttractorConfig `yaml:"attractors,omitempty"`
}

type AttractorConfig struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Mass float64 `yaml:"mass"`
}

type PhysicsConfig struct {
	Iterations       int     `yaml:"iterations"`
	Restitution      float64 `yaml:"restitution"`
	Friction         float64 `yaml:"friction"`
	Boundary         bool    `yaml:"boundary"`
	BoundarySegments int     `yaml:"boundary_segments"`
}

type CameraConfig struct {
	camera.Params `yaml:",inline"`
	Textures      []string        `yaml:"textures"`
	Bindings      camera.Bindings `yaml:"bindings"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:        DefaultSeed,
		Bodies:      DefaultBodies,
		WorldRadius: DefaultWorldRadius,
		MaxRadius:   DefaultMaxRadius,
		MinRadius:   DefaultMinRadius,
		MaxSpeed:    DefaultMaxSpeed,
		Density:     DefaultDensity,
		Dt:          DefaultDt,
		Ticks:       DefaultTicks,
		SampleEvery: DefaultSampleEvery,
		DataDir:     DefaultDataDir,
		Gravity: GravityConfig{
			Constant:  sim.UniversalGravity,
			Amplifier: 1,
		},
		Physics: PhysicsConfig{
			Iterations:       int(physics.DefaultOptions().Iterations),
			Restitution:      DefaultRestitution,
			Friction:         DefaultFriction,
			BoundarySegments: physics.DefaultOptions().BoundarySegments,
		},
		Camera: CameraConfig{
			Params:   camera.DefaultParams(),
			Textures: append([]string(nil), camera.DefaultTextures...),
			Bindings: camera.DefaultBindings(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func bounds(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...)
}

// Validate reports the first out-of-range value. The error wraps
// dynamo.ErrParameterBounds.
func (c *Config) Validate() error {
	switch {
	case c.Bodies < 0:
		return bounds("bodies must be non-negative, got %d", c.Bodies)
	case c.WorldRadius <= 0:
		return bounds("world_radius must be positive, got %f", c.WorldRadius)
	case c.MaxRadius <= 0:
		return bounds("max_radius must be positive, got %f", c.MaxRadius)
	case c.MinRadius <= 0 || c.MinRadius > c.MaxRadius:
		return bounds("min_radius must be in (0, max_radius], got %f", c.MinRadius)
	case c.MaxSpeed < 0:
		return bounds("max_speed must be non-negative, got %f", c.MaxSpeed)
	case c.MaxSpin < 0:
		return bounds("max_spin must be non-negative, got %f", c.MaxSpin)
	case c.Density <= 0:
		return bounds("density must be positive, got %f", c.Density)
	case c.Dt <= 0:
		return bounds("dt must be positive, got %f", c.Dt)
	case c.Ticks <= 0:
		return bounds("ticks must be positive, got %d", c.Ticks)
	case c.SampleEvery < 1:
		return bounds("sample_every must be at least 1, got %d", c.SampleEvery)
	}

	g := c.Gravity
	switch {
	case g.Constant < 0:
		return bounds("gravity.constant must be non-negative, got %f", g.Constant)
	case g.Amplifier < 0:
		return bounds("gravity.amplifier must be non-negative, got %f", g.Amplifier)
	case g.Softening < 0:
		return bounds("gravity.softening must be non-negative, got %f", g.Softening)
	}
	for i, a := range g.Attractors {
		if a.Mass < 0 {
			return bounds("gravity.attractors[%d].mass must be non-negative, got %f", i, a.Mass)
		}
	}

	p := c.Physics
	switch {
	case p.Iterations < 1:
		return bounds("physics.iterations must be at least 1, got %d", p.Iterations)
	case p.Restitution < 0 || p.Restitution > 1:
		return bounds("physics.restitution must be in [0, 1], got %f", p.Restitution)
	case p.Friction < 0:
		return bounds("physics.friction must be non-negative, got %f", p.Friction)
	case p.Boundary && p.BoundarySegments < 3:
		return bounds("physics.boundary_segments must be at least 3, got %d", p.BoundarySegments)
	}

	return c.Camera.validate()
}

func (c CameraConfig) validate() error {
	switch {
	case c.MinZoom <= 0:
		return bounds("camera.min_zoom must be positive, got %f", c.MinZoom)
	case c.MaxZoom < c.MinZoom:
		return bounds("camera.max_zoom must be at least min_zoom, got %f", c.MaxZoom)
	case c.Zoom < c.MinZoom || c.Zoom > c.MaxZoom:
		return bounds("camera.zoom must be in [min_zoom, max_zoom], got %f", c.Zoom)
	case c.Dampening < 0 || c.Dampening > 1:
		return bounds("camera.dampening must be in [0, 1], got %f", c.Dampening)
	case c.PanSpeed < 0 || c.ZoomSpeed < 0 || c.RotateSpeed < 0:
		return bounds("camera speeds must be non-negative")
	case len(c.Textures) == 0:
		return bounds("camera.textures must not be empty")
	}

	b := c.Bindings
	seen := make(map[string]string)
	for action, key := range map[string]string{
		"rotate_left": string(b.RotateLeft), "rotate_right": string(b.RotateRight),
		"zoom_in": string(b.ZoomIn), "zoom_out": string(b.ZoomOut),
		"up": string(b.Up), "left": string(b.Left), "down": string(b.Down), "right": string(b.Right),
		"wireframe": string(b.Wireframe), "pause": string(b.Pause), "texture": string(b.Texture),
	} {
		if key == "" {
			return bounds("camera.bindings.%s must not be empty", action)
		}
		if other, ok := seen[key]; ok {
			return bounds("camera.bindings: key %q bound to both %s and %s", key, other, action)
		}
		seen[key] = action
	}
	return nil
}

// Field returns the gravity solver settings.
func (c *Config) Field() gravity.Field {
	return gravity.Field{
		G:         c.Gravity.Constant,
		Amplifier: c.Gravity.Amplifier,
		Softening: c.Gravity.Softening,
	}
}

// SimConfig converts c into the simulation's build parameters.
func (c *Config) SimConfig(logger *log.Logger) sim.Config {
	attractors := make([]gravity.PointMass, len(c.Gravity.Attractors))
	for i, a := range c.Gravity.Attractors {
		attractors[i] = gravity.PointMass{Position: cp.Vector{X: a.X, Y: a.Y}, Mass: a.Mass}
	}

	return sim.Config{
		Seed: c.Seed,
		Spawn: body.SpawnParams{
			Count:       c.Bodies,
			WorldRadius: c.WorldRadius,
			MaxRadius:   c.MaxRadius,
			MinRadius:   c.MinRadius,
			MaxSpeed:    c.MaxSpeed,
			MaxSpin:     c.MaxSpin,
			Density:     c.Density,
			Restitution: c.Physics.Restitution,
			Friction:    c.Physics.Friction,
		},
		Field:      c.Field(),
		Attractors: attractors,
		Physics: physics.Options{
			Iterations:       uint(c.Physics.Iterations),
			WorldRadius:      c.WorldRadius,
			Boundary:         c.Physics.Boundary,
			BoundarySegments: c.Physics.BoundarySegments,
			Logger:           logger,
		},
		Camera:   c.Camera.Params,
		Bindings: c.Camera.Bindings,
		Textures: c.Camera.Textures,
		Logger:   logger,
	}
}
