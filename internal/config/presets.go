package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Preset is a named adjustment of the default configuration.
type Preset struct {
	Description string
	Apply       func(c *Config)
}

var Presets = map[string]Preset{
	"disc": {
		Description: "200 bodies drifting in an open disc",
		Apply:       func(c *Config) {},
	},
	"sparse": {
		Description: "50 slow bodies, easy to follow by eye",
		Apply: func(c *Config) {
			c.Bodies = 50
			c.MaxSpeed = 1
		},
	},
	"dense": {
		Description: "500 bodies inside a closed ring",
		Apply: func(c *Config) {
			c.Bodies = 500
			c.MaxRadius = 0.6
			c.Physics.Boundary = true
		},
	},
	"collapse": {
		Description: "bodies at rest under amplified gravity",
		Apply: func(c *Config) {
			c.MaxSpeed = 0
			c.Gravity.Amplifier = 5
		},
	},
	"accretion": {
		Description: "a heavy fixed attractor at the origin",
		Apply: func(c *Config) {
			c.Bodies = 300
			c.MaxSpeed = 0.5
			c.Gravity.Attractors = []AttractorConfig{{X: 0, Y: 0, Mass: 2000}}
		},
	},
	"binary": {
		Description: "two fixed attractors pulling the disc apart",
		Apply: func(c *Config) {
			c.Gravity.Attractors = []AttractorConfig{
				{X: -20, Y: 0, Mass: 800},
				{X: 20, Y: 0, Mass: 800},
			}
		},
	},
	"arena": {
		Description: "bouncy bodies in a walled arena",
		Apply: func(c *Config) {
			c.Physics.Boundary = true
			c.Physics.Restitution = 1
			c.Physics.Friction = 0.1
			c.MaxSpeed = 6
		},
	},
}

// GetPreset returns a fresh copy of the default configuration with the named
// preset applied. Unknown names report the closest matches.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		if suggestions := SuggestPresets(name); len(suggestions) > 0 {
			return nil, fmt.Errorf("unknown preset %q (did you mean %s?)", name, strings.Join(suggestions, ", "))
		}
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	cfg := DefaultConfig()
	cfg.Name = name
	p.Apply(cfg)
	return cfg, nil
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuggestPresets fuzzy-matches pattern against the preset names, best match
// first.
func SuggestPresets(pattern string) []string {
	matches := fuzzy.Find(pattern, ListPresets())
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}
