package config

import "sort"

// Presets adjust the defaults for a particular look.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Mesh.Points = 60
		c.Mesh.SpeedMax = 0.8
		c.Mesh.AttractGain = 0.002
		c.Mesh.ClockStep = 0.004
	},
	"dense": func(c *Config) {
		c.Mesh.Points = 180
		c.Mesh.DriftRadius = 50
		c.Mesh.RepelRadius = 70
	},
	"sparse": func(c *Config) {
		c.Mesh.Points = 40
		c.Mesh.DriftRadius = 120
		c.Mesh.InfluenceRadius = 360
	},
	"paper": func(c *Config) {
		c.Theme = "light"
		c.Mesh.ClockStep = 0.004
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(preset string) *Config {
	apply, ok := Presets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
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
